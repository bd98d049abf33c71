// Package repo 定义媒体与相册的持久化接口，屏蔽底层数据库实现.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/yeisme/mediavault/pkg/internal/model"
)

var (
	// ErrNotFound 目标记录不存在.
	ErrNotFound = errors.New("repo: record not found")
	// ErrConflict 唯一约束冲突（如 share_code 重复）.
	ErrConflict = errors.New("repo: unique constraint conflict")
)

// MediaFilter 媒体列表的过滤与分页参数.
type MediaFilter struct {
	// Category 分类过滤，不区分大小写的子串匹配，空表示不过滤
	Category string
	// FileType image|video，空表示不过滤
	FileType string
	// Search 在 title/category/description 上做不区分大小写的 LIKE
	Search string
	// SortBy created_at|view_count|filename，空默认 created_at
	SortBy string
	// SortOrder asc|desc，空默认 desc
	SortOrder string
	Offset    int
	Limit     int
}

// MediaStats 媒体库聚合统计.
type MediaStats struct {
	TotalMedia  int64
	TotalImages int64
	TotalVideos int64
	TotalViews  int64
	TotalSize   int64
}

// AlbumWithStats 相册及其聚合信息（成员数量与封面）.
type AlbumWithStats struct {
	model.Album

	MediaCount int64
	// CoverURL 相册内 order_index 最小的媒体 URL（伪装后），可为空
	CoverURL string
}

// MediaWithOrder 相册内的媒体及其展示顺序.
type MediaWithOrder struct {
	model.Media

	OrderIndex int
}

// MediaRepo 媒体与浏览审计的持久化接口.
type MediaRepo interface {
	Create(ctx context.Context, m *model.Media) error
	Get(ctx context.Context, id string) (*model.Media, error)
	// GetByFilename 按文件名查询媒体；同名取最近登记的一条
	GetByFilename(ctx context.Context, filename string) (*model.Media, error)
	Update(ctx context.Context, m *model.Media) error
	// Delete 硬删除媒体，并在同一事务内清理相册关联与浏览审计
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f MediaFilter) ([]model.Media, int64, error)
	// ListIDs 返回全部媒体 ID，供清空操作逐条删除
	ListIDs(ctx context.Context) ([]string, error)
	// ListByIDs 按 ID 批量查询，忽略不存在的 ID
	ListByIDs(ctx context.Context, ids []string) ([]model.Media, error)

	// IncrementView 原子自增浏览计数并返回新值
	IncrementView(ctx context.Context, id string) (int64, error)
	// InsertView 写入一条浏览审计
	InsertView(ctx context.Context, v *model.MediaView) error
	// PruneViews 删除 before 之前的浏览审计，返回删除条数
	PruneViews(ctx context.Context, before time.Time) (int64, error)

	// Categories 返回去重后的分类列表（剔除空白与占位分类，大小写无关排序）
	Categories(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*MediaStats, error)
}

// AlbumRepo 相册与相册成员的持久化接口.
type AlbumRepo interface {
	// Create 插入相册；share_code 撞唯一约束时返回 ErrConflict
	Create(ctx context.Context, a *model.Album) error
	Get(ctx context.Context, id string) (*model.Album, error)
	GetByShareCode(ctx context.Context, code string) (*model.Album, error)
	Update(ctx context.Context, a *model.Album) error
	// Delete 删除相册并在同一事务内清理关联（媒体本体保留）
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]AlbumWithStats, int64, error)
	Count(ctx context.Context) (int64, error)

	// AddMedia 批量加入媒体：order_index 续接当前最大值，已存在的关联
	// 跳过不报错，返回实际新建的条数
	AddMedia(ctx context.Context, albumID string, mediaIDs []string) (int, error)
	// RemoveMedia 批量移除媒体，返回实际删除的条数
	RemoveMedia(ctx context.Context, albumID string, mediaIDs []string) (int, error)
	// ListMedia 返回相册内媒体，按 order_index 升序
	ListMedia(ctx context.Context, albumID string) ([]MediaWithOrder, error)
}
