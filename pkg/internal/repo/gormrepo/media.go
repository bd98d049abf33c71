// Package gormrepo 提供 repo 接口的 GORM 实现，支持 PostgreSQL/MySQL/SQLite.
package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/repo"
)

// MediaRepo repo.MediaRepo 的 GORM 实现.
type MediaRepo struct {
	db *gorm.DB
}

// NewMediaRepo 创建 MediaRepo.
func NewMediaRepo(db *gorm.DB) *MediaRepo {
	return &MediaRepo{db: db}
}

// Create 插入媒体记录.
func (r *MediaRepo) Create(ctx context.Context, m *model.Media) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repo.ErrConflict
		}

		return fmt.Errorf("create media: %w", err)
	}

	return nil
}

// Get 按 ID 查询媒体.
func (r *MediaRepo) Get(ctx context.Context, id string) (*model.Media, error) {
	var m model.Media

	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get media %s: %w", id, err)
	}

	return &m, nil
}

// GetByFilename 按文件名查询媒体；同名取最近登记的一条.
func (r *MediaRepo) GetByFilename(ctx context.Context, filename string) (*model.Media, error) {
	var m model.Media

	err := r.db.WithContext(ctx).Where("filename = ?", filename).
		Order("created_at DESC").First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get media by filename %s: %w", filename, err)
	}

	return &m, nil
}

// Update 整行保存媒体.
func (r *MediaRepo) Update(ctx context.Context, m *model.Media) error {
	result := r.db.WithContext(ctx).Model(&model.Media{}).Where("id = ?", m.ID).
		Select("filename", "original_url", "url", "file_type", "content_type",
			"file_size", "title", "description", "category", "updated_at").
		Updates(m)
	if result.Error != nil {
		return fmt.Errorf("update media %s: %w", m.ID, result.Error)
	}

	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}

	return nil
}

// Delete 硬删除媒体，同一事务内级联清理关联与审计.
func (r *MediaRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("media_id = ?", id).Delete(&model.AlbumMedia{}).Error; err != nil {
			return fmt.Errorf("delete album links for media %s: %w", id, err)
		}

		if err := tx.Where("media_id = ?", id).Delete(&model.MediaView{}).Error; err != nil {
			return fmt.Errorf("delete views for media %s: %w", id, err)
		}

		result := tx.Where("id = ?", id).Delete(&model.Media{})
		if result.Error != nil {
			return fmt.Errorf("delete media %s: %w", id, result.Error)
		}

		if result.RowsAffected == 0 {
			return repo.ErrNotFound
		}

		return nil
	})
}

// List 过滤分页查询.
func (r *MediaRepo) List(ctx context.Context, f repo.MediaFilter) ([]model.Media, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Media{})

	if f.Category != "" {
		// 分类按子串匹配，大小写不敏感
		q = q.Where("LOWER(category) LIKE ?", "%"+strings.ToLower(f.Category)+"%")
	}

	if f.FileType != "" {
		q = q.Where("file_type = ?", f.FileType)
	}

	if f.Search != "" {
		// LOWER + LIKE 在三种方言下行为一致
		pattern := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where(
			"LOWER(title) LIKE ? OR LOWER(category) LIKE ? OR LOWER(description) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count media: %w", err)
	}

	sortBy := f.SortBy
	switch sortBy {
	case "view_count", "filename", "created_at":
	default:
		sortBy = "created_at"
	}

	order := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		order = "ASC"
	}

	q = q.Order(sortBy + " " + order)

	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}

	var media []model.Media
	if err := q.Find(&media).Error; err != nil {
		return nil, 0, fmt.Errorf("list media: %w", err)
	}

	return media, total, nil
}

// ListIDs 返回全部媒体 ID.
func (r *MediaRepo) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&model.Media{}).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list media ids: %w", err)
	}

	return ids, nil
}

// ListByIDs 按 ID 批量查询，忽略不存在的 ID.
func (r *MediaRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Media, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var media []model.Media
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&media).Error; err != nil {
		return nil, fmt.Errorf("list media by ids: %w", err)
	}

	return media, nil
}

// IncrementView 原子自增浏览计数并返回新值.
func (r *MediaRepo) IncrementView(ctx context.Context, id string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Media{}).Where("id = ?", id).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
		if result.Error != nil {
			return fmt.Errorf("increment view for media %s: %w", id, result.Error)
		}

		if result.RowsAffected == 0 {
			return repo.ErrNotFound
		}

		return tx.Model(&model.Media{}).Where("id = ?", id).
			Pluck("view_count", &count).Error
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// InsertView 写入浏览审计.
func (r *MediaRepo) InsertView(ctx context.Context, v *model.MediaView) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("insert media view: %w", err)
	}

	return nil
}

// PruneViews 删除 before 之前的浏览审计.
func (r *MediaRepo) PruneViews(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("viewed_at < ?", before).Delete(&model.MediaView{})
	if result.Error != nil {
		return 0, fmt.Errorf("prune media views: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// Categories 去重分类列表，剔除空白与占位分类，大小写无关排序.
func (r *MediaRepo) Categories(ctx context.Context) ([]string, error) {
	var categories []string

	err := r.db.WithContext(ctx).Model(&model.Media{}).
		Distinct("category").
		Where("TRIM(category) <> '' AND LOWER(category) <> ?", model.DefaultCategory).
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	sort.Slice(categories, func(i, j int) bool {
		return strings.ToLower(categories[i]) < strings.ToLower(categories[j])
	})

	return categories, nil
}

// Stats 媒体库聚合统计.
func (r *MediaRepo) Stats(ctx context.Context) (*repo.MediaStats, error) {
	var row struct {
		TotalMedia  int64
		TotalImages int64
		TotalVideos int64
		TotalViews  int64
		TotalSize   int64
	}

	err := r.db.WithContext(ctx).Model(&model.Media{}).
		Select(
			"COUNT(*) AS total_media, "+
				"COALESCE(SUM(CASE WHEN file_type = ? THEN 1 ELSE 0 END), 0) AS total_images, "+
				"COALESCE(SUM(CASE WHEN file_type = ? THEN 1 ELSE 0 END), 0) AS total_videos, "+
				"COALESCE(SUM(view_count), 0) AS total_views, "+
				"COALESCE(SUM(file_size), 0) AS total_size",
			model.MediaTypeImage, model.MediaTypeVideo,
		).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("media stats: %w", err)
	}

	return &repo.MediaStats{
		TotalMedia:  row.TotalMedia,
		TotalImages: row.TotalImages,
		TotalVideos: row.TotalVideos,
		TotalViews:  row.TotalViews,
		TotalSize:   row.TotalSize,
	}, nil
}
