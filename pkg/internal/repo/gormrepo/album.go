package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/repo"
)

// AlbumRepo repo.AlbumRepo 的 GORM 实现.
type AlbumRepo struct {
	db *gorm.DB
}

// NewAlbumRepo 创建 AlbumRepo.
func NewAlbumRepo(db *gorm.DB) *AlbumRepo {
	return &AlbumRepo{db: db}
}

// Create 插入相册；share_code 撞唯一约束时返回 ErrConflict，
// 调用方可重新生成后重试.
func (r *AlbumRepo) Create(ctx context.Context, a *model.Album) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repo.ErrConflict
		}

		return fmt.Errorf("create album: %w", err)
	}

	return nil
}

// Get 按 ID 查询相册.
func (r *AlbumRepo) Get(ctx context.Context, id string) (*model.Album, error) {
	var a model.Album

	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get album %s: %w", id, err)
	}

	return &a, nil
}

// GetByShareCode 按分享码查询相册.
func (r *AlbumRepo) GetByShareCode(ctx context.Context, code string) (*model.Album, error) {
	var a model.Album

	err := r.db.WithContext(ctx).First(&a, "share_code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get album by share code: %w", err)
	}

	return &a, nil
}

// Update 更新相册元数据.
func (r *AlbumRepo) Update(ctx context.Context, a *model.Album) error {
	result := r.db.WithContext(ctx).Model(&model.Album{}).Where("id = ?", a.ID).
		Select("name", "description", "is_public", "updated_at").
		Updates(a)
	if result.Error != nil {
		return fmt.Errorf("update album %s: %w", a.ID, result.Error)
	}

	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}

	return nil
}

// Delete 删除相册并清理关联，媒体本体保留.
func (r *AlbumRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("album_id = ?", id).Delete(&model.AlbumMedia{}).Error; err != nil {
			return fmt.Errorf("delete album links for album %s: %w", id, err)
		}

		result := tx.Where("id = ?", id).Delete(&model.Album{})
		if result.Error != nil {
			return fmt.Errorf("delete album %s: %w", id, result.Error)
		}

		if result.RowsAffected == 0 {
			return repo.ErrNotFound
		}

		return nil
	})
}

// List 相册列表，附带成员数量与封面.
func (r *AlbumRepo) List(ctx context.Context) ([]repo.AlbumWithStats, int64, error) {
	var albums []model.Album
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&albums).Error; err != nil {
		return nil, 0, fmt.Errorf("list albums: %w", err)
	}

	// 成员数量
	var countRows []struct {
		AlbumID string
		Cnt     int64
	}

	err := r.db.WithContext(ctx).Model(&model.AlbumMedia{}).
		Select("album_id, COUNT(*) AS cnt").
		Group("album_id").
		Scan(&countRows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("count album media: %w", err)
	}

	counts := make(map[string]int64, len(countRows))
	for _, row := range countRows {
		counts[row.AlbumID] = row.Cnt
	}

	// 封面：每个相册内 order_index 最小的媒体
	var coverRows []struct {
		AlbumID string
		URL     string
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT am.album_id AS album_id, m.url AS url
		FROM album_media am
		JOIN media m ON m.id = am.media_id
		JOIN (
			SELECT album_id, MIN(order_index) AS min_idx
			FROM album_media
			GROUP BY album_id
		) x ON x.album_id = am.album_id AND x.min_idx = am.order_index`).
		Scan(&coverRows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("album covers: %w", err)
	}

	covers := make(map[string]string, len(coverRows))
	for _, row := range coverRows {
		covers[row.AlbumID] = row.URL
	}

	out := make([]repo.AlbumWithStats, 0, len(albums))
	for _, a := range albums {
		out = append(out, repo.AlbumWithStats{
			Album:      a,
			MediaCount: counts[a.ID],
			CoverURL:   covers[a.ID],
		})
	}

	return out, int64(len(out)), nil
}

// Count 相册总数.
func (r *AlbumRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Album{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count albums: %w", err)
	}

	return total, nil
}

// AddMedia 批量加入媒体：order_index 续接当前最大值；
// 已存在的关联通过 ON CONFLICT DO NOTHING 幂等跳过，返回实际插入条数.
func (r *AlbumRepo) AddMedia(ctx context.Context, albumID string, mediaIDs []string) (int, error) {
	if len(mediaIDs) == 0 {
		return 0, nil
	}

	var added int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&model.Album{}).Where("id = ?", albumID).Count(&exists).Error; err != nil {
			return fmt.Errorf("check album %s: %w", albumID, err)
		}

		if exists == 0 {
			return repo.ErrNotFound
		}

		// 当前最大 order_index；空相册取 0，第一个成员落在 1
		var maxIdx int64
		if err := tx.Model(&model.AlbumMedia{}).
			Where("album_id = ?", albumID).
			Select("COALESCE(MAX(order_index), 0)").
			Scan(&maxIdx).Error; err != nil {
			return fmt.Errorf("max order index for album %s: %w", albumID, err)
		}

		links := make([]model.AlbumMedia, 0, len(mediaIDs))
		for i, mid := range mediaIDs {
			links = append(links, model.AlbumMedia{
				AlbumID:    albumID,
				MediaID:    mid,
				OrderIndex: int(maxIdx) + 1 + i,
			})
		}

		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "album_id"}, {Name: "media_id"}},
			DoNothing: true,
		}).Create(&links)
		if result.Error != nil {
			return fmt.Errorf("add media to album %s: %w", albumID, result.Error)
		}

		added = result.RowsAffected

		return nil
	})
	if err != nil {
		return 0, err
	}

	return int(added), nil
}

// RemoveMedia 批量移除媒体.
func (r *AlbumRepo) RemoveMedia(ctx context.Context, albumID string, mediaIDs []string) (int, error) {
	if len(mediaIDs) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Where("album_id = ? AND media_id IN ?", albumID, mediaIDs).
		Delete(&model.AlbumMedia{})
	if result.Error != nil {
		return 0, fmt.Errorf("remove media from album %s: %w", albumID, result.Error)
	}

	return int(result.RowsAffected), nil
}

// ListMedia 相册内媒体，按 order_index 升序.
func (r *AlbumRepo) ListMedia(ctx context.Context, albumID string) ([]repo.MediaWithOrder, error) {
	var rows []struct {
		model.Media

		OrderIndex int
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT m.*, am.order_index AS order_index
		FROM album_media am
		JOIN media m ON m.id = am.media_id
		WHERE am.album_id = ?
		ORDER BY am.order_index ASC`, albumID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list album media %s: %w", albumID, err)
	}

	out := make([]repo.MediaWithOrder, 0, len(rows))
	for _, row := range rows {
		out = append(out, repo.MediaWithOrder{Media: row.Media, OrderIndex: row.OrderIndex})
	}

	return out, nil
}
