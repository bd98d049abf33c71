package service

import (
	"context"
	"fmt"

	ctxPkg "github.com/yeisme/mediavault/pkg/context"
	"github.com/yeisme/mediavault/pkg/internal/repo"
	"github.com/yeisme/mediavault/pkg/internal/types"
)

// StatsService 负责媒体库概览统计与分类列表.
type StatsService struct {
	media repo.MediaRepo
	album repo.AlbumRepo
}

// NewStatsService 创建并返回一个新的 StatsService 实例.
func NewStatsService(c context.Context) *StatsService {
	return &StatsService{
		media: ctxPkg.GetMediaRepo(c),
		album: ctxPkg.GetAlbumRepo(c),
	}
}

// NewStatsServiceWith 以显式依赖构造 StatsService，测试使用.
func NewStatsServiceWith(media repo.MediaRepo, album repo.AlbumRepo) *StatsService {
	return &StatsService{media: media, album: album}
}

// Overview 汇总媒体库统计：媒体总量、图片/视频数量、相册数、
// 浏览总量与占用字节数.
func (s *StatsService) Overview(ctx context.Context) (*types.StatsResponse, error) {
	mediaStats, err := s.media.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("media stats: %w", err)
	}

	albums, err := s.album.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count albums: %w", err)
	}

	return &types.StatsResponse{
		TotalMedia:  mediaStats.TotalMedia,
		TotalImages: mediaStats.TotalImages,
		TotalVideos: mediaStats.TotalVideos,
		TotalAlbums: albums,
		TotalViews:  mediaStats.TotalViews,
		TotalSize:   mediaStats.TotalSize,
	}, nil
}

// Categories 返回去重后的分类列表.
func (s *StatsService) Categories(ctx context.Context) (*types.ListCategoriesResponse, error) {
	categories, err := s.media.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return &types.ListCategoriesResponse{Categories: categories}, nil
}
