package service_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/repo/memrepo"
	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/internal/types"
)

// TestOverview 测试媒体库概览统计.
func TestOverview(t *testing.T) {
	store := memrepo.New()
	ctx := context.Background()

	media := []*model.Media{
		{ID: "i1", Filename: "a.jpg", FileType: model.MediaTypeImage, FileSize: 100, Category: "art"},
		{ID: "i2", Filename: "b.png", FileType: model.MediaTypeImage, FileSize: 200, Category: model.DefaultCategory},
		{ID: "v1", Filename: "c.mp4", FileType: model.MediaTypeVideo, FileSize: 300, Category: "clips"},
	}
	for _, m := range media {
		if err := store.Create(ctx, m); err != nil {
			t.Fatalf("create media %s: %v", m.ID, err)
		}
	}

	for range 4 {
		if _, err := store.IncrementView(ctx, "i1"); err != nil {
			t.Fatalf("increment view: %v", err)
		}
	}

	if err := store.Albums().Create(ctx, &model.Album{ID: "a1", Name: "album", ShareCode: "abcd1234"}); err != nil {
		t.Fatalf("create album: %v", err)
	}

	svc := service.NewStatsServiceWith(store, store.Albums())

	got, err := svc.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}

	want := &types.StatsResponse{
		TotalMedia:  3,
		TotalImages: 2,
		TotalVideos: 1,
		TotalAlbums: 1,
		TotalViews:  4,
		TotalSize:   600,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Overview = %+v, want %+v", got, want)
	}
}

// TestCategories 测试分类列表去重并剔除占位分类.
func TestCategories(t *testing.T) {
	store := memrepo.New()
	ctx := context.Background()

	media := []*model.Media{
		{ID: "1", Filename: "a.jpg", Category: "art"},
		{ID: "2", Filename: "b.jpg", Category: "art"},
		{ID: "3", Filename: "c.jpg", Category: "Memes"},
		{ID: "4", Filename: "d.jpg", Category: model.DefaultCategory},
	}
	for _, m := range media {
		if err := store.Create(ctx, m); err != nil {
			t.Fatalf("create media %s: %v", m.ID, err)
		}
	}

	svc := service.NewStatsServiceWith(store, store.Albums())

	got, err := svc.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}

	want := []string{"art", "Memes"}
	if !reflect.DeepEqual(got.Categories, want) {
		t.Errorf("Categories = %v, want %v", got.Categories, want)
	}
}
