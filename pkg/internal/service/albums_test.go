package service_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/repo"
	"github.com/yeisme/mediavault/pkg/internal/repo/memrepo"
	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/internal/types"
)

var shareCodePattern = regexp.MustCompile(`^[a-zA-Z0-9]{8}$`)

func newAlbumService() (*service.AlbumService, *memrepo.Store) {
	store := memrepo.New()
	svc := service.NewAlbumServiceWith(store.Albums(), store, nil, nil)

	return svc, store
}

// registerMedia 向内存存储直接写入一条媒体记录.
func registerMedia(t *testing.T, store *memrepo.Store, id string) {
	t.Helper()

	err := store.Create(context.Background(), &model.Media{
		ID:       id,
		Filename: id + ".jpg",
		URL:      "https://i.dhrv.dev/" + id + ".jpg",
		FileType: model.MediaTypeImage,
		Category: model.DefaultCategory,
	})
	if err != nil {
		t.Fatalf("create media %s: %v", id, err)
	}
}

// TestCreateAlbum 测试创建相册并生成 8 位字母数字分享码.
func TestCreateAlbum(t *testing.T) {
	svc, _ := newAlbumService()

	info, err := svc.Create(context.Background(), &types.CreateAlbumRequest{Name: "  Holiday 2026  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if info.Name != "Holiday 2026" {
		t.Errorf("Name = %q, want trimmed", info.Name)
	}

	if !shareCodePattern.MatchString(info.ShareCode) {
		t.Errorf("ShareCode = %q, want 8 alphanumeric chars", info.ShareCode)
	}

	if info.IsPublic {
		t.Error("new album is public, want private by default")
	}
}

// TestCreateAlbum_EmptyName 测试空名称返回校验错误.
func TestCreateAlbum_EmptyName(t *testing.T) {
	svc, _ := newAlbumService()

	_, err := svc.Create(context.Background(), &types.CreateAlbumRequest{Name: "   "})
	if !errors.Is(err, service.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

// TestCreateAlbum_InitialMedia 测试创建时携带初始媒体.
func TestCreateAlbum_InitialMedia(t *testing.T) {
	svc, store := newAlbumService()
	ctx := context.Background()

	registerMedia(t, store, "m1")
	registerMedia(t, store, "m2")

	info, err := svc.Create(ctx, &types.CreateAlbumRequest{
		Name:     "with members",
		MediaIDs: []string{"m1", "m2"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if info.MediaCount != 2 {
		t.Errorf("MediaCount = %d, want 2", info.MediaCount)
	}
}

// TestCreateAlbum_ShareCodesUnique 测试并发创建下分享码两两互异.
func TestCreateAlbum_ShareCodesUnique(t *testing.T) {
	svc, _ := newAlbumService()
	ctx := context.Background()

	const n = 32

	codes := make([]string, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)

		go func() {
			defer wg.Done()

			info, err := svc.Create(ctx, &types.CreateAlbumRequest{Name: "a"})
			if err != nil {
				t.Errorf("Create: %v", err)
				return
			}

			codes[i] = info.ShareCode
		}()
	}

	wg.Wait()

	seen := make(map[string]struct{}, n)

	for _, code := range codes {
		if code == "" {
			continue
		}

		if _, dup := seen[code]; dup {
			t.Fatalf("duplicate share code %q", code)
		}

		seen[code] = struct{}{}
	}

	if len(seen) != n {
		t.Errorf("distinct share codes = %d, want %d", len(seen), n)
	}
}

// conflictingAlbumRepo 前 conflicts 次 Create 返回唯一约束冲突，之后委托底层.
type conflictingAlbumRepo struct {
	repo.AlbumRepo

	conflicts int
	calls     int
}

func (r *conflictingAlbumRepo) Create(ctx context.Context, a *model.Album) error {
	r.calls++
	if r.calls <= r.conflicts {
		return repo.ErrConflict
	}

	return r.AlbumRepo.Create(ctx, a)
}

// TestCreateAlbum_ShareCodeCollisionRetry 测试撞码时重试直至成功.
func TestCreateAlbum_ShareCodeCollisionRetry(t *testing.T) {
	store := memrepo.New()
	albumRepo := &conflictingAlbumRepo{AlbumRepo: store.Albums(), conflicts: 3}
	svc := service.NewAlbumServiceWith(albumRepo, store, nil, nil)

	info, err := svc.Create(context.Background(), &types.CreateAlbumRequest{Name: "retry"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if albumRepo.calls != 4 {
		t.Errorf("Create calls = %d, want 4 (3 collisions + 1 success)", albumRepo.calls)
	}

	if !shareCodePattern.MatchString(info.ShareCode) {
		t.Errorf("ShareCode = %q, want 8 alphanumeric chars", info.ShareCode)
	}
}

// TestCreateAlbum_ShareCodeFallback 测试随机码连续撞满后使用兜底码.
func TestCreateAlbum_ShareCodeFallback(t *testing.T) {
	store := memrepo.New()
	albumRepo := &conflictingAlbumRepo{AlbumRepo: store.Albums(), conflicts: 10}
	svc := service.NewAlbumServiceWith(albumRepo, store, nil, nil)

	info, err := svc.Create(context.Background(), &types.CreateAlbumRequest{Name: "fallback"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if albumRepo.calls != 11 {
		t.Errorf("Create calls = %d, want 11 (10 collisions + fallback)", albumRepo.calls)
	}

	if len(info.ShareCode) != 8 {
		t.Errorf("fallback ShareCode = %q, want length 8", info.ShareCode)
	}
}

// TestAddMedia_Idempotent 测试重复加入幂等跳过，返回实际新建条数.
func TestAddMedia_Idempotent(t *testing.T) {
	svc, store := newAlbumService()
	ctx := context.Background()

	for _, id := range []string{"m1", "m2", "m3"} {
		registerMedia(t, store, id)
	}

	info, err := svc.Create(ctx, &types.CreateAlbumRequest{Name: "a"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, err := svc.AddMedia(ctx, info.ID, &types.AddAlbumMediaRequest{MediaIDs: []string{"m1", "m2"}})
	if err != nil {
		t.Fatalf("AddMedia: %v", err)
	}

	if first.AddedCount != 2 {
		t.Errorf("first AddedCount = %d, want 2", first.AddedCount)
	}

	second, err := svc.AddMedia(ctx, info.ID, &types.AddAlbumMediaRequest{MediaIDs: []string{"m2", "m3"}})
	if err != nil {
		t.Fatalf("AddMedia: %v", err)
	}

	if second.Requested != 2 || second.AddedCount != 1 {
		t.Errorf("second = {Requested:%d Added:%d}, want {2 1}", second.Requested, second.AddedCount)
	}
}

// TestAddMedia_AlbumNotFound 测试向不存在的相册加入媒体返回 ErrNotFound.
func TestAddMedia_AlbumNotFound(t *testing.T) {
	svc, _ := newAlbumService()

	_, err := svc.AddMedia(context.Background(), "missing", &types.AddAlbumMediaRequest{MediaIDs: []string{"m1"}})
	if !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestGet_OrderedMembers 测试相册详情按加入顺序返回成员与 order_index.
func TestGet_OrderedMembers(t *testing.T) {
	svc, store := newAlbumService()
	ctx := context.Background()

	for _, id := range []string{"m1", "m2", "m3"} {
		registerMedia(t, store, id)
	}

	info, err := svc.Create(ctx, &types.CreateAlbumRequest{Name: "a", MediaIDs: []string{"m1", "m2"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.AddMedia(ctx, info.ID, &types.AddAlbumMediaRequest{MediaIDs: []string{"m3"}}); err != nil {
		t.Fatalf("AddMedia: %v", err)
	}

	detail, err := svc.Get(ctx, info.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if detail.Album.MediaCount != 3 {
		t.Errorf("MediaCount = %d, want 3", detail.Album.MediaCount)
	}

	wantOrder := []string{"m1", "m2", "m3"}

	for i, m := range detail.Media {
		if m.ID != wantOrder[i] {
			t.Errorf("media[%d] = %s, want %s", i, m.ID, wantOrder[i])
		}

		// 首个成员从 1 起，后续取当前最大值 +1
		if m.OrderIndex != i+1 {
			t.Errorf("media[%d].OrderIndex = %d, want %d", i, m.OrderIndex, i+1)
		}
	}

	if detail.Album.CoverURL != "https://i.dhrv.dev/m1.jpg" {
		t.Errorf("CoverURL = %q, want first member URL", detail.Album.CoverURL)
	}
}

// TestGetByShareCode 测试分享码访问只对公开相册生效.
func TestGetByShareCode(t *testing.T) {
	svc, store := newAlbumService()
	ctx := context.Background()

	registerMedia(t, store, "m1")

	info, err := svc.Create(ctx, &types.CreateAlbumRequest{Name: "shared", MediaIDs: []string{"m1"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 默认私有：分享码访问按不存在处理
	if _, err := svc.GetByShareCode(ctx, info.ShareCode); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("private album err = %v, want ErrNotFound", err)
	}

	if _, err := svc.Update(ctx, info.ID, &types.UpdateAlbumRequest{Name: "shared", IsPublic: true}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	detail, err := svc.GetByShareCode(ctx, info.ShareCode)
	if err != nil {
		t.Fatalf("GetByShareCode: %v", err)
	}

	if detail.Album.ID != info.ID {
		t.Errorf("Album.ID = %s, want %s", detail.Album.ID, info.ID)
	}

	if _, err := svc.GetByShareCode(ctx, "zzzzzzzz"); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("unknown code err = %v, want ErrNotFound", err)
	}
}

// TestUpdateAlbum 测试整体替换更新与空名称校验.
func TestUpdateAlbum(t *testing.T) {
	svc, _ := newAlbumService()
	ctx := context.Background()

	info, err := svc.Create(ctx, &types.CreateAlbumRequest{Name: "old", Description: "desc"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(ctx, info.ID, &types.UpdateAlbumRequest{Name: "new", Description: "desc2", IsPublic: true})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Name != "new" {
		t.Errorf("Name = %q, want updated", updated.Name)
	}

	if updated.Description != "desc2" {
		t.Errorf("Description = %q, want replaced", updated.Description)
	}

	if !updated.IsPublic {
		t.Error("IsPublic = false, want true after update")
	}

	if updated.ShareCode != info.ShareCode {
		t.Errorf("ShareCode changed on update: %q -> %q", info.ShareCode, updated.ShareCode)
	}

	// 整体替换：省略描述即清空
	updated, err = svc.Update(ctx, info.ID, &types.UpdateAlbumRequest{Name: "new"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Description != "" {
		t.Errorf("Description = %q, want cleared", updated.Description)
	}

	if updated.IsPublic {
		t.Error("IsPublic = true, want reverted to private")
	}

	if _, err := svc.Update(ctx, info.ID, &types.UpdateAlbumRequest{Name: "   "}); !errors.Is(err, service.ErrValidation) {
		t.Errorf("empty name err = %v, want ErrValidation", err)
	}
}

// TestDeleteAlbum_KeepsMedia 测试删除相册后成员媒体保留.
func TestDeleteAlbum_KeepsMedia(t *testing.T) {
	svc, store := newAlbumService()
	ctx := context.Background()

	registerMedia(t, store, "m1")

	info, err := svc.Create(ctx, &types.CreateAlbumRequest{Name: "a", MediaIDs: []string{"m1"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, info.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.Get(ctx, info.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}

	if _, err := store.Get(ctx, "m1"); err != nil {
		t.Errorf("member media deleted with album: %v", err)
	}
}

// TestRemoveMedia 测试批量移除成员.
func TestRemoveMedia(t *testing.T) {
	svc, store := newAlbumService()
	ctx := context.Background()

	for _, id := range []string{"m1", "m2"} {
		registerMedia(t, store, id)
	}

	info, err := svc.Create(ctx, &types.CreateAlbumRequest{Name: "a", MediaIDs: []string{"m1", "m2"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resp, err := svc.RemoveMedia(ctx, info.ID, &types.RemoveAlbumMediaRequest{MediaIDs: []string{"m1", "ghost"}})
	if err != nil {
		t.Fatalf("RemoveMedia: %v", err)
	}

	if resp.RemovedCount != 1 {
		t.Errorf("RemovedCount = %d, want 1", resp.RemovedCount)
	}

	detail, err := svc.Get(ctx, info.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if detail.Album.MediaCount != 1 {
		t.Errorf("MediaCount = %d, want 1", detail.Album.MediaCount)
	}
}

// TestList_AlbumStats 测试相册列表附带成员数量与封面.
func TestList_AlbumStats(t *testing.T) {
	svc, store := newAlbumService()
	ctx := context.Background()

	for _, id := range []string{"m1", "m2"} {
		registerMedia(t, store, id)
	}

	info, err := svc.Create(ctx, &types.CreateAlbumRequest{Name: "a", MediaIDs: []string{"m1", "m2"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resp, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if resp.Total != 1 || len(resp.Albums) != 1 {
		t.Fatalf("Total = %d, len = %d, want 1", resp.Total, len(resp.Albums))
	}

	got := resp.Albums[0]
	if got.ID != info.ID || got.MediaCount != 2 || got.CoverURL == "" {
		t.Errorf("album = {ID:%s MediaCount:%d CoverURL:%q}, want stats populated", got.ID, got.MediaCount, got.CoverURL)
	}
}
