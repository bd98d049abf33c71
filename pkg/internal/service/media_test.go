package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/yeisme/mediavault/pkg/configs"
	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/repo"
	"github.com/yeisme/mediavault/pkg/internal/repo/memrepo"
	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/internal/storage/host"
	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/masking"
)

// stubHost 测试用托管实现，记录调用并返回预置结果.
type stubHost struct {
	storedURL string
	storeErr  error

	probeResult *host.ProbeResult
	probeErr    error

	openBody string
	openType string
	openErr  error

	mu        sync.Mutex
	deleted   []string
	opened    []string
	deleteErr error
}

func (h *stubHost) Store(_ context.Context, _ string, _ io.Reader, _ int64, _ string) (string, error) {
	if h.storeErr != nil {
		return "", h.storeErr
	}

	return h.storedURL, nil
}

func (h *stubHost) Probe(_ context.Context, _ string) (*host.ProbeResult, error) {
	if h.probeErr != nil {
		return nil, h.probeErr
	}

	if h.probeResult == nil {
		return nil, errors.New("probe not configured")
	}

	return h.probeResult, nil
}

func (h *stubHost) Open(_ context.Context, rawURL string) (io.ReadCloser, *host.ProbeResult, error) {
	h.mu.Lock()
	h.opened = append(h.opened, rawURL)
	h.mu.Unlock()

	if h.openErr != nil {
		return nil, nil, h.openErr
	}

	ct := h.openType
	if ct == "" {
		ct = "image/jpeg"
	}

	return io.NopCloser(strings.NewReader(h.openBody)),
		&host.ProbeResult{ContentType: ct, Size: int64(len(h.openBody))}, nil
}

func (h *stubHost) Delete(_ context.Context, rawURL string) error {
	if h.deleteErr != nil {
		return h.deleteErr
	}

	h.mu.Lock()
	h.deleted = append(h.deleted, rawURL)
	h.mu.Unlock()

	return nil
}

func (h *stubHost) Name() string { return "stub" }

func testMasker() *masking.Masker {
	return masking.New(configs.MaskingConfig{
		MaskDomain:        "i.dhrv.dev",
		FirstPartyDomains: []string{"i.dhrv.dev", "img.intercomm.in"},
		ExternalDomains:   []string{"catbox.moe", "litterbox.catbox.moe"},
		ExternalBaseURL:   "https://files.catbox.moe",
	})
}

func testUploadConfig() configs.UploadConfig {
	return configs.UploadConfig{
		MaxBytes:          4718592, // 4.5 MB
		AllowedImageTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		AllowedVideoTypes: []string{"video/mp4", "video/webm"},
	}
}

func newMediaService(h host.Host) (*service.MediaService, *memrepo.Store) {
	store := memrepo.New()
	svc := service.NewMediaServiceWith(store, store.Albums(), h, nil, testMasker(), testUploadConfig())

	return svc, store
}

// TestRegister_MasksExternalURL 测试登记外部直链时 URL 被伪装为第一方域名.
func TestRegister_MasksExternalURL(t *testing.T) {
	svc, store := newMediaService(&stubHost{})
	ctx := context.Background()

	resp, err := svc.Register(ctx, &types.CreateMediaRequest{
		URL:         "https://files.catbox.moe/abc123.jpg",
		ContentType: "image/jpeg",
		FileSize:    2048,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if resp.Media.URL != "https://i.dhrv.dev/abc123.jpg" {
		t.Errorf("URL = %q, want masked first-party URL", resp.Media.URL)
	}

	if resp.Media.Filename != "abc123.jpg" {
		t.Errorf("Filename = %q, want derived from URL", resp.Media.Filename)
	}

	if resp.Media.FileType != model.MediaTypeImage {
		t.Errorf("FileType = %q, want %q", resp.Media.FileType, model.MediaTypeImage)
	}

	if resp.Media.Category != model.DefaultCategory {
		t.Errorf("Category = %q, want default", resp.Media.Category)
	}

	if !resp.Media.IsPublic {
		t.Error("IsPublic = false, want registered media public by default")
	}

	// 原始直链持久化，供删除与反解使用
	m, err := store.Get(ctx, resp.Media.ID)
	if err != nil {
		t.Fatalf("Get stored media: %v", err)
	}

	if m.OriginalURL != "https://files.catbox.moe/abc123.jpg" {
		t.Errorf("OriginalURL = %q, want external direct link", m.OriginalURL)
	}
}

// TestRegister_MaskedInput 测试入参已是伪装地址时按文件名反解直链.
func TestRegister_MaskedInput(t *testing.T) {
	svc, store := newMediaService(&stubHost{})
	ctx := context.Background()

	resp, err := svc.Register(ctx, &types.CreateMediaRequest{
		URL:         "https://i.dhrv.dev/xyz.png",
		ContentType: "image/png",
		FileSize:    1,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	m, err := store.Get(ctx, resp.Media.ID)
	if err != nil {
		t.Fatalf("Get stored media: %v", err)
	}

	if m.OriginalURL != "https://files.catbox.moe/xyz.png" {
		t.Errorf("OriginalURL = %q, want rebuilt external link", m.OriginalURL)
	}

	if m.URL != "https://i.dhrv.dev/xyz.png" {
		t.Errorf("URL = %q, want unchanged masked URL", m.URL)
	}
}

// TestRegister_ProbeFallback 测试缺失内容类型与大小时 HEAD 探测补全.
func TestRegister_ProbeFallback(t *testing.T) {
	h := &stubHost{probeResult: &host.ProbeResult{ContentType: "video/mp4", Size: 1024}}
	svc, _ := newMediaService(h)

	resp, err := svc.Register(context.Background(), &types.CreateMediaRequest{
		URL: "https://files.catbox.moe/clip.mp4",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if resp.Media.ContentType != "video/mp4" {
		t.Errorf("ContentType = %q, want probed value", resp.Media.ContentType)
	}

	if resp.Media.FileSize != 1024 {
		t.Errorf("FileSize = %d, want probed value", resp.Media.FileSize)
	}

	if resp.Media.FileType != model.MediaTypeVideo {
		t.Errorf("FileType = %q, want %q", resp.Media.FileType, model.MediaTypeVideo)
	}
}

// TestRegister_ProbeFailureFallsBackToExtension 测试探测失败时按扩展名推断.
func TestRegister_ProbeFailureFallsBackToExtension(t *testing.T) {
	h := &stubHost{probeErr: errors.New("host unreachable")}
	svc, _ := newMediaService(h)

	resp, err := svc.Register(context.Background(), &types.CreateMediaRequest{
		URL: "https://files.catbox.moe/pic.webp",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if resp.Media.ContentType != "image/webp" {
		t.Errorf("ContentType = %q, want inferred from extension", resp.Media.ContentType)
	}
}

// TestRegister_NoFilename 测试无法从 URL 推导文件名时返回校验错误.
func TestRegister_NoFilename(t *testing.T) {
	svc, _ := newMediaService(&stubHost{})

	_, err := svc.Register(context.Background(), &types.CreateMediaRequest{
		URL: "https://files.catbox.moe/",
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

// TestRegister_AlbumWarning 测试指定的相册不存在时登记成功但附带警告.
func TestRegister_AlbumWarning(t *testing.T) {
	svc, store := newMediaService(&stubHost{})
	ctx := context.Background()

	resp, err := svc.Register(ctx, &types.CreateMediaRequest{
		URL:         "https://files.catbox.moe/a.jpg",
		ContentType: "image/jpeg",
		FileSize:    1,
		AlbumID:     "no-such-album",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if resp.AlbumWarning == "" {
		t.Error("AlbumWarning empty, want warning about missing album")
	}

	if _, err := store.Get(ctx, resp.Media.ID); err != nil {
		t.Errorf("media not persisted despite album failure: %v", err)
	}
}

// TestUpdate_PartialFields 测试部分更新：nil 字段保持不变，清空分类落为占位.
func TestUpdate_PartialFields(t *testing.T) {
	svc, _ := newMediaService(&stubHost{})
	ctx := context.Background()

	created, err := svc.Register(ctx, &types.CreateMediaRequest{
		URL:         "https://files.catbox.moe/a.jpg",
		ContentType: "image/jpeg",
		FileSize:    1,
		Title:       "old title",
		Category:    "wallpapers",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	title := "new title"

	updated, err := svc.Update(ctx, created.Media.ID, &types.UpdateMediaRequest{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Title != "new title" {
		t.Errorf("Title = %q, want updated", updated.Title)
	}

	if updated.Category != "wallpapers" {
		t.Errorf("Category = %q, want unchanged", updated.Category)
	}

	empty := ""

	updated, err = svc.Update(ctx, created.Media.ID, &types.UpdateMediaRequest{Category: &empty})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Category != model.DefaultCategory {
		t.Errorf("Category = %q, want default after clearing", updated.Category)
	}
}

// TestUpdate_NotFound 测试更新不存在的媒体返回 ErrNotFound.
func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newMediaService(&stubHost{})

	_, err := svc.Update(context.Background(), "missing", &types.UpdateMediaRequest{})
	if !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestDelete 测试删除媒体时同步清理外部托管文件与本地记录.
func TestDelete(t *testing.T) {
	h := &stubHost{}
	svc, store := newMediaService(h)
	ctx := context.Background()

	created, err := svc.Register(ctx, &types.CreateMediaRequest{
		URL:         "https://files.catbox.moe/gone.jpg",
		ContentType: "image/jpeg",
		FileSize:    1,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.Delete(ctx, created.Media.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(h.deleted) != 1 || h.deleted[0] != "https://files.catbox.moe/gone.jpg" {
		t.Errorf("remote delete calls = %v, want original URL", h.deleted)
	}

	if _, err := store.Get(ctx, created.Media.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

// TestDelete_RemoteFailureStillDeletesLocal 测试外部删除失败不阻塞本地删除.
func TestDelete_RemoteFailureStillDeletesLocal(t *testing.T) {
	h := &stubHost{deleteErr: errors.New("host down")}
	svc, store := newMediaService(h)
	ctx := context.Background()

	created, err := svc.Register(ctx, &types.CreateMediaRequest{
		URL:         "https://files.catbox.moe/b.jpg",
		ContentType: "image/jpeg",
		FileSize:    1,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.Delete(ctx, created.Media.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := store.Get(ctx, created.Media.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

// TestRecordView 测试浏览计数自增与返回值.
func TestRecordView(t *testing.T) {
	svc, _ := newMediaService(&stubHost{})
	ctx := context.Background()

	created, err := svc.Register(ctx, &types.CreateMediaRequest{
		URL:         "https://files.catbox.moe/v.jpg",
		ContentType: "image/jpeg",
		FileSize:    1,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	for want := int64(1); want <= 3; want++ {
		resp, err := svc.RecordView(ctx, created.Media.ID, "203.0.113.7", "test-agent")
		if err != nil {
			t.Fatalf("RecordView: %v", err)
		}

		if resp.ViewCount != want {
			t.Errorf("ViewCount = %d, want %d", resp.ViewCount, want)
		}
	}

	got, err := svc.Get(ctx, created.Media.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got.ViewCount != 3 {
		t.Errorf("persisted ViewCount = %d, want 3", got.ViewCount)
	}
}

// TestRecordView_Concurrent 测试并发上报下计数不丢增量.
func TestRecordView_Concurrent(t *testing.T) {
	svc, _ := newMediaService(&stubHost{})
	ctx := context.Background()

	created, err := svc.Register(ctx, &types.CreateMediaRequest{
		URL:         "https://files.catbox.moe/v.jpg",
		ContentType: "image/jpeg",
		FileSize:    1,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	const n = 100

	var wg sync.WaitGroup

	for range n {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if _, err := svc.RecordView(ctx, created.Media.ID, "203.0.113.7", "test-agent"); err != nil {
				t.Errorf("RecordView: %v", err)
			}
		}()
	}

	wg.Wait()

	got, err := svc.Get(ctx, created.Media.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got.ViewCount != n {
		t.Errorf("ViewCount = %d, want %d", got.ViewCount, n)
	}
}

// atomicViewRepo 无锁 MediaRepo 桩：计数走原子自增，审计按原子下标落位，
// 贴近数据库侧自增不经过进程内互斥的并发轮廓.
type atomicViewRepo struct {
	repo.MediaRepo

	count int64
	next  int64
	views []*model.MediaView
}

func (r *atomicViewRepo) IncrementView(_ context.Context, _ string) (int64, error) {
	return atomic.AddInt64(&r.count, 1), nil
}

func (r *atomicViewRepo) InsertView(_ context.Context, v *model.MediaView) error {
	r.views[atomic.AddInt64(&r.next, 1)-1] = v
	return nil
}

// TestRecordView_ConcurrentAuditIDs 测试并发上报下审计 ID 生成互不干扰且两两互异.
func TestRecordView_ConcurrentAuditIDs(t *testing.T) {
	const n = 100

	store := &atomicViewRepo{views: make([]*model.MediaView, n)}
	svc := service.NewMediaServiceWith(store, nil, &stubHost{}, nil, testMasker(), testUploadConfig())

	var wg sync.WaitGroup

	for range n {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if _, err := svc.RecordView(context.Background(), "m1", "203.0.113.7", "test-agent"); err != nil {
				t.Errorf("RecordView: %v", err)
			}
		}()
	}

	wg.Wait()

	if got := atomic.LoadInt64(&store.count); got != n {
		t.Errorf("view count = %d, want %d", got, n)
	}

	seen := make(map[string]struct{}, n)

	for i, v := range store.views {
		if v == nil || v.ID == "" {
			t.Fatalf("views[%d] missing audit id", i)
		}

		if _, dup := seen[v.ID]; dup {
			t.Errorf("duplicate audit id %q", v.ID)
		}

		seen[v.ID] = struct{}{}
	}
}

// TestRecordView_NotFound 测试对不存在媒体的浏览上报返回 ErrNotFound.
func TestRecordView_NotFound(t *testing.T) {
	svc, _ := newMediaService(&stubHost{})

	_, err := svc.RecordView(context.Background(), "missing", "", "")
	if !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestList_Pagination 测试分页与总数.
func TestList_Pagination(t *testing.T) {
	svc, _ := newMediaService(&stubHost{})
	ctx := context.Background()

	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		if _, err := svc.Register(ctx, &types.CreateMediaRequest{
			URL:         "https://files.catbox.moe/" + name,
			ContentType: "image/jpeg",
			FileSize:    1,
		}); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}

	resp, err := svc.List(ctx, &types.ListMediaRequest{Page: 1, PageSize: 2, SortBy: "filename", SortOrder: "asc"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if resp.Total != 3 {
		t.Errorf("Total = %d, want 3", resp.Total)
	}

	if len(resp.Media) != 2 {
		t.Fatalf("len(Media) = %d, want 2", len(resp.Media))
	}

	if resp.Media[0].Filename != "a.jpg" || resp.Media[1].Filename != "b.jpg" {
		t.Errorf("page 1 = [%s %s], want [a.jpg b.jpg]", resp.Media[0].Filename, resp.Media[1].Filename)
	}

	resp, err = svc.List(ctx, &types.ListMediaRequest{Page: 2, PageSize: 2, SortBy: "filename", SortOrder: "asc"})
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}

	if len(resp.Media) != 1 || resp.Media[0].Filename != "c.jpg" {
		t.Errorf("page 2 = %v, want [c.jpg]", resp.Media)
	}
}

// TestList_FilterByCategory 测试分类过滤.
func TestList_FilterByCategory(t *testing.T) {
	svc, _ := newMediaService(&stubHost{})
	ctx := context.Background()

	for name, category := range map[string]string{"a.jpg": "art", "b.jpg": "art", "c.jpg": "memes"} {
		if _, err := svc.Register(ctx, &types.CreateMediaRequest{
			URL:         "https://files.catbox.moe/" + name,
			ContentType: "image/jpeg",
			FileSize:    1,
			Category:    category,
		}); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}

	resp, err := svc.List(ctx, &types.ListMediaRequest{Category: "art"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2", resp.Total)
	}
}

// TestDeleteAll 测试清空媒体库.
func TestDeleteAll(t *testing.T) {
	svc, store := newMediaService(&stubHost{})
	ctx := context.Background()

	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"} {
		if _, err := svc.Register(ctx, &types.CreateMediaRequest{
			URL:         "https://files.catbox.moe/" + name,
			ContentType: "image/jpeg",
			FileSize:    1,
		}); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}

	resp, err := svc.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}

	if resp.DeletedCount != 5 {
		t.Errorf("DeletedCount = %d, want 5", resp.DeletedCount)
	}

	if resp.FailedCount != 0 {
		t.Errorf("FailedCount = %d, want 0", resp.FailedCount)
	}

	ids, err := store.ListIDs(ctx)
	if err != nil {
		t.Fatalf("ListIDs: %v", err)
	}

	if len(ids) != 0 {
		t.Errorf("remaining media = %d, want 0", len(ids))
	}
}

// TestUpload 测试代理上传：转存托管并以伪装地址登记.
func TestUpload(t *testing.T) {
	h := &stubHost{storedURL: "https://files.catbox.moe/up123.png"}
	svc, store := newMediaService(h)
	ctx := context.Background()

	resp, err := svc.Upload(ctx, "photo.png", strings.NewReader("data"), 4, "image/png",
		&types.UploadMediaMetadata{Title: "uploaded"})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if resp.Media.URL != "https://i.dhrv.dev/up123.png" {
		t.Errorf("URL = %q, want masked host URL", resp.Media.URL)
	}

	if resp.Media.Title != "uploaded" {
		t.Errorf("Title = %q, want metadata applied", resp.Media.Title)
	}

	if !resp.Media.IsPublic {
		t.Error("IsPublic = false, want uploaded media public by default")
	}

	m, err := store.Get(ctx, resp.Media.ID)
	if err != nil {
		t.Fatalf("Get stored media: %v", err)
	}

	if m.OriginalURL != "https://files.catbox.moe/up123.png" {
		t.Errorf("OriginalURL = %q, want host direct link", m.OriginalURL)
	}
}

// TestUpload_PayloadTooLarge 测试超过大小上限的上传被拒绝.
func TestUpload_PayloadTooLarge(t *testing.T) {
	svc, _ := newMediaService(&stubHost{})

	_, err := svc.Upload(context.Background(), "big.png", strings.NewReader(""), 4718593, "image/png", nil)
	if !errors.Is(err, service.ErrPayloadTooLarge) {
		t.Errorf("err = %v, want ErrPayloadTooLarge", err)
	}
}

// TestUpload_UnsupportedType 测试不在允许列表的 MIME 类型被拒绝.
func TestUpload_UnsupportedType(t *testing.T) {
	svc, _ := newMediaService(&stubHost{})

	_, err := svc.Upload(context.Background(), "doc.pdf", strings.NewReader(""), 1, "application/pdf", nil)
	if !errors.Is(err, service.ErrUnsupportedType) {
		t.Errorf("err = %v, want ErrUnsupportedType", err)
	}
}

// TestUpload_InfersContentType 测试 octet-stream 按扩展名重新推断.
func TestUpload_InfersContentType(t *testing.T) {
	h := &stubHost{storedURL: "https://files.catbox.moe/clip.mp4"}
	svc, _ := newMediaService(h)

	resp, err := svc.Upload(context.Background(), "clip.mp4", strings.NewReader("x"), 1,
		"application/octet-stream", nil)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if resp.Media.ContentType != "video/mp4" {
		t.Errorf("ContentType = %q, want inferred video/mp4", resp.Media.ContentType)
	}

	if resp.Media.FileType != model.MediaTypeVideo {
		t.Errorf("FileType = %q, want video", resp.Media.FileType)
	}
}

// TestUpload_StoreFailure 测试托管上传失败时不落库.
func TestUpload_StoreFailure(t *testing.T) {
	h := &stubHost{storeErr: errors.New("host rejected")}
	svc, store := newMediaService(h)
	ctx := context.Background()

	if _, err := svc.Upload(ctx, "x.png", strings.NewReader(""), 1, "image/png", nil); err == nil {
		t.Fatal("Upload succeeded, want error")
	}

	ids, err := store.ListIDs(ctx)
	if err != nil {
		t.Fatalf("ListIDs: %v", err)
	}

	if len(ids) != 0 {
		t.Errorf("media persisted despite store failure: %d records", len(ids))
	}
}

// TestOpenFile_RegisteredMedia 测试已登记媒体按原始直链回源.
func TestOpenFile_RegisteredMedia(t *testing.T) {
	h := &stubHost{openBody: "image-bytes", openType: "image/jpeg"}
	svc, _ := newMediaService(h)
	ctx := context.Background()

	if _, err := svc.Register(ctx, &types.CreateMediaRequest{
		URL:         "https://files.catbox.moe/abc123.jpg",
		ContentType: "image/jpeg",
		FileSize:    11,
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	rc, probe, err := svc.OpenFile(ctx, "abc123.jpg")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	if string(body) != "image-bytes" {
		t.Errorf("body = %q, want hosted content", body)
	}

	if probe.ContentType != "image/jpeg" {
		t.Errorf("ContentType = %q, want image/jpeg", probe.ContentType)
	}

	if len(h.opened) != 1 || h.opened[0] != "https://files.catbox.moe/abc123.jpg" {
		t.Errorf("opened = %v, want original direct link", h.opened)
	}
}

// TestOpenFile_UnknownFilename 测试未登记文件按外部前缀重建直链.
func TestOpenFile_UnknownFilename(t *testing.T) {
	h := &stubHost{openBody: "x"}
	svc, _ := newMediaService(h)

	rc, _, err := svc.OpenFile(context.Background(), "ghost.png")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}

	_ = rc.Close()

	if len(h.opened) != 1 || h.opened[0] != "https://files.catbox.moe/ghost.png" {
		t.Errorf("opened = %v, want rebuilt external link", h.opened)
	}
}

// TestOpenFile_InvalidFilename 测试带路径分隔符的文件名被拒绝.
func TestOpenFile_InvalidFilename(t *testing.T) {
	svc, _ := newMediaService(&stubHost{})

	for _, name := range []string{"", "../etc/passwd", `a\b.png`} {
		if _, _, err := svc.OpenFile(context.Background(), name); !errors.Is(err, service.ErrValidation) {
			t.Errorf("OpenFile(%q) err = %v, want ErrValidation", name, err)
		}
	}
}

// TestOpenFile_HostMissing 测试托管方没有该文件时返回 ErrNotFound.
func TestOpenFile_HostMissing(t *testing.T) {
	h := &stubHost{openErr: host.ErrNotFound}
	svc, _ := newMediaService(h)

	if _, _, err := svc.OpenFile(context.Background(), "gone.jpg"); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
