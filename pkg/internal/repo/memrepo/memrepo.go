// Package memrepo 提供 repo 接口的内存实现，用于测试与演示.
//
// 语义与 gormrepo 保持一致：分享码唯一冲突返回 ErrConflict，
// 关联重复幂等跳过，删除做应用层级联.
package memrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/repo"
)

// Store 内存存储，同时实现 MediaRepo 与 AlbumRepo.
type Store struct {
	mu sync.RWMutex

	media  map[string]*model.Media
	views  map[string]*model.MediaView
	albums map[string]*model.Album
	// links key 为 albumID，值按加入顺序保存
	links map[string][]model.AlbumMedia

	nextLinkID uint
}

// New 创建空的内存存储.
func New() *Store {
	return &Store{
		media:  make(map[string]*model.Media),
		views:  make(map[string]*model.MediaView),
		albums: make(map[string]*model.Album),
		links:  make(map[string][]model.AlbumMedia),
	}
}

func cloneMedia(m *model.Media) *model.Media {
	c := *m
	return &c
}

func cloneAlbum(a *model.Album) *model.Album {
	c := *a
	return &c
}

// Create 实现 repo.MediaRepo.
func (s *Store) Create(_ context.Context, m *model.Media) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.media[m.ID]; ok {
		return repo.ErrConflict
	}

	s.media[m.ID] = cloneMedia(m)

	return nil
}

// Get 实现 repo.MediaRepo.
func (s *Store) Get(_ context.Context, id string) (*model.Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.media[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	return cloneMedia(m), nil
}

// GetByFilename 实现 repo.MediaRepo：同名取最近创建的一条.
func (s *Store) GetByFilename(_ context.Context, filename string) (*model.Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *model.Media

	for _, m := range s.media {
		if m.Filename != filename {
			continue
		}

		if latest == nil || m.CreatedAt.After(latest.CreatedAt) {
			latest = m
		}
	}

	if latest == nil {
		return nil, repo.ErrNotFound
	}

	return cloneMedia(latest), nil
}

// Update 实现 repo.MediaRepo.
func (s *Store) Update(_ context.Context, m *model.Media) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.media[m.ID]
	if !ok {
		return repo.ErrNotFound
	}

	c := cloneMedia(m)
	// 浏览计数只能通过 IncrementView 修改
	c.ViewCount = old.ViewCount
	s.media[m.ID] = c

	return nil
}

// Delete 实现 repo.MediaRepo：级联清理关联与审计.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.media[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.media, id)

	for albumID, links := range s.links {
		kept := links[:0]

		for _, l := range links {
			if l.MediaID != id {
				kept = append(kept, l)
			}
		}

		s.links[albumID] = kept
	}

	for vid, v := range s.views {
		if v.MediaID == id {
			delete(s.views, vid)
		}
	}

	return nil
}

// List 实现 repo.MediaRepo.
func (s *Store) List(_ context.Context, f repo.MediaFilter) ([]model.Media, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.Media, 0, len(s.media))

	for _, m := range s.media {
		if f.Category != "" &&
			!strings.Contains(strings.ToLower(m.Category), strings.ToLower(f.Category)) {
			continue
		}

		if f.FileType != "" && m.FileType != f.FileType {
			continue
		}

		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(m.Title), needle) &&
				!strings.Contains(strings.ToLower(m.Category), needle) &&
				!strings.Contains(strings.ToLower(m.Description), needle) {
				continue
			}
		}

		matched = append(matched, *cloneMedia(m))
	}

	asc := strings.EqualFold(f.SortOrder, "asc")

	sort.SliceStable(matched, func(i, j int) bool {
		var less bool

		switch f.SortBy {
		case "view_count":
			less = matched[i].ViewCount < matched[j].ViewCount
		case "filename":
			less = matched[i].Filename < matched[j].Filename
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}

		if asc {
			return less
		}

		return !less
	})

	total := int64(len(matched))

	if f.Limit > 0 {
		start := f.Offset
		if start > len(matched) {
			start = len(matched)
		}

		end := start + f.Limit
		if end > len(matched) {
			end = len(matched)
		}

		matched = matched[start:end]
	}

	return matched, total, nil
}

// ListIDs 实现 repo.MediaRepo.
func (s *Store) ListIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.media))
	for id := range s.media {
		ids = append(ids, id)
	}

	return ids, nil
}

// ListByIDs 实现 repo.MediaRepo.
func (s *Store) ListByIDs(_ context.Context, ids []string) ([]model.Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Media, 0, len(ids))

	for _, id := range ids {
		if m, ok := s.media[id]; ok {
			out = append(out, *cloneMedia(m))
		}
	}

	return out, nil
}

// IncrementView 实现 repo.MediaRepo.
func (s *Store) IncrementView(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.media[id]
	if !ok {
		return 0, repo.ErrNotFound
	}

	m.ViewCount++

	return m.ViewCount, nil
}

// InsertView 实现 repo.MediaRepo.
func (s *Store) InsertView(_ context.Context, v *model.MediaView) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *v
	s.views[v.ID] = &c

	return nil
}

// PruneViews 实现 repo.MediaRepo.
func (s *Store) PruneViews(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pruned int64

	for id, v := range s.views {
		if v.ViewedAt.Before(before) {
			delete(s.views, id)

			pruned++
		}
	}

	return pruned, nil
}

// Categories 实现 repo.MediaRepo.
func (s *Store) Categories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	categories := make([]string, 0)

	for _, m := range s.media {
		c := strings.TrimSpace(m.Category)
		if c == "" || strings.EqualFold(c, model.DefaultCategory) {
			continue
		}

		if _, ok := seen[c]; ok {
			continue
		}

		seen[c] = struct{}{}
		categories = append(categories, c)
	}

	sort.Slice(categories, func(i, j int) bool {
		return strings.ToLower(categories[i]) < strings.ToLower(categories[j])
	})

	return categories, nil
}

// Stats 实现 repo.MediaRepo.
func (s *Store) Stats(_ context.Context) (*repo.MediaStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &repo.MediaStats{}

	for _, m := range s.media {
		stats.TotalMedia++
		stats.TotalViews += m.ViewCount
		stats.TotalSize += m.FileSize

		switch m.FileType {
		case model.MediaTypeImage:
			stats.TotalImages++
		case model.MediaTypeVideo:
			stats.TotalVideos++
		}
	}

	return stats, nil
}

// CreateAlbum 实现 repo.AlbumRepo 的 Create（方法名区分同名接口方法）.
//
// Store 同时实现两个接口，Create 归 MediaRepo；相册侧通过 Albums() 取视图.
func (s *Store) createAlbum(a *model.Album) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.albums {
		if existing.ShareCode == a.ShareCode {
			return repo.ErrConflict
		}
	}

	if _, ok := s.albums[a.ID]; ok {
		return repo.ErrConflict
	}

	s.albums[a.ID] = cloneAlbum(a)

	return nil
}

// AlbumStore 相册侧视图，实现 repo.AlbumRepo.
type AlbumStore struct {
	s *Store
}

// Albums 返回相册侧视图.
func (s *Store) Albums() *AlbumStore {
	return &AlbumStore{s: s}
}

// Create 实现 repo.AlbumRepo.
func (a *AlbumStore) Create(_ context.Context, album *model.Album) error {
	return a.s.createAlbum(album)
}

// Get 实现 repo.AlbumRepo.
func (a *AlbumStore) Get(_ context.Context, id string) (*model.Album, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	album, ok := a.s.albums[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	return cloneAlbum(album), nil
}

// GetByShareCode 实现 repo.AlbumRepo.
func (a *AlbumStore) GetByShareCode(_ context.Context, code string) (*model.Album, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	for _, album := range a.s.albums {
		if album.ShareCode == code {
			return cloneAlbum(album), nil
		}
	}

	return nil, repo.ErrNotFound
}

// Update 实现 repo.AlbumRepo.
func (a *AlbumStore) Update(_ context.Context, album *model.Album) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	if _, ok := a.s.albums[album.ID]; !ok {
		return repo.ErrNotFound
	}

	a.s.albums[album.ID] = cloneAlbum(album)

	return nil
}

// Delete 实现 repo.AlbumRepo：清理关联，媒体保留.
func (a *AlbumStore) Delete(_ context.Context, id string) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	if _, ok := a.s.albums[id]; !ok {
		return repo.ErrNotFound
	}

	delete(a.s.albums, id)
	delete(a.s.links, id)

	return nil
}

// List 实现 repo.AlbumRepo.
func (a *AlbumStore) List(_ context.Context) ([]repo.AlbumWithStats, int64, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	out := make([]repo.AlbumWithStats, 0, len(a.s.albums))

	for _, album := range a.s.albums {
		links := a.s.links[album.ID]

		stats := repo.AlbumWithStats{
			Album:      *cloneAlbum(album),
			MediaCount: int64(len(links)),
		}

		if len(links) > 0 {
			minLink := links[0]
			for _, l := range links[1:] {
				if l.OrderIndex < minLink.OrderIndex {
					minLink = l
				}
			}

			if m, ok := a.s.media[minLink.MediaID]; ok {
				stats.CoverURL = m.URL
			}
		}

		out = append(out, stats)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, int64(len(out)), nil
}

// Count 实现 repo.AlbumRepo.
func (a *AlbumStore) Count(_ context.Context) (int64, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	return int64(len(a.s.albums)), nil
}

// AddMedia 实现 repo.AlbumRepo.
func (a *AlbumStore) AddMedia(_ context.Context, albumID string, mediaIDs []string) (int, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	if _, ok := a.s.albums[albumID]; !ok {
		return 0, repo.ErrNotFound
	}

	links := a.s.links[albumID]

	existing := make(map[string]struct{}, len(links))
	// 空相册第一个成员的 order_index 落在 1
	maxIdx := 0

	for _, l := range links {
		existing[l.MediaID] = struct{}{}

		if l.OrderIndex > maxIdx {
			maxIdx = l.OrderIndex
		}
	}

	added := 0

	for _, mid := range mediaIDs {
		if _, ok := existing[mid]; ok {
			continue
		}

		maxIdx++
		a.s.nextLinkID++

		links = append(links, model.AlbumMedia{
			ID:         a.s.nextLinkID,
			AlbumID:    albumID,
			MediaID:    mid,
			OrderIndex: maxIdx,
			CreatedAt:  time.Now(),
		})

		existing[mid] = struct{}{}
		added++
	}

	a.s.links[albumID] = links

	return added, nil
}

// RemoveMedia 实现 repo.AlbumRepo.
func (a *AlbumStore) RemoveMedia(_ context.Context, albumID string, mediaIDs []string) (int, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	links := a.s.links[albumID]

	drop := make(map[string]struct{}, len(mediaIDs))
	for _, id := range mediaIDs {
		drop[id] = struct{}{}
	}

	kept := links[:0]
	removed := 0

	for _, l := range links {
		if _, ok := drop[l.MediaID]; ok {
			removed++
			continue
		}

		kept = append(kept, l)
	}

	a.s.links[albumID] = kept

	return removed, nil
}

// ListMedia 实现 repo.AlbumRepo，按 order_index 升序.
func (a *AlbumStore) ListMedia(_ context.Context, albumID string) ([]repo.MediaWithOrder, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	links := a.s.links[albumID]

	ordered := make([]model.AlbumMedia, len(links))
	copy(ordered, links)

	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].OrderIndex < ordered[j].OrderIndex
	})

	out := make([]repo.MediaWithOrder, 0, len(ordered))

	for _, l := range ordered {
		if m, ok := a.s.media[l.MediaID]; ok {
			out = append(out, repo.MediaWithOrder{Media: *cloneMedia(m), OrderIndex: l.OrderIndex})
		}
	}

	return out, nil
}
