package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	appcache "github.com/yeisme/mediavault/pkg/cache"
	ctxPkg "github.com/yeisme/mediavault/pkg/context"
	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/repo"
	"github.com/yeisme/mediavault/pkg/internal/storage/mq"
	"github.com/yeisme/mediavault/pkg/internal/types"
	nlog "github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/queue"
)

// shareCacheTTL 分享页缓存时长；分享页读多写少，短 TTL 即可明显降压.
const shareCacheTTL = time.Minute

// AlbumService 负责相册的增删改查、成员管理与分享码访问.
type AlbumService struct {
	album    repo.AlbumRepo
	media    repo.MediaRepo
	cache    *appcache.Cache
	mqClient *mq.Client
}

// NewAlbumService 创建并返回一个新的 AlbumService 实例.
func NewAlbumService(c context.Context) *AlbumService {
	svc := &AlbumService{
		album:    ctxPkg.GetAlbumRepo(c),
		media:    ctxPkg.GetMediaRepo(c),
		mqClient: ctxPkg.GetMQClient(c),
	}

	if kvClient := ctxPkg.GetKVClient(c); kvClient != nil {
		svc.cache = appcache.NewCache(kvClient)
	}

	if svc.album == nil {
		nlog.Logger().Warn().Msg("album repo not initialized, AlbumService features limited")
	}

	return svc
}

// NewAlbumServiceWith 以显式依赖构造 AlbumService，测试使用.
func NewAlbumServiceWith(album repo.AlbumRepo, media repo.MediaRepo,
	cache *appcache.Cache, mqClient *mq.Client,
) *AlbumService {
	return &AlbumService{
		album:    album,
		media:    media,
		cache:    cache,
		mqClient: mqClient,
	}
}

// Create 创建相册并生成唯一分享码；随机码与数据库唯一约束双保险，
// 撞码时重试，连续撞满后换用时间戳兜底码. 指定初始媒体时创建后立即加入.
func (s *AlbumService) Create(ctx context.Context, req *types.CreateAlbumRequest) (*types.AlbumInfo, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: album name is required", ErrValidation)
	}

	// 新相册默认私有，分享码在公开前对外不可用
	a := &model.Album{
		ID:          uuid.NewString(),
		Name:        name,
		Description: req.Description,
		IsPublic:    false,
	}

	if err := s.insertWithShareCode(ctx, a); err != nil {
		return nil, err
	}

	added := 0

	if len(req.MediaIDs) > 0 {
		n, err := s.album.AddMedia(ctx, a.ID, req.MediaIDs)
		if err != nil {
			nlog.Logger().Warn().Err(err).Str("album_id", a.ID).Msg("initial album media link failed")
		} else {
			added = n
		}
	}

	if err := queue.PublishAlbumCreated(s.mqClient, queue.AlbumCreatedPayload{
		Album:             toAlbumRef(a),
		InitialMediaCount: added,
	}); err != nil {
		nlog.Logger().Warn().Err(err).Str("album_id", a.ID).Msg("publish album created event failed")
	}

	info := toAlbumInfo(a)
	info.MediaCount = int64(added)

	return &info, nil
}

// insertWithShareCode 生成分享码并插入相册，唯一约束冲突时重试.
func (s *AlbumService) insertWithShareCode(ctx context.Context, a *model.Album) error {
	for attempt := 0; attempt < shareCodeAttempts; attempt++ {
		code, err := randomShareCode()
		if err != nil {
			return err
		}

		a.ShareCode = code

		err = s.album.Create(ctx, a)
		if err == nil {
			return nil
		}

		if !errors.Is(err, repo.ErrConflict) {
			return fmt.Errorf("create album: %w", err)
		}

		nlog.Logger().Debug().Str("share_code", code).Msg("share code collision, retrying")
	}

	// 随机码连续撞满，换用时间戳兜底码做最后一次尝试
	a.ShareCode = fallbackShareCode()
	if err := s.album.Create(ctx, a); err != nil {
		return fmt.Errorf("create album with fallback share code: %w", err)
	}

	return nil
}

// Get 查询相册详情，媒体按 order_index 升序.
func (s *AlbumService) Get(ctx context.Context, id string) (*types.AlbumDetailResponse, error) {
	a, err := s.album.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.buildDetail(ctx, a)
}

// GetByShareCode 以分享码查询相册详情，经 KV 缓存短暂缓冲.
func (s *AlbumService) GetByShareCode(ctx context.Context, code string) (*types.AlbumDetailResponse, error) {
	if s.cache == nil {
		return s.loadByShareCode(ctx, code)
	}

	detail, err := appcache.GetOrSet(ctx, s.cache, shareCacheKey(code), func() (types.AlbumDetailResponse, error) {
		d, err := s.loadByShareCode(ctx, code)
		if err != nil {
			return types.AlbumDetailResponse{}, err
		}

		return *d, nil
	}, shareCacheTTL)
	if err != nil {
		return nil, err
	}

	return &detail, nil
}

func (s *AlbumService) loadByShareCode(ctx context.Context, code string) (*types.AlbumDetailResponse, error) {
	a, err := s.album.GetByShareCode(ctx, code)
	if err != nil {
		return nil, err
	}

	// 未公开的相册对分享码访问按不存在处理；管理端走按 ID 查询
	if !a.IsPublic {
		return nil, repo.ErrNotFound
	}

	return s.buildDetail(ctx, a)
}

func (s *AlbumService) buildDetail(ctx context.Context, a *model.Album) (*types.AlbumDetailResponse, error) {
	members, err := s.album.ListMedia(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("list album media: %w", err)
	}

	detail := &types.AlbumDetailResponse{
		Album: toAlbumInfo(a),
		Media: make([]types.AlbumMediaInfo, 0, len(members)),
	}

	detail.Album.MediaCount = int64(len(members))

	for i := range members {
		detail.Media = append(detail.Media, types.AlbumMediaInfo{
			MediaInfo:  toMediaInfo(&members[i].Media),
			OrderIndex: members[i].OrderIndex,
		})

		if detail.Album.CoverURL == "" {
			detail.Album.CoverURL = members[i].URL
		}
	}

	return detail, nil
}

// List 查询相册列表，附带成员数量与封面.
func (s *AlbumService) List(ctx context.Context) (*types.ListAlbumsResponse, error) {
	items, total, err := s.album.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}

	resp := &types.ListAlbumsResponse{
		Total:  total,
		Albums: make([]types.AlbumInfo, 0, len(items)),
	}

	for i := range items {
		info := toAlbumInfo(&items[i].Album)
		info.MediaCount = items[i].MediaCount
		info.CoverURL = items[i].CoverURL
		resp.Albums = append(resp.Albums, info)
	}

	return resp, nil
}

// Update 编辑相册，整体替换语义：名称必填，描述与公开状态以提交值为准.
func (s *AlbumService) Update(ctx context.Context, id string, req *types.UpdateAlbumRequest) (*types.AlbumInfo, error) {
	a, err := s.album.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: album name is required", ErrValidation)
	}

	a.Name = name
	a.Description = req.Description
	a.IsPublic = req.IsPublic

	if err := s.album.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update album %s: %w", id, err)
	}

	s.invalidateShareCache(ctx, a.ShareCode)

	if err := queue.PublishAlbumUpdated(s.mqClient, queue.AlbumUpdatedPayload{Album: toAlbumRef(a)}); err != nil {
		nlog.Logger().Warn().Err(err).Str("album_id", id).Msg("publish album updated event failed")
	}

	info := toAlbumInfo(a)

	return &info, nil
}

// Delete 删除相册及其成员关联；媒体本体保留.
func (s *AlbumService) Delete(ctx context.Context, id string) error {
	a, err := s.album.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.album.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete album %s: %w", id, err)
	}

	s.invalidateShareCache(ctx, a.ShareCode)

	if err := queue.PublishAlbumDeleted(s.mqClient, queue.AlbumDeletedPayload{Album: toAlbumRef(a)}); err != nil {
		nlog.Logger().Warn().Err(err).Str("album_id", id).Msg("publish album deleted event failed")
	}

	return nil
}

// AddMedia 批量向相册加入媒体；已存在的关联幂等跳过，
// 返回请求条数与实际新建条数.
func (s *AlbumService) AddMedia(ctx context.Context, id string, req *types.AddAlbumMediaRequest) (*types.AddAlbumMediaResponse, error) {
	a, err := s.album.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	added, err := s.album.AddMedia(ctx, id, req.MediaIDs)
	if err != nil {
		return nil, fmt.Errorf("add media to album %s: %w", id, err)
	}

	s.invalidateShareCache(ctx, a.ShareCode)
	s.publishLinked(a, "added", req.MediaIDs, added)

	return &types.AddAlbumMediaResponse{
		Requested:  len(req.MediaIDs),
		AddedCount: added,
	}, nil
}

// RemoveMedia 批量从相册移除媒体，返回实际删除条数.
func (s *AlbumService) RemoveMedia(ctx context.Context, id string, req *types.RemoveAlbumMediaRequest) (*types.RemoveAlbumMediaResponse, error) {
	a, err := s.album.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	removed, err := s.album.RemoveMedia(ctx, id, req.MediaIDs)
	if err != nil {
		return nil, fmt.Errorf("remove media from album %s: %w", id, err)
	}

	s.invalidateShareCache(ctx, a.ShareCode)
	s.publishLinked(a, "removed", req.MediaIDs, removed)

	return &types.RemoveAlbumMediaResponse{RemovedCount: removed}, nil
}

func (s *AlbumService) publishLinked(a *model.Album, action string, mediaIDs []string, affected int) {
	if err := queue.PublishAlbumLinked(s.mqClient, queue.AlbumLinkedPayload{
		Album:    toAlbumRef(a),
		Action:   action,
		MediaIDs: mediaIDs,
		Affected: affected,
	}); err != nil {
		nlog.Logger().Warn().Err(err).Str("album_id", a.ID).Msg("publish album linked event failed")
	}
}

// invalidateShareCache 相册变更后失效分享页缓存.
func (s *AlbumService) invalidateShareCache(ctx context.Context, code string) {
	if s.cache == nil || code == "" {
		return
	}

	if err := s.cache.Delete(ctx, shareCacheKey(code)); err != nil {
		nlog.Logger().Debug().Err(err).Str("share_code", code).Msg("invalidate share cache failed")
	}
}

func shareCacheKey(code string) string {
	return "share:" + code
}

func toAlbumInfo(a *model.Album) types.AlbumInfo {
	return types.AlbumInfo{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		ShareCode:   a.ShareCode,
		IsPublic:    a.IsPublic,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toAlbumRef(a *model.Album) queue.AlbumRef {
	return queue.AlbumRef{
		ID:        a.ID,
		Name:      a.Name,
		ShareCode: a.ShareCode,
	}
}
