package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yeisme/mediavault/pkg/configs"
	ctxPkg "github.com/yeisme/mediavault/pkg/context"
	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/repo"
	"github.com/yeisme/mediavault/pkg/internal/storage/host"
	"github.com/yeisme/mediavault/pkg/internal/storage/mq"
	"github.com/yeisme/mediavault/pkg/internal/types"
	nlog "github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/masking"
	"github.com/yeisme/mediavault/pkg/queue"
)

// 列表分页默认值.
const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// MediaService 负责媒体记录的登记、查询、编辑、删除与浏览计数.
type MediaService struct {
	media     repo.MediaRepo
	album     repo.AlbumRepo
	host      host.Host
	mqClient  *mq.Client
	masker    *masking.Masker
	uploadCfg configs.UploadConfig
}

// NewMediaService 创建并返回一个新的 MediaService 实例.
func NewMediaService(c context.Context) *MediaService {
	cfg := configs.GetConfig()

	svc := &MediaService{
		media:     ctxPkg.GetMediaRepo(c),
		album:     ctxPkg.GetAlbumRepo(c),
		host:      ctxPkg.GetHost(c),
		mqClient:  ctxPkg.GetMQClient(c),
		masker:    masking.New(cfg.Masking),
		uploadCfg: cfg.Upload,
	}

	if svc.media == nil {
		nlog.Logger().Warn().Msg("media repo not initialized, MediaService features limited")
	}

	return svc
}

// NewMediaServiceWith 以显式依赖构造 MediaService，测试使用.
func NewMediaServiceWith(media repo.MediaRepo, album repo.AlbumRepo, h host.Host,
	mqClient *mq.Client, masker *masking.Masker, uploadCfg configs.UploadConfig,
) *MediaService {
	return &MediaService{
		media:     media,
		album:     album,
		host:      h,
		mqClient:  mqClient,
		masker:    masker,
		uploadCfg: uploadCfg,
	}
}

// Register 登记一条已托管在外部的媒体；URL 统一伪装为第一方地址后入库.
// 指定 AlbumID 时在登记成功后尝试加入相册，加入失败不回滚登记，
// 以响应中的 AlbumWarning 提示.
func (s *MediaService) Register(ctx context.Context, req *types.CreateMediaRequest) (*types.CreateMediaResponse, error) {
	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		filename = masking.FilenameFromURL(req.URL)
	}

	if filename == "" {
		return nil, fmt.Errorf("%w: cannot derive filename from url", ErrValidation)
	}

	// 还原外部直链：入参已是伪装地址时按文件名反解
	originalURL := req.URL
	if s.masker.IsMasked(req.URL) {
		originalURL = s.masker.Unmask(req.URL, "")
	}

	contentType := req.ContentType
	size := req.FileSize

	// 缺失内容类型或大小时 HEAD 探测；探测失败时按扩展名推断兜底
	if (contentType == "" || size == 0) && s.host != nil {
		if probe, err := s.host.Probe(ctx, originalURL); err == nil {
			if contentType == "" {
				contentType = probe.ContentType
			}

			if size == 0 {
				size = probe.Size
			}
		}
	}

	if contentType == "" {
		contentType = masking.ContentTypeFromFilename(filename)
	}

	m := &model.Media{
		ID:          uuid.NewString(),
		Filename:    filename,
		OriginalURL: originalURL,
		URL:         s.masker.Mask(req.URL),
		FileType:    fileTypeOf(filename, contentType),
		ContentType: contentType,
		FileSize:    size,
		Title:       req.Title,
		Description: req.Description,
		Category:    normalizeCategory(req.Category),
		IsPublic:    true,
	}

	if err := s.media.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create media record: %w", err)
	}

	resp := &types.CreateMediaResponse{Media: toMediaInfo(m)}

	if req.AlbumID != "" {
		if _, err := s.album.AddMedia(ctx, req.AlbumID, []string{m.ID}); err != nil {
			nlog.Logger().Warn().Err(err).
				Str("media_id", m.ID).Str("album_id", req.AlbumID).
				Msg("media registered but album link failed")

			resp.AlbumWarning = fmt.Sprintf("media registered but could not be added to album %s", req.AlbumID)
		}
	}

	s.publishStored(m, "register", req.AlbumID)

	return resp, nil
}

// Get 查询单条媒体.
func (s *MediaService) Get(ctx context.Context, id string) (*types.MediaInfo, error) {
	m, err := s.media.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	info := toMediaInfo(m)

	return &info, nil
}

// List 分页查询媒体列表.
func (s *MediaService) List(ctx context.Context, req *types.ListMediaRequest) (*types.ListMediaResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}

	size := req.PageSize
	if size < 1 {
		size = defaultPageSize
	}

	if size > maxPageSize {
		size = maxPageSize
	}

	filter := repo.MediaFilter{
		Category:  strings.TrimSpace(req.Category),
		FileType:  req.FileType,
		Search:    strings.TrimSpace(req.Search),
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Offset:    (page - 1) * size,
		Limit:     size,
	}

	items, total, err := s.media.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}

	resp := &types.ListMediaResponse{
		Total: total,
		Page:  page,
		Size:  size,
		Media: make([]types.MediaInfo, 0, len(items)),
	}

	for i := range items {
		resp.Media = append(resp.Media, toMediaInfo(&items[i]))
	}

	return resp, nil
}

// Update 编辑媒体元数据；nil 字段保持不变，显式清空分类时落为占位分类.
func (s *MediaService) Update(ctx context.Context, id string, req *types.UpdateMediaRequest) (*types.MediaInfo, error) {
	m, err := s.media.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		m.Title = *req.Title
	}

	if req.Description != nil {
		m.Description = *req.Description
	}

	if req.Category != nil {
		m.Category = normalizeCategory(*req.Category)
	}

	if err := s.media.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("update media %s: %w", id, err)
	}

	if err := queue.PublishMediaUpdated(s.mqClient, queue.MediaUpdatedPayload{Media: toMediaRef(m)}); err != nil {
		nlog.Logger().Warn().Err(err).Str("media_id", id).Msg("publish media updated event failed")
	}

	info := toMediaInfo(m)

	return &info, nil
}

// Delete 删除单条媒体：先尽力删除外部托管文件，再硬删除记录及其
// 相册关联与浏览审计. 外部删除失败只记日志，不阻塞本地删除.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	m, err := s.media.Get(ctx, id)
	if err != nil {
		return err
	}

	remoteDeleted := s.deleteRemote(ctx, m)

	if err := s.media.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete media %s: %w", id, err)
	}

	if err := queue.PublishMediaDeleted(s.mqClient, queue.MediaDeletedPayload{
		Media:         toMediaRef(m),
		RemoteDeleted: remoteDeleted,
	}); err != nil {
		nlog.Logger().Warn().Err(err).Str("media_id", id).Msg("publish media deleted event failed")
	}

	return nil
}

// deleteRemote 尽力删除外部托管文件，返回是否删除成功.
func (s *MediaService) deleteRemote(ctx context.Context, m *model.Media) bool {
	if s.host == nil || m.OriginalURL == "" {
		return false
	}

	if err := s.host.Delete(ctx, m.OriginalURL); err != nil {
		nlog.Logger().Warn().Err(err).
			Str("media_id", m.ID).Str("host", s.host.Name()).
			Msg("remote file delete failed")

		return false
	}

	return true
}

func (s *MediaService) publishStored(m *model.Media, source, albumID string) {
	if err := queue.PublishMediaStored(s.mqClient, queue.MediaStoredPayload{
		Media:   toMediaRef(m),
		Source:  source,
		AlbumID: albumID,
	}); err != nil {
		nlog.Logger().Warn().Err(err).Str("media_id", m.ID).Msg("publish media stored event failed")
	}
}

// normalizeCategory 空白分类落为占位分类，其余去除首尾空白.
func normalizeCategory(category string) string {
	c := strings.TrimSpace(category)
	if c == "" {
		return model.DefaultCategory
	}

	return c
}

// fileTypeOf 根据文件名与内容类型判断媒体类型.
func fileTypeOf(filename, contentType string) string {
	if strings.HasPrefix(contentType, "video/") || masking.IsVideoFile(filename) {
		return model.MediaTypeVideo
	}

	return model.MediaTypeImage
}

// toMediaInfo 将模型转换为对外展示结构.
func toMediaInfo(m *model.Media) types.MediaInfo {
	return types.MediaInfo{
		ID:          m.ID,
		Filename:    m.Filename,
		URL:         m.URL,
		FileType:    m.FileType,
		ContentType: m.ContentType,
		FileSize:    m.FileSize,
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		IsPublic:    m.IsPublic,
		ViewCount:   m.ViewCount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// toMediaRef 将模型转换为事件引用结构.
func toMediaRef(m *model.Media) queue.MediaRef {
	return queue.MediaRef{
		ID:          m.ID,
		Filename:    m.Filename,
		URL:         m.URL,
		OriginalURL: m.OriginalURL,
		FileType:    m.FileType,
		ContentType: m.ContentType,
		Size:        m.FileSize,
		Category:    m.Category,
	}
}
