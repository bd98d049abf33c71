package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/types"
	nlog "github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/masking"
	"github.com/yeisme/mediavault/pkg/metrics"
)

// Upload 代理上传：把入站文件转存到外部托管，再按伪装地址登记媒体记录.
//
// 入站载荷超过配置上限时返回 ErrPayloadTooLarge；MIME 类型不在允许列表
// 时返回 ErrUnsupportedType. 更大的文件应由客户端直传外部托管后走登记接口.
func (s *MediaService) Upload(ctx context.Context, filename string, r io.Reader, size int64,
	contentType string, meta *types.UploadMediaMetadata,
) (*types.UploadMediaResponse, error) {
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrValidation)
	}

	if size > s.uploadCfg.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrPayloadTooLarge, size, s.uploadCfg.MaxBytes)
	}

	if contentType == "" || contentType == "application/octet-stream" {
		contentType = masking.ContentTypeFromFilename(filename)
	}

	if !s.uploadCfg.Allowed(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	originalURL, err := s.host.Store(ctx, filename, r, size, contentType)
	if err != nil {
		metrics.UploadCounter.WithLabelValues(s.host.Name(), "failure").Inc()
		return nil, fmt.Errorf("store file on %s: %w", s.host.Name(), err)
	}

	metrics.UploadCounter.WithLabelValues(s.host.Name(), "success").Inc()

	if meta == nil {
		meta = &types.UploadMediaMetadata{}
	}

	m := &model.Media{
		ID:          uuid.NewString(),
		Filename:    filename,
		OriginalURL: originalURL,
		URL:         s.masker.Mask(originalURL),
		FileType:    fileTypeOf(filename, contentType),
		ContentType: contentType,
		FileSize:    size,
		Title:       meta.Title,
		Description: meta.Description,
		Category:    normalizeCategory(meta.Category),
		IsPublic:    true,
	}

	if err := s.media.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create media record: %w", err)
	}

	resp := &types.UploadMediaResponse{Media: toMediaInfo(m)}

	if meta.AlbumID != "" {
		if _, err := s.album.AddMedia(ctx, meta.AlbumID, []string{m.ID}); err != nil {
			nlog.Logger().Warn().Err(err).
				Str("media_id", m.ID).Str("album_id", meta.AlbumID).
				Msg("media uploaded but album link failed")

			resp.AlbumWarning = fmt.Sprintf("media uploaded but could not be added to album %s", meta.AlbumID)
		}
	}

	s.publishStored(m, "upload", meta.AlbumID)

	return resp, nil
}
