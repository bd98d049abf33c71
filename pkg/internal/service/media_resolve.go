package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yeisme/mediavault/pkg/internal/repo"
	"github.com/yeisme/mediavault/pkg/internal/storage/host"
)

// OpenFile 把第一方伪装路径中的文件名解析为外部直链并打开内容流.
// 已登记的媒体用其原始直链回源，未登记的文件按配置的外部前缀重建；
// 文件不存在时返回 repo.ErrNotFound.
func (s *MediaService) OpenFile(ctx context.Context, filename string) (io.ReadCloser, *host.ProbeResult, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" || strings.ContainsAny(filename, "/\\") {
		return nil, nil, fmt.Errorf("%w: invalid filename", ErrValidation)
	}

	if s.host == nil {
		return nil, nil, fmt.Errorf("file host not initialized")
	}

	target := s.masker.ExternalURL(filename)

	m, err := s.media.GetByFilename(ctx, filename)

	switch {
	case err == nil:
		if m.OriginalURL != "" {
			target = m.OriginalURL
		}
	case !errors.Is(err, repo.ErrNotFound):
		return nil, nil, fmt.Errorf("resolve file %s: %w", filename, err)
	}

	rc, probe, err := s.host.Open(ctx, target)
	if errors.Is(err, host.ErrNotFound) {
		return nil, nil, repo.ErrNotFound
	}

	if err != nil {
		return nil, nil, fmt.Errorf("open hosted file %s: %w", filename, err)
	}

	return rc, probe, nil
}
