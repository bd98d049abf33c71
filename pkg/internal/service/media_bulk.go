package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/yeisme/mediavault/pkg/internal/types"
	nlog "github.com/yeisme/mediavault/pkg/log"
)

// deleteAllConcurrency 清空媒体库时的并发删除上限，主要受外部托管接口限制.
const deleteAllConcurrency = 8

// DeleteAll 清空媒体库：逐条删除全部媒体（含外部托管文件与级联数据）.
// 尽力而为，单条失败不阻断其余删除，返回成功与失败条数.
func (s *MediaService) DeleteAll(ctx context.Context) (*types.DeleteAllMediaResponse, error) {
	ids, err := s.media.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list media ids: %w", err)
	}

	var deleted, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteAllConcurrency)

	for _, id := range ids {
		g.Go(func() error {
			if err := s.Delete(gctx, id); err != nil {
				nlog.Logger().Warn().Err(err).Str("media_id", id).Msg("delete media failed during wipe")
				failed.Add(1)

				return nil // 不中断其余删除
			}

			deleted.Add(1)

			return nil
		})
	}

	_ = g.Wait()

	return &types.DeleteAllMediaResponse{
		DeletedCount: int(deleted.Load()),
		FailedCount:  int(failed.Load()),
	}, nil
}
