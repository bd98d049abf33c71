package service

import (
	"context"
	crand "crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid"

	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/types"
	nlog "github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/metrics"
	"github.com/yeisme/mediavault/pkg/queue"
)

// lockedEntropy 串行化熵源读取；ulid.Monotonic 返回的 reader 不支持并发使用.
type lockedEntropy struct {
	mu sync.Mutex
	r  io.Reader
}

func (e *lockedEntropy) Read(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.r.Read(p)
}

// 全局单例的 ULID 熵源，使用单调递增策略，确保同一毫秒内生成的 ULID 具有排序稳定性。
var ulidEntropy io.Reader = &lockedEntropy{r: ulid.Monotonic(crand.Reader, 0)}

// newViewID 生成浏览审计 ID.
func newViewID(now time.Time) (string, error) {
	id, err := ulid.New(ulid.Timestamp(now), ulidEntropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// RecordView 记录一次浏览：原子自增计数并返回新值，随后尽力写入
// 浏览审计与发布事件——两者失败都不影响计数结果.
func (s *MediaService) RecordView(ctx context.Context, id, ipAddress, userAgent string) (*types.RecordViewResponse, error) {
	count, err := s.media.IncrementView(ctx, id)
	if err != nil {
		return nil, err
	}

	metrics.ViewCounter.Inc()

	now := time.Now().UTC()

	// 审计是尽力而为：ID 生成或写入失败都只记日志，不影响计数结果
	if viewID, err := newViewID(now); err != nil {
		nlog.Logger().Warn().Err(err).Str("media_id", id).Msg("generate view audit id failed")
	} else if err := s.media.InsertView(ctx, &model.MediaView{
		ID:        viewID,
		MediaID:   id,
		ViewedAt:  now,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}); err != nil {
		nlog.Logger().Warn().Err(err).Str("media_id", id).Msg("insert view audit failed")
	}

	if err := queue.PublishMediaViewed(s.mqClient, queue.MediaViewedPayload{
		MediaID:   id,
		ViewCount: count,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}); err != nil {
		nlog.Logger().Warn().Err(err).Str("media_id", id).Msg("publish media viewed event failed")
	}

	return &types.RecordViewResponse{ID: id, ViewCount: count}, nil
}
