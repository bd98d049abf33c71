package host

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sony/gobreaker"

	"github.com/yeisme/mediavault/pkg/configs"
	nlog "github.com/yeisme/mediavault/pkg/log"
)

// breakerHost 用熔断器包装 Host，外部托管持续故障时快速失败，
// 避免上传请求长时间挂在故障托管方上.
type breakerHost struct {
	inner Host
	cb    *gobreaker.CircuitBreaker
}

// WrapBreaker 按配置包装熔断器.
func WrapBreaker(h Host, cfg configs.CircuitBreakerConfig) Host {
	settings := gobreaker.Settings{
		Name:        "host-" + h.Name(),
		MaxRequests: cfg.MaxRequestsInHalf,
		Interval:    time.Duration(cfg.IntervalSeconds) * time.Second,
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}

			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRate
		},
		// 文件不存在是正常业务结果，不计入托管方故障
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			nlog.Logger().Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("托管熔断器状态变更")
		},
	}

	return &breakerHost{inner: h, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *breakerHost) Name() string { return b.inner.Name() }

func (b *breakerHost) Store(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return b.inner.Store(ctx, filename, r, size, contentType)
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

func (b *breakerHost) Probe(ctx context.Context, rawURL string) (*ProbeResult, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return b.inner.Probe(ctx, rawURL)
	})
	if err != nil {
		return nil, err
	}

	return result.(*ProbeResult), nil
}

// openResult 承载 Open 的双返回值穿过熔断器.
type openResult struct {
	rc    io.ReadCloser
	probe *ProbeResult
}

func (b *breakerHost) Open(ctx context.Context, rawURL string) (io.ReadCloser, *ProbeResult, error) {
	result, err := b.cb.Execute(func() (any, error) {
		rc, probe, err := b.inner.Open(ctx, rawURL)
		if err != nil {
			return nil, err
		}

		return &openResult{rc: rc, probe: probe}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	r := result.(*openResult)

	return r.rc, r.probe, nil
}

func (b *breakerHost) Delete(ctx context.Context, rawURL string) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.inner.Delete(ctx, rawURL)
	})

	return err
}

// ErrOpenState 暴露 gobreaker 的打开状态错误，供上层识别为瞬时故障.
var ErrOpenState = gobreaker.ErrOpenState
