// Package host 抽象外部文件托管：上传、探测与删除.
//
// 托管方只负责保管文件并返回直链；元数据与伪装地址由上层落库.
// 通过工厂注册支持多种托管实现（catbox、S3 兼容存储）.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yeisme/mediavault/pkg/configs"
)

// ErrNotFound 托管方没有这个文件.
var ErrNotFound = errors.New("hosted file not found")

// ProbeResult HEAD 探测结果.
type ProbeResult struct {
	ContentType string
	// Size 字节数；托管方未返回 Content-Length 时为 0
	Size int64
}

// Host 外部托管接口.
type Host interface {
	// Store 上传文件并返回外部直链
	Store(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error)
	// Probe 对直链做 HEAD 探测，获取内容类型与大小
	Probe(ctx context.Context, rawURL string) (*ProbeResult, error)
	// Open 打开直链内容流，用于第一方伪装路径的回源代理；
	// 文件不存在返回 ErrNotFound
	Open(ctx context.Context, rawURL string) (io.ReadCloser, *ProbeResult, error)
	// Delete 删除托管文件（尽力而为；托管方不支持时返回 nil）
	Delete(ctx context.Context, rawURL string) error
	// Name 托管实现名，用于日志
	Name() string
}

// Factory 定义创建 Host 的工厂函数类型.
type Factory func(ctx context.Context, cfg *configs.HostConfig) (Host, error)

// factories 托管类型到工厂的映射.
var factories = map[configs.HostType]Factory{}

// RegisterFactory 注册托管工厂函数.
func RegisterFactory(t configs.HostType, f Factory) {
	factories[t] = f
}

// New 根据配置创建 Host 实例，并按配置包上熔断器.
func New(ctx context.Context, cfg *configs.HostConfig) (Host, error) {
	factory, ok := factories[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported host type: %s", cfg.Type)
	}

	h, err := factory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init host (%s): %w", cfg.Type, err)
	}

	cb := configs.GetConfig().CircuitBreaker
	if cb.Enabled {
		h = WrapBreaker(h, cb)
	}

	return h, nil
}
