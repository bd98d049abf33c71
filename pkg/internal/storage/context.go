package storage

import (
	"context"

	"github.com/yeisme/mediavault/pkg/internal/repo"
	"github.com/yeisme/mediavault/pkg/internal/storage/host"
	kvc "github.com/yeisme/mediavault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/mediavault/pkg/internal/storage/mq"
)

type contextKey string

const managerKey contextKey = "storageManager"

// WithManager 将 Manager 存储到 context 中.
func WithManager(ctx context.Context, mgr *Manager) context.Context {
	return context.WithValue(ctx, managerKey, mgr)
}

// GetManagerFromContext 从 context 中获取 Manager.
func GetManagerFromContext(ctx context.Context) *Manager {
	if mgr, ok := ctx.Value(managerKey).(*Manager); ok {
		return mgr
	}

	return nil
}

// GetHostFromContext 从 context 中获取外部托管客户端.
func GetHostFromContext(ctx context.Context) host.Host {
	if mgr := GetManagerFromContext(ctx); mgr != nil {
		return mgr.Host
	}

	return nil
}

// GetKVFromContext 从 context 中获取 KV 客户端.
func GetKVFromContext(ctx context.Context) *kvc.Client {
	if mgr := GetManagerFromContext(ctx); mgr != nil {
		return mgr.KV
	}

	return nil
}

// GetMQFromContext 从 context 中获取 MQ 客户端.
func GetMQFromContext(ctx context.Context) *mqc.Client {
	if mgr := GetManagerFromContext(ctx); mgr != nil {
		return mgr.MQ
	}

	return nil
}

// GetMediaRepoFromContext 从 context 中获取媒体仓储.
func GetMediaRepoFromContext(ctx context.Context) repo.MediaRepo {
	if mgr := GetManagerFromContext(ctx); mgr != nil {
		return mgr.Media
	}

	return nil
}

// GetAlbumRepoFromContext 从 context 中获取相册仓储.
func GetAlbumRepoFromContext(ctx context.Context) repo.AlbumRepo {
	if mgr := GetManagerFromContext(ctx); mgr != nil {
		return mgr.Album
	}

	return nil
}
