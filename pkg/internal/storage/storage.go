// Package storage 聚合所有存储资源：数据库、外部文件托管、KV 缓存与消息队列.
//
// Example:
//
// 初始化
//
//	 ctx := context.Background()
//	 mgr, err := storage.Init(ctx)
//
//		if err != nil {
//		    // 处理错误
//		}
//
// 获取存储客户端
//
//	hostClient := mgr.GetHost()
//	dbClient := mgr.GetDBClient()
package storage

import (
	"context"
	"sync"

	"github.com/yeisme/mediavault/pkg/configs"
	"github.com/yeisme/mediavault/pkg/internal/repo"
	"github.com/yeisme/mediavault/pkg/internal/repo/gormrepo"
	dbc "github.com/yeisme/mediavault/pkg/internal/storage/db"
	"github.com/yeisme/mediavault/pkg/internal/storage/host"
	kvc "github.com/yeisme/mediavault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/mediavault/pkg/internal/storage/mq"
	nlog "github.com/yeisme/mediavault/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	DB   *dbc.Client
	Host host.Host
	KV   *kvc.Client
	MQ   *mqc.Client

	// Media / Album 仓储，基于 DB 构建
	Media repo.MediaRepo
	Album repo.AlbumRepo
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置. 重复调用只返回已初始化实例.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		cfg := configs.GetConfig()
		m := &Manager{}

		// DB
		dbi, e := dbc.New(ctx)
		if e != nil {
			err = e
			return
		}

		if e := dbi.Migrate(); e != nil {
			err = e
			return
		}

		m.DB = dbi
		m.Media = gormrepo.NewMediaRepo(dbi.GetDB())
		m.Album = gormrepo.NewAlbumRepo(dbi.GetDB())

		// 外部托管
		hosti, e := host.New(ctx, &cfg.Host)
		if e != nil {
			err = e
			return
		}

		m.Host = hosti

		// KV 缓存
		kvi, e := kvc.NewKVClient(ctx)
		if e != nil {
			err = e
			return
		}

		m.KV = kvi

		// MQ（可选；未启用时为 nil）
		mqi, e := mqc.New(ctx)
		if e != nil {
			err = e
			return
		}

		m.MQ = mqi

		mgr = m

		nlog.Logger().Info().Msg("storage manager initialized")
	})

	return mgr, err
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetHost 获取外部托管客户端.
func (m *Manager) GetHost() host.Host {
	return m.Host
}

// GetKVClient 获取 KV 客户端.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// GetMQClient 获取 MQ 客户端（未启用时为 nil）.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// GetMediaRepo 获取媒体仓储.
func (m *Manager) GetMediaRepo() repo.MediaRepo {
	return m.Media
}

// GetAlbumRepo 获取相册仓储.
func (m *Manager) GetAlbumRepo() repo.AlbumRepo {
	return m.Album
}
