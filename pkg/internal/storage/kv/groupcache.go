package kv

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/groupcache"

	"github.com/yeisme/mediavault/pkg/configs"
)

// GroupcacheKV 基于 Groupcache 的 KV 实现，进程内近端缓存，可选 HTTP 对等节点.
//
// 缓存组只缓存读取结果且不失效，已被缓存的键再次 Set 不会更新读取值；
// 过期判断在读取侧做，到期的键按不存在处理.
type GroupcacheKV struct {
	cache *groupcache.Group
	peers *groupcache.HTTPPool

	data map[string][]byte
	mu   sync.RWMutex
}

// groupcacheGetter 实现 groupcache.Getter，从本地 data 回源.
type groupcacheGetter struct {
	kv *GroupcacheKV
}

func (g *groupcacheGetter) Get(_ context.Context, key string, dest groupcache.Sink) error {
	g.kv.mu.RLock()
	value, exists := g.kv.data[key]
	g.kv.mu.RUnlock()

	if !exists {
		return ErrKeyNotFound
	}

	if err := dest.SetBytes(value); err != nil {
		return fmt.Errorf("set bytes to sink: %w", err)
	}

	return nil
}

// NewGroupcacheKV 创建 Groupcache KV 实例.
func NewGroupcacheKV(_ context.Context, cfg *configs.KVConfig) (KVStore, error) {
	gcCfg := cfg.Groupcache
	if gcCfg.Name == "" {
		return nil, fmt.Errorf("groupcache group name is empty")
	}

	kv := &GroupcacheKV{
		data: make(map[string][]byte),
	}

	kv.cache = groupcache.NewGroup(gcCfg.Name, gcCfg.CacheBytes, &groupcacheGetter{kv: kv})

	// 配置了对等节点时组成 HTTP 池，按一致性哈希分担热键
	if len(gcCfg.Peers) > 0 {
		kv.peers = groupcache.NewHTTPPoolOpts(gcCfg.Self, &groupcache.HTTPPoolOptions{})
		kv.peers.Set(gcCfg.Peers...)
	}

	return kv, nil
}

// Get 获取键的值；已过期的键删除回源数据并按不存在处理.
func (g *GroupcacheKV) Get(ctx context.Context, key string) ([]byte, error) {
	var raw []byte

	if err := g.cache.Get(ctx, key, groupcache.AllocatingByteSliceSink(&raw)); err != nil {
		return nil, err
	}

	data, expired, _, err := decodeWithTTL(raw, time.Now())
	if err != nil {
		return nil, err
	}

	if expired {
		g.mu.Lock()
		delete(g.data, key)
		g.mu.Unlock()

		return nil, ErrKeyNotFound
	}

	result := make([]byte, len(data))
	copy(result, data)

	return result, nil
}

// Set 设置键的值；TTL 编入值包装，由读取侧判定过期.
func (g *GroupcacheKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	data, _, err := encodeWithTTL(value, ttl)
	if err != nil {
		return err
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	g.mu.Lock()
	g.data[key] = buf
	g.mu.Unlock()

	return nil
}

// Delete 删除回源数据；缓存组中的旧值不主动失效.
func (g *GroupcacheKV) Delete(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.data, key)

	return nil
}

// Exists 检查键是否存在（含过期判断）.
func (g *GroupcacheKV) Exists(_ context.Context, key string) (bool, error) {
	g.mu.RLock()
	raw, exists := g.data[key]
	g.mu.RUnlock()

	if !exists {
		return false, nil
	}

	_, expired, _, err := decodeWithTTL(raw, time.Now())
	if err != nil {
		return false, err
	}

	return !expired, nil
}

// Keys 获取所有键.
func (g *GroupcacheKV) Keys(_ context.Context, pattern string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	keys := make([]string, 0, len(g.data))

	for key := range g.data {
		if pattern == "" || key == pattern {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

// Close 关闭缓存（Groupcache 没有显式的关闭方法）.
func (g *GroupcacheKV) Close() error {
	return nil
}

func init() {
	RegisterKVFactory(KVTypeGroupcache, NewGroupcacheKV)
}
