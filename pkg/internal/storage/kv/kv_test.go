package kv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/yeisme/mediavault/pkg/configs"
)

// TestMemoryKVBasic 测试内存 KV 的基本读写删.
func TestMemoryKVBasic(t *testing.T) {
	ctx := context.Background()

	store, err := NewMemoryKV(ctx, nil)
	if err != nil {
		t.Fatalf("NewMemoryKV: %v", err)
	}

	key := "share:abc12345"
	value := []byte(`{"album_id":"a-1"}`)

	if err := store.Set(ctx, key, value, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if string(got) != string(value) {
		t.Errorf("Get = %q, want %q", got, value)
	}

	exists, err := store.Exists(ctx, key)
	if err != nil || !exists {
		t.Errorf("Exists = %v, %v; want true, nil", exists, err)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := store.Get(ctx, key); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get after delete = %v, want ErrKeyNotFound", err)
	}
}

// TestMemoryKVTTL 测试内存 KV 的过期语义.
func TestMemoryKVTTL(t *testing.T) {
	ctx := context.Background()

	store, err := NewMemoryKV(ctx, nil)
	if err != nil {
		t.Fatalf("NewMemoryKV: %v", err)
	}

	// 足够长的 TTL 不影响读取
	if err := store.Set(ctx, "k1", []byte("v1"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if got, err := store.Get(ctx, "k1"); err != nil || string(got) != "v1" {
		t.Errorf("Get = %q, %v; want v1, nil", got, err)
	}

	// 直接写入一个已到期的包装值，Get 应惰性删除并按不存在处理
	tv := ttlValue{V: []byte("v2"), E: time.Now().Add(-time.Minute).Unix()}

	b, err := sonic.Marshal(tv)
	if err != nil {
		t.Fatalf("marshal ttl value: %v", err)
	}

	mem := store.(*MemoryKV)
	mem.data.Store("k2", append([]byte(ttlMagic), b...))

	if _, err := store.Get(ctx, "k2"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get expired key = %v, want ErrKeyNotFound", err)
	}

	if exists, _ := store.Exists(ctx, "k2"); exists {
		t.Error("expired key should not exist")
	}
}

// TestTTLCodec 测试 TTL 包装编解码.
func TestTTLCodec(t *testing.T) {
	// ttl<=0 不包装
	raw, wrapped, err := encodeWithTTL([]byte("plain"), 0)
	if err != nil || wrapped {
		t.Fatalf("encodeWithTTL(0) wrapped=%v err=%v", wrapped, err)
	}

	out, expired, wasWrapped, err := decodeWithTTL(raw, time.Now())
	if err != nil || expired || wasWrapped || string(out) != "plain" {
		t.Errorf("decode plain = %q expired=%v wrapped=%v err=%v", out, expired, wasWrapped, err)
	}

	// ttl>0 包装，未到期可解出原值
	raw, wrapped, err = encodeWithTTL([]byte("boxed"), time.Hour)
	if err != nil || !wrapped {
		t.Fatalf("encodeWithTTL(1h) wrapped=%v err=%v", wrapped, err)
	}

	out, expired, wasWrapped, err = decodeWithTTL(raw, time.Now())
	if err != nil || expired || !wasWrapped || string(out) != "boxed" {
		t.Errorf("decode boxed = %q expired=%v wrapped=%v err=%v", out, expired, wasWrapped, err)
	}

	// 到期后视为过期
	_, expired, _, err = decodeWithTTL(raw, time.Now().Add(2*time.Hour))
	if err != nil || !expired {
		t.Errorf("decode after expiry: expired=%v err=%v", expired, err)
	}
}

// TestGroupcacheKVBasic 测试 Groupcache KV 的读写删与过期语义.
func TestGroupcacheKVBasic(t *testing.T) {
	ctx := context.Background()

	// 缓存组按名称全局注册，测试用独立组名
	cfg := &configs.KVConfig{Groupcache: configs.GroupcacheKVConfig{
		Name:       "mediavault-share-test",
		CacheBytes: 1 << 20,
	}}

	store, err := NewGroupcacheKV(ctx, cfg)
	if err != nil {
		t.Fatalf("NewGroupcacheKV: %v", err)
	}

	key := "share:abc12345"
	value := []byte(`{"album_id":"a-1"}`)

	if err := store.Set(ctx, key, value, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if string(got) != string(value) {
		t.Errorf("Get = %q, want %q", got, value)
	}

	if exists, err := store.Exists(ctx, key); err != nil || !exists {
		t.Errorf("Exists = %v, %v; want true, nil", exists, err)
	}

	if _, err := store.Get(ctx, "share:missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get missing key = %v, want ErrKeyNotFound", err)
	}

	// 直接写入已到期的包装值，读取侧判定过期
	tv := ttlValue{V: []byte("v2"), E: time.Now().Add(-time.Minute).Unix()}

	b, err := sonic.Marshal(tv)
	if err != nil {
		t.Fatalf("marshal ttl value: %v", err)
	}

	gc := store.(*GroupcacheKV)
	gc.mu.Lock()
	gc.data["share:expired"] = append([]byte(ttlMagic), b...)
	gc.mu.Unlock()

	if exists, _ := store.Exists(ctx, "share:expired"); exists {
		t.Error("expired key should not exist")
	}
}

// TestRegisteredKVTypes 测试工厂注册.
func TestRegisteredKVTypes(t *testing.T) {
	types := GetRegisteredKVTypes()

	var hasMemory, hasGroupcache bool

	for _, tp := range types {
		switch tp {
		case KVTypeMemory:
			hasMemory = true
		case KVTypeGroupcache:
			hasGroupcache = true
		}
	}

	if !hasMemory {
		t.Errorf("memory KV type not registered: %v", types)
	}

	if !hasGroupcache {
		t.Errorf("groupcache KV type not registered: %v", types)
	}
}
