package cache_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/yeisme/mediavault/pkg/cache"
)

// sharedAlbum 测试用的分享页摘要结构体.
type sharedAlbum struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	MediaCount int    `json:"media_count"`
}

// mockKVStore 模拟KV存储实现.
type mockKVStore struct {
	data map[string][]byte
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{
		data: make(map[string][]byte),
	}
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if value, exists := m.data[key]; exists {
		return value, nil
	}

	return nil, fmt.Errorf("key not found")
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mockKVStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockKVStore) Exists(ctx context.Context, key string) (bool, error) {
	_, exists := m.data[key]
	return exists, nil
}

func (m *mockKVStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}

	return keys, nil
}

func (m *mockKVStore) Close() error {
	return nil
}

// TestCache_SetGet 测试 Set/Get 往返.
func TestCache_SetGet(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)
	ctx := context.Background()

	// 获取不存在的键
	if _, err := cache.Get[sharedAlbum](ctx, c, "share:missing"); err == nil {
		t.Error("Expected error for nonexistent key")
	}

	album := sharedAlbum{ID: "a1", Name: "trip", MediaCount: 3}
	if err := cache.Set(ctx, c, "share:a1b2c3d4", album, 0); err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	got, err := cache.Get[sharedAlbum](ctx, c, "share:a1b2c3d4")
	if err != nil {
		t.Fatalf("Failed to get cache: %v", err)
	}

	if got != album {
		t.Errorf("Retrieved album %+v does not match original %+v", got, album)
	}
}

// TestCache_DeleteExists 测试 Delete 与 Exists.
func TestCache_DeleteExists(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)
	ctx := context.Background()

	if err := cache.Set(ctx, c, "share:gone", sharedAlbum{ID: "a2"}, 0); err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	exists, err := c.Exists(ctx, "share:gone")
	if err != nil {
		t.Fatalf("Failed to check existence: %v", err)
	}

	if !exists {
		t.Error("Key should exist before deletion")
	}

	if err := c.Delete(ctx, "share:gone"); err != nil {
		t.Fatalf("Failed to delete cache: %v", err)
	}

	exists, err = c.Exists(ctx, "share:gone")
	if err != nil {
		t.Fatalf("Failed to check existence after deletion: %v", err)
	}

	if exists {
		t.Error("Key should not exist after deletion")
	}
}

// TestGetOrSet 测试 GetOrSet 只回源一次.
func TestGetOrSet(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)
	ctx := context.Background()

	callCount := 0
	getter := func() (sharedAlbum, error) {
		callCount++
		return sharedAlbum{ID: "a3", Name: "pets", MediaCount: 7}, nil
	}

	first, err := cache.GetOrSet(ctx, c, "share:pets", getter, 0)
	if err != nil {
		t.Fatalf("Failed to get or set: %v", err)
	}

	second, err := cache.GetOrSet(ctx, c, "share:pets", getter, 0)
	if err != nil {
		t.Fatalf("Failed to get or set: %v", err)
	}

	if callCount != 1 {
		t.Errorf("Expected getter to be called once, got %d", callCount)
	}

	if first != second {
		t.Errorf("Results don't match: %+v vs %+v", first, second)
	}
}

// TestGetOrSet_GetterError 测试 getter 返回错误的情况.
func TestGetOrSet_GetterError(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)
	ctx := context.Background()

	getter := func() (sharedAlbum, error) {
		return sharedAlbum{}, errors.New("getter error")
	}

	if _, err := cache.GetOrSet(ctx, c, "share:error", getter, 0); err == nil {
		t.Error("Expected error from getter")
	}

	if exists, _ := c.Exists(ctx, "share:error"); exists {
		t.Error("Failed getter should not populate cache")
	}
}

// TestCache_Clear 测试 Clear 清空全部键.
func TestCache_Clear(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)
	ctx := context.Background()

	for i := range 3 {
		key := fmt.Sprintf("share:%d", i)
		if err := cache.Set(ctx, c, key, sharedAlbum{ID: key}, 0); err != nil {
			t.Fatalf("Failed to set cache for %s: %v", key, err)
		}
	}

	if len(mockStore.data) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(mockStore.data))
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear cache: %v", err)
	}

	if len(mockStore.data) != 0 {
		t.Errorf("Expected 0 items after clear, got %d", len(mockStore.data))
	}
}

// TestCache_GenericTypes 测试不同数据类型的支持.
func TestCache_GenericTypes(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)
	ctx := context.Background()

	if err := cache.Set(ctx, c, "string:key", "i.dhrv.dev", 0); err != nil {
		t.Fatalf("Failed to set string: %v", err)
	}

	str, err := cache.Get[string](ctx, c, "string:key")
	if err != nil {
		t.Fatalf("Failed to get string: %v", err)
	}

	if str != "i.dhrv.dev" {
		t.Errorf("Expected 'i.dhrv.dev', got '%s'", str)
	}

	codes := []string{"a1b2c3d4", "zz99xx88"}
	if err := cache.Set(ctx, c, "slice:key", codes, 0); err != nil {
		t.Fatalf("Failed to set slice: %v", err)
	}

	got, err := cache.Get[[]string](ctx, c, "slice:key")
	if err != nil {
		t.Fatalf("Failed to get slice: %v", err)
	}

	if len(got) != len(codes) {
		t.Fatalf("Slice length mismatch: expected %d, got %d", len(codes), len(got))
	}

	for i, v := range codes {
		if got[i] != v {
			t.Errorf("Slice element %d mismatch: expected %s, got %s", i, v, got[i])
		}
	}
}
