package middleware

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"

	appcache "github.com/yeisme/mediavault/pkg/cache"
)

const (
	defaultCacheTTL     = 30 * time.Second
	defaultMaxBodyBytes = 1 << 20 // 1MB，列表/分享页响应远小于此
	cacheBypassHeader   = "X-Cache-Bypass"
)

// CacheConfig 响应缓存中间件配置.
type CacheConfig struct {
	Cache *appcache.Cache // 必须: 业务注入的 Cache 实例
	TTL   time.Duration   // 缓存 TTL，<=0 使用默认值

	Skipper      func(*gin.Context) bool // 返回 true 跳过缓存
	MaxBodyBytes int                     // 超过该大小的响应体不缓存 (0=默认)
}

// CacheMiddleware 只读端点的响应缓存:
//   - 仅缓存 GET/HEAD 的 200 响应，键为方法+路由+排序后的 query 的 xxhash
//   - 支持 ETag / If-None-Match 与 X-Cache 命中标记
//   - 缓存读写失败均静默降级，不影响主流程
//
// 用于媒体列表与公开分享页等读多写少的路由.
func CacheMiddleware(cfg CacheConfig) gin.HandlerFunc {
	if cfg.Cache == nil {
		panic("CacheMiddleware: Cache cannot be nil")
	}

	if cfg.TTL <= 0 {
		cfg.TTL = defaultCacheTTL
	}

	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}

	return func(c *gin.Context) {
		if shouldBypassCache(c, cfg) {
			c.Next()
			return
		}

		key := buildCacheKey(c)
		if serveFromCache(c, cfg, key) {
			return
		}

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer, max: cfg.MaxBodyBytes}
		c.Writer = bw
		c.Next()
		storeResponse(c, cfg, key, bw)
	}
}

// responseCacheEntry 序列化存储结构.
type responseCacheEntry struct {
	Status   int               `json:"s"`
	Header   map[string]string `json:"h,omitempty"`
	Body     []byte            `json:"b,omitempty"`
	ETag     string            `json:"e,omitempty"`
	StoredAt int64             `json:"t"` // unix nano, 用于 Age
}

func shouldBypassCache(c *gin.Context, cfg CacheConfig) bool {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		return true
	}

	if c.GetHeader(cacheBypassHeader) != "" {
		return true
	}

	return cfg.Skipper != nil && cfg.Skipper(c)
}

// buildCacheKey 生成缓存键: 方法 + 路由模板 + 排序后的 query.
func buildCacheKey(c *gin.Context) string {
	var b strings.Builder

	b.WriteString(c.Request.Method)
	b.WriteByte(':')

	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}

	b.WriteString(path)

	// 路由参数（如 :id / :code）也要参与 key
	for _, p := range c.Params {
		b.WriteByte('/')
		b.WriteString(p.Value)
	}

	if q := c.Request.URL.Query(); len(q) > 0 {
		keys := make([]string, 0, len(q))
		for k := range q {
			keys = append(keys, k)
		}

		sort.Strings(keys)
		b.WriteByte('?')

		for i, k := range keys {
			if i > 0 {
				b.WriteByte('&')
			}

			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(strings.Join(q[k], ","))
		}
	}

	return fmt.Sprintf("rc:%x", xxhash.Sum64String(b.String()))
}

// bodyCaptureWriter 包装响应写入用于捕获 body.
type bodyCaptureWriter struct {
	gin.ResponseWriter

	buf       bytes.Buffer
	max       int
	truncated bool
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	if !w.truncated {
		remain := w.max - w.buf.Len()
		switch {
		case remain <= 0:
			w.truncated = true
		case len(b) > remain:
			w.buf.Write(b[:remain])
			w.truncated = true
		default:
			w.buf.Write(b)
		}
	}

	return w.ResponseWriter.Write(b)
}

// serveFromCache 尝试从缓存提供响应; 成功返回 true.
func serveFromCache(c *gin.Context, cfg CacheConfig, key string) bool {
	entry, err := appcache.Get[responseCacheEntry](c.Request.Context(), cfg.Cache, key)
	if err != nil {
		return false
	}

	h := c.Writer.Header()
	for k, v := range entry.Header {
		h.Set(k, v)
	}

	if entry.ETag != "" {
		h.Set("ETag", entry.ETag)
	}

	age := time.Since(time.Unix(0, entry.StoredAt)).Seconds()
	h.Set("Age", fmt.Sprintf("%.0f", age))
	h.Set("X-Cache", "HIT")

	if entry.ETag != "" && c.GetHeader("If-None-Match") == entry.ETag {
		c.Status(http.StatusNotModified)
		c.Abort()

		return true
	}

	c.Status(entry.Status)

	if c.Request.Method != http.MethodHead {
		_, _ = c.Writer.Write(entry.Body)
	}

	c.Abort()

	return true
}

// storeResponse 缓存成功的 GET 响应.
func storeResponse(c *gin.Context, cfg CacheConfig, key string, bw *bodyCaptureWriter) {
	if c.Writer.Status() != http.StatusOK || bw.truncated {
		return
	}

	body := bw.buf.Bytes()
	hdr := make(map[string]string)

	for k, v := range c.Writer.Header() {
		// 捕获的是压缩前的明文，编码相关头由回放请求自行协商
		if k == "Content-Encoding" || k == "Content-Length" || k == "Vary" {
			continue
		}

		if len(v) > 0 {
			hdr[k] = v[0]
		}
	}

	etag := c.Writer.Header().Get("ETag")
	if etag == "" {
		etag = fmt.Sprintf("\"%x\"", xxhash.Sum64(body))
		c.Writer.Header().Set("ETag", etag)
		hdr["ETag"] = etag
	}

	entry := responseCacheEntry{Status: http.StatusOK, Header: hdr, Body: body, ETag: etag, StoredAt: time.Now().UnixNano()}
	go func(ctx context.Context, k string, e responseCacheEntry) {
		_ = appcache.Set(ctx, cfg.Cache, k, e, cfg.TTL)
	}(context.WithoutCancel(c.Request.Context()), key, entry)

	c.Writer.Header().Set("X-Cache", "MISS")
}
