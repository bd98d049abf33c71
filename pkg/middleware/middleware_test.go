package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/configs"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestEngine 挂一个固定返回的路由，方便数中间件放行了多少请求.
func newTestEngine(mw gin.HandlerFunc, status int) *gin.Engine {
	e := gin.New()
	e.Use(mw)
	e.GET("/ping", func(c *gin.Context) {
		c.Status(status)
	})

	return e
}

func doGet(e *gin.Engine, headers map[string]string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	e.ServeHTTP(w, req)

	return w.Code
}

// TestRateLimitDisabled 测试关闭限流时请求全部放行.
func TestRateLimitDisabled(t *testing.T) {
	e := newTestEngine(RateLimitMiddleware(configs.RateLimitConfig{Enabled: false}), http.StatusOK)

	for range 20 {
		if code := doGet(e, nil); code != http.StatusOK {
			t.Fatalf("关闭限流仍被拦截: %d", code)
		}
	}
}

// TestRateLimitGlobal 测试全局限流：突发额度耗尽后返回 429.
func TestRateLimitGlobal(t *testing.T) {
	cfg := configs.RateLimitConfig{Enabled: true, RPS: 1, Burst: 3, Key: "global"}
	e := newTestEngine(RateLimitMiddleware(cfg), http.StatusOK)

	var ok, limited int

	for range 10 {
		switch doGet(e, nil) {
		case http.StatusOK:
			ok++
		case http.StatusTooManyRequests:
			limited++
		}
	}

	if ok > cfg.Burst+1 {
		t.Fatalf("放行数超过突发额度: ok=%d burst=%d", ok, cfg.Burst)
	}

	if limited == 0 {
		t.Fatal("突发额度耗尽后没有请求被限流")
	}
}

// TestRateLimitHeaderKey 测试按请求头维度限流：不同键各自有独立额度.
func TestRateLimitHeaderKey(t *testing.T) {
	cfg := configs.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1, Key: "header:X-Client-Id"}
	e := newTestEngine(RateLimitMiddleware(cfg), http.StatusOK)

	if code := doGet(e, map[string]string{"X-Client-Id": "a"}); code != http.StatusOK {
		t.Fatalf("键 a 首个请求被拦截: %d", code)
	}

	if code := doGet(e, map[string]string{"X-Client-Id": "a"}); code != http.StatusTooManyRequests {
		t.Fatalf("键 a 超额请求未限流: %d", code)
	}

	// 另一个键不受前者额度影响
	if code := doGet(e, map[string]string{"X-Client-Id": "b"}); code != http.StatusOK {
		t.Fatalf("键 b 首个请求被拦截: %d", code)
	}
}

// TestCircuitBreakerOpensOnServerErrors 测试 5xx 比例超阈值后熔断器打开并直接拒绝.
func TestCircuitBreakerOpensOnServerErrors(t *testing.T) {
	cfg := configs.CircuitBreakerConfig{
		Enabled:           true,
		FailureRate:       0.5,
		MinRequests:       4,
		IntervalSeconds:   60,
		TimeoutSeconds:    30,
		MaxRequestsInHalf: 1,
	}
	e := newTestEngine(CircuitBreakerMiddleware(cfg), http.StatusInternalServerError)

	var sawUnavailable bool

	for range 10 {
		if doGet(e, nil) == http.StatusServiceUnavailable {
			sawUnavailable = true
			break
		}
	}

	if !sawUnavailable {
		t.Fatal("持续 5xx 后熔断器未打开")
	}
}

// TestCircuitBreakerPassesHealthyTraffic 测试正常流量不会触发熔断.
func TestCircuitBreakerPassesHealthyTraffic(t *testing.T) {
	cfg := configs.CircuitBreakerConfig{
		Enabled:           true,
		FailureRate:       0.5,
		MinRequests:       4,
		IntervalSeconds:   60,
		TimeoutSeconds:    30,
		MaxRequestsInHalf: 1,
	}
	e := newTestEngine(CircuitBreakerMiddleware(cfg), http.StatusOK)

	for i := range 20 {
		if code := doGet(e, nil); code != http.StatusOK {
			t.Fatalf("第 %d 个正常请求被熔断: %d", i, code)
		}
	}
}
