package handle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/repo"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// respondStatus 执行错误映射并返回写出的状态码.
func respondStatus(t *testing.T, err error) int {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondServiceError(c, err)

	return w.Code
}

// timeoutError 模拟网络超时错误.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// TestRespondServiceError_Timeouts 测试超时类错误按瞬时故障映射为 503.
func TestRespondServiceError_Timeouts(t *testing.T) {
	cases := []error{
		context.DeadlineExceeded,
		fmt.Errorf("probe external url: %w", context.DeadlineExceeded),
		fmt.Errorf("upload to host: %w", timeoutError{}),
	}

	for _, err := range cases {
		if got := respondStatus(t, err); got != http.StatusServiceUnavailable {
			t.Errorf("status(%v) = %d, want %d", err, got, http.StatusServiceUnavailable)
		}
	}
}

// TestRespondServiceError_Mapping 测试业务错误到状态码的基础映射.
func TestRespondServiceError_Mapping(t *testing.T) {
	if got := respondStatus(t, repo.ErrNotFound); got != http.StatusNotFound {
		t.Errorf("not found status = %d, want %d", got, http.StatusNotFound)
	}

	if got := respondStatus(t, errors.New("boom")); got != http.StatusInternalServerError {
		t.Errorf("generic status = %d, want %d", got, http.StatusInternalServerError)
	}
}
