// Package handle 提供 HTTP 请求处理器的实现.
package handle

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker"

	"github.com/yeisme/mediavault/pkg/internal/repo"
	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/rule"
)

func DefaultHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"message": "Not Implemented"})
}

// respondServiceError 将业务错误映射为 HTTP 状态码.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, repo.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict"})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPayloadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnsupportedType):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "upstream host temporarily unavailable"})
	case isTimeout(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "upstream timeout, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// isTimeout 判断错误链上是否存在超时（含 ctx 截止）；超时按瞬时故障响应 503.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

// bindAndValidate 绑定请求体并执行 rule 校验；失败时返回 false 并响应 400.
func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}

	if err := rule.ValidateStruct(req); err != nil {
		if fields := rule.Errors(err); len(fields) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}

		return false
	}

	return true
}
