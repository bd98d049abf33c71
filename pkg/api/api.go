// Package api 将 HTTP 路由组装到 gin 引擎上.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/router"
)

// RegisterGroup 注册应用的全部 HTTP 路由.
// readCacheMW 为只读端点的响应缓存中间件，可为 nil.
func RegisterGroup(e *gin.Engine, readCacheMW gin.HandlerFunc) *gin.Engine {
	v1 := e.Group("/api/v1")
	router.RegisterAPIRoutes(v1, readCacheMW)
	router.RegisterHealthCheckRoute(v1)
	router.RegisterSchedulerRoutes(v1)

	// 根路径按文件名回源，供伪装域名直接出图
	router.RegisterFileRoutes(e)

	return e
}
