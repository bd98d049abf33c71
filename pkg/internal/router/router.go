// Package router 管理路由配置，只负责将路径和处理器绑定到 gin 引擎，
// 处理器的实现由 pkg/internal/handle 提供.
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes 注册 /api/v1 下的全部业务路由.
// readCacheMW 为只读端点的响应缓存中间件，可为 nil.
func RegisterAPIRoutes(g *gin.RouterGroup, readCacheMW gin.HandlerFunc) {
	RegisterMediaRoutes(g)
	RegisterAlbumRoutes(g)
	RegisterSharedRoutes(g, readCacheMW)
	RegisterStatsRoutes(g)
}
