package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/handle"
)

// RegisterStatsRoutes 注册统计与分类路由.
func RegisterStatsRoutes(g *gin.RouterGroup) {
	g.GET("/stats", handle.GetStats)
	g.GET("/categories", handle.ListCategories)
}
