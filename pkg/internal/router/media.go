package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/handle"
)

// RegisterMediaRoutes 注册媒体相关路由.
func RegisterMediaRoutes(g *gin.RouterGroup) {
	mediaRoutes := g.Group("/media")
	{
		mediaRoutes.POST("", handle.CreateMedia)
		mediaRoutes.GET("", handle.ListMedia)
		mediaRoutes.DELETE("", handle.DeleteAllMedia)
		mediaRoutes.POST("/upload", handle.UploadMedia)

		mediaRoutes.GET("/:id", handle.GetMedia)
		mediaRoutes.PUT("/:id", handle.UpdateMedia)
		mediaRoutes.DELETE("/:id", handle.DeleteMedia)
		mediaRoutes.POST("/:id/views", handle.RecordMediaView)
	}
}
