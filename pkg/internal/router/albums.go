package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/handle"
)

// RegisterAlbumRoutes 注册相册相关路由.
func RegisterAlbumRoutes(g *gin.RouterGroup) {
	albumRoutes := g.Group("/albums")
	{
		albumRoutes.POST("", handle.CreateAlbum)
		albumRoutes.GET("", handle.ListAlbums)

		albumRoutes.GET("/:id", handle.GetAlbum)
		albumRoutes.PUT("/:id", handle.UpdateAlbum)
		albumRoutes.DELETE("/:id", handle.DeleteAlbum)

		albumRoutes.POST("/:id/media", handle.AddAlbumMedia)
		albumRoutes.DELETE("/:id/media", handle.RemoveAlbumMedia)
	}
}

// RegisterSharedRoutes 注册公开分享页路由；readCacheMW 非 nil 时挂接响应缓存.
func RegisterSharedRoutes(g *gin.RouterGroup, readCacheMW gin.HandlerFunc) {
	sharedRoutes := g.Group("/shared")
	if readCacheMW != nil {
		sharedRoutes.Use(readCacheMW)
	}

	sharedRoutes.GET("/:code", handle.GetSharedAlbum)
}
