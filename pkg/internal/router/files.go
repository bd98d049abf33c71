package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/handle"
)

// RegisterFileRoutes 注册第一方伪装路径的回源路由.
// 挂在根路径上，伪装域名（如 i.dhrv.dev）指向本服务即可按文件名出图.
func RegisterFileRoutes(e *gin.Engine) {
	e.GET("/:filename", handle.ServeMaskedFile)
}
