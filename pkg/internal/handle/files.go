package handle

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/log"
)

// ServeMaskedFile 把第一方伪装路径回源为托管文件内容.
//
//	@Summary		伪装文件回源
//	@Description	按文件名解析外部托管直链并代理返回内容，伪装域名指向本服务即可直接出图
//	@Tags			文件
//	@Produce		octet-stream
//	@Param			filename	path	string	true	"文件名"
//	@Success		200
//	@Failure		404	{object}	map[string]string
//	@Router			/{filename} [get]
func ServeMaskedFile(c *gin.Context) {
	svc := service.NewMediaService(c.Request.Context())
	filename := c.Param("filename")

	rc, probe, err := svc.OpenFile(c.Request.Context(), filename)
	if err != nil {
		log.Logger().Warn().Err(err).Str("filename", filename).Msg("serve masked file failed")
		respondServiceError(c, err)

		return
	}
	defer func() { _ = rc.Close() }()

	// 托管内容按文件名不可变，允许长期缓存
	c.Header("Cache-Control", "public, max-age=31536000, immutable")

	if probe.Size > 0 {
		c.DataFromReader(http.StatusOK, probe.Size, probe.ContentType, rc, nil)
		return
	}

	// 大小未知时流式透传，不写 Content-Length
	c.Header("Content-Type", probe.ContentType)
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, rc); err != nil {
		log.Logger().Warn().Err(err).Str("filename", filename).Msg("stream masked file interrupted")
	}
}
