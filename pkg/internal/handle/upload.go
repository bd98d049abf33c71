package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/configs"
	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/log"
)

// UploadMedia 代理上传：接收 multipart 文件，转存外部托管后登记.
//
//	@Summary		代理上传媒体
//	@Description	小文件经服务端转存外部托管；超出上限的文件应由客户端直传后走登记接口
//	@Tags			媒体
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file		formData	file	true	"媒体文件"
//	@Param			title		formData	string	false	"标题"
//	@Param			category	formData	string	false	"分类"
//	@Param			album_id	formData	string	false	"上传后加入的相册"
//	@Success		201			{object}	types.UploadMediaResponse
//	@Failure		413			{object}	map[string]string
//	@Failure		415			{object}	map[string]string
//	@Router			/api/v1/media/upload [post]
func UploadMedia(c *gin.Context) {
	l := log.Logger()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	// 入站上限提前拦截，避免读超大文件
	if maxBytes := configs.GetConfig().Upload.MaxBytes; fileHeader.Size > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds upload limit"})
		return
	}

	var meta types.UploadMediaMetadata
	if err := c.ShouldBind(&meta); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form fields"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		l.Error().Err(err).Msg("open multipart file failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read uploaded file"})

		return
	}
	defer f.Close()

	svc := service.NewMediaService(c.Request.Context())

	res, err := svc.Upload(c.Request.Context(), fileHeader.Filename, f, fileHeader.Size,
		fileHeader.Header.Get("Content-Type"), &meta)
	if err != nil {
		l.Error().Err(err).Str("filename", fileHeader.Filename).Msg("proxy upload failed")
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusCreated, res)
}
