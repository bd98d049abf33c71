package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/rule"
)

// CreateMedia 登记一条已托管媒体.
//
//	@Summary		登记媒体
//	@Description	登记一条已托管在外部的媒体，URL 统一伪装为第一方地址
//	@Tags			媒体
//	@Accept			json
//	@Produce		json
//	@Param			media	body		types.CreateMediaRequest	true	"登记请求"
//	@Success		201		{object}	types.CreateMediaResponse
//	@Failure		400		{object}	map[string]string
//	@Router			/api/v1/media [post]
func CreateMedia(c *gin.Context) {
	var req types.CreateMediaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	svc := service.NewMediaService(c.Request.Context())

	res, err := svc.Register(c.Request.Context(), &req)
	if err != nil {
		log.Logger().Error().Err(err).Msg("register media failed")
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusCreated, res)
}

// ListMedia 分页查询媒体列表.
//
//	@Summary	媒体列表
//	@Tags		媒体
//	@Produce	json
//	@Param		category	query		string	false	"分类过滤"
//	@Param		file_type	query		string	false	"image|video"
//	@Param		search		query		string	false	"文件名/标题/描述模糊搜索"
//	@Param		page		query		int		false	"页码，从 1 开始"
//	@Param		page_size	query		int		false	"每页条数，默认 50，最大 200"
//	@Success	200			{object}	types.ListMediaResponse
//	@Router		/api/v1/media [get]
func ListMedia(c *gin.Context) {
	var req types.ListMediaRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	if err := rule.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": rule.Errors(err)})
		return
	}

	svc := service.NewMediaService(c.Request.Context())

	res, err := svc.List(c.Request.Context(), &req)
	if err != nil {
		log.Logger().Error().Err(err).Msg("list media failed")
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, res)
}

// GetMedia 查询单条媒体；view=1 时同时记录一次浏览.
//
//	@Summary	媒体详情
//	@Tags		媒体
//	@Produce	json
//	@Param		id		path		string	true	"媒体 ID"
//	@Param		view	query		string	false	"为 1 时原子自增浏览计数"
//	@Success	200	{object}	types.MediaInfo
//	@Failure	404	{object}	map[string]string
//	@Router		/api/v1/media/{id} [get]
func GetMedia(c *gin.Context) {
	svc := service.NewMediaService(c.Request.Context())
	id := c.Param("id")

	if c.Query("view") == "1" {
		// 浏览计数失败不影响详情返回
		if _, err := svc.RecordView(c.Request.Context(), id, c.ClientIP(), c.Request.UserAgent()); err != nil {
			log.Logger().Warn().Err(err).Str("media_id", id).Msg("record view on get failed")
		}
	}

	res, err := svc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// UpdateMedia 编辑媒体元数据.
//
//	@Summary	编辑媒体
//	@Tags		媒体
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"媒体 ID"
//	@Param		media	body		types.UpdateMediaRequest	true	"编辑请求"
//	@Success	200		{object}	types.MediaInfo
//	@Failure	404		{object}	map[string]string
//	@Router		/api/v1/media/{id} [put]
func UpdateMedia(c *gin.Context) {
	var req types.UpdateMediaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	svc := service.NewMediaService(c.Request.Context())

	res, err := svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		log.Logger().Error().Err(err).Str("media_id", c.Param("id")).Msg("update media failed")
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, res)
}

// DeleteMedia 删除单条媒体（含外部托管文件与级联数据）.
//
//	@Summary	删除媒体
//	@Tags		媒体
//	@Produce	json
//	@Param		id	path	string	true	"媒体 ID"
//	@Success	204
//	@Failure	404	{object}	map[string]string
//	@Router		/api/v1/media/{id} [delete]
func DeleteMedia(c *gin.Context) {
	svc := service.NewMediaService(c.Request.Context())

	if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		log.Logger().Error().Err(err).Str("media_id", c.Param("id")).Msg("delete media failed")
		respondServiceError(c, err)

		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteAllMedia 清空媒体库.
//
//	@Summary	清空媒体库
//	@Tags		媒体
//	@Produce	json
//	@Success	200	{object}	types.DeleteAllMediaResponse
//	@Router		/api/v1/media [delete]
func DeleteAllMedia(c *gin.Context) {
	svc := service.NewMediaService(c.Request.Context())

	res, err := svc.DeleteAll(c.Request.Context())
	if err != nil {
		log.Logger().Error().Err(err).Msg("delete all media failed")
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, res)
}

// RecordMediaView 记录一次浏览并返回自增后的计数.
//
//	@Summary	浏览计数
//	@Tags		媒体
//	@Produce	json
//	@Param		id	path		string	true	"媒体 ID"
//	@Success	200	{object}	types.RecordViewResponse
//	@Failure	404	{object}	map[string]string
//	@Router		/api/v1/media/{id}/views [post]
func RecordMediaView(c *gin.Context) {
	svc := service.NewMediaService(c.Request.Context())

	res, err := svc.RecordView(c.Request.Context(), c.Param("id"), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
