package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/log"
)

// CreateAlbum 创建相册并生成唯一分享码.
//
//	@Summary	创建相册
//	@Tags		相册
//	@Accept		json
//	@Produce	json
//	@Param		album	body		types.CreateAlbumRequest	true	"创建请求"
//	@Success	201		{object}	types.AlbumInfo
//	@Failure	400		{object}	map[string]string
//	@Router		/api/v1/albums [post]
func CreateAlbum(c *gin.Context) {
	var req types.CreateAlbumRequest
	if !bindAndValidate(c, &req) {
		return
	}

	svc := service.NewAlbumService(c.Request.Context())

	res, err := svc.Create(c.Request.Context(), &req)
	if err != nil {
		log.Logger().Error().Err(err).Msg("create album failed")
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusCreated, res)
}

// ListAlbums 查询相册列表.
//
//	@Summary	相册列表
//	@Tags		相册
//	@Produce	json
//	@Success	200	{object}	types.ListAlbumsResponse
//	@Router		/api/v1/albums [get]
func ListAlbums(c *gin.Context) {
	svc := service.NewAlbumService(c.Request.Context())

	res, err := svc.List(c.Request.Context())
	if err != nil {
		log.Logger().Error().Err(err).Msg("list albums failed")
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, res)
}

// GetAlbum 查询相册详情，媒体按展示顺序排列.
//
//	@Summary	相册详情
//	@Tags		相册
//	@Produce	json
//	@Param		id	path		string	true	"相册 ID"
//	@Success	200	{object}	types.AlbumDetailResponse
//	@Failure	404	{object}	map[string]string
//	@Router		/api/v1/albums/{id} [get]
func GetAlbum(c *gin.Context) {
	svc := service.NewAlbumService(c.Request.Context())

	res, err := svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// UpdateAlbum 编辑相册，整体替换语义：名称必填，公开状态以提交值为准.
//
//	@Summary	编辑相册
//	@Tags		相册
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"相册 ID"
//	@Param		album	body		types.UpdateAlbumRequest	true	"编辑请求"
//	@Success	200		{object}	types.AlbumInfo
//	@Failure	404		{object}	map[string]string
//	@Router		/api/v1/albums/{id} [put]
func UpdateAlbum(c *gin.Context) {
	var req types.UpdateAlbumRequest
	if !bindAndValidate(c, &req) {
		return
	}

	svc := service.NewAlbumService(c.Request.Context())

	res, err := svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		log.Logger().Error().Err(err).Str("album_id", c.Param("id")).Msg("update album failed")
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, res)
}

// DeleteAlbum 删除相册；相册内媒体本体保留.
//
//	@Summary	删除相册
//	@Tags		相册
//	@Param		id	path	string	true	"相册 ID"
//	@Success	204
//	@Failure	404	{object}	map[string]string
//	@Router		/api/v1/albums/{id} [delete]
func DeleteAlbum(c *gin.Context) {
	svc := service.NewAlbumService(c.Request.Context())

	if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		log.Logger().Error().Err(err).Str("album_id", c.Param("id")).Msg("delete album failed")
		respondServiceError(c, err)

		return
	}

	c.Status(http.StatusNoContent)
}

// AddAlbumMedia 批量向相册加入媒体.
//
//	@Summary	相册加入媒体
//	@Tags		相册
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"相册 ID"
//	@Param		media	body		types.AddAlbumMediaRequest	true	"媒体 ID 列表"
//	@Success	200		{object}	types.AddAlbumMediaResponse
//	@Failure	404		{object}	map[string]string
//	@Router		/api/v1/albums/{id}/media [post]
func AddAlbumMedia(c *gin.Context) {
	var req types.AddAlbumMediaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	svc := service.NewAlbumService(c.Request.Context())

	res, err := svc.AddMedia(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		log.Logger().Error().Err(err).Str("album_id", c.Param("id")).Msg("add album media failed")
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, res)
}

// RemoveAlbumMedia 批量从相册移除媒体.
//
//	@Summary	相册移除媒体
//	@Tags		相册
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"相册 ID"
//	@Param		media	body		types.RemoveAlbumMediaRequest	true	"媒体 ID 列表"
//	@Success	200		{object}	types.RemoveAlbumMediaResponse
//	@Failure	404		{object}	map[string]string
//	@Router		/api/v1/albums/{id}/media [delete]
func RemoveAlbumMedia(c *gin.Context) {
	var req types.RemoveAlbumMediaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	svc := service.NewAlbumService(c.Request.Context())

	res, err := svc.RemoveMedia(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		log.Logger().Error().Err(err).Str("album_id", c.Param("id")).Msg("remove album media failed")
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, res)
}

// GetSharedAlbum 以分享码访问相册，供公开分享页使用.
//
//	@Summary	分享页
//	@Tags		分享
//	@Produce	json
//	@Param		code	path		string	true	"分享码"
//	@Success	200		{object}	types.AlbumDetailResponse
//	@Failure	404		{object}	map[string]string
//	@Router		/api/v1/shared/{code} [get]
func GetSharedAlbum(c *gin.Context) {
	svc := service.NewAlbumService(c.Request.Context())

	res, err := svc.GetByShareCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
