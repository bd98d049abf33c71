package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/log"
)

// GetStats 媒体库概览统计.
//
//	@Summary	概览统计
//	@Tags		统计
//	@Produce	json
//	@Success	200	{object}	types.StatsResponse
//	@Router		/api/v1/stats [get]
func GetStats(c *gin.Context) {
	svc := service.NewStatsService(c.Request.Context())

	res, err := svc.Overview(c.Request.Context())
	if err != nil {
		log.Logger().Error().Err(err).Msg("stats overview failed")
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, res)
}

// ListCategories 去重后的分类列表.
//
//	@Summary	分类列表
//	@Tags		统计
//	@Produce	json
//	@Success	200	{object}	types.ListCategoriesResponse
//	@Router		/api/v1/categories [get]
func ListCategories(c *gin.Context) {
	svc := service.NewStatsService(c.Request.Context())

	res, err := svc.Categories(c.Request.Context())
	if err != nil {
		log.Logger().Error().Err(err).Msg("list categories failed")
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, res)
}
