package controller

import (
	"cybertrain_backend/internal/service"
	"cybertrain_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// GetPerformance godoc
// @Summary 技能表现
// @Description 用户各技能的平均练习得分
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.SkillPerformance} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/analytics/performance [get]
func (c *AnalyticsController) GetPerformance(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	rows, err := c.AnalyticsService.SkillPerformance(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, rows)
}

// GetPeerComparison godoc
// @Summary 同行对比
// @Description 与同行业同岗位用户的得分对比与百分位
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.PeerComparison} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/analytics/peer-comparison [get]
func (c *AnalyticsController) GetPeerComparison(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	comparison, err := c.AnalyticsService.PeerComparison(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, comparison)
}

// GetStrengthsWeaknesses godoc
// @Summary 强弱项分析
// @Description 按平均得分划分的强项与弱项技能
// @Tags 分析
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.StrengthWeakness} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/analytics/strengths [get]
func (c *AnalyticsController) GetStrengthsWeaknesses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.AnalyticsService.StrengthsWeaknesses(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
