package controller

import (
	"cybertrain_backend/internal/service"
	"cybertrain_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type RecommendationController struct {
	RecommendationService *service.RecommendationService
}

func NewRecommendationController(recommendationService *service.RecommendationService) *RecommendationController {
	return &RecommendationController{RecommendationService: recommendationService}
}

// GetRecommendations godoc
// @Summary 学习资源推荐
// @Description 基于薄弱技能的资源推荐，refresh=true 强制重新生成
// @Tags 推荐
// @Produce  json
// @Security ApiKeyAuth
// @Param   refresh query bool false "强制刷新"
// @Success 200 {object} util.Response{data=[]model.ResourceRecommendation} "成功"
// @Router /api/recommendations [get]
func (c *RecommendationController) GetRecommendations(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	refresh := ctx.Query("refresh") == "true"
	recs, err := c.RecommendationService.Recommendations(ctx.Request.Context(), claims.UserID, refresh)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, recs)
}

// DismissRecommendation godoc
// @Summary 忽略推荐
// @Tags 推荐
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "推荐ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "推荐不存在"
// @Router /api/recommendations/{id}/dismiss [post]
func (c *RecommendationController) DismissRecommendation(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.RecommendationService.Dismiss(claims.UserID, util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrItemNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// GetLearningPlan godoc
// @Summary 学习计划
// @Description 智能体生成的学习计划，refresh=true 强制重新生成
// @Tags 推荐
// @Produce  json
// @Security ApiKeyAuth
// @Param   refresh query bool false "强制刷新"
// @Success 200 {object} util.Response{data=[]model.LearningPlanItem} "成功"
// @Router /api/learning-plan [get]
func (c *RecommendationController) GetLearningPlan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	refresh := ctx.Query("refresh") == "true"
	items, err := c.RecommendationService.LearningPlan(ctx.Request.Context(), claims.UserID, refresh)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, items)
}

// CompletePlanItem godoc
// @Summary 完成计划条目
// @Tags 推荐
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "条目ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "条目不存在"
// @Router /api/learning-plan/{id}/complete [post]
func (c *RecommendationController) CompletePlanItem(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.RecommendationService.CompletePlanItem(claims.UserID, util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrItemNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
