package controller

import (
	"cybertrain_backend/internal/service"
	"cybertrain_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type RepetitionController struct {
	RepetitionService *service.RepetitionService
}

func NewRepetitionController(repetitionService *service.RepetitionService) *RepetitionController {
	return &RepetitionController{RepetitionService: repetitionService}
}

// GetOverview godoc
// @Summary 复习看板
// @Description 到期条目、即将到期条目、累计复习次数与技能掌握概览
// @Tags 间隔重复
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.RepetitionOverview} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/repetition/overview [get]
func (c *RepetitionController) GetOverview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	overview, err := c.RepetitionService.Overview(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, overview)
}

// swagger:model EnrollSkillRequest
type EnrollSkillRequest struct {
	SkillID uint `json:"skillId" binding:"required"`
}

// EnrollSkill godoc
// @Summary 加入复习队列
// @Description 为指定技能建立间隔重复条目（已存在则幂等返回）
// @Tags 间隔重复
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body EnrollSkillRequest true "技能ID"
// @Success 200 {object} util.Response{data=model.RepetitionItem} "成功"
// @Failure 404 {object} util.Response "技能不存在"
// @Router /api/repetition/items [post]
func (c *RepetitionController) EnrollSkill(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req EnrollSkillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	item, err := c.RepetitionService.EnsureItem(claims.UserID, req.SkillID)
	if err != nil {
		if errors.Is(err, util.ErrSkillNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, item)
}

// swagger:model ReviewRequest
type ReviewRequest struct {
	Rating *int `json:"rating" binding:"required"`
}

// CompleteReview godoc
// @Summary 完成复习
// @Description 按0-5评分推进SM-2调度并追加评分历史
// @Tags 间隔重复
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "条目ID"
// @Param   body body ReviewRequest true "评分"
// @Success 200 {object} util.Response{data=model.RepetitionItem} "成功"
// @Failure 400 {object} util.Response "评分超出范围"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "条目不存在"
// @Router /api/repetition/items/{id}/review [post]
func (c *RepetitionController) CompleteReview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	item, err := c.RepetitionService.CompleteReview(claims.UserID, util.MustParseUint(ctx.Param("id")), *req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidRating):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrItemNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, item)
}
