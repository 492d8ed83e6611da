package controller

import (
	"cybertrain_backend/internal/service"
	"cybertrain_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type PracticeController struct {
	PracticeService  *service.PracticeService
	AnalyticsService *service.AnalyticsService
}

func NewPracticeController(practiceService *service.PracticeService, analyticsService *service.AnalyticsService) *PracticeController {
	return &PracticeController{
		PracticeService:  practiceService,
		AnalyticsService: analyticsService,
	}
}

// swagger:model StartPracticeRequest
type StartPracticeRequest struct {
	SkillID         uint `json:"skillId" binding:"required"`
	DifficultyLevel int  `json:"difficultyLevel"`
	QuestionCount   int  `json:"questionCount"`
	TimeLimit       *int `json:"timeLimit"`
}

// StartSession godoc
// @Summary 开始练习
// @Description 为指定技能创建练习会话并生成题目
// @Tags 练习
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body StartPracticeRequest true "练习参数"
// @Success 201 {object} util.Response{data=model.PracticeSession} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "技能不存在"
// @Router /api/practice/sessions [post]
func (c *PracticeController) StartSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartPracticeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	language := ctx.GetHeader("Accept-Language")
	session, err := c.PracticeService.Start(ctx.Request.Context(), claims.UserID, req.SkillID, req.DifficultyLevel, req.QuestionCount, req.TimeLimit, language)
	if err != nil {
		if errors.Is(err, util.ErrSkillNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, session)
}

// GetSession godoc
// @Summary 练习会话详情
// @Description 取会话及题目，正确答案不下发
// @Tags 练习
// @Produce  json
// @Security ApiKeyAuth
// @Param   token path string true "会话Token"
// @Success 200 {object} util.Response{data=model.PracticeSession} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/practice/sessions/{token} [get]
func (c *PracticeController) GetSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.PracticeService.GetSession(claims.UserID, ctx.Param("token"))
	if err != nil {
		c.writeSessionError(ctx, err)
		return
	}

	util.Success(ctx, session)
}

// swagger:model SubmitPracticeRequest
type SubmitPracticeRequest struct {
	Answers []service.AnswerInput `json:"answers" binding:"required"`
}

// SubmitSession godoc
// @Summary 提交练习
// @Description 结算会话：评分、更新熟练度并返回逐题反馈。重复提交返回409
// @Tags 练习
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   token path string true "会话Token"
// @Param   body body SubmitPracticeRequest true "作答列表"
// @Success 200 {object} util.Response{data=service.SubmitResult} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "会话不存在"
// @Failure 409 {object} util.Response "会话已完成"
// @Router /api/practice/sessions/{token}/submit [post]
func (c *PracticeController) SubmitSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitPracticeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.PracticeService.Submit(ctx.Request.Context(), claims.UserID, ctx.Param("token"), req.Answers)
	if err != nil {
		if errors.Is(err, util.ErrSessionAlreadyCompleted) {
			util.Conflict(ctx, err.Error())
		} else {
			c.writeSessionError(ctx, err)
		}
		return
	}

	// 结算改变了聚合口径，旧缓存不再可信
	c.AnalyticsService.InvalidateUser(ctx.Request.Context(), claims.UserID)

	util.Success(ctx, result)
}

// GetResults godoc
// @Summary 练习结果
// @Description 取已完成会话的得分与作答记录
// @Tags 练习
// @Produce  json
// @Security ApiKeyAuth
// @Param   token path string true "会话Token"
// @Success 200 {object} util.Response{data=model.PracticeSession} "成功"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/practice/sessions/{token}/results [get]
func (c *PracticeController) GetResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.PracticeService.GetResults(claims.UserID, ctx.Param("token"))
	if err != nil {
		c.writeSessionError(ctx, err)
		return
	}

	util.Success(ctx, session)
}

func (c *PracticeController) writeSessionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
