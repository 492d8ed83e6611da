package controller

import (
	"cybertrain_backend/internal/model"
	"cybertrain_backend/internal/service"
	"cybertrain_backend/internal/util"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// ListQuizzes godoc
// @Summary 测验列表
// @Description 分页返回已发布的测验
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码，默认1"
// @Param   limit query int false "每页条数，默认20"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	quizzes, total, err := c.QuizService.ListPublished(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  quizzes,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetQuiz godoc
// @Summary 测验详情
// @Description 取测验及其章节与题目，正确答案不下发
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=model.Quiz} "成功"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	quiz, err := c.QuizService.GetByID(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, quiz)
}

// swagger:model SubmitQuizRequest
type SubmitQuizRequest struct {
	Answers []service.AnswerInput `json:"answers" binding:"required"`
}

// SubmitQuiz godoc
// @Summary 提交测验
// @Description 结算测验：评分、记录作答并更新相关技能熟练度
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Param   body body SubmitQuizRequest true "作答列表"
// @Success 200 {object} util.Response{data=service.QuizSubmitResult} "成功"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.Submit(ctx.Request.Context(), claims.UserID, util.MustParseUint(ctx.Param("id")), req.Answers)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// swagger:model RetryQuestionRequest
type RetryQuestionRequest struct {
	Answer interface{} `json:"answer"`
}

// RetryQuestion godoc
// @Summary 错题重做
// @Description 对单题重新作答并返回判定结果
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Param   body body RetryQuestionRequest true "作答"
// @Success 200 {object} util.Response{data=service.QuestionOutcome} "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id}/retry [post]
func (c *QuizController) RetryQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req RetryQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	outcome, err := c.QuizService.RetryQuestion(claims.UserID, util.MustParseUint(ctx.Param("id")), req.Answer)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, outcome)
}

// GetMyResults godoc
// @Summary 我的测验结果
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.QuizResult} "成功"
// @Router /api/quizzes/results [get]
func (c *QuizController) GetMyResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	results, err := c.QuizService.ResultsByUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, results)
}

// swagger:model CreateQuizRequest
type CreateQuizRequest struct {
	Title       string               `json:"title" binding:"required"`
	Topic       string               `json:"topic"`
	Description string               `json:"description"`
	Difficulty  int                  `json:"difficulty"`
	Chapters    []CreateChapterInput `json:"chapters"`
}

type CreateChapterInput struct {
	Title     string                `json:"title" binding:"required"`
	Sequence  int                   `json:"sequence"`
	Questions []CreateQuestionInput `json:"questions"`
}

type CreateQuestionInput struct {
	SkillID       uint            `json:"skillId"`
	Type          string          `json:"type" binding:"required,oneof=multiple_choice true_false fill_blank drag_drop"`
	Content       string          `json:"content" binding:"required"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer string          `json:"correctAnswer" binding:"required"`
	Points        int             `json:"points"`
	Explanation   string          `json:"explanation"`
}

// CreateQuiz godoc
// @Summary 新建测验
// @Description 管理员录入测验及其章节与题目
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateQuizRequest true "测验内容"
// @Success 201 {object} util.Response{data=model.Quiz} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/admin/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var req CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz := &model.Quiz{
		Title:       req.Title,
		Topic:       req.Topic,
		Description: req.Description,
		Difficulty:  req.Difficulty,
	}
	for _, chapter := range req.Chapters {
		ch := model.Chapter{
			Title:    chapter.Title,
			Sequence: chapter.Sequence,
		}
		for _, question := range chapter.Questions {
			points := question.Points
			if points <= 0 {
				points = 1
			}
			ch.Questions = append(ch.Questions, model.Question{
				SkillID:       question.SkillID,
				Type:          model.QuestionType(question.Type),
				Content:       question.Content,
				Options:       question.Options,
				CorrectAnswer: question.CorrectAnswer,
				Points:        points,
				Explanation:   question.Explanation,
			})
		}
		quiz.Chapters = append(quiz.Chapters, ch)
	}

	if err := c.QuizService.Create(quiz); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, quiz)
}

// swagger:model PublishQuizRequest
type PublishQuizRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// PublishQuiz godoc
// @Summary 发布/下架测验
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Param   body body PublishQuizRequest true "发布状态"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/admin/quizzes/{id}/publish [patch]
func (c *QuizController) PublishQuiz(ctx *gin.Context) {
	var req PublishQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.QuizService.SetPublished(util.MustParseUint(ctx.Param("id")), *req.Published); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
