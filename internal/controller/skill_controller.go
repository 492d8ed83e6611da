package controller

import (
	"cybertrain_backend/internal/model"
	"cybertrain_backend/internal/service"
	"cybertrain_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type SkillController struct {
	SkillService *service.SkillService
}

func NewSkillController(skillService *service.SkillService) *SkillController {
	return &SkillController{SkillService: skillService}
}

// ListSkills godoc
// @Summary 技能列表
// @Description 返回全部启用的技能及当前用户的熟练度
// @Tags 技能
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.SkillWithProficiency} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/skills [get]
func (c *SkillController) ListSkills(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	skills, err := c.SkillService.ListForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, skills)
}

// GetSkill godoc
// @Summary 技能详情
// @Tags 技能
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "技能ID"
// @Success 200 {object} util.Response{data=model.Skill} "成功"
// @Failure 404 {object} util.Response "技能不存在"
// @Router /api/skills/{id} [get]
func (c *SkillController) GetSkill(ctx *gin.Context) {
	skill, err := c.SkillService.GetByID(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrSkillNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, skill)
}

// swagger:model SkillRequest
type SkillRequest struct {
	Name        string `json:"name" binding:"required"`
	Domain      string `json:"domain"`
	Description string `json:"description"`
	Enabled     *bool  `json:"enabled"`
}

// CreateSkill godoc
// @Summary 新建技能
// @Description 管理员新建技能条目
// @Tags 技能
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SkillRequest true "技能信息"
// @Success 201 {object} util.Response{data=model.Skill} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/admin/skills [post]
func (c *SkillController) CreateSkill(ctx *gin.Context) {
	var req SkillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	skill := &model.Skill{
		Name:        req.Name,
		Domain:      req.Domain,
		Description: req.Description,
		Enabled:     true,
	}
	if req.Enabled != nil {
		skill.Enabled = *req.Enabled
	}

	if err := c.SkillService.Create(skill); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, skill)
}

// UpdateSkill godoc
// @Summary 更新技能
// @Tags 技能
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "技能ID"
// @Param   body body SkillRequest true "技能信息"
// @Success 200 {object} util.Response{data=model.Skill} "成功"
// @Failure 404 {object} util.Response "技能不存在"
// @Router /api/admin/skills/{id} [put]
func (c *SkillController) UpdateSkill(ctx *gin.Context) {
	var req SkillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	skill, err := c.SkillService.Update(util.MustParseUint(ctx.Param("id")), &model.Skill{
		Name:        req.Name,
		Domain:      req.Domain,
		Description: req.Description,
		Enabled:     enabled,
	})
	if err != nil {
		if errors.Is(err, util.ErrSkillNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, skill)
}
