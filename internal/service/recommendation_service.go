package service

import (
	"context"
	"cybertrain_backend/internal/model"
	"cybertrain_backend/internal/repository"
	"cybertrain_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

type RecommendationService struct {
	RecommendationRepo *repository.RecommendationRepository
	UserSkillRepo      *repository.UserSkillRepository
	Agent              *AgentService
}

func NewRecommendationService(recommendationRepo *repository.RecommendationRepository, userSkillRepo *repository.UserSkillRepository, agent *AgentService) *RecommendationService {
	return &RecommendationService{
		RecommendationRepo: recommendationRepo,
		UserSkillRepo:      userSkillRepo,
		Agent:              agent,
	}
}

// recommendationMaxAge 超过该时长的推荐视为过期，下次读取时重新生成。
const recommendationMaxAge = 24 * time.Hour

// weaknessCutoff 熟练度低于该值的技能进入智能体的薄弱画像。
const weaknessCutoff = 60.0

func (s *RecommendationService) weaknesses(userID uint) ([]WeakSkill, error) {
	records, err := s.UserSkillRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	var weak []WeakSkill
	for _, record := range records {
		if record.ProficiencyLevel < weaknessCutoff {
			weak = append(weak, WeakSkill{
				SkillID:     record.SkillID,
				SkillName:   record.Skill.Name,
				Proficiency: record.ProficiencyLevel,
			})
		}
	}
	return weak, nil
}

// Recommendations 返回用户的学习资源推荐。缓存仍新鲜且未强制刷新时
// 直接返回库中结果，否则调用智能体重新生成并整体替换。
func (s *RecommendationService) Recommendations(ctx context.Context, userID uint, refresh bool) ([]model.ResourceRecommendation, error) {
	existing, err := s.RecommendationRepo.ListActive(userID)
	if err != nil {
		return nil, err
	}
	if !refresh && len(existing) > 0 && time.Since(existing[0].GeneratedAt) < recommendationMaxAge {
		return existing, nil
	}

	weak, err := s.weaknesses(userID)
	if err != nil {
		return nil, err
	}
	if len(weak) == 0 {
		return existing, nil
	}

	generated, err := s.Agent.Recommendations(ctx, userID, weak)
	if err != nil {
		// 智能体不可用时退回已有推荐，不让看板打不开
		if len(existing) > 0 {
			return existing, nil
		}
		return nil, err
	}

	now := time.Now()
	recs := make([]model.ResourceRecommendation, 0, len(generated))
	for _, g := range generated {
		recs = append(recs, model.ResourceRecommendation{
			UserID:      userID,
			SkillID:     g.SkillID,
			Title:       g.Title,
			URL:         g.URL,
			Kind:        g.Kind,
			Reason:      g.Reason,
			Score:       g.Score,
			GeneratedAt: now,
		})
	}
	if err := s.RecommendationRepo.Replace(userID, recs); err != nil {
		return nil, err
	}
	return s.RecommendationRepo.ListActive(userID)
}

func (s *RecommendationService) Dismiss(userID, recID uint) error {
	err := s.RecommendationRepo.Dismiss(userID, recID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrItemNotFound
	}
	return err
}

// LearningPlan 返回用户的学习计划，必要时由智能体重新生成。
func (s *RecommendationService) LearningPlan(ctx context.Context, userID uint, refresh bool) ([]model.LearningPlanItem, error) {
	existing, err := s.RecommendationRepo.ListPlan(userID)
	if err != nil {
		return nil, err
	}
	if !refresh && len(existing) > 0 {
		return existing, nil
	}

	weak, err := s.weaknesses(userID)
	if err != nil {
		return nil, err
	}
	if len(weak) == 0 {
		return existing, nil
	}

	generated, err := s.Agent.LearningPlan(ctx, userID, weak)
	if err != nil {
		if len(existing) > 0 {
			return existing, nil
		}
		return nil, err
	}

	now := time.Now()
	items := make([]model.LearningPlanItem, 0, len(generated))
	for _, g := range generated {
		item := model.LearningPlanItem{
			UserID:      userID,
			SkillID:     g.SkillID,
			Title:       g.Title,
			Description: g.Description,
			Sequence:    g.Sequence,
		}
		if g.DueInDays > 0 {
			due := now.AddDate(0, 0, g.DueInDays)
			item.DueDate = &due
		}
		items = append(items, item)
	}
	if err := s.RecommendationRepo.ReplacePlan(userID, items); err != nil {
		return nil, err
	}
	return s.RecommendationRepo.ListPlan(userID)
}

func (s *RecommendationService) CompletePlanItem(userID, itemID uint) error {
	err := s.RecommendationRepo.CompletePlanItem(userID, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrItemNotFound
	}
	return err
}
