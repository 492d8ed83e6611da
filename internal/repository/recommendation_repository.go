package repository

import (
	"cybertrain_backend/internal/model"

	"gorm.io/gorm"
)

type RecommendationRepository struct {
	DB *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{DB: db}
}

func (r *RecommendationRepository) ListActive(userID uint) ([]model.ResourceRecommendation, error) {
	var recs []model.ResourceRecommendation
	err := r.DB.Where("user_id = ? AND dismissed = ?", userID, false).
		Order("score DESC").
		Find(&recs).Error
	return recs, err
}

// Replace 原子替换用户的推荐列表，保留已忽略标记的历史不在此列。
func (r *RecommendationRepository) Replace(userID uint, recs []model.ResourceRecommendation) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND dismissed = ?", userID, false).
			Delete(&model.ResourceRecommendation{}).Error; err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		return tx.Create(&recs).Error
	})
}

func (r *RecommendationRepository) Dismiss(userID, recID uint) error {
	result := r.DB.Model(&model.ResourceRecommendation{}).
		Where("id = ? AND user_id = ?", recID, userID).
		Update("dismissed", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RecommendationRepository) ListPlan(userID uint) ([]model.LearningPlanItem, error) {
	var items []model.LearningPlanItem
	err := r.DB.Where("user_id = ?", userID).
		Order("sequence ASC").
		Find(&items).Error
	return items, err
}

// ReplacePlan 重新生成学习计划时整体替换未完成条目，已完成条目保留。
func (r *RecommendationRepository) ReplacePlan(userID uint, items []model.LearningPlanItem) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND completed = ?", userID, false).
			Delete(&model.LearningPlanItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *RecommendationRepository) CompletePlanItem(userID, itemID uint) error {
	result := r.DB.Model(&model.LearningPlanItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
