package repository

import (
	"cybertrain_backend/internal/model"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RepetitionRepository struct {
	DB *gorm.DB
}

func NewRepetitionRepository(db *gorm.DB) *RepetitionRepository {
	return &RepetitionRepository{DB: db}
}

// FindOrCreate 取用户×技能的复习条目，首次接触时按初始调度参数创建。
func (r *RepetitionRepository) FindOrCreate(userID, skillID uint, dueDate time.Time) (*model.RepetitionItem, error) {
	var item model.RepetitionItem
	err := r.DB.Where("user_id = ? AND skill_id = ?", userID, skillID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		item = model.RepetitionItem{
			UserID:             userID,
			SkillID:            skillID,
			EasinessFactor:     2.5,
			IntervalDays:       1,
			DueDate:            dueDate,
			PerformanceHistory: []byte("[]"),
		}
		if err := r.DB.Create(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	}
	return &item, err
}

// LockByID 在事务内以行锁读取条目，复习结算是读-改-写，必须串行化。
func (r *RepetitionRepository) LockByID(tx *gorm.DB, id uint) (*model.RepetitionItem, error) {
	var item model.RepetitionItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, id).Error
	return &item, err
}

func (r *RepetitionRepository) SaveTx(tx *gorm.DB, item *model.RepetitionItem) error {
	return tx.Save(item).Error
}

// Due 截止时间已到的条目，最早到期的在前。
func (r *RepetitionRepository) Due(userID uint, asOf time.Time) ([]model.RepetitionItem, error) {
	var items []model.RepetitionItem
	err := r.DB.Preload("Skill").
		Where("user_id = ? AND due_date <= ?", userID, asOf).
		Order("due_date ASC").
		Find(&items).Error
	return items, err
}

// Upcoming 尚未到期的条目，按到期时间升序，最多limit条。
func (r *RepetitionRepository) Upcoming(userID uint, after time.Time, limit int) ([]model.RepetitionItem, error) {
	var items []model.RepetitionItem
	err := r.DB.Preload("Skill").
		Where("user_id = ? AND due_date > ?", userID, after).
		Order("due_date ASC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *RepetitionRepository) ListByUser(userID uint) ([]model.RepetitionItem, error) {
	var items []model.RepetitionItem
	err := r.DB.Preload("Skill").
		Where("user_id = ?", userID).
		Order("due_date ASC").
		Find(&items).Error
	return items, err
}

// ReviewCount 用户累计完成的复习次数，即所有条目评分历史的长度之和。
func (r *RepetitionRepository) ReviewCount(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.RepetitionItem{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(JSON_LENGTH(performance_history)), 0)").
		Scan(&count).Error
	return count, err
}
