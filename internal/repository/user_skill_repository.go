package repository

import (
	"cybertrain_backend/internal/model"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserSkillRepository struct {
	DB *gorm.DB
}

func NewUserSkillRepository(db *gorm.DB) *UserSkillRepository {
	return &UserSkillRepository{DB: db}
}

func (r *UserSkillRepository) ListByUser(userID uint) ([]model.UserSkill, error) {
	var records []model.UserSkill
	err := r.DB.Preload("Skill").
		Where("user_id = ?", userID).
		Find(&records).Error
	return records, err
}

func (r *UserSkillRepository) FindByUserAndSkill(userID, skillID uint) (*model.UserSkill, error) {
	var record model.UserSkill
	err := r.DB.Where("user_id = ? AND skill_id = ?", userID, skillID).First(&record).Error
	return &record, err
}

// LockForUpdate 在事务内以行锁读取用户技能记录，不存在则初始化熟练度为0的
// 新记录。熟练度是读-改-写更新，必须串行化以避免并发练习互相覆盖。
func (r *UserSkillRepository) LockForUpdate(tx *gorm.DB, userID, skillID uint) (*model.UserSkill, error) {
	var record model.UserSkill
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND skill_id = ?", userID, skillID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = model.UserSkill{UserID: userID, SkillID: skillID}
		if err := tx.Create(&record).Error; err != nil {
			return nil, err
		}
		return &record, nil
	}
	return &record, err
}

func (r *UserSkillRepository) SaveTx(tx *gorm.DB, record *model.UserSkill) error {
	return tx.Save(record).Error
}
