package repository

import (
	"cybertrain_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PracticeRepository struct {
	DB *gorm.DB
}

func NewPracticeRepository(db *gorm.DB) *PracticeRepository {
	return &PracticeRepository{DB: db}
}

// CreateSession 连同题目一起写入，题目通过关联级联插入。
func (r *PracticeRepository) CreateSession(session *model.PracticeSession) error {
	return r.DB.Create(session).Error
}

func (r *PracticeRepository) FindByToken(token string) (*model.PracticeSession, error) {
	var session model.PracticeSession
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence ASC")
	}).Where("token = ?", token).First(&session).Error
	return &session, err
}

func (r *PracticeRepository) FindByTokenWithResponses(token string) (*model.PracticeSession, error) {
	var session model.PracticeSession
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence ASC")
	}).Preload("Responses").Where("token = ?", token).First(&session).Error
	return &session, err
}

// LockByToken 在事务内以行锁读取会话，用于提交结算。提交必须串行化，
// 否则并发提交会把同一会话结算两次。
func (r *PracticeRepository) LockByToken(tx *gorm.DB, token string) (*model.PracticeSession, error) {
	var session model.PracticeSession
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("token = ?", token).
		First(&session).Error
	return &session, err
}

func (r *PracticeRepository) QuestionsBySessionTx(tx *gorm.DB, sessionID uint) ([]model.PracticeQuestion, error) {
	var questions []model.PracticeQuestion
	err := tx.Where("session_id = ?", sessionID).Order("sequence ASC").Find(&questions).Error
	return questions, err
}

func (r *PracticeRepository) SaveResponsesTx(tx *gorm.DB, responses []model.PracticeResponse) error {
	if len(responses) == 0 {
		return nil
	}
	return tx.Create(&responses).Error
}

func (r *PracticeRepository) UpdateSessionTx(tx *gorm.DB, session *model.PracticeSession) error {
	return tx.Save(session).Error
}

// CompletedBySkill 取用户某技能的历史完成会话，近期在前。
func (r *PracticeRepository) CompletedBySkill(userID, skillID uint, limit int) ([]model.PracticeSession, error) {
	var sessions []model.PracticeSession
	err := r.DB.Where("user_id = ? AND skill_id = ? AND status = ?", userID, skillID, model.PracticeCompleted).
		Order("completed_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

func (r *PracticeRepository) CompletedCount(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.PracticeSession{}).
		Where("user_id = ? AND status = ?", userID, model.PracticeCompleted).
		Count(&count).Error
	return count, err
}
