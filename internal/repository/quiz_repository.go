package repository

import (
	"cybertrain_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) ListPublished(page, limit int) ([]model.Quiz, int64, error) {
	var quizzes []model.Quiz
	var total int64

	query := r.DB.Model(&model.Quiz{}).Where("published = ?", true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&quizzes).Error
	return quizzes, total, err
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Chapters", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence ASC")
	}).Preload("Chapters.Questions").First(&quiz, id).Error
	return &quiz, err
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) SetPublished(id uint, published bool) error {
	return r.DB.Model(&model.Quiz{}).
		Where("id = ?", id).
		Update("published", published).
		Error
}

// QuestionsByQuiz 取测验下的全部题目（跨章节），按章节与ID排序。
func (r *QuizRepository) QuestionsByQuiz(quizID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.
		Joins("JOIN chapters ON chapters.id = questions.chapter_id").
		Where("chapters.quiz_id = ?", quizID).
		Order("chapters.sequence ASC, questions.id ASC").
		Find(&questions).Error
	return questions, err
}

func (r *QuizRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.First(&question, id).Error
	return &question, err
}

func (r *QuizRepository) SaveResultTx(tx *gorm.DB, result *model.QuizResult) error {
	return tx.Create(result).Error
}

func (r *QuizRepository) SaveUserResponsesTx(tx *gorm.DB, responses []model.UserResponse) error {
	if len(responses) == 0 {
		return nil
	}
	return tx.Create(&responses).Error
}

func (r *QuizRepository) ResultsByUser(userID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("user_id = ?", userID).Order("id DESC").Find(&results).Error
	return results, err
}
