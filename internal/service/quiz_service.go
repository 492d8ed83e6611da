package service

import (
	"context"
	"cybertrain_backend/internal/engine"
	"cybertrain_backend/internal/model"
	"cybertrain_backend/internal/repository"
	"cybertrain_backend/internal/util"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo      *repository.QuizRepository
	UserSkillRepo *repository.UserSkillRepository
	DB            *gorm.DB
}

func NewQuizService(quizRepo *repository.QuizRepository, userSkillRepo *repository.UserSkillRepository, db *gorm.DB) *QuizService {
	return &QuizService{
		QuizRepo:      quizRepo,
		UserSkillRepo: userSkillRepo,
		DB:            db,
	}
}

func (s *QuizService) ListPublished(page, limit int) ([]model.Quiz, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.QuizRepo.ListPublished(page, limit)
}

func (s *QuizService) GetByID(id uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	return quiz, err
}

func (s *QuizService) Create(quiz *model.Quiz) error {
	return s.QuizRepo.Create(quiz)
}

func (s *QuizService) SetPublished(id uint, published bool) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.QuizRepo.SetPublished(id, published)
}

// QuizSubmitResult 测验结算结果。
type QuizSubmitResult struct {
	QuizID          uint              `json:"quizId"`
	TotalPoints     int               `json:"totalPoints"`
	EarnedPoints    int               `json:"earnedPoints"`
	ScorePercentage float64           `json:"scorePercentage"`
	Outcomes        []QuestionOutcome `json:"outcomes"`
}

// Submit 结算一次测验。测验的全部题目都计入总分，未作答按0分处理；
// 涉及的每个技能按该技能题目的得分率各自推进熟练度。
func (s *QuizService) Submit(ctx context.Context, userID, quizID uint, answers []AnswerInput) (*QuizSubmitResult, error) {
	quiz, err := s.GetByID(quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.Published {
		return nil, util.ErrQuizNotFound
	}

	questions, err := s.QuizRepo.QuestionsByQuiz(quizID)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[uint]AnswerInput, len(answers))
	for _, answer := range answers {
		byQuestion[answer.QuestionID] = answer
	}

	now := time.Now()
	graded := make([]engine.GradedResponse, 0, len(questions))
	responses := make([]model.UserResponse, 0, len(questions))
	outcomes := make([]QuestionOutcome, 0, len(questions))
	bySkill := make(map[uint][]engine.GradedResponse)

	for i := range questions {
		q := &questions[i]
		answer := byQuestion[q.ID]

		gr := engine.GradeResponse(q.Engine(), answer.Answer, answer.TimeTakenSec)
		graded = append(graded, gr)
		if q.SkillID != 0 {
			bySkill[q.SkillID] = append(bySkill[q.SkillID], gr)
		}

		raw, err := json.Marshal(answer.Answer)
		if err != nil {
			raw = []byte("null")
		}
		responses = append(responses, model.UserResponse{
			UserID:       userID,
			QuestionID:   q.ID,
			Response:     raw,
			IsCorrect:    gr.Correct,
			PointsEarned: gr.PointsEarned,
			AnsweredAt:   now,
		})
		outcomes = append(outcomes, QuestionOutcome{
			QuestionID:   q.ID,
			Correct:      gr.Correct,
			PointsEarned: gr.PointsEarned,
			Points:       gr.PointsPossible,
			Explanation:  q.Explanation,
		})
	}

	score := engine.ScoreSession(graded)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.QuizRepo.SaveUserResponsesTx(tx, responses); err != nil {
			return err
		}
		if err := s.QuizRepo.SaveResultTx(tx, &model.QuizResult{
			UserID:          userID,
			QuizID:          quizID,
			TotalPoints:     score.TotalPoints,
			EarnedPoints:    score.EarnedPoints,
			ScorePercentage: score.Percentage,
			CompletedAt:     &now,
		}); err != nil {
			return err
		}

		for skillID, skillGraded := range bySkill {
			skillScore := engine.ScoreSession(skillGraded)
			record, err := s.UserSkillRepo.LockForUpdate(tx, userID, skillID)
			if err != nil {
				return err
			}
			advanceSkill(record, skillScore.Percentage, now)
			if err := s.UserSkillRepo.SaveTx(tx, record); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &QuizSubmitResult{
		QuizID:          quizID,
		TotalPoints:     score.TotalPoints,
		EarnedPoints:    score.EarnedPoints,
		ScorePercentage: score.Percentage,
		Outcomes:        outcomes,
	}, nil
}

// RetryQuestion 错题重做：单题评分并追加作答记录，不影响测验结果。
func (s *QuizService) RetryQuestion(userID, questionID uint, answer interface{}) (*QuestionOutcome, error) {
	question, err := s.QuizRepo.FindQuestionByID(questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	} else if err != nil {
		return nil, err
	}

	gr := engine.GradeResponse(question.Engine(), answer, 0)

	raw, err := json.Marshal(answer)
	if err != nil {
		raw = []byte("null")
	}
	err = s.QuizRepo.SaveUserResponsesTx(s.DB, []model.UserResponse{{
		UserID:       userID,
		QuestionID:   questionID,
		Response:     raw,
		IsCorrect:    gr.Correct,
		PointsEarned: gr.PointsEarned,
		AnsweredAt:   time.Now(),
	}})
	if err != nil {
		return nil, err
	}

	return &QuestionOutcome{
		QuestionID:   questionID,
		Correct:      gr.Correct,
		PointsEarned: gr.PointsEarned,
		Points:       gr.PointsPossible,
		Explanation:  question.Explanation,
	}, nil
}

func (s *QuizService) ResultsByUser(userID uint) ([]model.QuizResult, error) {
	return s.QuizRepo.ResultsByUser(userID)
}
