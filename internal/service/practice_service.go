package service

import (
	"context"
	"cybertrain_backend/internal/engine"
	"cybertrain_backend/internal/model"
	"cybertrain_backend/internal/repository"
	"cybertrain_backend/internal/util"
	"cybertrain_backend/pkg/logger"
	"cybertrain_backend/pkg/monitoring"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PracticeService struct {
	PracticeRepo   *repository.PracticeRepository
	SkillRepo      *repository.SkillRepository
	UserSkillRepo  *repository.UserSkillRepository
	RepetitionRepo *repository.RepetitionRepository
	Agent          *AgentService
	DB             *gorm.DB
}

func NewPracticeService(
	practiceRepo *repository.PracticeRepository,
	skillRepo *repository.SkillRepository,
	userSkillRepo *repository.UserSkillRepository,
	repetitionRepo *repository.RepetitionRepository,
	agent *AgentService,
	db *gorm.DB,
) *PracticeService {
	return &PracticeService{
		PracticeRepo:   practiceRepo,
		SkillRepo:      skillRepo,
		UserSkillRepo:  userSkillRepo,
		RepetitionRepo: repetitionRepo,
		Agent:          agent,
		DB:             db,
	}
}

const (
	defaultQuestionCount = 5
	maxQuestionCount     = 20
)

// Start 创建练习会话。题目优先由智能体生成，智能体不可用时回退到
// 内置模板题，保证练习功能离线可用。
func (s *PracticeService) Start(ctx context.Context, userID, skillID uint, difficulty, count int, timeLimit *int, language string) (*model.PracticeSession, error) {
	skill, err := s.SkillRepo.FindByID(skillID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSkillNotFound
	} else if err != nil {
		return nil, err
	}

	if difficulty < 1 || difficulty > 5 {
		difficulty = 3
	}
	if count <= 0 {
		count = defaultQuestionCount
	}
	if count > maxQuestionCount {
		count = maxQuestionCount
	}

	questions := s.generateQuestions(ctx, skill, difficulty, count, language)

	session := &model.PracticeSession{
		Token:           model.GenerateUUID(),
		UserID:          userID,
		SkillID:         skillID,
		DifficultyLevel: difficulty,
		TimeLimit:       timeLimit,
		Status:          model.PracticeStarted,
		Questions:       questions,
	}
	if err := s.PracticeRepo.CreateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *PracticeService) generateQuestions(ctx context.Context, skill *model.Skill, difficulty, count int, language string) []model.PracticeQuestion {
	generated, err := s.Agent.GenerateQuestions(ctx, GenerateQuestionsRequest{
		SkillName:       skill.Name,
		SkillDomain:     skill.Domain,
		DifficultyLevel: difficulty,
		Count:           count,
		Language:        language,
	})
	if err != nil || len(generated) == 0 {
		if err != nil {
			logger.Log.Warn("Agent question generation failed, using fallback bank",
				zap.String("skill", skill.Name),
				zap.Error(err))
		}
		return fallbackQuestions(skill, difficulty, count)
	}

	questions := make([]model.PracticeQuestion, 0, len(generated))
	for i, g := range generated {
		points := g.Points
		if points <= 0 {
			points = 1
		}
		questions = append(questions, model.PracticeQuestion{
			Type:          model.QuestionType(g.Type),
			Content:       g.Content,
			Sequence:      i + 1,
			Options:       g.Options,
			CorrectAnswer: g.CorrectAnswer,
			Points:        points,
			Explanation:   g.Explanation,
		})
	}
	return questions
}

// fallbackQuestions 内置模板题库，覆盖判断题与选择题两种题型。
func fallbackQuestions(skill *model.Skill, difficulty, count int) []model.PracticeQuestion {
	options, _ := json.Marshal([]string{
		"Report it to the security team",
		"Forward it to colleagues to warn them",
		"Reply asking whether it is genuine",
		"Ignore it and delete it later",
	})

	templates := []model.PracticeQuestion{
		{
			Type:          model.TrueFalse,
			Content:       fmt.Sprintf("Strong %s practices require regular review of your habits.", skill.Name),
			CorrectAnswer: "true",
			Points:        1,
			Explanation:   "Security practices degrade over time without periodic review.",
		},
		{
			Type:          model.MultipleChoice,
			Content:       fmt.Sprintf("You notice something suspicious related to %s. What should you do first?", skill.Name),
			Options:       options,
			CorrectAnswer: "0",
			Points:        2,
			Explanation:   "Suspicious activity should always go to the security team first.",
		},
		{
			Type:          model.TrueFalse,
			Content:       fmt.Sprintf("It is safe to skip %s checks when you are in a hurry.", skill.Name),
			CorrectAnswer: "false",
			Points:        1,
			Explanation:   "Attackers rely on people cutting corners under time pressure.",
		},
	}

	questions := make([]model.PracticeQuestion, 0, count)
	for i := 0; i < count; i++ {
		q := templates[i%len(templates)]
		q.Sequence = i + 1
		if difficulty >= 4 {
			q.Points++
		}
		questions = append(questions, q)
	}
	return questions
}

func (s *PracticeService) GetSession(userID uint, token string) (*model.PracticeSession, error) {
	session, err := s.PracticeRepo.FindByToken(token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSessionNotFound
	} else if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return session, nil
}

func (s *PracticeService) GetResults(userID uint, token string) (*model.PracticeSession, error) {
	session, err := s.PracticeRepo.FindByTokenWithResponses(token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSessionNotFound
	} else if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return session, nil
}

// AnswerInput 提交的单题作答。Answer 为原始JSON值，形态随题型变化。
type AnswerInput struct {
	QuestionID   uint        `json:"questionId" binding:"required"`
	Answer       interface{} `json:"answer"`
	TimeTakenSec int         `json:"timeTakenSec"`
}

// QuestionOutcome 结算后逐题反馈。
type QuestionOutcome struct {
	QuestionID   uint   `json:"questionId"`
	Correct      bool   `json:"correct"`
	PointsEarned int    `json:"pointsEarned"`
	Points       int    `json:"points"`
	Explanation  string `json:"explanation"`
}

// SubmitResult 会话结算结果。
type SubmitResult struct {
	Token           string            `json:"token"`
	TotalPoints     int               `json:"totalPoints"`
	EarnedPoints    int               `json:"earnedPoints"`
	ScorePercentage float64           `json:"scorePercentage"`
	Proficiency     float64           `json:"proficiency"`
	Outcomes        []QuestionOutcome `json:"outcomes"`
}

// sessionSettlement 结算中间结果，由 settleSession 产出，事务内落库。
type sessionSettlement struct {
	Responses []model.PracticeResponse
	Outcomes  []QuestionOutcome
	Score     engine.SessionScore
}

// settleSession 结算核心，不触库：校验归属与状态后逐题评分。会话已完成
// 返回 util.ErrSessionAlreadyCompleted，重复提交不会被静默吞掉。无法对应
// 到会话内题目的作答条目跳过，不参与计分；未作答的题目按0分计入总分。
func settleSession(session *model.PracticeSession, userID uint, questions []model.PracticeQuestion, answers []AnswerInput) (*sessionSettlement, error) {
	if session.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	if session.Status == model.PracticeCompleted {
		return nil, util.ErrSessionAlreadyCompleted
	}

	byQuestion := make(map[uint]AnswerInput, len(answers))
	for _, answer := range answers {
		byQuestion[answer.QuestionID] = answer
	}

	st := &sessionSettlement{
		Responses: make([]model.PracticeResponse, 0, len(questions)),
		Outcomes:  make([]QuestionOutcome, 0, len(questions)),
	}
	graded := make([]engine.GradedResponse, 0, len(questions))

	for i := range questions {
		q := &questions[i]
		eq := q.Engine()

		answer, answered := byQuestion[q.ID]
		var gr engine.GradedResponse
		if answered {
			gr = engine.GradeResponse(eq, answer.Answer, answer.TimeTakenSec)
		} else {
			gr = engine.GradeResponse(eq, nil, 0)
		}
		graded = append(graded, gr)

		raw, err := json.Marshal(answer.Answer)
		if err != nil {
			raw = []byte("null")
		}
		st.Responses = append(st.Responses, model.PracticeResponse{
			SessionID:    session.ID,
			QuestionID:   q.ID,
			Response:     raw,
			IsCorrect:    gr.Correct,
			PointsEarned: gr.PointsEarned,
			TimeTakenSec: gr.TimeTakenSec,
		})
		st.Outcomes = append(st.Outcomes, QuestionOutcome{
			QuestionID:   q.ID,
			Correct:      gr.Correct,
			PointsEarned: gr.PointsEarned,
			Points:       gr.PointsPossible,
			Explanation:  q.Explanation,
		})
	}

	st.Score = engine.ScoreSession(graded)
	return st, nil
}

// Submit 结算练习会话：逐题评分、落库作答记录、更新会话与技能熟练度，
// 全部在同一事务内完成。错误语义见 settleSession。
func (s *PracticeService) Submit(ctx context.Context, userID uint, token string, answers []AnswerInput) (*SubmitResult, error) {
	var result *SubmitResult
	var skillID uint
	var skillName string

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := s.PracticeRepo.LockByToken(tx, token)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrSessionNotFound
		} else if err != nil {
			return err
		}

		questions, err := s.PracticeRepo.QuestionsBySessionTx(tx, session.ID)
		if err != nil {
			return err
		}

		st, err := settleSession(session, userID, questions, answers)
		if err != nil {
			return err
		}

		if err := s.PracticeRepo.SaveResponsesTx(tx, st.Responses); err != nil {
			return err
		}

		now := time.Now()
		session.Status = model.PracticeCompleted
		session.TotalPoints = st.Score.TotalPoints
		session.EarnedPoints = st.Score.EarnedPoints
		session.ScorePercentage = st.Score.Percentage
		session.CompletedAt = &now
		if err := s.PracticeRepo.UpdateSessionTx(tx, session); err != nil {
			return err
		}

		proficiency, err := s.updateSkillTx(tx, userID, session.SkillID, st.Score.Percentage, now)
		if err != nil {
			return err
		}

		skillID = session.SkillID
		skill, err := s.SkillRepo.FindByID(session.SkillID)
		if err == nil {
			skillName = skill.Name
		}

		result = &SubmitResult{
			Token:           session.Token,
			TotalPoints:     st.Score.TotalPoints,
			EarnedPoints:    st.Score.EarnedPoints,
			ScorePercentage: st.Score.Percentage,
			Proficiency:     proficiency,
			Outcomes:        st.Outcomes,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 首次练习该技能时建立间隔重复条目，让它进入复习队列。
	if _, err := s.RepetitionRepo.FindOrCreate(userID, skillID, time.Now().AddDate(0, 0, 1)); err != nil {
		logger.Log.Error("Failed to ensure repetition item", zap.Error(err))
	}

	monitoring.PracticeCompleted.WithLabelValues(skillName).Inc()
	return result, nil
}

// advanceSkill 按一次完成的得分率推进技能档案：熟练度EMA、练习计数与
// 最近练习时间。练习与测验结算共用。
func advanceSkill(record *model.UserSkill, score float64, now time.Time) {
	record.ProficiencyLevel = engine.UpdateProficiency(record.ProficiencyLevel, score)
	record.PracticeCount++
	record.LastPracticedAt = &now
}

// updateSkillTx 行锁下推进技能档案。
func (s *PracticeService) updateSkillTx(tx *gorm.DB, userID, skillID uint, score float64, now time.Time) (float64, error) {
	if score < 0 || score > 100 {
		return 0, util.ErrScoreOutOfRange
	}

	record, err := s.UserSkillRepo.LockForUpdate(tx, userID, skillID)
	if err != nil {
		return 0, err
	}

	advanceSkill(record, score, now)

	if err := s.UserSkillRepo.SaveTx(tx, record); err != nil {
		return 0, err
	}
	return record.ProficiencyLevel, nil
}
