package model

import (
	"encoding/json"
	"time"

	"cybertrain_backend/internal/engine"
)

type PracticeStatus string

const (
	PracticeStarted   PracticeStatus = "started"
	PracticeCompleted PracticeStatus = "completed"
)

// PracticeSession 一次技能练习会话。started→completed 单向且终态，
// 完成后除结果字段外不再变更。
// swagger:model PracticeSession
type PracticeSession struct {
	BaseModel
	Token           string         `gorm:"size:36;uniqueIndex;not null" json:"token"`
	UserID          uint           `gorm:"index;not null" json:"userId"`
	SkillID         uint           `gorm:"index;not null" json:"skillId"`
	DifficultyLevel int            `gorm:"default:3" json:"difficultyLevel"` // 1-5
	TimeLimit       *int           `json:"timeLimit"`                        // 秒，可空表示不限时
	Status          PracticeStatus `gorm:"type:enum('started','completed');default:'started'" json:"status"`
	TotalPoints     int            `gorm:"default:0" json:"totalPoints"`
	EarnedPoints    int            `gorm:"default:0" json:"earnedPoints"`
	ScorePercentage float64        `gorm:"type:decimal(5,2);default:0" json:"scorePercentage"`
	CompletedAt     *time.Time     `json:"completedAt"`

	Questions []PracticeQuestion `gorm:"foreignKey:SessionID" json:"questions,omitempty"`
	Responses []PracticeResponse `gorm:"foreignKey:SessionID" json:"responses,omitempty"`
}

func (PracticeSession) TableName() string {
	return "practice_sessions"
}

// swagger:model PracticeQuestion
type PracticeQuestion struct {
	BaseModel
	SessionID uint            `gorm:"index;not null" json:"sessionId"`
	Type      QuestionType    `gorm:"size:50;not null" json:"type"`
	Content   string          `gorm:"type:text;not null" json:"content"`
	Sequence  int             `gorm:"default:0" json:"sequence"`
	Options   json.RawMessage `gorm:"type:json" json:"options"`
	// 形态约定同 Question.CorrectAnswer。
	CorrectAnswer string `gorm:"type:text" json:"-"`
	Points        int    `gorm:"default:1" json:"points"`
	Explanation   string `gorm:"type:text" json:"explanation"`
}

func (PracticeQuestion) TableName() string {
	return "practice_questions"
}

func (q *PracticeQuestion) Engine() engine.Question {
	return toEngineQuestion(q.ID, q.Type, q.Points, q.CorrectAnswer)
}

// PracticeResponse 用户对某题的一次作答，创建后不再修改。
// swagger:model PracticeResponse
type PracticeResponse struct {
	BaseModel
	SessionID    uint            `gorm:"index;not null" json:"sessionId"`
	QuestionID   uint            `gorm:"index;not null" json:"questionId"`
	Response     json.RawMessage `gorm:"type:json" json:"response"`
	IsCorrect    bool            `gorm:"default:false" json:"isCorrect"`
	PointsEarned int             `gorm:"default:0" json:"pointsEarned"`
	TimeTakenSec int             `gorm:"default:0" json:"timeTakenSec"`
}

func (PracticeResponse) TableName() string {
	return "practice_responses"
}
