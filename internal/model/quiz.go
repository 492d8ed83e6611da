package model

import "time"

// Quiz 主题测验，章节与题目由外部智能体服务生成后入库。
// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"title"`
	Topic       string `gorm:"size:255" json:"topic"`
	Description string `gorm:"type:text" json:"description"`
	Difficulty  int    `gorm:"default:3" json:"difficulty"` // 1-5
	Published   bool   `gorm:"default:false" json:"published"`

	Chapters []Chapter `gorm:"foreignKey:QuizID" json:"chapters,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model Chapter
type Chapter struct {
	BaseModel
	QuizID   uint   `gorm:"index;type:bigint unsigned" json:"quizId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Sequence int    `gorm:"default:0" json:"sequence"`

	Questions []Question `gorm:"foreignKey:ChapterID" json:"questions,omitempty"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// QuizResult 用户完成一次测验的结果。
// swagger:model QuizResult
type QuizResult struct {
	BaseModel
	UserID          uint       `gorm:"index" json:"userId"`
	QuizID          uint       `gorm:"index" json:"quizId"`
	TotalPoints     int        `gorm:"default:0" json:"totalPoints"`
	EarnedPoints    int        `gorm:"default:0" json:"earnedPoints"`
	ScorePercentage float64    `gorm:"type:decimal(5,2);default:0" json:"scorePercentage"`
	CompletedAt     *time.Time `json:"completedAt"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
