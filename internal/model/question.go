package model

import (
	"encoding/json"
	"strconv"
	"strings"

	"cybertrain_backend/internal/engine"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	FillBlank      QuestionType = "fill_blank"
	DragDrop       QuestionType = "drag_drop"
)

// Question 测验题目，归属于某章节。创建后不可变。
// swagger:model Question
type Question struct {
	BaseModel
	ChapterID uint         `gorm:"index;type:bigint unsigned" json:"chapterId"`
	SkillID   uint         `gorm:"index;type:bigint unsigned" json:"skillId"`
	Type      QuestionType `gorm:"size:50;not null" json:"type"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	// Options 选项列表 JSON（multiple_choice / drag_drop 使用）。
	Options json.RawMessage `gorm:"type:json" json:"options"`
	// CorrectAnswer 的形态取决于题型：multiple_choice 存选项下标，
	// true_false 存 "true"/"false"，fill_blank 存 "|" 分隔的备选，
	// drag_drop 存 target→item 的 JSON 映射。
	CorrectAnswer string `gorm:"type:text" json:"-"`
	Points        int    `gorm:"default:1" json:"points"`
	Explanation   string `gorm:"type:text" json:"explanation"`
}

func (Question) TableName() string {
	return "questions"
}

// Engine 把持久化形态的题目解码成引擎的类型化变体。
// 未知题型映射到 engine.Unsupported：保留分值但永远判错。
func (q *Question) Engine() engine.Question {
	return toEngineQuestion(q.ID, q.Type, q.Points, q.CorrectAnswer)
}

func toEngineQuestion(id uint, qtype QuestionType, points int, correctAnswer string) engine.Question {
	switch qtype {
	case MultipleChoice:
		idx, err := strconv.Atoi(strings.TrimSpace(correctAnswer))
		if err != nil {
			return engine.Unsupported{QuestionID: id, PointValue: points}
		}
		return engine.MultipleChoice{QuestionID: id, PointValue: points, CorrectIndex: idx}
	case TrueFalse:
		return engine.TrueFalse{QuestionID: id, PointValue: points, CorrectValue: strings.TrimSpace(correctAnswer)}
	case FillBlank:
		return engine.FillBlank{QuestionID: id, PointValue: points, Alternatives: strings.Split(correctAnswer, "|")}
	case DragDrop:
		var mapping map[string]string
		if err := json.Unmarshal([]byte(correctAnswer), &mapping); err != nil || len(mapping) == 0 {
			return engine.Unsupported{QuestionID: id, PointValue: points}
		}
		return engine.DragDrop{QuestionID: id, PointValue: points, CorrectMapping: mapping}
	default:
		return engine.Unsupported{QuestionID: id, PointValue: points}
	}
}
