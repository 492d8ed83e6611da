package engine

import (
	"strconv"
	"strings"
)

// Question 练习/测验题目的评分视图。每种题型携带自己的标准答案数据，
// 评分按具体类型分派，而不是在运行时比较类型字符串。
type Question interface {
	ID() uint
	Points() int
	// Grade reports whether the submitted answer is correct. A nil or
	// wrong-shaped answer is simply incorrect, never an error.
	Grade(answer Answer) bool
}

// Answer is the typed form of a submitted answer. The shape depends on
// the question kind; ParseAnswer builds the right one from raw JSON.
type Answer interface{ isAnswer() }

// ChoiceAnswer is the selected option index of a multiple choice question.
type ChoiceAnswer int

// TextAnswer is a free-text or true/false value.
type TextAnswer string

// BlanksAnswer holds one entry per blank, position aligned.
type BlanksAnswer []string

// MappingAnswer maps drop-target id to the dragged item id.
type MappingAnswer map[string]string

func (ChoiceAnswer) isAnswer()  {}
func (TextAnswer) isAnswer()    {}
func (BlanksAnswer) isAnswer()  {}
func (MappingAnswer) isAnswer() {}

// MultipleChoice 单选题，标准答案为正确选项下标。
type MultipleChoice struct {
	QuestionID   uint
	PointValue   int
	CorrectIndex int
}

func (q MultipleChoice) ID() uint { return q.QuestionID }
func (q MultipleChoice) Points() int { return q.PointValue }

func (q MultipleChoice) Grade(answer Answer) bool {
	choice, ok := answer.(ChoiceAnswer)
	if !ok {
		return false
	}
	return int(choice) == q.CorrectIndex
}

// TrueFalse 判断题，忽略大小写比较。
type TrueFalse struct {
	QuestionID   uint
	PointValue   int
	CorrectValue string
}

func (q TrueFalse) ID() uint { return q.QuestionID }
func (q TrueFalse) Points() int { return q.PointValue }

func (q TrueFalse) Grade(answer Answer) bool {
	text, ok := answer.(TextAnswer)
	if !ok {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(string(text)), q.CorrectValue)
}

// FillBlank 填空题。Alternatives 已按 "|" 拆分：单空时任意一项匹配即可；
// 多空时按位置逐一比对，长度必须一致。
type FillBlank struct {
	QuestionID   uint
	PointValue   int
	Alternatives []string
}

func (q FillBlank) ID() uint { return q.QuestionID }
func (q FillBlank) Points() int { return q.PointValue }

func (q FillBlank) Grade(answer Answer) bool {
	switch ans := answer.(type) {
	case TextAnswer:
		for _, alt := range q.Alternatives {
			if blankEqual(string(ans), alt) {
				return true
			}
		}
		return false
	case BlanksAnswer:
		if len(ans) != len(q.Alternatives) {
			return false
		}
		for i, v := range ans {
			if !blankEqual(v, q.Alternatives[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func blankEqual(submitted, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(correct))
}

// DragDrop 拖拽题。提交的映射必须覆盖标准答案中的每个目标。
type DragDrop struct {
	QuestionID     uint
	PointValue     int
	CorrectMapping map[string]string
}

func (q DragDrop) ID() uint { return q.QuestionID }
func (q DragDrop) Points() int { return q.PointValue }

func (q DragDrop) Grade(answer Answer) bool {
	mapping, ok := answer.(MappingAnswer)
	if !ok {
		return false
	}
	for target, item := range q.CorrectMapping {
		if mapping[target] != item {
			return false
		}
	}
	return true
}

// Unsupported 兜底题型：历史数据里未知的 type 字符串仍计入总分，但永远判错。
type Unsupported struct {
	QuestionID uint
	PointValue int
}

func (q Unsupported) ID() uint { return q.QuestionID }
func (q Unsupported) Points() int { return q.PointValue }
func (q Unsupported) Grade(Answer) bool { return false }

// ParseAnswer converts a decoded JSON value into the answer shape the
// question expects. Unconvertible input yields nil, which grades as
// incorrect.
func ParseAnswer(q Question, raw interface{}) Answer {
	switch q.(type) {
	case MultipleChoice:
		switch v := raw.(type) {
		case float64:
			return ChoiceAnswer(int(v))
		case int:
			return ChoiceAnswer(v)
		case string:
			if idx, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return ChoiceAnswer(idx)
			}
		}
	case TrueFalse:
		switch v := raw.(type) {
		case string:
			return TextAnswer(v)
		case bool:
			return TextAnswer(strconv.FormatBool(v))
		}
	case FillBlank:
		switch v := raw.(type) {
		case string:
			return TextAnswer(v)
		case []interface{}:
			blanks := make(BlanksAnswer, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil
				}
				blanks = append(blanks, s)
			}
			return blanks
		case []string:
			return BlanksAnswer(v)
		}
	case DragDrop:
		switch v := raw.(type) {
		case map[string]interface{}:
			mapping := make(MappingAnswer, len(v))
			for target, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil
				}
				mapping[target] = s
			}
			return mapping
		case map[string]string:
			return MappingAnswer(v)
		}
	}
	return nil
}
