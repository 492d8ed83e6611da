package model

import (
	"encoding/json"
	"time"
)

// UserResponse 用户对题库题目的作答记录（测验提交与错题重做共用）。
// swagger:model UserResponse
type UserResponse struct {
	BaseModel
	UserID       uint            `gorm:"index;not null" json:"userId"`
	QuestionID   uint            `gorm:"index;not null" json:"questionId"`
	Response     json.RawMessage `gorm:"type:json" json:"response"`
	IsCorrect    bool            `gorm:"default:false" json:"isCorrect"`
	PointsEarned int             `gorm:"default:0" json:"pointsEarned"`
	AnsweredAt   time.Time       `json:"answeredAt"`
}

func (UserResponse) TableName() string {
	return "user_responses"
}
