package model

import (
	"encoding/json"
	"time"

	"cybertrain_backend/internal/engine"
)

// RepetitionItem 用户×技能的间隔重复条目。首次接触时创建，
// 每次复习完成后更新，作为历史记录永不删除。
// swagger:model RepetitionItem
type RepetitionItem struct {
	BaseModel
	UserID  uint `gorm:"index:idx_user_repetition,unique;not null" json:"userId"`
	SkillID uint `gorm:"index:idx_user_repetition,unique;not null" json:"skillId"`
	// EasinessFactor ≥ 1.3，初值 2.5。
	EasinessFactor float64 `gorm:"type:decimal(4,2);default:2.5" json:"easinessFactor"`
	// IntervalDays ≥ 1。
	IntervalDays    int       `gorm:"default:1" json:"intervalDays"`
	RepetitionCount int       `gorm:"default:0" json:"repetitionCount"`
	DueDate         time.Time `gorm:"index;not null" json:"dueDate"`
	// PerformanceHistory 历次评分（0-5），只追加。
	PerformanceHistory json.RawMessage `gorm:"type:json" json:"performanceHistory"`

	Skill Skill `gorm:"foreignKey:SkillID" json:"skill,omitempty"`
}

func (RepetitionItem) TableName() string {
	return "repetition_items"
}

// Engine 转换为引擎的值语义复习状态。
func (r *RepetitionItem) Engine() engine.ReviewItem {
	var history []int
	if len(r.PerformanceHistory) > 0 {
		_ = json.Unmarshal(r.PerformanceHistory, &history)
	}
	return engine.ReviewItem{
		ContentID:       r.SkillID,
		EaseFactor:      r.EasinessFactor,
		IntervalDays:    r.IntervalDays,
		RepetitionCount: r.RepetitionCount,
		DueDate:         r.DueDate,
		History:         history,
	}
}

// ApplyReview 把引擎计算出的新状态写回持久化字段。
func (r *RepetitionItem) ApplyReview(item engine.ReviewItem) {
	r.EasinessFactor = item.EaseFactor
	r.IntervalDays = item.IntervalDays
	r.RepetitionCount = item.RepetitionCount
	r.DueDate = item.DueDate
	history, _ := json.Marshal(item.History)
	r.PerformanceHistory = history
}
