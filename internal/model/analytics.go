package model

import "time"

// SkillAnalytic 每用户×技能的分析快照，由分析服务写入供看板读取。
// swagger:model SkillAnalytic
type SkillAnalytic struct {
	BaseModel
	UserID              uint      `gorm:"index:idx_user_skill_analytic,unique;not null" json:"userId"`
	SkillID             uint      `gorm:"index:idx_user_skill_analytic,unique;not null" json:"skillId"`
	AverageScore        float64   `gorm:"type:decimal(5,2);default:0" json:"averageScore"`
	AttemptCount        int       `gorm:"default:0" json:"attemptCount"`
	BenchmarkPercentile float64   `gorm:"type:decimal(5,2)" json:"benchmarkPercentile"`
	LastCalculatedAt    time.Time `json:"lastCalculatedAt"`
}

func (SkillAnalytic) TableName() string {
	return "skill_analytics"
}

// 以下为分析接口的视图类型，不落库。

type SkillPerformance struct {
	SkillID         uint    `json:"skillId"`
	SkillName       string  `json:"skillName"`
	ScorePercentage float64 `json:"scorePercentage"`
	AttemptCount    int     `json:"attemptCount"`
}

type SkillComparison struct {
	SkillID      uint    `json:"skillId"`
	SkillName    string  `json:"skillName"`
	UserScore    float64 `json:"userScore"`
	PeerAverage  float64 `json:"peerAverage"`
	Differential float64 `json:"differential"`
	Percentile   float64 `json:"percentile"`
}

type PeerComparison struct {
	Status          string            `json:"status"`
	PeerCount       int               `json:"peerCount"`
	SkillComparison []SkillComparison `json:"skillComparison"`
}

type StrengthWeakness struct {
	Strengths  []SkillPerformance `json:"strengths"`
	Weaknesses []SkillPerformance `json:"weaknesses"`
}

// RepetitionOverview 间隔重复看板数据。
type RepetitionOverview struct {
	Due            []RepetitionItem `json:"due"`
	Upcoming       []RepetitionItem `json:"upcoming"`
	CompletedCount int64            `json:"completedCount"`
	Proficiency    []SkillRetention `json:"proficiency"`
}

// SkillRetention 基于复习历史推算的技能掌握概览。
type SkillRetention struct {
	SkillID           uint    `json:"skillId"`
	SkillName         string  `json:"skillName"`
	Proficiency       float64 `json:"proficiency"`
	RepetitionCount   int     `json:"repetitionCount"`
	HighestRepetition int     `json:"highestRepetition"`
	AverageRating     float64 `json:"averageRating"`
}
