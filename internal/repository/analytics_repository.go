package repository

import (
	"cybertrain_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

// UserSkillScores 按技能聚合用户已完成练习会话的平均得分。
func (r *AnalyticsRepository) UserSkillScores(userID uint) ([]model.SkillPerformance, error) {
	var rows []model.SkillPerformance
	err := r.DB.Model(&model.PracticeSession{}).
		Select("practice_sessions.skill_id AS skill_id, skills.name AS skill_name, AVG(practice_sessions.score_percentage) AS score_percentage, COUNT(*) AS attempt_count").
		Joins("JOIN skills ON skills.id = practice_sessions.skill_id").
		Where("practice_sessions.user_id = ? AND practice_sessions.status = ?", userID, model.PracticeCompleted).
		Group("practice_sessions.skill_id, skills.name").
		Order("score_percentage DESC").
		Scan(&rows).Error
	return rows, err
}

// PeerSkillStat 同行群体在某技能上的得分统计。
type PeerSkillStat struct {
	SkillID     uint    `json:"skillId"`
	SkillName   string  `json:"skillName"`
	AvgScore    float64 `json:"avgScore"`
	StdDevScore float64 `json:"stdDevScore"`
	PeerCount   int     `json:"peerCount"`
}

// PeerSkillStats 按技能聚合同行的平均分与标准差，用于基准百分位。
func (r *AnalyticsRepository) PeerSkillStats(peerIDs []uint) ([]PeerSkillStat, error) {
	if len(peerIDs) == 0 {
		return nil, nil
	}
	var rows []PeerSkillStat
	err := r.DB.Model(&model.PracticeSession{}).
		Select("practice_sessions.skill_id AS skill_id, skills.name AS skill_name, AVG(practice_sessions.score_percentage) AS avg_score, COALESCE(STDDEV_POP(practice_sessions.score_percentage), 0) AS std_dev_score, COUNT(DISTINCT practice_sessions.user_id) AS peer_count").
		Joins("JOIN skills ON skills.id = practice_sessions.skill_id").
		Where("practice_sessions.user_id IN ? AND practice_sessions.status = ?", peerIDs, model.PracticeCompleted).
		Group("practice_sessions.skill_id, skills.name").
		Scan(&rows).Error
	return rows, err
}

// UpsertSnapshot 写入或更新用户×技能的分析快照。
func (r *AnalyticsRepository) UpsertSnapshot(snapshot *model.SkillAnalytic) error {
	snapshot.LastCalculatedAt = time.Now()
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "skill_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"average_score", "attempt_count", "benchmark_percentile", "last_calculated_at", "updated_at"}),
	}).Create(snapshot).Error
}

func (r *AnalyticsRepository) SnapshotsByUser(userID uint) ([]model.SkillAnalytic, error) {
	var snapshots []model.SkillAnalytic
	err := r.DB.Where("user_id = ?", userID).Find(&snapshots).Error
	return snapshots, err
}
