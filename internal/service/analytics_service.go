package service

import (
	"context"
	"cybertrain_backend/internal/config"
	"cybertrain_backend/internal/engine"
	"cybertrain_backend/internal/model"
	"cybertrain_backend/internal/repository"
	"cybertrain_backend/internal/util"
	"cybertrain_backend/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AnalyticsService struct {
	AnalyticsRepo *repository.AnalyticsRepository
	UserRepo      *repository.UserRepository
	Redis         *redis.Client
	Cfg           *config.Config
}

func NewAnalyticsService(analyticsRepo *repository.AnalyticsRepository, userRepo *repository.UserRepository, rdb *redis.Client, cfg *config.Config) *AnalyticsService {
	return &AnalyticsService{
		AnalyticsRepo: analyticsRepo,
		UserRepo:      userRepo,
		Redis:         rdb,
		Cfg:           cfg,
	}
}

const (
	// minPeerCount 低于该人数不做同行对比，避免分布失真。
	minPeerCount = 2

	strengthThreshold = 75.0
	weaknessThreshold = 60.0
)

func (s *AnalyticsService) cacheTTL() time.Duration {
	ttl := s.Cfg.Analytics.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return ttl
}

// cached 读缓存未命中时计算并回填。缓存故障降级为直接计算。
func (s *AnalyticsService) cached(ctx context.Context, key string, out interface{}, compute func() (interface{}, error)) error {
	if data, err := s.Redis.Get(ctx, key).Bytes(); err == nil {
		if err := json.Unmarshal(data, out); err == nil {
			return nil
		}
	}

	value, err := compute()
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.Redis.Set(ctx, key, data, s.cacheTTL()).Err(); err != nil {
		logger.Log.Warn("Failed to cache analytics result", zap.String("key", key), zap.Error(err))
	}
	return json.Unmarshal(data, out)
}

// SkillPerformance 用户各技能的平均练习得分，带缓存。
func (s *AnalyticsService) SkillPerformance(ctx context.Context, userID uint) ([]model.SkillPerformance, error) {
	var result []model.SkillPerformance
	key := fmt.Sprintf("analytics:performance:%d", userID)
	err := s.cached(ctx, key, &result, func() (interface{}, error) {
		rows, err := s.AnalyticsRepo.UserSkillScores(userID)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			rows[i].ScorePercentage = math.Round(rows[i].ScorePercentage*100) / 100
		}
		return rows, nil
	})
	return result, err
}

// PeerComparison 与同行业同岗位用户的对比。同行样本不足时返回
// insufficient_data 状态而非误导性的百分位。
func (s *AnalyticsService) PeerComparison(ctx context.Context, userID uint) (*model.PeerComparison, error) {
	var result model.PeerComparison
	key := fmt.Sprintf("analytics:peers:%d", userID)
	err := s.cached(ctx, key, &result, func() (interface{}, error) {
		return s.computePeerComparison(userID)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *AnalyticsService) computePeerComparison(userID uint) (*model.PeerComparison, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}

	peerIDs, err := s.UserRepo.PeerIDs(user.Sector, user.Position, user.ID)
	if err != nil {
		return nil, err
	}
	if len(peerIDs) < minPeerCount {
		return &model.PeerComparison{Status: "insufficient_data", PeerCount: len(peerIDs)}, nil
	}

	peerStats, err := s.AnalyticsRepo.PeerSkillStats(peerIDs)
	if err != nil {
		return nil, err
	}
	userScores, err := s.AnalyticsRepo.UserSkillScores(userID)
	if err != nil {
		return nil, err
	}

	userBySkill := make(map[uint]model.SkillPerformance, len(userScores))
	for _, row := range userScores {
		userBySkill[row.SkillID] = row
	}

	comparison := make([]model.SkillComparison, 0, len(peerStats))
	for _, stat := range peerStats {
		mine, practiced := userBySkill[stat.SkillID]
		if !practiced {
			continue
		}

		stdDev := stat.StdDevScore
		if stdDev <= 0 {
			stdDev = engine.DefaultStdDev
		}

		comparison = append(comparison, model.SkillComparison{
			SkillID:      stat.SkillID,
			SkillName:    stat.SkillName,
			UserScore:    math.Round(mine.ScorePercentage*100) / 100,
			PeerAverage:  math.Round(stat.AvgScore*100) / 100,
			Differential: math.Round((mine.ScorePercentage-stat.AvgScore)*100) / 100,
			Percentile:   engine.Percentile(mine.ScorePercentage, stat.AvgScore, stdDev),
		})

		// 顺带刷新快照，供后台报表读取。
		if err := s.AnalyticsRepo.UpsertSnapshot(&model.SkillAnalytic{
			UserID:              userID,
			SkillID:             stat.SkillID,
			AverageScore:        mine.ScorePercentage,
			AttemptCount:        mine.AttemptCount,
			BenchmarkPercentile: engine.Percentile(mine.ScorePercentage, stat.AvgScore, stdDev),
		}); err != nil {
			logger.Log.Warn("Failed to upsert analytics snapshot", zap.Error(err))
		}
	}

	sort.Slice(comparison, func(i, j int) bool {
		return comparison[i].Percentile > comparison[j].Percentile
	})

	return &model.PeerComparison{
		Status:          "ok",
		PeerCount:       len(peerIDs),
		SkillComparison: comparison,
	}, nil
}

// StrengthsWeaknesses 按平均得分把技能划分为强项与弱项。
func (s *AnalyticsService) StrengthsWeaknesses(ctx context.Context, userID uint) (*model.StrengthWeakness, error) {
	rows, err := s.SkillPerformance(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &model.StrengthWeakness{
		Strengths:  []model.SkillPerformance{},
		Weaknesses: []model.SkillPerformance{},
	}
	for _, row := range rows {
		switch {
		case row.ScorePercentage >= strengthThreshold:
			result.Strengths = append(result.Strengths, row)
		case row.ScorePercentage < weaknessThreshold:
			result.Weaknesses = append(result.Weaknesses, row)
		}
	}

	sort.Slice(result.Strengths, func(i, j int) bool {
		return result.Strengths[i].ScorePercentage > result.Strengths[j].ScorePercentage
	})
	sort.Slice(result.Weaknesses, func(i, j int) bool {
		return result.Weaknesses[i].ScorePercentage < result.Weaknesses[j].ScorePercentage
	})
	return result, nil
}

// InvalidateUser 练习结算后清掉该用户的分析缓存。
func (s *AnalyticsService) InvalidateUser(ctx context.Context, userID uint) {
	keys := []string{
		fmt.Sprintf("analytics:performance:%d", userID),
		fmt.Sprintf("analytics:peers:%d", userID),
	}
	if err := s.Redis.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("Failed to invalidate analytics cache", zap.Error(err))
	}
}
