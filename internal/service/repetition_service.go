package service

import (
	"cybertrain_backend/internal/engine"
	"cybertrain_backend/internal/model"
	"cybertrain_backend/internal/repository"
	"cybertrain_backend/internal/util"
	"cybertrain_backend/pkg/monitoring"
	"errors"
	"math"
	"strconv"
	"time"

	"gorm.io/gorm"
)

type RepetitionService struct {
	RepetitionRepo *repository.RepetitionRepository
	SkillRepo      *repository.SkillRepository
	DB             *gorm.DB
}

func NewRepetitionService(repetitionRepo *repository.RepetitionRepository, skillRepo *repository.SkillRepository, db *gorm.DB) *RepetitionService {
	return &RepetitionService{
		RepetitionRepo: repetitionRepo,
		SkillRepo:      skillRepo,
		DB:             db,
	}
}

const upcomingLimit = 10

// Overview 复习看板：到期条目、即将到期条目、累计复习次数与各技能的
// 记忆保持概览。
func (s *RepetitionService) Overview(userID uint) (*model.RepetitionOverview, error) {
	now := time.Now()

	due, err := s.RepetitionRepo.Due(userID, now)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.RepetitionRepo.Upcoming(userID, now, upcomingLimit)
	if err != nil {
		return nil, err
	}

	completed, err := s.RepetitionRepo.ReviewCount(userID)
	if err != nil {
		return nil, err
	}

	all, err := s.RepetitionRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	retention := make([]model.SkillRetention, 0, len(all))
	for i := range all {
		retention = append(retention, skillRetention(&all[i]))
	}

	return &model.RepetitionOverview{
		Due:            due,
		Upcoming:       upcoming,
		CompletedCount: completed,
		Proficiency:    retention,
	}, nil
}

// skillRetention 把复习历史折算成0-100的掌握度：平均评分占40%，
// 累计复习次数占30%，连续成功轮数占30%，次数类指标在10次处饱和。
func skillRetention(item *model.RepetitionItem) model.SkillRetention {
	state := item.Engine()

	var avgRating float64
	if len(state.History) > 0 {
		sum := 0
		for _, rating := range state.History {
			sum += rating
		}
		avgRating = float64(sum) / float64(len(state.History))
	}

	ratingScore := avgRating / engine.MaxRating * 100
	countScore := saturate(len(state.History), 10) * 100
	streakScore := saturate(state.RepetitionCount, 10) * 100
	blended := 0.4*ratingScore + 0.3*countScore + 0.3*streakScore

	return model.SkillRetention{
		SkillID:           item.SkillID,
		SkillName:         item.Skill.Name,
		Proficiency:       math.Round(blended*100) / 100,
		RepetitionCount:   len(state.History),
		HighestRepetition: state.RepetitionCount,
		AverageRating:     math.Round(avgRating*100) / 100,
	}
}

func saturate(value, limit int) float64 {
	if value >= limit {
		return 1
	}
	return float64(value) / float64(limit)
}

// EnsureItem 确保用户×技能的复习条目存在，用于手动把技能加入复习队列。
func (s *RepetitionService) EnsureItem(userID, skillID uint) (*model.RepetitionItem, error) {
	if _, err := s.SkillRepo.FindByID(skillID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSkillNotFound
	} else if err != nil {
		return nil, err
	}
	return s.RepetitionRepo.FindOrCreate(userID, skillID, time.Now().AddDate(0, 0, 1))
}

// CompleteReview 结算一次复习：行锁读取条目，按SM-2推进调度状态并
// 追加评分历史。评分超出0-5返回 util.ErrInvalidRating。
func (s *RepetitionService) CompleteReview(userID, itemID uint, rating int) (*model.RepetitionItem, error) {
	var updated *model.RepetitionItem

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		item, err := s.RepetitionRepo.LockByID(tx, itemID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrItemNotFound
		} else if err != nil {
			return err
		}
		if item.UserID != userID {
			return util.ErrPermissionDenied
		}

		next, err := engine.Review(item.Engine(), rating, time.Now())
		if errors.Is(err, engine.ErrRatingOutOfRange) {
			return util.ErrInvalidRating
		} else if err != nil {
			return err
		}

		item.ApplyReview(next)
		if err := s.RepetitionRepo.SaveTx(tx, item); err != nil {
			return err
		}

		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.ReviewsRecorded.WithLabelValues(strconv.Itoa(rating)).Inc()
	return updated, nil
}
