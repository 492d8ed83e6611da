package engine

import (
	"errors"
	"math"
	"sort"
	"time"
)

// SuperMemo-2 参数。
const (
	InitialEaseFactor = 2.5
	MinEaseFactor     = 1.3
	passThreshold     = 3

	MinRating = 0
	MaxRating = 5
)

// ErrRatingOutOfRange 表示评分不在 0-5 范围内，属于调用方契约错误。
var ErrRatingOutOfRange = errors.New("performance rating must be between 0 and 5")

// ReviewItem 某用户对某内容条目的间隔重复状态。值语义：Review 返回
// 更新后的副本，调用方看不到任何中间状态。
type ReviewItem struct {
	ContentID       uint
	EaseFactor      float64
	IntervalDays    int
	RepetitionCount int
	DueDate         time.Time
	// History is the append-only sequence of past ratings, oldest first.
	History []int
}

// NewReviewItem returns the state for a first encounter: EF 2.5,
// interval 1 day, due tomorrow.
func NewReviewItem(contentID uint, now time.Time) ReviewItem {
	return ReviewItem{
		ContentID:    contentID,
		EaseFactor:   InitialEaseFactor,
		IntervalDays: 1,
		DueDate:      now.AddDate(0, 0, 1),
	}
}

// Review applies one completed review with the given 0-5 rating and
// returns the updated item.
//
// Ratings below 3 regress the item to first-review spacing regardless of
// prior history; otherwise the interval grows 1, 6, round(interval*EF').
// The ease factor never drops below 1.3 and the interval never below one
// day.
func Review(item ReviewItem, rating int, now time.Time) (ReviewItem, error) {
	if rating < MinRating || rating > MaxRating {
		return item, ErrRatingOutOfRange
	}

	q := float64(rating)
	ef := item.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ef < MinEaseFactor {
		ef = MinEaseFactor
	}
	item.EaseFactor = ef

	if rating < passThreshold {
		// 遗忘分支：回到首轮间隔。
		item.RepetitionCount = 0
		item.IntervalDays = 1
	} else {
		switch item.RepetitionCount {
		case 0:
			item.IntervalDays = 1
		case 1:
			item.IntervalDays = 6
		default:
			item.IntervalDays = int(math.Round(float64(item.IntervalDays) * ef))
		}
		if item.IntervalDays < 1 {
			item.IntervalDays = 1
		}
		item.RepetitionCount++
	}

	item.DueDate = now.AddDate(0, 0, item.IntervalDays)
	item.History = append(append([]int(nil), item.History...), rating)
	return item, nil
}

// DueItems returns the items whose due date has arrived as of the given
// time, earliest first. The input is not modified, so the query can be
// repeated at any time.
func DueItems(items []ReviewItem, asOf time.Time) []ReviewItem {
	var due []ReviewItem
	for _, item := range items {
		if !item.DueDate.After(asOf) {
			due = append(due, item)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].DueDate.Before(due[j].DueDate)
	})
	return due
}
