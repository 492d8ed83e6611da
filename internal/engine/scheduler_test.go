package engine

import (
	"math"
	"testing"
	"time"
)

var reviewNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestReviewIntervalSequence(t *testing.T) {
	// 评分 4 时 EF 增量恰好为 0，EF 恒为 2.5，间隔序列应为 1, 6, 15, 38。
	item := NewReviewItem(42, reviewNow)
	item.DueDate = reviewNow

	want := []int{1, 6, 15, 38}
	now := reviewNow

	for i, expected := range want {
		var err error
		item, err = Review(item, 4, now)
		if err != nil {
			t.Fatalf("review %d: unexpected error: %v", i, err)
		}
		if item.IntervalDays != expected {
			t.Errorf("review %d: interval = %d, want %d", i, item.IntervalDays, expected)
		}
		if item.RepetitionCount != i+1 {
			t.Errorf("review %d: repetition count = %d, want %d", i, item.RepetitionCount, i+1)
		}
		if math.Abs(item.EaseFactor-2.5) > 1e-9 {
			t.Errorf("review %d: ease factor = %v, want 2.5", i, item.EaseFactor)
		}
		wantDue := now.AddDate(0, 0, expected)
		if !item.DueDate.Equal(wantDue) {
			t.Errorf("review %d: due date = %v, want %v", i, item.DueDate, wantDue)
		}
		now = wantDue
	}
}

func TestReviewPoorRecallResets(t *testing.T) {
	item := NewReviewItem(7, reviewNow)
	now := reviewNow

	// 先积累几轮成功复习。
	for i := 0; i < 4; i++ {
		var err error
		item, err = Review(item, 5, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		now = item.DueDate
	}
	if item.RepetitionCount != 4 {
		t.Fatalf("setup failed, repetition count = %d", item.RepetitionCount)
	}

	for rating := 0; rating < 3; rating++ {
		reset, err := Review(item, rating, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reset.RepetitionCount != 0 {
			t.Errorf("rating %d: repetition count = %d, want 0", rating, reset.RepetitionCount)
		}
		if reset.IntervalDays != 1 {
			t.Errorf("rating %d: interval = %d, want 1", rating, reset.IntervalDays)
		}
		if !reset.DueDate.Equal(now.AddDate(0, 0, 1)) {
			t.Errorf("rating %d: due date = %v, want next day", rating, reset.DueDate)
		}
	}
}

func TestReviewEaseFactorFloor(t *testing.T) {
	item := NewReviewItem(3, reviewNow)

	// 连续完全遗忘，EF 每次 -0.8，但不得低于 1.3。
	for i := 0; i < 5; i++ {
		var err error
		item, err = Review(item, 0, reviewNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.EaseFactor < MinEaseFactor {
			t.Fatalf("review %d: ease factor %v below floor", i, item.EaseFactor)
		}
	}
	if math.Abs(item.EaseFactor-MinEaseFactor) > 1e-9 {
		t.Errorf("ease factor = %v, want floor %v", item.EaseFactor, MinEaseFactor)
	}
}

func TestReviewAppendsHistory(t *testing.T) {
	item := NewReviewItem(9, reviewNow)

	ratings := []int{5, 4, 2, 3}
	for _, r := range ratings {
		var err error
		item, err = Review(item, r, reviewNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(item.History) != len(ratings) {
		t.Fatalf("history length = %d, want %d", len(item.History), len(ratings))
	}
	for i, r := range ratings {
		if item.History[i] != r {
			t.Errorf("history[%d] = %d, want %d", i, item.History[i], r)
		}
	}
}

func TestReviewRejectsOutOfRangeRating(t *testing.T) {
	item := NewReviewItem(1, reviewNow)

	for _, rating := range []int{-1, 6, 100} {
		updated, err := Review(item, rating, reviewNow)
		if err != ErrRatingOutOfRange {
			t.Errorf("rating %d: err = %v, want ErrRatingOutOfRange", rating, err)
		}
		if updated.RepetitionCount != item.RepetitionCount || updated.EaseFactor != item.EaseFactor {
			t.Errorf("rating %d: item must be unchanged on error", rating)
		}
	}
}

func TestDueItems(t *testing.T) {
	items := []ReviewItem{
		{ContentID: 1, DueDate: reviewNow.AddDate(0, 0, 3)},
		{ContentID: 2, DueDate: reviewNow.AddDate(0, 0, -2)},
		{ContentID: 3, DueDate: reviewNow},
		{ContentID: 4, DueDate: reviewNow.AddDate(0, 0, -5)},
	}

	due := DueItems(items, reviewNow)

	wantOrder := []uint{4, 2, 3}
	if len(due) != len(wantOrder) {
		t.Fatalf("got %d due items, want %d", len(due), len(wantOrder))
	}
	for i, id := range wantOrder {
		if due[i].ContentID != id {
			t.Errorf("due[%d].ContentID = %d, want %d", i, due[i].ContentID, id)
		}
	}

	// 重复查询结果一致，原切片不被修改。
	again := DueItems(items, reviewNow)
	if len(again) != len(due) {
		t.Errorf("repeated query returned %d items, want %d", len(again), len(due))
	}
	if items[0].ContentID != 1 || items[3].ContentID != 4 {
		t.Error("input slice order must not change")
	}
}
