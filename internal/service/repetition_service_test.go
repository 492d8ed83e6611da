package service

import (
	"cybertrain_backend/internal/model"
	"math"
	"testing"
)

func retentionItem(t *testing.T, history string, repetitionCount int) *model.RepetitionItem {
	t.Helper()
	return &model.RepetitionItem{
		SkillID:            7,
		RepetitionCount:    repetitionCount,
		PerformanceHistory: []byte(history),
		Skill:              model.Skill{Name: "Phishing Detection"},
	}
}

func TestSkillRetentionBlend(t *testing.T) {
	tests := []struct {
		name            string
		history         string
		repetitionCount int
		want            float64
	}{
		{
			// 无历史：三个分量都是0
			name:    "no history",
			history: "[]",
			want:    0,
		},
		{
			// 满分评分但只复习一次：0.4*100 + 0.3*10 + 0.3*10
			name:            "single perfect review",
			history:         "[5]",
			repetitionCount: 1,
			want:            46,
		},
		{
			// 10次满分：全部分量饱和
			name:            "saturated perfect record",
			history:         "[5,5,5,5,5,5,5,5,5,5]",
			repetitionCount: 10,
			want:            100,
		},
		{
			// 平均评分4，5条历史，连续3轮：0.4*80 + 0.3*50 + 0.3*30
			name:            "mixed record",
			history:         "[5,4,3,4,4]",
			repetitionCount: 3,
			want:            56,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := skillRetention(retentionItem(t, tt.history, tt.repetitionCount))
			if math.Abs(got.Proficiency-tt.want) > 0.001 {
				t.Errorf("Proficiency = %v, want %v", got.Proficiency, tt.want)
			}
		})
	}
}

func TestSkillRetentionMetadata(t *testing.T) {
	got := skillRetention(retentionItem(t, "[2,5,4]", 2))

	if got.SkillID != 7 {
		t.Errorf("SkillID = %d, want 7", got.SkillID)
	}
	if got.SkillName != "Phishing Detection" {
		t.Errorf("SkillName = %q", got.SkillName)
	}
	if got.RepetitionCount != 3 {
		t.Errorf("RepetitionCount = %d, want 3 (history length)", got.RepetitionCount)
	}
	if got.HighestRepetition != 2 {
		t.Errorf("HighestRepetition = %d, want 2", got.HighestRepetition)
	}
	if math.Abs(got.AverageRating-3.67) > 0.001 {
		t.Errorf("AverageRating = %v, want 3.67", got.AverageRating)
	}
}

func TestSaturate(t *testing.T) {
	tests := []struct {
		value int
		limit int
		want  float64
	}{
		{0, 10, 0},
		{5, 10, 0.5},
		{10, 10, 1},
		{25, 10, 1},
	}
	for _, tt := range tests {
		if got := saturate(tt.value, tt.limit); got != tt.want {
			t.Errorf("saturate(%d, %d) = %v, want %v", tt.value, tt.limit, got, tt.want)
		}
	}
}
