package service

import (
	"cybertrain_backend/internal/engine"
	"cybertrain_backend/internal/model"
	"cybertrain_backend/internal/util"
	"errors"
	"testing"
	"time"
)

func startedSession() (*model.PracticeSession, []model.PracticeQuestion) {
	session := &model.PracticeSession{
		BaseModel: model.BaseModel{ID: 1},
		UserID:    7,
		SkillID:   3,
		Status:    model.PracticeStarted,
	}
	questions := []model.PracticeQuestion{
		{BaseModel: model.BaseModel{ID: 11}, SessionID: 1, Type: model.TrueFalse, CorrectAnswer: "true", Points: 1},
		{BaseModel: model.BaseModel{ID: 12}, SessionID: 1, Type: model.TrueFalse, CorrectAnswer: "false", Points: 1},
	}
	return session, questions
}

func TestSettleSessionRejectsCompletedSession(t *testing.T) {
	session, questions := startedSession()
	session.Status = model.PracticeCompleted

	_, err := settleSession(session, session.UserID, questions, []AnswerInput{
		{QuestionID: 11, Answer: "true"},
	})
	if !errors.Is(err, util.ErrSessionAlreadyCompleted) {
		t.Fatalf("expected ErrSessionAlreadyCompleted, got %v", err)
	}
}

func TestSettleSessionRejectsForeignUser(t *testing.T) {
	session, questions := startedSession()

	_, err := settleSession(session, session.UserID+1, questions, nil)
	if !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestSettleSessionSkipsUnknownQuestionIDs(t *testing.T) {
	session, questions := startedSession()

	st, err := settleSession(session, session.UserID, questions, []AnswerInput{
		{QuestionID: 11, Answer: "true"},
		{QuestionID: 999, Answer: "true"}, // 不属于本会话，跳过
	})
	if err != nil {
		t.Fatalf("settleSession returned error: %v", err)
	}

	if len(st.Responses) != len(questions) {
		t.Fatalf("expected %d responses, got %d", len(questions), len(st.Responses))
	}
	for _, r := range st.Responses {
		if r.QuestionID == 999 {
			t.Error("response recorded for question outside the session")
		}
	}

	// 题目11答对得1分，题目12未作答按0分计入总分
	if st.Score.TotalPoints != 2 || st.Score.EarnedPoints != 1 {
		t.Errorf("score = %d/%d, want 1/2", st.Score.EarnedPoints, st.Score.TotalPoints)
	}
	if st.Score.Percentage != 50 {
		t.Errorf("percentage = %v, want 50", st.Score.Percentage)
	}
}

func TestSettleSessionGradesUnansweredAsZero(t *testing.T) {
	session, questions := startedSession()

	st, err := settleSession(session, session.UserID, questions, nil)
	if err != nil {
		t.Fatalf("settleSession returned error: %v", err)
	}
	if st.Score.TotalPoints != 2 || st.Score.EarnedPoints != 0 {
		t.Errorf("score = %d/%d, want 0/2", st.Score.EarnedPoints, st.Score.TotalPoints)
	}
	for _, r := range st.Responses {
		if r.IsCorrect || r.PointsEarned != 0 {
			t.Errorf("unanswered question %d graded as correct", r.QuestionID)
		}
	}
}

func TestAdvanceSkillIncrementsPracticeCount(t *testing.T) {
	now := time.Now()
	record := &model.UserSkill{UserID: 7, SkillID: 3, ProficiencyLevel: 50, PracticeCount: 3}

	advanceSkill(record, 80, now)

	if record.PracticeCount != 4 {
		t.Errorf("practice count = %d, want 4", record.PracticeCount)
	}
	if want := engine.UpdateProficiency(50, 80); record.ProficiencyLevel != want {
		t.Errorf("proficiency = %v, want %v", record.ProficiencyLevel, want)
	}
	if record.LastPracticedAt == nil || !record.LastPracticedAt.Equal(now) {
		t.Errorf("last practiced at = %v, want %v", record.LastPracticedAt, now)
	}
}

func TestFallbackQuestionsCountAndSequence(t *testing.T) {
	skill := &model.Skill{Name: "Password Management"}

	questions := fallbackQuestions(skill, 3, 5)
	if len(questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(questions))
	}
	for i, q := range questions {
		if q.Sequence != i+1 {
			t.Errorf("question %d has sequence %d, want %d", i, q.Sequence, i+1)
		}
		if q.Content == "" || q.CorrectAnswer == "" {
			t.Errorf("question %d has empty content or answer", i)
		}
	}
}

func TestFallbackQuestionsDifficultyRaisesPoints(t *testing.T) {
	skill := &model.Skill{Name: "Network Security"}

	easy := fallbackQuestions(skill, 2, 3)
	hard := fallbackQuestions(skill, 5, 3)

	for i := range easy {
		if hard[i].Points != easy[i].Points+1 {
			t.Errorf("question %d: hard points = %d, easy points = %d, want +1", i, hard[i].Points, easy[i].Points)
		}
	}
}

func TestFallbackQuestionsGradeable(t *testing.T) {
	skill := &model.Skill{Name: "Data Protection"}

	for _, q := range fallbackQuestions(skill, 3, 3) {
		eq := q.Engine()
		if eq.Points() != q.Points {
			t.Errorf("engine points = %d, want %d", eq.Points(), q.Points)
		}
		// 模板题必须解码成可判分的题型，不能落入不支持分支
		if _, unsupported := eq.(engine.Unsupported); unsupported {
			t.Errorf("template question of type %s decoded as unsupported", q.Type)
		}
	}
}
