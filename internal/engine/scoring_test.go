package engine

import "testing"

func TestScoreSession(t *testing.T) {
	q1 := MultipleChoice{QuestionID: 1, PointValue: 3, CorrectIndex: 2}
	q2 := TrueFalse{QuestionID: 2, PointValue: 2, CorrectValue: "true"}

	responses := []GradedResponse{
		GradeResponse(q1, "2", 20),
		GradeResponse(q2, "false", 10),
	}

	score := ScoreSession(responses)

	if score.TotalPoints != 5 {
		t.Errorf("TotalPoints = %d, want 5", score.TotalPoints)
	}
	if score.EarnedPoints != 3 {
		t.Errorf("EarnedPoints = %d, want 3", score.EarnedPoints)
	}
	if score.Percentage != 60.0 {
		t.Errorf("Percentage = %.2f, want 60.00", score.Percentage)
	}
}

func TestScoreSessionEmpty(t *testing.T) {
	score := ScoreSession(nil)

	if score.TotalPoints != 0 || score.EarnedPoints != 0 {
		t.Errorf("empty session should have zero points, got %+v", score)
	}
	if score.Percentage != 0 {
		t.Errorf("empty session Percentage = %.2f, want 0", score.Percentage)
	}
}

func TestScoreSessionRounding(t *testing.T) {
	// 1/3 正确 → 33.33，保留两位小数。
	qs := []Question{
		MultipleChoice{QuestionID: 1, PointValue: 1, CorrectIndex: 0},
		MultipleChoice{QuestionID: 2, PointValue: 1, CorrectIndex: 0},
		MultipleChoice{QuestionID: 3, PointValue: 1, CorrectIndex: 0},
	}
	responses := []GradedResponse{
		GradeResponse(qs[0], "0", 0),
		GradeResponse(qs[1], "1", 0),
		GradeResponse(qs[2], "1", 0),
	}

	score := ScoreSession(responses)
	if score.Percentage != 33.33 {
		t.Errorf("Percentage = %v, want 33.33", score.Percentage)
	}
}

func TestGradeResponseEndToEnd(t *testing.T) {
	q := MultipleChoice{QuestionID: 7, PointValue: 4, CorrectIndex: 2}

	graded := GradeResponse(q, "2", 15)

	if !graded.Correct {
		t.Error("expected submitted \"2\" to be correct for index 2")
	}
	if graded.PointsEarned != 4 {
		t.Errorf("PointsEarned = %d, want 4", graded.PointsEarned)
	}
	if graded.TimeTakenSec != 15 {
		t.Errorf("TimeTakenSec = %d, want 15", graded.TimeTakenSec)
	}
}

func TestScorePercentageBounds(t *testing.T) {
	q := TrueFalse{QuestionID: 1, PointValue: 10, CorrectValue: "true"}

	allCorrect := ScoreSession([]GradedResponse{GradeResponse(q, "true", 0)})
	if allCorrect.Percentage != 100.0 {
		t.Errorf("all-correct Percentage = %.2f, want 100", allCorrect.Percentage)
	}

	allWrong := ScoreSession([]GradedResponse{GradeResponse(q, "false", 0)})
	if allWrong.Percentage != 0.0 {
		t.Errorf("all-wrong Percentage = %.2f, want 0", allWrong.Percentage)
	}
}
