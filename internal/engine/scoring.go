package engine

import "math"

// GradedResponse 单题评分结果。
type GradedResponse struct {
	QuestionID     uint
	Correct        bool
	PointsEarned   int
	PointsPossible int
	TimeTakenSec   int
}

// GradeResponse evaluates one submitted raw answer against its question.
func GradeResponse(q Question, raw interface{}, timeTakenSec int) GradedResponse {
	correct := q.Grade(ParseAnswer(q, raw))
	earned := 0
	if correct {
		earned = q.Points()
	}
	return GradedResponse{
		QuestionID:     q.ID(),
		Correct:        correct,
		PointsEarned:   earned,
		PointsPossible: q.Points(),
		TimeTakenSec:   timeTakenSec,
	}
}

// SessionScore 一次练习会话的聚合得分。
type SessionScore struct {
	TotalPoints  int
	EarnedPoints int
	// Percentage is earned/total*100 rounded to two decimals, 0 when the
	// session had no gradable responses.
	Percentage float64
}

// ScoreSession sums the graded responses of one session.
func ScoreSession(responses []GradedResponse) SessionScore {
	var score SessionScore
	for _, r := range responses {
		score.TotalPoints += r.PointsPossible
		score.EarnedPoints += r.PointsEarned
	}
	if score.TotalPoints > 0 {
		score.Percentage = round2(float64(score.EarnedPoints) / float64(score.TotalPoints) * 100)
	}
	return score
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
