package engine

// 非对称学习率：向上收敛快于向下衰减，单次发挥失常不会过度惩罚。
const (
	proficiencyGainRate  = 0.2
	proficiencyDecayRate = 0.1
)

// UpdateProficiency returns the new 0-100 proficiency level after a scored
// session. Improvement moves the level 20% of the gap toward the score,
// decline only 10%. An equal score is a fixed point.
//
// The caller must pass a score already clamped to [0,100]; session
// percentages produced by ScoreSession always satisfy this.
func UpdateProficiency(current, score float64) float64 {
	switch {
	case score > current:
		next := current + (score-current)*proficiencyGainRate
		if next > 100 {
			next = 100
		}
		return next
	case score < current:
		next := current - (current-score)*proficiencyDecayRate
		if next < 0 {
			next = 0
		}
		return next
	default:
		return current
	}
}
