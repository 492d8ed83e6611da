package engine

import "math"

// DefaultStdDev 同伴分数分布的默认标准差。
const DefaultStdDev = 15.0

// Percentile estimates the rank of a score within a peer cohort whose
// scores are assumed normally distributed around peerMean, as a 0-100
// value rounded to one decimal.
//
// stdDev must be positive; callers that have no better estimate should
// pass DefaultStdDev.
func Percentile(score, peerMean, stdDev float64) float64 {
	z := (score - peerMean) / stdDev
	return math.Round(normalCDF(z)*1000) / 10
}

// normalCDF 标准正态分布累积函数的 Zelen & Severo 多项式近似。
// 该近似仅对正自变量精确，负值按对称性换算。
func normalCDF(x float64) float64 {
	const (
		b1 = 0.319381530
		b2 = -0.356563782
		b3 = 1.781477937
		b4 = -1.821255978
		b5 = 1.330274429
		p  = 0.2316419
		c  = 0.39894228
	)

	if x >= 0 {
		t := 1.0 / (1.0 + p*x)
		return 1.0 - c*math.Exp(-x*x/2.0)*t*
			(t*(t*(t*(t*b5+b4)+b3)+b2)+b1)
	}

	t := 1.0 / (1.0 - p*x)
	return c * math.Exp(-x*x/2.0) * t *
		(t*(t*(t*(t*b5+b4)+b3)+b2) + b1)
}
