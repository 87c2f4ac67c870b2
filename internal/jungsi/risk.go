package jungsi

import (
	"math"

	"github.com/wonny/jungsi/backend/internal/contracts"
)

// ClassifyRisk locates a converted score among a recruitment unit's ten
// cutoff bands and returns the bounded risk code (+5 안정 ~ -5 위험).
//
// 스캔은 유리한 밴드부터 진행하고, 경계값과 같으면 유리한 쪽 밴드에
// 포함한다 (score >= threshold). 모든 기준점보다 낮으면 -5.
// 기준점이 하나도 없으면 nil (위험도 산출 불가).
func ClassifyRisk(score float64, bands contracts.RiskBands) *int {
	if !bands.HasAny() {
		return nil
	}

	thresholds := []struct {
		level     int
		threshold *float64
	}{
		{5, bands.Plus5},
		{4, bands.Plus4},
		{3, bands.Plus3},
		{2, bands.Plus2},
		{1, bands.Plus1},
		{-1, bands.Minus1},
		{-2, bands.Minus2},
		{-3, bands.Minus3},
		{-4, bands.Minus4},
		{-5, bands.Minus5},
	}

	for _, t := range thresholds {
		if t.threshold != nil && score >= *t.threshold {
			level := t.level
			return &level
		}
	}

	lowest := -5
	return &lowest
}

// GradeDiffScore bounds (시험 평균등급 - 입결컷), scaled.
// 내신 등급은 낮을수록 좋으므로 평균이 컷보다 낮으면 양수가 나온다.
// cut50이 있으면 cut50, 없으면 cut70을 사용하고 둘 다 없으면 nil.
// 결과는 [-15, +10]으로 제한한다.
func GradeDiffScore(avgGrade float64, cut50, cut70 *float64) *int {
	cut := cut50
	if cut == nil {
		cut = cut70
	}
	if cut == nil {
		return nil
	}

	score := int(math.Round(-(avgGrade - *cut) * 5))
	if score > 10 {
		score = 10
	}
	if score < -15 {
		score = -15
	}
	return &score
}
