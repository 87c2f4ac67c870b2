package jungsi

import "github.com/wonny/jungsi/backend/internal/refdata"

// AdvantageResult compares a converted score against the best conversion
// any student with the same composite could reach at that institution.
// Delta가 양수면 선택과목 조합이 불리한 쪽 (최적 대비 점수를 잃는 중)
type AdvantageResult struct {
	OptimalScore    float64
	Delta           float64
	DeltaPercentile *float64
}

// Advantage looks up the institution's optimal converted score for the
// student's composite and derives the score/percentile gap.
//
// 유불리 테이블 조회는 누백 테이블과 같은 규율을 따른다: 표점합 이하의
// 가장 가까운 행을 사용. 해당 환산식 컬럼이 없으면 zero-value 결과.
func Advantage(snap *refdata.Snapshot, formulaName string, composite, converted float64) AdvantageResult {
	row, ok := snap.Advantage.Floor(refdata.ScaleKey(composite))
	if !ok {
		return AdvantageResult{}
	}

	optimal, ok := row.Optimal[formulaName]
	if !ok {
		return AdvantageResult{}
	}

	result := AdvantageResult{
		OptimalScore: optimal,
		Delta:        optimal - converted,
	}

	// 점수 차이를 누백 차이로 번역: 최적점 기준 누백 - 내 점수 기준 누백
	myPct := Percentile(snap.Cumulative, converted)
	optPct := Percentile(snap.Cumulative, optimal)
	diff := myPct - optPct
	result.DeltaPercentile = &diff

	return result
}
