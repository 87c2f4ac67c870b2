package jungsi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvantage(t *testing.T) {
	snap := newSnapshotFixture(t)

	// 표점합 430 → 유불리 행 420.00, 최적 470.0
	result := Advantage(snap, fixtureFormulaAll, 430, 450)
	assert.Equal(t, 470.0, result.OptimalScore)
	assert.Equal(t, 20.0, result.Delta) // 양수 = 과목 조합이 불리
	require.NotNil(t, result.DeltaPercentile)

	// 최적이 내 점수보다 높으므로 누백 차이는 0 이상
	assert.GreaterOrEqual(t, *result.DeltaPercentile, 0.0)
}

func TestAdvantageFavorableCombination(t *testing.T) {
	snap := newSnapshotFixture(t)

	result := Advantage(snap, fixtureFormulaAll, 430, 480)
	assert.Equal(t, -10.0, result.Delta) // 음수 = 유리
}

func TestAdvantageAtOrBelowScan(t *testing.T) {
	snap := newSnapshotFixture(t)

	// 두 행 사이의 표점합은 아래 행(286.55)으로 떨어짐
	result := Advantage(snap, fixtureFormulaAll, 400, 350)
	assert.Equal(t, 380.0, result.OptimalScore)
}

func TestAdvantageMissingData(t *testing.T) {
	snap := newSnapshotFixture(t)

	// 테이블 아래로 벗어나면 zero-value
	result := Advantage(snap, fixtureFormulaAll, 100, 300)
	assert.Zero(t, result.OptimalScore)
	assert.Nil(t, result.DeltaPercentile)

	// 해당 환산식 컬럼이 없어도 zero-value
	result = Advantage(snap, fixtureFormulaMedSci, 300, 500)
	assert.Zero(t, result.OptimalScore)
	assert.Nil(t, result.DeltaPercentile)
}
