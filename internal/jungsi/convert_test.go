package jungsi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/jungsi/backend/internal/contracts"
	"github.com/wonny/jungsi/backend/internal/refdata"
)

// 환산식 이름은 점수표/조건표/유불리의 공통 컬럼 키
const (
	fixtureFormulaAll    = "한빛전형" // required family, 전 과목 합산
	fixtureFormulaMedSci = "한빛의학" // 미적/기하 + 과탐2 필수, 과탐 보너스
)

func newSnapshotFixture(t *testing.T) *refdata.Snapshot {
	t.Helper()

	both := func(v float64) map[string]float64 {
		return map[string]float64{fixtureFormulaAll: v, fixtureFormulaMedSci: v}
	}

	scores := refdata.ScoreTable{
		"국어": {
			"131": both(131),
			"120": both(120),
		},
		"수학(미적)": {
			"135": both(135),
		},
		"수학(확통)": {
			"135": both(135),
		},
		"영어": {
			"1": both(100),
			"2": both(95),
		},
		"한국사": {
			"1": both(10),
			"2": both(10),
		},
		"물리학 Ⅰ": {
			"68": both(68),
		},
		"지구과학 Ⅰ": {
			"65": both(65),
		},
		"사회·문화": {
			"62": both(62),
		},
	}

	conditions := refdata.ConditionTable{
		fixtureFormulaAll: {
			FormulaName:   fixtureFormulaAll,
			Family:        refdata.FamilyRequired,
			FormulaCode:   1,
			ElectiveCount: 2,
			BaseScore:     0,
		},
		fixtureFormulaMedSci: {
			FormulaName:   fixtureFormulaMedSci,
			Family:        refdata.FamilyRequired,
			FormulaCode:   51, // 전 과목 합산 + 과탐2 선택 시 탐구합 5% 가산
			ElectiveCount: 2,
			BaseScore:     100,
			Required: refdata.RequiredSubjects{
				MathTrack:  refdata.MathTrackCalcGeometry,
				ScienceTwo: true,
			},
		},
	}

	cumulative, err := refdata.NewCumulativeTable(map[string]string{
		"420.00": "9.0",
		"399.00": "16.0",
		"286.55": "80",
	})
	require.NoError(t, err)

	advantage, err := refdata.NewAdvantageTable([]byte(`[
		{"composite": 420.00, "optimal": {"한빛전형": 470.0, "한빛의학": 620.0}},
		{"composite": 286.55, "optimal": {"한빛전형": 380.0}}
	]`))
	require.NoError(t, err)

	return &refdata.Snapshot{
		Scores:     scores,
		Conditions: conditions,
		Cumulative: cumulative,
		Advantage:  advantage,
	}
}

func scienceStudent() []contracts.SubjectScore {
	return []contracts.SubjectScore{
		{SubjectName: "국어", Category: contracts.CategoryKorean, StandardScore: 131, Grade: 2, Percentile: 93},
		{SubjectName: "수학(미적)", Category: contracts.CategoryMath, StandardScore: 135, Grade: 1, Percentile: 97},
		{SubjectName: "영어", Category: contracts.CategoryEnglish, Grade: 1},
		{SubjectName: "한국사", Category: contracts.CategoryHistory, Grade: 1},
		{SubjectName: "물리학 Ⅰ", Category: contracts.CategoryScience, StandardScore: 68, Grade: 1, Percentile: 96},
		{SubjectName: "지구과학 Ⅰ", Category: contracts.CategoryScience, StandardScore: 65, Grade: 2, Percentile: 90},
	}
}

func TestConvertRequiredFamily(t *testing.T) {
	snap := newSnapshotFixture(t)

	conv, err := Convert(snap, scienceStudent(), fixtureFormulaAll)
	require.NoError(t, err)
	require.True(t, conv.Eligible)

	// 국 131 + 수 135 + 영 100 + 한국사 10 + 탐구 (68+65)
	assert.Equal(t, 131.0+135+100+10+68+65, conv.Converted)
	assert.Equal(t, float64(131+135+68+65), conv.Composite)
	assert.Equal(t, 16.0, conv.Percentile) // 399 ≤ 표점합 < 420
}

func TestConvertBonusAndBaseScore(t *testing.T) {
	snap := newSnapshotFixture(t)

	conv, err := Convert(snap, scienceStudent(), fixtureFormulaMedSci)
	require.NoError(t, err)
	require.True(t, conv.Eligible)

	sum := 131.0 + 135 + 100 + 10 + 68 + 65
	bonus := (68.0 + 65) * 0.05 // 과탐 2과목 가산
	assert.InDelta(t, sum+bonus+100, conv.Converted, 1e-9)
}

func TestConvertUnknownInstitution(t *testing.T) {
	snap := newSnapshotFixture(t)

	_, err := Convert(snap, scienceStudent(), "없는전형")
	assert.ErrorIs(t, err, ErrUnknownInstitution)
}

func TestConvertIneligibleMathTrack(t *testing.T) {
	snap := newSnapshotFixture(t)

	student := scienceStudent()
	student[1].SubjectName = "수학(확통)"

	conv, err := Convert(snap, student, fixtureFormulaMedSci)
	require.NoError(t, err, "자격 미달은 에러가 아니어야 함")
	assert.False(t, conv.Eligible)
	assert.Contains(t, conv.FailureReason, "math")
	assert.Zero(t, conv.Converted)
}

func TestConvertIneligibleMissingMathElective(t *testing.T) {
	snap := newSnapshotFixture(t)

	// 수학 자체가 없어도 미적/기하 필수 전형은 자격 미달 값으로 떨어짐
	student := scienceStudent()
	student = append(student[:1], student[2:]...)

	conv, err := Convert(snap, student, fixtureFormulaMedSci)
	require.NoError(t, err)
	assert.False(t, conv.Eligible)
	assert.NotEmpty(t, conv.FailureReason)
	assert.Contains(t, conv.FailureReason, "math")
}

func TestConvertIneligibleScienceCount(t *testing.T) {
	snap := newSnapshotFixture(t)

	student := scienceStudent()
	student = student[:5] // 과탐 1과목만

	conv, err := Convert(snap, student, fixtureFormulaMedSci)
	require.NoError(t, err)
	assert.False(t, conv.Eligible)
	assert.Contains(t, conv.FailureReason, "science")
}

func TestConvertEligibilityBeforeLookup(t *testing.T) {
	snap := newSnapshotFixture(t)

	// 점수표에 없는 과목이라도 자격 검증이 먼저 실행되어야 함
	student := scienceStudent()
	student[1].SubjectName = "수학(확통)"
	student[0].SubjectName = "점수표에없는과목"

	conv, err := Convert(snap, student, fixtureFormulaMedSci)
	require.NoError(t, err)
	assert.False(t, conv.Eligible)
}

func TestConvertMissingSubjectData(t *testing.T) {
	snap := newSnapshotFixture(t)

	student := scienceStudent()
	student[0].SubjectName = "점수표에없는과목"

	_, err := Convert(snap, student, fixtureFormulaAll)
	assert.ErrorIs(t, err, ErrUnknownSubject)
}

func TestSelectFormulaBestOf(t *testing.T) {
	in := formulaInputs{korean: 120, math: 130, english: 100}
	in.electives = []electiveSub{{sub: 60}, {sub: 55}}

	// code 16: 국수영탐 상위 2개 합 = 수학 130 + 국어 120
	got, err := selectFormula(16, in)
	require.NoError(t, err)
	assert.Equal(t, 250.0, got)

	// code 11: max(국어, 수학)
	got, err = selectFormula(11, in)
	require.NoError(t, err)
	assert.Equal(t, 130.0, got)
}

func TestWeightedFormulaRankWeights(t *testing.T) {
	in := formulaInputs{korean: 100, math: 90, english: 80}
	in.electives = []electiveSub{{sub: 70}}

	// code 21: 4*100 + 3.5*90 + 2.5*80
	got, err := weightedFormula(21, in)
	require.NoError(t, err)
	assert.Equal(t, 4*100.0+3.5*90+2.5*80, got)

	// code 35: max(국4+수3, 국3+수4) + 영 + 탐
	got, err = weightedFormula(35, in)
	require.NoError(t, err)
	assert.Equal(t, 100.0*4+90*3+80+70, got)
}

func TestFormulaUnknownCode(t *testing.T) {
	var in formulaInputs

	_, err := requiredFormula(999, in)
	assert.ErrorIs(t, err, ErrUnknownFormula)
	_, err = selectFormula(999, in)
	assert.ErrorIs(t, err, ErrUnknownFormula)
	_, err = weightedFormula(999, in)
	assert.ErrorIs(t, err, ErrUnknownFormula)
}
