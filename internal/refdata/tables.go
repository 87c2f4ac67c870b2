package refdata

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// MathTrack is the math elective a formula may require
type MathTrack string

const (
	MathTrackNone         MathTrack = ""
	MathTrackCalcGeometry MathTrack = "calc-geometry"
	MathTrackProbability  MathTrack = "probability"
)

// RequiredSubjects describes a formula's eligibility gate
type RequiredSubjects struct {
	MathTrack  MathTrack `json:"math_track"`
	ScienceTwo bool      `json:"science_two"` // 과탐 2과목 필수
	SocietyTwo bool      `json:"society_two"` // 사탐 2과목 필수
}

// FormulaFamily selects which conversion calculator applies
type FormulaFamily string

const (
	FamilyRequired FormulaFamily = "required" // 필수 계산기: 고정 과목 합산
	FamilySelect   FormulaFamily = "select"   // 선택 계산기: 상위 과목 선택 합산
	FamilyWeighted FormulaFamily = "weighted" // 가중택 계산기: 상위 과목 가중 합산
)

// InstitutionCondition drives conversion for one formula-name (환산식)
// 조건표 JSON의 한 항목이며 로드 후에는 불변
type InstitutionCondition struct {
	FormulaName   string           `json:"-"`
	Family        FormulaFamily    `json:"family"`
	FormulaCode   int              `json:"formula_code"`
	ElectiveCount int              `json:"elective_count"` // 탐구 반영 과목 수
	BaseScore     float64          `json:"base_score"`     // 기본점수
	Required      RequiredSubjects `json:"required"`
}

// ConditionTable maps 환산식 이름 → 조건
type ConditionTable map[string]InstitutionCondition

// ScoreTable maps subject → lookup key → 환산식 이름 → 환산 sub-score
// 영어/한국사는 등급(1~9)이 키, 그 외 과목은 표준점수가 키
type ScoreTable map[string]map[string]map[string]float64

// SubScore returns a subject's converted sub-score for one formula
func (t ScoreTable) SubScore(subject, key, formulaName string) (float64, bool) {
	bySubject, ok := t[subject]
	if !ok {
		return 0, false
	}
	byKey, ok := bySubject[key]
	if !ok {
		return 0, false
	}
	score, ok := byKey[formulaName]
	return score, ok
}

// CumulativeEntry is one (composite, percentile) row of the 누백 table
type CumulativeEntry struct {
	KeyScaled  int
	Score      float64
	Percentile float64
}

// CumulativeTable maps composite scores to population percentiles.
// Entries are sorted by descending composite; built once at load time.
type CumulativeTable struct {
	entries []CumulativeEntry
}

// NewCumulativeTable builds a table from external "420.00" → percentile rows
func NewCumulativeTable(raw map[string]string) (*CumulativeTable, error) {
	entries := make([]CumulativeEntry, 0, len(raw))
	for key, val := range raw {
		scaled, err := ParseKey(key)
		if err != nil {
			return nil, err
		}
		p, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid percentile %q at key %q: %w", val, key, err)
		}
		entries = append(entries, CumulativeEntry{
			KeyScaled:  scaled,
			Score:      float64(scaled) / 100,
			Percentile: p,
		})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("cumulative-percentile table is empty")
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].KeyScaled > entries[j].KeyScaled
	})
	return &CumulativeTable{entries: entries}, nil
}

// Floor returns the highest entry whose composite is <= the given key
func (t *CumulativeTable) Floor(scaled int) (CumulativeEntry, bool) {
	// entries는 내림차순: 조건을 만족하는 첫 인덱스를 이진 탐색
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].KeyScaled <= scaled
	})
	if i == len(t.entries) {
		return CumulativeEntry{}, false
	}
	return t.entries[i], true
}

// Min returns the lowest tabulated entry (extrapolation anchor)
func (t *CumulativeTable) Min() CumulativeEntry {
	return t.entries[len(t.entries)-1]
}

// Len returns the number of tabulated entries
func (t *CumulativeTable) Len() int {
	return len(t.entries)
}

// AdvantageRow is one composite row of the 유불리 table
type AdvantageRow struct {
	KeyScaled int
	Optimal   map[string]float64 // 환산식 이름 → 동점수 최적 환산점수
}

// AdvantageTable maps composite scores to per-formula optimal converted
// scores. Rows are sorted by descending composite.
type AdvantageTable struct {
	rows []AdvantageRow
}

type advantageRowJSON struct {
	Composite json.Number        `json:"composite"`
	Optimal   map[string]float64 `json:"optimal"`
}

// NewAdvantageTable builds the table from its external row form
func NewAdvantageTable(raw []byte) (*AdvantageTable, error) {
	var parsed []advantageRowJSON
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse advantage table: %w", err)
	}
	rows := make([]AdvantageRow, 0, len(parsed))
	for _, row := range parsed {
		f, err := row.Composite.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid composite %q: %w", row.Composite, err)
		}
		rows = append(rows, AdvantageRow{KeyScaled: ScaleKey(f), Optimal: row.Optimal})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].KeyScaled > rows[j].KeyScaled
	})
	return &AdvantageTable{rows: rows}, nil
}

// Floor returns the highest row whose composite is <= the given key
func (t *AdvantageTable) Floor(scaled int) (AdvantageRow, bool) {
	i := sort.Search(len(t.rows), func(i int) bool {
		return t.rows[i].KeyScaled <= scaled
	})
	if i == len(t.rows) {
		return AdvantageRow{}, false
	}
	return t.rows[i], true
}

// Len returns the number of rows
func (t *AdvantageTable) Len() int {
	return len(t.rows)
}

// Snapshot is one immutable, fully-loaded set of reference tables.
// Engines hold a snapshot for the duration of a request; reload swaps
// the store's pointer and never mutates a published snapshot.
type Snapshot struct {
	Scores     ScoreTable
	Conditions ConditionTable
	Cumulative *CumulativeTable
	Advantage  *AdvantageTable
}
