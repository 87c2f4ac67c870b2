package contracts

import "time"

// RiskBands holds the ten historical cutoff thresholds for a recruitment unit
// risk_plus_5(가장 안정) → risk_minus_5(가장 위험) 순서로 스캔
// 값이 없는 밴드는 nil로 두고 스캔에서 건너뜀
type RiskBands struct {
	Plus5  *float64 `json:"risk_plus_5"`
	Plus4  *float64 `json:"risk_plus_4"`
	Plus3  *float64 `json:"risk_plus_3"`
	Plus2  *float64 `json:"risk_plus_2"`
	Plus1  *float64 `json:"risk_plus_1"`
	Minus1 *float64 `json:"risk_minus_1"`
	Minus2 *float64 `json:"risk_minus_2"`
	Minus3 *float64 `json:"risk_minus_3"`
	Minus4 *float64 `json:"risk_minus_4"`
	Minus5 *float64 `json:"risk_minus_5"`
}

// HasAny reports whether at least one threshold is present
func (b RiskBands) HasAny() bool {
	for _, t := range []*float64{
		b.Plus5, b.Plus4, b.Plus3, b.Plus2, b.Plus1,
		b.Minus1, b.Minus2, b.Minus3, b.Minus4, b.Minus5,
	} {
		if t != nil {
			return true
		}
	}
	return false
}

// RegularAdmission represents one 정시 recruitment unit
// ⭐ SSOT: 모집단위 데이터는 jungsi.Repository에서만 조회
type RegularAdmission struct {
	ID              int64     `json:"id"`
	UniversityID    int64     `json:"university_id"`
	UniversityName  string    `json:"university_name"`
	RecruitmentName string    `json:"recruitment_name"`
	AdmissionType   string    `json:"admission_type"`
	AdmissionName   string    `json:"admission_name"`
	FormulaName     string    `json:"formula_name"` // 환산식 이름 (점수표/유불리 컬럼 키)
	FormulaCode     string    `json:"formula_code"`
	GeneralField    string    `json:"general_field"`
	MinCut          *float64  `json:"min_cut"`
	MaxCut          *float64  `json:"max_cut"`
	Risk            RiskBands `json:"risk"`
}

// CompetitionRate is one scraped competition-rate row for a recruitment unit
type CompetitionRate struct {
	UniversityCode  string    `json:"university_code"`
	UniversityName  string    `json:"university_name"`
	AdmissionType   string    `json:"admission_type"` // 전형명
	College         string    `json:"college,omitempty"`
	RecruitmentName string    `json:"recruitment_name"`
	Quota           int       `json:"quota"`
	Applicants      int       `json:"applicants"`
	Rate            float64   `json:"rate"`
	FetchedAt       time.Time `json:"fetched_at"`
}
