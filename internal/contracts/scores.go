package contracts

import "time"

// SubjectCategory classifies a scored exam subject
// ⭐ SSOT: 과목 카테고리 정의는 여기서만
type SubjectCategory string

const (
	CategoryKorean          SubjectCategory = "korean"
	CategoryMath            SubjectCategory = "math"
	CategoryEnglish         SubjectCategory = "english"
	CategoryHistory         SubjectCategory = "history"
	CategorySociety         SubjectCategory = "society"
	CategoryScience         SubjectCategory = "science"
	CategoryForeignLanguage SubjectCategory = "foreign-language"
)

// IsElective reports whether the category counts toward the 탐구 top-2 sum
func (c SubjectCategory) IsElective() bool {
	return c == CategorySociety || c == CategoryScience
}

// SubjectScore represents one subject result from a mock exam
// 영어/한국사는 등급만 유효, 그 외 과목은 표준점수/백분위 사용
type SubjectScore struct {
	SubjectCode   string          `json:"subject_code"`
	SubjectName   string          `json:"subject_name"`
	Category      SubjectCategory `json:"category"`
	RawScore      float64         `json:"raw_score,omitempty"`
	StandardScore int             `json:"standard_score"`
	Grade         int             `json:"grade"`
	Percentile    float64         `json:"percentile"`
}

// ConvertedScoreResult is the outcome of one (student, recruitment) conversion
// 자격 미달은 에러가 아니라 Success=false + FailureReason으로 표현
type ConvertedScoreResult struct {
	RegularAdmissionID int64  `json:"regular_admission_id"`
	UniversityID       int64  `json:"university_id"`
	UniversityName     string `json:"university_name"`
	RecruitmentName    string `json:"recruitment_name"`
	AdmissionType      string `json:"admission_type"`
	AdmissionName      string `json:"admission_name"`
	FormulaName        string `json:"formula_name"`
	FormulaCode        string `json:"formula_code"`
	Major              string `json:"major"`

	Success       bool   `json:"success"`
	FailureReason string `json:"failure_reason,omitempty"`

	ConvertedScore       float64  `json:"converted_score,omitempty"`
	CompositeScore       float64  `json:"composite_score,omitempty"`
	PopulationPercentile *float64 `json:"population_percentile,omitempty"`
	OptimalScore         float64  `json:"optimal_score,omitempty"`
	AdvantageScore       float64  `json:"advantage_score,omitempty"`
	AdvantagePercentile  *float64 `json:"advantage_percentile,omitempty"`
	MinCut               *float64 `json:"min_cut,omitempty"`
	MaxCut               *float64 `json:"max_cut,omitempty"`
	RiskScore            *int     `json:"risk_score,omitempty"`

	CalculatedAt time.Time `json:"calculated_at"`
}

// CalculateResponse summarizes one batch calculation for a member
type CalculateResponse struct {
	MemberID          int64                  `json:"member_id"`
	CalculatedAt      time.Time              `json:"calculated_at"`
	TotalRecruitments int                    `json:"total_recruitments"`
	SuccessCount      int                    `json:"success_count"`
	FailedCount       int                    `json:"failed_count"`
	Scores            []ConvertedScoreResult `json:"scores"`
}
