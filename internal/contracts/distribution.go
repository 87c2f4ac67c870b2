package contracts

// Pass-status labels used in mock-application pools
// 데이터 원본(입결 시트)의 한글 레이블을 그대로 사용
const (
	StatusSafePass = "안정합격"
	StatusWaitlist = "추가합격"
	StatusLikely   = "합격가능"
	StatusFail     = "불합격"
	StatusAtRisk   = "불합격위험"
)

// AdmissionInfo is the master record of one mock-application recruitment unit
type AdmissionInfo struct {
	RowID              int64   `json:"row_id"`
	UniversityCode     string  `json:"university_code"`
	UniversityName     string  `json:"university_name"`
	Group              string  `json:"group"` // 가/나/다
	RecruitmentUnit    string  `json:"recruitment_unit"`
	RecruitmentCount   int     `json:"recruitment_count"`
	CompetitionRate    float64 `json:"competition_rate"`
	AdditionalPassRank int     `json:"additional_pass_rank"`
	TotalPassCount     int     `json:"total_pass_count"`
	MockApplicantCount int     `json:"mock_applicant_count"`
}

// ApplicantRecord is one simulated/historical applicant in a recruitment pool
type ApplicantRecord struct {
	Rank       int     `json:"rank"`
	Score      float64 `json:"score"`
	PassStatus string  `json:"pass_status"`
	Note       string  `json:"note,omitempty"`
}

// DistributionStats holds descriptive statistics over an applicant pool
// 모든 값은 소수점 둘째 자리 반올림, 빈 풀이면 전부 0
type DistributionStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`

	// 합격선: 해당 상태를 가진 지원자 중 최저 점수 (없으면 nil)
	SafePassThreshold *float64 `json:"safe_pass_threshold"`
	PassThreshold     *float64 `json:"pass_threshold"`
}

// FrequencyBin is one score bucket of the pool histogram
type FrequencyBin struct {
	ScoreLower         float64 `json:"score_lower"`
	ScoreUpper         float64 `json:"score_upper"`
	ApplicantCount     int     `json:"applicant_count"`
	CumulativeCount    int     `json:"cumulative_count"`
	DominantPassStatus string  `json:"dominant_pass_status"`
}

// NormalCurvePoint is one sampled point of the fitted normal PDF
type NormalCurvePoint struct {
	X float64 `json:"x"` // 2dp
	Y float64 `json:"y"` // 5dp
}

// Placement locates a student's score inside an applicant pool
type Placement struct {
	Score           float64 `json:"score"`
	Rank            int     `json:"rank"`
	Percentile      float64 `json:"percentile"`
	PredictedStatus string  `json:"predicted_status"`
	ScoreLower      float64 `json:"score_lower"` // 내 점수가 속한 구간
	ScoreUpper      float64 `json:"score_upper"`
	ComparedToMean  float64 `json:"compared_to_mean"`
}

// DistributionReport is the full analyzer output for one pool
type DistributionReport struct {
	Statistics  DistributionStats  `json:"statistics"`
	BinWidth    float64            `json:"bin_width"`
	Bins        []FrequencyBin     `json:"bins"`
	NormalCurve []NormalCurvePoint `json:"normal_curve"`
	MyPlacement *Placement         `json:"my_placement,omitempty"`
}
