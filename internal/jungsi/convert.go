package jungsi

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/wonny/jungsi/backend/internal/contracts"
	"github.com/wonny/jungsi/backend/internal/refdata"
)

// Conversion is the outcome of one formula application.
// 자격 미달(Eligible=false)은 정상 결과이며 에러가 아니다.
type Conversion struct {
	Eligible      bool
	FailureReason string

	Converted  float64
	Composite  float64
	Percentile float64
}

// Convert applies one institution's formula to a student's subject scores.
//
// 순서가 중요하다: 자격 검증이 어떤 점수 계산보다 먼저 실행되고,
// 탈락한 학생은 숫자 환산점수를 받지 않는다.
func Convert(snap *refdata.Snapshot, scores []contracts.SubjectScore, formulaName string) (Conversion, error) {
	cond, ok := snap.Conditions[formulaName]
	if !ok {
		return Conversion{}, fmt.Errorf("%w: %s", ErrUnknownInstitution, formulaName)
	}

	student := buildStudent(scores)

	// 1. 자격 검증 (필수 수학 트랙, 탐구 2과목 조건)
	if reason := checkEligibility(student, cond.Required); reason != "" {
		return Conversion{Eligible: false, FailureReason: reason}, nil
	}

	// 2. 과목별 환산 sub-score 조회
	inputs, err := buildFormulaInputs(snap.Scores, student, cond, formulaName)
	if err != nil {
		return Conversion{}, err
	}

	// 3. 환산식 패밀리별 계산 + 추가가감 + 기본점수
	base, err := applyFormula(cond, inputs)
	if err != nil {
		return Conversion{}, err
	}
	converted := base + bonusPoints(cond, inputs) + cond.BaseScore

	composite := Composite(scores)

	return Conversion{
		Eligible:   true,
		Converted:  converted,
		Composite:  composite,
		Percentile: Percentile(snap.Cumulative, composite),
	}, nil
}

// studentScores groups a student's subjects by their formula role
type studentScores struct {
	korean  *contracts.SubjectScore
	math    *contracts.SubjectScore
	english *contracts.SubjectScore
	history *contracts.SubjectScore
	foreign *contracts.SubjectScore
	science []contracts.SubjectScore
	society []contracts.SubjectScore
}

func buildStudent(scores []contracts.SubjectScore) studentScores {
	var st studentScores
	for i := range scores {
		s := scores[i]
		switch s.Category {
		case contracts.CategoryKorean:
			st.korean = &s
		case contracts.CategoryMath:
			st.math = &s
		case contracts.CategoryEnglish:
			st.english = &s
		case contracts.CategoryHistory:
			st.history = &s
		case contracts.CategoryForeignLanguage:
			st.foreign = &s
		case contracts.CategoryScience:
			if len(st.science) < 2 {
				st.science = append(st.science, s)
			}
		case contracts.CategorySociety:
			if len(st.society) < 2 {
				st.society = append(st.society, s)
			}
		}
	}
	return st
}

// mathTrackOf derives the math elective track from the subject name
func mathTrackOf(math *contracts.SubjectScore) refdata.MathTrack {
	if math == nil {
		return refdata.MathTrackNone
	}
	name := math.SubjectName
	switch {
	case strings.Contains(name, "미적") || strings.Contains(name, "기하"):
		return refdata.MathTrackCalcGeometry
	case strings.Contains(name, "확통") || strings.Contains(name, "확률"):
		return refdata.MathTrackProbability
	default:
		return refdata.MathTrackNone
	}
}

// checkEligibility returns a failure reason, or "" when the student
// satisfies every required-subject condition
func checkEligibility(st studentScores, req refdata.RequiredSubjects) string {
	switch req.MathTrack {
	case refdata.MathTrackCalcGeometry:
		if mathTrackOf(st.math) != refdata.MathTrackCalcGeometry {
			return "requires calculus-or-geometry math track"
		}
	case refdata.MathTrackProbability:
		if mathTrackOf(st.math) != refdata.MathTrackProbability {
			return "requires probability-statistics math track"
		}
	}
	if req.ScienceTwo && len(st.science) < 2 {
		return "requires two science electives"
	}
	if req.SocietyTwo && len(st.society) < 2 {
		return "requires two society electives"
	}
	return ""
}

// electiveSub pairs an elective subject with its converted sub-score
type electiveSub struct {
	subject contracts.SubjectScore
	sub     float64
}

// formulaInputs carries all per-subject converted sub-scores one formula needs
type formulaInputs struct {
	korean  float64
	math    float64
	english float64
	history float64
	foreign float64 // 제2외국어, 미응시 시 0

	mathSubject    string
	mathPercentile float64

	// 탐구: 반영 과목 수만큼 상위 sub-score를 자른 목록
	electives    []electiveSub // 상위 N개 (sub-score 내림차순)
	electivePcts []float64     // 상위 N개 백분위 (내림차순)
	science      []electiveSub // 과탐 전체 (sub-score 내림차순)
}

// electiveSum is the 탐구 contribution: sum of the top-N sub-scores
func (in formulaInputs) electiveSum() float64 {
	var sum float64
	for _, e := range in.electives {
		sum += e.sub
	}
	return sum
}

// subScoreFor looks up one subject's converted sub-score.
// 영어/한국사는 등급(1~9)으로, 그 외는 표준점수로 조회한다.
func subScoreFor(table refdata.ScoreTable, s *contracts.SubjectScore, formulaName string) (float64, error) {
	if s == nil || s.SubjectName == "" || s.Grade == 0 {
		return 0, fmt.Errorf("%w: %s", ErrMissingScore, subjectLabel(s))
	}

	gradeBased := s.Category == contracts.CategoryEnglish || s.Category == contracts.CategoryHistory
	key := strconv.Itoa(s.StandardScore)
	if gradeBased {
		key = strconv.Itoa(s.Grade)
	}

	sub, ok := table.SubScore(s.SubjectName, key, formulaName)
	if !ok {
		return 0, fmt.Errorf("%w: %s (key %s)", ErrUnknownSubject, s.SubjectName, key)
	}
	return sub, nil
}

func subjectLabel(s *contracts.SubjectScore) string {
	if s == nil || s.SubjectName == "" {
		return "과목"
	}
	return s.SubjectName
}

func buildFormulaInputs(table refdata.ScoreTable, st studentScores, cond refdata.InstitutionCondition, formulaName string) (formulaInputs, error) {
	var in formulaInputs
	var err error

	if in.korean, err = subScoreFor(table, st.korean, formulaName); err != nil {
		return in, err
	}
	if in.math, err = subScoreFor(table, st.math, formulaName); err != nil {
		return in, err
	}
	if in.english, err = subScoreFor(table, st.english, formulaName); err != nil {
		return in, err
	}
	if in.history, err = subScoreFor(table, st.history, formulaName); err != nil {
		return in, err
	}

	in.mathSubject = st.math.SubjectName
	in.mathPercentile = st.math.Percentile

	// 제2외국어는 선택: 없으면 0점 기여
	if st.foreign != nil {
		if in.foreign, err = subScoreFor(table, st.foreign, formulaName); err != nil {
			return in, err
		}
	}

	var all []electiveSub
	var pcts []float64
	for _, group := range [][]contracts.SubjectScore{st.society, st.science} {
		for i := range group {
			s := group[i]
			sub, err := subScoreFor(table, &s, formulaName)
			if err != nil {
				return in, err
			}
			all = append(all, electiveSub{subject: s, sub: sub})
			pcts = append(pcts, s.Percentile)
			if s.Category == contracts.CategoryScience {
				in.science = append(in.science, electiveSub{subject: s, sub: sub})
			}
		}
	}

	sort.Slice(all, func(i, j int) bool { return all[i].sub > all[j].sub })
	sort.Sort(sort.Reverse(sort.Float64Slice(pcts)))
	sort.Slice(in.science, func(i, j int) bool { return in.science[i].sub > in.science[j].sub })

	n := cond.ElectiveCount
	if n > len(all) {
		n = len(all)
	}
	in.electives = all[:n]
	if n < len(pcts) {
		pcts = pcts[:n]
	}
	in.electivePcts = pcts

	return in, nil
}

// applyFormula dispatches to the family calculator selected by the condition
func applyFormula(cond refdata.InstitutionCondition, in formulaInputs) (float64, error) {
	switch cond.Family {
	case refdata.FamilyRequired:
		return requiredFormula(cond.FormulaCode, in)
	case refdata.FamilySelect:
		return selectFormula(cond.FormulaCode, in)
	case refdata.FamilyWeighted:
		return weightedFormula(cond.FormulaCode, in)
	default:
		return 0, fmt.Errorf("%w: family %q", ErrUnknownFormula, cond.Family)
	}
}

// requiredFormula sums a fixed subject set chosen by the formula code
func requiredFormula(code int, in formulaInputs) (float64, error) {
	t := in.electiveSum()

	switch code {
	case 1, 49, 50, 51, 52, 53, 54, 55, 56, 57, 58, 59, 60, 61, 62, 63, 64, 65, 66, 67, 68, 69:
		return in.korean + in.math + in.english + in.history + in.foreign + t, nil
	case 2:
		return in.korean + in.english + in.history + in.foreign, nil
	case 3, 4:
		return in.korean + in.history + in.foreign, nil
	case 5:
		return in.math + in.english + in.history + in.foreign, nil
	case 6:
		return in.math + t + in.history + in.foreign, nil
	case 7, 8:
		return in.math + in.history + in.foreign, nil
	case 9, 10, 11:
		return in.english + t + in.history + in.foreign, nil
	case 12:
		return in.english + in.history + in.foreign, nil
	case 13:
		return t + in.foreign, nil
	case 14, 15:
		return t + in.history + in.foreign, nil
	case 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35:
		return in.history + in.foreign, nil
	default:
		return 0, fmt.Errorf("%w: required family code %d", ErrUnknownFormula, code)
	}
}

// selectFormula picks the best-scoring subjects before summing
func selectFormula(code int, in formulaInputs) (float64, error) {
	t := in.electiveSum()

	kme := sortDesc(in.korean, in.math, in.english)
	kmet := sortDesc(in.korean, in.math, in.english, t)
	ket := sortDesc(in.korean, in.english, t)
	kmt := sortDesc(in.korean, in.math, t)
	// 수영탐만 오름차순: 원 데이터 정의가 최저 과목에 최고 가중치를 준다
	met := sortAsc(in.math, in.english, t)

	maxKM := max2(in.korean, in.math)
	minKM := min2(in.korean, in.math)

	switch code {
	case 2:
		return max2(in.math, t), nil
	case 3:
		return met[0]*3 + met[1]*2.5 + met[2]*1.5, nil
	case 4:
		return met[0] + met[1], nil
	case 5:
		return max2(in.korean, t), nil
	case 6:
		return max2(in.korean, in.english), nil
	case 7:
		return ket[0]*3 + ket[1]*2.5 + ket[2]*1.5, nil
	case 8:
		return ket[0] + ket[1], nil
	case 9, 10:
		return maxKM*3.5 + minKM*2.5, nil
	case 11:
		return maxKM, nil
	case 12, 19:
		return kmt[0] + kmt[1], nil
	case 13, 14:
		return kme[0] + kme[1], nil
	case 15:
		return kme[0], nil
	case 16:
		return kmet[0] + kmet[1], nil
	case 17, 18:
		return kmet[0] + kmet[1] + kmet[2], nil
	case 20, 37:
		return kmt[0] + kmt[1] + max2(in.english, in.history), nil
	case 36:
		return kme[0]*6 + max2(kme[1], max2(t, in.history))*4, nil
	case 38:
		return maxKM + max2(in.english, max2(t, in.history)), nil
	default:
		return 0, fmt.Errorf("%w: select family code %d", ErrUnknownFormula, code)
	}
}

// weightedFormula weights the best-scoring subjects by rank
func weightedFormula(code int, in formulaInputs) (float64, error) {
	t := in.electiveSum()

	kmet := sortDesc(in.korean, in.math, in.english, t)
	kmeth := sortDesc(in.korean, in.math, in.english, t, in.history)

	all := []float64{in.korean, in.math, in.english, in.foreign, in.history}
	for _, e := range in.electives {
		all = append(all, e.sub)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(all)))

	switch code {
	case 21:
		return 4*kmet[0] + 3.5*kmet[1] + 2.5*kmet[2], nil
	case 22:
		return 4.5*kmet[0] + 3.5*kmet[1] + 2*kmet[2], nil
	case 23:
		return 6*kmet[0] + 4*kmet[1], nil
	case 24, 30:
		return 8*kmet[0] + 2*kmet[1], nil
	case 25:
		return 3.5*kmet[0] + 3.5*kmet[1] + 2*kmet[2] + kmet[3], nil
	case 26, 27:
		return 4.5*kmet[0] + 3.5*kmet[1] + 2*kmet[2], nil
	case 28:
		return 4*kmet[0] + 3*kmet[1] + 2*kmet[2] + kmet[3], nil
	case 29:
		return 5*kmet[0] + 3*kmet[1] + 2*kmet[2], nil
	case 31:
		return max2(
			in.korean*2.5+in.math*4+in.english+t*2.5,
			in.korean*2.5+in.math*3.5+in.english+t*3,
		), nil
	case 32:
		return max2(
			in.korean*2+in.math*4+in.english+t*3,
			in.korean*3+in.math*4+in.english+t*2,
		), nil
	case 33:
		return max2(
			in.korean*3.5+in.math*2.5+in.english+t*3,
			in.korean*3+in.math*4+in.english+t*2,
		), nil
	case 34:
		return max2(
			in.korean*3.5+in.math*3+in.english+t*2.5,
			in.korean*3+in.math*3+in.english+t*3,
		), nil
	case 35:
		return max2(
			in.korean*4+in.math*3+in.english+t,
			in.korean*3+in.math*4+in.english+t,
		), nil
	case 39, 41:
		return 4*kmeth[0] + 3*kmeth[1] + 2*kmeth[2] + kmeth[3], nil
	case 40:
		return 4*max2(in.korean, in.english) + 3*max2(min2(in.korean, in.english), t), nil
	case 42:
		return 5*kmeth[0] + 3*kmeth[1] + 2*kmeth[2], nil
	case 43:
		return 6*all[0] + 4*all[1], nil
	default:
		return 0, fmt.Errorf("%w: weighted family code %d", ErrUnknownFormula, code)
	}
}

// bonusPoints applies 추가가감: track and elective-choice bonuses
func bonusPoints(cond refdata.InstitutionCondition, in formulaInputs) float64 {
	t := in.electiveSum()
	kmet := sortDesc(in.korean, in.math, in.english, t)

	scienceCount := len(in.science)
	calcGeo := strings.Contains(in.mathSubject, "미적") || strings.Contains(in.mathSubject, "기하")

	var pctSum float64
	for _, p := range in.electivePcts {
		pctSum += p
	}

	switch cond.FormulaCode {
	case 9:
		if calcGeo && in.math > in.korean {
			return in.math * 3.5 * 0.05
		}
	case 17:
		if scienceCount == 2 && t > kmet[2] {
			return in.math
		}
	case 26:
		if calcGeo && in.math > kmet[2] {
			return in.mathPercentile * 0.1
		}
	case 49:
		if len(in.electives) == 2 {
			return t * 0.03
		}
	case 50:
		if scienceCount == 2 {
			return t * 0.03
		}
	case 51:
		if scienceCount == 2 {
			return t * 0.05
		}
	case 52:
		if scienceCount == 2 {
			return t * 0.1
		}
	case 53:
		if scienceCount == 2 {
			return 2 * 0.05 * pctSum
		}
	case 54, 55:
		if scienceCount == 2 {
			return t * 0.05
		}
	case 56:
		if scienceCount == 2 {
			return t * 0.07
		}
	case 57:
		if scienceCount == 2 {
			n := countScienceNames(in.science, "물리학", "생명과학", "지구과학", "화학")
			switch n {
			case 2:
				return 5
			case 1:
				return 3
			}
		}
	case 58:
		if len(in.electives) == 2 {
			rate := 0.05
			if hasScienceName(in.science, "화학 Ⅱ", "생명과학 Ⅱ") {
				rate = 0.07
			}
			return t * rate
		}
	case 59:
		switch scienceCount {
		case 2:
			return pctSum * 0.1
		case 1:
			return pctSum * 0.05
		}
	case 60:
		if scienceCount == 2 && strings.Contains(in.mathSubject, "미적") {
			return in.math
		}
	case 61:
		if hasScienceName(in.science, "물리학 Ⅱ", "생명과학 Ⅱ", "지구과학 Ⅱ", "화학 Ⅱ") {
			return (t+0.5)*0.6 - t
		}
	case 62:
		if calcGeo {
			return in.mathPercentile * 0.1
		}
	case 63:
		if scienceCount > 0 {
			return in.science[0].sub * 0.1
		}
	case 64:
		if countScienceNames(in.science, "물리학") == 2 {
			return pctSum * 0.05
		}
	case 65:
		if countScienceNames(in.science, "생명과학") == 2 {
			return pctSum * 0.05
		}
	case 66:
		if countScienceNames(in.science, "지구과학") == 2 {
			return pctSum * 0.05
		}
	case 67:
		if countScienceNames(in.science, "화학") == 2 {
			return pctSum * 0.05
		}
	case 69:
		if len(in.electives) == 2 && hasScienceName(in.science, "Ⅱ") {
			return t * 0.05
		}
	}

	return 0
}

func countScienceNames(science []electiveSub, names ...string) int {
	count := 0
	for _, e := range science {
		for _, name := range names {
			if strings.Contains(e.subject.SubjectName, name) {
				count++
				break
			}
		}
	}
	return count
}

func hasScienceName(science []electiveSub, names ...string) bool {
	for _, e := range science {
		for _, name := range names {
			if strings.Contains(e.subject.SubjectName, name) {
				return true
			}
		}
	}
	return false
}

func sortDesc(vals ...float64) []float64 {
	out := append([]float64(nil), vals...)
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out
}

func sortAsc(vals ...float64) []float64 {
	out := append([]float64(nil), vals...)
	sort.Float64s(out)
	return out
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
