package jungsi

import (
	"sort"

	"github.com/wonny/jungsi/backend/internal/contracts"
)

// Composite computes the 표점합: 국어 + 수학 + 탐구 상위 2개 표준점수 합.
// 없는 과목은 0으로 처리하므로 실패하지 않는다. 탐구가 2개 미만이면
// 있는 만큼만 더한다.
func Composite(scores []contracts.SubjectScore) float64 {
	var korean, math int
	var electives []int

	for _, s := range scores {
		v := s.StandardScore
		if v < 0 {
			v = 0
		}

		switch s.Category {
		case contracts.CategoryKorean:
			korean = v
		case contracts.CategoryMath:
			math = v
		case contracts.CategorySociety, contracts.CategoryScience:
			electives = append(electives, v)
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(electives)))
	if len(electives) > 2 {
		electives = electives[:2]
	}

	sum := korean + math
	for _, v := range electives {
		sum += v
	}

	return float64(sum)
}
