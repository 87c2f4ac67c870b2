package jungsi

import "github.com/wonny/jungsi/backend/internal/refdata"

// Extrapolation policy below the table's lowest composite.
// 보정 상수: 테이블에서 유도하지 않고 고정 (표점합 200점 → 누백 99%)
const (
	extrapolationFloorScore = 200.0
	extrapolationCeilingPct = 99.0
)

// Percentile maps a composite score to its population percentile (누적백분위).
// 표점합을 2자리로 반올림한 뒤, 내림차순 키에서 자신 이하의 첫 키를 찾는다.
// 테이블 최소 키보다 낮으면 (최소키 → 앵커 누백, 200 → 99) 사이를 선형 외삽.
func Percentile(table *refdata.CumulativeTable, composite float64) float64 {
	scaled := refdata.ScaleKey(composite)

	if entry, ok := table.Floor(scaled); ok {
		return entry.Percentile
	}

	anchor := table.Min()
	rounded := refdata.RoundKey(composite)

	ratio := (anchor.Score - rounded) / (anchor.Score - extrapolationFloorScore)
	p := anchor.Percentile + ratio*(extrapolationCeilingPct-anchor.Percentile)

	if p < anchor.Percentile {
		p = anchor.Percentile
	}
	if p > extrapolationCeilingPct {
		p = extrapolationCeilingPct
	}

	return p
}
