package mockapp

import (
	"math"
	"sort"

	"github.com/wonny/jungsi/backend/internal/contracts"
)

// DefaultBinWidth is the histogram interval used when none is requested
const DefaultBinWidth = 5.0

// normalCurveSamples is the number of points on the fitted PDF curve
const normalCurveSamples = 100

// Analyze computes the full distribution report for one applicant pool:
// 기초 통계, 합격선, 도수분포, 정규분포 곡선, (선택) 내 점수 위치.
// 빈 풀과 표준편차 0은 에러가 아니라 정의된 degenerate 결과를 낸다.
func Analyze(pool []contracts.ApplicantRecord, binWidth float64, myScore *float64) contracts.DistributionReport {
	if binWidth <= 0 {
		binWidth = DefaultBinWidth
	}

	stats := statistics(pool)

	report := contracts.DistributionReport{
		Statistics:  stats,
		BinWidth:    binWidth,
		Bins:        frequencyBins(pool, binWidth),
		NormalCurve: normalCurve(stats.Mean, stats.StdDev),
	}

	if myScore != nil && len(pool) > 0 {
		placement := placeScore(*myScore, pool, stats.Mean, binWidth)
		report.MyPlacement = &placement
	}

	return report
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round5(x float64) float64 {
	return math.Round(x*100000) / 100000
}

// statistics computes mean / population stddev / min / max (2dp) plus
// the pass thresholds. 빈 풀이면 전부 0, 합격선은 nil.
func statistics(pool []contracts.ApplicantRecord) contracts.DistributionStats {
	stats := contracts.DistributionStats{Count: len(pool)}
	if len(pool) == 0 {
		return stats
	}

	n := float64(len(pool))
	var sum float64
	min := pool[0].Score
	max := pool[0].Score
	for _, a := range pool {
		sum += a.Score
		if a.Score < min {
			min = a.Score
		}
		if a.Score > max {
			max = a.Score
		}
	}
	mean := sum / n

	// 모표준편차 (N으로 나눔)
	var variance float64
	for _, a := range pool {
		variance += (a.Score - mean) * (a.Score - mean)
	}
	variance /= n

	stats.Mean = round2(mean)
	stats.StdDev = round2(math.Sqrt(variance))
	stats.Min = round2(min)
	stats.Max = round2(max)

	// 합격선: 해당 상태 지원자의 최저 점수
	passSet := map[string]bool{
		contracts.StatusSafePass: true,
		contracts.StatusWaitlist: true,
		contracts.StatusLikely:   true,
	}
	for _, a := range pool {
		if a.PassStatus == contracts.StatusSafePass {
			if stats.SafePassThreshold == nil || a.Score < *stats.SafePassThreshold {
				score := a.Score
				stats.SafePassThreshold = &score
			}
		}
		if passSet[a.PassStatus] {
			if stats.PassThreshold == nil || a.Score < *stats.PassThreshold {
				score := a.Score
				stats.PassThreshold = &score
			}
		}
	}

	return stats
}

// frequencyBins builds the histogram in one pass over the pool.
// 구간 하한 = floor(score/width)*width, 빈 구간은 내보내지 않음,
// 상위 구간부터 내림차순, 누적 인원은 위에서 아래로 누적.
func frequencyBins(pool []contracts.ApplicantRecord, width float64) []contracts.FrequencyBin {
	if len(pool) == 0 {
		return []contracts.FrequencyBin{}
	}

	type bucket struct {
		lower    float64
		count    int
		statuses []string // 등장 순서 보존 (동수 타이브레이크용)
		tally    map[string]int
	}

	buckets := make(map[float64]*bucket)
	for _, a := range pool {
		lower := math.Floor(a.Score/width) * width
		b, ok := buckets[lower]
		if !ok {
			b = &bucket{lower: lower, tally: make(map[string]int)}
			buckets[lower] = b
		}
		b.count++
		if b.tally[a.PassStatus] == 0 {
			b.statuses = append(b.statuses, a.PassStatus)
		}
		b.tally[a.PassStatus]++
	}

	sorted := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		sorted = append(sorted, b)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].lower > sorted[j].lower })

	bins := make([]contracts.FrequencyBin, 0, len(sorted))
	cumulative := 0
	for _, b := range sorted {
		cumulative += b.count

		// 다수결, 동수면 먼저 등장한 상태가 이김
		dominant := contracts.StatusFail
		maxCount := 0
		for _, status := range b.statuses {
			if b.tally[status] > maxCount {
				maxCount = b.tally[status]
				dominant = status
			}
		}

		bins = append(bins, contracts.FrequencyBin{
			ScoreLower:         b.lower,
			ScoreUpper:         b.lower + width,
			ApplicantCount:     b.count,
			CumulativeCount:    cumulative,
			DominantPassStatus: dominant,
		})
	}

	return bins
}

// normalPDF is the standard normal probability density.
// σ=0이면 f(μ)=1, 그 외 0 (완전히 균일한 풀)
func normalPDF(x, mean, stdDev float64) float64 {
	if stdDev == 0 {
		if x == mean {
			return 1
		}
		return 0
	}
	coefficient := 1 / (stdDev * math.Sqrt(2*math.Pi))
	exponent := -0.5 * math.Pow((x-mean)/stdDev, 2)
	return coefficient * math.Exp(exponent)
}

// normalCurve samples the fitted PDF over [μ-4σ, μ+4σ]
func normalCurve(mean, stdDev float64) []contracts.NormalCurvePoint {
	xMin := round2(mean - 4*stdDev)
	xMax := round2(mean + 4*stdDev)

	var step float64
	if normalCurveSamples > 1 {
		step = (xMax - xMin) / float64(normalCurveSamples-1)
	}

	points := make([]contracts.NormalCurvePoint, 0, normalCurveSamples)
	for i := 0; i < normalCurveSamples; i++ {
		x := xMin + float64(i)*step
		points = append(points, contracts.NormalCurvePoint{
			X: round2(x),
			Y: round5(normalPDF(x, mean, stdDev)),
		})
	}

	return points
}

// placeScore ranks a student's score inside the pool.
// 순위 = 1 + (나보다 높은 점수 수), 예상 상태는 순위 비율 고정 구간.
func placeScore(myScore float64, pool []contracts.ApplicantRecord, mean, width float64) contracts.Placement {
	higher := 0
	for _, a := range pool {
		if a.Score > myScore {
			higher++
		}
	}
	rank := higher + 1

	n := float64(len(pool))
	percentile := round2(float64(rank) / n * 100)

	status := contracts.StatusAtRisk
	switch {
	case float64(rank) <= n*0.3:
		status = contracts.StatusSafePass
	case float64(rank) <= n*0.5:
		status = contracts.StatusLikely
	case float64(rank) <= n*0.7:
		status = contracts.StatusWaitlist
	}

	lower := math.Floor(myScore/width) * width

	return contracts.Placement{
		Score:           myScore,
		Rank:            rank,
		Percentile:      percentile,
		PredictedStatus: status,
		ScoreLower:      lower,
		ScoreUpper:      lower + width,
		ComparedToMean:  round2(myScore - mean),
	}
}
