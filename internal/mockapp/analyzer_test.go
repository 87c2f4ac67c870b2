package mockapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/jungsi/backend/internal/contracts"
)

func applicant(score float64, status string) contracts.ApplicantRecord {
	return contracts.ApplicantRecord{Score: score, PassStatus: status}
}

func TestAnalyzeStatistics(t *testing.T) {
	pool := []contracts.ApplicantRecord{
		applicant(90, contracts.StatusSafePass),
		applicant(80, contracts.StatusLikely),
		applicant(70, contracts.StatusFail),
	}

	report := Analyze(pool, 10, nil)
	stats := report.Statistics

	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 80.0, stats.Mean)
	assert.InDelta(t, 8.16, stats.StdDev, 0.001) // 모표준편차 (N으로 나눔)
	assert.Equal(t, 70.0, stats.Min)
	assert.Equal(t, 90.0, stats.Max)

	require.NotNil(t, stats.SafePassThreshold)
	assert.Equal(t, 90.0, *stats.SafePassThreshold)
	require.NotNil(t, stats.PassThreshold)
	assert.Equal(t, 80.0, *stats.PassThreshold)
}

func TestAnalyzeEmptyPool(t *testing.T) {
	report := Analyze(nil, 5, nil)

	assert.Equal(t, 0, report.Statistics.Count)
	assert.Zero(t, report.Statistics.Mean)
	assert.Zero(t, report.Statistics.StdDev)
	assert.Nil(t, report.Statistics.SafePassThreshold)
	assert.Nil(t, report.Statistics.PassThreshold)
	assert.Empty(t, report.Bins)
	assert.Nil(t, report.MyPlacement)
}

func TestAnalyzeBinning(t *testing.T) {
	// 3명, 구간폭 10 → 구간 3개, 누적은 위에서부터 1, 2, 3
	pool := []contracts.ApplicantRecord{
		applicant(90, contracts.StatusSafePass),
		applicant(80, contracts.StatusLikely),
		applicant(70, contracts.StatusFail),
	}

	report := Analyze(pool, 10, nil)
	bins := report.Bins
	require.Len(t, bins, 3)

	assert.Equal(t, 90.0, bins[0].ScoreLower)
	assert.Equal(t, 100.0, bins[0].ScoreUpper)
	assert.Equal(t, 1, bins[0].ApplicantCount)
	assert.Equal(t, 1, bins[0].CumulativeCount)
	assert.Equal(t, contracts.StatusSafePass, bins[0].DominantPassStatus)

	assert.Equal(t, 80.0, bins[1].ScoreLower)
	assert.Equal(t, 2, bins[1].CumulativeCount)

	assert.Equal(t, 70.0, bins[2].ScoreLower)
	assert.Equal(t, 3, bins[2].CumulativeCount)

	// 누적 인원은 상위 구간부터 순증가
	for i := 1; i < len(bins); i++ {
		assert.Greater(t, bins[i].CumulativeCount, bins[i-1].CumulativeCount)
	}
}

func TestAnalyzeBinningSkipsEmptyBins(t *testing.T) {
	pool := []contracts.ApplicantRecord{
		applicant(95, contracts.StatusSafePass),
		applicant(40, contracts.StatusFail),
	}

	report := Analyze(pool, 10, nil)
	require.Len(t, report.Bins, 2) // 50~90 구간은 비어 있으므로 생략
	assert.Equal(t, 90.0, report.Bins[0].ScoreLower)
	assert.Equal(t, 40.0, report.Bins[1].ScoreLower)
}

func TestAnalyzeDominantStatusTieFirstSeen(t *testing.T) {
	// 동수면 먼저 등장한 상태가 이겨야 함 (정렬하지 않음)
	pool := []contracts.ApplicantRecord{
		applicant(81, contracts.StatusWaitlist),
		applicant(82, contracts.StatusSafePass),
		applicant(83, contracts.StatusSafePass),
		applicant(84, contracts.StatusWaitlist),
	}

	report := Analyze(pool, 10, nil)
	require.Len(t, report.Bins, 1)
	assert.Equal(t, contracts.StatusWaitlist, report.Bins[0].DominantPassStatus)
}

func TestAnalyzeNormalCurve(t *testing.T) {
	pool := []contracts.ApplicantRecord{
		applicant(90, contracts.StatusSafePass),
		applicant(80, contracts.StatusLikely),
		applicant(70, contracts.StatusFail),
	}

	report := Analyze(pool, 10, nil)
	curve := report.NormalCurve
	require.Len(t, curve, 100)

	// [μ-4σ, μ+4σ] 양 끝 포함
	mean, stdDev := report.Statistics.Mean, report.Statistics.StdDev
	assert.InDelta(t, mean-4*stdDev, curve[0].X, 0.01)
	assert.InDelta(t, mean+4*stdDev, curve[len(curve)-1].X, 0.01)

	// 평균 근처에서 밀도 최대
	var peak contracts.NormalCurvePoint
	for _, p := range curve {
		if p.Y > peak.Y {
			peak = p
		}
	}
	assert.InDelta(t, mean, peak.X, stdDev/2)
}

func TestAnalyzeNormalCurveZeroStdDev(t *testing.T) {
	pool := []contracts.ApplicantRecord{
		applicant(80, contracts.StatusLikely),
		applicant(80, contracts.StatusLikely),
	}

	report := Analyze(pool, 5, nil)
	require.Len(t, report.NormalCurve, 100)
	for _, p := range report.NormalCurve {
		assert.Equal(t, 80.0, p.X)
		assert.Equal(t, 1.0, p.Y)
	}
}

func TestAnalyzePlacementRankOne(t *testing.T) {
	// 풀 최고점보다 높은 점수는 항상 1등
	pool := []contracts.ApplicantRecord{
		applicant(90, contracts.StatusSafePass),
		applicant(80, contracts.StatusLikely),
		applicant(70, contracts.StatusFail),
	}

	my := 91.0
	report := Analyze(pool, 10, &my)
	require.NotNil(t, report.MyPlacement)
	assert.Equal(t, 1, report.MyPlacement.Rank)
	assert.Equal(t, contracts.StatusSafePass, report.MyPlacement.PredictedStatus)
}

func TestAnalyzePlacementTiers(t *testing.T) {
	// 10명 풀에서 고정 비율 구간으로 상태 예측
	pool := make([]contracts.ApplicantRecord, 10)
	for i := range pool {
		pool[i] = applicant(float64(100-i), contracts.StatusLikely)
	}

	tests := []struct {
		name   string
		score  float64
		rank   int
		status string
	}{
		{"top 30%", 99.5, 2, contracts.StatusSafePass},
		{"to 50%", 96.5, 5, contracts.StatusLikely},
		{"to 70%", 94.5, 7, contracts.StatusWaitlist},
		{"below 70%", 91.5, 10, contracts.StatusAtRisk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Analyze(pool, 5, &tt.score)
			require.NotNil(t, report.MyPlacement)
			assert.Equal(t, tt.rank, report.MyPlacement.Rank)
			assert.Equal(t, tt.status, report.MyPlacement.PredictedStatus)
			assert.Equal(t, round2(float64(tt.rank)/10*100), report.MyPlacement.Percentile)
		})
	}
}

func TestAnalyzeDefaultBinWidth(t *testing.T) {
	pool := []contracts.ApplicantRecord{applicant(77, contracts.StatusLikely)}

	report := Analyze(pool, 0, nil)
	assert.Equal(t, DefaultBinWidth, report.BinWidth)
	require.Len(t, report.Bins, 1)
	assert.Equal(t, 75.0, report.Bins[0].ScoreLower)
}
