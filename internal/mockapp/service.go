package mockapp

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/jungsi/backend/internal/contracts"
	"github.com/wonny/jungsi/backend/pkg/logger"
	"github.com/wonny/jungsi/backend/pkg/redis"
)

// AnalysisRequest identifies one recruitment unit, by row id or by name.
// RowID가 0이면 대학코드/대학명 + 모집단위로 찾는다.
type AnalysisRequest struct {
	RowID           int64    `json:"row_id"`
	UniversityCode  string   `json:"university_code"`
	UniversityName  string   `json:"university_name"`
	RecruitmentUnit string   `json:"recruitment_unit"`
	BinWidth        float64  `json:"bin_width"`
	MyScore         *float64 `json:"my_score"`
}

// AnalysisResult is the full mock-application analysis for one recruitment unit
type AnalysisResult struct {
	Admission contracts.AdmissionInfo      `json:"admission"`
	Report    contracts.DistributionReport `json:"report"`

	// 지원자목록 비고의 50%컷 / 70%컷 점수 (없으면 nil)
	Cut50 *float64 `json:"cut_50"`
	Cut70 *float64 `json:"cut_70"`
}

// AggregateResult is a re-binned histogram for one recruitment unit
type AggregateResult struct {
	RowID    int64                    `json:"row_id"`
	BinWidth float64                  `json:"bin_width"`
	Bins     []contracts.FrequencyBin `json:"bins"`
}

// Service runs pool analyses over the repository with a Redis read-through cache
type Service struct {
	repo   *Repository
	cache  *redis.Cache
	logger *logger.Logger
}

// NewService creates a new mock-application service
func NewService(repo *Repository, cache *redis.Cache, log *logger.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: log}
}

// Analyze produces the distribution report for one recruitment unit.
// myScore 없는 요청만 캐시한다 (배치 곡선은 풀이 바뀔 때까지 동일).
func (s *Service) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	admission, err := s.resolveAdmission(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.BinWidth <= 0 {
		req.BinWidth = DefaultBinWidth
	}

	cacheable := req.MyScore == nil
	if cacheable {
		var cached AnalysisResult
		found, err := s.cache.Get(ctx, redis.AnalysisKey(admission.RowID, req.BinWidth), &cached)
		if err != nil {
			s.logger.WithError(err).Warn("Analysis cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	start := time.Now()
	result, err := s.analyzePool(ctx, admission, req.BinWidth, req.MyScore)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"row_id":      admission.RowID,
		"pool_size":   result.Report.Statistics.Count,
		"bin_width":   req.BinWidth,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Mock-application analysis computed")

	if cacheable {
		if err := s.cache.Set(ctx, redis.AnalysisKey(admission.RowID, req.BinWidth), result, redis.TTLMedium); err != nil {
			s.logger.WithError(err).Warn("Analysis cache write failed")
		}
	}

	return result, nil
}

// Aggregate re-bins the pool histogram at a caller-chosen interval
func (s *Service) Aggregate(ctx context.Context, req AnalysisRequest) (*AggregateResult, error) {
	admission, err := s.resolveAdmission(ctx, req)
	if err != nil {
		return nil, err
	}

	pool, err := s.repo.GetApplicants(ctx, admission.RowID)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: row %d", ErrEmptyPool, admission.RowID)
	}

	if req.BinWidth <= 0 {
		req.BinWidth = DefaultBinWidth
	}

	return &AggregateResult{
		RowID:    admission.RowID,
		BinWidth: req.BinWidth,
		Bins:     frequencyBins(pool, req.BinWidth),
	}, nil
}

// ListAdmissions returns recruitment units for browsing
func (s *Service) ListAdmissions(ctx context.Context, search, group string, limit, offset int) ([]contracts.AdmissionInfo, int, error) {
	return s.repo.ListAdmissions(ctx, search, group, limit, offset)
}

func (s *Service) resolveAdmission(ctx context.Context, req AnalysisRequest) (contracts.AdmissionInfo, error) {
	if req.RowID > 0 {
		return s.repo.GetAdmission(ctx, req.RowID)
	}
	return s.repo.FindAdmission(ctx, req.UniversityCode, req.UniversityName, req.RecruitmentUnit)
}

func (s *Service) analyzePool(ctx context.Context, admission contracts.AdmissionInfo, binWidth float64, myScore *float64) (*AnalysisResult, error) {
	pool, err := s.repo.GetApplicants(ctx, admission.RowID)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: row %d", ErrEmptyPool, admission.RowID)
	}

	result := &AnalysisResult{
		Admission: admission,
		Report:    Analyze(pool, binWidth, myScore),
	}

	for _, a := range pool {
		switch a.Note {
		case "50%컷":
			score := a.Score
			result.Cut50 = &score
		case "70%컷":
			score := a.Score
			result.Cut70 = &score
		}
	}

	return result, nil
}
