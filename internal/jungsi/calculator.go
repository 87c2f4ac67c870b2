package jungsi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/jungsi/backend/internal/contracts"
	"github.com/wonny/jungsi/backend/pkg/logger"
)

// Calculator runs the full batch chain for one member:
// 입력 점수 → 전 모집단위 환산 → 유불리/누백/위험도 → 저장
// ⭐ SSOT: 정시 일괄 계산 오케스트레이션은 여기서만
type Calculator struct {
	engine *Engine
	repo   *Repository
	logger *logger.Logger
}

// NewCalculator creates a batch calculator
func NewCalculator(engine *Engine, repo *Repository, log *logger.Logger) *Calculator {
	return &Calculator{engine: engine, repo: repo, logger: log}
}

// Calculate converts a member's scores for every admissions unit and
// persists the results. scores가 비어 있으면 저장된 입력 점수를 사용한다.
func (c *Calculator) Calculate(ctx context.Context, memberID int64, scores []contracts.SubjectScore, universityIDs []int64) (*contracts.CalculateResponse, error) {
	start := time.Now()

	if len(scores) == 0 {
		saved, err := c.repo.GetInputScores(ctx, memberID)
		if err != nil {
			return nil, fmt.Errorf("failed to load saved input scores: %w", err)
		}
		scores = saved
	}

	resp := &contracts.CalculateResponse{
		MemberID:     memberID,
		CalculatedAt: time.Now(),
	}

	if len(scores) == 0 {
		c.logger.WithField("member_id", memberID).Warn("No input scores to calculate")
		resp.Scores = []contracts.ConvertedScoreResult{}
		return resp, nil
	}

	admissions, err := c.repo.GetAdmissions(ctx, universityIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load admissions: %w", err)
	}

	results := make([]contracts.ConvertedScoreResult, 0, len(admissions))
	for _, admission := range admissions {
		result, err := c.calculateOne(scores, admission)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
		if result.Success {
			resp.SuccessCount++
		} else {
			resp.FailedCount++
		}
	}

	if err := c.repo.SaveScores(ctx, memberID, results); err != nil {
		return nil, fmt.Errorf("failed to save scores: %w", err)
	}

	resp.TotalRecruitments = len(results)
	resp.Scores = results

	c.logger.WithFields(map[string]interface{}{
		"member_id": memberID,
		"total":     resp.TotalRecruitments,
		"success":   resp.SuccessCount,
		"failed":    resp.FailedCount,
		"duration":  time.Since(start),
	}).Info("Converted scores calculated")

	return resp, nil
}

// calculateOne runs conversion + advantage + risk for one recruitment unit.
// 데이터 누락/미지원 환산식은 배치를 멈추지 않고 실패 행으로 기록한다.
// ErrNotReady만 호출자에게 전파한다 (참조 테이블 미로드는 전체 실패).
func (c *Calculator) calculateOne(scores []contracts.SubjectScore, admission contracts.RegularAdmission) (contracts.ConvertedScoreResult, error) {
	result := contracts.ConvertedScoreResult{
		RegularAdmissionID: admission.ID,
		UniversityID:       admission.UniversityID,
		UniversityName:     admission.UniversityName,
		RecruitmentName:    admission.RecruitmentName,
		AdmissionType:      admission.AdmissionType,
		AdmissionName:      admission.AdmissionName,
		FormulaName:        admission.FormulaName,
		FormulaCode:        admission.FormulaCode,
		Major:              admission.GeneralField,
		MinCut:             admission.MinCut,
		MaxCut:             admission.MaxCut,
		CalculatedAt:       time.Now(),
	}

	conv, err := c.engine.ConvertForInstitution(scores, admission.FormulaName)
	if err != nil {
		if isFatalCalcError(err) {
			return result, err
		}
		c.logger.WithError(err).WithFields(map[string]interface{}{
			"university": admission.UniversityName,
			"formula":    admission.FormulaName,
		}).Debug("Conversion failed")
		result.FailureReason = err.Error()
		return result, nil
	}

	if !conv.Eligible {
		result.FailureReason = conv.FailureReason
		return result, nil
	}

	result.Success = true
	result.ConvertedScore = conv.Converted
	result.CompositeScore = conv.Composite
	pct := conv.Percentile
	result.PopulationPercentile = &pct

	adv, err := c.engine.ComputeAdvantage(admission.FormulaName, conv.Composite, conv.Converted)
	if err != nil {
		return result, err
	}
	result.OptimalScore = adv.OptimalScore
	result.AdvantageScore = adv.Delta
	result.AdvantagePercentile = adv.DeltaPercentile

	result.RiskScore = ClassifyRisk(conv.Converted, admission.Risk)

	return result, nil
}

// isFatalCalcError reports whether an error should abort the whole batch
func isFatalCalcError(err error) bool {
	return !errors.Is(err, ErrUnknownInstitution) &&
		!errors.Is(err, ErrUnknownSubject) &&
		!errors.Is(err, ErrMissingScore) &&
		!errors.Is(err, ErrUnknownFormula)
}
