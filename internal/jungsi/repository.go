package jungsi

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/jungsi/backend/internal/contracts"
)

// Repository handles admissions and member score persistence
// ⭐ SSOT: 정시 모집단위/회원 점수 데이터 접근은 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new jungsi repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetAdmissions loads recruitment units, optionally filtered by university
func (r *Repository) GetAdmissions(ctx context.Context, universityIDs []int64) ([]contracts.RegularAdmission, error) {
	query := `
		SELECT id, university_id, university_name, recruitment_name,
		       admission_type, admission_name, formula_name, formula_code,
		       general_field, min_cut, max_cut,
		       risk_plus_5, risk_plus_4, risk_plus_3, risk_plus_2, risk_plus_1,
		       risk_minus_1, risk_minus_2, risk_minus_3, risk_minus_4, risk_minus_5
		FROM jungsi.regular_admissions
		WHERE formula_name <> ''
	`

	var rows pgx.Rows
	var err error
	if len(universityIDs) > 0 {
		rows, err = r.pool.Query(ctx, query+" AND university_id = ANY($1) ORDER BY id", universityIDs)
	} else {
		rows, err = r.pool.Query(ctx, query+" ORDER BY id")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query admissions: %w", err)
	}
	defer rows.Close()

	var admissions []contracts.RegularAdmission
	for rows.Next() {
		var a contracts.RegularAdmission
		err := rows.Scan(
			&a.ID, &a.UniversityID, &a.UniversityName, &a.RecruitmentName,
			&a.AdmissionType, &a.AdmissionName, &a.FormulaName, &a.FormulaCode,
			&a.GeneralField, &a.MinCut, &a.MaxCut,
			&a.Risk.Plus5, &a.Risk.Plus4, &a.Risk.Plus3, &a.Risk.Plus2, &a.Risk.Plus1,
			&a.Risk.Minus1, &a.Risk.Minus2, &a.Risk.Minus3, &a.Risk.Minus4, &a.Risk.Minus5,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan admission: %w", err)
		}
		admissions = append(admissions, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admissions: %w", err)
	}

	return admissions, nil
}

// GetInputScores loads a member's saved subject scores
func (r *Repository) GetInputScores(ctx context.Context, memberID int64) ([]contracts.SubjectScore, error) {
	query := `
		SELECT subject_code, subject_name, category, standard_score, grade, percentile
		FROM jungsi.member_input_scores
		WHERE member_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to query input scores: %w", err)
	}
	defer rows.Close()

	var scores []contracts.SubjectScore
	for rows.Next() {
		var s contracts.SubjectScore
		if err := rows.Scan(&s.SubjectCode, &s.SubjectName, &s.Category, &s.StandardScore, &s.Grade, &s.Percentile); err != nil {
			return nil, fmt.Errorf("failed to scan input score: %w", err)
		}
		scores = append(scores, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating input scores: %w", err)
	}

	return scores, nil
}

// SaveScores replaces a member's calculated scores.
// 모집단위별 전체 행과, (대학, 환산식코드)별 최고점만 남긴 요약 행을
// 둘 다 delete-then-insert로 교체한다.
func (r *Repository) SaveScores(ctx context.Context, memberID int64, scores []contracts.ConvertedScoreResult) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// 1. 대학별 요약 점수 (성공 건만, 중복 제거)
	if _, err := tx.Exec(ctx, "DELETE FROM jungsi.member_calculated_scores WHERE member_id = $1", memberID); err != nil {
		return fmt.Errorf("failed to delete calculated scores: %w", err)
	}

	best := make(map[string]contracts.ConvertedScoreResult)
	for _, s := range scores {
		if !s.Success {
			continue
		}
		key := fmt.Sprintf("%d_%s", s.UniversityID, s.FormulaCode)
		if prev, ok := best[key]; !ok || s.ConvertedScore > prev.ConvertedScore {
			best[key] = s
		}
	}

	summaryQuery := `
		INSERT INTO jungsi.member_calculated_scores (
			member_id, university_id, university_name, formula_name, formula_code,
			major, converted_score, composite_score, optimal_score, advantage_score,
			calculated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	for _, s := range best {
		_, err := tx.Exec(ctx, summaryQuery,
			memberID, s.UniversityID, s.UniversityName, s.FormulaName, s.FormulaCode,
			s.Major, s.ConvertedScore, s.CompositeScore, s.OptimalScore, s.AdvantageScore,
			s.CalculatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert calculated score: %w", err)
		}
	}

	// 2. 모집단위별 점수 (실패 건 포함, 배치 insert)
	if _, err := tx.Exec(ctx, "DELETE FROM jungsi.member_recruitment_scores WHERE member_id = $1", memberID); err != nil {
		return fmt.Errorf("failed to delete recruitment scores: %w", err)
	}

	rowQuery := `
		INSERT INTO jungsi.member_recruitment_scores (
			member_id, regular_admission_id, university_id, university_name,
			recruitment_name, admission_type, admission_name, formula_name,
			formula_code, major, converted_score, composite_score,
			cumulative_percentile, optimal_score, advantage_score,
			advantage_percentile, risk_score, min_cut, max_cut,
			success, failure_reason, calculated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		          $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`

	const batchSize = 1000
	for start := 0; start < len(scores); start += batchSize {
		end := start + batchSize
		if end > len(scores) {
			end = len(scores)
		}

		batch := &pgx.Batch{}
		for _, s := range scores[start:end] {
			var failureReason *string
			if !s.Success {
				reason := s.FailureReason
				if reason == "" {
					reason = "계산 실패"
				}
				failureReason = &reason
			}

			batch.Queue(rowQuery,
				memberID, s.RegularAdmissionID, s.UniversityID, s.UniversityName,
				s.RecruitmentName, s.AdmissionType, s.AdmissionName, s.FormulaName,
				s.FormulaCode, s.Major, s.ConvertedScore, s.CompositeScore,
				s.PopulationPercentile, s.OptimalScore, s.AdvantageScore,
				s.AdvantagePercentile, s.RiskScore, s.MinCut, s.MaxCut,
				s.Success, failureReason, s.CalculatedAt,
			)
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert recruitment scores: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetRecruitmentScores loads a member's saved per-recruitment results
func (r *Repository) GetRecruitmentScores(ctx context.Context, memberID int64) ([]contracts.ConvertedScoreResult, error) {
	query := `
		SELECT regular_admission_id, university_id, university_name,
		       recruitment_name, admission_type, admission_name, formula_name,
		       formula_code, major, converted_score, composite_score,
		       cumulative_percentile, optimal_score, advantage_score,
		       advantage_percentile, risk_score, min_cut, max_cut,
		       success, COALESCE(failure_reason, ''), calculated_at
		FROM jungsi.member_recruitment_scores
		WHERE member_id = $1
		ORDER BY converted_score DESC
	`

	rows, err := r.pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recruitment scores: %w", err)
	}
	defer rows.Close()

	var scores []contracts.ConvertedScoreResult
	for rows.Next() {
		var s contracts.ConvertedScoreResult
		err := rows.Scan(
			&s.RegularAdmissionID, &s.UniversityID, &s.UniversityName,
			&s.RecruitmentName, &s.AdmissionType, &s.AdmissionName, &s.FormulaName,
			&s.FormulaCode, &s.Major, &s.ConvertedScore, &s.CompositeScore,
			&s.PopulationPercentile, &s.OptimalScore, &s.AdvantageScore,
			&s.AdvantagePercentile, &s.RiskScore, &s.MinCut, &s.MaxCut,
			&s.Success, &s.FailureReason, &s.CalculatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recruitment score: %w", err)
		}
		scores = append(scores, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recruitment scores: %w", err)
	}

	return scores, nil
}
