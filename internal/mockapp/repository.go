package mockapp

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/jungsi/backend/internal/contracts"
)

var (
	// ErrAdmissionNotFound means no recruitment unit matched the request
	ErrAdmissionNotFound = errors.New("mock-application admission not found")
	// ErrEmptyPool means the recruitment unit has no applicant records
	ErrEmptyPool = errors.New("mock-application pool is empty")
)

// Repository handles mock-application admission and applicant pool access
// ⭐ SSOT: 모의지원 데이터 접근은 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new mock-application repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const admissionColumns = `
	row_id, university_code, university_name, admission_group, recruitment_unit,
	recruitment_count, competition_rate, additional_pass_rank,
	total_pass_count, mock_applicant_count
`

func scanAdmission(row pgx.Row) (contracts.AdmissionInfo, error) {
	var a contracts.AdmissionInfo
	err := row.Scan(
		&a.RowID, &a.UniversityCode, &a.UniversityName, &a.Group, &a.RecruitmentUnit,
		&a.RecruitmentCount, &a.CompetitionRate, &a.AdditionalPassRank,
		&a.TotalPassCount, &a.MockApplicantCount,
	)
	return a, err
}

// GetAdmission loads one recruitment unit by row id
func (r *Repository) GetAdmission(ctx context.Context, rowID int64) (contracts.AdmissionInfo, error) {
	query := `
		SELECT ` + admissionColumns + `
		FROM mockapp.admission_info
		WHERE row_id = $1
	`

	a, err := scanAdmission(r.pool.QueryRow(ctx, query, rowID))
	if errors.Is(err, pgx.ErrNoRows) {
		return contracts.AdmissionInfo{}, ErrAdmissionNotFound
	}
	if err != nil {
		return contracts.AdmissionInfo{}, fmt.Errorf("failed to query admission %d: %w", rowID, err)
	}
	return a, nil
}

// FindAdmission locates a recruitment unit by university code + unit name,
// falling back to university name + unit name when no code matches.
// 대학코드가 비어 있는 원본 행이 있어 이름 매칭이 필요함
func (r *Repository) FindAdmission(ctx context.Context, universityCode, universityName, recruitmentUnit string) (contracts.AdmissionInfo, error) {
	byCode := `
		SELECT ` + admissionColumns + `
		FROM mockapp.admission_info
		WHERE university_code = $1 AND recruitment_unit = $2
		LIMIT 1
	`

	if universityCode != "" {
		a, err := scanAdmission(r.pool.QueryRow(ctx, byCode, universityCode, recruitmentUnit))
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return contracts.AdmissionInfo{}, fmt.Errorf("failed to query admission by code: %w", err)
		}
	}

	byName := `
		SELECT ` + admissionColumns + `
		FROM mockapp.admission_info
		WHERE university_name = $1 AND recruitment_unit = $2
		LIMIT 1
	`

	a, err := scanAdmission(r.pool.QueryRow(ctx, byName, universityName, recruitmentUnit))
	if errors.Is(err, pgx.ErrNoRows) {
		return contracts.AdmissionInfo{}, ErrAdmissionNotFound
	}
	if err != nil {
		return contracts.AdmissionInfo{}, fmt.Errorf("failed to query admission by name: %w", err)
	}
	return a, nil
}

// ListAdmissions returns recruitment units ordered by university then unit,
// optionally filtered by a name search term and admission group.
func (r *Repository) ListAdmissions(ctx context.Context, search, group string, limit, offset int) ([]contracts.AdmissionInfo, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(" AND (university_name ILIKE $%d OR recruitment_unit ILIKE $%d)", len(args), len(args))
	}
	if group != "" {
		args = append(args, group)
		where += fmt.Sprintf(" AND admission_group = $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM mockapp.admission_info" + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count admissions: %w", err)
	}

	query := `
		SELECT ` + admissionColumns + `
		FROM mockapp.admission_info` + where + `
		ORDER BY university_name, recruitment_unit
	`
	args = append(args, limit, offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query admissions: %w", err)
	}
	defer rows.Close()

	var admissions []contracts.AdmissionInfo
	for rows.Next() {
		a, err := scanAdmission(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan admission: %w", err)
		}
		admissions = append(admissions, a)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating admissions: %w", err)
	}

	return admissions, total, nil
}

// GetApplicants loads the full applicant pool for a recruitment unit, rank order
func (r *Repository) GetApplicants(ctx context.Context, rowID int64) ([]contracts.ApplicantRecord, error) {
	query := `
		SELECT rank, score, pass_status, COALESCE(note, '')
		FROM mockapp.applicants
		WHERE row_id = $1
		ORDER BY rank
	`

	rows, err := r.pool.Query(ctx, query, rowID)
	if err != nil {
		return nil, fmt.Errorf("failed to query applicants for row %d: %w", rowID, err)
	}
	defer rows.Close()

	var applicants []contracts.ApplicantRecord
	for rows.Next() {
		var a contracts.ApplicantRecord
		if err := rows.Scan(&a.Rank, &a.Score, &a.PassStatus, &a.Note); err != nil {
			return nil, fmt.Errorf("failed to scan applicant: %w", err)
		}
		applicants = append(applicants, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applicants: %w", err)
	}

	return applicants, nil
}
