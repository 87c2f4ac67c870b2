package competition

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/jungsi/backend/internal/contracts"
)

// Repository persists scraped competition rates
// ⭐ SSOT: 경쟁률 데이터 접근은 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new competition-rate repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ReplaceRates swaps a university's rows for a fresh crawl result.
// 크롤링 단위가 대학이므로 대학 단위로 지우고 다시 넣는다.
func (r *Repository) ReplaceRates(ctx context.Context, universityName string, rates []contracts.CompetitionRate) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM jungsi.competition_rates WHERE university_name = $1`, universityName)
	if err != nil {
		return fmt.Errorf("failed to delete old rates: %w", err)
	}

	query := `
		INSERT INTO jungsi.competition_rates
			(university_code, university_name, admission_type, college,
			 recruitment_name, quota, applicants, rate, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	batch := &pgx.Batch{}
	for _, rate := range rates {
		batch.Queue(query,
			rate.UniversityCode, rate.UniversityName, rate.AdmissionType, rate.College,
			rate.RecruitmentName, rate.Quota, rate.Applicants, rate.Rate, rate.FetchedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range rates {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert rate: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	return tx.Commit(ctx)
}

// GetLatest returns the freshest rows, optionally filtered by university name
func (r *Repository) GetLatest(ctx context.Context, universityName string) ([]contracts.CompetitionRate, error) {
	query := `
		SELECT university_code, university_name, admission_type, college,
		       recruitment_name, quota, applicants, rate, fetched_at
		FROM jungsi.competition_rates
	`

	var rows pgx.Rows
	var err error
	if universityName != "" {
		rows, err = r.pool.Query(ctx, query+" WHERE university_name = $1 ORDER BY admission_type, recruitment_name", universityName)
	} else {
		rows, err = r.pool.Query(ctx, query+" ORDER BY university_name, admission_type, recruitment_name")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query competition rates: %w", err)
	}
	defer rows.Close()

	var rates []contracts.CompetitionRate
	for rows.Next() {
		var c contracts.CompetitionRate
		err := rows.Scan(
			&c.UniversityCode, &c.UniversityName, &c.AdmissionType, &c.College,
			&c.RecruitmentName, &c.Quota, &c.Applicants, &c.Rate, &c.FetchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan competition rate: %w", err)
		}
		rates = append(rates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating competition rates: %w", err)
	}

	return rates, nil
}
