package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/wakati-labs/kwaheri/internal/domain"
)

func (s *PostgresStore) CreateFundraiser(ctx context.Context, ownerID string, req domain.CreateFundraiserRequest) (*domain.Fundraiser, error) {
	var f domain.Fundraiser
	err := s.pool.QueryRow(ctx, `
		INSERT INTO fundraisers (owner_id, title, story, target_amount, currency)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, owner_id, title, story, target_amount, currency, total_raised, status, created_at, updated_at
	`, ownerID, req.Title, req.Story, req.TargetAmount, req.Currency).Scan(
		&f.ID, &f.OwnerID, &f.Title, &f.Story, &f.TargetAmount, &f.Currency,
		&f.TotalRaised, &f.Status, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting fundraiser: %w", err)
	}
	return &f, nil
}

func (s *PostgresStore) GetFundraiser(ctx context.Context, id string) (*domain.Fundraiser, error) {
	var f domain.Fundraiser
	err := s.pool.QueryRow(ctx, `
		SELECT f.id, f.owner_id, u.full_name, f.title, f.story, f.target_amount,
		       f.currency, f.total_raised, f.status, f.created_at, f.updated_at
		FROM fundraisers f
		JOIN users u ON u.id = f.owner_id
		WHERE f.id = $1
	`, id).Scan(
		&f.ID, &f.OwnerID, &f.OwnerName, &f.Title, &f.Story, &f.TargetAmount,
		&f.Currency, &f.TotalRaised, &f.Status, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying fundraiser: %w", err)
	}
	return &f, nil
}

// ListFundraisers returns fundraisers newest first, optionally filtered to
// one status. Visibility filtering happens above the store, against the
// projected invite configuration.
func (s *PostgresStore) ListFundraisers(ctx context.Context, status string) ([]domain.Fundraiser, error) {
	query := `
		SELECT f.id, f.owner_id, u.full_name, f.title, f.story, f.target_amount,
		       f.currency, f.total_raised, f.status, f.created_at, f.updated_at
		FROM fundraisers f
		JOIN users u ON u.id = f.owner_id`
	args := []interface{}{}

	if status != "" {
		query += " WHERE f.status = $1"
		args = append(args, status)
	}
	query += " ORDER BY f.created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying fundraisers: %w", err)
	}
	defer rows.Close()

	fundraisers := []domain.Fundraiser{}
	for rows.Next() {
		var f domain.Fundraiser
		err := rows.Scan(&f.ID, &f.OwnerID, &f.OwnerName, &f.Title, &f.Story,
			&f.TargetAmount, &f.Currency, &f.TotalRaised, &f.Status, &f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning fundraiser: %w", err)
		}
		fundraisers = append(fundraisers, f)
	}
	return fundraisers, nil
}

func (s *PostgresStore) UpdateFundraiserStatus(ctx context.Context, id, status string) (*domain.Fundraiser, error) {
	var f domain.Fundraiser
	err := s.pool.QueryRow(ctx, `
		UPDATE fundraisers SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, owner_id, title, story, target_amount, currency, total_raised, status, created_at, updated_at
	`, id, status).Scan(
		&f.ID, &f.OwnerID, &f.Title, &f.Story, &f.TargetAmount, &f.Currency,
		&f.TotalRaised, &f.Status, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("updating fundraiser status: %w", err)
	}
	return &f, nil
}

// CreateContribution inserts the contribution and increments the fundraiser
// total in one transaction.
func (s *PostgresStore) CreateContribution(ctx context.Context, fundraiserID string, req domain.CreateContributionRequest) (*domain.Contribution, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var c domain.Contribution
	err = tx.QueryRow(ctx, `
		INSERT INTO fundraiser_contributions (fundraiser_id, contributor_name, contributor_email, amount, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, fundraiser_id, contributor_name, contributor_email, amount, message, created_at
	`, fundraiserID, req.ContributorName, req.ContributorEmail, req.Amount, req.Message).Scan(
		&c.ID, &c.FundraiserID, &c.ContributorName, &c.ContributorEmail, &c.Amount, &c.Message, &c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting contribution: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE fundraisers SET total_raised = total_raised + $2, updated_at = NOW()
		WHERE id = $1
	`, fundraiserID, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("incrementing total raised: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing contribution: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) ListContributions(ctx context.Context, fundraiserID string) ([]domain.Contribution, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, fundraiser_id, contributor_name, contributor_email, amount, message, created_at
		FROM fundraiser_contributions
		WHERE fundraiser_id = $1
		ORDER BY created_at DESC
	`, fundraiserID)
	if err != nil {
		return nil, fmt.Errorf("querying contributions: %w", err)
	}
	defer rows.Close()

	contributions := []domain.Contribution{}
	for rows.Next() {
		var c domain.Contribution
		err := rows.Scan(&c.ID, &c.FundraiserID, &c.ContributorName, &c.ContributorEmail,
			&c.Amount, &c.Message, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning contribution: %w", err)
		}
		contributions = append(contributions, c)
	}
	return contributions, nil
}

func (s *PostgresStore) CountFundraisersByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM fundraisers WHERE status = $1", status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting fundraisers: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) SumTotalRaised(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, "SELECT COALESCE(SUM(total_raised), 0) FROM fundraisers").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("summing total raised: %w", err)
	}
	return n, nil
}
