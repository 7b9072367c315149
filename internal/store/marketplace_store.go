package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/wakati-labs/kwaheri/internal/domain"
)

func (s *PostgresStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, created_at FROM marketplace_categories ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func (s *PostgresStore) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, created_at FROM marketplace_categories WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying category: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) CreateListing(ctx context.Context, req domain.CreateListingRequest) (*domain.Listing, error) {
	var l domain.Listing
	err := s.pool.QueryRow(ctx, `
		INSERT INTO marketplace_listings (category_id, vendor_name, title, description, price, currency, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, category_id, vendor_name, title, description, price, currency, image_url, status, created_at, updated_at
	`, req.CategoryID, req.VendorName, req.Title, req.Description, req.Price, req.Currency, req.ImageURL).Scan(
		&l.ID, &l.CategoryID, &l.VendorName, &l.Title, &l.Description,
		&l.Price, &l.Currency, &l.ImageURL, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting listing: %w", err)
	}
	return &l, nil
}

func (s *PostgresStore) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	var l domain.Listing
	err := s.pool.QueryRow(ctx, `
		SELECT l.id, l.category_id, c.name, l.vendor_name, l.title, l.description,
		       l.price, l.currency, l.image_url, l.status, l.created_at, l.updated_at
		FROM marketplace_listings l
		JOIN marketplace_categories c ON c.id = l.category_id
		WHERE l.id = $1
	`, id).Scan(
		&l.ID, &l.CategoryID, &l.CategoryName, &l.VendorName, &l.Title, &l.Description,
		&l.Price, &l.Currency, &l.ImageURL, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying listing: %w", err)
	}
	return &l, nil
}

// ListListings returns listings newest first, optionally filtered by
// category and status.
func (s *PostgresStore) ListListings(ctx context.Context, categoryID, status string, limit int) ([]domain.Listing, error) {
	query := `
		SELECT l.id, l.category_id, c.name, l.vendor_name, l.title, l.description,
		       l.price, l.currency, l.image_url, l.status, l.created_at, l.updated_at
		FROM marketplace_listings l
		JOIN marketplace_categories c ON c.id = l.category_id`
	args := []interface{}{}
	where := ""

	if status != "" {
		args = append(args, status)
		where = fmt.Sprintf(" WHERE l.status = $%d", len(args))
	}
	if categoryID != "" {
		args = append(args, categoryID)
		if where == "" {
			where = fmt.Sprintf(" WHERE l.category_id = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND l.category_id = $%d", len(args))
		}
	}
	query += where + " ORDER BY l.created_at DESC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying listings: %w", err)
	}
	defer rows.Close()

	listings := []domain.Listing{}
	for rows.Next() {
		var l domain.Listing
		err := rows.Scan(&l.ID, &l.CategoryID, &l.CategoryName, &l.VendorName, &l.Title,
			&l.Description, &l.Price, &l.Currency, &l.ImageURL, &l.Status, &l.CreatedAt, &l.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, nil
}

func (s *PostgresStore) UpdateListingStatus(ctx context.Context, id, status string) (*domain.Listing, error) {
	var l domain.Listing
	err := s.pool.QueryRow(ctx, `
		UPDATE marketplace_listings SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, category_id, vendor_name, title, description, price, currency, image_url, status, created_at, updated_at
	`, id, status).Scan(
		&l.ID, &l.CategoryID, &l.VendorName, &l.Title, &l.Description,
		&l.Price, &l.Currency, &l.ImageURL, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("updating listing status: %w", err)
	}
	return &l, nil
}

func (s *PostgresStore) CountListingsByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM marketplace_listings WHERE status = $1", status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting listings: %w", err)
	}
	return n, nil
}
