package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"ecoscan-backend/internal/apierr"
	"ecoscan-backend/internal/models"
)

// Client is the persistence layer. Every scan read, update, and delete is
// scoped by (id, user_id): a record owned by someone else behaves exactly
// like one that does not exist.
type Client struct {
	db *sql.DB
}

func NewClient(connectionString string) (*Client, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db}, nil
}

const scanColumns = `id, user_id, image_url, image_public_id, product_name, material_type,
	recyclability, carbon_footprint, disposal_method, alternative_suggestions, created_at`

// CreateScan persists a classified scan in a single write. The caller fills
// owner, image reference, and the six assessment fields; id and created_at
// come back from the store.
func (c *Client) CreateScan(scan *models.Scan) (*models.Scan, error) {
	err := c.db.QueryRow(`
		INSERT INTO scans (user_id, image_url, image_public_id, product_name, material_type,
			recyclability, carbon_footprint, disposal_method, alternative_suggestions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, scan.UserID, scan.ImageURL, scan.ImagePublicID, scan.ProductName, scan.MaterialType,
		scan.Recyclability, scan.CarbonFootprint, scan.DisposalMethod, scan.AlternativeSuggestions,
	).Scan(&scan.ID, &scan.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, apierr.Conflict("Duplicate record", map[string]string{"constraint": pqErr.Constraint})
		}
		return nil, fmt.Errorf("failed to create scan: %w", err)
	}

	return scan, nil
}

func (c *Client) ListScans(userID uuid.UUID) ([]models.Scan, error) {
	rows, err := c.db.Query(`
		SELECT `+scanColumns+`
		FROM scans
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	scans := []models.Scan{}
	for rows.Next() {
		var scan models.Scan
		if err := scanRow(rows, &scan); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		scans = append(scans, scan)
	}

	return scans, rows.Err()
}

func (c *Client) GetScan(scanID, userID uuid.UUID) (*models.Scan, error) {
	var scan models.Scan
	row := c.db.QueryRow(`
		SELECT `+scanColumns+`
		FROM scans
		WHERE id = $1 AND user_id = $2
	`, scanID, userID)
	if err := scanRow(row, &scan); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierr.NotFound("Scan not found")
		}
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}

	return &scan, nil
}

func (c *Client) DeleteScan(scanID, userID uuid.UUID) error {
	result, err := c.db.Exec(`
		DELETE FROM scans
		WHERE id = $1 AND user_id = $2
	`, scanID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete scan: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete scan: %w", err)
	}
	if affected == 0 {
		return apierr.NotFound("Scan not found")
	}

	return nil
}

func (c *Client) DeleteAllScans(userID uuid.UUID) error {
	_, err := c.db.Exec(`
		DELETE FROM scans
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete scans: %w", err)
	}
	return nil
}

func (c *Client) UpsertProfile(profile *models.Profile) (*models.Profile, error) {
	err := c.db.QueryRow(`
		INSERT INTO profiles (id, email, full_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email, full_name = EXCLUDED.full_name, updated_at = NOW()
		RETURNING created_at, updated_at
	`, profile.ID, profile.Email, profile.FullName).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, apierr.Conflict("Duplicate record", map[string]string{"constraint": pqErr.Constraint})
		}
		return nil, fmt.Errorf("failed to sync profile: %w", err)
	}

	return profile, nil
}

func (c *Client) GetProfile(profileID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := c.db.QueryRow(`
		SELECT id, email, full_name, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`, profileID).Scan(&profile.ID, &profile.Email, &profile.FullName, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierr.NotFound("Profile not found")
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner, scan *models.Scan) error {
	return row.Scan(
		&scan.ID, &scan.UserID, &scan.ImageURL, &scan.ImagePublicID,
		&scan.ProductName, &scan.MaterialType, &scan.Recyclability,
		&scan.CarbonFootprint, &scan.DisposalMethod, &scan.AlternativeSuggestions,
		&scan.CreatedAt,
	)
}
