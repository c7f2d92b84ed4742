package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/helios/internal/database"
	"github.com/stwalsh4118/helios/internal/models"
)

// List limits for ListByUser.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// CalculationRepository stores and reads saved calculations.
type CalculationRepository interface {
	// Save inserts calc. A zero ID or CreatedAt is filled in before writing.
	Save(ctx context.Context, calc *models.SavedCalculation) error

	// FindByID returns nil, nil when no calculation has the given id.
	FindByID(ctx context.Context, id uuid.UUID) (*models.SavedCalculation, error)

	// ListByUser returns the newest calculations for userKey first.
	// limit is clamped to [1, MaxListLimit].
	ListByUser(ctx context.Context, userKey string, limit int) ([]models.SavedCalculation, error)
}

type calculationRepository struct {
	db *database.Database
}

// NewCalculationRepository creates a CalculationRepository backed by db.
func NewCalculationRepository(db *database.Database) CalculationRepository {
	return &calculationRepository{db: db}
}

// ClampLimit maps a requested page size onto [1, MaxListLimit]; values
// below 1 get DefaultListLimit.
func ClampLimit(limit int) int {
	switch {
	case limit < 1:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

func (r *calculationRepository) Save(ctx context.Context, calc *models.SavedCalculation) error {
	if calc.ID == uuid.Nil {
		calc.ID = uuid.New()
	}
	if calc.CreatedAt.IsZero() {
		calc.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO solar_calculations (id, user_key, inputs, results, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query, calc.ID, calc.UserKey, calc.Inputs, calc.Results, calc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save calculation %s: %w", calc.ID, err)
	}
	return nil
}

func (r *calculationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.SavedCalculation, error) {
	query := `
		SELECT id, user_key, inputs, results, created_at
		FROM solar_calculations
		WHERE id = $1
	`

	var calc models.SavedCalculation
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&calc.ID,
		&calc.UserKey,
		&calc.Inputs,
		&calc.Results,
		&calc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query calculation %s: %w", id, err)
	}
	return &calc, nil
}

func (r *calculationRepository) ListByUser(ctx context.Context, userKey string, limit int) ([]models.SavedCalculation, error) {
	query := `
		SELECT id, user_key, inputs, results, created_at
		FROM solar_calculations
		WHERE user_key = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, userKey, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations for %q: %w", userKey, err)
	}
	defer rows.Close()

	calcs := make([]models.SavedCalculation, 0)
	for rows.Next() {
		var calc models.SavedCalculation
		if err := rows.Scan(&calc.ID, &calc.UserKey, &calc.Inputs, &calc.Results, &calc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan calculation row: %w", err)
		}
		calcs = append(calcs, calc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating calculation rows: %w", err)
	}
	return calcs, nil
}
