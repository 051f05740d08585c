package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kodinet/kodibot-engine/pkg/apperrors"
	"github.com/kodinet/kodibot-engine/pkg/database"
	"github.com/kodinet/kodibot-engine/pkg/models"
)

// ProcedureRepository provides read access to the administrative procedure
// catalog.
type ProcedureRepository interface {
	// FindByNameFragment returns the first procedure whose name contains the
	// fragment, case-insensitively.
	FindByNameFragment(ctx context.Context, fragment string) (*models.Procedure, error)
	// ListSummaries returns name and description for up to limit procedures.
	ListSummaries(ctx context.Context, limit int) ([]*models.ProcedureSummary, error)
	Create(ctx context.Context, procedure *models.Procedure) error
}

type procedureRepository struct {
	db *database.DB
}

// NewProcedureRepository creates a new ProcedureRepository.
func NewProcedureRepository(db *database.DB) ProcedureRepository {
	return &procedureRepository{db: db}
}

var _ ProcedureRepository = (*procedureRepository)(nil)

func (r *procedureRepository) FindByNameFragment(ctx context.Context, fragment string) (*models.Procedure, error) {
	query := `
		SELECT id, name, description, steps, required_documents,
		       estimated_duration, cost, department, created_at
		FROM procedures
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT 1`

	var p models.Procedure
	err := r.db.QueryRow(ctx, query, fragment).Scan(
		&p.ID, &p.Name, &p.Description, &p.Steps, &p.RequiredDocuments,
		&p.EstimatedDuration, &p.Cost, &p.Department, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find procedure: %w", err)
	}

	return &p, nil
}

func (r *procedureRepository) ListSummaries(ctx context.Context, limit int) ([]*models.ProcedureSummary, error) {
	query := `
		SELECT name, description
		FROM procedures
		ORDER BY name
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query procedures: %w", err)
	}
	defer rows.Close()

	var summaries []*models.ProcedureSummary
	for rows.Next() {
		var s models.ProcedureSummary
		if err := rows.Scan(&s.Name, &s.Description); err != nil {
			return nil, fmt.Errorf("failed to scan procedure summary: %w", err)
		}
		summaries = append(summaries, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return summaries, nil
}

func (r *procedureRepository) Create(ctx context.Context, procedure *models.Procedure) error {
	query := `
		INSERT INTO procedures (name, description, steps, required_documents,
		                        estimated_duration, cost, department)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		procedure.Name, procedure.Description, procedure.Steps,
		procedure.RequiredDocuments, procedure.EstimatedDuration,
		procedure.Cost, procedure.Department,
	).Scan(&procedure.ID, &procedure.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create procedure: %w", err)
	}

	return nil
}
