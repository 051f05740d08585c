package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kodinet/kodibot-engine/pkg/database"
	"github.com/kodinet/kodibot-engine/pkg/models"
)

// TaxRepository provides read access to tax records. A citizen with no tax
// history yields an empty slice, not an error.
type TaxRepository interface {
	ListByCitizen(ctx context.Context, citizenID string) ([]*models.TaxRecord, error)
	Create(ctx context.Context, record *models.TaxRecord) error
}

type taxRepository struct {
	db *database.DB
}

// NewTaxRepository creates a new TaxRepository.
func NewTaxRepository(db *database.DB) TaxRepository {
	return &taxRepository{db: db}
}

var _ TaxRepository = (*taxRepository)(nil)

func (r *taxRepository) ListByCitizen(ctx context.Context, citizenID string) ([]*models.TaxRecord, error) {
	query := `
		SELECT id, citizen_id, tax_type, amount_due, amount_paid, due_date,
		       status, tax_year, created_at
		FROM tax_records
		WHERE citizen_id = $1
		ORDER BY tax_year DESC, id`

	rows, err := r.db.Query(ctx, query, citizenID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax records: %w", err)
	}
	defer rows.Close()

	return scanTaxRows(rows)
}

func (r *taxRepository) Create(ctx context.Context, record *models.TaxRecord) error {
	query := `
		INSERT INTO tax_records (citizen_id, tax_type, amount_due, amount_paid,
		                         due_date, status, tax_year)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		record.CitizenID, record.TaxType, record.AmountDue, record.AmountPaid,
		record.DueDate, record.Status, record.TaxYear,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tax record: %w", err)
	}

	return nil
}

func scanTaxRows(rows pgx.Rows) ([]*models.TaxRecord, error) {
	var records []*models.TaxRecord

	for rows.Next() {
		var t models.TaxRecord
		if err := rows.Scan(
			&t.ID, &t.CitizenID, &t.TaxType, &t.AmountDue, &t.AmountPaid,
			&t.DueDate, &t.Status, &t.TaxYear, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tax record: %w", err)
		}
		records = append(records, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}
