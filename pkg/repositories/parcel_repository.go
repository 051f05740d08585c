package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kodinet/kodibot-engine/pkg/database"
	"github.com/kodinet/kodibot-engine/pkg/models"
)

// ParcelRepository provides read access to cadastral parcel records.
type ParcelRepository interface {
	ListByCitizen(ctx context.Context, citizenID string) ([]*models.Parcel, error)
	Create(ctx context.Context, parcel *models.Parcel) error
}

type parcelRepository struct {
	db *database.DB
}

// NewParcelRepository creates a new ParcelRepository.
func NewParcelRepository(db *database.DB) ParcelRepository {
	return &parcelRepository{db: db}
}

var _ ParcelRepository = (*parcelRepository)(nil)

func (r *parcelRepository) ListByCitizen(ctx context.Context, citizenID string) ([]*models.Parcel, error) {
	query := `
		SELECT id, citizen_id, parcel_number, property_type, address,
		       area_sqm, estimated_value, status, created_at
		FROM parcels
		WHERE citizen_id = $1
		ORDER BY parcel_number`

	rows, err := r.db.Query(ctx, query, citizenID)
	if err != nil {
		return nil, fmt.Errorf("failed to query parcels: %w", err)
	}
	defer rows.Close()

	return scanParcelRows(rows)
}

func (r *parcelRepository) Create(ctx context.Context, parcel *models.Parcel) error {
	query := `
		INSERT INTO parcels (citizen_id, parcel_number, property_type, address,
		                     area_sqm, estimated_value, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		parcel.CitizenID, parcel.ParcelNumber, parcel.PropertyType, parcel.Address,
		parcel.AreaSqm, parcel.EstimatedValue, parcel.Status,
	).Scan(&parcel.ID, &parcel.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create parcel: %w", err)
	}

	return nil
}

func scanParcelRows(rows pgx.Rows) ([]*models.Parcel, error) {
	var parcels []*models.Parcel

	for rows.Next() {
		var p models.Parcel
		if err := rows.Scan(
			&p.ID, &p.CitizenID, &p.ParcelNumber, &p.PropertyType, &p.Address,
			&p.AreaSqm, &p.EstimatedValue, &p.Status, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan parcel: %w", err)
		}
		parcels = append(parcels, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return parcels, nil
}
