// Package repositories provides pgx-backed data access for the kodibot
// domain entities.
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

// CitizenRepository provides read access to the authoritative citizen
// records. Create exists for seeding and tests; the engine never mutates
// citizens at runtime.
type CitizenRepository interface {
	GetByCitizenID(ctx context.Context, citizenID string) (*models.Citizen, error)
	Create(ctx context.Context, citizen *models.Citizen) error
}

type citizenRepository struct {
	db *database.DB
}

// NewCitizenRepository creates a new CitizenRepository.
func NewCitizenRepository(db *database.DB) CitizenRepository {
	return &citizenRepository{db: db}
}

var _ CitizenRepository = (*citizenRepository)(nil)

func (r *citizenRepository) GetByCitizenID(ctx context.Context, citizenID string) (*models.Citizen, error) {
	query := `
		SELECT id, phone_number, citizen_id, first_name, last_name, email,
		       address, date_of_birth, is_verified, created_at
		FROM citizens
		WHERE citizen_id = $1`

	var c models.Citizen
	err := r.db.QueryRow(ctx, query, citizenID).Scan(
		&c.ID, &c.PhoneNumber, &c.CitizenID, &c.FirstName, &c.LastName,
		&c.Email, &c.Address, &c.DateOfBirth, &c.IsVerified, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get citizen: %w", err)
	}

	return &c, nil
}

func (r *citizenRepository) Create(ctx context.Context, citizen *models.Citizen) error {
	query := `
		INSERT INTO citizens (phone_number, citizen_id, first_name, last_name,
		                      email, address, date_of_birth, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		citizen.PhoneNumber, citizen.CitizenID, citizen.FirstName, citizen.LastName,
		citizen.Email, citizen.Address, citizen.DateOfBirth, citizen.IsVerified,
	).Scan(&citizen.ID, &citizen.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create citizen: %w", err)
	}

	return nil
}
