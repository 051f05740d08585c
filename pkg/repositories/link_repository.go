package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kodinet/kodibot-engine/pkg/apperrors"
	"github.com/kodinet/kodibot-engine/pkg/database"
	"github.com/kodinet/kodibot-engine/pkg/models"
)

// LinkRepository provides data access for phone-to-citizen identity links.
type LinkRepository interface {
	GetByPhone(ctx context.Context, phone string) (*models.IdentityLink, error)
	// Upsert writes the link row for the phone number, overwriting any prior
	// attempt. The unique constraint on phone_number makes the write atomic
	// under concurrent linking attempts.
	Upsert(ctx context.Context, link *models.IdentityLink) error
	// MarkLinked completes verification: sets linked=true, records linkedAt
	// and clears the one-time code fields.
	MarkLinked(ctx context.Context, phone string, linkedAt time.Time) error
}

type linkRepository struct {
	db *database.DB
}

// NewLinkRepository creates a new LinkRepository.
func NewLinkRepository(db *database.DB) LinkRepository {
	return &linkRepository{db: db}
}

var _ LinkRepository = (*linkRepository)(nil)

func (r *linkRepository) GetByPhone(ctx context.Context, phone string) (*models.IdentityLink, error) {
	query := `
		SELECT id, phone_number, citizen_id, otp_code, otp_expires_at,
		       linked, linked_at, created_at
		FROM identity_links
		WHERE phone_number = $1`

	var l models.IdentityLink
	err := r.db.QueryRow(ctx, query, phone).Scan(
		&l.ID, &l.PhoneNumber, &l.CitizenID, &l.OTPCode, &l.OTPExpiresAt,
		&l.Linked, &l.LinkedAt, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get identity link: %w", err)
	}

	return &l, nil
}

func (r *linkRepository) Upsert(ctx context.Context, link *models.IdentityLink) error {
	query := `
		INSERT INTO identity_links (phone_number, citizen_id, otp_code,
		                            otp_expires_at, linked, linked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (phone_number) DO UPDATE
		SET citizen_id = EXCLUDED.citizen_id,
		    otp_code = EXCLUDED.otp_code,
		    otp_expires_at = EXCLUDED.otp_expires_at,
		    linked = EXCLUDED.linked,
		    linked_at = EXCLUDED.linked_at
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		link.PhoneNumber, link.CitizenID, link.OTPCode, link.OTPExpiresAt,
		link.Linked, link.LinkedAt,
	).Scan(&link.ID, &link.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert identity link: %w", err)
	}

	return nil
}

func (r *linkRepository) MarkLinked(ctx context.Context, phone string, linkedAt time.Time) error {
	query := `
		UPDATE identity_links
		SET linked = TRUE,
		    linked_at = $2,
		    otp_code = NULL,
		    otp_expires_at = NULL
		WHERE phone_number = $1`

	result, err := r.db.Exec(ctx, query, phone, linkedAt)
	if err != nil {
		return fmt.Errorf("failed to mark link verified: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
