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

// ETaxRepository provides read access to e-tax platform accounts.
type ETaxRepository interface {
	GetByCitizen(ctx context.Context, citizenID string) (*models.ETaxAccount, error)
	Create(ctx context.Context, account *models.ETaxAccount) error
}

type etaxRepository struct {
	db *database.DB
}

// NewETaxRepository creates a new ETaxRepository.
func NewETaxRepository(db *database.DB) ETaxRepository {
	return &etaxRepository{db: db}
}

var _ ETaxRepository = (*etaxRepository)(nil)

func (r *etaxRepository) GetByCitizen(ctx context.Context, citizenID string) (*models.ETaxAccount, error) {
	query := `
		SELECT id, citizen_id, status, account_type, verification_level,
		       registration_date, last_login, payment_methods,
		       tax_returns_filed, last_filing_date, compliance_score, created_at
		FROM etax_accounts
		WHERE citizen_id = $1`

	var a models.ETaxAccount
	err := r.db.QueryRow(ctx, query, citizenID).Scan(
		&a.ID, &a.CitizenID, &a.Status, &a.AccountType, &a.VerificationLevel,
		&a.RegistrationDate, &a.LastLogin, &a.PaymentMethods,
		&a.TaxReturnsFiled, &a.LastFilingDate, &a.ComplianceScore, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get etax account: %w", err)
	}

	return &a, nil
}

func (r *etaxRepository) Create(ctx context.Context, account *models.ETaxAccount) error {
	query := `
		INSERT INTO etax_accounts (citizen_id, status, account_type,
		                           verification_level, registration_date,
		                           last_login, payment_methods, tax_returns_filed,
		                           last_filing_date, compliance_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		account.CitizenID, account.Status, account.AccountType,
		account.VerificationLevel, account.RegistrationDate, account.LastLogin,
		account.PaymentMethods, account.TaxReturnsFiled, account.LastFilingDate,
		account.ComplianceScore,
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create etax account: %w", err)
	}

	return nil
}
