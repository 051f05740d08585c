package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kodinet/kodibot-engine/pkg/apperrors"
	"github.com/kodinet/kodibot-engine/pkg/database"
	"github.com/kodinet/kodibot-engine/pkg/models"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// KCAFRepository provides data access for K-CAF property assessment records.
type KCAFRepository interface {
	GetByParcel(ctx context.Context, parcelNumber string) (*models.KCAFRecord, error)
	// Create inserts the assessment for its parcel. Returns
	// apperrors.ErrAlreadyExists when the parcel is already assessed.
	Create(ctx context.Context, record *models.KCAFRecord) error
}

type kcafRepository struct {
	db *database.DB
}

// NewKCAFRepository creates a new KCAFRepository.
func NewKCAFRepository(db *database.DB) KCAFRepository {
	return &kcafRepository{db: db}
}

var _ KCAFRepository = (*kcafRepository)(nil)

func (r *kcafRepository) GetByParcel(ctx context.Context, parcelNumber string) (*models.KCAFRecord, error) {
	query := `
		SELECT id, parcel_number, nature_propriete, usage_principal,
		       nom_proprietaire, nationalite_proprietaire, type_possession,
		       telephone_proprietaire, etat_civil_proprietaire, sexe_proprietaire,
		       adresse_ville, adresse_commune, adresse_quartier, adresse_avenue,
		       adresse_numero, type_personne, type_batiment, nombre_etages,
		       nombre_appartements, nombre_appartements_vides, appartements_details,
		       plaque_identification, raccordements, distance_sante,
		       distance_education, acces_eau_potable, gestion_dechets, photo_url,
		       montant_a_payer, etat, numero_collecteur, created_at, updated_at
		FROM kcaf_records
		WHERE parcel_number = $1`

	var rec models.KCAFRecord
	err := r.db.QueryRow(ctx, query, parcelNumber).Scan(
		&rec.ID, &rec.ParcelNumber, &rec.NaturePropriete, &rec.UsagePrincipal,
		&rec.NomProprietaire, &rec.NationaliteProprietaire, &rec.TypePossession,
		&rec.TelephoneProprietaire, &rec.EtatCivilProprietaire, &rec.SexeProprietaire,
		&rec.AdresseVille, &rec.AdresseCommune, &rec.AdresseQuartier, &rec.AdresseAvenue,
		&rec.AdresseNumero, &rec.TypePersonne, &rec.TypeBatiment, &rec.NombreEtages,
		&rec.NombreAppartements, &rec.NombreAppartementsVides, &rec.AppartementsDetails,
		&rec.PlaqueIdentification, &rec.Raccordements, &rec.DistanceSante,
		&rec.DistanceEducation, &rec.AccesEauPotable, &rec.GestionDechets, &rec.PhotoURL,
		&rec.MontantAPayer, &rec.Etat, &rec.NumeroCollecteur, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get kcaf record: %w", err)
	}

	return &rec, nil
}

func (r *kcafRepository) Create(ctx context.Context, record *models.KCAFRecord) error {
	if record.AdresseVille == "" {
		record.AdresseVille = "Kinshasa"
	}
	if record.AppartementsDetails == nil {
		record.AppartementsDetails = []models.KCAFApartment{}
	}

	query := `
		INSERT INTO kcaf_records (parcel_number, nature_propriete, usage_principal,
		                          nom_proprietaire, nationalite_proprietaire,
		                          type_possession, telephone_proprietaire,
		                          etat_civil_proprietaire, sexe_proprietaire,
		                          adresse_ville, adresse_commune, adresse_quartier,
		                          adresse_avenue, adresse_numero, type_personne,
		                          type_batiment, nombre_etages, nombre_appartements,
		                          nombre_appartements_vides, appartements_details,
		                          plaque_identification, raccordements, distance_sante,
		                          distance_education, acces_eau_potable, gestion_dechets,
		                          photo_url, montant_a_payer, etat, numero_collecteur)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		record.ParcelNumber, record.NaturePropriete, record.UsagePrincipal,
		record.NomProprietaire, record.NationaliteProprietaire,
		record.TypePossession, record.TelephoneProprietaire,
		record.EtatCivilProprietaire, record.SexeProprietaire,
		record.AdresseVille, record.AdresseCommune, record.AdresseQuartier,
		record.AdresseAvenue, record.AdresseNumero, record.TypePersonne,
		record.TypeBatiment, record.NombreEtages, record.NombreAppartements,
		record.NombreAppartementsVides, record.AppartementsDetails,
		record.PlaqueIdentification, record.Raccordements, record.DistanceSante,
		record.DistanceEducation, record.AccesEauPotable, record.GestionDechets,
		record.PhotoURL, record.MontantAPayer, record.Etat, record.NumeroCollecteur,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create kcaf record: %w", err)
	}

	return nil
}
