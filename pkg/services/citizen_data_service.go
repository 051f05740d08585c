package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kodinet/kodibot-engine/pkg/apperrors"
	"github.com/kodinet/kodibot-engine/pkg/models"
	"github.com/kodinet/kodibot-engine/pkg/repositories"
)

// valueUndefined is the French placeholder for an absent optional value.
const valueUndefined = "Non définie"

const procedureSummaryLimit = 5

// frDate renders a date the way citizens read it, day first.
func frDate(t *time.Time) string {
	if t == nil {
		return valueUndefined
	}
	return t.Format("02/01/2006")
}

// ProfileContext is the citizen profile shape serialized into the model
// prompt. Field names are French because the model answers in French.
type ProfileContext struct {
	Nom           string `json:"nom"`
	DateNaissance string `json:"date_naissance"`
	Adresse       string `json:"adresse"`
	Email         string `json:"email"`
}

// TaxLine is one tax record in the prompt context.
type TaxLine struct {
	Type       string  `json:"type"`
	AmountDue  float64 `json:"montant_du"`
	AmountPaid float64 `json:"montant_paye"`
	Status     string  `json:"statut"`
	Year       int     `json:"annee"`
	DueDate    string  `json:"echeance"`
}

// TaxContext aggregates the citizen's tax records with running totals.
// Balance is always TotalDue minus TotalPaid.
type TaxContext struct {
	Taxes     []TaxLine `json:"taxes"`
	TotalDue  float64   `json:"total_du"`
	TotalPaid float64   `json:"total_paye"`
	Balance   float64   `json:"solde"`
}

// ParcelLine is one cadastral parcel in the prompt context.
type ParcelLine struct {
	Number         string  `json:"numero_parcelle"`
	Type           string  `json:"type"`
	Address        string  `json:"adresse"`
	Area           string  `json:"superficie"`
	EstimatedValue float64 `json:"valeur_estimee"`
	Status         string  `json:"statut"`
}

// ParcelsContext lists the citizen's parcels.
type ParcelsContext struct {
	Parcelles []ParcelLine `json:"parcelles"`
	Total     int          `json:"nombre_total"`
}

// ProcedureDetail is the full shape for a single matched procedure.
type ProcedureDetail struct {
	Nom             string   `json:"nom"`
	Description     string   `json:"description"`
	Etapes          []string `json:"etapes"`
	DocumentsRequis []string `json:"documents_requis"`
	DureeEstimee    string   `json:"duree_estimee"`
	Cout            float64  `json:"cout"`
	Departement     string   `json:"departement"`
}

// procedureSummaryLine is the light shape used when listing procedures.
type procedureSummaryLine struct {
	Nom         string `json:"nom"`
	Description string `json:"description"`
}

// ProcedureContext is a tagged variant: exactly one of Detail or Summaries
// is set. Detail when a name fragment matched a procedure, Summaries when no
// fragment was supplied and common procedures are listed instead.
type ProcedureContext struct {
	Detail    *ProcedureDetail
	Summaries []*models.ProcedureSummary
}

// MarshalJSON renders whichever variant is populated.
func (p ProcedureContext) MarshalJSON() ([]byte, error) {
	if p.Detail != nil {
		return json.Marshal(p.Detail)
	}
	lines := make([]procedureSummaryLine, len(p.Summaries))
	for i, s := range p.Summaries {
		lines[i] = procedureSummaryLine{Nom: s.Name, Description: s.Description}
	}
	return json.Marshal(map[string][]procedureSummaryLine{"procedures": lines})
}

// ETaxContext is the e-tax account shape serialized into the prompt.
type ETaxContext struct {
	Status            string   `json:"status"`
	StatusDisplay     string   `json:"status_display"`
	AccountType       string   `json:"account_type"`
	VerificationLevel string   `json:"verification_level"`
	RegistrationDate  string   `json:"registration_date"`
	LastLogin         string   `json:"last_login"`
	PaymentMethods    []string `json:"payment_methods"`
	TaxReturnsFiled   int      `json:"tax_returns_filed"`
	LastFilingDate    string   `json:"last_filing_date"`
	ComplianceScore   int      `json:"compliance_score"`
	ComplianceLevel   string   `json:"compliance_level"`
}

// CitizenDataService is the read-only gateway over citizen-scoped data. All
// lookups are keyed by citizen ID; a lookup never crosses citizens.
type CitizenDataService interface {
	GetProfile(ctx context.Context, citizenID string) (*ProfileContext, error)
	GetTaxSummary(ctx context.Context, citizenID string) (*TaxContext, error)
	GetParcels(ctx context.Context, citizenID string) (*ParcelsContext, error)
	// GetProcedure resolves a procedure by name fragment, or lists common
	// procedures when the fragment is empty. Returns apperrors.ErrNotFound
	// when a fragment was given but nothing matched.
	GetProcedure(ctx context.Context, nameFragment string) (*ProcedureContext, error)
	GetETaxStatus(ctx context.Context, citizenID string) (*ETaxContext, error)
	// ContextFor serializes the data for a classified intent into the JSON
	// string embedded in the generation prompt.
	ContextFor(ctx context.Context, intent models.Intent, citizenID string, slots map[string]string) (string, error)
}

type citizenDataService struct {
	citizens   repositories.CitizenRepository
	taxes      repositories.TaxRepository
	parcels    repositories.ParcelRepository
	procedures repositories.ProcedureRepository
	etax       repositories.ETaxRepository
	logger     *zap.Logger
}

// NewCitizenDataService creates a new CitizenDataService.
func NewCitizenDataService(
	citizens repositories.CitizenRepository,
	taxes repositories.TaxRepository,
	parcels repositories.ParcelRepository,
	procedures repositories.ProcedureRepository,
	etax repositories.ETaxRepository,
	logger *zap.Logger,
) CitizenDataService {
	return &citizenDataService{
		citizens:   citizens,
		taxes:      taxes,
		parcels:    parcels,
		procedures: procedures,
		etax:       etax,
		logger:     logger.Named("citizen_data"),
	}
}

var _ CitizenDataService = (*citizenDataService)(nil)

func (s *citizenDataService) GetProfile(ctx context.Context, citizenID string) (*ProfileContext, error) {
	citizen, err := s.citizens.GetByCitizenID(ctx, citizenID)
	if err != nil {
		return nil, err
	}

	profile := &ProfileContext{
		Nom:           citizen.DisplayName(),
		DateNaissance: frDate(citizen.DateOfBirth),
		Adresse:       citizen.Address,
		Email:         citizen.Email,
	}
	if profile.Adresse == "" {
		profile.Adresse = valueUndefined
	}
	if profile.Email == "" {
		profile.Email = valueUndefined
	}

	return profile, nil
}

func (s *citizenDataService) GetTaxSummary(ctx context.Context, citizenID string) (*TaxContext, error) {
	records, err := s.taxes.ListByCitizen(ctx, citizenID)
	if err != nil {
		return nil, err
	}

	summary := &TaxContext{Taxes: make([]TaxLine, 0, len(records))}
	for _, rec := range records {
		summary.Taxes = append(summary.Taxes, TaxLine{
			Type:       rec.TaxType,
			AmountDue:  rec.AmountDue,
			AmountPaid: rec.AmountPaid,
			Status:     rec.Status,
			Year:       rec.TaxYear,
			DueDate:    frDate(rec.DueDate),
		})
		summary.TotalDue += rec.AmountDue
		summary.TotalPaid += rec.AmountPaid
	}
	summary.Balance = summary.TotalDue - summary.TotalPaid

	return summary, nil
}

func (s *citizenDataService) GetParcels(ctx context.Context, citizenID string) (*ParcelsContext, error) {
	parcels, err := s.parcels.ListByCitizen(ctx, citizenID)
	if err != nil {
		return nil, err
	}

	out := &ParcelsContext{Parcelles: make([]ParcelLine, 0, len(parcels))}
	for _, p := range parcels {
		area := valueUndefined
		if p.AreaSqm > 0 {
			area = fmt.Sprintf("%g m²", p.AreaSqm)
		}
		out.Parcelles = append(out.Parcelles, ParcelLine{
			Number:         p.ParcelNumber,
			Type:           p.PropertyType,
			Address:        p.Address,
			Area:           area,
			EstimatedValue: p.EstimatedValue,
			Status:         p.Status,
		})
	}
	out.Total = len(out.Parcelles)

	return out, nil
}

func (s *citizenDataService) GetProcedure(ctx context.Context, nameFragment string) (*ProcedureContext, error) {
	if nameFragment == "" {
		summaries, err := s.procedures.ListSummaries(ctx, procedureSummaryLimit)
		if err != nil {
			return nil, err
		}
		return &ProcedureContext{Summaries: summaries}, nil
	}

	proc, err := s.procedures.FindByNameFragment(ctx, nameFragment)
	if err != nil {
		return nil, err
	}

	return &ProcedureContext{Detail: &ProcedureDetail{
		Nom:             proc.Name,
		Description:     proc.Description,
		Etapes:          proc.Steps,
		DocumentsRequis: proc.RequiredDocuments,
		DureeEstimee:    proc.EstimatedDuration,
		Cout:            proc.Cost,
		Departement:     proc.Department,
	}}, nil
}

func (s *citizenDataService) GetETaxStatus(ctx context.Context, citizenID string) (*ETaxContext, error) {
	account, err := s.etax.GetByCitizen(ctx, citizenID)
	if err != nil {
		return nil, err
	}

	statusEmoji := "⚠️"
	if account.Status == "active" {
		statusEmoji = "✅"
	}
	verificationEmoji := "⏳"
	if account.VerificationLevel == "verified" {
		verificationEmoji = "✅"
	}

	regDate := account.RegistrationDate
	return &ETaxContext{
		Status:            account.Status,
		StatusDisplay:     fmt.Sprintf("%s %s", statusEmoji, account.Status),
		AccountType:       account.AccountType,
		VerificationLevel: fmt.Sprintf("%s %s", verificationEmoji, account.VerificationLevel),
		RegistrationDate:  frDate(&regDate),
		LastLogin:         frDate(account.LastLogin),
		PaymentMethods:    account.PaymentMethods,
		TaxReturnsFiled:   account.TaxReturnsFiled,
		LastFilingDate:    frDate(account.LastFilingDate),
		ComplianceScore:   account.ComplianceScore,
		ComplianceLevel:   account.ComplianceLevel(),
	}, nil
}

func (s *citizenDataService) ContextFor(ctx context.Context, intent models.Intent, citizenID string, slots map[string]string) (string, error) {
	var (
		data any
		err  error
	)

	switch intent {
	case models.IntentProfile:
		data, err = s.GetProfile(ctx, citizenID)
	case models.IntentTaxInfo:
		data, err = s.GetTaxSummary(ctx, citizenID)
	case models.IntentParcels:
		data, err = s.GetParcels(ctx, citizenID)
	case models.IntentProcedures:
		data, err = s.GetProcedure(ctx, slots[models.SlotProcedureName])
	case models.IntentETaxStatus:
		data, err = s.GetETaxStatus(ctx, citizenID)
	default:
		return "", nil
	}

	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to fetch context for %s: %w", intent, err)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to serialize context: %w", err)
	}

	return string(raw), nil
}
