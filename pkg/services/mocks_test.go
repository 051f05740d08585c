package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kodinet/kodibot-engine/pkg/apperrors"
	"github.com/kodinet/kodibot-engine/pkg/models"
	"github.com/kodinet/kodibot-engine/pkg/repositories"
)

// Configurable function-field mocks for the repository and service
// interfaces. Unset fields return zero values.

type mockCitizenRepository struct {
	GetByCitizenIDFunc func(ctx context.Context, citizenID string) (*models.Citizen, error)
	CreateFunc         func(ctx context.Context, citizen *models.Citizen) error
	GetCalls           int
}

func (m *mockCitizenRepository) GetByCitizenID(ctx context.Context, citizenID string) (*models.Citizen, error) {
	m.GetCalls++
	if m.GetByCitizenIDFunc != nil {
		return m.GetByCitizenIDFunc(ctx, citizenID)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCitizenRepository) Create(ctx context.Context, citizen *models.Citizen) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, citizen)
	}
	return nil
}

type mockLinkRepository struct {
	GetByPhoneFunc func(ctx context.Context, phone string) (*models.IdentityLink, error)
	UpsertFunc     func(ctx context.Context, link *models.IdentityLink) error
	MarkLinkedFunc func(ctx context.Context, phone string, linkedAt time.Time) error

	UpsertCalls     int
	MarkLinkedCalls int
	LastUpserted    *models.IdentityLink
}

func (m *mockLinkRepository) GetByPhone(ctx context.Context, phone string) (*models.IdentityLink, error) {
	if m.GetByPhoneFunc != nil {
		return m.GetByPhoneFunc(ctx, phone)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockLinkRepository) Upsert(ctx context.Context, link *models.IdentityLink) error {
	m.UpsertCalls++
	m.LastUpserted = link
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, link)
	}
	return nil
}

func (m *mockLinkRepository) MarkLinked(ctx context.Context, phone string, linkedAt time.Time) error {
	m.MarkLinkedCalls++
	if m.MarkLinkedFunc != nil {
		return m.MarkLinkedFunc(ctx, phone, linkedAt)
	}
	return nil
}

type mockTaxRepository struct {
	ListByCitizenFunc func(ctx context.Context, citizenID string) ([]*models.TaxRecord, error)
}

func (m *mockTaxRepository) ListByCitizen(ctx context.Context, citizenID string) ([]*models.TaxRecord, error) {
	if m.ListByCitizenFunc != nil {
		return m.ListByCitizenFunc(ctx, citizenID)
	}
	return nil, nil
}

func (m *mockTaxRepository) Create(ctx context.Context, record *models.TaxRecord) error {
	return nil
}

type mockParcelRepository struct {
	ListByCitizenFunc func(ctx context.Context, citizenID string) ([]*models.Parcel, error)
}

func (m *mockParcelRepository) ListByCitizen(ctx context.Context, citizenID string) ([]*models.Parcel, error) {
	if m.ListByCitizenFunc != nil {
		return m.ListByCitizenFunc(ctx, citizenID)
	}
	return nil, nil
}

func (m *mockParcelRepository) Create(ctx context.Context, parcel *models.Parcel) error {
	return nil
}

type mockProcedureRepository struct {
	FindByNameFragmentFunc func(ctx context.Context, fragment string) (*models.Procedure, error)
	ListSummariesFunc      func(ctx context.Context, limit int) ([]*models.ProcedureSummary, error)
}

func (m *mockProcedureRepository) FindByNameFragment(ctx context.Context, fragment string) (*models.Procedure, error) {
	if m.FindByNameFragmentFunc != nil {
		return m.FindByNameFragmentFunc(ctx, fragment)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockProcedureRepository) ListSummaries(ctx context.Context, limit int) ([]*models.ProcedureSummary, error) {
	if m.ListSummariesFunc != nil {
		return m.ListSummariesFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockProcedureRepository) Create(ctx context.Context, procedure *models.Procedure) error {
	return nil
}

type mockETaxRepository struct {
	GetByCitizenFunc func(ctx context.Context, citizenID string) (*models.ETaxAccount, error)
}

func (m *mockETaxRepository) GetByCitizen(ctx context.Context, citizenID string) (*models.ETaxAccount, error) {
	if m.GetByCitizenFunc != nil {
		return m.GetByCitizenFunc(ctx, citizenID)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockETaxRepository) Create(ctx context.Context, account *models.ETaxAccount) error {
	return nil
}

// mockChatLogRepository records every inserted turn so tests can assert on
// inbound/outbound pairing.
type mockChatLogRepository struct {
	InsertFunc         func(ctx context.Context, entry *models.ChatLog) error
	BackfillFunc       func(ctx context.Context, id uuid.UUID, intent string, confidence float64) error
	PopularIntentsFunc func(ctx context.Context, limit int) ([]repositories.IntentCount, error)

	Entries        []*models.ChatLog
	BackfillCalls  int
	BackfilledID   uuid.UUID
	BackfillIntent string
	BackfillConf   float64
}

func (m *mockChatLogRepository) Insert(ctx context.Context, entry *models.ChatLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if m.InsertFunc != nil {
		if err := m.InsertFunc(ctx, entry); err != nil {
			return err
		}
	}
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *mockChatLogRepository) BackfillClassification(ctx context.Context, id uuid.UUID, intent string, confidence float64) error {
	m.BackfillCalls++
	m.BackfilledID = id
	m.BackfillIntent = intent
	m.BackfillConf = confidence
	if m.BackfillFunc != nil {
		return m.BackfillFunc(ctx, id, intent, confidence)
	}
	return nil
}

func (m *mockChatLogRepository) ListByPhone(ctx context.Context, phone string, limit int) ([]*models.ChatLog, error) {
	return m.Entries, nil
}

func (m *mockChatLogRepository) PopularIntents(ctx context.Context, limit int) ([]repositories.IntentCount, error) {
	if m.PopularIntentsFunc != nil {
		return m.PopularIntentsFunc(ctx, limit)
	}
	return nil, nil
}

// directions returns the IN/OUT sequence of recorded turns.
func (m *mockChatLogRepository) directions() []string {
	out := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		out[i] = e.Direction
	}
	return out
}

type mockLinkingService struct {
	InitiateLinkingFunc  func(ctx context.Context, phone, citizenID string) (string, error)
	VerifyOTPFunc        func(ctx context.Context, phone, code string) error
	IsLinkedFunc         func(ctx context.Context, phone string) (bool, error)
	GetLinkedCitizenFunc func(ctx context.Context, phone string) (*models.Citizen, error)
}

func (m *mockLinkingService) InitiateLinking(ctx context.Context, phone, citizenID string) (string, error) {
	if m.InitiateLinkingFunc != nil {
		return m.InitiateLinkingFunc(ctx, phone, citizenID)
	}
	return "123456", nil
}

func (m *mockLinkingService) VerifyOTP(ctx context.Context, phone, code string) error {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, phone, code)
	}
	return nil
}

func (m *mockLinkingService) IsLinked(ctx context.Context, phone string) (bool, error) {
	if m.IsLinkedFunc != nil {
		return m.IsLinkedFunc(ctx, phone)
	}
	return false, nil
}

func (m *mockLinkingService) GetLinkedCitizen(ctx context.Context, phone string) (*models.Citizen, error) {
	if m.GetLinkedCitizenFunc != nil {
		return m.GetLinkedCitizenFunc(ctx, phone)
	}
	return nil, apperrors.ErrNotFound
}

type mockCitizenDataService struct {
	ContextForFunc func(ctx context.Context, intent models.Intent, citizenID string, slots map[string]string) (string, error)
	ContextCalls   int
}

func (m *mockCitizenDataService) GetProfile(ctx context.Context, citizenID string) (*ProfileContext, error) {
	return nil, apperrors.ErrNotFound
}

func (m *mockCitizenDataService) GetTaxSummary(ctx context.Context, citizenID string) (*TaxContext, error) {
	return nil, apperrors.ErrNotFound
}

func (m *mockCitizenDataService) GetParcels(ctx context.Context, citizenID string) (*ParcelsContext, error) {
	return nil, apperrors.ErrNotFound
}

func (m *mockCitizenDataService) GetProcedure(ctx context.Context, nameFragment string) (*ProcedureContext, error) {
	return nil, apperrors.ErrNotFound
}

func (m *mockCitizenDataService) GetETaxStatus(ctx context.Context, citizenID string) (*ETaxContext, error) {
	return nil, apperrors.ErrNotFound
}

func (m *mockCitizenDataService) ContextFor(ctx context.Context, intent models.Intent, citizenID string, slots map[string]string) (string, error) {
	m.ContextCalls++
	if m.ContextForFunc != nil {
		return m.ContextForFunc(ctx, intent, citizenID, slots)
	}
	return "", nil
}

type mockIntentClassifier struct {
	ClassifyFunc  func(ctx context.Context, message string) *models.ClassificationResult
	ClassifyCalls int
}

func (m *mockIntentClassifier) Classify(ctx context.Context, message string) *models.ClassificationResult {
	m.ClassifyCalls++
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, message)
	}
	return &models.ClassificationResult{Intent: models.IntentFallback, Confidence: 0.7, Slots: map[string]string{}}
}
