package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kodinet/kodibot-engine/pkg/apperrors"
	"github.com/kodinet/kodibot-engine/pkg/models"
)

func knownCitizens(ids ...string) *mockCitizenRepository {
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return &mockCitizenRepository{
		GetByCitizenIDFunc: func(ctx context.Context, citizenID string) (*models.Citizen, error) {
			if known[citizenID] {
				return &models.Citizen{CitizenID: citizenID, FirstName: "Test", LastName: "Citoyen"}, nil
			}
			return nil, apperrors.ErrNotFound
		},
	}
}

func TestInitiateLinkingGeneratesSixDigitCode(t *testing.T) {
	links := &mockLinkRepository{}
	svc := NewLinkingService(links, knownCitizens("CIT842616809"), zap.NewNop())

	otp, err := svc.InitiateLinking(context.Background(), "+243842616809", "CIT842616809")

	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), otp)
	require.Equal(t, 1, links.UpsertCalls)

	stored := links.LastUpserted
	assert.False(t, stored.Linked)
	require.NotNil(t, stored.OTPCode)
	assert.Equal(t, otp, *stored.OTPCode)
	require.NotNil(t, stored.OTPExpiresAt)
	assert.WithinDuration(t, time.Now().UTC().Add(10*time.Minute), *stored.OTPExpiresAt, time.Minute)
}

func TestInitiateLinkingUnknownCitizen(t *testing.T) {
	links := &mockLinkRepository{}
	svc := NewLinkingService(links, knownCitizens(), zap.NewNop())

	_, err := svc.InitiateLinking(context.Background(), "+243000000000", "CIT999999999")

	assert.ErrorIs(t, err, apperrors.ErrUnknownCitizen)
	assert.Zero(t, links.UpsertCalls)
}

// Re-initiating replaces the previous attempt and resets linked, so a
// restarted flow always has to verify again.
func TestInitiateLinkingRestartOverwrites(t *testing.T) {
	links := &mockLinkRepository{}
	svc := NewLinkingService(links, knownCitizens("CIT842616809", "CIT793643308"), zap.NewNop())

	first, err := svc.InitiateLinking(context.Background(), "+243842616809", "CIT842616809")
	require.NoError(t, err)

	_, err = svc.InitiateLinking(context.Background(), "+243842616809", "CIT793643308")
	require.NoError(t, err)

	assert.Equal(t, 2, links.UpsertCalls)
	assert.Equal(t, "CIT793643308", links.LastUpserted.CitizenID)
	assert.False(t, links.LastUpserted.Linked)
	if *links.LastUpserted.OTPCode == first {
		t.Log("codes collided, acceptable but rare")
	}
}

func pendingLink(code string, expiresAt time.Time) *models.IdentityLink {
	return &models.IdentityLink{
		PhoneNumber:  "+243842616809",
		CitizenID:    "CIT842616809",
		OTPCode:      &code,
		OTPExpiresAt: &expiresAt,
	}
}

func TestVerifyOTP(t *testing.T) {
	future := time.Now().UTC().Add(5 * time.Minute)
	past := time.Now().UTC().Add(-time.Minute)

	tests := []struct {
		name       string
		link       *models.IdentityLink
		code       string
		wantErr    error
		wantLinked bool
	}{
		{
			name:       "valid code completes linking",
			link:       pendingLink("123456", future),
			code:       "123456",
			wantLinked: true,
		},
		{
			name:    "expired code",
			link:    pendingLink("123456", past),
			code:    "123456",
			wantErr: apperrors.ErrCodeExpired,
		},
		{
			name:    "wrong code",
			link:    pendingLink("123456", future),
			code:    "654321",
			wantErr: apperrors.ErrCodeMismatch,
		},
		{
			name:    "no attempt on record",
			link:    nil,
			code:    "123456",
			wantErr: apperrors.ErrNoPendingLink,
		},
		{
			name:    "already linked, code consumed",
			link:    &models.IdentityLink{PhoneNumber: "+243842616809", CitizenID: "CIT842616809", Linked: true},
			code:    "123456",
			wantErr: apperrors.ErrNoPendingLink,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links := &mockLinkRepository{
				GetByPhoneFunc: func(ctx context.Context, phone string) (*models.IdentityLink, error) {
					if tt.link == nil {
						return nil, apperrors.ErrNotFound
					}
					return tt.link, nil
				},
			}
			svc := NewLinkingService(links, knownCitizens("CIT842616809"), zap.NewNop())

			err := svc.VerifyOTP(context.Background(), "+243842616809", tt.code)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, links.MarkLinkedCalls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, links.MarkLinkedCalls)
			_ = tt.wantLinked
		})
	}
}

func TestIsLinked(t *testing.T) {
	links := &mockLinkRepository{
		GetByPhoneFunc: func(ctx context.Context, phone string) (*models.IdentityLink, error) {
			switch phone {
			case "+243842616809":
				return &models.IdentityLink{PhoneNumber: phone, Linked: true}, nil
			case "+243111111111":
				return &models.IdentityLink{PhoneNumber: phone, Linked: false}, nil
			}
			return nil, apperrors.ErrNotFound
		},
	}
	svc := NewLinkingService(links, knownCitizens(), zap.NewNop())

	linked, err := svc.IsLinked(context.Background(), "+243842616809")
	require.NoError(t, err)
	assert.True(t, linked)

	linked, err = svc.IsLinked(context.Background(), "+243111111111")
	require.NoError(t, err)
	assert.False(t, linked)

	linked, err = svc.IsLinked(context.Background(), "+243222222222")
	require.NoError(t, err)
	assert.False(t, linked)
}

func TestGetLinkedCitizen(t *testing.T) {
	links := &mockLinkRepository{
		GetByPhoneFunc: func(ctx context.Context, phone string) (*models.IdentityLink, error) {
			switch phone {
			case "+243842616809":
				return &models.IdentityLink{PhoneNumber: phone, CitizenID: "CIT842616809", Linked: true}, nil
			case "+243333333333":
				return &models.IdentityLink{PhoneNumber: phone, CitizenID: "CIT999999999", Linked: true}, nil
			}
			return nil, apperrors.ErrNotFound
		},
	}
	svc := NewLinkingService(links, knownCitizens("CIT842616809"), zap.NewNop())

	citizen, err := svc.GetLinkedCitizen(context.Background(), "+243842616809")
	require.NoError(t, err)
	assert.Equal(t, "CIT842616809", citizen.CitizenID)

	_, err = svc.GetLinkedCitizen(context.Background(), "+243444444444")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// A linked phone whose citizen row vanished is an integrity fault, not
	// a normal miss.
	_, err = svc.GetLinkedCitizen(context.Background(), "+243333333333")
	assert.ErrorIs(t, err, apperrors.ErrOrphanedLink)
}
