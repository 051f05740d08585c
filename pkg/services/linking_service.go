package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kodinet/kodibot-engine/pkg/apperrors"
	"github.com/kodinet/kodibot-engine/pkg/models"
	"github.com/kodinet/kodibot-engine/pkg/repositories"
)

// otpValidity is how long a generated code stays verifiable.
const otpValidity = 10 * time.Minute

// LinkingService manages phone-to-citizen identity linking with one-time
// verification codes.
type LinkingService interface {
	// InitiateLinking generates a code for the phone/citizen pair and stores
	// it, replacing any prior attempt for the phone. Returns the code so the
	// caller can hand it to the delivery channel.
	InitiateLinking(ctx context.Context, phone, citizenID string) (string, error)
	// VerifyOTP checks the code for the phone and completes the link.
	// Returns apperrors.ErrNoPendingLink, ErrCodeExpired or ErrCodeMismatch
	// when verification cannot succeed.
	VerifyOTP(ctx context.Context, phone, code string) error
	// IsLinked reports whether the phone has a completed link.
	IsLinked(ctx context.Context, phone string) (bool, error)
	// GetLinkedCitizen resolves the citizen behind a linked phone. Returns
	// apperrors.ErrNotFound for an unlinked phone and ErrOrphanedLink when
	// the link points at a missing citizen row.
	GetLinkedCitizen(ctx context.Context, phone string) (*models.Citizen, error)
}

type linkingService struct {
	links    repositories.LinkRepository
	citizens repositories.CitizenRepository
	logger   *zap.Logger

	// phoneLocks serializes linking writes per phone number so two
	// concurrent attempts cannot interleave between read and upsert.
	phoneLocks sync.Map // phone -> *sync.Mutex

	rngMu sync.Mutex
	rng   *rand.Rand
	now   func() time.Time
}

// NewLinkingService creates a new LinkingService.
func NewLinkingService(links repositories.LinkRepository, citizens repositories.CitizenRepository, logger *zap.Logger) LinkingService {
	return &linkingService{
		links:    links,
		citizens: citizens,
		logger:   logger.Named("linking"),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
	}
}

var _ LinkingService = (*linkingService)(nil)

func (s *linkingService) lockPhone(phone string) func() {
	v, _ := s.phoneLocks.LoadOrStore(phone, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *linkingService) generateOTP() string {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return fmt.Sprintf("%06d", s.rng.Intn(1000000))
}

func (s *linkingService) InitiateLinking(ctx context.Context, phone, citizenID string) (string, error) {
	if _, err := s.citizens.GetByCitizenID(ctx, citizenID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.ErrUnknownCitizen
		}
		return "", fmt.Errorf("failed to look up citizen: %w", err)
	}

	unlock := s.lockPhone(phone)
	defer unlock()

	otp := s.generateOTP()
	expires := s.now().UTC().Add(otpValidity)

	// A restart always overwrites the previous attempt and resets linked,
	// so a re-initiated link must be verified again.
	link := &models.IdentityLink{
		PhoneNumber:  phone,
		CitizenID:    citizenID,
		OTPCode:      &otp,
		OTPExpiresAt: &expires,
		Linked:       false,
	}
	if err := s.links.Upsert(ctx, link); err != nil {
		return "", fmt.Errorf("failed to store linking attempt: %w", err)
	}

	s.logger.Info("linking initiated",
		zap.String("phone_number", phone),
		zap.String("citizen_id", citizenID),
		zap.Time("expires_at", expires))

	return otp, nil
}

func (s *linkingService) VerifyOTP(ctx context.Context, phone, code string) error {
	unlock := s.lockPhone(phone)
	defer unlock()

	link, err := s.links.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNoPendingLink
		}
		return fmt.Errorf("failed to load linking attempt: %w", err)
	}

	if link.OTPCode == nil || link.OTPExpiresAt == nil {
		return apperrors.ErrNoPendingLink
	}
	if !s.now().UTC().Before(*link.OTPExpiresAt) {
		return apperrors.ErrCodeExpired
	}
	if *link.OTPCode != code {
		return apperrors.ErrCodeMismatch
	}

	// Marking linked clears the code fields, so the code is one-time.
	if err := s.links.MarkLinked(ctx, phone, s.now().UTC()); err != nil {
		return fmt.Errorf("failed to complete linking: %w", err)
	}

	s.logger.Info("linking completed",
		zap.String("phone_number", phone),
		zap.String("citizen_id", link.CitizenID))

	return nil
}

func (s *linkingService) IsLinked(ctx context.Context, phone string) (bool, error) {
	link, err := s.links.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check link status: %w", err)
	}
	return link.Linked, nil
}

func (s *linkingService) GetLinkedCitizen(ctx context.Context, phone string) (*models.Citizen, error) {
	link, err := s.links.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load link: %w", err)
	}
	if !link.Linked {
		return nil, apperrors.ErrNotFound
	}

	citizen, err := s.citizens.GetByCitizenID(ctx, link.CitizenID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Error("linked phone points at missing citizen",
				zap.String("phone_number", phone),
				zap.String("citizen_id", link.CitizenID))
			return nil, apperrors.ErrOrphanedLink
		}
		return nil, fmt.Errorf("failed to load citizen: %w", err)
	}

	return citizen, nil
}
