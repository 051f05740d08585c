package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kodinet/kodibot-engine/pkg/apperrors"
	"github.com/kodinet/kodibot-engine/pkg/llm"
	"github.com/kodinet/kodibot-engine/pkg/models"
	"github.com/kodinet/kodibot-engine/pkg/prompts"
	"github.com/kodinet/kodibot-engine/pkg/repositories"
)

// confidenceGate is the minimum classification confidence required to act
// on an intent. Below it the citizen gets the menu instead.
const confidenceGate = 0.6

// generationTemperature keeps answers grounded in the supplied context.
const generationTemperature = 0.2

// ChatResult is the outcome of one conversation turn.
type ChatResult struct {
	Response        string `json:"response,omitempty"`
	RequiresLinking bool   `json:"requires_linking,omitempty"`
	Err             string `json:"error,omitempty"`
}

// LinkingResult is the outcome of an explicit linking or verification call.
type LinkingResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OTP     string `json:"otp,omitempty"`
}

// ConversationService runs the message pipeline: log inbound, resolve
// identity, classify, fetch data, generate, log outbound. Every branch logs
// exactly one outbound turn for the inbound turn that entered it.
type ConversationService interface {
	HandleMessage(ctx context.Context, phone, message string) *ChatResult
	InitiateLinking(ctx context.Context, phone, citizenID string) *LinkingResult
	VerifyOTP(ctx context.Context, phone, code string) *LinkingResult
}

type conversationService struct {
	chatLogs   repositories.ChatLogRepository
	linking    LinkingService
	data       CitizenDataService
	classifier IntentClassifier
	llm        llm.CompletionClient
	responder  *Responder
	logger     *zap.Logger
}

// NewConversationService creates a new ConversationService.
func NewConversationService(
	chatLogs repositories.ChatLogRepository,
	linking LinkingService,
	data CitizenDataService,
	classifier IntentClassifier,
	client llm.CompletionClient,
	responder *Responder,
	logger *zap.Logger,
) ConversationService {
	return &conversationService{
		chatLogs:   chatLogs,
		linking:    linking,
		data:       data,
		classifier: classifier,
		llm:        client,
		responder:  responder,
		logger:     logger.Named("conversation"),
	}
}

var _ ConversationService = (*conversationService)(nil)

func (s *conversationService) logTurn(ctx context.Context, phone, text, direction string, citizenID *string) *models.ChatLog {
	entry := &models.ChatLog{
		PhoneNumber: phone,
		CitizenID:   citizenID,
		MessageText: text,
		Direction:   direction,
	}
	if err := s.chatLogs.Insert(ctx, entry); err != nil {
		s.logger.Error("failed to log turn",
			zap.String("phone_number", phone),
			zap.String("direction", direction),
			zap.Error(err))
		return nil
	}
	return entry
}

// fail closes the turn with the generic error text, logging it outbound so
// the conversation log stays paired.
func (s *conversationService) fail(ctx context.Context, phone string, cause error) *ChatResult {
	s.logger.Error("conversation turn failed", zap.String("phone_number", phone), zap.Error(cause))
	s.logTurn(ctx, phone, MsgGenericError, models.DirectionOut, nil)
	return &ChatResult{Err: MsgGenericError}
}

func looksLikeCitizenID(message string) bool {
	trimmed := strings.TrimSpace(message)
	return len(trimmed) > 10 && strings.HasPrefix(strings.ToUpper(trimmed), "CIT")
}

func looksLikeOTP(message string) bool {
	trimmed := strings.TrimSpace(message)
	if len(trimmed) != 6 {
		return false
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (s *conversationService) HandleMessage(ctx context.Context, phone, message string) *ChatResult {
	inbound := s.logTurn(ctx, phone, message, models.DirectionIn, nil)

	linked, err := s.linking.IsLinked(ctx, phone)
	if err != nil {
		return s.fail(ctx, phone, err)
	}

	if !linked {
		return s.handleUnlinked(ctx, phone, message)
	}

	citizen, err := s.linking.GetLinkedCitizen(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrOrphanedLink) {
			s.logTurn(ctx, phone, MsgOrphanedLink, models.DirectionOut, nil)
			return &ChatResult{Err: MsgOrphanedLink}
		}
		return s.fail(ctx, phone, err)
	}

	result := s.classifier.Classify(ctx, message)

	if inbound != nil {
		if err := s.chatLogs.BackfillClassification(ctx, inbound.ID, string(result.Intent), result.Confidence); err != nil {
			s.logger.Error("failed to backfill classification", zap.Error(err))
		}
	}

	if result.Confidence < confidenceGate || result.Intent == models.IntentFallback {
		s.logTurn(ctx, phone, MsgFallbackMenu, models.DirectionOut, nil)
		return &ChatResult{Response: MsgFallbackMenu}
	}

	var response string
	switch result.Intent {
	case models.IntentGreeting:
		response = s.responder.Greeting()
	case models.IntentGoodbye:
		response = s.responder.Goodbye()
	default:
		response, err = s.answerDataIntent(ctx, citizen, result, message)
		if err != nil {
			return s.fail(ctx, phone, err)
		}
	}

	cid := citizen.CitizenID
	s.logTurn(ctx, phone, response, models.DirectionOut, &cid)

	return &ChatResult{Response: response}
}

// answerDataIntent fetches context for the classified intent and generates
// the answer. Provider failures degrade to canned texts; a store failure is
// returned as an error so the caller takes the generic error branch.
func (s *conversationService) answerDataIntent(ctx context.Context, citizen *models.Citizen, result *models.ClassificationResult, message string) (string, error) {
	contextData, err := s.data.ContextFor(ctx, result.Intent, citizen.CitizenID, result.Slots)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return "", err
		}
		// An unmatched procedure name still goes to the model, which then
		// says the information is unavailable. Other empty lookups get the
		// apology directly.
		if result.Intent != models.IntentProcedures {
			return MsgDataUnavailable, nil
		}
		contextData = ""
	}

	systemPrompt := prompts.BuildContextualizedPrompt(citizen.DisplayName(), citizen.CitizenID, contextData)
	userPrompt := "Requête utilisateur: " + message

	answer, err := s.llm.Complete(ctx, systemPrompt, userPrompt, generationTemperature, 0)
	if err != nil {
		if llm.IsQuotaExceeded(err) {
			return MsgSystemUnavailable, nil
		}
		s.logger.Error("generation failed", zap.Error(err))
		return MsgTechnicalError, nil
	}
	if answer == "" {
		return MsgDataUnavailable, nil
	}

	return answer, nil
}

// handleUnlinked runs the onboarding branch: a citizen ID initiates linking,
// a six-digit code verifies it, anything else gets the linking prompt.
func (s *conversationService) handleUnlinked(ctx context.Context, phone, message string) *ChatResult {
	switch {
	case looksLikeCitizenID(message):
		citizenID := strings.ToUpper(strings.TrimSpace(message))
		s.logTurn(ctx, phone, fmt.Sprintf("Tentative de liaison avec ID: %s", citizenID), models.DirectionIn, nil)

		otp, err := s.linking.InitiateLinking(ctx, phone, citizenID)
		var response string
		switch {
		case err == nil:
			response = fmt.Sprintf(MsgOTPSentFmt, otp)
		case errors.Is(err, apperrors.ErrUnknownCitizen):
			response = MsgCitizenNotFound
		default:
			return s.fail(ctx, phone, err)
		}

		s.logTurn(ctx, phone, response, models.DirectionOut, nil)
		return &ChatResult{Response: response, RequiresLinking: true}

	case looksLikeOTP(message):
		code := strings.TrimSpace(message)
		err := s.linking.VerifyOTP(ctx, phone, code)

		outcome := "succès"
		if err != nil {
			outcome = "échec"
		}
		s.logTurn(ctx, phone, fmt.Sprintf("Tentative de vérification OTP: %s", outcome), models.DirectionIn, nil)

		var response string
		switch {
		case err == nil:
			response = MsgLinkingSucceeded
		case errors.Is(err, apperrors.ErrNoPendingLink):
			response = MsgNoPendingLink
		case errors.Is(err, apperrors.ErrCodeExpired):
			response = MsgOTPExpired
		case errors.Is(err, apperrors.ErrCodeMismatch):
			response = MsgOTPMismatch
		default:
			return s.fail(ctx, phone, err)
		}

		s.logTurn(ctx, phone, response, models.DirectionOut, nil)
		return &ChatResult{Response: response, RequiresLinking: err != nil}

	default:
		s.logTurn(ctx, phone, MsgLinkingRequired, models.DirectionOut, nil)
		return &ChatResult{Response: MsgLinkingRequired, RequiresLinking: true}
	}
}

func (s *conversationService) InitiateLinking(ctx context.Context, phone, citizenID string) *LinkingResult {
	s.logTurn(ctx, phone, fmt.Sprintf("Demande de liaison avec ID: %s", citizenID), models.DirectionIn, nil)

	otp, err := s.linking.InitiateLinking(ctx, phone, citizenID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownCitizen) {
			return &LinkingResult{Success: false, Message: MsgCitizenNotFound}
		}
		s.logger.Error("linking initiation failed", zap.String("phone_number", phone), zap.Error(err))
		return &LinkingResult{Success: false, Message: MsgLinkingFailed}
	}

	s.logTurn(ctx, phone, fmt.Sprintf(MsgOTPSentOutFmt, otp), models.DirectionOut, nil)

	return &LinkingResult{
		Success: true,
		Message: fmt.Sprintf(MsgOTPSentFmt, otp),
		OTP:     otp,
	}
}

func (s *conversationService) VerifyOTP(ctx context.Context, phone, code string) *LinkingResult {
	s.logTurn(ctx, phone, fmt.Sprintf("Vérification OTP: %s", code), models.DirectionIn, nil)

	err := s.linking.VerifyOTP(ctx, phone, code)

	var message string
	success := false
	switch {
	case err == nil:
		success = true
		message = MsgLinkingSucceeded + MsgVerifiedSuffix
	case errors.Is(err, apperrors.ErrNoPendingLink):
		message = MsgNoPendingLink
	case errors.Is(err, apperrors.ErrCodeExpired):
		message = MsgOTPExpired
	case errors.Is(err, apperrors.ErrCodeMismatch):
		message = MsgOTPMismatch
	default:
		s.logger.Error("otp verification failed", zap.String("phone_number", phone), zap.Error(err))
		return &LinkingResult{Success: false, Message: MsgVerificationError}
	}

	s.logTurn(ctx, phone, message, models.DirectionOut, nil)

	return &LinkingResult{Success: success, Message: message}
}
