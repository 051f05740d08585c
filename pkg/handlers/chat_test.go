package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kodinet/kodibot-engine/pkg/services"
)

type stubConversationService struct {
	HandleMessageFunc   func(ctx context.Context, phone, message string) *services.ChatResult
	InitiateLinkingFunc func(ctx context.Context, phone, citizenID string) *services.LinkingResult
	VerifyOTPFunc       func(ctx context.Context, phone, code string) *services.LinkingResult
}

func (s *stubConversationService) HandleMessage(ctx context.Context, phone, message string) *services.ChatResult {
	if s.HandleMessageFunc != nil {
		return s.HandleMessageFunc(ctx, phone, message)
	}
	return &services.ChatResult{Response: "ok"}
}

func (s *stubConversationService) InitiateLinking(ctx context.Context, phone, citizenID string) *services.LinkingResult {
	if s.InitiateLinkingFunc != nil {
		return s.InitiateLinkingFunc(ctx, phone, citizenID)
	}
	return &services.LinkingResult{Success: true}
}

func (s *stubConversationService) VerifyOTP(ctx context.Context, phone, code string) *services.LinkingResult {
	if s.VerifyOTPFunc != nil {
		return s.VerifyOTPFunc(ctx, phone, code)
	}
	return &services.LinkingResult{Success: true}
}

func newChatMux(stub *stubConversationService) *http.ServeMux {
	mux := http.NewServeMux()
	NewChatHandler(stub, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestChatEndpoint(t *testing.T) {
	stub := &stubConversationService{
		HandleMessageFunc: func(ctx context.Context, phone, message string) *services.ChatResult {
			assert.Equal(t, "+243842616809", phone)
			assert.Equal(t, "Bonjour", message)
			return &services.ChatResult{Response: "Bienvenue!"}
		},
	}
	mux := newChatMux(stub)

	req := httptest.NewRequest(http.MethodPost, "/chat",
		strings.NewReader(`{"phone_number":"+243842616809","message":"Bonjour"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result services.ChatResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Bienvenue!", result.Response)
}

// Pipeline failures are reported in the payload, not the status code, so the
// WhatsApp gateway never retries them.
func TestChatEndpointPipelineErrorStaysOK(t *testing.T) {
	stub := &stubConversationService{
		HandleMessageFunc: func(ctx context.Context, phone, message string) *services.ChatResult {
			return &services.ChatResult{Err: "Une erreur s'est produite. Veuillez réessayer."}
		},
	}
	mux := newChatMux(stub)

	req := httptest.NewRequest(http.MethodPost, "/chat",
		strings.NewReader(`{"phone_number":"+243842616809","message":"Bonjour"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestChatEndpointBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing phone", `{"message":"Bonjour"}`},
		{"missing message", `{"phone_number":"+243842616809"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newChatMux(&stubConversationService{})
			req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "invalid_request")
		})
	}
}

func TestLinkAccountEndpoint(t *testing.T) {
	stub := &stubConversationService{
		InitiateLinkingFunc: func(ctx context.Context, phone, citizenID string) *services.LinkingResult {
			assert.Equal(t, "CIT842616809", citizenID)
			return &services.LinkingResult{Success: true, Message: "Code OTP généré", OTP: "123456"}
		},
	}
	mux := newChatMux(stub)

	req := httptest.NewRequest(http.MethodPost, "/link-account",
		strings.NewReader(`{"phone_number":"+243842616809","citizen_id":"CIT842616809"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result services.LinkingResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "123456", result.OTP)
}

func TestLinkAccountEndpointMissingCitizenID(t *testing.T) {
	mux := newChatMux(&stubConversationService{})

	req := httptest.NewRequest(http.MethodPost, "/link-account",
		strings.NewReader(`{"phone_number":"+243842616809"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyOTPEndpointHTTP(t *testing.T) {
	stub := &stubConversationService{
		VerifyOTPFunc: func(ctx context.Context, phone, code string) *services.LinkingResult {
			assert.Equal(t, "123456", code)
			return &services.LinkingResult{Success: false, Message: "Code OTP incorrect"}
		},
	}
	mux := newChatMux(stub)

	req := httptest.NewRequest(http.MethodPost, "/verify-otp",
		strings.NewReader(`{"phone_number":"+243842616809","otp_code":"123456"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result services.LinkingResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "Code OTP incorrect", result.Message)
}
