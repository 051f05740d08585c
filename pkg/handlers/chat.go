package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/kodinet/kodibot-engine/pkg/services"
)

// ChatRequest is one inbound WhatsApp-style message.
type ChatRequest struct {
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
}

// LinkingRequest starts account linking for a phone number.
type LinkingRequest struct {
	PhoneNumber string `json:"phone_number"`
	CitizenID   string `json:"citizen_id"`
}

// OTPVerificationRequest completes account linking.
type OTPVerificationRequest struct {
	PhoneNumber string `json:"phone_number"`
	OTPCode     string `json:"otp_code"`
}

// ChatHandler exposes the conversation pipeline over HTTP.
type ChatHandler struct {
	conversation services.ConversationService
	logger       *zap.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(conversation services.ConversationService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{conversation: conversation, logger: logger}
}

// RegisterRoutes registers the chat handler's routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /chat", h.Chat)
	mux.HandleFunc("POST /link-account", h.LinkAccount)
	mux.HandleFunc("POST /verify-otp", h.VerifyOTP)
}

// Chat handles POST /chat requests.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PhoneNumber == "" || req.Message == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "phone_number and message are required")
		return
	}

	result := h.conversation.HandleMessage(r.Context(), req.PhoneNumber, req.Message)

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode chat response", zap.Error(err))
	}
}

// LinkAccount handles POST /link-account requests.
func (h *ChatHandler) LinkAccount(w http.ResponseWriter, r *http.Request) {
	var req LinkingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PhoneNumber == "" || req.CitizenID == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "phone_number and citizen_id are required")
		return
	}

	result := h.conversation.InitiateLinking(r.Context(), req.PhoneNumber, req.CitizenID)

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode linking response", zap.Error(err))
	}
}

// VerifyOTP handles POST /verify-otp requests.
func (h *ChatHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req OTPVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PhoneNumber == "" || req.OTPCode == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "phone_number and otp_code are required")
		return
	}

	result := h.conversation.VerifyOTP(r.Context(), req.PhoneNumber, req.OTPCode)

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode verification response", zap.Error(err))
	}
}
