package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kodinet/kodibot-engine/pkg/apperrors"
	"github.com/kodinet/kodibot-engine/pkg/models"
	"github.com/kodinet/kodibot-engine/pkg/repositories"
)

// KCAFHandler exposes K-CAF property assessment records over HTTP.
type KCAFHandler struct {
	records repositories.KCAFRepository
	logger  *zap.Logger
}

// NewKCAFHandler creates a new KCAFHandler.
func NewKCAFHandler(records repositories.KCAFRepository, logger *zap.Logger) *KCAFHandler {
	return &KCAFHandler{records: records, logger: logger}
}

// RegisterRoutes registers the K-CAF handler's routes on the given mux.
func (h *KCAFHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /kcaf-records", h.Create)
	mux.HandleFunc("GET /kcaf-records/{parcel_number}", h.GetByParcel)
}

// Create handles POST /kcaf-records requests.
func (h *KCAFHandler) Create(w http.ResponseWriter, r *http.Request) {
	var record models.KCAFRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if record.ParcelNumber == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "parcel_number is required")
		return
	}

	if err := h.records.Create(r.Context(), &record); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			_ = ErrorResponse(w, http.StatusConflict, "already_exists", "K-CAF record already exists for this parcel")
			return
		}
		h.logger.Error("Failed to create kcaf record",
			zap.String("parcel_number", record.ParcelNumber),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to create K-CAF record")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, record); err != nil {
		h.logger.Error("Failed to encode kcaf record", zap.Error(err))
	}
}

// GetByParcel handles GET /kcaf-records/{parcel_number} requests.
func (h *KCAFHandler) GetByParcel(w http.ResponseWriter, r *http.Request) {
	parcelNumber := r.PathValue("parcel_number")

	record, err := h.records.GetByParcel(r.Context(), parcelNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = ErrorResponse(w, http.StatusNotFound, "not_found", "K-CAF record not found for this parcel")
			return
		}
		h.logger.Error("Failed to get kcaf record",
			zap.String("parcel_number", parcelNumber),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to get K-CAF record")
		return
	}

	if err := WriteJSON(w, http.StatusOK, record); err != nil {
		h.logger.Error("Failed to encode kcaf record", zap.Error(err))
	}
}
