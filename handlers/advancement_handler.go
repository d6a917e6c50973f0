package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/club-manager/models"
	"github.com/Dosada05/club-manager/services"
)

type AdvancementHandler struct {
	service services.AdvancementService
	logger  *slog.Logger
}

func NewAdvancementHandler(service services.AdvancementService, logger *slog.Logger) *AdvancementHandler {
	return &AdvancementHandler{service: service, logger: logger}
}

// Replace godoc
// @Summary      Resolve one bracket placeholder with a real participant
// @Description  Rewrites every match side referencing the placeholder. A
//               placeholder already resolved yields 409.
// @Tags         advancement
// @Accept       json
// @Produce      json
// @Param        participantID path int true "Virtual participant ID"
// @Success      200 {object} map[string]interface{}
// @Failure      409 {object} map[string]string
// @Security     BearerAuth
// @Router       /participants/{participantID}/replace [post]
func (h *AdvancementHandler) Replace(w http.ResponseWriter, r *http.Request) {
	virtualID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		RealParticipantID int `json:"real_participant_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	updatedMatchIDs, err := h.service.Replace(r.Context(), virtualID, input.RealParticipantID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	payload := jsonResponse{
		"resolved_virtual_id": virtualID,
		"updated_match_ids":   updatedMatchIDs,
	}
	if err := writeJSON(w, http.StatusOK, payload, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}

// Advance godoc
// @Summary      Advance a real participant into matching placeholders
// @Description  Without an explicit source the participant's group and current
//               standings rank are used.
// @Tags         advancement
// @Accept       json
// @Produce      json
// @Param        participantID path int true "Real participant ID"
// @Success      200 {object} services.AdvanceResult
// @Failure      409 {object} map[string]string
// @Security     BearerAuth
// @Router       /participants/{participantID}/advance [post]
func (h *AdvancementHandler) Advance(w http.ResponseWriter, r *http.Request) {
	realID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Source *models.AdvancingSource `json:"source,omitempty"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.service.Advance(r.Context(), realID, input.Source)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}
