package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/club-manager/services"
)

type ParticipantHandler struct {
	service services.ParticipantService
	logger  *slog.Logger
}

func NewParticipantHandler(service services.ParticipantService, logger *slog.Logger) *ParticipantHandler {
	return &ParticipantHandler{service: service, logger: logger}
}

// Register godoc
// @Summary      Register a participant for a tournament
// @Tags         participants
// @Accept       json
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Param        input body services.RegisterParticipantInput true "Participant data"
// @Success      201 {object} models.Participant
// @Failure      403 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/participants [post]
func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RegisterParticipantInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.service.Register(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participant": participant}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}

// List godoc
// @Summary      List tournament participants
// @Tags         participants
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Param        include_virtual query bool false "Include unresolved bracket placeholders"
// @Success      200 {array} models.Participant
// @Router       /tournaments/{tournamentID}/participants [get]
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	includeVirtual := r.URL.Query().Get("include_virtual") == "true"

	participants, err := h.service.ListByTournament(r.Context(), tournamentID, includeVirtual)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}

// CheckIn godoc
// @Summary      Check a registered participant in
// @Tags         participants
// @Produce      json
// @Param        participantID path int true "Participant ID"
// @Success      200 {object} models.Participant
// @Security     BearerAuth
// @Router       /participants/{participantID}/check-in [put]
func (h *ParticipantHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	participantID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.service.CheckIn(r.Context(), participantID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participant": participant}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}

// Withdraw godoc
// @Summary      Withdraw a participant
// @Tags         participants
// @Produce      json
// @Param        participantID path int true "Participant ID"
// @Success      200 {object} models.Participant
// @Security     BearerAuth
// @Router       /participants/{participantID}/withdraw [put]
func (h *ParticipantHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	participantID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.service.Withdraw(r.Context(), participantID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participant": participant}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}
