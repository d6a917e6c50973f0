package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Dosada05/club-manager/models"
	"github.com/Dosada05/club-manager/services"
)

type MatchHandler struct {
	service services.MatchService
	logger  *slog.Logger
}

func NewMatchHandler(service services.MatchService, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{service: service, logger: logger}
}

// Get godoc
// @Summary      Get a match by id
// @Tags         matches
// @Produce      json
// @Param        matchID path int true "Match ID"
// @Success      200 {object} models.Match
// @Failure      404 {object} map[string]string
// @Router       /matches/{matchID} [get]
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.service.GetByID(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}

// List godoc
// @Summary      List tournament matches
// @Tags         matches
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Param        stage query string false "Filter by stage (group or final)"
// @Param        round query int false "Filter by round"
// @Success      200 {array} models.Match
// @Router       /tournaments/{tournamentID}/matches [get]
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var stage *models.MatchStage
	if raw := r.URL.Query().Get("stage"); raw != "" {
		s := models.MatchStage(raw)
		if s != models.StageGroup && s != models.StageFinal {
			badRequestResponse(w, r, errors.New("stage must be group or final"))
			return
		}
		stage = &s
	}

	var round *int
	if raw := r.URL.Query().Get("round"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequestResponse(w, r, errors.New("invalid round query parameter"))
			return
		}
		round = &n
	}

	matches, err := h.service.ListByTournament(r.Context(), tournamentID, stage, round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}

// RecordResult godoc
// @Summary      Record a match result
// @Description  Completing a bracket match automatically advances the winner
//               and, when a third-place match exists, the loser.
// @Tags         matches
// @Accept       json
// @Produce      json
// @Param        matchID path int true "Match ID"
// @Param        input body services.RecordResultInput true "Score and outcome"
// @Success      200 {object} models.Match
// @Failure      409 {object} map[string]string
// @Security     BearerAuth
// @Router       /matches/{matchID}/result [put]
func (h *MatchHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.service.RecordResult(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}
