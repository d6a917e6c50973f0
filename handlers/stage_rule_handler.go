package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/club-manager/models"
	"github.com/Dosada05/club-manager/services"
)

type StageRuleHandler struct {
	service services.StageRuleService
	logger  *slog.Logger
}

func NewStageRuleHandler(service services.StageRuleService, logger *slog.Logger) *StageRuleHandler {
	return &StageRuleHandler{service: service, logger: logger}
}

// Upsert godoc
// @Summary      Create or replace the scoring rule of a stage
// @Tags         stage-rules
// @Accept       json
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Param        input body services.UpsertStageRuleInput true "Rule settings"
// @Success      200 {object} models.StageRule
// @Failure      400 {object} map[string]string
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/stage-rules [put]
func (h *StageRuleHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpsertStageRuleInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rule, err := h.service.Upsert(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stage_rule": rule}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}

// Get godoc
// @Summary      Get the scoring rule of a stage
// @Description  Falls back to the default preset when none is configured.
// @Tags         stage-rules
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Param        stage query string true "Stage (group or final)"
// @Success      200 {object} models.StageRule
// @Router       /tournaments/{tournamentID}/stage-rules [get]
func (h *StageRuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stage := models.MatchStage(r.URL.Query().Get("stage"))
	if stage != models.StageGroup && stage != models.StageFinal {
		badRequestResponse(w, r, errors.New("stage must be group or final"))
		return
	}

	rule, err := h.service.Get(r.Context(), tournamentID, stage)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stage_rule": rule}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}
