package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/club-manager/services"
)

type StandingsHandler struct {
	service services.StandingsService
	logger  *slog.Logger
}

func NewStandingsHandler(service services.StandingsService, logger *slog.Logger) *StandingsHandler {
	return &StandingsHandler{service: service, logger: logger}
}

// GetGroupStandings godoc
// @Summary      Get the standings table of a group
// @Description  Computed on demand from completed matches and the configured
//               stage rule.
// @Tags         standings
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Param        groupID path int true "Group ID"
// @Success      200 {object} models.GroupStandings
// @Failure      404 {object} map[string]string
// @Router       /tournaments/{tournamentID}/groups/{groupID}/standings [get]
func (h *StandingsHandler) GetGroupStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	groupID, err := getIDFromURL(r, "groupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.service.GetStandings(r.Context(), tournamentID, groupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}
