package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/club-manager/services"
	"github.com/go-chi/chi/v5"
)

type DrawHandler struct {
	service services.DrawService
	logger  *slog.Logger
}

func NewDrawHandler(service services.DrawService, logger *slog.Logger) *DrawHandler {
	return &DrawHandler{service: service, logger: logger}
}

// AutoGenerateGroups godoc
// @Summary      Generate groups for the group stage
// @Description  Distributes checked-in participants over groups in seed order.
//               With preview=true nothing but a draft draw record is persisted.
// @Tags         draws
// @Accept       json
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Param        input body services.AutoGenerateGroupsInput true "Generation options"
// @Success      201 {object} services.GroupsResult
// @Failure      409 {object} map[string]string
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/draws/groups [post]
func (h *DrawHandler) AutoGenerateGroups(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.AutoGenerateGroupsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.service.AutoGenerateGroups(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusCreated
	if input.Preview {
		status = http.StatusOK
	}
	if err := writeJSON(w, status, result, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}

// GenerateGroupMatches godoc
// @Summary      Schedule a round robin for one group
// @Tags         draws
// @Accept       json
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Param        groupID path int true "Group ID"
// @Param        input body services.GenerateGroupMatchesInput true "Scheduling options"
// @Success      201 {array} models.Match
// @Failure      409 {object} map[string]string
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/groups/{groupID}/matches [post]
func (h *DrawHandler) GenerateGroupMatches(w http.ResponseWriter, r *http.Request) {
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

	var input services.GenerateGroupMatchesInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.service.GenerateGroupMatches(r.Context(), tournamentID, groupID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}

// GenerateBracket godoc
// @Summary      Generate the single elimination bracket
// @Description  Builds every round up front. Undetermined slots are filled with
//               virtual placeholders carrying their advancing source.
// @Tags         draws
// @Accept       json
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Param        input body services.GenerateBracketInput true "Generation options"
// @Success      201 {object} services.BracketResult
// @Failure      409 {object} map[string]string
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/draws/bracket [post]
func (h *DrawHandler) GenerateBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.GenerateBracketInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.service.GenerateBracket(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusCreated
	if input.Preview {
		status = http.StatusOK
	}
	if err := writeJSON(w, status, result, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}

// ListDraws godoc
// @Summary      List draw records of a tournament
// @Tags         draws
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Success      200 {array} models.Draw
// @Router       /tournaments/{tournamentID}/draws [get]
func (h *DrawHandler) ListDraws(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	draws, err := h.service.ListDraws(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"draws": draws}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}

// ApplyDraw godoc
// @Summary      Apply a draft draw
// @Description  Replays the stored input and persists the result. Fails if the
//               tournament state changed since the preview was taken.
// @Tags         draws
// @Produce      json
// @Param        publicID path string true "Draw public ID"
// @Success      200 {object} models.Draw
// @Failure      409 {object} map[string]string
// @Security     BearerAuth
// @Router       /draws/{publicID}/apply [post]
func (h *DrawHandler) ApplyDraw(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")
	if publicID == "" {
		badRequestResponse(w, r, errors.New("invalid publicID URL parameter"))
		return
	}

	draw, err := h.service.ApplyDraw(r.Context(), publicID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"draw": draw}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}

// CancelDraw godoc
// @Summary      Cancel a draft draw
// @Tags         draws
// @Produce      json
// @Param        publicID path string true "Draw public ID"
// @Success      200 {object} models.Draw
// @Security     BearerAuth
// @Router       /draws/{publicID}/cancel [post]
func (h *DrawHandler) CancelDraw(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")
	if publicID == "" {
		badRequestResponse(w, r, errors.New("invalid publicID URL parameter"))
		return
	}

	draw, err := h.service.CancelDraw(r.Context(), publicID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"draw": draw}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}
