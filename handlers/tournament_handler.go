package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Dosada05/club-manager/middleware"
	"github.com/Dosada05/club-manager/models"
	"github.com/Dosada05/club-manager/repositories"
	"github.com/Dosada05/club-manager/services"
)

type TournamentHandler struct {
	service services.TournamentService
	logger  *slog.Logger
}

func NewTournamentHandler(service services.TournamentService, logger *slog.Logger) *TournamentHandler {
	return &TournamentHandler{service: service, logger: logger}
}

// Create godoc
// @Summary      Create a tournament
// @Tags         tournaments
// @Accept       json
// @Produce      json
// @Param        input body services.CreateTournamentInput true "Tournament data"
// @Success      201 {object} models.Tournament
// @Failure      400 {object} map[string]string
// @Security     BearerAuth
// @Router       /tournaments [post]
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	organizerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.service.Create(r.Context(), organizerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}

// Get godoc
// @Summary      Get a tournament by id
// @Tags         tournaments
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Param        details query bool false "Include participants, groups and matches"
// @Success      200 {object} models.Tournament
// @Failure      404 {object} map[string]string
// @Router       /tournaments/{tournamentID} [get]
func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var tournament *models.Tournament
	if r.URL.Query().Get("details") == "true" {
		tournament, err = h.service.GetWithDetails(r.Context(), id)
	} else {
		tournament, err = h.service.GetByID(r.Context(), id)
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}

// List godoc
// @Summary      List tournaments
// @Tags         tournaments
// @Produce      json
// @Param        status query string false "Filter by status"
// @Param        organizer_id query int false "Filter by organizer"
// @Param        limit query int false "Page size (default 20)"
// @Param        offset query int false "Page offset"
// @Success      200 {array} models.Tournament
// @Router       /tournaments [get]
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListTournamentsFilter{Limit: 20}

	q := r.URL.Query()
	if raw := q.Get("status"); raw != "" {
		status := models.TournamentStatus(raw)
		filter.Status = &status
	}
	if raw := q.Get("organizer_id"); raw != "" {
		organizerID, err := strconv.Atoi(raw)
		if err != nil {
			badRequestResponse(w, r, errors.New("invalid organizer_id query parameter"))
			return
		}
		filter.OrganizerID = &organizerID
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 100 {
			badRequestResponse(w, r, errors.New("limit must be between 1 and 100"))
			return
		}
		filter.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			badRequestResponse(w, r, errors.New("invalid offset query parameter"))
			return
		}
		filter.Offset = offset
	}

	tournaments, err := h.service.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}

// UpdateStatus godoc
// @Summary      Transition a tournament to a new status
// @Tags         tournaments
// @Accept       json
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Success      200 {object} models.Tournament
// @Failure      400 {object} map[string]string
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/status [put]
func (h *TournamentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Status models.TournamentStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.service.UpdateStatus(r.Context(), id, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}

// SetParticipantsLocked godoc
// @Summary      Lock or unlock the participant list
// @Description  Draws require a locked list. Unlocking is refused once matches exist.
// @Tags         tournaments
// @Accept       json
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Success      200 {object} models.Tournament
// @Failure      409 {object} map[string]string
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/lock [put]
func (h *TournamentHandler) SetParticipantsLocked(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Locked bool `json:"locked"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.service.SetParticipantsLocked(r.Context(), id, input.Locked)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}

// UploadLogo godoc
// @Summary      Upload a tournament logo
// @Tags         tournaments
// @Accept       multipart/form-data
// @Produce      json
// @Param        tournamentID path int true "Tournament ID"
// @Param        logo formData file true "PNG or JPEG image"
// @Success      200 {object} models.Tournament
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID}/logo [post]
func (h *TournamentHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		badRequestResponse(w, r, errors.New("could not parse multipart form"))
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, errors.New("logo file is required"))
		return
	}
	defer file.Close()

	tournament, err := h.service.UploadLogo(r.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}

// Delete godoc
// @Summary      Delete a tournament
// @Tags         tournaments
// @Param        tournamentID path int true "Tournament ID"
// @Success      204
// @Security     BearerAuth
// @Router       /tournaments/{tournamentID} [delete]
func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
