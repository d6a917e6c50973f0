package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/club-manager/services"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func getIDFromURL(r *http.Request, param string) (int, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s URL parameter", param)
	}
	return id, nil
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	errorResponse(w, r, http.StatusNotFound, message)
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

// mapServiceErrorToHTTP translates the service error taxonomy: not-found maps
// to 404, invalid input to 400, state conflicts to 409, everything unknown to
// 500.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrGroupNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrParticipantNotFound),
		errors.Is(err, services.ErrDrawNotFound):
		notFoundResponse(w, r)

	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrNotEnoughParticipants),
		errors.Is(err, services.ErrRatingRequired),
		errors.Is(err, services.ErrUnknownSeedingMethod),
		errors.Is(err, services.ErrUnknownBracketSource),
		errors.Is(err, services.ErrGroupSizeOptionRequired),
		errors.Is(err, services.ErrInvalidGroupCount),
		errors.Is(err, services.ErrInvalidAdvancingCount),
		errors.Is(err, services.ErrInvalidMatchupsPerPair),
		errors.Is(err, services.ErrWinnerNotInMatch),
		errors.Is(err, services.ErrVirtualCannotAdvance),
		errors.Is(err, services.ErrNotVirtualParticipant),
		errors.Is(err, services.ErrParticipantInactive),
		errors.Is(err, services.ErrNoMatchingSource),
		errors.Is(err, services.ErrTournamentNameRequired),
		errors.Is(err, services.ErrDisplayNameRequired),
		errors.Is(err, services.ErrUnsupportedLogoType),
		errors.Is(err, services.ErrTournamentInvalidDates),
		errors.Is(err, services.ErrTournamentInvalidCap),
		errors.Is(err, services.ErrTournamentInvalidStatus),
		errors.Is(err, services.ErrInvalidStatusTransition):
		badRequestResponse(w, r, err)

	case errors.Is(err, services.ErrParticipantsNotLocked),
		errors.Is(err, services.ErrParticipantsLocked),
		errors.Is(err, services.ErrBracketAlreadyExists),
		errors.Is(err, services.ErrGroupsAlreadyExist),
		errors.Is(err, services.ErrGroupsNotGenerated),
		errors.Is(err, services.ErrGroupAlreadyScheduled),
		errors.Is(err, services.ErrGroupTooSmall),
		errors.Is(err, services.ErrDrawNotDraft),
		errors.Is(err, services.ErrMatchAlreadyFinal),
		errors.Is(err, services.ErrMatchSelfPlay),
		errors.Is(err, services.ErrTournamentFull),
		errors.Is(err, services.ErrCannotUnlockAfterDraw),
		errors.Is(err, services.ErrAlreadyResolved):
		conflictResponse(w, r, err.Error())

	case errors.Is(err, services.ErrRegistrationNotOpen):
		forbiddenResponse(w, r, err.Error())

	case errors.Is(err, services.ErrStorageNotConfigured):
		errorResponse(w, r, http.StatusServiceUnavailable, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}
