package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/kicker-tournament/brackets"
	"github.com/Dosada05/kicker-tournament/middleware"
	"github.com/Dosada05/kicker-tournament/services"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

const maxBodyBytes = 1_048_576

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBodyBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

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
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBodyBytes)
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

// getIntFromURL reads a non-negative integer path parameter.
func getIntFromURL(r *http.Request, param string) (int, error) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		return 0, fmt.Errorf("missing %s in URL path", param)
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s in URL path: %q", param, raw)
	}
	return v, nil
}

// responder writes error bodies and logs server side failures.
type responder struct {
	logger *slog.Logger
}

func (rs responder) errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	if err := writeJSON(w, status, jsonResponse{"error": message}, nil); err != nil {
		rs.logger.ErrorContext(r.Context(), "failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (rs responder) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	rs.logger.ErrorContext(r.Context(), "internal server error",
		slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.Any("error", err))
	rs.errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func (rs responder) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	rs.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (rs responder) notFoundResponse(w http.ResponseWriter, r *http.Request, message string) {
	rs.errorResponse(w, r, http.StatusNotFound, message)
}

// logOrganizerAction records a successful mutating request with the caller's
// role. Without authentication the caller is anonymous.
func (rs responder) logOrganizerAction(r *http.Request, action, tournamentID string) {
	role, err := middleware.GetRoleFromContext(r.Context())
	if err != nil {
		role = "anonymous"
	}
	rs.logger.InfoContext(r.Context(), "organizer action",
		slog.String("action", action), slog.String("tournament_id", tournamentID), slog.String("role", role))
}

// mapServiceErrorToHTTP turns service and engine errors into responses.
func (rs responder) mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrPlayerNotFound),
		errors.Is(err, brackets.ErrMatchNotFound):
		rs.notFoundResponse(w, r, err.Error())

	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrInvalidRoster),
		errors.Is(err, services.ErrInvalidScore):
		rs.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, services.ErrInvalidStateTransition),
		errors.Is(err, services.ErrTournamentFinished),
		errors.Is(err, services.ErrInvalidMatchState):
		rs.errorResponse(w, r, http.StatusConflict, err.Error())

	case errors.Is(err, services.ErrAuthInvalidCredentials):
		rs.errorResponse(w, r, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrAuthDisabled):
		rs.errorResponse(w, r, http.StatusNotFound, err.Error())

	default:
		rs.serverErrorResponse(w, r, err)
	}
}
