package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/kicker-tournament/services"
)

type AuthHandler struct {
	authService services.AuthService
	responder
}

func NewAuthHandler(authService services.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{authService: authService, responder: responder{logger: logger}}
}

// Login handles POST /auth/token and exchanges the organizer password for a JWT.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if input.Password == "" {
		h.badRequestResponse(w, r, errors.New("password is required"))
		return
	}

	token, err := h.authService.Login(r.Context(), input.Password)
	if err != nil {
		if errors.Is(err, services.ErrAuthInvalidCredentials) {
			h.logger.WarnContext(r.Context(), "organizer login failed", slog.String("remote_addr", r.RemoteAddr))
		}
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, token, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
