package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/kicker-tournament/services"
	"github.com/go-chi/chi/v5"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	responder
}

func NewTournamentHandler(ts services.TournamentService, logger *slog.Logger) *TournamentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TournamentHandler{
		tournamentService: ts,
		responder:         responder{logger: logger},
	}
}

// ListHandler handles GET /tournaments.
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.tournamentService.ListTournaments(r.Context())
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": summaries}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /tournaments/{tournamentID}.
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.GetTournament(r.Context(), chi.URLParam(r, "tournamentID"))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// DeleteHandler handles DELETE /tournaments/{tournamentID}.
func (h *TournamentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")
	if err := h.tournamentService.DeleteTournament(r.Context(), tournamentID); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.logOrganizerAction(r, "delete_tournament", tournamentID)
	w.WriteHeader(http.StatusNoContent)
}

// RegisterPlayerHandler handles POST /tournaments/players, which starts a new
// tournament, and POST /tournaments/{tournamentID}/players.
func (h *TournamentHandler) RegisterPlayerHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")

	var input services.RegisterPlayerInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.RegisterPlayer(r.Context(), tournamentID, input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.logOrganizerAction(r, "register_player", tournament.ID)

	status := http.StatusOK
	headers := http.Header{}
	if tournamentID == "" {
		status = http.StatusCreated
		headers.Set("Location", "/tournaments/"+tournament.ID)
	}
	if err := writeJSON(w, status, jsonResponse{"tournament": tournament}, headers); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// RemovePlayerHandler handles DELETE /tournaments/{tournamentID}/players/{playerID}.
func (h *TournamentHandler) RemovePlayerHandler(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.RemovePlayer(r.Context(), chi.URLParam(r, "tournamentID"), chi.URLParam(r, "playerID"))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.logOrganizerAction(r, "remove_player", tournament.ID)
	if len(tournament.Players) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// GenerateBracketHandler handles POST /tournaments/{tournamentID}/bracket.
func (h *TournamentHandler) GenerateBracketHandler(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.GenerateBracket(r.Context(), chi.URLParam(r, "tournamentID"))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.logOrganizerAction(r, "generate_bracket", tournament.ID)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// StartHandler handles POST /tournaments/{tournamentID}/start.
func (h *TournamentHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.StartTournament(r.Context(), chi.URLParam(r, "tournamentID"))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.logOrganizerAction(r, "start_tournament", tournament.ID)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// RecordResultHandler handles PUT /tournaments/{tournamentID}/rounds/{round}/matches/{match}.
func (h *TournamentHandler) RecordResultHandler(w http.ResponseWriter, r *http.Request) {
	roundIndex, err := getIntFromURL(r, "round")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	matchIndex, err := getIntFromURL(r, "match")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	var input services.RecordResultInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	input.RoundIndex = roundIndex
	input.MatchIndex = matchIndex

	tournament, err := h.tournamentService.RecordResult(r.Context(), chi.URLParam(r, "tournamentID"), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.logOrganizerAction(r, "record_result", tournament.ID)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
