package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/kicker-tournament/brackets"
	"github.com/Dosada05/kicker-tournament/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub               *brackets.Hub
	tournamentService services.TournamentService
	upgrader          websocket.Upgrader
	logger            *slog.Logger
}

// NewWebSocketHandler accepts connections from the given origins; "*" or an
// empty list allows any origin.
func NewWebSocketHandler(hub *brackets.Hub, ts services.TournamentService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		hub:               hub,
		tournamentService: ts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// ServeWs handles GET /ws/tournaments/{tournamentID}. The hub sends the current
// snapshot as it registers the client, later changes arrive as broadcasts.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")

	if _, err := h.tournamentService.GetTournament(r.Context(), tournamentID); err != nil {
		if errors.Is(err, services.ErrTournamentNotFound) {
			http.Error(w, "tournament not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to load tournament for websocket", slog.String("tournament_id", tournamentID), slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "failed to upgrade websocket connection", slog.String("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	room := brackets.RoomForTournament(tournamentID)
	client := brackets.NewClient(h.hub, conn, room)

	// The request context ends with this handler, the hub loads later.
	loadCtx := context.WithoutCancel(r.Context())
	initial := func() ([]byte, error) {
		tournament, err := h.tournamentService.GetTournament(loadCtx, tournamentID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(brackets.WebSocketMessage{
			Type:    brackets.MessageTournamentUpdated,
			Payload: tournament,
			RoomID:  room,
		})
	}

	if !h.hub.Subscribe(client, initial) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	h.logger.InfoContext(r.Context(), "websocket client subscribed", slog.String("room", room))
}
