package routes

import (
	"net/http"

	"github.com/Dosada05/kicker-tournament/handlers"
	"github.com/Dosada05/kicker-tournament/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Options struct {
	AllowedOrigins []string
	// JWTSecret protects mutating routes; empty leaves them open.
	JWTSecret []byte
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Post("/auth/token", authHandler.Login)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(opts.JWTSecret))

			r.Post("/players", tournamentHandler.RegisterPlayerHandler)
			r.Delete("/{tournamentID}", tournamentHandler.DeleteHandler)
			r.Post("/{tournamentID}/players", tournamentHandler.RegisterPlayerHandler)
			r.Delete("/{tournamentID}/players/{playerID}", tournamentHandler.RemovePlayerHandler)
			r.Post("/{tournamentID}/bracket", tournamentHandler.GenerateBracketHandler)
			r.Post("/{tournamentID}/start", tournamentHandler.StartHandler)
			r.Put("/{tournamentID}/rounds/{round}/matches/{match}", tournamentHandler.RecordResultHandler)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
