package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/papycha/duocup/handlers"
	"github.com/papycha/duocup/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	rosterHandler *handlers.RosterHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	wsHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Get("/healthz", handlers.HealthHandler)
	router.Get("/ws/feed", wsHandler.FeedHandler)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		r.Get("/state", tournamentHandler.StateHandler)

		r.Route("/roster/players", func(r chi.Router) {
			r.Post("/", rosterHandler.RegisterHandler)
			r.Put("/{userID}/class", rosterHandler.AssignClassHandler)
			r.Delete("/{userID}", rosterHandler.RemoveHandler)
		})

		r.Route("/tournament", func(r chi.Router) {
			r.Post("/draw", tournamentHandler.DrawHandler)
			r.Post("/rounds", tournamentHandler.StartRoundHandler)
			r.Post("/reset", rosterHandler.ResetHandler)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Post("/result", matchHandler.ResultHandler)
			r.Route("/{matchID}", func(r chi.Router) {
				r.Post("/confirm", matchHandler.ConfirmHandler)
				r.Post("/unavailable", matchHandler.UnavailableHandler)
				r.Post("/validate", matchHandler.ValidateHandler)
				r.Post("/reschedule", matchHandler.RescheduleHandler)
				r.Post("/winner", matchHandler.WinnerHandler)
				r.Post("/forfeit", matchHandler.ForfeitHandler)
			})
		})
	})
}
