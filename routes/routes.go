package routes

import (
	"net/http"

	"github.com/courtside/padel-system/handlers"
	"github.com/courtside/padel-system/middleware"
	"github.com/courtside/padel-system/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Player     *handlers.PlayerHandler
	Match      *handlers.MatchHandler
	Tournament *handlers.TournamentHandler
	WebSocket  *handlers.WebSocketHandler
}

func InitRoutes(h Handlers, jwtSecret []byte) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticator(jwtSecret)

	router.Post("/auth/register", h.Auth.RegisterHandler)
	router.Post("/auth/login", h.Auth.LoginHandler)

	router.Route("/players", func(r chi.Router) {
		r.Get("/{playerID}", h.Player.GetByIDHandler)
		r.Get("/{playerID}/rating-history", h.Player.RatingHistoryHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/{playerID}/avatar", h.Player.UploadAvatarHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", h.Match.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/", h.Match.CreateHandler)
			r.Post("/past", h.Match.RecordPastHandler)
			r.Patch("/{matchID}/schedule", h.Match.UpdateScheduleHandler)
			r.Delete("/{matchID}", h.Match.DeleteHandler)

			r.Post("/{matchID}/join", h.Match.JoinHandler)
			r.Post("/{matchID}/leave", h.Match.LeaveHandler)
			r.Post("/{matchID}/approve", h.Match.ApproveHandler)
			r.Post("/{matchID}/reject", h.Match.RejectHandler)

			r.Post("/{matchID}/score", h.Match.SubmitScoreHandler)
			r.Post("/{matchID}/score/confirm", h.Match.ConfirmScoreHandler)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.ListHandler)
		r.Get("/{tournamentID}", h.Tournament.GetByIDHandler)
		r.Get("/{tournamentID}/standings", h.Tournament.StandingsHandler)
		r.Get("/{tournamentID}/live", h.Tournament.LiveHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/", h.Tournament.CreateHandler)
			r.Post("/{tournamentID}/registrations", h.Tournament.RegisterTeamHandler)
			r.Post("/{tournamentID}/start", h.Tournament.StartHandler)
			r.Post("/{tournamentID}/rounds/next", h.Tournament.NextRoundHandler)
			r.Post("/{tournamentID}/matches/score", h.Tournament.RecordScoreHandler)
			r.Post("/{tournamentID}/complete", h.Tournament.CompleteHandler)
			r.Post("/{tournamentID}/cancel", h.Tournament.CancelHandler)
			r.Post("/{tournamentID}/logo", h.Tournament.UploadLogoHandler)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Служебные ручки только для админов.
	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.Authorize(models.GlobalRoleAdmin))

		r.Post("/matches/{matchID}/force-confirm", h.Match.ForceConfirmHandler)
	})

	return router
}
