package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/khaleegram/earena/handlers"
	"github.com/khaleegram/earena/middleware"
)

type Handlers struct {
	Tournament *handlers.TournamentHandler
	Team       *handlers.TeamHandler
	Match      *handlers.MatchHandler
	Evidence   *handlers.EvidenceHandler
	WebSocket  *handlers.WebSocketHandler
}

func InitRoutes(auth *middleware.Authenticator, h Handlers) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.ListHandler)
		r.Get("/{tournamentID}", h.Tournament.GetByIDHandler)
		r.Get("/{tournamentID}/overview", h.Tournament.OverviewHandler)
		r.Get("/{tournamentID}/standings", h.Tournament.StandingsHandler)
		r.Get("/{tournamentID}/teams", h.Team.ListHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/{tournamentID}/teams", h.Team.RegisterHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.RequireRole(middleware.RoleOrganizer))

			r.Post("/", h.Tournament.CreateHandler)
			r.Delete("/{tournamentID}", h.Tournament.DeleteHandler)
			r.Post("/{tournamentID}/open-registration", h.Tournament.OpenRegistrationHandler)
			r.Post("/{tournamentID}/fixtures", h.Tournament.GenerateFixturesHandler)
			r.Post("/{tournamentID}/start", h.Tournament.StartHandler)
			r.Post("/{tournamentID}/advance", h.Tournament.AdvanceStageHandler)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/{teamID}", h.Team.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.RequireRole(middleware.RoleOrganizer))

			r.Post("/{teamID}/approve", h.Team.ApproveHandler)
			r.Delete("/{teamID}", h.Team.WithdrawHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", h.Match.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/{matchID}/report", h.Match.SubmitReportHandler)
			r.Post("/{matchID}/evidence", h.Evidence.UploadHandler)
			r.Post("/{matchID}/forfeit", h.Match.ForfeitHandler)
			r.Post("/{matchID}/replay-requests", h.Match.RequestReplayHandler)
			r.Post("/{matchID}/replay-requests/response", h.Match.RespondReplayHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.RequireRole(middleware.RoleOrganizer))

			r.Post("/{matchID}/override", h.Match.OverrideResultHandler)
			r.Post("/{matchID}/force-replay", h.Match.ForceReplayHandler)
			r.Post("/{matchID}/replay-requests/approval", h.Match.ApproveReplayHandler)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	return router
}
