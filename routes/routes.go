package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pichanga-app/pichanga-backend/handlers"
	"github.com/pichanga-app/pichanga-backend/middleware"
	"github.com/pichanga-app/pichanga-backend/models"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Profile   *handlers.ProfileHandler
	Match     *handlers.MatchHandler
	Payment   *handlers.PaymentHandler
	Stats     *handlers.StatsHandler
	Promo     *handlers.PromoHandler
	WebSocket *handlers.WebSocketHandler
}

// New assembles the router. Register/login, the provider webhook, the
// websocket stream, and the match board/detail reads work without a
// token; everything else requires one.
func New(h Handlers, auth middleware.Authenticator) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)

		// Provider callbacks authenticate by verifying the event
		// against the provider API, not by bearer token.
		r.Post("/payments/mercadopago/webhook", h.Payment.Webhook)

		// The board and the match page are browsable before login; a
		// token adds the caller's personal sections and flags.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(auth))

			r.Get("/matches/board", h.Match.Board)
			r.Get("/matches/{identifier}", h.Match.Detail)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(auth))

			r.Post("/auth/logout", h.Auth.Logout)
			r.Post("/auth/logout-all", h.Auth.LogoutAll)
			r.Get("/auth/sessions", h.Auth.Sessions)

			r.Get("/profile", h.Profile.Get)
			r.Patch("/profile", h.Profile.Update)
			r.Post("/profile/change-password", h.Profile.ChangePassword)
			r.Post("/profile/photo", h.Profile.UploadPhoto)
			r.Post("/profile/deactivate", h.Profile.Deactivate)
			r.Put("/profile/team", h.Profile.SetTeam)
			r.Delete("/profile/team", h.Profile.ClearTeam)
			r.Get("/profile/team/history", h.Profile.TeamHistory)

			r.Get("/teams", h.Profile.Teams)

			r.Get("/matches/{identifier}/players", h.Match.Roster)
			r.Post("/matches/{identifier}/join", h.Match.Join)
			r.Post("/matches/{identifier}/leave", h.Match.Leave)

			r.With(middleware.RequireRole(models.RoleAdmin)).
				Put("/matches/{identifier}/result", h.Stats.RecordResult)

			r.Post("/payments/checkout", h.Payment.CreateCheckout)
			r.Get("/payments/{publicID}", h.Payment.Status)

			r.Get("/stats/summary", h.Stats.Summary)
			r.Get("/stats/matches", h.Stats.Matches)
			r.Get("/promos", h.Promo.Home)
		})
	})

	r.Get("/ws/matches/{identifier}", h.WebSocket.WatchMatch)

	return r
}
