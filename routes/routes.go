package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/sitegestaodetorneios-hue/afsincroniza-eventos/docs" // регистрирует swagger-спеку
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/handlers"
	"github.com/sitegestaodetorneios-hue/afsincroniza-eventos/middleware"
)

type Handlers struct {
	Progression *handlers.ProgressionHandler
	Bracket     *handlers.BracketHandler
	Match       *handlers.MatchHandler
	WebSocket   *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	authenticate := middleware.Authenticate(opts.JWTSecret)
	organizerOnly := middleware.Authorize(middleware.RoleOrganizer, middleware.RoleAdmin)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/brackets/template", h.Bracket.TemplateHandler)

		r.Route("/tournaments/{tournamentID}", func(r chi.Router) {
			r.Get("/standings", h.Progression.StandingsHandler)
			r.Get("/matches", h.Match.ListHandler)

			r.Group(func(r chi.Router) {
				r.Use(authenticate, organizerOnly)
				r.Post("/bracket", h.Bracket.CreateHandler)
				r.Post("/progression/resolve", h.Progression.ResolveHandler)
			})
		})

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Use(authenticate, organizerOnly)
			r.Put("/result", h.Match.RecordResultHandler)
			r.Put("/slots/{side}/rule", h.Match.SetSlotRuleHandler)
		})
	})
}
