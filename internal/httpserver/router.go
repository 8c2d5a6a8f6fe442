package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"securerisk/internal/ai"
	"securerisk/internal/audit"
	"securerisk/internal/auth"
	"securerisk/internal/config"
	"securerisk/internal/httpserver/handlers"
	"securerisk/internal/models"
	"securerisk/internal/store"
)

func NewRouter(cfg *config.Config, st *store.Store, rec *audit.Recorder, aic *ai.Client, lg *zap.SugaredLogger) http.Handler {
	secret := []byte(cfg.JWTSecret)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", handlers.Register(st, rec, secret, cfg.TokenTTL, lg))
		api.Post("/auth/login", handlers.Login(st, rec, secret, cfg.TokenTTL, lg))

		api.Group(func(protected chi.Router) {
			protected.Use(auth.RequireAuth(secret))
			protected.Get("/risks", handlers.ListRisks(st, lg))
			protected.Get("/risks/stats", handlers.RiskStats(st, lg))
			protected.Get("/logs", handlers.RecentLogs(rec, lg))
			protected.Post("/ai/suggest", handlers.SuggestRisks(aic, lg))
			protected.Post("/ai/treatment", handlers.TreatmentPlan(aic, lg))

			protected.Group(func(editor chi.Router) {
				editor.Use(auth.RequireRole(models.RoleAdmin, models.RoleAnalyst))
				editor.Post("/risks", handlers.CreateRisk(st, rec, lg))
				editor.Put("/risks/{id}", handlers.UpdateRisk(st, rec, lg))
			})

			protected.Group(func(admin chi.Router) {
				admin.Use(auth.RequireRole(models.RoleAdmin))
				admin.Delete("/risks/{id}", handlers.DeleteRisk(st, rec, lg))
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}
