package main

import (
	"net/http"

	"go.uber.org/zap"

	"securerisk/internal/ai"
	"securerisk/internal/audit"
	"securerisk/internal/auth"
	"securerisk/internal/config"
	"securerisk/internal/httpserver"
	"securerisk/internal/logger"
	"securerisk/internal/models"
	"securerisk/internal/store"
)

func main() {
	lg := logger.New()
	defer lg.Sync()

	cfg, err := config.Load()
	if err != nil {
		lg.Fatalw("config load failed", "error", err)
	}
	db, err := store.Open(cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	if err := store.Migrate(db); err != nil {
		lg.Fatalw("automigrate failed", "error", err)
	}
	st := store.New(db)
	seedDefaultAdmin(st, cfg, lg)

	rec := audit.NewRecorder(db, lg)
	aic := ai.New(cfg, lg)
	if aic == nil {
		lg.Infow("ai provider not configured, suggestion endpoints disabled")
	}

	router := httpserver.NewRouter(cfg, st, rec, aic, lg)
	lg.Infow("listening", "port", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		lg.Fatalw("server stopped", "error", err)
	}
}

// seedDefaultAdmin creates a first admin account when the store has
// none, so a fresh deployment is reachable without hand-editing the
// database. Skipped unless ADMIN_PASSWORD is set.
func seedDefaultAdmin(st *store.Store, cfg *config.Config, lg *zap.SugaredLogger) {
	if cfg.AdminPassword == "" {
		return
	}
	n, err := st.CountUsersByRole(models.RoleAdmin)
	if err != nil {
		lg.Warnw("admin count failed", "error", err)
		return
	}
	if n > 0 {
		return
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		lg.Warnw("admin password hash failed", "error", err)
		return
	}
	if _, err := st.InsertUser(cfg.AdminUsername, hash, models.RoleAdmin); err != nil {
		lg.Warnw("admin seed failed", "error", err)
		return
	}
	lg.Infow("seeded default admin", "username", cfg.AdminUsername)
}
