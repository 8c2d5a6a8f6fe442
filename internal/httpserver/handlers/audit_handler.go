package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"securerisk/internal/audit"
	"securerisk/internal/auth"
	"securerisk/internal/models"
)

// RecentLogs returns the caller's recent audit entries. Admins can
// pass ?all=1 to see everyone's.
func RecentLogs(rec *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.FromContext(r.Context())
		all := r.URL.Query().Get("all") == "1" && claims.Role == models.RoleAdmin
		logs, err := rec.Recent(claims.UserID, all)
		if err != nil {
			lg.Errorw("audit list failed", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to fetch logs")
			return
		}
		respondJSON(w, http.StatusOK, logs)
	}
}
