package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"securerisk/internal/audit"
	"securerisk/internal/auth"
	"securerisk/internal/models"
	"securerisk/internal/store"
)

func ListRisks(st *store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		risks, err := st.ListRisks()
		if err != nil {
			lg.Errorw("risk list failed", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to fetch risks")
			return
		}
		respondJSON(w, http.StatusOK, risks)
	}
}

// createRiskReq mirrors the full risk shape the SPA submits. Any
// client-supplied score/level is ignored; both are recomputed from
// likelihood×impact before the record is stored.
type createRiskReq struct {
	ID            string `json:"id"`
	Title         string `json:"title" validate:"required"`
	Asset         string `json:"asset"`
	Threat        string `json:"threat"`
	Vulnerability string `json:"vulnerability"`
	Likelihood    int    `json:"likelihood" validate:"omitempty,min=1,max=5"`
	Impact        int    `json:"impact" validate:"omitempty,min=1,max=5"`
	Owner         string `json:"owner"`
	Status        string `json:"status" validate:"omitempty,oneof=Open Mitigated Accepted Transferred Avoided"`
	TreatmentPlan string `json:"treatmentPlan"`
}

func CreateRisk(st *store.Store, rec *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRiskReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Title = strings.TrimSpace(req.Title)
		if err := validate.Struct(req); err != nil {
			respondError(w, http.StatusBadRequest, "title required; likelihood/impact must be 1-5")
			return
		}
		risk := models.BuildRisk(models.RiskInput{
			ID:            req.ID,
			Title:         req.Title,
			Asset:         req.Asset,
			Threat:        req.Threat,
			Vulnerability: req.Vulnerability,
			Likelihood:    req.Likelihood,
			Impact:        req.Impact,
			Owner:         req.Owner,
			Status:        models.Status(req.Status),
			TreatmentPlan: req.TreatmentPlan,
		}, time.Time{})
		if err := st.InsertRisk(&risk); err != nil {
			lg.Errorw("risk insert failed", "id", risk.ID, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to save risk")
			return
		}
		rec.Record(auth.Subject(r.Context()), "risk.create", map[string]any{"risk_id": risk.ID, "title": risk.Title})
		respondJSON(w, http.StatusCreated, risk)
	}
}

type updateRiskReq struct {
	Title         *string `json:"title"`
	Asset         *string `json:"asset"`
	Threat        *string `json:"threat"`
	Vulnerability *string `json:"vulnerability"`
	Likelihood    *int    `json:"likelihood"`
	Impact        *int    `json:"impact"`
	Owner         *string `json:"owner"`
	Status        *string `json:"status"`
	TreatmentPlan *string `json:"treatmentPlan"`
}

func UpdateRisk(st *store.Store, rec *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req updateRiskReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		patch := store.RiskPatch{
			Title:         req.Title,
			Asset:         req.Asset,
			Threat:        req.Threat,
			Vulnerability: req.Vulnerability,
			Likelihood:    req.Likelihood,
			Impact:        req.Impact,
			Owner:         req.Owner,
			TreatmentPlan: req.TreatmentPlan,
		}
		if req.Status != nil {
			status := models.Status(*req.Status)
			if !status.Valid() {
				respondError(w, http.StatusBadRequest, "unknown status")
				return
			}
			patch.Status = &status
		}
		risk, err := st.UpdateRisk(id, patch)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(w, http.StatusNotFound, "risk not found")
				return
			}
			lg.Errorw("risk update failed", "id", id, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to update risk")
			return
		}
		rec.Record(auth.Subject(r.Context()), "risk.update", map[string]any{"risk_id": risk.ID})
		respondJSON(w, http.StatusOK, risk)
	}
}

func DeleteRisk(st *store.Store, rec *audit.Recorder, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := st.DeleteRisk(id); err != nil {
			lg.Errorw("risk delete failed", "id", id, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to delete risk")
			return
		}
		rec.Record(auth.Subject(r.Context()), "risk.delete", map[string]any{"risk_id": id})
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func RiskStats(st *store.Store, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := st.RiskStats()
		if err != nil {
			lg.Errorw("risk stats failed", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to compute statistics")
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}
