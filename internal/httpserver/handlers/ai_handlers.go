package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"securerisk/internal/ai"
)

type suggestReq struct {
	Asset   string `json:"asset"`
	Context string `json:"context"`
}

// SuggestRisks proxies the assessment form's "suggest threats" action
// to the AI provider. Provider failures surface as 500; the client
// degrades to manual entry.
func SuggestRisks(aic *ai.Client, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if aic == nil {
			respondError(w, http.StatusInternalServerError, "ai provider not configured")
			return
		}
		var req suggestReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		out, err := aic.SuggestRisks(r.Context(), req.Asset, req.Context)
		if err != nil {
			lg.Errorw("ai suggest failed", "asset", req.Asset, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to generate suggestions")
			return
		}
		respondJSON(w, http.StatusOK, out)
	}
}

type treatmentReq struct {
	Title         string `json:"title"`
	Threat        string `json:"threat"`
	Vulnerability string `json:"vulnerability"`
}

func TreatmentPlan(aic *ai.Client, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if aic == nil {
			respondError(w, http.StatusInternalServerError, "ai provider not configured")
			return
		}
		var req treatmentReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		plan, err := aic.TreatmentPlan(r.Context(), req.Title, req.Threat, req.Vulnerability)
		if err != nil {
			lg.Errorw("ai treatment plan failed", "title", req.Title, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to generate treatment plan")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"plan": plan})
	}
}
