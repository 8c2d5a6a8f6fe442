package client

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"securerisk/internal/models"
)

// Session is one authenticated user's view of the register. All risk
// access goes through it, so nothing is fetched before a token exists
// and concurrent sessions never share credentials.
type Session struct {
	c     *Client
	token string
	user  models.User

	mu    sync.Mutex
	risks []models.Risk
}

func (s *Session) User() models.User { return s.user }

// Valid reports whether the session still holds a credential.
func (s *Session) Valid() bool { return s.token != "" }

// Risks returns the session's current copy of the register.
func (s *Session) Risks() []models.Risk {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Risk, len(s.risks))
	copy(out, s.risks)
	return out
}

// Refresh replaces the local register wholesale from the server. A
// 401/403 invalidates the session.
func (s *Session) Refresh(ctx context.Context) error {
	var risks []models.Risk
	if err := s.do(ctx, http.MethodGet, "/api/risks", nil, &risks); err != nil {
		return err
	}
	s.mu.Lock()
	s.risks = risks
	s.mu.Unlock()
	return nil
}

// RiskDraft is the payload for creating a risk. Score and level are
// computed server-side regardless of what a caller might set locally.
type RiskDraft struct {
	Title         string        `json:"title"`
	Asset         string        `json:"asset"`
	Threat        string        `json:"threat"`
	Vulnerability string        `json:"vulnerability"`
	Likelihood    int           `json:"likelihood"`
	Impact        int           `json:"impact"`
	Owner         string        `json:"owner"`
	Status        models.Status `json:"status,omitempty"`
	TreatmentPlan string        `json:"treatmentPlan"`
}

func (s *Session) CreateRisk(ctx context.Context, draft RiskDraft) (models.Risk, error) {
	var created models.Risk
	if err := s.do(ctx, http.MethodPost, "/api/risks", draft, &created); err != nil {
		return models.Risk{}, err
	}
	s.mu.Lock()
	s.risks = append([]models.Risk{created}, s.risks...)
	s.mu.Unlock()
	return created, nil
}

// RiskUpdate is a partial update; nil fields stay untouched.
type RiskUpdate struct {
	Title         *string        `json:"title,omitempty"`
	Asset         *string        `json:"asset,omitempty"`
	Threat        *string        `json:"threat,omitempty"`
	Vulnerability *string        `json:"vulnerability,omitempty"`
	Likelihood    *int           `json:"likelihood,omitempty"`
	Impact        *int           `json:"impact,omitempty"`
	Owner         *string        `json:"owner,omitempty"`
	Status        *models.Status `json:"status,omitempty"`
	TreatmentPlan *string        `json:"treatmentPlan,omitempty"`
}

func (s *Session) UpdateRisk(ctx context.Context, id string, upd RiskUpdate) (models.Risk, error) {
	var updated models.Risk
	if err := s.do(ctx, http.MethodPut, "/api/risks/"+id, upd, &updated); err != nil {
		return models.Risk{}, err
	}
	s.mu.Lock()
	for i := range s.risks {
		if s.risks[i].ID == updated.ID {
			s.risks[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

func (s *Session) DeleteRisk(ctx context.Context, id string) error {
	if err := s.do(ctx, http.MethodDelete, "/api/risks/"+id, nil, nil); err != nil {
		return err
	}
	s.mu.Lock()
	for i := range s.risks {
		if s.risks[i].ID == id {
			s.risks = append(s.risks[:i], s.risks[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *Session) Stats(ctx context.Context) (models.RiskStatistics, error) {
	var stats models.RiskStatistics
	err := s.do(ctx, http.MethodGet, "/api/risks/stats", nil, &stats)
	return stats, err
}

// Suggestions mirrors the AI endpoint's response.
type Suggestions struct {
	Threats         []string `json:"threats"`
	Vulnerabilities []string `json:"vulnerabilities"`
}

func (s *Session) Suggest(ctx context.Context, asset, assetContext string) (Suggestions, error) {
	var out Suggestions
	err := s.do(ctx, http.MethodPost, "/api/ai/suggest",
		map[string]string{"asset": asset, "context": assetContext}, &out)
	return out, err
}

func (s *Session) TreatmentPlan(ctx context.Context, title, threat, vulnerability string) (string, error) {
	var out struct {
		Plan string `json:"plan"`
	}
	err := s.do(ctx, http.MethodPost, "/api/ai/treatment",
		map[string]string{"title": title, "threat": threat, "vulnerability": vulnerability}, &out)
	return out.Plan, err
}

func (s *Session) do(ctx context.Context, method, path string, body, out interface{}) error {
	if !s.Valid() {
		return ErrUnauthorized
	}
	err := s.c.do(ctx, method, path, s.token, body, out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && method == http.MethodGet &&
		(apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
		// A rejected fetch means the token is stale; force logout.
		s.token = ""
		return errors.Join(ErrUnauthorized, err)
	}
	return err
}
