package httpserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"securerisk/internal/ai"
	"securerisk/internal/config"
	"securerisk/internal/models"
)

func fakeProvider(content string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]string{"role": "assistant", "content": content},
				},
			},
		})
	}))
}

func aiClient(baseURL string) *ai.Client {
	return ai.New(&config.Config{
		OpenAIKey:     "test-key",
		OpenAIModel:   "test-model",
		OpenAIBaseURL: baseURL + "/v1",
	}, zap.NewNop().Sugar())
}

func TestAISuggestEndpoint(t *testing.T) {
	fake := fakeProvider(`{"threats":["phishing"],"vulnerabilities":["weak passwords"]}`)
	defer fake.Close()
	ts := newTestServer(t, aiClient(fake.URL))
	tok := register(t, ts, "viewer-ai", models.RoleViewer) // any authenticated role

	status, raw := doJSON(t, http.MethodPost, ts.URL+"/api/ai/suggest", tok,
		map[string]string{"asset": "mail server", "context": "on-prem"})
	require.Equal(t, http.StatusOK, status, string(raw))
	var out struct {
		Threats         []string `json:"threats"`
		Vulnerabilities []string `json:"vulnerabilities"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, []string{"phishing"}, out.Threats)
	assert.Equal(t, []string{"weak passwords"}, out.Vulnerabilities)
}

func TestAITreatmentEndpoint(t *testing.T) {
	fake := fakeProvider("Enforce MFA and patch monthly.")
	defer fake.Close()
	ts := newTestServer(t, aiClient(fake.URL))
	tok := register(t, ts, "analyst-ai", models.RoleAnalyst)

	status, raw := doJSON(t, http.MethodPost, ts.URL+"/api/ai/treatment", tok,
		map[string]string{"title": "X", "threat": "t", "vulnerability": "v"})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.JSONEq(t, `{"plan":"Enforce MFA and patch monthly."}`, string(raw))
}

func TestAIEndpointsRequireAuth(t *testing.T) {
	ts := newTestServer(t, nil)
	status, _ := doJSON(t, http.MethodPost, ts.URL+"/api/ai/suggest", "",
		map[string]string{"asset": "a"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAIProviderUnavailable(t *testing.T) {
	fake := fakeProvider("irrelevant")
	fake.Close() // provider down
	ts := newTestServer(t, aiClient(fake.URL))
	tok := register(t, ts, "admin-ai", models.RoleAdmin)

	status, raw := doJSON(t, http.MethodPost, ts.URL+"/api/ai/suggest", tok,
		map[string]string{"asset": "a", "context": "b"})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, string(raw), "error")
}

func TestAIProviderNotConfigured(t *testing.T) {
	ts := newTestServer(t, nil)
	tok := register(t, ts, "admin-noai", models.RoleAdmin)

	status, raw := doJSON(t, http.MethodPost, ts.URL+"/api/ai/treatment", tok,
		map[string]string{"title": "X"})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, string(raw), "not configured")
}
