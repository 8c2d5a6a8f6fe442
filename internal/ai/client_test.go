package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"securerisk/internal/config"
)

// fakeProvider mimics the chat-completions endpoint and always answers
// with the given message content.
func fakeProvider(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
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

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c := New(&config.Config{
		OpenAIKey:     "test-key",
		OpenAIModel:   "test-model",
		OpenAIBaseURL: baseURL + "/v1",
	}, zap.NewNop().Sugar())
	require.NotNil(t, c)
	return c
}

func TestNewWithoutKey(t *testing.T) {
	c := New(&config.Config{}, zap.NewNop().Sugar())
	assert.Nil(t, c)
}

func TestSuggestRisks(t *testing.T) {
	fake := fakeProvider(t, `{"threats":["phishing","ransomware"],"vulnerabilities":["weak passwords"]}`)
	defer fake.Close()

	out, err := testClient(t, fake.URL).SuggestRisks(context.Background(), "mail server", "on-prem exchange")
	require.NoError(t, err)
	assert.Equal(t, []string{"phishing", "ransomware"}, out.Threats)
	assert.Equal(t, []string{"weak passwords"}, out.Vulnerabilities)
}

func TestSuggestRisksMalformedResponse(t *testing.T) {
	fake := fakeProvider(t, "not json at all")
	defer fake.Close()

	_, err := testClient(t, fake.URL).SuggestRisks(context.Background(), "a", "b")
	assert.Error(t, err)
}

func TestTreatmentPlan(t *testing.T) {
	fake := fakeProvider(t, "  Patch the server and enforce MFA.  ")
	defer fake.Close()

	plan, err := testClient(t, fake.URL).TreatmentPlan(context.Background(), "X", "t", "v")
	require.NoError(t, err)
	assert.Equal(t, "Patch the server and enforce MFA.", plan)
}

func TestProviderUnavailable(t *testing.T) {
	fake := fakeProvider(t, "irrelevant")
	fake.Close() // connection refused from here on

	_, err := testClient(t, fake.URL).SuggestRisks(context.Background(), "a", "b")
	assert.Error(t, err)
	_, err = testClient(t, fake.URL).TreatmentPlan(context.Background(), "a", "b", "c")
	assert.Error(t, err)
}
