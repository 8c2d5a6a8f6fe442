package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"securerisk/internal/config"
)

const systemPrompt = "You are an information security risk analyst helping maintain an ISMS risk register. Be concise and concrete."

// Suggestions is what the assessment form consumes: candidate threats
// and vulnerabilities for an asset.
type Suggestions struct {
	Threats         []string `json:"threats"`
	Vulnerabilities []string `json:"vulnerabilities"`
}

// Client proxies suggestion requests to an OpenAI-compatible chat
// completion endpoint. The provider is opaque: one call per request,
// no retries, no caching.
type Client struct {
	api   *openai.Client
	model string
	lg    *zap.SugaredLogger
}

// New returns nil when no API key is configured; callers treat a nil
// client as "provider unavailable".
func New(cfg *config.Config, lg *zap.SugaredLogger) *Client {
	if cfg.OpenAIKey == "" {
		return nil
	}
	oc := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAIBaseURL != "" {
		oc.BaseURL = cfg.OpenAIBaseURL
	}
	return &Client{api: openai.NewClientWithConfig(oc), model: cfg.OpenAIModel, lg: lg}
}

// SuggestRisks asks the provider for threats and vulnerabilities
// relevant to the given asset.
func (c *Client) SuggestRisks(ctx context.Context, asset, assetContext string) (Suggestions, error) {
	prompt := fmt.Sprintf(
		"Asset: %s\nContext: %s\n\nList the most relevant threats and vulnerabilities for this asset. "+
			`Respond with a JSON object: {"threats": [...], "vulnerabilities": [...]}, 3 to 5 short items each.`,
		asset, assetContext)
	raw, err := c.complete(ctx, prompt, true)
	if err != nil {
		return Suggestions{}, err
	}
	var out Suggestions
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		c.lg.Warnw("provider returned malformed suggestion JSON", "error", err)
		return Suggestions{}, fmt.Errorf("malformed provider response: %w", err)
	}
	return out, nil
}

// TreatmentPlan asks the provider for a free-text treatment plan.
func (c *Client) TreatmentPlan(ctx context.Context, title, threat, vulnerability string) (string, error) {
	prompt := fmt.Sprintf(
		"Risk: %s\nThreat: %s\nVulnerability: %s\n\nWrite a short, actionable treatment plan (3-4 sentences).",
		title, threat, vulnerability)
	return c.complete(ctx, prompt, false)
}

func (c *Client) complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("ai provider call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ai provider returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
