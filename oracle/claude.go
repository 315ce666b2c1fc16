package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	claudeBaseURL      = "https://api.anthropic.com"
	claudeDefaultModel = "claude-sonnet-4-20250514"
)

type Claude struct {
	apiKey  string
	baseURL string
	client  *http.Client
	model   string
}

func NewClaude(apiKey string) *Claude {
	return NewClaudeWithModel(apiKey, claudeDefaultModel)
}

func NewClaudeWithModel(apiKey, model string) *Claude {
	return &Claude{
		apiKey:  apiKey,
		baseURL: claudeBaseURL,
		client:  &http.Client{},
		model:   model,
	}
}

func (c *Claude) Model() string { return c.model }

func (c *Claude) Describe(ctx context.Context, r Request) (string, error) {
	body := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]interface{}{{
			"role": "user",
			"content": []map[string]interface{}{
				{
					"type": "image",
					"source": map[string]string{
						"type":       "base64",
						"media_type": r.MIMEType,
						"data":       r.base64Image(),
					},
				},
				{"type": "text", "text": r.Prompt},
			},
		}},
		"max_tokens":  1024,
		"temperature": 0,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	respBytes, err := readBody(ProviderClaude, resp)
	if err != nil {
		return "", err
	}

	var claudeResp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &claudeResp); err != nil {
		return "", err
	}
	if claudeResp.Error.Message != "" {
		return "", fmt.Errorf("claude API error: %s", claudeResp.Error.Message)
	}
	for _, block := range claudeResp.Content {
		if block.Text != "" {
			return block.Text, nil
		}
	}
	return "", ErrEmptyResponse
}
