package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const (
	geminiBaseURL      = "https://generativelanguage.googleapis.com"
	geminiDefaultModel = "gemini-2.5-flash"
)

type Gemini struct {
	apiKey  string
	baseURL string
	client  *http.Client
	model   string
}

func NewGemini(apiKey string) *Gemini {
	return NewGeminiWithModel(apiKey, geminiDefaultModel)
}

func NewGeminiWithModel(apiKey, model string) *Gemini {
	return &Gemini{
		apiKey:  apiKey,
		baseURL: geminiBaseURL,
		client:  &http.Client{},
		model:   model,
	}
}

func (g *Gemini) Model() string { return g.model }

func (g *Gemini) Describe(ctx context.Context, r Request) (string, error) {
	body := map[string]interface{}{
		"contents": []map[string]interface{}{{
			"parts": []map[string]interface{}{
				{"text": r.Prompt},
				{"inline_data": map[string]string{
					"mime_type": r.MIMEType,
					"data":      r.base64Image(),
				}},
			},
		}},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"temperature":      0,
		},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	respBytes, err := readBody(ProviderGemini, resp)
	if err != nil {
		return "", err
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &geminiResp); err != nil {
		return "", err
	}
	if geminiResp.Error.Message != "" {
		return "", fmt.Errorf("gemini API error: %s", geminiResp.Error.Message)
	}
	for _, c := range geminiResp.Candidates {
		for _, p := range c.Content.Parts {
			if p.Text != "" {
				return p.Text, nil
			}
		}
	}
	return "", ErrEmptyResponse
}
