// Package oracle talks to hosted vision models that look at a leaf photo and
// answer in JSON.
package oracle

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Request is one photo plus the instruction prompt.
type Request struct {
	Prompt   string
	Image    []byte
	MIMEType string
}

func (r Request) base64Image() string {
	return base64.StdEncoding.EncodeToString(r.Image)
}

// Oracle is a vision-capable model endpoint. Describe makes exactly one
// outbound call and returns the model's text answer.
type Oracle interface {
	Describe(ctx context.Context, req Request) (string, error)
	Model() string
}

// StatusError is returned when the provider answers with a non-200 status.
type StatusError struct {
	Provider   Provider
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

var ErrEmptyResponse = errors.New("empty response from oracle")

func readBody(provider Provider, resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Provider: provider, StatusCode: resp.StatusCode, Body: string(respBytes)}
	}
	return respBytes, nil
}
