// Package gemini is a minimal client for the generateContent endpoint of the
// Gemini API, covering exactly one shape of call: one text instruction plus
// one inline image, returning the generated text.
package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"zr3/rprompt/internal/imaging"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-2.5-flash"

	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// Error taxonomy. Callers distinguish these with errors.Is; everything is
// terminal for the invocation, nothing is retried.
var (
	ErrSafetyBlocked = errors.New("content was blocked by safety filters")
	ErrRateLimited   = errors.New("rate limited by the Gemini API")
	ErrProvider      = errors.New("Gemini API request failed")
	ErrParse         = errors.New("unexpected Gemini API response")
)

type Client struct {
	model   string
	apiKey  string
	baseURL string
	client  *resty.Client
}

// NewClient builds a client for the given model. GEMINI_BASE_URL overrides
// the endpoint, which is also how tests point the client at a local server.
func NewClient(model, apiKey string) *Client {
	if model == "" {
		model = DefaultModel
	}
	baseURL := defaultBaseURL
	if envURL := os.Getenv("GEMINI_BASE_URL"); envURL != "" {
		baseURL = envURL
	}

	client := resty.New()
	client.SetTimeout(2 * time.Minute)

	return &Client{
		model:   model,
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
	}
}

func (c *Client) Model() string {
	return c.model
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Describe submits the instruction and image in a single blocking call and
// returns the generated text.
func (c *Client) Describe(ctx context.Context, instruction string, img *imaging.Image) (string, error) {
	request := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: instruction},
				{InlineData: &inlineData{
					MIMEType: img.MIME,
					Data:     base64.StdEncoding.EncodeToString(img.Data),
				}},
			},
		}},
	}

	response, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		SetResult(&generateResponse{}).
		SetError(&apiError{}).
		Post(c.baseURL + "/models/" + c.model + ":generateContent?key=" + url.QueryEscape(c.apiKey))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}

	if response.IsError() {
		message := response.Status()
		status := ""
		if e, ok := response.Error().(*apiError); ok && e.Error.Message != "" {
			message = e.Error.Message
			status = e.Error.Status
		}
		if response.StatusCode() == http.StatusTooManyRequests || status == "RESOURCE_EXHAUSTED" {
			return "", fmt.Errorf("%w: %s", ErrRateLimited, message)
		}
		return "", fmt.Errorf("%w: %s", ErrProvider, message)
	}

	result, ok := response.Result().(*generateResponse)
	if !ok {
		return "", fmt.Errorf("%w: no response body", ErrParse)
	}
	return extractText(result)
}

func extractText(result *generateResponse) (string, error) {
	if result.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: %s", ErrSafetyBlocked, result.PromptFeedback.BlockReason)
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates returned", ErrParse)
	}

	candidate := result.Candidates[0]
	switch candidate.FinishReason {
	case "SAFETY", "RECITATION":
		return "", fmt.Errorf("%w: finish reason %s", ErrSafetyBlocked, candidate.FinishReason)
	}

	texts := make([]string, 0, len(candidate.Content.Parts))
	for _, p := range candidate.Content.Parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	text := strings.TrimSpace(strings.Join(texts, " "))
	if text == "" {
		return "", fmt.Errorf("%w: no text content found", ErrParse)
	}
	return text, nil
}
