package genclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/genai"
)

// DefaultBaseURL is the public Gemini API host.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// AuthenticatedTransport adds the API key to every outgoing request as the
// "key" query parameter.
type AuthenticatedTransport struct {
	Base   http.RoundTripper
	APIKey string
	Logger *slog.Logger
}

func (t *AuthenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone so the caller's request is left untouched.
	reqCopy := req.Clone(req.Context())

	q := reqCopy.URL.Query()
	q.Set("key", t.APIKey)
	reqCopy.URL.RawQuery = q.Encode()

	if t.Logger != nil {
		t.Logger.Debug("gemini request", "method", reqCopy.Method, "path", reqCopy.URL.Path)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(reqCopy)
}

// RESTTransport posts a single-turn generateContent request and extracts
// candidates[0].content.parts[0].text from the envelope.
type RESTTransport struct {
	endpoint string
	client   *http.Client
}

var _ Transport = (*RESTTransport)(nil)

// NewRESTTransport targets {baseURL}/v1beta/models/{model}:generateContent.
// Authentication is the job of client's RoundTripper (see AuthenticatedTransport).
// A nil client falls back to http.DefaultClient.
func NewRESTTransport(baseURL, model string, client *http.Client) *RESTTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &RESTTransport{
		endpoint: fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(baseURL, "/"), url.PathEscape(model)),
		client:   client,
	}
}

type restRequest struct {
	Contents []*genai.Content `json:"contents"`
}

// The text field is a pointer so an absent field can be told apart from an
// empty one.
type restResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Send performs one attempt.
func (t *RESTTransport) Send(ctx context.Context, prompt string) (string, error) {
	payload := restRequest{
		Contents: []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	var parsed restResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(parsed.Candidates) == 0 ||
		parsed.Candidates[0].Content == nil ||
		len(parsed.Candidates[0].Content.Parts) == 0 ||
		parsed.Candidates[0].Content.Parts[0].Text == nil {
		return "", ErrMalformedResponse
	}

	return *parsed.Candidates[0].Content.Parts[0].Text, nil
}
