package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/config"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/model"
	"github.com/rodolf2/event-evaluation-system-client-sub000/internal/response"
)

// APIError is a non-success result decoded from the portal API envelope
// (or a non-2xx status without a decodable body).
type APIError struct {
	StatusCode int
	Code       response.ErrCode
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// Client is the HTTP client for the evaluation portal API. The bearer
// token is treated as opaque: it is forwarded unchanged on every call
// and never inspected or refreshed here.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     zerolog.Logger
}

// New creates a portal API client from configuration.
func New(cfg *config.Config, token string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		log:     log.With().Str("component", "api_client").Logger(),
	}
}

// envelope mirrors response.Response with the data left raw for
// endpoint-specific decoding.
type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorBody `json:"error"`
}

// FetchForm retrieves one form definition.
// GET /forms/{formId}
func (c *Client) FetchForm(ctx context.Context, formID string) (*model.Form, error) {
	var form model.Form
	if err := c.doJSON(ctx, http.MethodGet, "/forms/"+formID, nil, &form); err != nil {
		return nil, err
	}
	if form.ID == "" {
		form.ID = formID
	}
	return &form, nil
}

// ListForms retrieves the open evaluations visible to the respondent.
// GET /forms
func (c *Client) ListForms(ctx context.Context) ([]model.FormSummary, error) {
	var forms []model.FormSummary
	if err := c.doJSON(ctx, http.MethodGet, "/forms", nil, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

// Submit posts the completed responses for a form.
// POST /forms/{formId}/submit
func (c *Client) Submit(ctx context.Context, formID string, req *model.SubmitRequest) (*model.SubmitResult, error) {
	var result model.SubmitResult
	if err := c.doJSON(ctx, http.MethodPost, "/forms/"+formID+"/submit", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MyCertificates retrieves the respondent's generated certificates.
// GET /certificates/my
func (c *Client) MyCertificates(ctx context.Context) ([]model.Certificate, error) {
	var certs []model.Certificate
	if err := c.doJSON(ctx, http.MethodGet, "/certificates/my", nil, &certs); err != nil {
		return nil, err
	}
	return certs, nil
}

// GuestToken exchanges a name and email for a guest evaluator token.
// POST /auth/guest
func (c *Client) GuestToken(ctx context.Context, name, email string) (string, error) {
	body := map[string]string{"name": name, "email": email}
	var data struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/guest", body, &data); err != nil {
		return "", err
	}
	return data.Token, nil
}

// ────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ────────────────────────────────────────────────────────────────────────────

// doJSON performs one request and decodes the envelope. A transport
// failure, a non-2xx status, or success=false all surface as errors;
// out (may be nil) receives the envelope's data on success.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok || decodeErr != nil || !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		c.log.Debug().
			Int("status", resp.StatusCode).
			Str("path", path).
			Str("code", string(apiErr.Code)).
			Msg("Request failed")
		return apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}
