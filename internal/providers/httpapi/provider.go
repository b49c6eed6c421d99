// internal/providers/httpapi/provider.go
// Package httpapi provides a providers.Backend over the prompt-to-SQL service's JSON HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mwiater/promptsql/internal/appconfig"
	"github.com/mwiater/promptsql/internal/history"
	"github.com/mwiater/promptsql/internal/logging"
	"github.com/mwiater/promptsql/internal/providers"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 16 << 20

// Provider implements providers.Backend using net/http.
type Provider struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
	debug   bool
}

// New constructs a Provider configured with the application's base URL and request timeout.
func New(cfg *appconfig.Config) *Provider {
	timeout := cfg.RequestTimeout()
	return &Provider{
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		baseURL: cfg.BaseURL(),
		timeout: timeout,
		debug:   cfg.Debug,
	}
}

type queryRequest struct {
	Prompt string `json:"prompt"`
}

type queryResponse struct {
	Table []history.Record `json:"table"`
	Chart []history.Record `json:"chart"`
	SQL   string           `json:"sql"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// Query sends the prompt to POST /query and decodes the translated result.
func (p *Provider) Query(ctx context.Context, prompt, token string) (providers.Result, error) {
	status, body, err := p.do(ctx, http.MethodPost, "/query", token, queryRequest{Prompt: prompt})
	if err != nil {
		return providers.Result{}, err
	}
	if status != http.StatusOK {
		return providers.Result{}, classifyStatus(status, body)
	}
	if err := validate(querySchema, body); err != nil {
		return providers.Result{}, &providers.StatusError{Code: status, Body: err.Error()}
	}

	var parsed queryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return providers.Result{}, &providers.StatusError{Code: status, Body: fmt.Sprintf("decode query response: %v", err)}
	}
	return providers.Result{
		Payload: history.Payload{
			Rows:        parsed.Table,
			ChartSeries: parsed.Chart,
		},
		GeneratedStatement: strings.TrimSpace(parsed.SQL),
	}, nil
}

// History fetches GET /history for the token's user.
func (p *Provider) History(ctx context.Context, token string) ([]providers.HistoryRecord, error) {
	status, body, err := p.do(ctx, http.MethodGet, "/history", token, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, classifyStatus(status, body)
	}
	if err := validate(historySchema, body); err != nil {
		return nil, &providers.StatusError{Code: status, Body: err.Error()}
	}

	var records []providers.HistoryRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &providers.StatusError{Code: status, Body: fmt.Sprintf("decode history response: %v", err)}
	}
	return records, nil
}

// Login exchanges credentials at POST /login for a bearer token.
func (p *Provider) Login(ctx context.Context, username, password string) (string, error) {
	status, body, err := p.do(ctx, http.MethodPost, "/login", "", credentialsRequest{Username: username, Password: password})
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", classifyStatus(status, body)
	}
	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &providers.StatusError{Code: status, Body: fmt.Sprintf("decode login response: %v", err)}
	}
	if strings.TrimSpace(parsed.AccessToken) == "" {
		return "", &providers.StatusError{Code: status, Body: "login response carried no access_token"}
	}
	return parsed.AccessToken, nil
}

// Register creates an account at POST /register.
func (p *Provider) Register(ctx context.Context, username, password string) error {
	status, body, err := p.do(ctx, http.MethodPost, "/register", "", credentialsRequest{Username: username, Password: password})
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return classifyStatus(status, body)
	}
	return nil
}

// do performs one request and returns the status and body. Transport failures
// are reported as *providers.NetworkError; HTTP statuses are left to the caller.
func (p *Provider) do(ctx context.Context, method, path, token string, payload any) (int, []byte, error) {
	op := method + " " + path
	requestID := uuid.Must(uuid.NewV7()).String()

	var (
		reqBody io.Reader
		logged  any
	)
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		reqBody = bytes.NewReader(data)
		logged = data
	}
	if isCredentialPath(path) {
		logged = "<redacted>"
	}
	logging.LogRequest("CLIENT->API", op, requestID, logged)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		logging.LogEvent("%s failed: %v", op, err)
		return 0, nil, &providers.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, &providers.NetworkError{Op: op, Err: err}
	}
	if isCredentialPath(path) || !p.debug {
		logging.LogRequest("API->CLIENT", op, requestID, fmt.Sprintf("status=%d bytes=%d", resp.StatusCode, len(body)))
	} else {
		logging.LogRequest("API->CLIENT", op, requestID, fmt.Sprintf("status=%d body=%s", resp.StatusCode, body))
	}
	return resp.StatusCode, body, nil
}

func isCredentialPath(path string) bool {
	return path == "/login" || path == "/register"
}

// classifyStatus maps a non-success status onto the providers error taxonomy.
func classifyStatus(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized:
		return providers.ErrUnauthorized
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return providers.ErrServiceUnavailable
	case http.StatusBadRequest:
		return &providers.BadRequestError{Detail: errorDetail(body)}
	default:
		return &providers.StatusError{Code: status, Body: strings.TrimSpace(string(body))}
	}
}

// errorDetail extracts FastAPI's "detail" field, which is either a string or
// a structured validation report.
func errorDetail(body []byte) string {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}
	var detail string
	if err := json.Unmarshal(parsed.Detail, &detail); err == nil {
		return strings.TrimSpace(detail)
	}
	return strings.TrimSpace(string(parsed.Detail))
}

// IsTransient reports whether err is worth retrying by hand: network failures
// and unavailable upstream dependencies.
func IsTransient(err error) bool {
	var netErr *providers.NetworkError
	return errors.As(err, &netErr) || errors.Is(err, providers.ErrServiceUnavailable)
}
