package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"browsercontrol/internal/types"
)

// API provisions and tears down remote browser instances.
type API interface {
	Create(ctx context.Context) (string, error)
	Terminate(ctx context.Context, handle string) error
}

// HTTPAPI talks to the session resource API over HTTP.
type HTTPAPI struct {
	baseURL string
	client  *http.Client
}

func NewHTTPAPI(baseURL string, client *http.Client) *HTTPAPI {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTPAPI{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

// Create calls POST /sessions and returns the new session id.
func (a *HTTPAPI) Create(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/sessions", nil)
	if err != nil {
		return "", err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", statusError(resp)
	}

	var body types.SessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if body.SessionID == "" {
		return "", errors.New("response carried no session_id")
	}
	return body.SessionID, nil
}

// Terminate calls DELETE /sessions/{id}.
func (a *HTTPAPI) Terminate(ctx context.Context, handle string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, a.baseURL+"/sessions/"+url.PathEscape(handle), nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return statusError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func statusError(resp *http.Response) error {
	var body types.ErrorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
	return &StatusError{Code: resp.StatusCode, Detail: body.Detail}
}
