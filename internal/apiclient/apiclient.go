// Package apiclient talks to the Remote Directory Service: a single
// spreadsheet-automation endpoint that dispatches on an "action" parameter.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/klse-analytics/portal/shared/logger"
)

const maxResponseBytes = 4 << 20

// APIClient handles all communication with the directory endpoint.
type APIClient struct {
	Endpoint   string
	HttpClient *http.Client
}

// New creates a client for the endpoint. timeout bounds each whole call,
// redirects included; zero means no limit.
func New(endpoint string, timeout time.Duration) *APIClient {
	return &APIClient{
		Endpoint:   endpoint,
		HttpClient: &http.Client{Timeout: timeout},
	}
}

// do sends one action request and decodes the envelope. Every way the call
// can go wrong comes back as a *Failure; callers never see the difference
// between an unreachable endpoint and a rejected request.
func (c *APIClient) do(ctx context.Context, req Request) (*Envelope, error) {
	action := req.Action()
	start := time.Now()

	env, err := c.roundTrip(ctx, req)
	observe(action, start, env, err)

	if err != nil {
		logger.Log.Error("directory request failed", "action", action, "error", err)
		return nil, &Failure{Action: action, Message: transportMessage(action)}
	}
	if !env.Succeeded() {
		logger.Log.Warn("directory rejected request", "action", action, "result", env.Result, "message", env.Message)
		msg := env.Message
		if msg == "" {
			msg = transportMessage(action)
		}
		return nil, &Failure{Action: action, Message: msg, Rejected: true}
	}
	return env, nil
}

func (c *APIClient) roundTrip(ctx context.Context, req Request) (*Envelope, error) {
	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory request: %w", err)
	}

	resp, err := c.HttpClient.Do(httpReq)
	if err != nil {
		// The URL of a GET carries admin credentials; keep it out of logs.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("directory unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory returned status %d", resp.StatusCode)
	}

	var env Envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&env); err != nil {
		return nil, fmt.Errorf("cannot decode directory response: %w", err)
	}
	return &env, nil
}

func (c *APIClient) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	params := req.params()
	params.Set("action", string(req.Action()))

	if req.method() == http.MethodGet {
		u, err := url.Parse(c.Endpoint)
		if err != nil {
			return nil, err
		}
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
		return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	}

	body, contentType, err := encodeForm(params)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", contentType)
	return httpReq, nil
}

// encodeForm writes params as multipart/form-data, the encoding the
// endpoint's form handler expects.
func encodeForm(params url.Values) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, k := range sortedKeys(params) {
		for _, v := range params[k] {
			if err := w.WriteField(k, v); err != nil {
				return nil, "", err
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
