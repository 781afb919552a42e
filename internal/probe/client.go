// Package probe performs the single HTTP call a doc unit documents. It is
// a thin collaborator: no retries, no auth handling, no response caching.
package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Param is one request parameter. Callers supply params as an ordered slice
// so the generated doc lists them in invocation order.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered parameter list.
type Params []Param

// Client issues probe requests against one API host.
type Client struct {
	BaseURL    string
	Headers    map[string]string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Result is the observed response of one probe call.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Do performs exactly one request. GET and DELETE encode params into the
// query string; other verbs send them as a JSON body. Duplicate param keys
// keep their first value. Network errors and non-2xx responses fail the
// probe, there is no retry.
func (c *Client) Do(ctx context.Context, method, path string, params Params) (*Result, error) {
	client := c.HTTPClient
	if client == nil {
		timeout := c.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	method = strings.ToUpper(method)
	endpoint := strings.TrimRight(c.BaseURL, "/") + path

	var body io.Reader
	sendBody := method != http.MethodGet && method != http.MethodDelete && len(params) > 0
	if sendBody {
		// First occurrence of a key wins, matching what the generated
		// doc lists for the parameter.
		payload := make(map[string]any, len(params))
		for _, p := range params {
			if _, ok := payload[p.Key]; ok {
				continue
			}
			payload[p.Key] = p.Value
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	if !sendBody && len(params) > 0 {
		q := req.URL.Query()
		for _, p := range params {
			if q.Has(p.Key) {
				continue
			}
			q.Set(p.Key, paramString(p.Value))
		}
		req.URL.RawQuery = q.Encode()
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}
	if sendBody {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.Logger != nil {
		c.Logger.Debug("probe request", "method", method, "url", req.URL.String())
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("probe %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("probe %s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("probe %s %s: unexpected status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if c.Logger != nil {
		c.Logger.Debug("probe response", "status", resp.StatusCode, "bytes", len(data))
	}
	return &Result{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func paramString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
