package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"labelprint-service/apperrors"
)

// StatusError is returned when an upstream answers with a non-2xx status.
type StatusError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s responded with status %d", e.Service, e.StatusCode)
}

// httpClient is a thin JSON client bound to one upstream base URL.
type httpClient struct {
	service string
	baseURL string
	apiKey  string
	client  *http.Client
}

func newHTTPClient(service string, cfg Config) *httpClient {
	return &httpClient{
		service: service,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *httpClient) do(ctx context.Context, method, path string, query url.Values, headers http.Header, body io.Reader) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}

	for k, v := range headers {
		for _, vv := range v {
			req.Header.Add(k, vv)
		}
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	return c.client.Do(req)
}

// doJSON sends in as JSON and returns the raw response body of a 2xx answer.
// Network failures come back as transport *apperrors.Error values; non-2xx
// answers are handed to translate.
func (c *httpClient) doJSON(ctx context.Context, method, path string, query url.Values, headers http.Header, in interface{}, translate func(status int, body []byte) error) ([]byte, error) {
	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, apperrors.New(apperrors.KindInternal, "", fmt.Errorf("marshal request: %w", err))
		}
		reqBody = bytes.NewReader(b)
	}

	resp, err := c.do(ctx, method, path, query, headers, reqBody)
	if err != nil {
		return nil, apperrors.Transport(err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Transport(fmt.Errorf("read %s response: %w", c.service, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, translate(resp.StatusCode, respBytes)
	}
	return respBytes, nil
}
