package fetch

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TransportError is a network-level fetch failure. StatusCode is 0 when the
// request never produced a response.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP error %d fetching %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("fetch failed for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Credentials are the optional environment-supplied CodaBench secrets.
// Bearer wins over Token when both are set.
type Credentials struct {
	Bearer string
	Token  string
	Cookie string
}

// Client is the HTTP fetcher shared by all sources. Each call is bounded
// by a fixed timeout; there are no per-call retries.
type Client struct {
	httpClient *http.Client
	userAgent  string
	creds      Credentials
}

func NewClient(timeout time.Duration, userAgent string, creds Credentials, insecure bool) *Client {
	transport := http.DefaultTransport
	if insecure {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent: userAgent,
		creds:     creds,
	}
}

// Get fetches a URL, applying the client's User-Agent and any extra
// headers. A non-200 response is a TransportError carrying the status.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "*/*")
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	return data, nil
}

// GetJSON fetches a URL and decodes the response body as JSON into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	data, err := c.Get(ctx, url, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse JSON from %s: %w", url, err)
	}
	return nil
}

// authHeaders builds the CodaBench export headers from the configured
// credentials.
func (c *Client) authHeaders(referer string) map[string]string {
	headers := map[string]string{
		"Accept":  "text/csv,*/*;q=0.8",
		"Referer": referer,
	}
	if c.creds.Bearer != "" {
		headers["Authorization"] = "Bearer " + c.creds.Bearer
	} else if c.creds.Token != "" {
		// Some deployments accept "Token <...>".
		headers["Authorization"] = "Token " + c.creds.Token
	}
	if c.creds.Cookie != "" {
		headers["Cookie"] = c.creds.Cookie
	}
	return headers
}
