package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"browser-harness/internal/application/port/output"
	"browser-harness/internal/domain/failure"
)

var _ output.VersionService = (*Client)(nil)

type Client struct {
	http   *http.Client
	logger output.LoggerPort
}

type Config struct {
	Timeout time.Duration
	Logger  output.LoggerPort
	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

func DefaultConfig() Config {
	return Config{
		Timeout: 2 * time.Minute,
	}
}

type loggingTransport struct {
	base   http.RoundTripper
	logger output.LoggerPort
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Warn("HTTP request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return resp, err
	}
	t.logger.Debug("HTTP request",
		"method", req.Method,
		"url", req.URL.String(),
		"statusCode", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

func NewClient(cfg Config) *Client {
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if cfg.Logger != nil {
		transport = &loggingTransport{base: transport, logger: cfg.Logger}
	}
	return &Client{
		http:   &http.Client{Transport: transport, Timeout: cfg.Timeout},
		logger: cfg.Logger,
	}
}

// ProbeExists reports whether url answers with a success status. A 404 is a
// plain "no"; any other failure is an error.
func (c *Client) ProbeExists(ctx context.Context, url string) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	}
	return false, statusError("probe", url, resp)
}

func (c *Client) FetchBody(ctx context.Context, url string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", statusError("fetch", url, resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", failure.New(failure.KindTransport, "fetch", err)
	}
	return string(body), nil
}

// FinalRedirectURL follows redirects and returns where the request ended up.
func (c *Client) FinalRedirectURL(ctx context.Context, url string) (string, error) {
	resp, err := c.do(ctx, http.MethodHead, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", statusError("redirect", url, resp)
	}
	return resp.Request.URL.String(), nil
}

// Download streams url into dest. A partial file is never left at dest.
func (c *Client) Download(ctx context.Context, url, dest string) error {
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError("download", url, resp)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".part-*")
	if err != nil {
		return fmt.Errorf("create download file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return failure.New(failure.KindTransport, "download", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close download file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("move download into place: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, failure.New(failure.KindTransport, "request", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, failure.New(failure.KindTransport, method+" "+url, err)
	}
	return resp, nil
}

func statusError(op, url string, resp *http.Response) error {
	return failure.Newf(failure.KindTransport, op, "%s: unexpected status %s", url, resp.Status)
}
