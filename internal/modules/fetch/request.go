package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/reusedev/imagine/internal/modules/http_client"
	"github.com/reusedev/imagine/internal/modules/logs"
)

const UserAgent = "imagine/1.0"

func newRequest(ctx context.Context, client *http_client.HttpClient, method, rawURL string) (*http.Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q in %s", ErrInvalidURL, u.Scheme, rawURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: no host in %s", ErrInvalidURL, rawURL)
	}
	req, err := client.NewRequest(
		method,
		rawURL,
		http_client.WithHeader("User-Agent", UserAgent),
		http_client.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	return req, nil
}

// head issues a HEAD request bounded by timeout. The returned response has
// its body closed already; only status, headers and Request are meaningful.
func head(ctx context.Context, client *http_client.HttpClient, rawURL string, timeout time.Duration) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := newRequest(ctx, client, http.MethodHead, rawURL)
	if err != nil {
		return nil, err
	}
	reqAt := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, Classify(err)
	}
	resp.Body.Close()
	logs.Logger.Debug().
		Str("method", req.Method).
		Str("url", rawURL).
		Str("final_url", resp.Request.URL.String()).
		Int("status_code", resp.StatusCode).
		Dur("req_consume_ms", time.Since(reqAt)).
		Msg("head request")
	return resp, nil
}
