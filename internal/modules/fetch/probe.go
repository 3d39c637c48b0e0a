package fetch

import (
	"context"
	"errors"
	"time"

	"github.com/reusedev/imagine/internal/modules/http_client"
	"github.com/reusedev/imagine/internal/modules/logs"
	"github.com/reusedev/imagine/tools"
)

type ProbeStatus int

const (
	ProbeFailed ProbeStatus = iota
	ProbeResolved
	ProbeUnavailable
)

func (s ProbeStatus) String() string {
	switch s {
	case ProbeResolved:
		return "resolved"
	case ProbeUnavailable:
		return "unavailable"
	default:
		return "failed"
	}
}

type ProbeResult struct {
	Status ProbeStatus
	// URL is the final URL after redirects when Status is ProbeResolved and
	// the unchanged input URL when Status is ProbeUnavailable.
	URL string
}

// Probe checks whether rawURL can be served over HTTPS.
//
// A HEAD request goes to the HTTPS form of rawURL. If it cannot connect, the
// original URL is probed instead: success there means the server exists but
// has no HTTPS (ProbeUnavailable), failure is returned as ErrConnectionFailed.
// Certificate failures (ErrTLSVerification) and malformed URLs (ErrInvalidURL)
// are returned without a fallback.
func Probe(ctx context.Context, client *http_client.HttpClient, rawURL string, timeout time.Duration) (ProbeResult, error) {
	httpsURL := tools.HTTPSURL(rawURL)
	resp, err := head(ctx, client, httpsURL, timeout)
	if err == nil {
		return ProbeResult{Status: ProbeResolved, URL: resp.Request.URL.String()}, nil
	}
	if !errors.Is(err, ErrConnectionFailed) {
		return ProbeResult{Status: ProbeFailed}, err
	}

	logs.Logger.Debug().Str("url", httpsURL).Err(err).Msg("https probe failed, checking original url")
	if _, err := head(ctx, client, rawURL, timeout); err != nil {
		return ProbeResult{Status: ProbeFailed}, err
	}
	return ProbeResult{Status: ProbeUnavailable, URL: rawURL}, nil
}
