package http_client

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// HttpClient is a session scoped to a single URL. Close releases its idle
// connections.
type HttpClient struct {
	HttpClient *http.Client
	transport  *http.Transport
}

type Options struct {
	VerifyCert     bool
	ConnectTimeout time.Duration
	// ReadTimeout bounds the wait for response headers.
	ReadTimeout time.Duration
}

type RequestOption func(options *RequestOptions)

type RequestOptions struct {
	header http.Header
	ctx    context.Context
}

func WithHeader(key, value string) RequestOption {
	return func(c *RequestOptions) {
		c.header.Set(key, value)
	}
}

func WithContext(ctx context.Context) RequestOption {
	return func(c *RequestOptions) {
		c.ctx = ctx
	}
}

// New builds a session that follows redirects and honours the TLS policy in opts.
func New(opts Options) *HttpClient {
	dialer := &net.Dialer{Timeout: opts.ConnectTimeout}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   opts.ConnectTimeout + opts.ReadTimeout,
		ResponseHeaderTimeout: opts.ReadTimeout,
		TLSClientConfig:       &tls.Config{InsecureSkipVerify: !opts.VerifyCert},
		ForceAttemptHTTP2:     true,
	}
	return &HttpClient{
		HttpClient: &http.Client{Transport: transport},
		transport:  transport,
	}
}

func (c *HttpClient) NewRequest(method string, url string, option ...RequestOption) (*http.Request, error) {
	options := &RequestOptions{header: http.Header{}, ctx: context.Background()}
	for _, opt := range option {
		opt(options)
	}
	req, err := http.NewRequestWithContext(options.ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range options.header {
		req.Header[k] = v
	}
	return req, nil
}

func (c *HttpClient) Do(req *http.Request) (*http.Response, error) {
	return c.HttpClient.Do(req)
}

func (c *HttpClient) Close() {
	c.transport.CloseIdleConnections()
}
