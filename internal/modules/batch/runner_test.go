package batch

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/reusedev/imagine/config"
	"github.com/reusedev/imagine/internal/modules/logs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var gifBytes = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\xff\xff\xff\x00\x00\x00!\xf9\x04\x01\x00\x00\x00\x00,\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x02D\x01\x00;")

func newServer(t *testing.T, tls bool) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/cat.gif", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/gif")
		w.Write(gifBytes)
	})
	mux.HandleFunc("/page.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html></html>"))
	})
	var ts *httptest.Server
	if tls {
		ts = httptest.NewTLSServer(mux)
	} else {
		ts = httptest.NewServer(mux)
	}
	t.Cleanup(ts.Close)
	return ts
}

func unreachableURL(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()
	return "http://" + addr + "/gone.gif"
}

// captureLogs redirects logs.Logger into a buffer of JSON lines.
func captureLogs(t *testing.T) *bytes.Buffer {
	prev := logs.Logger
	buf := &bytes.Buffer{}
	logs.Logger = zerolog.New(buf)
	t.Cleanup(func() { logs.Logger = prev })
	return buf
}

func warnings(buf *bytes.Buffer) int {
	return strings.Count(buf.String(), `"level":"warn"`)
}

func testConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.Destination = t.TempDir()
	return cfg
}

func files(t *testing.T, dir string) []os.DirEntry {
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestRunDownloadsReachableAndSkipsUnreachable(t *testing.T) {
	buf := captureLogs(t)
	ts := newServer(t, false)
	cfg := testConfig(t)

	summary, err := NewRunner(cfg).Run(context.Background(), []string{ts.URL + "/cat.gif", unreachableURL(t)})
	require.NoError(t, err)
	require.Equal(t, Summary{Total: 2, Downloaded: 1, Failed: 1}, summary)

	entries := files(t, cfg.Destination)
	require.Len(t, entries, 1)
	require.True(t, strings.HasSuffix(entries[0].Name(), "-cat.gif"))
	require.Equal(t, 1, warnings(buf))
	require.Contains(t, buf.String(), "Server was not found")
	require.Contains(t, buf.String(), "Successfully downloaded image")
}

func TestRunDryRun(t *testing.T) {
	captureLogs(t)
	ts := newServer(t, false)
	cfg := testConfig(t)
	cfg.DryRun = true

	summary, err := NewRunner(cfg).Run(context.Background(), []string{ts.URL + "/cat.gif"})
	require.NoError(t, err)
	require.Equal(t, Summary{Total: 1, Checked: 1}, summary)
	require.Empty(t, files(t, cfg.Destination))
}

func TestRunContentTypeGate(t *testing.T) {
	ts := newServer(t, false)

	t.Run("non image is skipped", func(t *testing.T) {
		buf := captureLogs(t)
		cfg := testConfig(t)
		summary, err := NewRunner(cfg).Run(context.Background(), []string{ts.URL + "/page.html"})
		require.NoError(t, err)
		require.Equal(t, Summary{Total: 1, Skipped: 1}, summary)
		require.Empty(t, files(t, cfg.Destination))
		require.Contains(t, buf.String(), "Non image content-type detected")
	})
	t.Run("ignore content type downloads anyway", func(t *testing.T) {
		buf := captureLogs(t)
		cfg := testConfig(t)
		cfg.IgnoreContentType = true
		summary, err := NewRunner(cfg).Run(context.Background(), []string{ts.URL + "/page.html"})
		require.NoError(t, err)
		require.Equal(t, Summary{Total: 1, Downloaded: 1}, summary)
		require.Len(t, files(t, cfg.Destination), 1)
		require.Contains(t, buf.String(), "Downloaded file does not look like an image")
	})
}

func TestRunCertificatePolicy(t *testing.T) {
	ts := newServer(t, true)
	target := strings.Replace(ts.URL, "https://", "http://", 1) + "/cat.gif"

	t.Run("invalid certificate is skipped", func(t *testing.T) {
		buf := captureLogs(t)
		cfg := testConfig(t)
		summary, err := NewRunner(cfg).Run(context.Background(), []string{target})
		require.NoError(t, err)
		require.Equal(t, Summary{Total: 1, Failed: 1}, summary)
		require.Contains(t, buf.String(), "Certificate verification failed")
	})
	t.Run("ignore cert downloads over https", func(t *testing.T) {
		captureLogs(t)
		cfg := testConfig(t)
		cfg.IgnoreCert = true
		summary, err := NewRunner(cfg).Run(context.Background(), []string{target})
		require.NoError(t, err)
		require.Equal(t, Summary{Total: 1, Downloaded: 1}, summary)
	})
}

func TestRunInvalidURL(t *testing.T) {
	buf := captureLogs(t)
	summary, err := NewRunner(testConfig(t)).Run(context.Background(), []string{"www.google.de"})
	require.NoError(t, err)
	require.Equal(t, Summary{Total: 1, Failed: 1}, summary)
	require.Contains(t, buf.String(), "Invalid URL was encountered")
}

func TestRunStopsWhenCancelled(t *testing.T) {
	captureLogs(t)
	ts := newServer(t, false)
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := NewRunner(cfg).Run(ctx, []string{ts.URL + "/cat.gif"})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, Summary{}, summary)
	require.Empty(t, files(t, cfg.Destination))
}
