package fetch

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/reusedev/imagine/internal/modules/http_client"
)

var gifBytes = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\xff\xff\xff\x00\x00\x00!\xf9\x04\x01\x00\x00\x00\x00,\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x02D\x01\x00;")

const testTimeout = 5 * time.Second

func newClient(t *testing.T, verifyCert bool) *http_client.HttpClient {
	client := http_client.New(http_client.Options{
		VerifyCert:     verifyCert,
		ConnectTimeout: time.Second,
		ReadTimeout:    testTimeout,
	})
	t.Cleanup(client.Close)
	return client
}

func imageHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/images/cat.gif", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/gif")
		w.Write(gifBytes)
	})
	mux.HandleFunc("/page.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/untyped", func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/old.gif", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/images/cat.gif", http.StatusMovedPermanently)
	})
	return mux
}

// closedURL returns an http url whose port refuses connections.
func closedURL(t *testing.T, path string) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()
	return "http://" + addr + path
}

func plainURL(ts *httptest.Server) string {
	return strings.Replace(ts.URL, "https://", "http://", 1)
}
