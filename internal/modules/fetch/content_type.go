package fetch

import (
	"context"
	"strings"
	"time"

	"github.com/reusedev/imagine/internal/modules/http_client"
)

// IsImage reports whether the server declares an image/* Content-Type for
// rawURL. A missing header is not an image.
func IsImage(ctx context.Context, client *http_client.HttpClient, rawURL string, timeout time.Duration) (bool, error) {
	resp, err := head(ctx, client, rawURL, timeout)
	if err != nil {
		return false, err
	}
	return strings.Contains(resp.Header.Get("Content-Type"), "image/"), nil
}
