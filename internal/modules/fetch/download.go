package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/reusedev/imagine/internal/modules/http_client"
	"github.com/reusedev/imagine/internal/modules/logs"
	"github.com/reusedev/imagine/internal/modules/storage/local"
	"github.com/reusedev/imagine/tools"
)

// name collisions are retried with a fresh token this many times
const maxNameAttempts = 5

type DownloadedFile struct {
	Path      string
	Name      string
	Size      int64
	MIMEType  string
	ImageType tools.ImageType
}

func (f *DownloadedFile) IsImage() bool {
	return f.ImageType != tools.ImageTypeUnknown
}

// Download streams rawURL into a new file in destination named
// "<token>-<basename>". Existing files are never overwritten.
func Download(ctx context.Context, client *http_client.HttpClient, rawURL, destination string, timeout time.Duration) (*DownloadedFile, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := newRequest(ctx, client, http.MethodGet, rawURL)
	if err != nil {
		return nil, err
	}
	reqAt := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, Classify(err))
	}
	defer resp.Body.Close()
	logs.Logger.Debug().
		Str("method", req.Method).
		Str("url", rawURL).
		Int("status_code", resp.StatusCode).
		Dur("req_consume_ms", time.Since(reqAt)).
		Msg("download request")
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrDownloadFailed, resp.Status)
	}

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := tools.UniqueFileName(rawURL)
		path := filepath.Join(destination, name)
		size, err := local.SaveFileExclusive(resp.Body, path)
		if errors.Is(err, os.ErrExist) {
			logs.Logger.Debug().Str("path", path).Msg("file name taken, retrying with a new token")
			continue
		}
		if errors.Is(err, ErrFilesystem) {
			return nil, err
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, Classify(err))
		}
		file := &DownloadedFile{Path: path, Name: name, Size: size}
		file.MIMEType, file.ImageType, err = tools.DetectImageType(path)
		if err != nil {
			logs.Logger.Debug().Str("path", path).Err(err).Msg("detect image type")
		}
		return file, nil
	}
	return nil, fmt.Errorf("%w: no free file name in %s after %d attempts", ErrFilesystem, destination, maxNameAttempts)
}
