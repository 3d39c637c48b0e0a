package batch

import (
	"context"
	"errors"

	"github.com/reusedev/imagine/config"
	"github.com/reusedev/imagine/internal/modules/fetch"
	"github.com/reusedev/imagine/internal/modules/http_client"
	"github.com/reusedev/imagine/internal/modules/logs"
)

type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeSkipped
	OutcomeChecked
	OutcomeDownloaded
)

type Summary struct {
	Total      int
	Downloaded int
	// Checked counts urls that passed every check in a dry run.
	Checked int
	Skipped int
	Failed  int
}

func (s *Summary) add(o Outcome) {
	s.Total++
	switch o {
	case OutcomeDownloaded:
		s.Downloaded++
	case OutcomeChecked:
		s.Checked++
	case OutcomeSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}

type Runner struct {
	cfg config.Config
}

func NewRunner(cfg config.Config) *Runner {
	return &Runner{cfg: cfg}
}

// Run processes urls one at a time. A failing url is logged and skipped; only
// cancellation of ctx stops the batch early, in which case ctx.Err() is
// returned with the summary of what was processed so far.
func (r *Runner) Run(ctx context.Context, urls []string) (Summary, error) {
	var summary Summary
	for _, imageURL := range urls {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.add(r.Process(ctx, imageURL))
	}
	logs.Logger.Info().
		Int("total", summary.Total).
		Int("downloaded", summary.Downloaded).
		Int("checked", summary.Checked).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("Finished processing url list")
	return summary, nil
}

// Process runs the probe, content check and download for a single url with
// its own http session.
func (r *Runner) Process(ctx context.Context, imageURL string) Outcome {
	client := http_client.New(http_client.Options{
		VerifyCert:     r.cfg.VerifyCert(),
		ConnectTimeout: r.cfg.ConnectTimeout,
		ReadTimeout:    r.cfg.ProbeTimeout,
	})
	defer client.Close()

	probe, err := fetch.Probe(ctx, client, imageURL, r.cfg.ProbeTimeout)
	if err != nil {
		r.warnSkip(imageURL, err)
		return OutcomeFailed
	}
	if probe.Status == fetch.ProbeResolved {
		if probe.URL != imageURL {
			logs.Logger.Debug().Str("url", imageURL).Str("https_url", probe.URL).Msg("Using https url")
		}
		imageURL = probe.URL
	} else {
		logs.Logger.Info().Str("url", imageURL).Msg("HTTPS is not available, keeping original url")
	}

	isImage := true
	if !r.cfg.IgnoreContentType {
		isImage, err = fetch.IsImage(ctx, client, imageURL, r.cfg.ProbeTimeout)
		if err != nil {
			r.warnSkip(imageURL, err)
			return OutcomeFailed
		}
	}
	if !isImage {
		logs.Logger.Warn().Str("url", imageURL).Msg("Non image content-type detected. Will skip download")
		return OutcomeSkipped
	}
	if r.cfg.DryRun {
		logs.Logger.Info().Str("url", imageURL).Msg("Dry run, not downloading")
		return OutcomeChecked
	}

	file, err := fetch.Download(ctx, client, imageURL, r.cfg.Destination, r.cfg.DownloadTimeout)
	if err != nil {
		logs.Logger.Warn().Str("url", imageURL).Err(err).
			Msg("Something went wrong while downloading the file. Will skip download")
		return OutcomeFailed
	}
	logs.Logger.Info().
		Str("url", imageURL).
		Str("path", file.Path).
		Int64("size", file.Size).
		Str("mime_type", file.MIMEType).
		Msg("Successfully downloaded image")
	if !file.IsImage() {
		logs.Logger.Warn().Str("path", file.Path).Str("mime_type", file.MIMEType).
			Msg("Downloaded file does not look like an image")
	}
	return OutcomeDownloaded
}

func (r *Runner) warnSkip(imageURL string, err error) {
	event := logs.Logger.Warn().Str("url", imageURL).Err(err)
	switch {
	case errors.Is(err, fetch.ErrInvalidURL):
		event.Msg("Invalid URL was encountered. URL must be in format http(s)://domain.tld/path_to_image")
	case errors.Is(err, fetch.ErrTLSVerification):
		event.Msg("Certificate verification failed, use --ignore-cert to accept it. Will skip download")
	default:
		event.Msg("Server was not found. Will skip download")
	}
}
