package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/reusedev/imagine/config"
	"github.com/reusedev/imagine/internal/modules/batch"
	"github.com/reusedev/imagine/internal/modules/logs"
	"github.com/reusedev/imagine/tools"
)

var cfg = config.Default()

func init() {
	flag.BoolVar(&cfg.IgnoreCert, "ignore-cert", false, "don't check certificate validity")
	flag.BoolVar(&cfg.IgnoreContentType, "ignore-content-type", false, "don't check for image/* content-type")
	flag.StringVar(&cfg.Destination, "destination", cfg.Destination, "save images to this directory")
	flag.StringVar(&cfg.Destination, "d", cfg.Destination, "shorthand for --destination")
	flag.BoolVar(&cfg.DryRun, "dry-run", false, "don't download any images, just check for availability")
	flag.DurationVar(&cfg.ConnectTimeout, "connect-timeout", cfg.ConnectTimeout, "timeout for establishing a connection")
	flag.DurationVar(&cfg.ProbeTimeout, "timeout", cfg.ProbeTimeout, "timeout for each availability and content-type check")
	flag.DurationVar(&cfg.DownloadTimeout, "download-timeout", cfg.DownloadTimeout, "timeout for downloading a single image")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] FILE\n\nDownloads every image url listed in FILE, one per line.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	logCfg, err := config.LoadLog()
	if err != nil {
		logs.Logger.Fatal().Err(err).Str("env", config.LoggingEnv).Msg("Failed to load logging config")
	}
	logs.InitLogger(logCfg)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := cfg.Verify(); err != nil {
		logs.Logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	urls, err := tools.ReadLinesFromFile(flag.Arg(0))
	if err != nil {
		logs.Logger.Fatal().Err(err).Str("file", flag.Arg(0)).Msg("Failed to read url list")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if _, err := batch.NewRunner(cfg).Run(ctx, urls); err != nil {
		logs.Logger.Warn().Err(err).Msg("Interrupted, remaining urls were not processed")
	}
}
