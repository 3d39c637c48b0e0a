package config

import (
	"fmt"
	"os"
	"time"

	"github.com/reusedev/imagine/internal/modules/storage/local"
	"gopkg.in/yaml.v3"
)

// LoggingEnv names the environment variable holding the path of a YAML logging config.
const LoggingEnv = "IMAGINE_LOGGING"

const (
	DefaultConnectTimeout  = 1 * time.Second
	DefaultProbeTimeout    = 5 * time.Second
	DefaultDownloadTimeout = 5 * time.Minute
)

type Config struct {
	IgnoreCert        bool
	IgnoreContentType bool
	Destination       string
	DryRun            bool

	ConnectTimeout  time.Duration
	ProbeTimeout    time.Duration
	DownloadTimeout time.Duration
}

func Default() Config {
	wd, _ := os.Getwd()
	return Config{
		Destination:     wd,
		ConnectTimeout:  DefaultConnectTimeout,
		ProbeTimeout:    DefaultProbeTimeout,
		DownloadTimeout: DefaultDownloadTimeout,
	}
}

func (c *Config) VerifyCert() bool {
	return !c.IgnoreCert
}

// Verify resolves Destination to an absolute path and makes sure files can be created there.
func (c *Config) Verify() error {
	if c.ConnectTimeout <= 0 || c.ProbeTimeout <= 0 || c.DownloadTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	abs, err := local.CheckWritableDir(c.Destination)
	if err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	c.Destination = abs
	return nil
}

type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
	Console    bool   `yaml:"console"`
	JSON       bool   `yaml:"json"`
}

// LoadLog reads the logging config named by IMAGINE_LOGGING. It returns the
// zero Log when the variable is unset.
func LoadLog() (Log, error) {
	path := os.Getenv(LoggingEnv)
	if path == "" {
		return Log{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Log{}, fmt.Errorf("read logging config: %w", err)
	}
	return parseLog(data)
}

func parseLog(data []byte) (Log, error) {
	var l Log
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Log{}, fmt.Errorf("parse logging config: %w", err)
	}
	return l, nil
}
