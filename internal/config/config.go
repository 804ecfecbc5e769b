// Package config provides configuration management for the ARIA video analyzer.
// Configuration is loaded from environment variables with sensible defaults;
// a .env file, when present, seeds the environment first.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// Default values
	DefaultPort             = 8082
	DefaultBindAddr         = "127.0.0.1"
	DefaultLogLevel         = "info"
	DefaultDataDir          = ".aria"
	DefaultCORSOrigins      = "*"
	DefaultCaseID           = "1-0102-004"
	DefaultPollIntervalMs   = 100
	DefaultAnalysisDelayMs  = 2000
	DefaultInitialLoadDelay = 500
	DefaultMpvSocket        = "/tmp/aria-mpv.sock"

	// Environment variable names
	EnvPort             = "ARIA_PORT"
	EnvBindAddr         = "ARIA_BIND_ADDR"
	EnvLogLevel         = "ARIA_LOG_LEVEL"
	EnvDataDir          = "ARIA_DATA_DIR"
	EnvStaticDir        = "ARIA_STATIC_DIR"
	EnvCasesFile        = "ARIA_CASES_FILE"
	EnvCORSOrigins      = "ARIA_CORS_ORIGINS"
	EnvHeadless         = "ARIA_HEADLESS"
	EnvServerURL        = "ARIA_SERVER_URL"
	EnvDefaultCase      = "ARIA_DEFAULT_CASE"
	EnvPollIntervalMs   = "ARIA_POLL_INTERVAL_MS"
	EnvAnalysisDelayMs  = "ARIA_ANALYSIS_DELAY_MS"
	EnvInitialLoadDelay = "ARIA_INITIAL_LOAD_DELAY_MS"
	EnvMpvSocket        = "ARIA_MPV_SOCKET"

	// Database filename
	DBFilename = "aria.db"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	BindAddr() string
	Addr() string
	LogLevel() string
	DataDir() string
	DBPath() string
	LogPath() string
	ExportDir() string
	StaticDir() string
	CasesFile() string
	CORSOrigins() []string
	Headless() bool
	ServerURL() string
	DefaultCase() string
	PollInterval() time.Duration
	AnalysisDelay() time.Duration
	InitialLoadDelay() time.Duration
	MpvSocket() string
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port        int
	bindAddr    string
	logLevel    string
	dataDir     string
	staticDir   string
	casesFile   string
	corsOrigins []string
	headless    bool
	serverURL   string
	defaultCase string
	mpvSocket   string

	pollInterval     time.Duration
	analysisDelay    time.Duration
	initialLoadDelay time.Duration
}

// LoadDotEnv loads variables from the given files (default ".env") without
// overriding variables already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:             DefaultPort,
		bindAddr:         DefaultBindAddr,
		logLevel:         DefaultLogLevel,
		dataDir:          defaultDataDir(),
		corsOrigins:      []string{DefaultCORSOrigins},
		defaultCase:      DefaultCaseID,
		mpvSocket:        DefaultMpvSocket,
		pollInterval:     DefaultPollIntervalMs * time.Millisecond,
		analysisDelay:    DefaultAnalysisDelayMs * time.Millisecond,
		initialLoadDelay: DefaultInitialLoadDelay * time.Millisecond,
	}

	// Override port from environment
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if b := os.Getenv(EnvBindAddr); b != "" {
		cfg.bindAddr = b
	}

	// Override log level from environment
	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	// Override data directory from environment
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	cfg.staticDir = os.Getenv(EnvStaticDir)
	cfg.casesFile = os.Getenv(EnvCasesFile)

	if co := os.Getenv(EnvCORSOrigins); co != "" {
		cfg.corsOrigins = splitList(co)
	}

	if h := os.Getenv(EnvHeadless); h != "" {
		headless, err := strconv.ParseBool(h)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvHeadless, err)
		}
		cfg.headless = headless
	}

	cfg.serverURL = fmt.Sprintf("http://%s:%d", cfg.bindAddr, cfg.port)
	if su := os.Getenv(EnvServerURL); su != "" {
		u, err := url.Parse(su)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid %s: %q is not an absolute URL", EnvServerURL, su)
		}
		cfg.serverURL = strings.TrimRight(su, "/")
	}

	if dc := os.Getenv(EnvDefaultCase); dc != "" {
		cfg.defaultCase = dc
	}

	if ms := os.Getenv(EnvMpvSocket); ms != "" {
		cfg.mpvSocket = ms
	}

	var err error
	if cfg.pollInterval, err = durationMs(EnvPollIntervalMs, cfg.pollInterval, 1); err != nil {
		return nil, err
	}
	if cfg.analysisDelay, err = durationMs(EnvAnalysisDelayMs, cfg.analysisDelay, 0); err != nil {
		return nil, err
	}
	if cfg.initialLoadDelay, err = durationMs(EnvInitialLoadDelay, cfg.initialLoadDelay, 0); err != nil {
		return nil, err
	}

	return cfg, nil
}

func durationMs(env string, def time.Duration, min int) (time.Duration, error) {
	v := os.Getenv(env)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", env, err)
	}
	if n < min {
		return 0, fmt.Errorf("invalid %s: must be at least %d", env, min)
	}
	return time.Duration(n) * time.Millisecond, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

func (c *EnvConfig) BindAddr() string {
	return c.bindAddr
}

// Addr returns the listen address host:port
func (c *EnvConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.bindAddr, c.port)
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// LogPath is where the review console writes its logs.
func (c *EnvConfig) LogPath() string {
	return filepath.Join(c.dataDir, "logs", "review.log")
}

// ExportDir holds EDL exports.
func (c *EnvConfig) ExportDir() string {
	return filepath.Join(c.dataDir, "exports")
}

// CasesFile is a JSON array of case records imported on serve startup.
func (c *EnvConfig) CasesFile() string {
	return c.casesFile
}

// StaticDir overrides the embedded browser bundle when non-empty.
func (c *EnvConfig) StaticDir() string {
	return c.staticDir
}

func (c *EnvConfig) CORSOrigins() []string {
	return c.corsOrigins
}

func (c *EnvConfig) Headless() bool {
	return c.headless
}

// ServerURL is the base URL the review console fetches cases from.
func (c *EnvConfig) ServerURL() string {
	return c.serverURL
}

func (c *EnvConfig) DefaultCase() string {
	return c.defaultCase
}

func (c *EnvConfig) PollInterval() time.Duration {
	return c.pollInterval
}

func (c *EnvConfig) AnalysisDelay() time.Duration {
	return c.analysisDelay
}

func (c *EnvConfig) InitialLoadDelay() time.Duration {
	return c.initialLoadDelay
}

func (c *EnvConfig) MpvSocket() string {
	return c.mpvSocket
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
