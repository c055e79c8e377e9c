package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/timenorm/server/timezone"
)

// Profile is the configuration to start the normalization server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// DSN points to where timenorm stores documents and annotations
	DSN string
	// Version is the current version of server
	Version string

	// Normalization
	DefaultTimezone  string // TIMENORM_TIMEZONE (default: UTC)
	ResolveDirection string // TIMENORM_RESOLVE_DIRECTION (past, future, closest, this or none)
	MaxResolveDepth  int    // TIMENORM_MAX_RESOLVE_DEPTH (default: 4)
	Workers          int    // TIMENORM_WORKERS (default: 4)

	// API rate limiting
	RateLimit float64 // TIMENORM_RATE_LIMIT requests per second per client (0 disables)
	RateBurst int     // TIMENORM_RATE_BURST (default: 20)
}

const (
	defaultMaxResolveDepth = 4
	defaultWorkers         = 4
	defaultRateBurst       = 20
)

var directions = []string{"", "none", "past", "future", "closest", "this"}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

// FromEnv loads configuration from TIMENORM_* environment variables. Values
// already set on the profile win over the environment.
func (p *Profile) FromEnv() {
	if p.Driver == "" {
		p.Driver = getEnvOrDefault("TIMENORM_DRIVER", "sqlite")
	}
	if p.DSN == "" {
		p.DSN = os.Getenv("TIMENORM_DSN")
	}
	if p.DefaultTimezone == "" {
		p.DefaultTimezone = getEnvOrDefault("TIMENORM_TIMEZONE", timezone.TimezoneUTC)
	}
	if p.ResolveDirection == "" {
		p.ResolveDirection = os.Getenv("TIMENORM_RESOLVE_DIRECTION")
	}
	if p.MaxResolveDepth == 0 {
		p.MaxResolveDepth = getIntEnvOrDefault("TIMENORM_MAX_RESOLVE_DEPTH", defaultMaxResolveDepth)
	}
	if p.Workers == 0 {
		p.Workers = getIntEnvOrDefault("TIMENORM_WORKERS", defaultWorkers)
	}
	if p.RateLimit == 0 {
		if v, err := strconv.ParseFloat(os.Getenv("TIMENORM_RATE_LIMIT"), 64); err == nil {
			p.RateLimit = v
		}
	}
	if p.RateBurst == 0 {
		p.RateBurst = getIntEnvOrDefault("TIMENORM_RATE_BURST", defaultRateBurst)
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

// Validate normalizes the profile and rejects settings the server cannot
// start with.
func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if !timezone.IsValidTimezone(p.DefaultTimezone) {
		return errors.Errorf("invalid default timezone %q", p.DefaultTimezone)
	}
	p.ResolveDirection = strings.ToLower(p.ResolveDirection)
	if !containsString(directions, p.ResolveDirection) {
		return errors.Errorf("invalid resolve direction %q", p.ResolveDirection)
	}
	if p.MaxResolveDepth <= 0 {
		p.MaxResolveDepth = defaultMaxResolveDepth
	}
	if p.Workers <= 0 {
		p.Workers = defaultWorkers
	}
	if p.RateLimit < 0 {
		return errors.Errorf("invalid rate limit %v", p.RateLimit)
	}
	if p.RateBurst <= 0 {
		p.RateBurst = defaultRateBurst
	}

	switch p.Driver {
	case "sqlite":
	case "postgres":
		if p.DSN == "" {
			return errors.New("postgres driver requires a DSN")
		}
		return nil
	default:
		return errors.Errorf("unsupported driver %q", p.Driver)
	}

	if p.DSN != "" {
		return nil
	}
	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "timenorm")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/timenorm"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check dsn", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	p.DSN = filepath.Join(dataDir, fmt.Sprintf("timenorm_%s.db", p.Mode))
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
