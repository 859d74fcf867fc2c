// Package config loads delez settings from a .env file, the environment and
// command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// FluentBit configures log shipping.
type FluentBit struct {
	Enabled   bool
	Host      string
	Port      int
	TagPrefix string
}

// Config holds every runtime setting.
type Config struct {
	Addr           string
	DBPath         string
	BackendURL     string
	BackendTimeout time.Duration
	LogFile        string
	LogLevel       slog.Level
	LogColor       bool
	CORSOrigins    []string
	SecureCookies  bool
	FluentBit      FluentBit
}

const usage = `Usage: delez [flags]

Flags:
  -a, -addr <host:port>     listen address (default: :8080, env DELEZ_ADDR)
  -d, -db <path>            SQLite database path (default: delez.sqlite3, env DELEZ_DB)
  -b, -backend <url>        REST backend base URL (default: http://localhost:5000, env DELEZ_BACKEND_URL)
  -t, -timeout <duration>   backend call timeout (default: 10s, env DELEZ_BACKEND_TIMEOUT)
  -l, -log <path>           rotating log file (default: none, env DELEZ_LOG_FILE)
  -v, -level <level>        log level: debug, info, warn, error (default: info, env DELEZ_LOG_LEVEL)
  -h, -help                 show this help and exit

Environment only:
  DELEZ_LOG_COLOR           colour console output (default: false)
  DELEZ_CORS_ORIGINS        comma-separated origins allowed on /api (default: none)
  DELEZ_SECURE_COOKIES      mark cookies Secure (default: false)
  FLUENTBIT_ENABLED         ship logs to Fluent Bit (default: false)
  FLUENTBIT_HOST, FLUENTBIT_PORT, FLUENTBIT_TAG
`

// Load reads envFile if it exists, then the environment, then args.
// It returns flag.ErrHelp when help was requested.
func Load(envFile string, args []string, out io.Writer) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Addr:          getString("DELEZ_ADDR", ":8080"),
		DBPath:        getString("DELEZ_DB", "delez.sqlite3"),
		BackendURL:    getString("DELEZ_BACKEND_URL", "http://localhost:5000"),
		LogFile:       getString("DELEZ_LOG_FILE", ""),
		LogColor:      getBool("DELEZ_LOG_COLOR", false),
		CORSOrigins:   getList("DELEZ_CORS_ORIGINS"),
		SecureCookies: getBool("DELEZ_SECURE_COOKIES", false),
		FluentBit: FluentBit{
			Enabled:   getBool("FLUENTBIT_ENABLED", false),
			Host:      getString("FLUENTBIT_HOST", ""),
			Port:      getInt("FLUENTBIT_PORT", 24224),
			TagPrefix: getString("FLUENTBIT_TAG", "delez"),
		},
	}
	timeout := getString("DELEZ_BACKEND_TIMEOUT", "10s")
	level := getString("DELEZ_LOG_LEVEL", "info")

	fset := flag.NewFlagSet("delez", flag.ContinueOnError)
	fset.SetOutput(out)
	fset.Usage = func() { fmt.Fprint(out, usage) }
	for _, name := range []string{"addr", "a"} {
		fset.StringVar(&cfg.Addr, name, cfg.Addr, "")
	}
	for _, name := range []string{"db", "d"} {
		fset.StringVar(&cfg.DBPath, name, cfg.DBPath, "")
	}
	for _, name := range []string{"backend", "b"} {
		fset.StringVar(&cfg.BackendURL, name, cfg.BackendURL, "")
	}
	for _, name := range []string{"timeout", "t"} {
		fset.StringVar(&timeout, name, timeout, "")
	}
	for _, name := range []string{"log", "l"} {
		fset.StringVar(&cfg.LogFile, name, cfg.LogFile, "")
	}
	for _, name := range []string{"level", "v"} {
		fset.StringVar(&level, name, level, "")
	}

	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	if fset.NArg() > 0 {
		fmt.Fprint(out, usage)
		return nil, fmt.Errorf("unexpected argument: %s", fset.Arg(0))
	}

	d, err := time.ParseDuration(timeout)
	if err != nil || d <= 0 {
		return nil, fmt.Errorf("invalid backend timeout %q", timeout)
	}
	cfg.BackendTimeout = d

	if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}

	u, err := url.Parse(cfg.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q", cfg.BackendURL)
	}

	if cfg.FluentBit.Enabled && cfg.FluentBit.Host == "" {
		slog.Warn("FLUENTBIT_ENABLED is set without FLUENTBIT_HOST, disabling log shipping")
		cfg.FluentBit.Enabled = false
	}

	return cfg, nil
}

func getString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("ignoring unparsable environment variable", "key", key, "value", v)
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("ignoring unparsable environment variable", "key", key, "value", v)
		return def
	}
	return b
}

func getList(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
