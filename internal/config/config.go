// Package config reads server settings from flags, the environment and an
// optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AI providers.
const (
	ProviderGateway = "gateway"
	ProviderGemini  = "gemini"
)

// APIKeyEnv holds the credential for the AI provider.
const APIKeyEnv = "AI_GATEWAY_API_KEY"

// Config holds server settings.
type Config struct {
	DBPath      string
	Addr        string
	LogPath     string
	DatabaseURL string

	AIProvider string
	AIURL      string
	AIModel    string
	AIKey      string
}

// UsePostgres reports whether items live in Postgres rather than SQLite.
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

const usage = `Usage: lostfound [flags]

Flags:
  -d, -db <path>           SQLite database path (default: lostfound.sqlite3)
  -a, -addr <host:port>    listen address (default: :8080)
  -l, -log <path>          log file path (default: no file, stdout/stderr only)
  -database-url <url>      Postgres connection URL; replaces SQLite when set
  -ai-provider <name>      gateway or gemini (default: gateway)
  -ai-url <url>            chat completions endpoint for the gateway provider
  -ai-model <name>         model name (default depends on provider)
  -h, -help                show this help and exit

Every flag can also be set with LOSTFOUND_<NAME> in the environment or in a
.env file, e.g. LOSTFOUND_DATABASE_URL. The AI credential is read only from
AI_GATEWAY_API_KEY.
`

// Load reads .env from the working directory if present, then parses args.
func Load(args []string, out io.Writer) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return Parse(args, os.Getenv, out)
}

// Parse builds a Config from args, taking defaults from getenv. Flags win
// over the environment.
func Parse(args []string, getenv func(string) string, out io.Writer) (*Config, error) {
	env := func(name, def string) string {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v
		}
		return def
	}

	fs := flag.NewFlagSet("lostfound", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { fmt.Fprint(out, usage) }

	c := &Config{}

	dbDefault := env("LOSTFOUND_DB", "lostfound.sqlite3")
	fs.StringVar(&c.DBPath, "db", dbDefault, "")
	fs.StringVar(&c.DBPath, "d", dbDefault, "")

	addrDefault := env("LOSTFOUND_ADDR", ":8080")
	fs.StringVar(&c.Addr, "addr", addrDefault, "")
	fs.StringVar(&c.Addr, "a", addrDefault, "")

	logDefault := env("LOSTFOUND_LOG", "")
	fs.StringVar(&c.LogPath, "log", logDefault, "")
	fs.StringVar(&c.LogPath, "l", logDefault, "")

	fs.StringVar(&c.DatabaseURL, "database-url", env("LOSTFOUND_DATABASE_URL", ""), "")
	fs.StringVar(&c.AIProvider, "ai-provider", env("LOSTFOUND_AI_PROVIDER", ProviderGateway), "")
	fs.StringVar(&c.AIURL, "ai-url", env("LOSTFOUND_AI_URL", ""), "")
	fs.StringVar(&c.AIModel, "ai-model", env("LOSTFOUND_AI_MODEL", ""), "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	switch c.AIProvider {
	case ProviderGateway, ProviderGemini:
	default:
		return nil, fmt.Errorf("unknown AI provider %q (want %s or %s)", c.AIProvider, ProviderGateway, ProviderGemini)
	}

	c.AIKey = strings.TrimSpace(getenv(APIKeyEnv))
	return c, nil
}
