package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `envconfig:"TIENDA_PORT" default:"3000"`
	LogLevel string `envconfig:"TIENDA_LOG_LEVEL" default:"info"`

	// PublicBaseURL is the externally reachable origin used to build image
	// URLs, e.g. http://localhost:3000.
	PublicBaseURL string `envconfig:"TIENDA_PUBLIC_BASE_URL" default:"http://localhost:3000"`

	DataDir    string `envconfig:"TIENDA_DATA_DIR" default:"."`
	UploadsDir string `envconfig:"TIENDA_UPLOADS_DIR" default:"uploads"`

	// DatabaseDSN switches persistence from flat JSON files to Postgres
	// snapshots when set.
	DatabaseDSN string `envconfig:"TIENDA_DATABASE_DSN"`

	MaxUploadBytes int64 `envconfig:"TIENDA_MAX_UPLOAD_BYTES" default:"10485760"`

	CORSAllowedOrigins []string `envconfig:"TIENDA_CORS_ALLOWED_ORIGINS" default:"*"`

	// WriteLimitPerMin rate-limits mutating requests per client IP. 0 disables.
	WriteLimitPerMin int `envconfig:"TIENDA_WRITE_LIMIT_PER_MIN" default:"0"`

	MetricsEnabled bool   `envconfig:"TIENDA_METRICS_ENABLED" default:"false"`
	MetricsToken   string `envconfig:"TIENDA_METRICS_TOKEN"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return cfg, nil
}
