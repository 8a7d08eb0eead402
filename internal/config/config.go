package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// Config is every setting the service reads at startup. Each field can be
// given as a flag or through the environment variable named in its env tag.
type Config struct {
	Version kong.VersionFlag `help:"Print version and exit."`

	Host            string        `help:"Interface to bind." env:"HOST" default:""`
	Port            int           `help:"HTTP port (0 picks a free port)." env:"PORT" default:"3000"`
	DataFile        string        `help:"JSON file holding the appointments." env:"DATA_FILE" type:"path" default:"data/appointments.json"`
	FrontendDir     string        `help:"Directory of static front-end assets." env:"FRONTEND_DIR" type:"path" default:"frontend"`
	ServiceName     string        `help:"Service name used in logs and traces." env:"SERVICE_NAME" default:"appointments"`
	LogLevel        string        `help:"Log level." env:"LOG_LEVEL" enum:"debug,info,warn,error" default:"info"`
	ShutdownTimeout time.Duration `help:"Grace period for in-flight requests on shutdown." env:"SHUTDOWN_TIMEOUT" default:"10s"`

	OTelEnabled       bool    `name:"otel-enabled" help:"Export traces over OTLP/gRPC." env:"OTEL_ENABLED" default:"false"`
	OTelEndpoint      string  `name:"otel-endpoint" help:"OTLP collector host:port." env:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	OTelSamplingRatio float64 `name:"otel-sampling-ratio" help:"Fraction of traces sampled." env:"OTEL_SAMPLING_RATIO" default:"1"`
}

// Parse reads the configuration from args and the environment.
func Parse(args []string, options ...kong.Option) (Config, error) {
	var cfg Config
	parser, err := kong.New(&cfg, options...)
	if err != nil {
		return Config{}, err
	}
	if _, err := parser.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files (".env" when none is
// given). Missing files are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port (got %d)", c.Port)
	}
	if strings.TrimSpace(c.DataFile) == "" {
		return errors.New("DATA_FILE is required")
	}
	if strings.TrimSpace(c.FrontendDir) == "" {
		return errors.New("FRONTEND_DIR is required")
	}
	if c.OTelSamplingRatio < 0 || c.OTelSamplingRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLING_RATIO must be between 0 and 1 (got %v)", c.OTelSamplingRatio)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must not be negative (got %s)", c.ShutdownTimeout)
	}
	return nil
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
