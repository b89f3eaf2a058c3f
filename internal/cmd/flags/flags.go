package flags

import (
	"fmt"
	"slices"

	libnats "github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

var DatabaseURL = &cli.StringFlag{
	Name:    "database-url",
	Aliases: []string{"d"},
	Usage:   "PostgreSQL connection string",
	Value:   "postgres://localhost:5432/socially?sslmode=disable",
	Sources: cli.EnvVars("DATABASE_URL"),
}

var MigrationsPath = &cli.StringFlag{
	Name:    "migrations-path",
	Usage:   "Path to the SQL migrations directory",
	Value:   "internal/persistence/migrations",
	Sources: cli.EnvVars("MIGRATIONS_PATH"),
}

var NATSUrl = &cli.StringFlag{
	Name:    "nats-url",
	Aliases: []string{"n"},
	Usage:   "The URL of the NATS server",
	Value:   libnats.DefaultURL,
	Sources: cli.EnvVars("NATS_URL"),
}

var NATSInit = &cli.BoolFlag{
	Name:        "nats-init",
	Aliases:     []string{"i"},
	Usage:       "Initialize the NATS server: create the feed event stream",
	DefaultText: "false",
	Value:       false,
	Sources:     cli.EnvVars("NATS_INIT"),
}

var ListenAddr = &cli.StringFlag{
	Name:    "listen-addr",
	Usage:   "Address the API server listens on",
	Value:   ":8080",
	Sources: cli.EnvVars("LISTEN_ADDR"),
}

var MetricsAddr = &cli.StringFlag{
	Name:    "metrics-addr",
	Usage:   "Address the metrics server listens on",
	Value:   ":9090",
	Sources: cli.EnvVars("METRICS_ADDR"),
}

var ProviderURL = &cli.StringFlag{
	Name:    "provider-url",
	Usage:   "Base URL of the session identity provider",
	Value:   "http://localhost:7001",
	Sources: cli.EnvVars("PROVIDER_URL"),
}

var LogLevel = &cli.StringFlag{
	Name:    "log-level",
	Aliases: []string{"l"},
	Usage:   "The level of the logs",
	Value:   "info",
	Validator: func(value string) error {
		if !slices.Contains(validLogLevels, value) {
			return fmt.Errorf("invalid log level: %s, allowed values are: %s", value, validLogLevels)
		}
		return nil
	},
	Sources: cli.EnvVars("LOG_LEVEL"),
}
