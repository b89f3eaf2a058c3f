package config

type Config struct {
	DatabaseURL    string `flag:"database-url"`
	MigrationsPath string `flag:"migrations-path"`
	NATSURL        string `flag:"nats-url"`
	NATSInit       bool   `flag:"nats-init"`
	ListenAddr     string `flag:"listen-addr"`
	MetricsAddr    string `flag:"metrics-addr"`
	ProviderURL    string `flag:"provider-url"`
	LogLevel       string `flag:"log-level"`
}
