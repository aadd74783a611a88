package config

import "context"

type ctxKey struct{}

// IntoContext stores the loaded config so subcommands can retrieve it.
func IntoContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the config stored by the root command. A missing
// config yields the built-in defaults rather than nil.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}
	return &Config{
		Port:         DefaultPort,
		DatabasePath: DefaultDatabasePath,
		DefaultAlias: DefaultAlias,
		LogLevel:     DefaultLogLevel,
	}
}
