package config

// Default configuration values.
const (
	DefaultPort         = 8000
	DefaultDatabasePath = "brunnylol.db"
	DefaultAlias        = "g"
	DefaultLogLevel     = "info"
)
