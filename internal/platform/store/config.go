package store

import "time"

// Backends accepted by Config.Backend
const (
	BackendPG     = "pg"
	BackendSQLite = "sqlite"
)

// Config selects and configures the backends Open brings up
type Config struct {
	// Backend is the relational store holding lookups and the tracking table
	Backend string

	PG     PGConfig
	SQLite SQLiteConfig
	CH     CHConfig
}

// PGConfig configures the pgx pool
type PGConfig struct {
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// ConnectRetries bounds the boot ping loop; 0 means 20
	ConnectRetries int
	PingTimeout    time.Duration
}

// SQLiteConfig configures the local file store used on field laptops and in tests
type SQLiteConfig struct {
	Path        string
	LogSQL      bool
	SlowQueryMs int
}

// CHConfig configures the optional ClickHouse audit sink
type CHConfig struct {
	Enabled    bool
	URL        string
	ClientName string
	ClientTag  string
}
