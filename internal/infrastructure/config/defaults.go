package config

import "time"

const (
	DefaultHTTPPort        = "8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultPGMaxConns      = 5
	DefaultPGMinConns      = 1
	DefaultPGIdleTime      = 2 * time.Minute
	DefaultMigratePingWait = 15 * time.Second
	DefaultSQLiteBusyMS    = 5000
)
