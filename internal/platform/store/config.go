package store

import (
	"time"

	"cngalcal/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string
	PG      PGConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int           // default 8
	PingTimeout    time.Duration // default 3s
}

// ConfigFromEnv reads PGSQL_* under cfg. An empty PGSQL_DBURL leaves postgres disabled
func ConfigFromEnv(cfg config.Conf) Config {
	url := cfg.MayString("PGSQL_DBURL", "")
	return Config{
		AppName: "cngalcal",
		PG: PGConfig{
			Enabled:        url != "",
			URL:            url,
			MaxConns:       int32(cfg.MayInt("PGSQL_MAX_CONNS", 4)),
			LogSQL:         cfg.MayBool("PGSQL_LOG_SQL", false),
			SlowQueryMs:    cfg.MayInt("PGSQL_SLOW_MS", 500),
			ConnectRetries: cfg.MayInt("PGSQL_CONNECT_RETRIES", 8),
			PingTimeout:    cfg.MayDuration("PGSQL_PING_TIMEOUT", 3*time.Second),
		},
	}
}
