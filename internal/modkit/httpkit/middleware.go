package httpkit

import (
	"net/http"
	"time"

	"cngalcal/internal/platform/config"
	"cngalcal/internal/platform/net/middleware"
)

// StackOptions configures the server wide middleware stack
type StackOptions struct {
	Timeout     time.Duration
	SlowRequest time.Duration
	CORSOrigins []string
	HealthPath  string
}

// StackFromConfig reads API_* keys under cfg
func StackFromConfig(cfg config.Conf) StackOptions {
	api := cfg.Prefix("API_")
	return StackOptions{
		Timeout:     api.MayDuration("TIMEOUT", 30*time.Second),
		SlowRequest: api.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
		CORSOrigins: api.MayCSV("CORS_ORIGINS", []string{"*"}),
		HealthPath:  "/healthz",
	}
}

// CommonStack is mounted once at the root, before any module
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	stack := middleware.Defaults(o.Timeout)
	stack = append(stack,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.SlowRequest}),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
	)
	if o.HealthPath != "" {
		stack = append(stack, middleware.Heartbeat(o.HealthPath))
	}
	return stack
}
