package middleware

import (
	"net/http"
	"time"

	"cngalcal/internal/platform/logger"
	pnet "cngalcal/internal/platform/net"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// AccessLogOptions configures the zerolog access log
type AccessLogOptions struct {
	// Slow logs requests taking at least Slow at warn level; 0 disables it
	Slow time.Duration
	// Log replaces the request scoped logger
	Log *logger.Logger
	// Clock times requests; nil means the real clock
	Clock clockwork.Clock
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	n      int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	n, err := sr.ResponseWriter.Write(b)
	sr.n += n
	return n, err
}

// AccessLogZerolog writes one line per request. 5xx responses log at error level,
// slow ones at warn. The chi route pattern is logged next to the raw path when
// routing matched
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	clock := opt.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := clock.Now()
			next.ServeHTTP(sr, r)
			elapsed := clock.Since(start)

			log := logger.C(r.Context())
			if opt.Log != nil {
				l := opt.Log.With().Str("request_id", pnet.RequestID(r.Context())).Logger()
				log = &l
			}

			var evt *zerolog.Event
			switch {
			case sr.status >= http.StatusInternalServerError:
				evt = log.Error()
			case opt.Slow > 0 && elapsed >= opt.Slow:
				evt = log.Warn()
			default:
				evt = log.Info()
			}
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				evt = evt.Str("route", rc.RoutePattern())
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sr.status).
				Int("bytes", sr.n).
				Dur("elapsed", elapsed).
				Msg("request done")
		})
	}
}
