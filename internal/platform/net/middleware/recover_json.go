package middleware

import (
	stdhttp "net/http"
	"runtime/debug"

	perr "cngalcal/internal/platform/errors"
	"cngalcal/internal/platform/logger"
	pnet "cngalcal/internal/platform/net"
	phttp "cngalcal/internal/platform/net/http"
)

// RecoverJSON turns a panic into a 500 envelope and logs the stack with the request id
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			// chi uses this to abort a handler on purpose
			if v == stdhttp.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			phttp.RespondError(w, r, perr.PanicErrf("panic recovered"))
		}()
		next.ServeHTTP(w, r)
	})
}
