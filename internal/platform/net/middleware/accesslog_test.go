package middleware_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cngalcal/internal/platform/net/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

func TestAccessLog_PassThroughAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	r := chi.NewRouter()
	r.Use(middleware.AccessLogZerolog(middleware.AccessLogOptions{Log: &log}))
	r.Get("/api/v1/releases/files/{name}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, "ok")
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/releases/files/cngal-release.txt", nil))

	if rr.Code != http.StatusCreated || rr.Body.String() != "ok" {
		t.Fatalf("response changed: %d %q", rr.Code, rr.Body.String())
	}
	line := buf.String()
	for _, want := range []string{
		`"level":"info"`,
		`"status":201`,
		`"bytes":2`,
		`"path":"/api/v1/releases/files/cngal-release.txt"`,
		`"route":"/api/v1/releases/files/{name}"`,
		`"message":"request done"`,
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("missing %s in %s", want, line)
		}
	}
}

func TestAccessLog_SlowIsWarn(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	clock := clockwork.NewFakeClock()
	mw := middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: time.Second, Log: &log, Clock: clock})

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		clock.Advance(2 * time.Second)
		_, _ = io.WriteString(w, "slow")
	})
	mw(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Fatalf("expected warn level, got %s", buf.String())
	}
}

func TestAccessLog_ServerErrorIsError(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	mw := middleware.AccessLogZerolog(middleware.AccessLogOptions{Log: &log, Clock: clockwork.NewFakeClock()})

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	mw(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/releases", nil))

	if !strings.Contains(buf.String(), `"level":"error"`) || !strings.Contains(buf.String(), `"status":503`) {
		t.Fatalf("expected error level 503, got %s", buf.String())
	}
}
