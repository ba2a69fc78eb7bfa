package http_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cngalcal/internal/platform/config"
	perr "cngalcal/internal/platform/errors"
	phttp "cngalcal/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type echoIn struct {
	Phrase string `json:"phrase" validate:"required"`
}

func TestNewServer_DefaultsAndMux(t *testing.T) {
	t.Setenv("API_PORT", "")
	srv := phttp.NewServer(config.New())
	if srv.Addr() != ":4000" {
		t.Fatalf("addr got %q", srv.Addr())
	}
	r := srv.Router()
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest("GET", "/ping", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("bad response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestNewServer_OptionsSeeMux(t *testing.T) {
	var seen *chi.Mux
	srv := phttp.NewServer(config.New(), func(m *chi.Mux) { seen = m })
	if seen == nil || srv.Router().Mux() != http.Handler(seen) {
		t.Fatalf("option did not receive the server mux")
	}
}

func TestRouter_RouteGroupAndSugar(t *testing.T) {
	root := phttp.AdaptChi(chi.NewRouter())
	root.Route("/api/v1", func(r phttp.Router) {
		r.Group(func(g phttp.Router) {
			g.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					w.Header().Set("X-Group", "yes")
					next.ServeHTTP(w, req)
				})
			})
			phttp.GetJSON(g, "/ping", func(*http.Request) (any, error) { return "pong", nil })
		})
		phttp.PostJSON(r, "/echo", func(_ *http.Request, in echoIn) (any, error) { return in.Phrase, nil })
		phttp.PostNoBody(r, "/fail", func(*http.Request) (any, error) { return nil, perr.Unavailablef("down") })
		phttp.GetRaw(r, "/doc", func(*http.Request) (phttp.Raw, error) {
			return phttp.Raw{ContentType: "text/plain", Body: []byte("doc")}, nil
		})
		phttp.GetRaw(r, "/nodoc", func(*http.Request) (phttp.Raw, error) {
			return phttp.Raw{}, errors.New("no doc")
		})
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		root.Mux().ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rec
	}

	if rec := do("GET", "/api/v1/ping", ""); rec.Code != 200 || rec.Header().Get("X-Group") != "yes" {
		t.Fatalf("group route: %d %v", rec.Code, rec.Header())
	}
	if rec := do("POST", "/api/v1/echo", `{"phrase":"2024年"}`); rec.Code != 200 || !strings.Contains(rec.Body.String(), "2024年") {
		t.Fatalf("echo: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do("POST", "/api/v1/echo", `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("echo validation: %d", rec.Code)
	}
	if rec := do("POST", "/api/v1/fail", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("fail: %d", rec.Code)
	}
	if rec := do("GET", "/api/v1/doc", ""); rec.Code != 200 || rec.Body.String() != "doc" {
		t.Fatalf("doc: %d %q", rec.Code, rec.Body.String())
	}
	if rec := do("GET", "/api/v1/nodoc", ""); rec.Code != http.StatusInternalServerError {
		t.Fatalf("nodoc: %d", rec.Code)
	}
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	t.Setenv("API_PORT", "127.0.0.1:0")
	srv := phttp.NewServer(config.New())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
