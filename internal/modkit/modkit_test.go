package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cngalcal/internal/modkit/httpkit"
	phttp "cngalcal/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func serve(t *testing.T, r phttp.Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestBuild_Defaults(t *testing.T) {
	b := Build()
	if b.Name != "" || b.Prefix != "" || b.Ports != nil {
		t.Fatalf("unexpected defaults %+v", b)
	}
	if b.Subrouter == nil || b.Register == nil {
		t.Fatalf("subrouter and register should default to no-ops")
	}
}

func TestBuild_LaterOptionsWin(t *testing.T) {
	b := Build(WithName("a"), WithPrefix("/a"), WithName("b"), WithPorts(42))
	if b.Name != "b" || b.Prefix != "/a" {
		t.Fatalf("got %+v", b)
	}
	if b.Ports.(int) != 42 {
		t.Fatalf("ports got %v", b.Ports)
	}
}

func TestBuilt_MountUnderPrefix(t *testing.T) {
	var order []string
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "mw")
			next.ServeHTTP(w, r)
		})
	}
	b := Build(
		WithPrefix("/releases"),
		WithMiddlewares(mw),
		WithRegister(func(r httpkit.Router) {
			httpkit.Get(r, "/extra", func(*http.Request) (any, error) { return "extra", nil })
		}),
	)

	root := phttp.AdaptChi(chi.NewRouter())
	b.Mount(root, func(r httpkit.Router) {
		httpkit.Get(r, "/", func(*http.Request) (any, error) {
			order = append(order, "own")
			return "own", nil
		})
	})

	if rec := serve(t, root, "/releases/"); rec.Code != http.StatusOK {
		t.Fatalf("own route: %d", rec.Code)
	}
	if rec := serve(t, root, "/releases/extra"); rec.Code != http.StatusOK {
		t.Fatalf("register hook route: %d", rec.Code)
	}
	if rec := serve(t, root, "/extra"); rec.Code != http.StatusNotFound {
		t.Fatalf("routes must stay under the prefix, got %d", rec.Code)
	}
	if len(order) < 2 || order[0] != "mw" || order[1] != "own" {
		t.Fatalf("middleware should run first, got %v", order)
	}
}

func TestBuilt_MountWithoutPrefixGroups(t *testing.T) {
	wrapped := false
	b := Build(WithSubrouter(func(r httpkit.Router) httpkit.Router {
		wrapped = true
		return r
	}))
	root := phttp.AdaptChi(chi.NewRouter())
	b.Mount(root, func(r httpkit.Router) {
		httpkit.Get(r, "/dates", func(*http.Request) (any, error) { return nil, nil })
	})
	if !wrapped {
		t.Fatalf("subrouter not applied")
	}
	if rec := serve(t, root, "/dates"); rec.Code != http.StatusOK {
		t.Fatalf("group route: %d", rec.Code)
	}
}

func TestDeps_WithDefaults(t *testing.T) {
	d := Deps{}.WithDefaults()
	if d.Log == nil || d.Fs == nil || d.Clock == nil {
		t.Fatalf("defaults missing: %+v", d)
	}
	if d.PG != nil {
		t.Fatalf("PG must stay nil")
	}
}
