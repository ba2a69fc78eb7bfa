package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "cngalcal/internal/platform/errors"
	pnet "cngalcal/internal/platform/net"
	phttp "cngalcal/internal/platform/net/http"
)

func reqWithReqID(method, path, rid string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	return req.WithContext(pnet.WithRequest(req.Context(), rid))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestRespondOK(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.RespondOK(rec, reqWithReqID("GET", "/x", "rid-1"), map[string]string{"title": "雨 & 夜"})

	if rec.Code != http.StatusOK {
		t.Fatalf("code: %d", rec.Code)
	}
	if got := rec.Body.String(); !json.Valid([]byte(got)) || !strings.Contains(got, "雨 & 夜") {
		t.Fatalf("body should keep CJK and '&' literal: %s", got)
	}
	env := decode(t, rec)
	if env.StatusCode != 200 || env.RequestID != "rid-1" || env.Data == nil {
		t.Fatalf("bad envelope: %+v", env)
	}
}

func TestRespondError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   perr.ErrorCode
	}{
		{"validation", perr.WithField(perr.Validationf("bad"), "phrase"), http.StatusBadRequest, perr.ErrorCodeValidation},
		{"malformed", perr.InvalidArgf("malformed"), http.StatusUnprocessableEntity, perr.ErrorCodeInvalidArgument},
		{"upstream", perr.Unavailablef("down"), http.StatusServiceUnavailable, perr.ErrorCodeUnavailable},
		{"plain", errors.New("boom"), http.StatusInternalServerError, perr.ErrorCodeUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			phttp.RespondError(rec, reqWithReqID("GET", "/e", "rid-e"), tc.err)
			if rec.Code != tc.status {
				t.Fatalf("status got %d want %d", rec.Code, tc.status)
			}
			env := decode(t, rec)
			if env.Code != tc.code || env.Error == "" || env.RequestID != "rid-e" {
				t.Fatalf("bad envelope: %+v", env)
			}
		})
	}

	rec := httptest.NewRecorder()
	phttp.RespondError(rec, reqWithReqID("GET", "/e", ""), perr.WithField(perr.Validationf("bad"), "phrase"))
	if env := decode(t, rec); env.Field != "phrase" {
		t.Fatalf("field not propagated: %+v", env)
	}
}

func TestHandle_ReturnStyle(t *testing.T) {
	t.Run("no content", func(t *testing.T) {
		rec := httptest.NewRecorder()
		phttp.Handle(func(*http.Request) phttp.Response { return phttp.NoContent() })(rec, reqWithReqID("POST", "/", ""))
		if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
			t.Fatalf("got %d %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("accepted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		phttp.Handle(func(*http.Request) phttp.Response { return phttp.Accepted(1) })(rec, reqWithReqID("POST", "/", ""))
		if rec.Code != http.StatusAccepted {
			t.Fatalf("got %d", rec.Code)
		}
	})

	t.Run("raw document", func(t *testing.T) {
		doc := phttp.Raw{ContentType: "text/calendar; charset=utf-8", Filename: "cal.ics", Body: []byte("BEGIN:VCALENDAR")}
		rec := httptest.NewRecorder()
		phttp.Handle(func(*http.Request) phttp.Response { return doc.Response() })(rec, reqWithReqID("GET", "/", ""))

		if rec.Code != http.StatusOK || rec.Body.String() != "BEGIN:VCALENDAR" {
			t.Fatalf("got %d %q", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/calendar; charset=utf-8" {
			t.Fatalf("content type %q", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); cd != `inline; filename="cal.ics"` {
			t.Fatalf("disposition %q", cd)
		}
	})

	t.Run("raw head has no body", func(t *testing.T) {
		doc := phttp.Raw{ContentType: "application/atom+xml", Body: []byte("<feed/>")}
		rec := httptest.NewRecorder()
		phttp.Handle(func(*http.Request) phttp.Response { return doc.Response() })(rec, reqWithReqID("HEAD", "/", ""))
		if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
			t.Fatalf("got %d %q", rec.Code, rec.Body.String())
		}
	})
}
