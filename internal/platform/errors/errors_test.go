package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeDuplicateKey, http.StatusConflict},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeTooManyRequests, http.StatusTooManyRequests},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestErrorCodeString(t *testing.T) {
	if ErrorCodeInvalidArgument.String() != "invalid_argument" {
		t.Fatalf("String = %q", ErrorCodeInvalidArgument.String())
	}
	if ErrorCode(500).String() != "code_500" {
		t.Fatalf("unknown String = %q", ErrorCode(500).String())
	}
}

func TestErrorBasics(t *testing.T) {
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil render = %q", nilErr.Error())
	}

	e := Newf(ErrorCodeValidation, "month %d out of range", 13)
	if e.Error() != "month 13 out of range" || CodeOf(e) != ErrorCodeValidation {
		t.Fatalf("Newf = %v (%v)", e, CodeOf(e))
	}

	cause := stderrs.New("dial tcp: refused")
	w := Wrap(cause, ErrorCodeUnavailable, "fetch upcoming games")
	if w.Error() != "fetch upcoming games: dial tcp: refused" {
		t.Fatalf("Wrap render = %q", w.Error())
	}
	if !stderrs.Is(w, cause) || Root(w) != cause {
		t.Fatalf("Wrap lost its cause")
	}
	if WrapIf(nil, ErrorCodeDB, "x") != nil {
		t.Fatalf("WrapIf(nil) should be nil")
	}

	// wrapped in a foreign error the code is still found
	outer := fmt.Errorf("run: %w", w)
	if !IsCode(outer, ErrorCodeUnavailable) || HTTPStatus(outer) != http.StatusServiceUnavailable {
		t.Fatalf("code lost through fmt wrapping")
	}
	if CodeOf(cause) != ErrorCodeUnknown {
		t.Fatalf("foreign error should be unknown")
	}
}

func TestSentinelIs(t *testing.T) {
	sentinel := New(ErrorCodeInvalidArgument, "malformed partial date")

	same := New(ErrorCodeInvalidArgument, "malformed partial date")
	if !Is(same, sentinel) {
		t.Fatalf("equal code and msg should match")
	}
	wrapped := Wrapf(sentinel, ErrorCodeInvalidArgument, "normalize %q", "2024-x")
	if !Is(wrapped, sentinel) {
		t.Fatalf("wrapped sentinel should match")
	}
	other := New(ErrorCodeValidation, "malformed partial date")
	if Is(other, sentinel) {
		t.Fatalf("different code must not match")
	}
}

func TestWireAndField(t *testing.T) {
	err := WithField(Validationf("required"), "phrase")
	status, wire := HTTP(err)
	if status != http.StatusBadRequest || wire.Field != "phrase" || wire.Message != "required" {
		t.Fatalf("HTTP = %d %+v", status, wire)
	}

	plain := stderrs.New("boom")
	if WithField(plain, "x") != plain {
		t.Fatalf("foreign errors pass through WithField")
	}
	if w := WireFrom(plain); w.Code != ErrorCodeUnknown || w.Message != "boom" {
		t.Fatalf("WireFrom foreign = %+v", w)
	}
	if w := WireFrom(nil); w != (Wire{}) {
		t.Fatalf("WireFrom(nil) = %+v", w)
	}
	if status, _ := HTTP(nil); status != http.StatusOK {
		t.Fatalf("HTTP(nil) = %d", status)
	}
}

func TestSugarCodes(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorCode
	}{
		{InvalidArgf("x"), ErrorCodeInvalidArgument},
		{Validationf("x"), ErrorCodeValidation},
		{JSONErrf("x"), ErrorCodeJSON},
		{PanicErrf("x"), ErrorCodePanic},
		{Unavailablef("x"), ErrorCodeUnavailable},
		{NotFoundf("x"), ErrorCodeNotFound},
	}
	for _, c := range cases {
		if CodeOf(c.err) != c.want {
			t.Fatalf("CodeOf(%v) = %v, want %v", c.err, CodeOf(c.err), c.want)
		}
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(Unavailablef("upstream 503")) {
		t.Fatalf("unavailable should retry")
	}
	if !Retryable(New(ErrorCodeTooManyRequests, "429")) {
		t.Fatalf("rate limit should retry")
	}
	if Retryable(Validationf("month 13")) {
		t.Fatalf("validation must not retry")
	}
}
