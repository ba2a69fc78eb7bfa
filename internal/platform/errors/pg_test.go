package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pgErr(code string) *pgconn.PgError { return &pgconn.PgError{Code: code} }

func TestDBErrorCodeMappings(t *testing.T) {
	cases := []struct {
		code string
		want ErrorCode
	}{
		{"23505", ErrorCodeDuplicateKey},
		{"23502", ErrorCodeValidation},
		{"23514", ErrorCodeValidation},
		{"22001", ErrorCodeInvalidArgument},
		{"42P01", ErrorCodeNotFound},
		{"57P03", ErrorCodeUnavailable},
		{"40001", ErrorCodeDB},
		{"XXXXX", ErrorCodeDB},
	}
	for _, c := range cases {
		got, ok := DBErrorCode(pgErr(c.code))
		if !ok || got != c.want {
			t.Fatalf("DBErrorCode(%s) = %v,%v want %v", c.code, got, ok, c.want)
		}
	}
	if _, ok := DBErrorCode(stderrs.New("nope")); ok {
		t.Fatalf("non-pg error should report ok=false")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil {
		t.Fatalf("nil passthrough")
	}
	err := FromPostgres(fmt.Errorf("exec: %w", pgErr("23505")), "upsert snapshot")
	if CodeOf(err) != ErrorCodeDuplicateKey || !IsDuplicateKey(err) {
		t.Fatalf("FromPostgres code = %v", CodeOf(err))
	}
	if CodeOf(FromPostgres(stderrs.New("conn reset"), "x")) != ErrorCodeDB {
		t.Fatalf("non-pg error should map to DB")
	}
	if !IsUndefinedTable(pgErr("42P01")) {
		t.Fatalf("IsUndefinedTable")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline wrapped", fmt.Errorf("q: %w", context.DeadlineExceeded), false},
		{"serialization", pgErr("40001"), true},
		{"deadlock", pgErr("40P01"), true},
		{"unique", pgErr("23505"), false},
		{"commit text", stderrs.New("commit unexpectedly resulted in rollback"), true},
		{"plain", stderrs.New("boom"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsRetryable(c.err); got != c.want {
				t.Fatalf("IsRetryable = %v, want %v", got, c.want)
			}
		})
	}
}
