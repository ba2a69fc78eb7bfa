// Package testkit provides testing helpers
package testkit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ptime "cngalcal/internal/platform/time"

	"github.com/jonboulle/clockwork"
)

// MustPanic asserts that fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
}

// MustNotPanic asserts that fn does not panic
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}

// MustContain asserts haystack contains needle; on failure the haystack is dumped to a temp file
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		tmpfile := filepath.Join(t.TempDir(), "haystack.txt")
		_ = os.WriteFile(tmpfile, []byte(haystack), 0o600)
		t.Fatalf("expected output to contain %q\n\nfull output written to %s", needle, tmpfile)
	}
}

// Shanghai is the reference zone used by release-date tests
func Shanghai() *time.Location { return ptime.MustLocation(ptime.DefaultZone) }

// Day parses YYYY-MM-DD as midnight in Shanghai or fails the test
func Day(t testing.TB, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(time.DateOnly, s, Shanghai())
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

// FakeClock returns a fake clock pinned to noon of the given Shanghai day
func FakeClock(t testing.TB, day string) *clockwork.FakeClock {
	t.Helper()
	return clockwork.NewFakeClockAt(Day(t, day).Add(12 * time.Hour))
}
