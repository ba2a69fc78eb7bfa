package config

import (
	"testing"
	"time"

	kit "cngalcal/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	c := New().Prefix("CNGAL_").Prefix("API_")
	if got := c.key("PORT"); got != "CNGAL_API_PORT" {
		t.Fatalf("key() = %q, want %q", got, "CNGAL_API_PORT")
	}
}

func TestMustGetters(t *testing.T) {
	c := New().Prefix("M_")
	t.Setenv("M_NAME", "  cngal ")
	t.Setenv("M_N", " 8 ")
	t.Setenv("M_BADN", "x")
	t.Setenv("M_DUR", "250ms")
	t.Setenv("M_BADDUR", "soon")
	t.Setenv("M_URL", "https://api.cngal.org")
	t.Setenv("M_RELURL", "/api/home")

	if got := c.MustString("NAME"); got != "cngal" {
		t.Fatalf("MustString = %q", got)
	}
	if got := c.MustInt("N"); got != 8 {
		t.Fatalf("MustInt = %d", got)
	}
	if got := c.MustDuration("DUR"); got != 250*time.Millisecond {
		t.Fatalf("MustDuration = %v", got)
	}
	if u := c.MustURL("URL"); u.Host != "api.cngal.org" {
		t.Fatalf("MustURL host = %q", u.Host)
	}

	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
	kit.MustPanic(t, func() { _ = c.MustInt("BADN") })
	kit.MustPanic(t, func() { _ = c.MustDuration("BADDUR") })
	kit.MustPanic(t, func() { _ = c.MustURL("RELURL") })
}

func TestMayGetters(t *testing.T) {
	c := New().Prefix("Y_")
	t.Setenv("Y_DIR", "dist")
	t.Setenv("Y_RETRIES", "5")
	t.Setenv("Y_BADINT", "five")
	t.Setenv("Y_FLAG", "true")
	t.Setenv("Y_BADFLAG", "maybe")
	t.Setenv("Y_REFRESH", "1h")
	t.Setenv("Y_BADREFRESH", "hourly")

	if got := c.MayString("DIR", "output"); got != "dist" {
		t.Fatalf("MayString = %q", got)
	}
	if got := c.MayString("UNSET", "output"); got != "output" {
		t.Fatalf("MayString default = %q", got)
	}
	if got := c.MayInt("RETRIES", 3); got != 5 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayInt("BADINT", 3); got != 3 {
		t.Fatalf("MayInt invalid = %d", got)
	}
	if !c.MayBool("FLAG", false) || c.MayBool("BADFLAG", false) {
		t.Fatalf("MayBool mismatch")
	}
	if got := c.MayDuration("REFRESH", time.Minute); got != time.Hour {
		t.Fatalf("MayDuration = %v", got)
	}
	if got := c.MayDuration("BADREFRESH", time.Minute); got != time.Minute {
		t.Fatalf("MayDuration invalid = %v", got)
	}
	if !c.Has("DIR") || c.Has("UNSET") {
		t.Fatalf("Has mismatch")
	}
}

func TestMayCSVAndInts(t *testing.T) {
	c := New().Prefix("L_")
	t.Setenv("L_ORIGINS", " a.example , ,b.example ")
	t.Setenv("L_BLANKS", " , , ")
	t.Setenv("L_DENY", "12, x, 40")

	got := c.MayCSV("ORIGINS", nil)
	if len(got) != 2 || got[0] != "a.example" || got[1] != "b.example" {
		t.Fatalf("MayCSV = %v", got)
	}
	if got := c.MayCSV("BLANKS", []string{"*"}); len(got) != 1 || got[0] != "*" {
		t.Fatalf("MayCSV blanks = %v", got)
	}

	ints := c.MayInts("DENY", nil)
	if len(ints) != 2 || ints[0] != 12 || ints[1] != 40 {
		t.Fatalf("MayInts = %v", ints)
	}
	if def := c.MayInts("UNSET", []int{1}); len(def) != 1 || def[0] != 1 {
		t.Fatalf("MayInts default = %v", def)
	}
}

func TestMayLocation(t *testing.T) {
	c := New().Prefix("Z_")
	t.Setenv("Z_TZ", "UTC")
	t.Setenv("Z_BADTZ", "Mars/Olympus")

	if loc := c.MayLocation("TZ", "Asia/Shanghai"); loc.String() != "UTC" {
		t.Fatalf("MayLocation = %s", loc)
	}
	if loc := c.MayLocation("UNSET", "Asia/Shanghai"); loc.String() != "Asia/Shanghai" {
		t.Fatalf("MayLocation default = %s", loc)
	}
	kit.MustPanic(t, func() { _ = c.MayLocation("BADTZ", "") })
}
