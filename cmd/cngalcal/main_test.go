package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cngalcal/internal/platform/config"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T) (*app, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return &app{cfg: config.New().Prefix("CNGAL_"), fs: fs, log: io.Discard}, fs
}

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNormalize(t *testing.T) {
	a, _ := testApp(t)
	out, err := run(t, a, "--now", "2024-01-10", "normalize", "预计2024年发售", "2023年底", "TBD", "2024年13月")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "PHRASE")
	assert.Regexp(t, `预计2024年发售\s+2024\s+year\s+2024-09-15\s+true`, lines[1])
	assert.Regexp(t, `2023年底\s+2023-12\s+year_month\s+2024-02-29\s+true`, lines[2])
	assert.Regexp(t, `TBD\s+-\s+unresolved\s+-\s+false`, lines[3])
	assert.Contains(t, lines[4], "error")
}

func TestNormalize_Explain(t *testing.T) {
	a, _ := testApp(t)
	out, err := run(t, a, "--now", "2024-01-10", "normalize", "--explain", "2024年底")
	require.NoError(t, err)
	for _, stage := range []string{"sanitize", "fold", "fuzzy", "iso"} {
		assert.Contains(t, out, stage)
	}
	assert.Contains(t, out, `"2024-12"`)
}

func TestNormalize_BadNow(t *testing.T) {
	a, _ := testApp(t)
	_, err := run(t, a, "--now", "someday", "normalize", "2024年")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"name":"星之终途","publishTime":"预计2024年发售","briefIntroduction":"intro","url":"entries/index/1234"}]`)
	}))
	defer upstream.Close()
	t.Setenv("CNGAL_SOURCE_URL", upstream.URL)
	t.Setenv("CNGAL_PGSQL_DBURL", "")

	a, fs := testApp(t)
	out, err := run(t, a, "--now", "2024-01-10", "--out", "cal", "export")
	require.NoError(t, err)
	assert.Contains(t, out, "fetched 1, events 1 (1 estimated)")
	assert.Contains(t, out, "-> cal")

	for _, name := range []string{"cngal-release.txt", "cngal-release.json", "cngal-calendar.ics", "cngal-release.atom"} {
		ok, err := afero.Exists(fs, "cal/"+name)
		require.NoError(t, err)
		assert.True(t, ok, name)
	}
	ics, err := afero.ReadFile(fs, "cal/cngal-calendar.ics")
	require.NoError(t, err)
	assert.Contains(t, string(ics), "20240915")
}

func TestExport_FetchFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	defer upstream.Close()
	t.Setenv("CNGAL_SOURCE_URL", upstream.URL)
	t.Setenv("CNGAL_PGSQL_DBURL", "")

	a, fs := testApp(t)
	_, err := run(t, a, "--now", "2024-01-10", "--out", "cal", "export")
	require.Error(t, err)
	ok, _ := afero.DirExists(fs, "cal")
	assert.False(t, ok, "no export is written when the fetch fails")
}
