// Package export renders resolved releases as CSV, JSON, iCalendar and Atom and
// writes them atomically onto an afero filesystem
package export

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	perr "cngalcal/internal/platform/errors"
	"cngalcal/internal/platform/logger"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Entry is one resolved release as the exports see it
type Entry struct {
	Index       int
	Title       string
	Raw         string
	Partial     string
	URL         string
	Description string
	Date        time.Time
	Estimated   bool
}

// Snapshot is everything a render needs. Now stamps DTSTAMP and feed updates
type Snapshot struct {
	Now     time.Time
	Site    string
	Entries []Entry
}

// Format names one output file kind
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatICS  Format = "ics"
	FormatAtom Format = "atom"
)

// AllFormats is the default export set
var AllFormats = []Format{FormatCSV, FormatJSON, FormatICS, FormatAtom}

// Filename returns the file an export of f is written to
func (f Format) Filename() string {
	switch f {
	case FormatCSV:
		return "cngal-release.txt"
	case FormatJSON:
		return "cngal-release.json"
	case FormatICS:
		return "cngal-calendar.ics"
	case FormatAtom:
		return "cngal-release.atom"
	}
	return ""
}

// ContentType returns the media type served for f
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatICS:
		return "text/calendar; charset=utf-8"
	case FormatAtom:
		return "application/atom+xml; charset=utf-8"
	}
	return "application/octet-stream"
}

// ParseFormat reads a format name, case-insensitively
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f.Filename() == "" {
		return "", perr.InvalidArgf("unknown export format %q", s)
	}
	return f, nil
}

// Encode renders snap as f into w
func Encode(w io.Writer, f Format, snap Snapshot) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, snap.Entries)
	case FormatJSON:
		return WriteJSON(w, snap.Entries)
	case FormatICS:
		return WriteICS(w, snap)
	case FormatAtom:
		return WriteAtom(w, snap)
	}
	return perr.InvalidArgf("unknown export format %q", string(f))
}

// Exporter writes a snapshot into dir, one file per format
type Exporter struct {
	fs      afero.Fs
	dir     string
	formats []Format
	log     logger.Logger
}

// New returns an Exporter; no formats means AllFormats
func New(fs afero.Fs, dir string, formats ...Format) *Exporter {
	if len(formats) == 0 {
		formats = AllFormats
	}
	if dir == "" {
		dir = "output"
	}
	return &Exporter{fs: fs, dir: dir, formats: formats, log: *logger.Named("export")}
}

// Dir returns the output directory
func (e *Exporter) Dir() string { return e.dir }

// Export renders every format concurrently. Each file is written under a temporary
// name and renamed into place so readers never see a partial file
func (e *Exporter) Export(ctx context.Context, snap Snapshot) ([]string, error) {
	if err := e.fs.MkdirAll(e.dir, 0o755); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "export: mkdir %s", e.dir)
	}

	paths := make([]string, len(e.formats))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range e.formats {
		g.Go(func() error {
			p, err := e.write(gctx, f, snap)
			paths[i] = p
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.log.Info().Int("entries", len(snap.Entries)).Strs("files", paths).Msg("export written")
	return paths, nil
}

func (e *Exporter) write(ctx context.Context, f Format, snap Snapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, f, snap); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "export: render %s", f)
	}

	path := filepath.Join(e.dir, f.Filename())
	tmp := path + ".tmp"
	if err := afero.WriteFile(e.fs, tmp, buf.Bytes(), 0o644); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "export: write %s", tmp)
	}
	if err := e.fs.Rename(tmp, path); err != nil {
		_ = e.fs.Remove(tmp)
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "export: rename %s", path)
	}
	return path, nil
}
