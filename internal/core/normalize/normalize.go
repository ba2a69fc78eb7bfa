// Package normalize turns a free-text release-date phrase into a canonical partial date
// Pipeline order
// 1 Sanitize drop invalid UTF-8 and control characters
// 2 Unicode NFKC normalization
// 3 Case folding
// 4 Remove format characters (zero-widths, BOM)
// 5 Width fold fullwidth to ASCII
// 6 Rewrite phases timespan, fuzzy, annotation, stopword
// 7 ISO table turns 年/月/日 markers into dashes
// 8 Parse into a partial.Date
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"cngalcal/internal/core/datepack"
	"cngalcal/internal/core/partial"
	perr "cngalcal/internal/platform/errors"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// ErrMalformed marks a phrase whose rewritten form is not a partial date
var ErrMalformed = partial.ErrMalformed

// Normalizer is immutable and safe for concurrent use
type Normalizer struct {
	pack *datepack.Pack
}

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

// New constructs a Normalizer over pack
func New(pack *datepack.Pack) *Normalizer { return &Normalizer{pack: pack} }

// Pack returns the rule pack in use
func (n *Normalizer) Pack() *datepack.Pack { return n.pack }

// Normalize rewrites raw into a partial date.
// An empty result is Unresolved with a nil error; a non-empty result that is not a
// partial date returns an error matching ErrMalformed
func (n *Normalizer) Normalize(raw string) (partial.Date, error) {
	s := n.rewrite(fold(raw), nil)
	if s == "" {
		return partial.Date{}, nil
	}
	d, err := partial.Parse(s)
	if err != nil {
		return partial.Date{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "normalize %q", raw)
	}
	return d, nil
}

// Canonical returns the canonical string of raw, "" when unresolved or malformed
func (n *Normalizer) Canonical(raw string) string {
	d, err := n.Normalize(raw)
	if err != nil {
		return ""
	}
	return d.String()
}

// Step is the text after one stage of the pipeline
type Step struct {
	Stage string `json:"stage"`
	Text  string `json:"text"`
}

// Trace records every stage of a single normalization
type Trace struct {
	Input   string       `json:"input"`
	Steps   []Step       `json:"steps"`
	Partial partial.Date `json:"partial"`
	Err     error        `json:"-"`
}

// Explain runs Normalize and keeps the intermediate text of each stage
func (n *Normalizer) Explain(raw string) Trace {
	tr := Trace{Input: raw}
	s := Sanitize(raw)
	tr.Steps = append(tr.Steps, Step{Stage: "sanitize", Text: s})
	s = fold(s)
	tr.Steps = append(tr.Steps, Step{Stage: "fold", Text: s})
	s = n.rewrite(s, func(stage, out string) {
		tr.Steps = append(tr.Steps, Step{Stage: stage, Text: out})
	})
	tr.Partial, tr.Err = n.Normalize(raw)
	return tr
}

// rewrite applies every phase then the ISO table; observe, if set, sees each stage output
func (n *Normalizer) rewrite(s string, observe func(stage, out string)) string {
	for _, ph := range n.pack.Phases {
		s = ph.Rules.Apply(s)
		if observe != nil {
			observe(ph.Name, s)
		}
	}
	s = strings.TrimSpace(n.pack.ISO.Apply(s))
	if observe != nil {
		observe("iso", s)
	}
	return s
}

// fold sanitizes s and runs it through the pooled x/text chain
func fold(s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)

	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		// the chain only fails on broken input that Sanitize already removed
		return s
	}
	return out
}
