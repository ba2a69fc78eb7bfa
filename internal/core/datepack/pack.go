// Package datepack loads and compiles the release-date rewrite rules from the embedded rules.yaml.
// It prepares the ordered phase tables, the ISO table and the index denylist for the normalizer
package datepack

import (
	"bytes"
	_ "embed"
	"regexp"
	"slices"
	"strings"

	perr "cngalcal/internal/platform/errors"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var embedded []byte

// Phase names in the order they always run
const (
	PhaseTimespan   = "timespan"
	PhaseFuzzy      = "fuzzy"
	PhaseAnnotation = "annotation"
	PhaseStopword   = "stopword"
)

// PhaseOrder is the fixed evaluation order; file order is ignored
var PhaseOrder = []string{PhaseTimespan, PhaseFuzzy, PhaseAnnotation, PhaseStopword}

type rawRule struct {
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`
}

type rawPhase struct {
	Name  string    `yaml:"name"`
	Rules []rawRule `yaml:"rules"`
}

type rawPack struct {
	Version  int        `yaml:"version"`
	Phases   []rawPhase `yaml:"phases"`
	ISO      []rawRule  `yaml:"iso"`
	Denylist []int      `yaml:"denylist"`
}

// Rule is one global regex substitution
type Rule struct {
	Pattern *regexp.Regexp
	Replace string
}

// Apply replaces every non-overlapping match in s
func (r Rule) Apply(s string) string {
	return r.Pattern.ReplaceAllString(s, r.Replace)
}

// Source returns the uncompiled pattern, for logs and tests
func (r Rule) Source() string { return r.Pattern.String() }

// Table is an ordered rule list; the output of one rule feeds the next
type Table []Rule

// Apply runs every rule of t over s in order
func (t Table) Apply(s string) string {
	for _, r := range t {
		if s == "" {
			return s
		}
		s = r.Apply(s)
	}
	return s
}

// Phase is a named slice of the rewrite table
type Phase struct {
	Name  string
	Rules Table
}

// Pack is a compiled rule pack. It is immutable after construction and safe to share
type Pack struct {
	Version  int
	Phases   []Phase
	ISO      Table
	Denylist map[int]struct{}
}

// Denied reports whether index is on the denylist
func (p *Pack) Denied(index int) bool {
	_, ok := p.Denylist[index]
	return ok
}

// WithDenylist returns a copy of p with extra indices denied; p is left untouched
func (p *Pack) WithDenylist(extra ...int) *Pack {
	if len(extra) == 0 {
		return p
	}
	cp := *p
	cp.Denylist = make(map[int]struct{}, len(p.Denylist)+len(extra))
	for k := range p.Denylist {
		cp.Denylist[k] = struct{}{}
	}
	for _, k := range extra {
		cp.Denylist[k] = struct{}{}
	}
	return &cp
}

// DenylistSorted returns the denied indices in ascending order
func (p *Pack) DenylistSorted() []int {
	out := make([]int, 0, len(p.Denylist))
	for k := range p.Denylist {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// RuleCount returns the number of phase rules, ISO rules excluded
func (p *Pack) RuleCount() int {
	n := 0
	for _, ph := range p.Phases {
		n += len(ph.Rules)
	}
	return n
}

// Load returns the compiled pack from the embedded rules.yaml
func Load() (*Pack, error) {
	return Parse(embedded)
}

// MustLoad is Load for process start; a broken embedded pack is a build defect
func MustLoad() *Pack {
	p, err := Load()
	if err != nil {
		panic(err)
	}
	return p
}

// LoadFile reads an operator override pack from fs
func LoadFile(fs afero.Fs, path string) (*Pack, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "datepack: read %s", path)
	}
	return Parse(b)
}

// Parse compiles a pack from yaml. Unknown keys, unknown phases and bad patterns are errors
func Parse(b []byte) (*Pack, error) {
	var rp rawPack
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&rp); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "datepack: parse rules")
	}
	if rp.Version != 1 {
		return nil, perr.InvalidArgf("datepack: unsupported rules version %d (want 1)", rp.Version)
	}

	byName := make(map[string]Table, len(rp.Phases))
	for _, ph := range rp.Phases {
		name := strings.ToLower(strings.TrimSpace(ph.Name))
		if !slices.Contains(PhaseOrder, name) {
			return nil, perr.InvalidArgf("datepack: unknown phase %q", ph.Name)
		}
		if _, dup := byName[name]; dup {
			return nil, perr.InvalidArgf("datepack: phase %q declared twice", name)
		}
		tbl, err := compileAll(name, ph.Rules)
		if err != nil {
			return nil, err
		}
		byName[name] = tbl
	}

	iso, err := compileAll("iso", rp.ISO)
	if err != nil {
		return nil, err
	}

	phases := make([]Phase, 0, len(PhaseOrder))
	for _, name := range PhaseOrder {
		phases = append(phases, Phase{Name: name, Rules: byName[name]})
	}

	p := New(phases, iso, rp.Denylist)
	p.Version = rp.Version
	return p, nil
}

// New assembles a pack from already compiled tables. Phases run in the order given
func New(phases []Phase, iso Table, deny []int) *Pack {
	p := &Pack{
		Version:  1,
		Phases:   slices.Clone(phases),
		ISO:      slices.Clone(iso),
		Denylist: make(map[int]struct{}, len(deny)),
	}
	for _, k := range deny {
		p.Denylist[k] = struct{}{}
	}
	return p
}

// Compile builds a Rule from a pattern and replacement
func Compile(pattern, replace string) (Rule, error) {
	if strings.TrimSpace(pattern) == "" {
		return Rule{}, perr.InvalidArgf("datepack: empty pattern")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "datepack: compile %q", pattern)
	}
	return Rule{Pattern: re, Replace: replace}, nil
}

// MustRule is Compile for literals in tests and fixtures
func MustRule(pattern, replace string) Rule {
	r, err := Compile(pattern, replace)
	if err != nil {
		panic(err)
	}
	return r
}

func compileAll(phase string, in []rawRule) (Table, error) {
	out := make(Table, 0, len(in))
	for i, rr := range in {
		r, err := Compile(rr.Pattern, rr.Replace)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "datepack: %s rule %d", phase, i)
		}
		out = append(out, r)
	}
	return out, nil
}
