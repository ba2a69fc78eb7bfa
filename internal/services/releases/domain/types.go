// Package domain holds the release pipeline types shared by service, repo and transport
package domain

import (
	"time"

	"cngalcal/internal/core/partial"
)

// Input is one listing entry as fetched, before any interpretation
type Input struct {
	URL         string
	Title       string
	Raw         string
	Description string
}

// Release is a validated record with its normalized partial date. Index must fit
// the integer release_index column
type Release struct {
	Index       int    `validate:"gt=0,lte=2147483647"`
	Title       string `validate:"required"`
	Raw         string
	Partial     partial.Date
	Description string
	URL         string
}

// Event is a resolved calendar entry, created once per release with a usable date
type Event struct {
	Index       int
	Title       string
	Raw         string
	Partial     partial.Date
	Description string
	URL         string
	Date        time.Time
	AllDay      bool
	Estimated   bool
	Rollovers   int
}

// Stage names the pipeline step that dropped a record
type Stage string

// Stages in pipeline order
const (
	StageDenylist  Stage = "denylist"
	StageDuplicate Stage = "duplicate"
	StageValidate  Stage = "validate"
	StageNormalize Stage = "normalize"
	StageResolve   Stage = "resolve"
)

// Diagnostic records why a record was dropped
type Diagnostic struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Raw   string `json:"raw_date"`
	Stage Stage  `json:"stage"`
	Err   error  `json:"-"`
}

// Message is the error text, for transports that cannot carry error values
func (d Diagnostic) Message() string {
	if d.Err == nil {
		return ""
	}
	return d.Err.Error()
}

// Batch is the result of processing one fetched listing
type Batch struct {
	RunID       string
	Now         time.Time
	Fetched     int
	Releases    []Release
	Events      []Event
	Diagnostics []Diagnostic
}

// Summary counts a batch for logs and the API
type Summary struct {
	RunID      string        `json:"run_id,omitempty"`
	Now        time.Time     `json:"now"`
	Fetched    int           `json:"fetched"`
	Releases   int           `json:"releases"`
	Events     int           `json:"events"`
	Estimated  int           `json:"estimated"`
	Unresolved int           `json:"unresolved"`
	Dropped    map[Stage]int `json:"dropped,omitempty"`
}

// Summary tallies the batch. Unresolved counts releases that produced no event and no diagnostic
func (b Batch) Summary() Summary {
	s := Summary{
		RunID:    b.RunID,
		Now:      b.Now,
		Fetched:  b.Fetched,
		Releases: len(b.Releases),
		Events:   len(b.Events),
	}
	for _, e := range b.Events {
		if e.Estimated {
			s.Estimated++
		}
	}
	for _, d := range b.Diagnostics {
		if s.Dropped == nil {
			s.Dropped = map[Stage]int{}
		}
		s.Dropped[d.Stage]++
	}
	s.Unresolved = s.Releases - s.Events - s.Dropped[StageResolve]
	return s
}

// Preview is the interpretation of a single phrase
type Preview struct {
	Raw       string     `json:"raw"`
	Partial   string     `json:"partial"`
	Shape     string     `json:"shape"`
	Resolved  *time.Time `json:"resolved,omitempty"`
	Estimated bool       `json:"estimated"`
	Rollovers int        `json:"rollovers"`
	Note      string     `json:"description_note,omitempty"`
}

// Slip is a release whose raw phrase changed since the last stored snapshot
type Slip struct {
	Index  int
	Title  string
	Before string
	After  string
}
