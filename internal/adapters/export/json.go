package export

import (
	"encoding/json"
	"io"
	"time"
)

type jsonEntry struct {
	Index        int    `json:"index"`
	Title        string `json:"title"`
	RawDate      string `json:"raw_date"`
	PartialDate  string `json:"partial_date"`
	ResolvedDate string `json:"resolved_date"`
	Estimated    bool   `json:"estimated"`
	URL          string `json:"url"`
	Description  string `json:"description"`
}

// WriteJSON writes the full listing indented by two spaces. CJK text, '&' and '<'
// stay literal
func WriteJSON(w io.Writer, entries []Entry) error {
	out := make([]jsonEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, jsonEntry{
			Index:        e.Index,
			Title:        e.Title,
			RawDate:      e.Raw,
			PartialDate:  e.Partial,
			ResolvedDate: e.Date.Format(time.DateOnly),
			Estimated:    e.Estimated,
			URL:          e.URL,
			Description:  e.Description,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
