package export

import (
	"encoding/csv"
	"io"

	"github.com/gocarina/gocsv"
)

// csvRow is the compact listing; ';' keeps titles with commas intact
type csvRow struct {
	Index   int    `csv:"index"`
	Title   string `csv:"title"`
	Raw     string `csv:"raw_date"`
	Partial string `csv:"partial_date"`
}

// Separator is the CSV field delimiter
const Separator = ';'

// WriteCSV writes index;title;raw_date;partial_date with a header row
func WriteCSV(w io.Writer, entries []Entry) error {
	rows := make([]csvRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, csvRow{Index: e.Index, Title: e.Title, Raw: e.Raw, Partial: e.Partial})
	}
	cw := csv.NewWriter(w)
	cw.Comma = Separator
	return gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(cw))
}
