package export

import (
	"io"
	"strconv"
	"strings"

	ics "github.com/arran4/golang-ical"
)

const (
	// ProductID identifies the calendar producer
	ProductID = "-//cngalcal//CnGalCalendar//ZH"
	// CalendarName is shown by clients that honour X-WR-CALNAME
	CalendarName = "CnGal"
	category     = "cngal"
	uidDomain    = "cngal.org"
)

// UID returns the stable event id for a release index
func UID(index int) string { return strconv.Itoa(index) + "@" + uidDomain }

// Calendar builds one all-day VEVENT per entry
func Calendar(snap Snapshot) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)
	cal.SetXWRCalName(CalendarName)

	for _, e := range snap.Entries {
		ev := cal.AddEvent(UID(e.Index))
		ev.SetDtStampTime(snap.Now)
		ev.SetModifiedAt(snap.Now)
		ev.SetAllDayStartAt(e.Date)
		ev.SetSummary(e.Title)
		ev.SetDescription(eventDescription(e))
		if e.URL != "" {
			ev.SetURL(e.URL)
		}
		ev.AddProperty(ics.ComponentPropertyCategories, category)
	}
	return cal
}

// WriteICS serializes Calendar(snap)
func WriteICS(w io.Writer, snap Snapshot) error {
	_, err := io.WriteString(w, Calendar(snap).Serialize())
	return err
}

// eventDescription is the link, then the blurb with any estimation note
func eventDescription(e Entry) string {
	var parts []string
	if e.URL != "" {
		parts = append(parts, e.URL)
	}
	if e.Description != "" {
		parts = append(parts, e.Description)
	}
	return strings.Join(parts, "\n")
}
