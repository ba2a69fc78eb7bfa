package export

import (
	"io"
	"strconv"
	"time"

	"github.com/gorilla/feeds"
)

const defaultSite = "https://www.cngal.org/"

// Feed builds an Atom-ready feed with one item per entry, in the order given
func Feed(snap Snapshot) *feeds.Feed {
	site := snap.Site
	if site == "" {
		site = defaultSite
	}
	f := &feeds.Feed{
		Title:       "CnGal 即将发售",
		Link:        &feeds.Link{Href: site},
		Description: "Upcoming CnGal releases with resolved dates",
		Author:      &feeds.Author{Name: "cngalcal"},
		Id:          "tag:" + uidDomain + ",2024:upcoming",
		Created:     snap.Now,
		Updated:     snap.Now,
	}
	for _, e := range snap.Entries {
		f.Items = append(f.Items, &feeds.Item{
			Title:       e.Title + " · " + e.Date.Format(time.DateOnly),
			Link:        &feeds.Link{Href: e.URL},
			Id:          "tag:" + uidDomain + ",2024:" + strconv.Itoa(e.Index),
			Description: e.Description,
			Created:     e.Date,
			Updated:     snap.Now,
		})
	}
	return f
}

// WriteAtom writes Feed(snap) as Atom XML
func WriteAtom(w io.Writer, snap Snapshot) error {
	return Feed(snap).WriteAtom(w)
}
