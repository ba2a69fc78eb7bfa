package cngal

import (
	"regexp"
	"strconv"
)

// Game is one entry of /api/home/ListUpcomingGames with the fields we use
type Game struct {
	Name              string `json:"name"`
	PublishTime       string `json:"publishTime"`
	BriefIntroduction string `json:"briefIntroduction"`
	URL               string `json:"url"`
	MainImage         string `json:"mainImage,omitempty"`

	// Link is URL joined onto the site base; filled by the client
	Link string `json:"-"`
}

var indexRe = regexp.MustCompile(`index/(\d+)`)

// IndexFromURL returns the numeric entry id in an "index/<n>" path, 0 when absent
func IndexFromURL(u string) int {
	m := indexRe.FindStringSubmatch(u)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
