// Package session turns a finished walk attempt into a durable walk
// session: it uploads the captured photos and writes a single session
// record referencing the uploaded copies.
package session

import (
	"time"

	"github.com/Ayash13/Antivity/internal/geo"
)

// Item is one captured slot inside a stored session.
type Item struct {
	Index    int     `json:"index"`
	Target   string  `json:"target"`
	ImageURL string  `json:"imageUrl"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	HasGeo   bool    `json:"hasGeo"`
	Posted   bool    `json:"posted"`
}

// Session is one completed walk.
//
// DocID doubles as the human-readable identifier shown in the journal;
// it is derived from the local wall-clock time at save.
type Session struct {
	UID            string    `json:"uid"`
	DocID          string    `json:"docId"`
	CreatedAt      time.Time `json:"createdAt"`
	ISOTime        string    `json:"isoTime"`
	LocalTime      string    `json:"localTime"`
	StartedAtISO   string    `json:"startedAtISO"`
	EndedAtISO     string    `json:"endedAtISO"`
	Targets        []string  `json:"targets"`
	Items          []Item    `json:"items"`
	SelfieImageURL string    `json:"selfieImageUrl,omitempty"`
	ResultImageURL string    `json:"resultImageUrl,omitempty"`
}

// TotalDistance estimates the walked distance from the geotags of the
// session's items, in item order.
func (s *Session) TotalDistance() float64 {
	coords := make([]*geo.Coord, 0, len(s.Items))
	for _, it := range s.Items {
		if !it.HasGeo {
			coords = append(coords, nil)
			continue
		}
		coords = append(coords, &geo.Coord{Lat: it.Lat, Lng: it.Lng})
	}
	return geo.TotalDistance(coords)
}

// DocIDFor formats the session identifier from the local save time.
func DocIDFor(t time.Time) string {
	return t.Format("2006-01-02_15-04-05")
}
