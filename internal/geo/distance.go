// Package geo holds the pure geometry used by walk sessions: best-effort
// device coordinates and great-circle distance over an ordered path.
package geo

import (
	"fmt"
	"math"
)

// earthRadiusKm is the mean Earth radius used by the Haversine formula.
const earthRadiusKm = 6371

// Coord is a device location fix. A nil *Coord means the fix was
// unavailable at capture time (geolocation denied or failed).
type Coord struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance returns the great-circle distance between two coordinates in
// kilometers.
func Distance(a, b Coord) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// TotalDistance sums the distance over consecutive pairs of the ordered
// path. A pair contributes nothing when either endpoint is nil. Fewer than
// two usable fixes yield 0.
func TotalDistance(coords []*Coord) float64 {
	var total float64
	for i := 1; i < len(coords); i++ {
		prev, curr := coords[i-1], coords[i]
		if prev == nil || curr == nil {
			continue
		}
		total += Distance(*prev, *curr)
	}
	return total
}

// FormatDistance renders a distance the way the result card shows it:
// meters below one kilometer, otherwise kilometers with one decimal.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%dm", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1fkm", km)
}
