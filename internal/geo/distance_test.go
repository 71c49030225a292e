package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTotalDistance_FewerThanTwoFixes(t *testing.T) {
	require.Zero(t, TotalDistance(nil))
	require.Zero(t, TotalDistance([]*Coord{}))
	require.Zero(t, TotalDistance([]*Coord{{Lat: 1, Lng: 2}}))
	require.Zero(t, TotalDistance([]*Coord{nil, nil, nil}))
	// one real fix surrounded by gaps still pairs with nothing
	require.Zero(t, TotalDistance([]*Coord{nil, {Lat: 1, Lng: 2}, nil}))
}

func TestTotalDistance_OneDegreeAtEquator(t *testing.T) {
	got := TotalDistance([]*Coord{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}})
	require.InDelta(t, 111.19, got, 0.05)
}

func TestTotalDistance_DuplicateLastCoordAddsNothing(t *testing.T) {
	path := []*Coord{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 1}}
	base := TotalDistance(path)

	withDup := append(append([]*Coord{}, path...), &Coord{Lat: 1, Lng: 1})
	require.InDelta(t, base, TotalDistance(withDup), 1e-9)
}

func TestTotalDistance_SkipsPairsWithNilEndpoint(t *testing.T) {
	// nil in the middle removes both adjacent legs
	path := []*Coord{{Lat: 0, Lng: 0}, nil, {Lat: 0, Lng: 1}}
	require.Zero(t, TotalDistance(path))

	// legs around the gap still count between usable neighbours
	path = []*Coord{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, nil, {Lat: 1, Lng: 1}}
	require.InDelta(t, Distance(Coord{0, 0}, Coord{0, 1}), TotalDistance(path), 1e-9)
}

func TestTotalDistance_OrderDependent(t *testing.T) {
	a := &Coord{Lat: 0, Lng: 0}
	b := &Coord{Lat: 0, Lng: 1}
	c := &Coord{Lat: 0, Lng: 2}

	direct := TotalDistance([]*Coord{a, c})
	zigzag := TotalDistance([]*Coord{a, c, b})
	require.Greater(t, zigzag, direct)
}

func TestFormatDistance(t *testing.T) {
	require.Equal(t, "500m", FormatDistance(0.5))
	require.Equal(t, "0m", FormatDistance(0))
	require.Equal(t, "1.0km", FormatDistance(1))
	require.Equal(t, "2.5km", FormatDistance(2.46))
}
