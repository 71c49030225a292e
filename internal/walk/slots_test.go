package walk

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Ayash13/Antivity/internal/geo"
	"github.com/Ayash13/Antivity/internal/vision"
)

// fakeValidator scripts verdicts per target and counts calls.
type fakeValidator struct {
	mu      sync.Mutex
	calls   int
	valid   map[string]bool
	err     error
	release chan struct{} // when set, Validate blocks until closed
}

func (f *fakeValidator) Validate(ctx context.Context, image []byte, contentType, target string) (*vision.Result, error) {
	f.mu.Lock()
	f.calls++
	release := f.release
	f.mu.Unlock()

	if release != nil {
		<-release
	}
	if f.err != nil {
		return nil, f.err
	}
	return &vision.Result{Valid: f.valid[target], Target: target}, nil
}

func (f *fakeValidator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestNormalizeTargets(t *testing.T) {
	got := NormalizeTargets([]string{"Cat", "Dog", "Cat", "Tree", "Dog", "Bench", "Sign", "Car"})
	require.Equal(t, []string{"Cat", "Dog", "Tree", "Bench", "Sign"}, got)

	require.Empty(t, NormalizeTargets(nil))
	require.Equal(t, []string{"Cat"}, NormalizeTargets([]string{"Cat", "Cat", "Cat"}))
}

func TestCapture_StoresImageAndGeotag(t *testing.T) {
	loc := LocatorFunc(func(ctx context.Context) *geo.Coord {
		return &geo.Coord{Lat: 1.5, Lng: 2.5}
	})
	m := NewManager([]string{"Cat"}, &fakeValidator{}, loc)

	require.NoError(t, m.Capture(context.Background(), 0, []byte("img"), "image/png"))
	require.Equal(t, StateCaptured, m.State(0))

	s := m.Slots()[0]
	require.Equal(t, []byte("img"), s.Image)
	require.NotNil(t, s.Geotag)
	require.Equal(t, 1.5, s.Geotag.Lat)
	require.False(t, s.Validated)
}

func TestCapture_LocatorFailureDoesNotBlockCapture(t *testing.T) {
	loc := LocatorFunc(func(ctx context.Context) *geo.Coord { return nil })
	m := NewManager([]string{"Cat"}, &fakeValidator{}, loc)

	require.NoError(t, m.Capture(context.Background(), 0, []byte("img"), "image/png"))
	require.Equal(t, StateCaptured, m.State(0))
	require.Nil(t, m.Slots()[0].Geotag)
}

func TestCapture_ResetsValidation(t *testing.T) {
	fv := &fakeValidator{valid: map[string]bool{"Cat": true}}
	m := NewManager([]string{"Cat"}, fv, nil)

	require.NoError(t, m.Capture(context.Background(), 0, []byte("first"), "image/png"))
	require.NoError(t, m.Confirm(context.Background(), 0))
	require.Equal(t, StateValidated, m.State(0))

	// retaking the photo always drops the earlier verdict
	require.NoError(t, m.Capture(context.Background(), 0, []byte("second"), "image/png"))
	require.Equal(t, StateCaptured, m.State(0))
	require.False(t, m.Slots()[0].Validated)
}

func TestConfirm_EmptySlotFailsFastWithoutNetwork(t *testing.T) {
	fv := &fakeValidator{}
	m := NewManager([]string{"Cat"}, fv, nil)

	err := m.Confirm(context.Background(), 0)
	require.ErrorIs(t, err, ErrNoImage)
	require.Zero(t, fv.callCount())
}

func TestConfirm_MismatchKeepsImage(t *testing.T) {
	fv := &fakeValidator{valid: map[string]bool{}}
	m := NewManager([]string{"Dog"}, fv, nil)

	require.NoError(t, m.Capture(context.Background(), 0, []byte("img"), "image/png"))

	err := m.Confirm(context.Background(), 0)
	require.True(t, IsMismatch(err))
	require.Contains(t, err.Error(), "Dog")

	// the photo stays so the user can recapture or retry
	require.Equal(t, StateCaptured, m.State(0))
	require.Equal(t, []byte("img"), m.Slots()[0].Image)
}

func TestConfirm_ServiceErrorIsNotAMismatch(t *testing.T) {
	fv := &fakeValidator{err: vision.ErrServiceUnavailable}
	m := NewManager([]string{"Cat"}, fv, nil)

	require.NoError(t, m.Capture(context.Background(), 0, []byte("img"), "image/png"))

	err := m.Confirm(context.Background(), 0)
	require.ErrorIs(t, err, vision.ErrServiceUnavailable)
	require.False(t, IsMismatch(err))
	require.Equal(t, StateCaptured, m.State(0))
	require.Equal(t, []byte("img"), m.Slots()[0].Image)
}

func TestConfirm_StaleResultIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	fv := &fakeValidator{valid: map[string]bool{"Cat": true}, release: release}
	m := NewManager([]string{"Cat"}, fv, nil)

	require.NoError(t, m.Capture(context.Background(), 0, []byte("old"), "image/png"))

	done := make(chan error, 1)
	go func() { done <- m.Confirm(context.Background(), 0) }()

	// wait for the in-flight validation, then recapture under it
	require.Eventually(t, func() bool { return m.State(0) == StateValidating }, time.Second, time.Millisecond)
	fv.mu.Lock()
	fv.release = nil
	fv.mu.Unlock()
	require.NoError(t, m.Capture(context.Background(), 0, []byte("new"), "image/png"))
	close(release)

	require.ErrorIs(t, <-done, ErrSuperseded)
	// the match verdict belonged to the old photo and must not stick
	require.Equal(t, StateCaptured, m.State(0))
	require.Equal(t, []byte("new"), m.Slots()[0].Image)
}

func TestClear_ResetsSlotKeepingTarget(t *testing.T) {
	fv := &fakeValidator{valid: map[string]bool{"Cat": true}}
	m := NewManager([]string{"Cat"}, fv, nil)

	require.NoError(t, m.Capture(context.Background(), 0, []byte("img"), "image/png"))
	require.NoError(t, m.Confirm(context.Background(), 0))
	require.NoError(t, m.Clear(0))

	require.Equal(t, StateEmpty, m.State(0))
	s := m.Slots()[0]
	require.Equal(t, "Cat", s.Target)
	require.Nil(t, s.Image)
	require.Nil(t, s.Geotag)
	require.False(t, s.Validated)
}

func TestSelect_HasNoSlotSideEffects(t *testing.T) {
	m := NewManager([]string{"Cat", "Dog"}, &fakeValidator{}, nil)

	require.Equal(t, -1, m.Active())
	require.NoError(t, m.Select(1))
	require.Equal(t, 1, m.Active())
	require.Equal(t, StateEmpty, m.State(1))

	require.ErrorIs(t, m.Select(SlotCount), ErrSlotOutOfRange)
}

func TestIndexBounds(t *testing.T) {
	m := NewManager([]string{"Cat"}, &fakeValidator{}, nil)

	require.ErrorIs(t, m.Capture(context.Background(), -1, []byte("x"), "image/png"), ErrSlotOutOfRange)
	require.ErrorIs(t, m.Capture(context.Background(), 5, []byte("x"), "image/png"), ErrSlotOutOfRange)
	require.ErrorIs(t, m.Confirm(context.Background(), 5), ErrSlotOutOfRange)
	require.ErrorIs(t, m.Clear(-1), ErrSlotOutOfRange)
}

func TestGeotags_FilledSlotsInIndexOrder(t *testing.T) {
	coords := []*geo.Coord{{Lat: 1}, nil, {Lat: 3}}
	i := 0
	loc := LocatorFunc(func(ctx context.Context) *geo.Coord {
		c := coords[i]
		i++
		return c
	})
	m := NewManager([]string{"A", "B", "C", "D", "E"}, &fakeValidator{}, loc)

	require.NoError(t, m.Capture(context.Background(), 0, []byte("a"), "image/png"))
	require.NoError(t, m.Capture(context.Background(), 2, []byte("c"), "image/png"))
	require.NoError(t, m.Capture(context.Background(), 4, []byte("e"), "image/png"))

	got := m.Geotags()
	require.Len(t, got, 3)
	require.Equal(t, 1.0, got[0].Lat)
	require.Nil(t, got[1])
	require.Equal(t, 3.0, got[2].Lat)

	require.Equal(t, 3, m.FilledCount())
}

func TestConfirm_UnlabeledSlotFallsBackToGenericTarget(t *testing.T) {
	var asked string
	fv := &scriptedValidator{fn: func(target string) (*vision.Result, error) {
		asked = target
		return &vision.Result{Valid: true, Target: target}, nil
	}}
	m := NewManager([]string{"Cat"}, fv, nil)

	require.NoError(t, m.Capture(context.Background(), 3, []byte("img"), "image/png"))
	require.NoError(t, m.Confirm(context.Background(), 3))
	require.Equal(t, "object", asked)
}

type scriptedValidator struct {
	fn func(target string) (*vision.Result, error)
}

func (s *scriptedValidator) Validate(ctx context.Context, image []byte, contentType, target string) (*vision.Result, error) {
	return s.fn(target)
}
