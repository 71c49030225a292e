// Package walk tracks the capture/validation state of one walk attempt:
// five fixed target slots, each holding a captured photo, a best-effort
// geotag and a validation flag.
//
// Per-slot lifecycle:
//
//	Empty → Captured (unvalidated) → Validating → Validated
//	                    ↑__________________|   (no-match / service error)
//
// Empty and Validated are the only rest states. A new capture into a slot
// supersedes any in-flight validation for it (last write wins).
package walk

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Ayash13/Antivity/internal/geo"
	"github.com/Ayash13/Antivity/internal/vision"
)

// SlotCount is the fixed number of targets per walk attempt.
const SlotCount = 5

var (
	ErrSlotOutOfRange = errors.New("slot index out of range")
	ErrNoImage        = errors.New("no photo captured for this slot")

	// ErrSuperseded reports that a validation result arrived after the slot
	// was recaptured or cleared; the result was discarded.
	ErrSuperseded = errors.New("validation superseded by a newer capture")
)

// MismatchError is the validator's definitive "target not present" verdict.
// It is a content judgment, distinct from every infrastructure fault.
type MismatchError struct {
	Target string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("that doesn't look like %s, please try again", e.Target)
}

// IsMismatch reports whether err is a content-mismatch verdict.
func IsMismatch(err error) bool {
	var m *MismatchError
	return errors.As(err, &m)
}

// SlotState is the observable state of one capture slot.
type SlotState int

const (
	StateEmpty SlotState = iota
	StateCaptured
	StateValidating
	StateValidated
)

func (s SlotState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateCaptured:
		return "captured"
	case StateValidating:
		return "validating"
	case StateValidated:
		return "validated"
	default:
		return "unknown"
	}
}

// Slot is one target position of the walk attempt.
type Slot struct {
	Target      string
	Image       []byte
	ContentType string
	Geotag      *geo.Coord
	Validated   bool
}

// Locator is the best-effort geolocation capability. It returns nil when no
// fix is available; it never blocks capture with an error.
type Locator interface {
	Current(ctx context.Context) *geo.Coord
}

// LocatorFunc adapts a function to the Locator interface.
type LocatorFunc func(ctx context.Context) *geo.Coord

func (f LocatorFunc) Current(ctx context.Context) *geo.Coord { return f(ctx) }

// Manager holds the per-slot state for the current walk attempt.
// All methods are safe for concurrent use; per-slot transitions are
// serialized, slots are independent of each other.
type Manager struct {
	mu         sync.Mutex
	slots      [SlotCount]Slot
	gen        [SlotCount]uint64
	validating [SlotCount]bool
	active     int

	validator vision.Validator
	locator   Locator
}

// NormalizeTargets deduplicates the labels preserving first-seen order and
// truncates the list to SlotCount. The result is fixed for the lifetime of
// one walk attempt.
func NormalizeTargets(targets []string) []string {
	seen := make(map[string]struct{}, len(targets))
	unique := make([]string, 0, SlotCount)
	for _, t := range targets {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		unique = append(unique, t)
		if len(unique) == SlotCount {
			break
		}
	}
	return unique
}

// NewManager builds a Manager for the given target list. Slots beyond the
// normalized list keep an empty target label. locator may be nil.
func NewManager(targets []string, validator vision.Validator, locator Locator) *Manager {
	m := &Manager{validator: validator, locator: locator, active: -1}
	for i, t := range NormalizeTargets(targets) {
		m.slots[i].Target = t
	}
	return m
}

// Select marks a slot as the active capture target. It has no effect on
// slot contents.
func (m *Manager) Select(index int) error {
	if index < 0 || index >= SlotCount {
		return ErrSlotOutOfRange
	}
	m.mu.Lock()
	m.active = index
	m.mu.Unlock()
	return nil
}

// Active returns the currently selected slot index, or -1.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Capture stores a new photo into the slot and resets its validation flag,
// even if the slot was validated before. The geotag is taken best-effort:
// a failed or denied fix stores nil and capture proceeds.
func (m *Manager) Capture(ctx context.Context, index int, image []byte, contentType string) error {
	if index < 0 || index >= SlotCount {
		return ErrSlotOutOfRange
	}
	if len(image) == 0 {
		return ErrNoImage
	}

	var coord *geo.Coord
	if m.locator != nil {
		coord = m.locator.Current(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s := &m.slots[index]
	s.Image = image
	s.ContentType = contentType
	s.Geotag = coord
	s.Validated = false

	m.gen[index]++
	m.validating[index] = false
	return nil
}

// Confirm asks the validator whether the slot's current photo contains its
// target. On a match the slot becomes Validated. On a no-match verdict it
// returns a MismatchError and keeps the photo in place for a retry. On a
// service or transport fault the error kind is preserved and the slot is
// untouched. An empty slot fails fast without touching the network.
func (m *Manager) Confirm(ctx context.Context, index int) error {
	if index < 0 || index >= SlotCount {
		return ErrSlotOutOfRange
	}

	m.mu.Lock()
	s := m.slots[index]
	gen := m.gen[index]
	if len(s.Image) == 0 {
		m.mu.Unlock()
		return ErrNoImage
	}
	m.validating[index] = true
	m.mu.Unlock()

	target := s.Target
	if target == "" {
		target = "object"
	}

	res, err := m.validator.Validate(ctx, s.Image, s.ContentType, target)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen[index] != gen {
		// The slot was recaptured or cleared while we were waiting.
		return ErrSuperseded
	}
	m.validating[index] = false

	if err != nil {
		return err
	}
	if !res.Valid {
		return &MismatchError{Target: target}
	}

	m.slots[index].Validated = true
	return nil
}

// Clear resets a slot to empty: image, geotag and validation flag are all
// dropped.
func (m *Manager) Clear(index int) error {
	if index < 0 || index >= SlotCount {
		return ErrSlotOutOfRange
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	target := m.slots[index].Target
	m.slots[index] = Slot{Target: target}
	m.gen[index]++
	m.validating[index] = false
	return nil
}

// State returns the observable state of one slot.
func (m *Manager) State(index int) SlotState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= SlotCount {
		return StateEmpty
	}
	switch {
	case m.validating[index]:
		return StateValidating
	case m.slots[index].Validated:
		return StateValidated
	case len(m.slots[index].Image) > 0:
		return StateCaptured
	default:
		return StateEmpty
	}
}

// Slots returns a copy of all slots in index order.
func (m *Manager) Slots() []Slot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Slot, SlotCount)
	copy(out, m.slots[:])
	return out
}

// Targets returns the target labels in slot order, skipping empty labels.
func (m *Manager) Targets() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, SlotCount)
	for _, s := range m.slots {
		if s.Target != "" {
			out = append(out, s.Target)
		}
	}
	return out
}

// FilledCount returns the number of slots holding a photo.
func (m *Manager) FilledCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, s := range m.slots {
		if len(s.Image) > 0 {
			n++
		}
	}
	return n
}

// Geotags returns the geotags of filled slots in index order, for the
// distance estimate of the walk. Unfilled slots contribute nothing;
// a filled slot without a fix contributes a nil entry.
func (m *Manager) Geotags() []*geo.Coord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*geo.Coord, 0, SlotCount)
	for _, s := range m.slots {
		if len(s.Image) > 0 {
			out = append(out, s.Geotag)
		}
	}
	return out
}
