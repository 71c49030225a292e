package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Ayash13/Antivity/internal/geo"
	"github.com/Ayash13/Antivity/internal/vision"
	"github.com/Ayash13/Antivity/internal/walk"
)

var errNoWalk = errors.New("no walk in progress, use 'start' first")

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

// Start begins a new walk attempt with the given target labels. Duplicates
// are dropped and at most five targets are kept.
func (a *App) Start(ctx context.Context, targets []string) error {
	if len(targets) == 0 {
		return errors.New("usage: start <target1> [target2 ...]")
	}

	a.mu.Lock()
	a.walk = walk.NewManager(targets, a.validator, a)
	a.startedAt = time.Now()
	m := a.walk
	a.mu.Unlock()

	fmt.Println("Walk started. Targets:")
	for i, t := range m.Targets() {
		fmt.Printf("  %d. %s\n", i+1, t)
	}
	return nil
}

// SelectSlot marks a slot (1-based) as the active capture target.
func (a *App) SelectSlot(args []string) error {
	m := a.currentWalk()
	if m == nil {
		return errNoWalk
	}
	if len(args) != 1 {
		return errors.New("usage: select <slot>")
	}
	index, err := slotIndex(args[0])
	if err != nil {
		return err
	}
	if err := m.Select(index); err != nil {
		return err
	}
	fmt.Printf("Slot %d selected\n", index+1)
	return nil
}

// SetFix stores a manual location fix used as the geotag of subsequent
// captures. "loc clear" drops the fix.
func (a *App) SetFix(args []string) error {
	if len(args) == 1 && args[0] == "clear" {
		a.mu.Lock()
		a.fix = nil
		a.mu.Unlock()
		fmt.Println("Location fix cleared")
		return nil
	}
	if len(args) != 2 {
		return errors.New("usage: loc <lat> <lng> | loc clear")
	}

	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid latitude: %s", args[0])
	}
	lng, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid longitude: %s", args[1])
	}

	a.mu.Lock()
	a.fix = &geo.Coord{Lat: lat, Lng: lng}
	a.mu.Unlock()

	fmt.Printf("Location fix set to %.5f, %.5f\n", lat, lng)
	return nil
}

// Capture stores a photo file into a slot: "capture <file>" uses the active
// slot, "capture <slot> <file>" addresses one explicitly. Recapturing a
// validated slot resets it to unvalidated.
func (a *App) Capture(ctx context.Context, args []string) error {
	m := a.currentWalk()
	if m == nil {
		return errNoWalk
	}

	var index int
	var path string
	switch len(args) {
	case 1:
		index = m.Active()
		if index < 0 {
			return errors.New("no slot selected, use 'select' or 'capture <slot> <file>'")
		}
		path = args[0]
	case 2:
		i, err := slotIndex(args[0])
		if err != nil {
			return err
		}
		index = i
		path = args[1]
	default:
		return errors.New("usage: capture [slot] <file>")
	}

	image, err := readFile(path)
	if err != nil {
		return err
	}

	if err := m.Capture(ctx, index, image, contentTypeFor(path)); err != nil {
		return err
	}

	slot := m.Slots()[index]
	if slot.Geotag != nil {
		fmt.Printf("Captured into slot %d (geotag %.5f, %.5f)\n", index+1, slot.Geotag.Lat, slot.Geotag.Lng)
	} else {
		fmt.Printf("Captured into slot %d (no geotag)\n", index+1)
	}
	return nil
}

// Confirm sends the slot's photo for validation. A definitive no-match keeps
// the photo in place so the user can recapture or retry.
func (a *App) Confirm(ctx context.Context, args []string) error {
	m := a.currentWalk()
	if m == nil {
		return errNoWalk
	}

	index := m.Active()
	if len(args) == 1 {
		i, err := slotIndex(args[0])
		if err != nil {
			return err
		}
		index = i
	}
	if index < 0 {
		return errors.New("no slot selected, use 'select' or 'confirm <slot>'")
	}

	err := m.Confirm(ctx, index)
	switch {
	case err == nil:
		fmt.Printf("Slot %d validated!\n", index+1)
	case walk.IsMismatch(err):
		fmt.Println(err.Error())
	case errors.Is(err, vision.ErrServiceUnavailable), errors.Is(err, vision.ErrBadResponse):
		fmt.Println("Validation service unavailable, photo kept. Try 'confirm' again later.")
	default:
		return err
	}
	return nil
}

// Clear resets a slot to empty.
func (a *App) Clear(args []string) error {
	m := a.currentWalk()
	if m == nil {
		return errNoWalk
	}
	if len(args) != 1 {
		return errors.New("usage: clear <slot>")
	}
	index, err := slotIndex(args[0])
	if err != nil {
		return err
	}
	if err := m.Clear(index); err != nil {
		return err
	}
	fmt.Printf("Slot %d cleared\n", index+1)
	return nil
}

// Status prints the slot board and the current distance estimate.
func (a *App) Status(ctx context.Context) error {
	m := a.currentWalk()
	if m == nil {
		return errNoWalk
	}

	for i, s := range m.Slots() {
		label := s.Target
		if label == "" {
			label = "-"
		}
		geotag := ""
		if s.Geotag != nil {
			geotag = fmt.Sprintf("  @ %.5f, %.5f", s.Geotag.Lat, s.Geotag.Lng)
		}
		fmt.Printf("  %d. %-15s [%s]%s\n", i+1, label, m.State(i), geotag)
	}

	fmt.Printf("Photos: %d/%d, distance so far: %s\n",
		m.FilledCount(), walk.SlotCount, geo.FormatDistance(geo.TotalDistance(m.Geotags())))
	return nil
}

// Finish uploads the walk to the server and ends the attempt. Photos that
// fail to upload are dropped by the server; the walk is still saved.
func (a *App) Finish(ctx context.Context) error {
	a.mu.Lock()
	m := a.walk
	startedAt := a.startedAt
	a.mu.Unlock()
	if m == nil {
		return errNoWalk
	}

	sess, err := a.api.UploadWalk(ctx, startedAt, m.Targets(), m.Slots())
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.walk = nil
	a.mu.Unlock()

	fmt.Printf("Walk saved as %s with %d photo(s), distance %s\n",
		sess.DocID, len(sess.Items), geo.FormatDistance(sess.TotalDistance()))
	return nil
}

// Latest shows the most recent saved walk.
func (a *App) Latest(ctx context.Context) error {
	sess, err := a.api.LatestSession(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Walk %s (%s), %d photo(s), distance %s\n",
		sess.DocID, sess.LocalTime, len(sess.Items), geo.FormatDistance(sess.TotalDistance()))
	for _, item := range sess.Items {
		fmt.Printf("  %d. %s  %s\n", item.Index+1, item.Target, item.ImageURL)
	}
	return nil
}

// Journal shows this week's journal, Sunday first.
func (a *App) Journal(ctx context.Context) error {
	week, err := a.api.Journal(ctx, time.Time{})
	if err != nil {
		return err
	}

	fmt.Printf("Week of %s\n", week.WeekStart)
	for _, day := range week.Days {
		if len(day.Sessions) == 0 && len(day.Entries) == 0 {
			continue
		}
		fmt.Printf("  %s: %d walk(s)\n", day.Date, len(day.Sessions))
		for _, e := range day.Entries {
			fmt.Printf("    %s (%s)\n", e.StoryTitle, geo.FormatDistance(e.TotalDistance))
		}
	}
	return nil
}

func (a *App) currentWalk() *walk.Manager {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.walk
}

// slotIndex parses a 1-based slot number from user input.
func slotIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > walk.SlotCount {
		return 0, fmt.Errorf("slot must be a number between 1 and %d", walk.SlotCount)
	}
	return n - 1, nil
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
