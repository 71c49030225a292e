package session

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Ayash13/Antivity/internal/common"
	"github.com/Ayash13/Antivity/internal/logging"
	"github.com/Ayash13/Antivity/internal/walk"
)

// BlobStore uploads an image and returns its public URL.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Recorder persists assembled sessions.
type Recorder interface {
	Create(ctx context.Context, s *Session) error
}

// Assembler uploads the photos of a finished walk and writes the session
// record in one pass. Uploads run concurrently; a failed upload drops that
// photo from the session but never fails the walk.
type Assembler struct {
	blobs      BlobStore
	store      Recorder
	logger     logging.Logger
	allowEmpty bool
	now        func() time.Time
}

// NewAssembler builds an Assembler. When allowEmpty is set, a walk with no
// filled slots still produces a session with an empty item list.
func NewAssembler(blobs BlobStore, store Recorder, logger logging.Logger, allowEmpty bool) *Assembler {
	return &Assembler{
		blobs:      blobs,
		store:      store,
		logger:     logger,
		allowEmpty: allowEmpty,
		now:        time.Now,
	}
}

// Assemble uploads every filled slot's photo and writes a single session
// record for uid. Slots keep their original indices; unfilled slots and
// slots whose upload failed are simply absent from the item list. When
// every upload of a non-empty walk fails, nothing is written and
// common.ErrNoUploadedItems is returned.
func (a *Assembler) Assemble(ctx context.Context, uid string, startedAt time.Time, targets []string, slots []walk.Slot) (*Session, error) {
	endedAt := a.now()

	type filled struct {
		index int
		slot  walk.Slot
	}
	var pending []filled
	for i, s := range slots {
		if len(s.Image) > 0 {
			pending = append(pending, filled{index: i, slot: s})
		}
	}

	if len(pending) == 0 && !a.allowEmpty {
		return nil, common.ErrNoUploadedItems
	}

	urls := make([]string, len(pending))
	failed := make([]bool, len(pending))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range pending {
		g.Go(func() error {
			key := fmt.Sprintf("path/%s_%d_%d%s", uid, endedAt.UnixMilli(), p.index, extFor(p.slot.ContentType))
			url, err := a.blobs.Put(gctx, key, p.slot.Image, p.slot.ContentType)
			if err != nil {
				// partial success policy: record the failure, keep going
				a.logger.Warn(gctx, "photo upload failed, dropping item",
					"uid", uid, "slot", p.index, "error", err)
				failed[i] = true
				return nil
			}
			urls[i] = url
			return nil
		})
	}
	_ = g.Wait()

	items := make([]Item, 0, len(pending))
	for i, p := range pending {
		if failed[i] {
			continue
		}
		it := Item{
			Index:    p.index,
			Target:   p.slot.Target,
			ImageURL: urls[i],
		}
		if p.slot.Geotag != nil {
			it.Lat = p.slot.Geotag.Lat
			it.Lng = p.slot.Geotag.Lng
			it.HasGeo = true
		}
		items = append(items, it)
	}

	if len(items) == 0 && len(pending) > 0 {
		return nil, common.ErrNoUploadedItems
	}

	s := &Session{
		UID:          uid,
		DocID:        DocIDFor(endedAt),
		CreatedAt:    endedAt,
		ISOTime:      endedAt.UTC().Format(time.RFC3339),
		LocalTime:    endedAt.Format("1/2/2006, 3:04:05 PM"),
		StartedAtISO: startedAt.UTC().Format(time.RFC3339),
		EndedAtISO:   endedAt.UTC().Format(time.RFC3339),
		Targets:      targets,
		Items:        items,
	}

	if err := a.store.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	a.logger.Info(ctx, "walk session saved",
		"uid", uid, "docId", s.DocID, "items", len(items), "captured", len(pending))
	return s, nil
}

func extFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
