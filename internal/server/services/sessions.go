package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Ayash13/Antivity/internal/dbx"
	"github.com/Ayash13/Antivity/internal/logging"
	"github.com/Ayash13/Antivity/internal/server/config"
	"github.com/Ayash13/Antivity/internal/server/models"
	"github.com/Ayash13/Antivity/internal/server/repositories/repomanager"
	"github.com/Ayash13/Antivity/internal/session"
	"github.com/Ayash13/Antivity/internal/walk"
)

type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       session.BlobStore
	logger      logging.Logger
	config      *config.Config
	now         func() time.Time
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, blobs session.BlobStore, logger logging.Logger, cfg *config.Config) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		logger:      logger,
		config:      cfg,
		now:         time.Now,
	}
}

// recorderFunc adapts a function to the session.Recorder interface.
type recorderFunc func(ctx context.Context, s *session.Session) error

func (f recorderFunc) Create(ctx context.Context, s *session.Session) error { return f(ctx, s) }

// Assemble uploads a finished walk's photos and writes the session record.
// The session row and its items are written in one transaction.
func (s *SessionService) Assemble(ctx context.Context, uid string, startedAt time.Time, targets []string, slots []walk.Slot) (*session.Session, error) {
	record := recorderFunc(func(ctx context.Context, sess *session.Session) error {
		return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			return s.repomanager.Sessions(tx).Create(ctx, sess)
		})
	})

	assembler := session.NewAssembler(s.blobs, record, s.logger, s.config.AllowEmptySessions)
	return assembler.Assemble(ctx, uid, startedAt, targets, slots)
}

func (s *SessionService) Latest(ctx context.Context, uid string) (*session.Session, error) {
	return s.repomanager.Sessions(s.db).Latest(ctx, uid)
}

func (s *SessionService) GetByDocID(ctx context.Context, uid, docID string) (*session.Session, error) {
	return s.repomanager.Sessions(s.db).GetByDocID(ctx, uid, docID)
}

func (s *SessionService) MarkItemsPosted(ctx context.Context, uid, docID string) error {
	return s.repomanager.Sessions(s.db).MarkItemsPosted(ctx, uid, docID)
}

// UploadSelfie stores the celebration selfie and records its URL on the
// session. This is the only mutation a stored session accepts besides the
// result card.
func (s *SessionService) UploadSelfie(ctx context.Context, uid, docID string, image []byte, contentType string) (string, error) {
	key := fmt.Sprintf("path_result/selfies/%s_selfie_%d.png", uid, s.now().UnixMilli())

	url, err := s.blobs.Put(ctx, key, image, contentType)
	if err != nil {
		return "", fmt.Errorf("uploading selfie: %w", err)
	}

	if err := s.repomanager.Sessions(s.db).SetSelfieURL(ctx, uid, docID, url); err != nil {
		return "", err
	}
	return url, nil
}

// SaveResult stores the composed result card, records it on the session and
// writes the journal entry for the walk. The walked distance is estimated
// from the session's item geotags.
func (s *SessionService) SaveResult(ctx context.Context, uid, docID string, card []byte, storyTitle, storyContent string) (*models.JournalEntry, error) {
	sess, err := s.repomanager.Sessions(s.db).GetByDocID(ctx, uid, docID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("path_result/%s_%d.png", uid, s.now().UnixMilli())
	url, err := s.blobs.Put(ctx, key, card, "image/png")
	if err != nil {
		return nil, fmt.Errorf("uploading result card: %w", err)
	}

	entry := &models.JournalEntry{
		UserID:         uid,
		SessionDocID:   docID,
		ResultImageURL: url,
		StoryTitle:     storyTitle,
		StoryContent:   storyContent,
		TotalDistance:  sess.TotalDistance(),
		CreatedAt:      s.now(),
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sessions(tx)
		if err := repo.SetResultURL(ctx, uid, docID, url); err != nil {
			return err
		}
		return repo.CreateJournalEntry(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "result card saved", "uid", uid, "docId", docID, "distanceKm", entry.TotalDistance)
	return entry, nil
}

// JournalDay is one calendar day of the weekly journal view.
type JournalDay struct {
	Date     time.Time
	Sessions []*session.Session
	Entries  []*models.JournalEntry
}

// WeekView is a Sunday-start week of walk history.
type WeekView struct {
	Start time.Time
	Days  [7]JournalDay
}

// WeekJournal buckets the user's sessions and journal entries into the
// seven days of the week containing anchor.
func (s *SessionService) WeekJournal(ctx context.Context, uid string, anchor time.Time) (*WeekView, error) {
	start := StartOfWeek(anchor)
	end := start.AddDate(0, 0, 7)

	repo := s.repomanager.Sessions(s.db)

	sessions, err := repo.ListBetween(ctx, uid, start, end)
	if err != nil {
		return nil, err
	}
	entries, err := repo.ListJournalBetween(ctx, uid, start, end)
	if err != nil {
		return nil, err
	}

	view := &WeekView{Start: start}
	days := WeekDates(start)
	for i, day := range days {
		view.Days[i].Date = day
		for _, sess := range sessions {
			if SameDay(sess.CreatedAt.In(anchor.Location()), day) {
				view.Days[i].Sessions = append(view.Days[i].Sessions, sess)
			}
		}
		for _, e := range entries {
			if SameDay(e.CreatedAt.In(anchor.Location()), day) {
				view.Days[i].Entries = append(view.Days[i].Entries, e)
			}
		}
	}

	return view, nil
}
