package sessions

import (
	"context"
	"time"

	"github.com/Ayash13/Antivity/internal/server/models"
	"github.com/Ayash13/Antivity/internal/session"
)

type Repository interface {
	Create(ctx context.Context, s *session.Session) error
	GetByDocID(ctx context.Context, uid, docID string) (*session.Session, error)
	Latest(ctx context.Context, uid string) (*session.Session, error)
	ListBetween(ctx context.Context, uid string, from, to time.Time) ([]*session.Session, error)
	MarkItemsPosted(ctx context.Context, uid, docID string) error
	SetSelfieURL(ctx context.Context, uid, docID, url string) error
	SetResultURL(ctx context.Context, uid, docID, url string) error
	CreateJournalEntry(ctx context.Context, e *models.JournalEntry) error
	ListJournalBetween(ctx context.Context, uid string, from, to time.Time) ([]*models.JournalEntry, error)
}
