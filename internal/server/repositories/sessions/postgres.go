package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Ayash13/Antivity/internal/common"
	"github.com/Ayash13/Antivity/internal/dbx"
	"github.com/Ayash13/Antivity/internal/server/models"
	"github.com/Ayash13/Antivity/internal/session"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const sessionColumns = `id, user_id, doc_id, created_at, iso_time, local_time,
	started_at_iso, ended_at_iso, targets, selfie_image_url, result_image_url`

func (r *PostgresRepository) Create(ctx context.Context, s *session.Session) error {

	targets, err := json.Marshal(s.Targets)
	if err != nil {
		return fmt.Errorf("encoding targets: %w", err)
	}

	query :=
		`INSERT INTO path_sessions
		     (user_id, doc_id, created_at, iso_time, local_time, started_at_iso, ended_at_iso, targets)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id
		 `

	var sessionID string
	err = r.db.QueryRowContext(ctx, query,
		s.UID, s.DocID, s.CreatedAt, s.ISOTime, s.LocalTime,
		s.StartedAtISO, s.EndedAtISO, targets).Scan(&sessionID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	itemQuery :=
		`INSERT INTO path_session_items (session_id, slot_index, target, image_url, lat, lng, posted)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	for _, it := range s.Items {
		var lat, lng any
		if it.HasGeo {
			lat, lng = it.Lat, it.Lng
		}
		_, err := r.db.ExecContext(ctx, itemQuery,
			sessionID, it.Index, it.Target, it.ImageURL, lat, lng, it.Posted)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}

	return nil
}

func (r *PostgresRepository) GetByDocID(ctx context.Context, uid, docID string) (*session.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM path_sessions
		 WHERE user_id = $1 AND doc_id = $2
		 `

	return r.loadOne(ctx, r.db.QueryRowContext(ctx, query, uid, docID))
}

func (r *PostgresRepository) Latest(ctx context.Context, uid string) (*session.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM path_sessions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1
		 `

	return r.loadOne(ctx, r.db.QueryRowContext(ctx, query, uid))
}

func (r *PostgresRepository) ListBetween(ctx context.Context, uid string, from, to time.Time) ([]*session.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM path_sessions
		 WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, uid, from, to)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*session.Session
	ids := []string{}
	for rows.Next() {
		s, id, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	for i, id := range ids {
		items, err := r.loadItems(ctx, id)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}

	return out, nil
}

func (r *PostgresRepository) MarkItemsPosted(ctx context.Context, uid, docID string) error {
	query :=
		`UPDATE path_session_items SET posted = true
		 WHERE session_id = (SELECT id FROM path_sessions WHERE user_id = $1 AND doc_id = $2)
		 `

	_, err := r.db.ExecContext(ctx, query, uid, docID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetSelfieURL(ctx context.Context, uid, docID, url string) error {
	return r.setURL(ctx, "selfie_image_url", uid, docID, url)
}

func (r *PostgresRepository) SetResultURL(ctx context.Context, uid, docID, url string) error {
	return r.setURL(ctx, "result_image_url", uid, docID, url)
}

func (r *PostgresRepository) setURL(ctx context.Context, column, uid, docID, url string) error {
	query := `UPDATE path_sessions SET ` + column + ` = $3
		 WHERE user_id = $1 AND doc_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, uid, docID, url)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateJournalEntry(ctx context.Context, e *models.JournalEntry) error {
	query :=
		`INSERT INTO journal_entries
		     (user_id, session_doc_id, result_image_url, story_title, story_content, total_distance, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		e.UserID, e.SessionDocID, e.ResultImageURL, e.StoryTitle,
		e.StoryContent, e.TotalDistance, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListJournalBetween(ctx context.Context, uid string, from, to time.Time) ([]*models.JournalEntry, error) {
	query :=
		`SELECT id, user_id, session_doc_id, result_image_url, story_title, story_content, total_distance, created_at
		 FROM journal_entries
		 WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, uid, from, to)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.JournalEntry
	for rows.Next() {
		e := &models.JournalEntry{}
		err := rows.Scan(&e.ID, &e.UserID, &e.SessionDocID, &e.ResultImageURL,
			&e.StoryTitle, &e.StoryContent, &e.TotalDistance, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*session.Session, string, error) {
	s := &session.Session{}
	var id string
	var targets []byte

	err := row.Scan(&id, &s.UID, &s.DocID, &s.CreatedAt, &s.ISOTime, &s.LocalTime,
		&s.StartedAtISO, &s.EndedAtISO, &targets, &s.SelfieImageURL, &s.ResultImageURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", common.ErrorNotFound
		}
		return nil, "", fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(targets, &s.Targets); err != nil {
		return nil, "", fmt.Errorf("decoding targets: %w", err)
	}

	return s, id, nil
}

func (r *PostgresRepository) loadOne(ctx context.Context, row *sql.Row) (*session.Session, error) {
	s, id, err := scanSession(row)
	if err != nil {
		return nil, err
	}

	s.Items, err = r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, sessionID string) ([]session.Item, error) {
	query :=
		`SELECT slot_index, target, image_url, lat, lng, posted FROM path_session_items
		 WHERE session_id = $1
		 ORDER BY slot_index
		 `

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := []session.Item{}
	for rows.Next() {
		var it session.Item
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&it.Index, &it.Target, &it.ImageURL, &lat, &lng, &it.Posted); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if lat.Valid && lng.Valid {
			it.Lat, it.Lng, it.HasGeo = lat.Float64, lng.Float64, true
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}
