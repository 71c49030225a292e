package missions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Ayash13/Antivity/internal/common"
	"github.com/Ayash13/Antivity/internal/dbx"
	"github.com/Ayash13/Antivity/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Mission, error) {
	query :=
		`SELECT id, title, description, targets, reward, created_at FROM missions
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Mission, error) {
	query :=
		`SELECT id, title, description, targets, reward, created_at FROM missions
		 WHERE id = $1
		 `

	m, err := scanMission(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *PostgresRepository) StatusesFor(ctx context.Context, userID string) (map[string]models.MissionStatus, error) {
	query :=
		`SELECT mission_id, status FROM user_missions
		 WHERE user_id = $1
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := map[string]models.MissionStatus{}
	for rows.Next() {
		var id string
		var status models.MissionStatus
		if err := rows.Scan(&id, &status); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out[id] = status
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, userID, missionID string, status models.MissionStatus) error {
	query :=
		`INSERT INTO user_missions (user_id, mission_id, status, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (user_id, mission_id) DO UPDATE SET status = $3, updated_at = now()
		 `

	_, err := r.db.ExecContext(ctx, query, userID, missionID, status)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMission(row rowScanner) (*models.Mission, error) {
	m := &models.Mission{}
	var targets []byte

	err := row.Scan(&m.ID, &m.Title, &m.Description, &targets, &m.Reward, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(targets, &m.Targets); err != nil {
		return nil, fmt.Errorf("decoding targets: %w", err)
	}
	return m, nil
}
