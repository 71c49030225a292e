package posts

import (
	"context"
	"database/sql"
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

func (r *PostgresRepository) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	query :=
		`INSERT INTO posts (user_id, image_url, caption, target, session_doc_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.ImageURL, p.Caption, p.Target, p.SessionDocID).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	query :=
		`SELECT p.id, p.user_id, u.username, u.photo_url, p.image_url, p.caption, p.target,
		        p.session_doc_id, p.likes_count, p.replies_count, p.created_at
		 FROM posts p JOIN users u ON u.id = p.user_id
		 WHERE p.id = $1
		 `

	p := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.Username, &p.UserPhotoURL, &p.ImageURL, &p.Caption,
		&p.Target, &p.SessionDocID, &p.LikesCount, &p.RepliesCount, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListRecent(ctx context.Context, viewerID string, limit int) ([]*models.Post, error) {
	query :=
		`SELECT p.id, p.user_id, u.username, u.photo_url, p.image_url, p.caption, p.target,
		        p.session_doc_id, p.likes_count, p.replies_count, p.created_at,
		        EXISTS (SELECT 1 FROM post_likes l WHERE l.post_id = p.id AND l.user_id = $1)
		 FROM posts p JOIN users u ON u.id = p.user_id
		 ORDER BY p.created_at DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, viewerID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Post
	for rows.Next() {
		p := &models.Post{}
		err := rows.Scan(&p.ID, &p.UserID, &p.Username, &p.UserPhotoURL, &p.ImageURL,
			&p.Caption, &p.Target, &p.SessionDocID, &p.LikesCount, &p.RepliesCount,
			&p.CreatedAt, &p.LikedByViewer)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// ListLikedBy returns the posts the user has liked, newest post first.
func (r *PostgresRepository) ListLikedBy(ctx context.Context, userID string, limit int) ([]*models.Post, error) {
	query :=
		`SELECT p.id, p.user_id, u.username, u.photo_url, p.image_url, p.caption, p.target,
		        p.session_doc_id, p.likes_count, p.replies_count, p.created_at
		 FROM post_likes l
		 JOIN posts p ON p.id = l.post_id
		 JOIN users u ON u.id = p.user_id
		 WHERE l.user_id = $1
		 ORDER BY p.created_at DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Post
	for rows.Next() {
		p := &models.Post{LikedByViewer: true}
		err := rows.Scan(&p.ID, &p.UserID, &p.Username, &p.UserPhotoURL, &p.ImageURL,
			&p.Caption, &p.Target, &p.SessionDocID, &p.LikesCount, &p.RepliesCount, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// Like records the like and bumps the counter. Liking twice is a no-op.
func (r *PostgresRepository) Like(ctx context.Context, postID, userID string) (bool, error) {
	query :=
		`INSERT INTO post_likes (post_id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE posts SET likes_count = likes_count + 1 WHERE id = $1`, postID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return true, nil
}

// Unlike removes the like and drops the counter. Unliking twice is a no-op.
func (r *PostgresRepository) Unlike(ctx context.Context, postID, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE posts SET likes_count = greatest(likes_count - 1, 0) WHERE id = $1`, postID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return true, nil
}

func (r *PostgresRepository) AddReply(ctx context.Context, reply *models.Reply) (*models.Reply, error) {
	query :=
		`INSERT INTO post_replies (post_id, user_id, text)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		reply.PostID, reply.UserID, reply.Text).Scan(&reply.ID, &reply.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE posts SET replies_count = replies_count + 1 WHERE id = $1`, reply.PostID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return reply, nil
}

func (r *PostgresRepository) ListReplies(ctx context.Context, postID string) ([]*models.Reply, error) {
	query :=
		`SELECT r.id, r.post_id, r.user_id, u.username, r.text, r.created_at
		 FROM post_replies r JOIN users u ON u.id = r.user_id
		 WHERE r.post_id = $1
		 ORDER BY r.created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Reply
	for rows.Next() {
		rep := &models.Reply{}
		if err := rows.Scan(&rep.ID, &rep.PostID, &rep.UserID, &rep.Username, &rep.Text, &rep.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
