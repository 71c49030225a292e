package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ayash13/Antivity/internal/dbx"
	"github.com/Ayash13/Antivity/internal/server/models"
	"github.com/Ayash13/Antivity/internal/server/repositories/repomanager"
)

const (
	defaultFeedLimit  = 20
	defaultLikedLimit = 100
)

type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager) *PostService {
	return &PostService{db: db, repomanager: m}
}

// Share publishes a walk photo to the feed. When the photo comes from a
// stored session, the session's items are marked posted in the same
// transaction.
func (s *PostService) Share(ctx context.Context, uid, sessionDocID, imageURL, caption, target string) (*models.Post, error) {
	if imageURL == "" {
		return nil, fmt.Errorf("image url is required")
	}

	post := &models.Post{
		UserID:       uid,
		ImageURL:     imageURL,
		Caption:      caption,
		Target:       target,
		SessionDocID: sessionDocID,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Posts(tx).Create(ctx, post); err != nil {
			return err
		}
		if sessionDocID != "" {
			return s.repomanager.Sessions(tx).MarkItemsPosted(ctx, uid, sessionDocID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return post, nil
}

func (s *PostService) Feed(ctx context.Context, viewerID string, limit int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	return s.repomanager.Posts(s.db).ListRecent(ctx, viewerID, limit)
}

func (s *PostService) Get(ctx context.Context, postID string) (*models.Post, error) {
	return s.repomanager.Posts(s.db).Get(ctx, postID)
}

// Liked returns the posts the user has liked, newest first.
func (s *PostService) Liked(ctx context.Context, uid string, limit int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = defaultLikedLimit
	}
	return s.repomanager.Posts(s.db).ListLikedBy(ctx, uid, limit)
}

// ToggleLike likes the post, or removes the like when it is already there.
// It returns the resulting liked state. The like row and the counter bump
// commit together.
func (s *PostService) ToggleLike(ctx context.Context, postID, uid string) (bool, error) {
	var liked bool
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Posts(tx)

		added, err := repo.Like(ctx, postID, uid)
		if err != nil {
			return err
		}
		if added {
			liked = true
			return nil
		}

		_, err = repo.Unlike(ctx, postID, uid)
		return err
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

func (s *PostService) Reply(ctx context.Context, postID, uid, text string) (*models.Reply, error) {
	if text == "" {
		return nil, fmt.Errorf("reply text is required")
	}
	reply := &models.Reply{PostID: postID, UserID: uid, Text: text}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.repomanager.Posts(tx).AddReply(ctx, reply)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *PostService) Replies(ctx context.Context, postID string) ([]*models.Reply, error) {
	return s.repomanager.Posts(s.db).ListReplies(ctx, postID)
}
