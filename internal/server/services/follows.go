package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ayash13/Antivity/internal/server/repositories/repomanager"
)

type FollowService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewFollowService(db *sql.DB, m repomanager.RepositoryManager) *FollowService {
	return &FollowService{db: db, repomanager: m}
}

func (s *FollowService) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return fmt.Errorf("cannot follow yourself")
	}
	// following a user that does not exist should surface as not found
	if _, err := s.repomanager.Users(s.db).GetByID(ctx, followeeID); err != nil {
		return err
	}
	return s.repomanager.Follows(s.db).Follow(ctx, followerID, followeeID)
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	return s.repomanager.Follows(s.db).Unfollow(ctx, followerID, followeeID)
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.repomanager.Follows(s.db).IsFollowing(ctx, followerID, followeeID)
}

func (s *FollowService) Following(ctx context.Context, followerID string) ([]string, error) {
	return s.repomanager.Follows(s.db).ListFollowing(ctx, followerID)
}
