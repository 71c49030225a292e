package posts

import (
	"context"

	"github.com/Ayash13/Antivity/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	ListRecent(ctx context.Context, viewerID string, limit int) ([]*models.Post, error)
	ListLikedBy(ctx context.Context, userID string, limit int) ([]*models.Post, error)
	Like(ctx context.Context, postID, userID string) (liked bool, err error)
	Unlike(ctx context.Context, postID, userID string) (unliked bool, err error)
	AddReply(ctx context.Context, reply *models.Reply) (*models.Reply, error)
	ListReplies(ctx context.Context, postID string) ([]*models.Reply, error)
}
