package missions

import (
	"context"

	"github.com/Ayash13/Antivity/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.Mission, error)
	Get(ctx context.Context, id string) (*models.Mission, error)
	StatusesFor(ctx context.Context, userID string) (map[string]models.MissionStatus, error)
	SetStatus(ctx context.Context, userID, missionID string, status models.MissionStatus) error
}
