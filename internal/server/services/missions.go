package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ayash13/Antivity/internal/server/models"
	"github.com/Ayash13/Antivity/internal/server/repositories/repomanager"
)

type MissionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewMissionService(db *sql.DB, m repomanager.RepositoryManager) *MissionService {
	return &MissionService{db: db, repomanager: m}
}

// MissionWithStatus pairs a catalog mission with the user's progress.
type MissionWithStatus struct {
	Mission *models.Mission
	Status  models.MissionStatus
}

// List returns the mission catalog annotated with the user's status.
// Missions the user never touched are reported as available.
func (s *MissionService) List(ctx context.Context, uid string) ([]*MissionWithStatus, error) {
	repo := s.repomanager.Missions(s.db)

	catalog, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}

	statuses, err := repo.StatusesFor(ctx, uid)
	if err != nil {
		return nil, err
	}

	out := make([]*MissionWithStatus, 0, len(catalog))
	for _, m := range catalog {
		status, ok := statuses[m.ID]
		if !ok {
			status = models.MissionAvailable
		}
		out = append(out, &MissionWithStatus{Mission: m, Status: status})
	}
	return out, nil
}

// SetStatus updates the user's progress on a mission.
func (s *MissionService) SetStatus(ctx context.Context, uid, missionID string, status models.MissionStatus) error {
	switch status {
	case models.MissionAvailable, models.MissionActive, models.MissionCompleted:
	default:
		return fmt.Errorf("unknown mission status %q", status)
	}

	repo := s.repomanager.Missions(s.db)

	if _, err := repo.Get(ctx, missionID); err != nil {
		return err
	}
	return repo.SetStatus(ctx, uid, missionID, status)
}
