package models

import "time"

// MissionStatus is the per-user progress of one mission.
type MissionStatus string

const (
	MissionAvailable MissionStatus = "available"
	MissionActive    MissionStatus = "active"
	MissionCompleted MissionStatus = "completed"
)

// Mission is a curated walk challenge from the shared catalog.
type Mission struct {
	ID          string
	Title       string
	Description string
	Targets     []string
	Reward      int
	CreatedAt   time.Time
}

// UserMission joins a user to a mission with their progress.
type UserMission struct {
	MissionID string
	UserID    string
	Status    MissionStatus
	UpdatedAt time.Time
}
