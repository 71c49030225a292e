package models

import "time"

// JournalEntry is the story card saved for a finished walk session.
type JournalEntry struct {
	ID             string
	UserID         string
	SessionDocID   string
	ResultImageURL string
	StoryTitle     string
	StoryContent   string
	TotalDistance  float64
	CreatedAt      time.Time
}
