package models

import "time"

// Post is one shared walk photo on the social feed.
type Post struct {
	ID           string
	UserID       string
	Username     string
	UserPhotoURL string
	ImageURL     string
	Caption      string
	Target       string
	SessionDocID string
	LikesCount   int
	RepliesCount int
	CreatedAt    time.Time

	// LikedByViewer is filled per request, not stored.
	LikedByViewer bool
}

// Reply is a comment under a post.
type Reply struct {
	ID        string
	PostID    string
	UserID    string
	Username  string
	Text      string
	CreatedAt time.Time
}
