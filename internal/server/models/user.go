package models

import "time"

type User struct {
	ID           string
	Username     string
	DisplayName  string
	PhotoURL     string
	PasswordHash []byte
	CreatedAt    time.Time
}
