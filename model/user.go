package model

import "time"

// User is an account produced by a successful sign-up. Only the password
// hash is retained.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
