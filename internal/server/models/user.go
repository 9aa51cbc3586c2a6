// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account holder. PasswordHash is never serialized.
type User struct {
	ID           string    `db:"id" json:"id"`
	UserName     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"full_name,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
