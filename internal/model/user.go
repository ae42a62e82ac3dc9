package model

import (
	"time"
)

type User struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Account is a user together with their profile.
type Account struct {
	User    *User
	Profile *Profile
}

// Contact is the minimal view of a user needed to reach them outside the app.
type Contact struct {
	UserID      int64
	DisplayName string
	PhoneNumber string
}
