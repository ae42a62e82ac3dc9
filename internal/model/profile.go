package model

import "time"

type Profile struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	FullName    string    `db:"full_name"`
	PhoneNumber *string   `db:"phone_number"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Phone returns the phone number or "" when none is on file.
func (p *Profile) Phone() string {
	if p == nil || p.PhoneNumber == nil {
		return ""
	}
	return *p.PhoneNumber
}
