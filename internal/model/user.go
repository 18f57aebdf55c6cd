package model

import "time"

type User struct {
	ID           int64
	Email        string
	Name         *string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the outward shape of a user. The password hash never
// leaves the service layer.
type PublicUser struct {
	ID    int64   `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name}
}

// UserUpdate carries the mutable user fields; nil means leave unchanged.
type UserUpdate struct {
	Email        *string
	Name         *string
	PasswordHash *string
}
