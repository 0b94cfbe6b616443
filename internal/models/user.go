package models

import "time"

type User struct {
	UserID       string    `gorm:"primaryKey" bson:"_id" json:"user_id"`
	Email        string    `gorm:"not null;uniqueIndex:idx_users_email" bson:"email" json:"email"`
	Name         string    `bson:"name" json:"name"`
	PasswordHash string    `gorm:"not null" bson:"password_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

func (User) TableName() string { return "app_todo.users" }

// Identity is the authenticated principal handed to request handlers.
// Email and Name reflect the user record at the time the session was issued.
type Identity struct {
	ID    string `json:"user_id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u *User) Identity() Identity {
	return Identity{ID: u.UserID, Email: u.Email, Name: u.Name}
}
