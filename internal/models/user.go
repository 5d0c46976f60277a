package models

import "time"

// User is an administrator allowed to edit site content.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" bson:"_id,omitempty" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" bson:"username" json:"username"`
	PasswordHash string    `gorm:"not null" bson:"passwordHash" json:"-"`
	Active       bool      `gorm:"not null;default:true" bson:"active" json:"active"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
