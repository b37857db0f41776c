package model

import (
	"database/sql"
	"strconv"
	"time"
)

type (
	UserID int64
)

type User struct {
	ID UserID `gorm:"primaryKey;column:user_id" json:"id"` // Unique identifier for this user.

	// User fields
	FirstName   string `json:"first_name"`                    // User's first name.
	LastName    string `json:"last_name"`                     // User's last name.
	Handle      string `gorm:"column:username" json:"handle"` // First active public username, empty if none.
	PhoneNumber string `json:"phone_number"`                  // User's phone number, if visible.
	IsBot       bool   `json:"is_bot"`                        // Never derived from the source payload, stored as false.

	// Additional fields
	LastOnline sql.NullTime `json:"last_online"` // Time the user was last seen online, null if unknown.

	// Meta fields
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"` // Time when the user was last updated.
}

// TableName - set the table name.
func (User) TableName() string {
	return "users"
}

// GetID - get the user ID.
func (obj *User) GetID() int64 {
	return int64(obj.ID)
}

// ToInt64 - get the user ID.
func (id UserID) ToInt64() int64 {
	return int64(id)
}

// ToString - get the user ID.
func (id UserID) ToString() string {
	return strconv.FormatInt(int64(id), 10)
}
