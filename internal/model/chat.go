package model

import (
	"strconv"
	"time"
)

type (
	ChatID int64
)

type Chat struct {
	ID ChatID `gorm:"primaryKey;column:chat_id" json:"id"` // Unique identifier for the chat.

	// Chat fields
	Title       string `json:"title"`                         // Chat title for groups, supergroups and channels.
	TypeID      int    `gorm:"column:type_id" json:"type_id"` // Resolved chat type code (chat_types reference).
	Description string `json:"description"`                   // Chat description.
	Handle      string `gorm:"column:chatname" json:"handle"` // First active public username, empty if none.
	IsVerified  bool   `json:"is_verified"`                   // True, if the chat is verified by the platform.
	IsScam      bool   `json:"is_scam"`                       // True, if the chat is flagged as a scam.

	// Meta fields
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"` // Time when the chat was last updated.
}

// TableName - set the table name.
func (Chat) TableName() string {
	return "chats"
}

// GetID - get the chat ID.
func (obj *Chat) GetID() int64 {
	return int64(obj.ID)
}

// ToInt64 - get the chat ID.
func (id ChatID) ToInt64() int64 {
	return int64(id)
}

// ToString - get the chat ID.
func (id ChatID) ToString() string {
	return strconv.FormatInt(int64(id), 10)
}
