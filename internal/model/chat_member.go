package model

import (
	"database/sql"
	"time"
)

// ChatMember is one membership row per (chat, user). At most one active
// row (null left_date) exists per pair, enforced by the unique index and
// the conditional upsert in storage.
type ChatMember struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	ChatID ChatID `gorm:"uniqueIndex:uq_chat_members_chat_user;column:chat_id" json:"chat_id"`
	UserID UserID `gorm:"uniqueIndex:uq_chat_members_chat_user;column:user_id" json:"user_id"`

	JoinDate time.Time    `gorm:"column:join_date" json:"join_date"` // Only ever advances forward on rejoin.
	LeftDate sql.NullTime `gorm:"column:left_date" json:"left_date"` // Null while the membership is active.
	RoleID   int          `gorm:"column:role_id" json:"role_id"`     // Resolved role code (chat_roles reference).
}

// TableName - set the table name.
func (ChatMember) TableName() string {
	return "chat_members"
}

// IsActive reports whether the membership has not been marked as left.
func (obj *ChatMember) IsActive() bool {
	return !obj.LeftDate.Valid
}
