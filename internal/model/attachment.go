package model

import "time"

// Attachment belongs to exactly one message by surrogate ID. The reference
// is null when the owning message row could not be resolved at insert time;
// that row is kept rather than dropped.
type Attachment struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	MessageID *MessageID `gorm:"uniqueIndex:uq_attachments_message_file;column:message_id" json:"message_id"` // Surrogate ID of the owning message, nullable.
	TypeID    int        `gorm:"column:type_id" json:"type_id"`                                               // Resolved attachment type code (attachment_types reference).
	FileID    string     `gorm:"uniqueIndex:uq_attachments_message_file;column:file_id" json:"file_id"`       // Durable file identifier, empty for media without one.

	// Meta fields
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"` // Time when the attachment was stored.
}

// TableName - set the table name.
func (Attachment) TableName() string {
	return "attachments"
}
