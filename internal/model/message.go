package model

import (
	"strconv"
	"time"
)

type (
	MessageID int64
)

// Message is immutable once recorded: replays of the same natural key
// (chat_id, telegram_message_id) are no-ops. The surrogate ID is the join
// target for replies and attachments.
type Message struct {
	ID MessageID `gorm:"primaryKey;autoIncrement;column:message_id" json:"id"` // Internal surrogate identifier.

	TelegramMessageID int64  `gorm:"uniqueIndex:uq_messages_chat_message;column:telegram_message_id" json:"telegram_message_id"` // External message identifier.
	ChatID            ChatID `gorm:"uniqueIndex:uq_messages_chat_message;column:chat_id" json:"chat_id"`                         // ID of the chat the message belongs to.

	SenderID    UserID    `gorm:"index;column:sender_id" json:"sender_id"` // ID of the sender.
	MessageDate time.Time `gorm:"column:message_date" json:"message_date"` // Time the message was sent.
	Text        string    `json:"text"`                                    // Message text or media caption.

	ReplyToMessageID  *MessageID `gorm:"column:reply_to_message_id" json:"reply_to_message_id"`   // Surrogate ID of the replied-to message, null if unresolved.
	ForwardFromChatID *ChatID    `gorm:"column:forward_from_chat_id" json:"forward_from_chat_id"` // Origin chat for forwards, null otherwise.
	ForwardFromUserID *UserID    `gorm:"column:forward_from_user_id" json:"forward_from_user_id"` // Origin sender for forwards, null otherwise.

	// Meta fields
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"` // Time when the message was stored.
}

// TableName - set the table name.
func (Message) TableName() string {
	return "messages"
}

// GetID - get the surrogate message ID.
func (obj *Message) GetID() int64 {
	return int64(obj.ID)
}

// ToInt64 - get the message ID.
func (id MessageID) ToInt64() int64 {
	return int64(id)
}

// ToString - get the message ID.
func (id MessageID) ToString() string {
	return strconv.FormatInt(int64(id), 10)
}
