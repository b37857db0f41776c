package storage

import (
	"errors"

	"github.com/NatyaLunenok/telegram-aggregator/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InsertMessage - insert-if-absent on the natural key. Messages are
// immutable once recorded; replaying the same (chat_id,
// telegram_message_id) is a no-op.
func (s *Storage) InsertMessage(message *model.Message) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}, {Name: "telegram_message_id"}},
		DoNothing: true,
	}).Create(message).Error
}

// MessageRef resolves the internal surrogate ID of a message by its
// natural key. Returns nil without error when no row exists yet.
func (s *Storage) MessageRef(chatID model.ChatID, telegramMessageID int64) (*model.MessageID, error) {
	var message model.Message
	err := s.db.
		Select("message_id").
		Where("chat_id = ? AND telegram_message_id = ?", int64(chatID), telegramMessageID).
		First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message.ID, nil
}

// InsertAttachment - insert-if-absent. The message reference may be nil
// when the owning message row is not resolvable yet; the row is stored
// anyway rather than failing the pipeline.
func (s *Storage) InsertAttachment(attachment *model.Attachment) error {
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(attachment).Error
}

// Attachments - get all stored attachments.
func (s *Storage) Attachments() ([]model.Attachment, error) {
	var attachments []model.Attachment
	if err := s.db.Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// ChatMessages - most recent stored messages of a chat, newest first.
func (s *Storage) ChatMessages(chatID model.ChatID, limit int) ([]model.Message, error) {
	const defaultLimit = 50

	if limit <= 0 {
		limit = defaultLimit
	}

	var messages []model.Message
	err := s.db.
		Where("chat_id = ?", int64(chatID)).
		Order("message_date DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
