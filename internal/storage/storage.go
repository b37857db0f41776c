package storage

import (
	"context"
	"log/slog"
	"time"

	config "github.com/NatyaLunenok/telegram-aggregator/internal/config"
	"github.com/NatyaLunenok/telegram-aggregator/internal/model"
	storage_logger "github.com/NatyaLunenok/telegram-aggregator/internal/storage/storage_logger"
	"github.com/dgraph-io/ristretto"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

type Storage struct {
	db    *gorm.DB
	codes *ristretto.Cache
}

func New(config *config.Config, logger *slog.Logger) (*Storage, error) {
	dialector, err := createDialector(&config.Database)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(
		dialector,
		&gorm.Config{
			NamingStrategy: schema.NamingStrategy{},
			Logger:         storage_logger.NewGormSlogLogger(logger),
			NowFunc:        func() time.Time { return time.Now().UTC() },
		})
	if err != nil {
		return nil, err
	}

	// Migrations
	const timeoutSeconds = 15 * 60
	ctx, cancel := context.WithTimeout(context.Background(), timeoutSeconds*time.Second)
	defer cancel()
	if err := db.WithContext(ctx).AutoMigrate(
		&model.ChatType{},
		&model.ChatRole{},
		&model.AttachmentType{},
		&model.Chat{},
		&model.User{},
		&model.ChatMember{},
		&model.Message{},
		&model.Attachment{},
	); err != nil {
		return nil, err
	}

	if err := seedReferenceTables(db.WithContext(ctx)); err != nil {
		return nil, err
	}

	codes, err := newCodeCache()
	if err != nil {
		return nil, err
	}

	return &Storage{db: db, codes: codes}, nil
}

// Close - close the database connection.
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Status - check the database connection for the health endpoint.
func (s *Storage) Status() (string, error) {
	sqlDB, err := s.db.DB()
	if err != nil {
		return "unavailable", err
	}
	if err := sqlDB.Ping(); err != nil {
		return "unavailable", err
	}
	return "ok", nil
}

// seedReferenceTables inserts the static name-to-code rows. Codes are
// fixed so they stay stable across databases and runs.
func seedReferenceTables(db *gorm.DB) error {
	chatTypes := []model.ChatType{
		{ID: 1, Name: "private"},
		{ID: 2, Name: "group"},
		{ID: 3, Name: "supergroup"},
		{ID: 4, Name: "channel"},
	}
	chatRoles := []model.ChatRole{
		{ID: 1, Name: "creator"},
		{ID: 2, Name: "administrator"},
		{ID: 3, Name: "member"},
		{ID: 4, Name: "restricted"},
		{ID: 5, Name: "left"},
		{ID: 6, Name: "banned"},
	}
	attachmentTypes := []model.AttachmentType{
		{ID: 1, Name: "document"},
		{ID: 2, Name: "photo"},
		{ID: 3, Name: "video"},
		{ID: 4, Name: "audio"},
		{ID: 5, Name: "other"},
	}

	for _, row := range chatTypes {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
	}
	for _, row := range chatRoles {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
	}
	for _, row := range attachmentTypes {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
	}

	return nil
}

// UpsertChat - insert the chat or overwrite every mutable field on conflict.
// Chat metadata changes are rare and order-insensitive, so last write wins.
func (s *Storage) UpsertChat(chat *model.Chat) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "type_id", "description", "chatname", "is_verified", "is_scam"}),
	}).Create(chat).Error
}

// UpsertUser - insert the user or overwrite on conflict. The is_bot column
// is excluded from the update set and keeps its stored value.
func (s *Storage) UpsertUser(user *model.User) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "username", "phone_number", "last_online"}),
	}).Create(user).Error
}

// Chats - get all known chats.
func (s *Storage) Chats() ([]model.Chat, error) {
	var chats []model.Chat
	if err := s.db.Find(&chats).Error; err != nil {
		return nil, err
	}
	return chats, nil
}

// UserByID - get the user by ID.
func (s *Storage) UserByID(id model.UserID) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, int64(id)).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
