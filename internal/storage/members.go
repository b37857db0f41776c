package storage

import (
	"errors"
	"time"

	"github.com/NatyaLunenok/telegram-aggregator/internal/model"
	"gorm.io/gorm"
)

// ActiveMemberIDs - the persisted roster: user IDs of membership rows for
// the chat whose left_date is still null.
func (s *Storage) ActiveMemberIDs(chatID model.ChatID) ([]int64, error) {
	var ids []int64
	err := s.db.Model(&model.ChatMember{}).
		Where("chat_id = ? AND left_date IS NULL", int64(chatID)).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ActiveMembers - full membership rows of the active roster.
func (s *Storage) ActiveMembers(chatID model.ChatID) ([]model.ChatMember, error) {
	var members []model.ChatMember
	err := s.db.
		Where("chat_id = ? AND left_date IS NULL", int64(chatID)).
		Order("user_id").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// UpsertMember - conditional insert-or-update of one membership row.
//
// A conflicting row is only touched when it has already been marked left
// (the rejoin case): join_date advances to the greater of the stored and
// incoming values, left_date resets to null and the role is replaced. An
// active conflicting row is left exactly as it is, so a stale re-preload
// cannot clobber a more recent role assignment.
func (s *Storage) UpsertMember(member *model.ChatMember) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.ChatMember
		err := tx.
			Where("chat_id = ? AND user_id = ?", int64(member.ChatID), int64(member.UserID)).
			First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(member).Error
		}
		if err != nil {
			return err
		}

		if existing.IsActive() {
			return nil
		}

		joinDate := existing.JoinDate
		if member.JoinDate.After(joinDate) {
			joinDate = member.JoinDate
		}

		return tx.Model(&model.ChatMember{}).
			Where("id = ? AND left_date IS NOT NULL", existing.ID).
			Updates(map[string]interface{}{
				"join_date": joinDate,
				"left_date": nil,
				"role_id":   member.RoleID,
			}).Error
	})
}

// MarkDeparted - bulk departure marking for members absent from the
// remote roster. Only rows still active are stamped, so an already-left
// row never gets a fresher left_date on replay. Returns the number of
// rows marked.
func (s *Storage) MarkDeparted(chatID model.ChatID, userIDs []int64, leftRoleID int) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	result := s.db.Model(&model.ChatMember{}).
		Where("chat_id = ? AND user_id IN ? AND left_date IS NULL", int64(chatID), userIDs).
		Updates(map[string]interface{}{
			"left_date": time.Now().UTC(),
			"role_id":   leftRoleID,
		})

	return result.RowsAffected, result.Error
}
