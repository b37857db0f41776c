package storage

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	config "github.com/NatyaLunenok/telegram-aggregator/internal/config"
	"github.com/NatyaLunenok/telegram-aggregator/internal/model"
	"github.com/stretchr/testify/require"
)

// newTestStorage opens a fresh named in-memory database. The name keeps
// tests isolated while the shared cache keeps the pool on one database.
func newTestStorage(t *testing.T, name string) *Storage {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:     "sqlite3",
			Connection: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestUpsertChatOverwritesMutableFields(t *testing.T) {
	db := newTestStorage(t, "chat_upsert")

	first := &model.Chat{ID: 100, Title: "Old title", TypeID: 3, Handle: "old"}
	require.NoError(t, db.UpsertChat(first))

	second := &model.Chat{ID: 100, Title: "New title", TypeID: 3, Handle: "new", IsVerified: true}
	require.NoError(t, db.UpsertChat(second))

	chats, err := db.Chats()
	require.NoError(t, err)
	require.Len(t, chats, 1)
	require.Equal(t, "New title", chats[0].Title)
	require.Equal(t, "new", chats[0].Handle)
	require.True(t, chats[0].IsVerified)
}

func TestUpsertUserKeepsIsBot(t *testing.T) {
	db := newTestStorage(t, "user_upsert")

	require.NoError(t, db.UpsertUser(&model.User{ID: 1, FirstName: "Alice", IsBot: false}))
	require.NoError(t, db.UpsertUser(&model.User{ID: 1, FirstName: "Alicia", IsBot: true}))

	user, err := db.UserByID(1)
	require.NoError(t, err)
	require.Equal(t, "Alicia", user.FirstName)
	require.False(t, user.IsBot, "is_bot must be excluded from the conflict update")
}

func TestInsertMessageIdempotent(t *testing.T) {
	db := newTestStorage(t, "message_insert")

	message := func() *model.Message {
		return &model.Message{
			TelegramMessageID: 555,
			ChatID:            100,
			SenderID:          1,
			MessageDate:       time.Unix(1700000000, 0).UTC(),
			Text:              "hello",
		}
	}

	require.NoError(t, db.InsertMessage(message()))
	require.NoError(t, db.InsertMessage(message()))

	messages, err := db.ChatMessages(100, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
}

func TestMessageRefMissingIsNil(t *testing.T) {
	db := newTestStorage(t, "message_ref")

	ref, err := db.MessageRef(100, 999)
	require.NoError(t, err)
	require.Nil(t, ref)

	require.NoError(t, db.InsertMessage(&model.Message{
		TelegramMessageID: 999,
		ChatID:            100,
		MessageDate:       time.Unix(1700000000, 0).UTC(),
	}))

	ref, err = db.MessageRef(100, 999)
	require.NoError(t, err)
	require.NotNil(t, ref)
}

func TestInsertAttachmentWithNullMessageRef(t *testing.T) {
	db := newTestStorage(t, "attachment_insert")

	attachment := &model.Attachment{
		MessageID: nil,
		TypeID:    db.AttachmentTypeCode("document"),
		FileID:    "file-abc",
	}

	require.NoError(t, db.InsertAttachment(attachment))
}

func TestLookupDefaults(t *testing.T) {
	db := newTestStorage(t, "lookup")

	privateCode := db.ChatTypeCode("chatTypePrivate")
	require.Equal(t, privateCode, db.ChatTypeCode("chatTypeUnknownXYZ"))

	memberCode := db.RoleCode("chatMemberStatusMember")
	require.Equal(t, memberCode, db.RoleCode("chatMemberStatusUnknown"))

	require.NotEqual(t, db.RoleCode("chatMemberStatusLeft"), memberCode)

	otherCode := db.AttachmentTypeCode("")
	require.Equal(t, otherCode, db.AttachmentTypeCode("somethingNew"))
	require.NotEqual(t, otherCode, db.AttachmentTypeCode("document"))
}

func activeMember(chatID model.ChatID, userID model.UserID, joined time.Time, role int) *model.ChatMember {
	return &model.ChatMember{
		ChatID:   chatID,
		UserID:   userID,
		JoinDate: joined,
		RoleID:   role,
	}
}

func TestUpsertMemberIdempotent(t *testing.T) {
	db := newTestStorage(t, "member_idempotent")
	joined := time.Unix(1700000000, 0).UTC()

	require.NoError(t, db.UpsertMember(activeMember(100, 1, joined, 3)))
	require.NoError(t, db.UpsertMember(activeMember(100, 1, joined, 3)))

	members, err := db.ActiveMembers(100)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, 3, members[0].RoleID)
	require.False(t, members[0].LeftDate.Valid)
}

func TestUpsertMemberActiveRowGuard(t *testing.T) {
	db := newTestStorage(t, "member_guard")
	joined := time.Unix(1700000000, 0).UTC()

	require.NoError(t, db.UpsertMember(activeMember(100, 1, joined, 2)))

	// An update with a different role against an already-active row is a
	// no-op: the guard refuses to touch active memberships.
	require.NoError(t, db.UpsertMember(activeMember(100, 1, joined.Add(time.Hour), 3)))

	members, err := db.ActiveMembers(100)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, 2, members[0].RoleID)
	require.Equal(t, joined.Unix(), members[0].JoinDate.Unix())
}

func TestUpsertMemberRejoin(t *testing.T) {
	db := newTestStorage(t, "member_rejoin")
	joined := time.Unix(1700000000, 0).UTC()

	require.NoError(t, db.UpsertMember(activeMember(100, 1, joined, 3)))

	marked, err := db.MarkDeparted(100, []int64{1}, db.RoleCode("chatMemberStatusLeft"))
	require.NoError(t, err)
	require.Equal(t, int64(1), marked)

	// Rejoin with an older join date: join_date must not regress.
	require.NoError(t, db.UpsertMember(activeMember(100, 1, joined.Add(-time.Hour), 2)))

	members, err := db.ActiveMembers(100)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, 2, members[0].RoleID)
	require.False(t, members[0].LeftDate.Valid)
	require.Equal(t, joined.Unix(), members[0].JoinDate.Unix())
}

func TestMarkDepartedOnlyStampsActiveRows(t *testing.T) {
	db := newTestStorage(t, "member_departed")
	joined := time.Unix(1700000000, 0).UTC()
	leftRole := db.RoleCode("chatMemberStatusLeft")

	require.NoError(t, db.UpsertMember(activeMember(100, 1, joined, 3)))
	require.NoError(t, db.UpsertMember(activeMember(100, 2, joined, 3)))

	marked, err := db.MarkDeparted(100, []int64{1}, leftRole)
	require.NoError(t, err)
	require.Equal(t, int64(1), marked)

	var firstLeft sql.NullTime
	{
		var member model.ChatMember
		require.NoError(t, db.db.Where("chat_id = ? AND user_id = ?", 100, 1).First(&member).Error)
		require.True(t, member.LeftDate.Valid)
		require.Equal(t, leftRole, member.RoleID)
		firstLeft = member.LeftDate
	}

	// Replay must not re-stamp the already-left row.
	marked, err = db.MarkDeparted(100, []int64{1}, leftRole)
	require.NoError(t, err)
	require.Zero(t, marked)

	var member model.ChatMember
	require.NoError(t, db.db.Where("chat_id = ? AND user_id = ?", 100, 1).First(&member).Error)
	require.Equal(t, firstLeft.Time.Unix(), member.LeftDate.Time.Unix())

	ids, err := db.ActiveMemberIDs(100)
	require.NoError(t, err)
	require.Equal(t, []int64{2}, ids)
}

func TestMarkDepartedEmptySetIsNoop(t *testing.T) {
	db := newTestStorage(t, "member_departed_empty")

	marked, err := db.MarkDeparted(100, nil, db.RoleCode("chatMemberStatusLeft"))
	require.NoError(t, err)
	require.Zero(t, marked)
}
