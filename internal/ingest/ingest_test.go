package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	config "github.com/NatyaLunenok/telegram-aggregator/internal/config"
	"github.com/NatyaLunenok/telegram-aggregator/internal/filter"
	"github.com/NatyaLunenok/telegram-aggregator/internal/metrics"
	"github.com/NatyaLunenok/telegram-aggregator/internal/model"
	"github.com/NatyaLunenok/telegram-aggregator/internal/object"
	"github.com/NatyaLunenok/telegram-aggregator/internal/storage"
	"github.com/stretchr/testify/require"
)

func newTestIngestor(t *testing.T, name string) (*Ingestor, *storage.Storage) {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:     "sqlite3",
			Connection: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		},
		Filter: config.FilterConfig{
			AllowedChats: []int64{100},
			Keywords:     []string{"urgent"},
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := storage.New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return New(db, filter.New(cfg.Filter), metrics.NewMetricsFake(), logger), db
}

func textMessage(id, chatID, senderID int64, text string) object.Object {
	return object.Object{
		"id":        id,
		"chat_id":   chatID,
		"date":      int64(1700000000),
		"sender_id": object.Object{"user_id": senderID},
		"content":   object.Object{"text": object.Object{"text": text}},
	}
}

func TestHandleMessageStoresAdmitted(t *testing.T) {
	ingestor, db := newTestIngestor(t, "ingest_admitted")

	ingestor.HandleMessage(textMessage(10, 100, 1, "this is Urgent"))

	messages, err := db.ChatMessages(100, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, int64(10), messages[0].TelegramMessageID)
	require.Equal(t, model.UserID(1), messages[0].SenderID)
	require.Equal(t, "this is Urgent", messages[0].Text)
}

func TestHandleMessageRejectsOffListChat(t *testing.T) {
	ingestor, db := newTestIngestor(t, "ingest_rejected")

	ingestor.HandleMessage(textMessage(10, 200, 1, "this is Urgent"))
	ingestor.HandleMessage(textMessage(11, 100, 1, "nothing to see"))
	ingestor.HandleMessage(nil)

	for _, chatID := range []model.ChatID{100, 200} {
		messages, err := db.ChatMessages(chatID, 0)
		require.NoError(t, err)
		require.Empty(t, messages)
	}
}

func TestHandleMessageResolvesReply(t *testing.T) {
	ingestor, db := newTestIngestor(t, "ingest_reply")

	ingestor.HandleMessage(textMessage(10, 100, 1, "urgent: original"))

	reply := textMessage(11, 100, 2, "urgent: reply")
	reply["reply_to"] = object.Object{"message_id": int64(10)}
	ingestor.HandleMessage(reply)

	// A reply target that was never stored stays null.
	orphan := textMessage(12, 100, 2, "urgent: orphan")
	orphan["reply_to"] = object.Object{"message_id": int64(999)}
	ingestor.HandleMessage(orphan)

	ref, err := db.MessageRef(100, 10)
	require.NoError(t, err)
	require.NotNil(t, ref)

	messages, err := db.ChatMessages(100, 0)
	require.NoError(t, err)
	require.Len(t, messages, 3)

	byExternalID := make(map[int64]model.Message, len(messages))
	for _, message := range messages {
		byExternalID[message.TelegramMessageID] = message
	}

	require.NotNil(t, byExternalID[11].ReplyToMessageID)
	require.Equal(t, *ref, *byExternalID[11].ReplyToMessageID)
	require.Nil(t, byExternalID[12].ReplyToMessageID)
}

func TestHandleMessageLinksAttachment(t *testing.T) {
	ingestor, db := newTestIngestor(t, "ingest_attachment")

	msg := object.Object{
		"id":        int64(20),
		"chat_id":   int64(100),
		"date":      int64(1700000000),
		"sender_id": object.Object{"user_id": int64(1)},
		"content": object.Object{
			"caption": object.Object{"text": "urgent report attached"},
			"document": object.Object{
				"document": object.Object{"@type": "document", "file_id": "file-abc"},
			},
		},
	}
	ingestor.HandleMessage(msg)

	attachments, err := db.Attachments()
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	require.Equal(t, "file-abc", attachments[0].FileID)
	require.Equal(t, db.AttachmentTypeCode("document"), attachments[0].TypeID)

	ref, err := db.MessageRef(100, 20)
	require.NoError(t, err)
	require.NotNil(t, ref)
	require.NotNil(t, attachments[0].MessageID)
	require.Equal(t, *ref, *attachments[0].MessageID)
}

func TestHandleMessageAttachmentIDFallback(t *testing.T) {
	ingestor, db := newTestIngestor(t, "ingest_attachment_id")

	// Some client payloads carry a plain id instead of file_id.
	msg := object.Object{
		"id":        int64(21),
		"chat_id":   int64(100),
		"date":      int64(1700000000),
		"sender_id": object.Object{"user_id": int64(1)},
		"content": object.Object{
			"caption": object.Object{"text": "urgent clip"},
			"video": object.Object{
				"video": object.Object{"@type": "video", "id": "vid-9"},
			},
		},
	}
	ingestor.HandleMessage(msg)

	attachments, err := db.Attachments()
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	require.Equal(t, "vid-9", attachments[0].FileID)
	require.Equal(t, db.AttachmentTypeCode("video"), attachments[0].TypeID)
}

func TestHandleMessageReplayIsNoop(t *testing.T) {
	ingestor, db := newTestIngestor(t, "ingest_replay")

	msg := object.Object{
		"id":        int64(30),
		"chat_id":   int64(100),
		"date":      int64(1700000000),
		"sender_id": object.Object{"user_id": int64(1)},
		"content": object.Object{
			"caption": object.Object{"text": "urgent photo"},
			"photo":   object.Object{"@type": "photo"},
		},
	}

	ingestor.HandleMessage(msg)
	ingestor.HandleMessage(msg)

	messages, err := db.ChatMessages(100, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, "urgent photo", messages[0].Text)

	attachments, err := db.Attachments()
	require.NoError(t, err)
	require.Len(t, attachments, 1)
}
