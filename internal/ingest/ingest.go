// Package ingest is the push-model path: every inbound message envelope
// runs through the admission filter, the message insert and, when the
// content carries media, the attachment linker.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/NatyaLunenok/telegram-aggregator/internal/errs"
	"github.com/NatyaLunenok/telegram-aggregator/internal/filter"
	"github.com/NatyaLunenok/telegram-aggregator/internal/metrics"
	"github.com/NatyaLunenok/telegram-aggregator/internal/model"
	"github.com/NatyaLunenok/telegram-aggregator/internal/object"
	"github.com/NatyaLunenok/telegram-aggregator/internal/storage"
)

type Ingestor struct {
	db      *storage.Storage
	filter  *filter.Filter
	metrics metrics.Metrics
	logger  *slog.Logger
}

func New(db *storage.Storage, f *filter.Filter, m metrics.Metrics, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		db:      db,
		filter:  f,
		metrics: m,
		logger:  logger,
	}
}

// HandleMessage processes one inbound envelope. Faults are logged and
// swallowed; the caller's event loop must survive indefinitely.
func (i *Ingestor) HandleMessage(msg object.Object) {
	ctx := context.Background()

	if msg == nil {
		return
	}

	chatID, _ := msg.Int64("chat_id")

	if !i.filter.Allow(msg) {
		i.metrics.LogChatEvent("message_rejected", chatID, map[string]interface{}{"count": 1})
		return
	}

	if err := i.storeMessage(ctx, msg); err != nil {
		i.logger.ErrorContext(ctx, "message store failed",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()))
		return
	}

	i.metrics.LogChatEvent("message_stored", chatID, map[string]interface{}{"count": 1})

	if err := i.storeAttachment(ctx, msg); err != nil {
		i.logger.ErrorContext(ctx, "attachment store failed",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()))
	}
}

func (i *Ingestor) storeMessage(ctx context.Context, msg object.Object) error {
	telegramMessageID, ok := msg.Int64("id")
	if !ok {
		return errs.WrapIncompletePayload("message", "id")
	}
	chatID, ok := msg.Int64("chat_id")
	if !ok {
		return errs.WrapIncompletePayload("message", "chat_id")
	}

	senderID, _ := filter.SenderID(msg)
	date, _ := msg.Int64("date")
	content, _ := msg.Child("content")

	message := &model.Message{
		TelegramMessageID: telegramMessageID,
		ChatID:            model.ChatID(chatID),
		SenderID:          model.UserID(senderID),
		MessageDate:       time.Unix(date, 0).UTC(),
		Text:              filter.Text(content),
	}

	// Replies join on the surrogate ID; an unresolved reply target stays
	// null rather than blocking the insert.
	if replyTo, ok := msg.Child("reply_to"); ok {
		if externalID, ok := replyTo.Int64("message_id"); ok {
			ref, err := i.db.MessageRef(model.ChatID(chatID), externalID)
			if err != nil {
				i.logger.ErrorContext(ctx, "reply lookup failed",
					slog.Int64("chat_id", chatID),
					slog.String("error", err.Error()))
			} else {
				message.ReplyToMessageID = ref
			}
		}
	}

	if forwardInfo, ok := msg.Child("forward_info"); ok {
		if origin, ok := forwardInfo.Child("origin"); ok {
			if originChat, ok := origin.Int64("chat_id"); ok {
				id := model.ChatID(originChat)
				message.ForwardFromChatID = &id
			}
			if originSender, ok := origin.Int64("sender_user_id"); ok {
				id := model.UserID(originSender)
				message.ForwardFromUserID = &id
			}
		}
	}

	return i.db.InsertMessage(message)
}

// storeAttachment extracts media metadata from the content and links it
// to the owning message row. When the message row cannot be resolved the
// attachment is stored with a null reference instead of failing.
func (i *Ingestor) storeAttachment(ctx context.Context, msg object.Object) error {
	content, ok := msg.Child("content")
	if !ok {
		return nil
	}

	typeTag, fileID, found := extractAttachment(content)
	if !found {
		return nil
	}

	chatID, _ := msg.Int64("chat_id")
	telegramMessageID, _ := msg.Int64("id")

	ref, err := i.db.MessageRef(model.ChatID(chatID), telegramMessageID)
	if err != nil {
		i.logger.ErrorContext(ctx, "attachment message lookup failed",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()))
		ref = nil
	}

	attachment := &model.Attachment{
		MessageID: ref,
		TypeID:    i.db.AttachmentTypeCode(typeTag),
		FileID:    fileID,
	}

	if err := i.db.InsertAttachment(attachment); err != nil {
		return err
	}

	i.metrics.LogChatEvent("attachment_stored", chatID, map[string]interface{}{"count": 1})

	return nil
}

// extractAttachment recognizes document, photo and video content. Photos
// carry no durable file identifier upstream and are stored without one.
func extractAttachment(content object.Object) (typeTag, fileID string, found bool) {
	if document, ok := content.Child("document"); ok {
		if inner, ok := document.Child("document"); ok {
			return inner.String("@type"), fileIdentifier(inner), true
		}
	}
	if photo, ok := content.Child("photo"); ok {
		tag := photo.String("@type")
		if tag == "" {
			tag = "photo"
		}
		return tag, "", true
	}
	if video, ok := content.Child("video"); ok {
		if inner, ok := video.Child("video"); ok {
			return inner.String("@type"), fileIdentifier(inner), true
		}
	}
	return "", "", false
}

// fileIdentifier prefers the durable file_id, falling back to the plain
// id some client payloads carry instead.
func fileIdentifier(media object.Object) string {
	if id := media.String("file_id"); id != "" {
		return id
	}
	return media.String("id")
}
