package telegram

import (
	"github.com/NatyaLunenok/telegram-aggregator/internal/object"
	tele "gopkg.in/telebot.v3"
)

// Conversion of bot API shapes into the canonical envelope vocabulary the
// core works with. This is the single place where upstream shape
// differences are flattened out.

var chatTypeTags = map[string]string{
	"private":    "chatTypePrivate",
	"group":      "chatTypeBasicGroup",
	"supergroup": "chatTypeSupergroup",
	"channel":    "chatTypeChannel",
}

var memberStatusTags = map[string]string{
	"creator":       "chatMemberStatusCreator",
	"administrator": "chatMemberStatusAdministrator",
	"member":        "chatMemberStatusMember",
	"restricted":    "chatMemberStatusRestricted",
	"left":          "chatMemberStatusLeft",
	"kicked":        "chatMemberStatusBanned",
}

// MessageEnvelope converts an inbound bot message into the canonical
// message envelope consumed by the admission filter and the ingest path.
func MessageEnvelope(m *tele.Message) object.Object {
	if m == nil || m.Chat == nil {
		return nil
	}

	msg := object.Object{
		"id":      int64(m.ID),
		"chat_id": m.Chat.ID,
		"date":    m.Unixtime,
	}

	if m.Sender != nil {
		msg["sender_id"] = object.Object{"user_id": m.Sender.ID}
	}

	content := object.Object{}
	if m.Text != "" {
		content["text"] = object.Object{"text": m.Text}
	}
	if m.Caption != "" {
		content["caption"] = object.Object{"text": m.Caption}
	}

	switch {
	case m.Document != nil:
		content["document"] = object.Object{
			"document": object.Object{"@type": "document", "file_id": m.Document.FileID},
		}
	case m.Photo != nil:
		content["photo"] = object.Object{"@type": "photo"}
	case m.Video != nil:
		content["video"] = object.Object{
			"video": object.Object{"@type": "video", "file_id": m.Video.FileID},
		}
	}
	msg["content"] = content

	if m.ReplyTo != nil {
		msg["reply_to"] = object.Object{"message_id": int64(m.ReplyTo.ID)}
	}

	if m.OriginalChat != nil || m.OriginalSender != nil {
		origin := object.Object{}
		if m.OriginalChat != nil {
			origin["chat_id"] = m.OriginalChat.ID
		}
		if m.OriginalSender != nil {
			origin["sender_user_id"] = m.OriginalSender.ID
		}
		msg["forward_info"] = object.Object{"origin": origin}
	}

	return msg
}

// ChatEnvelope converts a bot API chat result into the canonical chat
// envelope, nesting the type tag the way the core expects.
func ChatEnvelope(raw object.Object) object.Object {
	id, _ := raw.Int64("id")

	tag, ok := chatTypeTags[raw.String("type")]
	if !ok {
		tag = "chatTypePrivate"
	}

	chatType := object.Object{"@type": tag}
	switch tag {
	case "chatTypeBasicGroup":
		chatType["basic_group_id"] = id
	case "chatTypeSupergroup", "chatTypeChannel":
		chatType["supergroup_id"] = id
	}

	envelope := object.Object{
		"id":          id,
		"title":       raw.String("title"),
		"description": raw.String("description"),
		"type":        chatType,
		"is_verified": raw.Bool("is_verified"),
		"is_scam":     raw.Bool("is_scam"),
	}

	if username := raw.String("username"); username != "" {
		envelope["usernames"] = object.Object{"active_usernames": []any{username}}
	}

	return envelope
}

// UserEnvelope converts a bot API user or private chat result into the
// canonical user envelope.
func UserEnvelope(raw object.Object) object.Object {
	id, _ := raw.Int64("id")

	envelope := object.Object{
		"id":           id,
		"first_name":   raw.String("first_name"),
		"last_name":    raw.String("last_name"),
		"phone_number": raw.String("phone_number"),
	}

	if username := raw.String("username"); username != "" {
		envelope["usernames"] = object.Object{"active_usernames": []any{username}}
	}

	return envelope
}

// FullInfoEnvelope builds a canonical full-info payload from a member
// list and the chat's total member count. The count lets the preloader
// detect a truncated roster and skip departure marking.
func FullInfoEnvelope(members []object.Object, memberCount int64) object.Object {
	canonical := make([]any, 0, len(members))

	for _, member := range members {
		entry := object.Object{}

		if user, ok := member.Child("user"); ok {
			if id, ok := user.Int64("id"); ok {
				entry["user_id"] = id
			}
			entry["user"] = UserEnvelope(user)
		}

		tag, ok := memberStatusTags[member.String("status")]
		if !ok {
			tag = "chatMemberStatusMember"
		}
		entry["status"] = object.Object{"@type": tag}

		if joined, ok := member.Int64("joined_chat_date"); ok {
			entry["joined_chat_date"] = joined
		}

		canonical = append(canonical, entry)
	}

	return object.Object{
		"members":      canonical,
		"member_count": memberCount,
	}
}
