// Package filter decides whether an inbound message is worth persisting:
// allow-listed chat, sender not blocked, and content matching at least one
// configured keyword or flag term.
package filter

import (
	"strings"

	config "github.com/NatyaLunenok/telegram-aggregator/internal/config"
	"github.com/NatyaLunenok/telegram-aggregator/internal/object"
)

type Filter struct {
	allowedChats map[int64]struct{}
	blockedUsers map[int64]struct{}
	keywords     []string
	flagWords    []string
}

// New builds an admission filter from the configured lists. All matching
// is case-insensitive; empty keyword and flag lists never match.
func New(cfg config.FilterConfig) *Filter {
	f := &Filter{
		allowedChats: make(map[int64]struct{}, len(cfg.AllowedChats)),
		blockedUsers: make(map[int64]struct{}, len(cfg.BlockedUsers)),
		keywords:     lowered(cfg.Keywords),
		flagWords:    lowered(cfg.FlagWords),
	}
	for _, id := range cfg.AllowedChats {
		f.allowedChats[id] = struct{}{}
	}
	for _, id := range cfg.BlockedUsers {
		f.blockedUsers[id] = struct{}{}
	}
	return f
}

// Allow reports whether the message passes admission. Messages without a
// content mapping are rejected outright.
func (f *Filter) Allow(msg object.Object) bool {
	if msg == nil {
		return false
	}

	content, ok := msg.Child("content")
	if !ok {
		return false
	}

	if len(f.allowedChats) > 0 {
		chatID, ok := msg.Int64("chat_id")
		if !ok {
			return false
		}
		if _, allowed := f.allowedChats[chatID]; !allowed {
			return false
		}
	}

	if senderID, ok := SenderID(msg); ok {
		if _, blocked := f.blockedUsers[senderID]; blocked {
			return false
		}
	}

	text := strings.ToLower(Text(content))

	return f.matchesAny(text, f.keywords) || f.matchesAny(text, f.flagWords)
}

// SenderID extracts the sender's user ID whether the sender arrives as a
// structured descriptor or a raw identifier.
func SenderID(msg object.Object) (int64, bool) {
	if sender, ok := msg.Child("sender_id"); ok {
		return sender.Int64("user_id")
	}
	return msg.Int64("sender_id")
}

// Text extracts the plain text of a content mapping, preferring the text
// field over the caption, falling back to empty.
func Text(content object.Object) string {
	if text, ok := content.Child("text"); ok {
		return text.String("text")
	}
	if caption, ok := content.Child("caption"); ok {
		return caption.String("text")
	}
	return ""
}

func (f *Filter) matchesAny(text string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func lowered(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		out = append(out, strings.ToLower(term))
	}
	return out
}
