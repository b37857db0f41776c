// Package preload reconciles each configured chat with the store at
// startup: chat metadata, the full member roster, and departure marking
// for members absent from the remote list.
package preload

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/NatyaLunenok/telegram-aggregator/internal/errs"
	"github.com/NatyaLunenok/telegram-aggregator/internal/metrics"
	"github.com/NatyaLunenok/telegram-aggregator/internal/model"
	"github.com/NatyaLunenok/telegram-aggregator/internal/object"
	"github.com/NatyaLunenok/telegram-aggregator/internal/roster"
	"github.com/NatyaLunenok/telegram-aggregator/internal/telegram"
)

// Store is the slice of the storage layer the preloader drives.
type Store interface {
	UpsertChat(chat *model.Chat) error
	UpsertUser(user *model.User) error
	UpsertMember(member *model.ChatMember) error
	ActiveMemberIDs(chatID model.ChatID) ([]int64, error)
	MarkDeparted(chatID model.ChatID, userIDs []int64, leftRoleID int) (int64, error)
	ChatTypeCode(tag string) int
	RoleCode(tag string) int
}

type Preloader struct {
	client  telegram.Client
	db      Store
	metrics metrics.Metrics
	logger  *slog.Logger
	chats   []int64
}

func New(client telegram.Client, db Store, m metrics.Metrics, logger *slog.Logger, chats []int64) *Preloader {
	return &Preloader{
		client:  client,
		db:      db,
		metrics: m,
		logger:  logger,
		chats:   chats,
	}
}

// Run reconciles every configured chat sequentially. A fault on one chat
// is logged and the next chat is processed; Run never fails as a whole.
func (p *Preloader) Run(ctx context.Context) {
	for _, chatID := range p.chats {
		if err := p.loadChat(ctx, chatID); err != nil {
			p.logger.ErrorContext(ctx, "chat preload failed",
				slog.Int64("chat_id", chatID),
				slog.String("error", err.Error()))
		}
	}
}

func (p *Preloader) loadChat(ctx context.Context, chatID int64) error {
	p.logger.InfoContext(ctx, "preloading chat", slog.Int64("chat_id", chatID))

	chatInfo, err := p.client.GetChat(ctx, chatID)
	if err != nil {
		return err
	}
	if !chatInfo.Has("id", "type") {
		return errs.WrapIncompletePayload("chat", "id", "type")
	}

	chatType, _ := chatInfo.Child("type")
	typeTag := chatType.String("@type")

	if err := p.db.UpsertChat(p.buildChat(chatInfo, typeTag)); err != nil {
		return err
	}

	p.metrics.LogChatEvent("chat_preloaded", chatID, map[string]interface{}{"type": typeTag})

	var fullInfo object.Object

	switch typeTag {
	case "chatTypeBasicGroup":
		groupID, ok := chatType.Int64("basic_group_id")
		if !ok {
			return errs.WrapIncompletePayload("chat type", "basic_group_id")
		}
		fullInfo, err = p.client.CallMethod(ctx, "getBasicGroupFullInfo", object.Object{"basic_group_id": groupID})
	case "chatTypeSupergroup", "chatTypeChannel":
		supergroupID, ok := chatType.Int64("supergroup_id")
		if !ok {
			return errs.WrapIncompletePayload("chat type", "supergroup_id")
		}
		fullInfo, err = p.client.GetSupergroupFullInfo(ctx, supergroupID)
	default:
		return nil // private chats carry no roster
	}
	if err != nil {
		return err
	}

	p.processMembers(ctx, model.ChatID(chatID), fullInfo)

	return nil
}

func (p *Preloader) buildChat(chatInfo object.Object, typeTag string) *model.Chat {
	id, _ := chatInfo.Int64("id")

	var handle string
	if usernames, ok := chatInfo.Child("usernames"); ok {
		if active := usernames.Strings("active_usernames"); len(active) > 0 {
			handle = active[0]
		}
	}

	return &model.Chat{
		ID:          model.ChatID(id),
		Title:       chatInfo.String("title"),
		TypeID:      p.db.ChatTypeCode(typeTag),
		Description: chatInfo.String("description"),
		Handle:      handle,
		IsVerified:  chatInfo.Bool("is_verified"),
		IsScam:      chatInfo.Bool("is_scam"),
	}
}

// processMembers upserts every remote member, then marks locally-active
// members absent from the remote list as departed. One member's fault
// never aborts the rest of the roster pass.
func (p *Preloader) processMembers(ctx context.Context, chatID model.ChatID, fullInfo object.Object) {
	members := fullInfo.Slice("members")
	remote := make([]int64, 0, len(members))

	for _, member := range members {
		userID, ok := memberUserID(member)
		if !ok {
			continue
		}

		// Presence in the remote roster is decided by the fetch alone. A
		// persistence fault below must not drop the member from the set,
		// or the departure pass would stamp a present member as left.
		remote = append(remote, userID)

		if err := p.upsertUser(ctx, userID); err != nil {
			p.logger.ErrorContext(ctx, "user refresh failed",
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()))
		}

		status, _ := member.Child("status")
		joined, _ := member.Int64("joined_chat_date")

		membership := &model.ChatMember{
			ChatID:   chatID,
			UserID:   model.UserID(userID),
			JoinDate: time.Unix(joined, 0).UTC(),
			RoleID:   p.db.RoleCode(status.String("@type")),
		}
		if err := p.db.UpsertMember(membership); err != nil {
			p.logger.ErrorContext(ctx, "membership upsert failed",
				slog.Int64("chat_id", chatID.ToInt64()),
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()))
		}
	}

	// A roster shorter than the reported member count is partial (the
	// upstream source may only hand back a page); marking departures
	// from it would stamp present-but-unfetched members as left.
	if count, ok := fullInfo.Int64("member_count"); ok && count > int64(len(members)) {
		p.logger.WarnContext(ctx, "partial member list, skipping departure marking",
			slog.Int64("chat_id", chatID.ToInt64()),
			slog.Int64("member_count", count),
			slog.Int("fetched", len(members)))
		return
	}

	active, err := p.db.ActiveMemberIDs(chatID)
	if err != nil {
		p.logger.ErrorContext(ctx, "active roster load failed",
			slog.Int64("chat_id", chatID.ToInt64()),
			slog.String("error", err.Error()))
		return
	}

	departed := roster.Diff(active, remote)
	if len(departed) == 0 {
		return
	}

	marked, err := p.db.MarkDeparted(chatID, departed, p.db.RoleCode("chatMemberStatusLeft"))
	if err != nil {
		p.logger.ErrorContext(ctx, "departure marking failed",
			slog.Int64("chat_id", chatID.ToInt64()),
			slog.String("error", err.Error()))
		return
	}

	p.logger.InfoContext(ctx, "members marked as departed",
		slog.Int64("chat_id", chatID.ToInt64()),
		slog.Int64("count", marked))
	p.metrics.LogChatEvent("member_departed", chatID.ToInt64(), map[string]interface{}{"count": marked})
}

// upsertUser refreshes a user row from the upstream user info call.
func (p *Preloader) upsertUser(ctx context.Context, userID int64) error {
	userInfo, err := p.client.CallMethod(ctx, "getUser", object.Object{"user_id": userID})
	if err != nil {
		return err
	}

	id, ok := userInfo.Int64("id")
	if !ok {
		id = userID
	}

	var handle string
	if usernames, ok := userInfo.Child("usernames"); ok {
		if active := usernames.Strings("active_usernames"); len(active) > 0 {
			handle = active[0]
		}
	}

	status, _ := userInfo.Child("status")

	return p.db.UpsertUser(&model.User{
		ID:          model.UserID(id),
		FirstName:   userInfo.String("first_name"),
		LastName:    userInfo.String("last_name"),
		Handle:      handle,
		PhoneNumber: userInfo.String("phone_number"),
		IsBot:       false,
		LastOnline:  lastOnline(status),
	})
}

// memberUserID extracts the user ID from a direct field or the nested
// member descriptor.
func memberUserID(member object.Object) (int64, bool) {
	if id, ok := member.Int64("user_id"); ok {
		return id, true
	}
	if descriptor, ok := member.Child("member_id"); ok {
		return descriptor.Int64("user_id")
	}
	return 0, false
}

// lastOnline derives the last-online timestamp from a user status
// payload, null when the status carries no usable time.
func lastOnline(status object.Object) sql.NullTime {
	switch status.String("@type") {
	case "userStatusOnline":
		return sql.NullTime{Time: time.Now().UTC(), Valid: true}
	case "userStatusOffline":
		wasOnline, ok := status.Int64("was_online")
		if !ok {
			return sql.NullTime{}
		}
		return sql.NullTime{Time: time.Unix(wasOnline, 0).UTC(), Valid: true}
	default:
		return sql.NullTime{}
	}
}
