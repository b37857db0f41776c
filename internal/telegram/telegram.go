// Library repository: https://github.com/tucnak/telebot

package telegram

import (
	"context"
	"log/slog"
	"net/http"

	config "github.com/NatyaLunenok/telegram-aggregator/internal/config"
	"github.com/NatyaLunenok/telegram-aggregator/internal/errs"
	log "github.com/NatyaLunenok/telegram-aggregator/internal/log"
	"github.com/NatyaLunenok/telegram-aggregator/internal/object"

	tele "gopkg.in/telebot.v3"
	mw "gopkg.in/telebot.v3/middleware"
)

// Telegram adapts the bot API behind the Client interface and feeds
// inbound messages, converted to canonical envelopes, into a handler.
type Telegram struct {
	bot     *tele.Bot
	handler func(object.Object)
}

var _ Client = (*Telegram)(nil)

func New(config *config.Config, httpClient *http.Client, logger *slog.Logger) (*Telegram, error) {
	pref := tele.Settings{
		Token: config.Telegram.Token,
		Poller: &tele.LongPoller{
			Timeout: config.Telegram.Timeout,
		},
		OnError: func(err error, _ tele.Context) {
			logger.Error("telegram error", slog.String("error", err.Error()))
		},
	}
	if httpClient != nil {
		pref.Client = httpClient
	}

	bot, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	// Global-scoped middleware:
	bot.Use(mw.Recover())
	bot.Use(mw.AutoRespond())
	bot.Use(mw.Logger(log.NewLogAdapter(logger)))

	telegram := &Telegram{bot: bot}

	onMessage := func(c tele.Context) error {
		if telegram.handler == nil {
			return nil
		}
		if envelope := MessageEnvelope(c.Message()); envelope != nil {
			telegram.handler(envelope)
		}
		return nil
	}

	bot.Handle(tele.OnText, onMessage)
	bot.Handle(tele.OnPhoto, onMessage)
	bot.Handle(tele.OnVideo, onMessage)
	bot.Handle(tele.OnDocument, onMessage)

	return telegram, nil
}

// OnMessage registers the handler invoked for each inbound message
// envelope. Must be called before Start.
func (t *Telegram) OnMessage(handler func(object.Object)) {
	t.handler = handler
}

// Start begins long polling. Blocks until Stop is called.
func (t *Telegram) Start() {
	t.bot.Start()
}

// Stop stops the poller.
func (t *Telegram) Stop() {
	t.bot.Stop()
}

// GetChat implements Client.
func (t *Telegram) GetChat(_ context.Context, chatID int64) (object.Object, error) {
	result, err := t.raw("getChat", map[string]any{"chat_id": chatID})
	if err != nil {
		return nil, err
	}
	return ChatEnvelope(result), nil
}

// GetSupergroupFullInfo implements Client.
func (t *Telegram) GetSupergroupFullInfo(_ context.Context, supergroupID int64) (object.Object, error) {
	return t.fullInfo(supergroupID)
}

// CallMethod implements Client. Known full-info and user methods are
// translated onto bot API calls, everything else passes through by name.
func (t *Telegram) CallMethod(ctx context.Context, name string, args object.Object) (object.Object, error) {
	switch name {
	case "getBasicGroupFullInfo":
		id, ok := args.Int64("basic_group_id")
		if !ok {
			return nil, errs.WrapIncompletePayload(name, "basic_group_id")
		}
		return t.fullInfo(id)
	case "getSupergroupFullInfo":
		id, ok := args.Int64("supergroup_id")
		if !ok {
			return nil, errs.WrapIncompletePayload(name, "supergroup_id")
		}
		return t.fullInfo(id)
	case "getUser":
		id, ok := args.Int64("user_id")
		if !ok {
			return nil, errs.WrapIncompletePayload(name, "user_id")
		}
		result, err := t.raw("getChat", map[string]any{"chat_id": id})
		if err != nil {
			return nil, err
		}
		return UserEnvelope(result), nil
	default:
		return t.raw(name, map[string]any(args))
	}
}

// fullInfo composes the member list and the member count into the
// canonical full-info payload. The bot API only exposes administrators,
// so the count lets the preloader detect the roster is partial.
func (t *Telegram) fullInfo(chatID int64) (object.Object, error) {
	response, err := t.rawResponse("getChatAdministrators", map[string]any{"chat_id": chatID})
	if err != nil {
		return nil, err
	}
	members := response.Slice("result")

	countResponse, err := t.rawResponse("getChatMemberCount", map[string]any{"chat_id": chatID})
	if err != nil {
		return nil, err
	}
	count, _ := countResponse.Int64("result")

	return FullInfoEnvelope(members, count), nil
}

// raw calls a bot API method and returns the normalized result mapping.
func (t *Telegram) raw(method string, payload map[string]any) (object.Object, error) {
	response, err := t.rawResponse(method, payload)
	if err != nil {
		return nil, err
	}

	result, ok := response.Child("result")
	if !ok {
		return nil, errs.WrapIncompletePayload(method, "result")
	}

	return result, nil
}

// rawResponse calls a bot API method and normalizes the whole response
// envelope, keeping list-valued results reachable.
func (t *Telegram) rawResponse(method string, payload map[string]any) (object.Object, error) {
	data, err := t.bot.Raw(method, payload)
	if err != nil {
		return nil, err
	}

	return object.Normalize(data)
}
