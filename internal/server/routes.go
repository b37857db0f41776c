package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/NatyaLunenok/telegram-aggregator/api"
	"github.com/NatyaLunenok/telegram-aggregator/internal/model"
	"github.com/NatyaLunenok/telegram-aggregator/internal/storage"
)

// AddAggregatorRoutes exposes read-only views over the aggregated store.
func (srv *Server) AddAggregatorRoutes(db *storage.Storage) {
	srv.public.HandleFunc("/echo", echoRoute)
	srv.public.Route("/chats", func(r chi.Router) {
		r.Get("/", listChatsRoute(db))
		r.Get("/{chatID}/members", listMembersRoute(db))
		r.Get("/{chatID}/messages", listMessagesRoute(db))
	})
}

// echo route for testing purposes
func echoRoute(w http.ResponseWriter, r *http.Request) {
	var data map[string]any

	if r.ContentLength != 0 {
		if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
			if err := render.Decode(r, &data); err != nil {
				api.NewResponse().SetError("bad_request", err.Error()).BadRequest(w)

				return
			}
		} else {
			msg := fmt.Sprintf("Content-Type: %s", r.Header.Get("Content-Type"))

			api.NewResponse().SetError("bad_request", "Content-Type must be application/json", msg).BadRequest(w)

			return
		}
	}

	api.NewResponse().SetData(struct {
		URL     string         `json:"url"`
		Remote  string         `json:"remote"`
		Method  string         `json:"method"`
		Headers http.Header    `json:"headers"`
		Body    map[string]any `json:"body"`
	}{
		URL:     r.URL.String(),
		Remote:  r.RemoteAddr,
		Method:  r.Method,
		Headers: r.Header,
		Body:    data,
	}).Ok(w)
}

func listChatsRoute(db *storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		chats, err := db.Chats()
		if err != nil {
			api.NewResponse().SetError("storage_error", err.Error()).InternalServerError(w)
			return
		}

		api.NewResponse().SetData(map[string]any{"chats": chats}).Ok(w)
	}
}

func listMembersRoute(db *storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID, ok := chatIDParam(w, r)
		if !ok {
			return
		}

		members, err := db.ActiveMembers(model.ChatID(chatID))
		if err != nil {
			api.NewResponse().SetError("storage_error", err.Error()).InternalServerError(w)
			return
		}

		api.NewResponse().SetData(map[string]any{"members": members}).Ok(w)
	}
}

func listMessagesRoute(db *storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID, ok := chatIDParam(w, r)
		if !ok {
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		messages, err := db.ChatMessages(model.ChatID(chatID), limit)
		if err != nil {
			api.NewResponse().SetError("storage_error", err.Error()).InternalServerError(w)
			return
		}

		api.NewResponse().SetData(map[string]any{"messages": messages}).Ok(w)
	}
}

func chatIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	chatID, err := strconv.ParseInt(chi.URLParam(r, "chatID"), 10, 64)
	if err != nil {
		api.NewResponse().SetError("bad_request", "chatID must be an integer").BadRequest(w)
		return 0, false
	}
	return chatID, true
}
