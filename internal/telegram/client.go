package telegram

import (
	"context"

	"github.com/NatyaLunenok/telegram-aggregator/internal/object"
)

// Client is the narrow interface the reconciliation core consumes. Every
// result is normalized into object.Object before it crosses this
// boundary; bounded waits on remote calls are the implementation's
// responsibility.
type Client interface {
	// GetChat fetches chat metadata in the canonical envelope shape.
	GetChat(ctx context.Context, chatID int64) (object.Object, error)

	// CallMethod invokes a named upstream method with the given
	// arguments. Used for full group info and user info.
	CallMethod(ctx context.Context, name string, args object.Object) (object.Object, error)

	// GetSupergroupFullInfo fetches the full info of a supergroup or
	// channel, including its member list and member count.
	GetSupergroupFullInfo(ctx context.Context, supergroupID int64) (object.Object, error)
}
