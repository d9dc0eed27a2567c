package interactions

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

type discordgoAdder interface {
	AddHandler(handler interface{}) func()
}

// MessageHandlerCreate is the signature of MessageCreate handlers. A handler
// returns true when it consumed the message; later handlers then do not run.
type MessageHandlerCreate func(ctx context.Context, m *discordgo.MessageCreate) bool

// MessageRegistry fans MessageCreate events out to registered handlers in
// registration order.
type MessageRegistry struct {
	handlers []MessageHandlerCreate
	logger   *slog.Logger
}

func NewMessageRegistry(logger *slog.Logger) *MessageRegistry {
	return &MessageRegistry{logger: logger}
}

func (r *MessageRegistry) RegisterMessageCreateHandler(handler MessageHandlerCreate) {
	r.handlers = append(r.handlers, handler)
}

// RegisterWithSession hooks the registry into the gateway session.
func (r *MessageRegistry) RegisterWithSession(session discordgoAdder) {
	session.AddHandler(func(s *discordgo.Session, e *discordgo.MessageCreate) {
		if e == nil || e.Message == nil || e.Author == nil {
			return
		}
		// Ignore the bot's own messages to prevent recursion.
		if s != nil && s.State != nil && s.State.User != nil && e.Author.ID == s.State.User.ID {
			return
		}
		if e.Author.Bot {
			return
		}

		ctx := context.Background()
		for _, handler := range r.handlers {
			if handler(ctx, e) {
				return
			}
		}
	})
}
