package interactions

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Registry routes interactions (slash commands, buttons, select menus) to
// handlers by exact id or custom-id prefix.
type Registry struct {
	handlers map[string]func(ctx context.Context, i *discordgo.InteractionCreate)
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]func(ctx context.Context, i *discordgo.InteractionCreate)),
	}
}

// RegisterHandler binds an id to a handler. Ids ending in "|" are treated as
// custom-id prefixes; anything else must match exactly.
func (r *Registry) RegisterHandler(id string, handler func(ctx context.Context, i *discordgo.InteractionCreate)) {
	r.handlers[id] = handler
}

// HandleInteraction dispatches one interaction to the first matching handler.
func (r *Registry) HandleInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	var id string

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		id = i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		id = i.MessageComponentData().CustomID
	default:
		return
	}

	if handler, ok := r.handlers[id]; ok {
		handler(ctx, i)
		return
	}
	// Only explicit prefixes participate in the fallback; a plain command
	// name must never swallow a custom id it happens to lead.
	for key, handler := range r.handlers {
		if strings.HasSuffix(key, "|") && strings.HasPrefix(id, key) {
			handler(ctx, i)
			return
		}
	}
}
