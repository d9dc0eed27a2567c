package interactions

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/open-bracket/discord-reg-bot/app/shared/testutils"
	"github.com/stretchr/testify/assert"
)

func commandInteraction(name string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{Name: name},
		},
	}
}

func componentInteraction(customID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionMessageComponent,
			Data: discordgo.MessageComponentInteractionData{CustomID: customID},
		},
	}
}

func TestRegistry_ExactMatch(t *testing.T) {
	r := NewRegistry()
	var handled string
	r.RegisterHandler("register", func(_ context.Context, i *discordgo.InteractionCreate) {
		handled = i.ApplicationCommandData().Name
	})

	r.HandleInteraction(nil, commandInteraction("register"))
	assert.Equal(t, "register", handled)
}

func TestRegistry_PrefixMatch(t *testing.T) {
	r := NewRegistry()
	var handled string
	r.RegisterHandler("approve|", func(_ context.Context, i *discordgo.InteractionCreate) {
		handled = i.MessageComponentData().CustomID
	})

	r.HandleInteraction(nil, componentInteraction("approve|user-1"))
	assert.Equal(t, "approve|user-1", handled)

	handled = ""
	r.HandleInteraction(nil, componentInteraction("reject|user-1"))
	assert.Empty(t, handled)
}

func TestRegistry_CommandNameDoesNotSwallowButtonID(t *testing.T) {
	r := NewRegistry()
	var commandHits, buttonHits int
	r.RegisterHandler("register", func(context.Context, *discordgo.InteractionCreate) {
		commandHits++
	})
	r.RegisterHandler("register_now|", func(context.Context, *discordgo.InteractionCreate) {
		buttonHits++
	})

	// Map iteration order is random, so one dispatch could pass by luck.
	for i := 0; i < 500; i++ {
		r.HandleInteraction(nil, componentInteraction("register_now|user-1"))
	}
	assert.Zero(t, commandHits)
	assert.Equal(t, 500, buttonHits)

	r.HandleInteraction(nil, commandInteraction("register"))
	assert.Equal(t, 1, commandHits)
}

func TestRegistry_ExactIDNotUsedAsPrefix(t *testing.T) {
	r := NewRegistry()
	called := false
	r.RegisterHandler("status", func(context.Context, *discordgo.InteractionCreate) { called = true })

	r.HandleInteraction(nil, componentInteraction("status_extra"))
	assert.False(t, called)
}

func TestRegistry_UnknownTypeIgnored(t *testing.T) {
	r := NewRegistry()
	called := false
	r.RegisterHandler("register", func(context.Context, *discordgo.InteractionCreate) { called = true })

	r.HandleInteraction(nil, &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{Type: discordgo.InteractionPing},
	})
	assert.False(t, called)
}

func TestMessageRegistry_ConsumptionStopsFanout(t *testing.T) {
	r := NewMessageRegistry(testutils.NoOpLogger())
	var calls []string
	r.RegisterMessageCreateHandler(func(_ context.Context, m *discordgo.MessageCreate) bool {
		calls = append(calls, "first")
		return m.Content == "stop here"
	})
	r.RegisterMessageCreateHandler(func(context.Context, *discordgo.MessageCreate) bool {
		calls = append(calls, "second")
		return false
	})

	adder := &fakeAdder{}
	r.RegisterWithSession(adder)
	dispatch := adder.handler

	dispatch(nil, &discordgo.MessageCreate{Message: &discordgo.Message{
		Content: "stop here",
		Author:  &discordgo.User{ID: "user-1"},
	}})
	assert.Equal(t, []string{"first"}, calls)

	calls = nil
	dispatch(nil, &discordgo.MessageCreate{Message: &discordgo.Message{
		Content: "pass through",
		Author:  &discordgo.User{ID: "user-1"},
	}})
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestMessageRegistry_IgnoresBots(t *testing.T) {
	r := NewMessageRegistry(testutils.NoOpLogger())
	called := false
	r.RegisterMessageCreateHandler(func(context.Context, *discordgo.MessageCreate) bool {
		called = true
		return true
	})

	adder := &fakeAdder{}
	r.RegisterWithSession(adder)

	adder.handler(nil, &discordgo.MessageCreate{Message: &discordgo.Message{
		Content: "beep",
		Author:  &discordgo.User{ID: "bot-1", Bot: true},
	}})
	assert.False(t, called)
}

// fakeAdder captures the handler the registry hooks into the session.
type fakeAdder struct {
	handler func(s *discordgo.Session, e *discordgo.MessageCreate)
}

func (f *fakeAdder) AddHandler(handler interface{}) func() {
	f.handler = handler.(func(s *discordgo.Session, e *discordgo.MessageCreate))
	return func() {}
}
