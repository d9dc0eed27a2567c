package eventbus

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventBus is the publish/subscribe surface the rest of the bot talks to.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

type eventBus struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

// NewEventBus creates an in-process event bus backed by watermill's
// gochannel Pub/Sub. Every handler of the process shares the one bus.
func NewEventBus(ctx context.Context, logger *slog.Logger) (EventBus, error) {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NopLogger{},
	)
	logger.InfoContext(ctx, "Created in-process event bus")
	return &eventBus{pubSub: pubSub, logger: logger}, nil
}

func (b *eventBus) Publish(topic string, messages ...*message.Message) error {
	return b.pubSub.Publish(topic, messages...)
}

func (b *eventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, topic)
}

func (b *eventBus) Close() error {
	return b.pubSub.Close()
}
