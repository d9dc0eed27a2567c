package testutils

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
)

// NoOpLogger returns a logger that discards everything.
func NoOpLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FakeEventBus is a programmable fake for eventbus.EventBus. It records
// published messages and, when PublishFunc is unset, accepts everything.
type FakeEventBus struct {
	mu          sync.Mutex
	published   map[string][]*message.Message
	PublishFunc func(topic string, messages ...*message.Message) error
}

func NewFakeEventBus() *FakeEventBus {
	return &FakeEventBus{published: make(map[string][]*message.Message)}
}

func (f *FakeEventBus) Publish(topic string, messages ...*message.Message) error {
	if f.PublishFunc != nil {
		if err := f.PublishFunc(topic, messages...); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published[topic] = append(f.published[topic], messages...)
	return nil
}

func (f *FakeEventBus) Subscribe(_ context.Context, _ string) (<-chan *message.Message, error) {
	ch := make(chan *message.Message)
	close(ch)
	return ch, nil
}

func (f *FakeEventBus) Close() error { return nil }

// FailPublishes makes every subsequent Publish return an error.
func (f *FakeEventBus) FailPublishes() {
	f.PublishFunc = func(string, ...*message.Message) error {
		return errors.New("publish failed")
	}
}

// Published returns the messages recorded for a topic.
func (f *FakeEventBus) Published(topic string) []*message.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*message.Message(nil), f.published[topic]...)
}
