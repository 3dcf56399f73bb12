package messaging_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/serroba/linktree-go/internal/analytics"
	"github.com/serroba/linktree-go/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errSubscribe = errors.New("subscribe error")

type mockSubscriber struct {
	msgChan      chan *message.Message
	subscribeErr error
	mu           sync.Mutex
	closed       bool
	topics       []string
}

func newMockSubscriber() *mockSubscriber {
	return &mockSubscriber{
		msgChan: make(chan *message.Message, 10),
	}
}

func (m *mockSubscriber) Subscribe(_ context.Context, topic string) (<-chan *message.Message, error) {
	if m.subscribeErr != nil {
		return nil, m.subscribeErr
	}

	m.mu.Lock()
	m.topics = append(m.topics, topic)
	m.mu.Unlock()

	return m.msgChan, nil
}

func (m *mockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.msgChan)
	}

	return nil
}

type mockPublisher struct {
	messages   []*message.Message
	topic      string
	publishErr error
	closeErr   error
}

func (m *mockPublisher) Publish(topic string, msgs ...*message.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}

	m.topic = topic
	m.messages = append(m.messages, msgs...)

	return nil
}

func (m *mockPublisher) Close() error {
	return m.closeErr
}

func changedEvent() *analytics.LinktreeChangedEvent {
	return analytics.NewLinktreeChangedEvent("alice", analytics.ActionLinkCreated)
}

func TestNewPublishFunc(t *testing.T) {
	t.Run("publishes the event as json", func(t *testing.T) {
		mock := &mockPublisher{}
		publish := messaging.NewPublishFunc[analytics.LinktreeChangedEvent](
			mock, analytics.TopicLinktreeChanged)

		err := publish(changedEvent())

		require.NoError(t, err)
		assert.Equal(t, analytics.TopicLinktreeChanged, mock.topic)
		require.Len(t, mock.messages, 1)
		assert.Contains(t, string(mock.messages[0].Payload), `"suffix":"alice"`)
		assert.NotEmpty(t, mock.messages[0].UUID)
	})

	t.Run("returns the publisher error", func(t *testing.T) {
		mock := &mockPublisher{publishErr: errors.New("publish error")}
		publish := messaging.NewPublishFunc[analytics.LinktreeChangedEvent](
			mock, analytics.TopicLinktreeChanged)

		err := publish(changedEvent())

		assert.Error(t, err)
	})
}

func TestPublisherGroup(t *testing.T) {
	t.Run("exposes the underlying publisher", func(t *testing.T) {
		mock := &mockPublisher{}
		group := messaging.NewPublisherGroup(mock)

		assert.Equal(t, mock, group.Publisher())
	})

	t.Run("shutdown closes the publisher", func(t *testing.T) {
		mock := &mockPublisher{closeErr: errors.New("close error")}
		group := messaging.NewPublisherGroup(mock)

		assert.Error(t, group.Shutdown())
	})
}

func TestConsumer(t *testing.T) {
	t.Run("starts and subscribes to its topic", func(t *testing.T) {
		sub := newMockSubscriber()
		consumer := messaging.NewConsumer(
			sub,
			analytics.TopicLinktreeChanged,
			func(_ context.Context, _ *analytics.LinktreeChangedEvent) error { return nil },
			zap.NewNop(),
		)

		err := consumer.Start(context.Background())

		require.NoError(t, err)
		assert.Equal(t, analytics.TopicLinktreeChanged, consumer.Topic())
		assert.Equal(t, []string{analytics.TopicLinktreeChanged}, sub.topics)

		_ = consumer.Shutdown()
	})

	t.Run("returns an error when subscribe fails", func(t *testing.T) {
		sub := &mockSubscriber{subscribeErr: errSubscribe}
		consumer := messaging.NewConsumer(
			sub,
			analytics.TopicLinktreeChanged,
			func(_ context.Context, _ *analytics.LinktreeChangedEvent) error { return nil },
			zap.NewNop(),
		)

		assert.ErrorIs(t, consumer.Start(context.Background()), errSubscribe)
	})

	t.Run("acks after the handler succeeds", func(t *testing.T) {
		sub := newMockSubscriber()

		var received *analytics.LinktreeChangedEvent

		consumer := messaging.NewConsumer(
			sub,
			analytics.TopicLinktreeChanged,
			func(_ context.Context, event *analytics.LinktreeChangedEvent) error {
				received = event

				return nil
			},
			zap.NewNop(),
		)

		require.NoError(t, consumer.Start(context.Background()))

		payload, err := json.Marshal(changedEvent())
		require.NoError(t, err)

		msg := message.NewMessage(uuid.NewString(), payload)
		sub.msgChan <- msg

		select {
		case <-msg.Acked():
			assert.Equal(t, "alice", received.Suffix)
			assert.Equal(t, analytics.ActionLinkCreated, received.Action)
		case <-msg.Nacked():
			t.Fatal("message was nacked")
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for ack")
		}

		_ = consumer.Shutdown()
	})

	t.Run("nacks when the payload is not json", func(t *testing.T) {
		sub := newMockSubscriber()
		consumer := messaging.NewConsumer(
			sub,
			analytics.TopicLinktreeChanged,
			func(_ context.Context, _ *analytics.LinktreeChangedEvent) error { return nil },
			zap.NewNop(),
		)

		require.NoError(t, consumer.Start(context.Background()))

		msg := message.NewMessage(uuid.NewString(), []byte("invalid json"))
		sub.msgChan <- msg

		select {
		case <-msg.Nacked():
		case <-msg.Acked():
			t.Fatal("message should have been nacked")
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for nack")
		}

		_ = consumer.Shutdown()
	})

	t.Run("nacks when the handler fails", func(t *testing.T) {
		sub := newMockSubscriber()
		consumer := messaging.NewConsumer(
			sub,
			analytics.TopicLinktreeChanged,
			func(_ context.Context, _ *analytics.LinktreeChangedEvent) error {
				return errors.New("handler error")
			},
			zap.NewNop(),
		)

		require.NoError(t, consumer.Start(context.Background()))

		payload, err := json.Marshal(changedEvent())
		require.NoError(t, err)

		msg := message.NewMessage(uuid.NewString(), payload)
		sub.msgChan <- msg

		select {
		case <-msg.Nacked():
		case <-msg.Acked():
			t.Fatal("message should have been nacked")
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for nack")
		}

		_ = consumer.Shutdown()
	})
}

func TestConsumerGroup(t *testing.T) {
	newGroupConsumer := func(sub message.Subscriber, topic string) *messaging.Consumer[analytics.LinktreeChangedEvent] {
		return messaging.NewConsumer(
			sub,
			topic,
			func(_ context.Context, _ *analytics.LinktreeChangedEvent) error { return nil },
			zap.NewNop(),
		)
	}

	t.Run("starts and shuts down all consumers", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		group.Add(newGroupConsumer(sub, analytics.TopicLinktreeChanged))
		group.Add(newGroupConsumer(sub, analytics.TopicLinktreeViewed))

		require.NoError(t, group.Start(context.Background()))
		require.NoError(t, group.Shutdown())

		assert.ElementsMatch(t,
			[]string{analytics.TopicLinktreeChanged, analytics.TopicLinktreeViewed},
			sub.topics,
		)
		assert.True(t, sub.closed)
	})

	t.Run("fails fast when a consumer cannot start", func(t *testing.T) {
		good := newMockSubscriber()
		bad := &mockSubscriber{subscribeErr: errSubscribe}

		group := messaging.NewConsumerGroup(good, zap.NewNop())
		group.Add(newGroupConsumer(good, analytics.TopicLinktreeChanged))
		group.Add(newGroupConsumer(bad, analytics.TopicLinktreeViewed))

		assert.Error(t, group.Start(context.Background()))
	})
}
