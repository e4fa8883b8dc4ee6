package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fanoutChannel = "realtime:events"
	// publishTimeout ограничивает задержку запроса, если Redis тормозит.
	publishTimeout = 300 * time.Millisecond
)

// PubSub is the subset of the Redis store used for cross-instance delivery.
type PubSub interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) *redis.PubSub
}

type envelope struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// RedisFanout publishes events through Redis so every instance delivers them
// to its own websocket clients.
type RedisFanout struct {
	hub     *Hub
	ps      PubSub
	logger  *slog.Logger
	timeout time.Duration
}

func NewRedisFanout(hub *Hub, ps PubSub, logger *slog.Logger) *RedisFanout {
	return &RedisFanout{hub: hub, ps: ps, logger: logger, timeout: publishTimeout}
}

func (f *RedisFanout) Broadcast(ctx context.Context, topic, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		f.logger.Error("failed to marshal broadcast payload", "topic", topic, "event", event, "error", err)
		return
	}
	msg, err := json.Marshal(envelope{Topic: topic, Event: event, Payload: data})
	if err != nil {
		f.logger.Error("failed to marshal broadcast envelope", "topic", topic, "error", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
	defer cancel()
	if err := f.ps.Publish(pubCtx, fanoutChannel, msg); err != nil {
		// Redis недоступен: доставляем хотя бы локальным клиентам.
		f.logger.Warn("fanout publish failed, delivering locally", "topic", topic, "event", event, "error", err)
		f.hub.Broadcast(ctx, topic, event, json.RawMessage(data))
	}
}

// Run relays published events to the local hub until ctx is done.
func (f *RedisFanout) Run(ctx context.Context) {
	sub := f.ps.Subscribe(ctx, fanoutChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				f.logger.Warn("dropping malformed fanout message", "error", err)
				continue
			}
			f.hub.Broadcast(ctx, env.Topic, env.Event, env.Payload)
		}
	}
}
