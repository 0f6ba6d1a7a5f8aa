package chat

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisRelay fans chat messages out to every instance subscribed to the same
// channel.
type RedisRelay struct {
	client  *redis.Client
	channel string
}

func NewRedisRelay(client *redis.Client, channel string) *RedisRelay {
	return &RedisRelay{client: client, channel: channel}
}

func (r *RedisRelay) Publish(ctx context.Context, msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, b).Err()
}

// Run subscribes and forwards every message to hub until ctx is done.
func (r *RedisRelay) Run(ctx context.Context, hub *Hub) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer func() { _ = sub.Close() }()
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	log.Info().Str("channel", r.channel).Msg("chat relay subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			deliver(hub, msg.Payload)
		}
	}
}

func deliver(hub *Hub, payload string) {
	var msg Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil || msg.Username == "" {
		relayErrorsTotal.Inc()
		log.Warn().Err(err).Msg("chat relay dropped malformed payload")
		return
	}
	if text, ok := normalize(Inbound{Type: msg.Type, Message: msg.Message}); ok {
		msg.Message = text
		hub.Broadcast(msg)
	}
}
