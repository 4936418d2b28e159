package pubsub

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/boliche-reservas-poc/pkg/contracts/events"
)

type RedisBroadcaster struct {
	r       *redis.Client
	channel string
}

func NewRedisBroadcaster(r *redis.Client, channel string) *RedisBroadcaster {
	return &RedisBroadcaster{r: r, channel: channel}
}

// BroadcastReservationUpdated alimenta o feed ao vivo do dashboard-service
func (b *RedisBroadcaster) BroadcastReservationUpdated(ctx context.Context, e events.ReservationUpdated) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return b.r.Publish(ctx, b.channel, payload).Err()
}
