package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Dedup de notificações confirmadas: dedup:webhook:{paymentID}
const keyFormat = "dedup:webhook:%s"

const DefaultTTL = 48 * time.Hour

type Redis struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedis(c *redis.Client, ttl time.Duration) *Redis {
	return &Redis{Client: c, TTL: ttl}
}

func key(paymentID string) string { return fmt.Sprintf(keyFormat, paymentID) }

// FirstDelivery usa SETNX: só a primeira chamada para o pagamento recebe true
func (r *Redis) FirstDelivery(ctx context.Context, paymentID string) (bool, error) {
	return r.Client.SetNX(ctx, key(paymentID), time.Now().UTC().Format(time.RFC3339), r.TTL).Result()
}

// Release apaga a marca para que uma nova entrega refaça os efeitos
func (r *Redis) Release(ctx context.Context, paymentID string) error {
	return r.Client.Del(ctx, key(paymentID)).Err()
}
