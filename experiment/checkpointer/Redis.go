package checkpointer

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis checkpoints an object to a redis key every N episodes
type Redis struct {
	client   *redis.Client
	key      string
	interval int
	object   Serializable
	timeout  time.Duration
}

// NewRedis returns a new Redis checkpointer which stores object under
// key every n episodes
func NewRedis(client *redis.Client, key string, n int, object Serializable,
	timeout time.Duration) *Redis {
	return &Redis{
		client:   client,
		key:      key,
		interval: max(n, 1),
		object:   object,
		timeout:  timeout,
	}
}

// Checkpoint saves the tracked object if episode is a multiple of the
// checkpointing interval
func (r *Redis) Checkpoint(episode int) error {
	if episode%r.interval != 0 {
		return nil
	}

	data, err := Encode(r.object)
	if err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("checkpoint: could not store %v: %w", r.key, err)
	}
	return nil
}

// Restore restores the tracked object from its last checkpoint. It
// returns false if no checkpoint exists.
func (r *Redis) Restore(ctx context.Context) (bool, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("restore: could not load %v: %w", r.key, err)
	}
	return true, Decode(data, r.object)
}
