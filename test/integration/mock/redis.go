package mock

import (
	"context"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	redisOnce   sync.Once
	redisClient *redis.Client
)

// NewRedis returns a client for the suite's miniredis server, starting it on first use.
// The batch run tracker keeps its rule locks and run snapshots here.
func NewRedis() *redis.Client {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		redisClient = redis.NewClient(&redis.Options{Addr: server.Addr()})
	})

	return redisClient
}

// ClearRedis drops every batch run snapshot and rule lock.
func ClearRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushAll(ctx).Err()
}

