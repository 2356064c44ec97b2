package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisKVClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisKV struct {
	client  redisKVClient
	prefix  string
	timeout time.Duration
}

// NewRedisKV guarda la sesion en Redis bajo prefix (por ejemplo
// "library:session:<perfil>:"). Las claves no expiran; la expiracion la
// decide el servidor con un 401.
func NewRedisKV(client *redis.Client, prefix string) KV {
	if client == nil {
		return nil
	}
	return newRedisKV(client, prefix)
}

func newRedisKV(client redisKVClient, prefix string) *redisKV {
	if strings.TrimSpace(prefix) == "" {
		prefix = "library:session:"
	}
	return &redisKV{
		client:  client,
		prefix:  prefix,
		timeout: 500 * time.Millisecond,
	}
}

func (s *redisKV) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (s *redisKV) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *redisKV) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Del(ctx, s.prefix+key).Err()
}
