package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	redisKeyPrefix = "otp:"
	// Keys outlive the code slightly so Verify can still report ErrExpired
	// instead of ErrNotFound right after expiry.
	redisExpiryGrace = time.Minute
	maxTxRetries     = 5
)

// RedisLedger stores codes in Redis so every replica sees the same pending
// codes. Verify runs inside WATCH/MULTI so fetch, compare and delete are
// atomic per key.
type RedisLedger struct {
	client *redis.Client
	nowF   func() time.Time
	codeF  func() (string, error)
}

// NewRedisClient parses a redis:// URL and checks the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{
		client: client,
		nowF:   time.Now,
		codeF:  GenerateCode,
	}
}

func (l *RedisLedger) key(phoneKey string) string {
	return redisKeyPrefix + phoneKey
}

func (l *RedisLedger) Issue(ctx context.Context, phoneKey, deliveryHandle string) (string, error) {
	code, err := l.codeF()
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(Entry{
		Code:           code,
		ExpiresAt:      l.nowF().Add(TTL),
		DeliveryHandle: deliveryHandle,
	})
	if err != nil {
		return "", fmt.Errorf("otp: marshal entry: %w", err)
	}
	if err := l.client.Set(ctx, l.key(phoneKey), data, TTL+redisExpiryGrace).Err(); err != nil {
		return "", fmt.Errorf("otp: redis set: %w", err)
	}
	return code, nil
}

func (l *RedisLedger) Verify(ctx context.Context, phoneKey, code string) error {
	key := l.key(phoneKey)
	var result error

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			result = ErrNotFound
			return nil
		}
		if err != nil {
			return err
		}

		remove := true
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			// Unreadable entries are dropped and treated as absent.
			result = ErrNotFound
		} else {
			remove, result = check(e, code, l.nowF())
		}
		if !remove {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := l.client.Watch(ctx, txf, key)
		if err == nil {
			return result
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("otp: redis verify: %w", err)
	}
	return fmt.Errorf("otp: redis verify: %w", redis.TxFailedErr)
}

func (l *RedisLedger) Delete(ctx context.Context, phoneKey string) error {
	if err := l.client.Del(ctx, l.key(phoneKey)).Err(); err != nil {
		return fmt.Errorf("otp: redis del: %w", err)
	}
	return nil
}
