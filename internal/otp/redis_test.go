package otp

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisLedgerTest(t *testing.T) (*RedisLedger, *miniredis.Miniredis, *fakeClock) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	clock := &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	l := NewRedisLedger(client)
	l.nowF = clock.Now
	return l, mr, clock
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-url")
	assert.Error(t, err)
}

func TestRedisLedger_IssueThenVerifyOnce(t *testing.T) {
	l, mr, _ := setupRedisLedgerTest(t)
	ctx := context.Background()

	code, err := l.Issue(ctx, "9876543210", "dev-skip")
	require.NoError(t, err)
	assert.True(t, mr.Exists("otp:9876543210"))
	assert.Equal(t, TTL+redisExpiryGrace, mr.TTL("otp:9876543210"))

	assert.NoError(t, l.Verify(ctx, "9876543210", code))
	assert.False(t, mr.Exists("otp:9876543210"))
	assert.ErrorIs(t, l.Verify(ctx, "9876543210", code), ErrNotFound)
}

func TestRedisLedger_Mismatch(t *testing.T) {
	l, mr, _ := setupRedisLedgerTest(t)
	ctx := context.Background()
	l.codeF = func() (string, error) { return "123456", nil }

	_, err := l.Issue(ctx, "9876543210", "dev-skip")
	require.NoError(t, err)

	assert.ErrorIs(t, l.Verify(ctx, "9876543210", "000000"), ErrMismatch)
	assert.True(t, mr.Exists("otp:9876543210"))
	assert.NoError(t, l.Verify(ctx, "9876543210", "123456"))
}

func TestRedisLedger_Expired(t *testing.T) {
	l, mr, clock := setupRedisLedgerTest(t)
	ctx := context.Background()

	code, err := l.Issue(ctx, "9876543210", "dev-skip")
	require.NoError(t, err)

	clock.Advance(TTL + time.Second)
	assert.ErrorIs(t, l.Verify(ctx, "9876543210", code), ErrExpired)
	assert.False(t, mr.Exists("otp:9876543210"))
}

func TestRedisLedger_KeyEvictedByRedis(t *testing.T) {
	l, mr, _ := setupRedisLedgerTest(t)
	ctx := context.Background()

	code, err := l.Issue(ctx, "9876543210", "dev-skip")
	require.NoError(t, err)

	mr.FastForward(TTL + redisExpiryGrace + time.Second)
	assert.ErrorIs(t, l.Verify(ctx, "9876543210", code), ErrNotFound)
}

func TestRedisLedger_CorruptEntryDropped(t *testing.T) {
	l, mr, _ := setupRedisLedgerTest(t)
	require.NoError(t, mr.Set("otp:9876543210", "{not json"))

	assert.ErrorIs(t, l.Verify(context.Background(), "9876543210", "123456"), ErrNotFound)
	assert.False(t, mr.Exists("otp:9876543210"))
}

func TestRedisLedger_Delete(t *testing.T) {
	l, mr, _ := setupRedisLedgerTest(t)
	ctx := context.Background()

	_, err := l.Issue(ctx, "9876543210", "dev-skip")
	require.NoError(t, err)
	require.NoError(t, l.Delete(ctx, "9876543210"))
	assert.False(t, mr.Exists("otp:9876543210"))
}

func TestRedisLedger_ConnectionError(t *testing.T) {
	l, mr, _ := setupRedisLedgerTest(t)
	mr.Close()

	_, err := l.Issue(context.Background(), "9876543210", "dev-skip")
	assert.Error(t, err)
	err = l.Verify(context.Background(), "9876543210", "123456")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

var _ Ledger = (*RedisLedger)(nil)
var _ Ledger = (*MemoryLedger)(nil)
