package mockcore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

// ErrOTPNotIssued is returned when no OTP is pending for the customer.
var ErrOTPNotIssued = errors.New("no otp issued")

// OTPStore holds the OTP issued at registration until it is verified.
type OTPStore interface {
	Put(ctx context.Context, customerID, code string) error
	Get(ctx context.Context, customerID string) (string, error)
}

type MemoryOTPStore struct {
	mu    sync.Mutex
	codes map[string]string
}

func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{codes: make(map[string]string)}
}

func (m *MemoryOTPStore) Put(_ context.Context, customerID, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[customerID] = code
	return nil
}

func (m *MemoryOTPStore) Get(_ context.Context, customerID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := m.codes[customerID]
	if !ok {
		return "", ErrOTPNotIssued
	}
	return code, nil
}

// RedisOTPStore shares OTPs through Redis so the harness can read them back.
type RedisOTPStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisOTPStore(client redis.Cmdable, ttl time.Duration) *RedisOTPStore {
	return &RedisOTPStore{client: client, ttl: ttl}
}

func (r *RedisOTPStore) Put(ctx context.Context, customerID, code string) error {
	if err := r.client.Set(ctx, newcore.OTPCacheKey(customerID), code, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache otp: %w", err)
	}
	return nil
}

func (r *RedisOTPStore) Get(ctx context.Context, customerID string) (string, error) {
	code, err := r.client.Get(ctx, newcore.OTPCacheKey(customerID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrOTPNotIssued
	}
	if err != nil {
		return "", fmt.Errorf("read otp: %w", err)
	}
	return code, nil
}
