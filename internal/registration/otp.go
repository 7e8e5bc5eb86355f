package registration

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

// DefaultOTP is the bypass code accepted by test deployments.
const DefaultOTP = "123456"

// ErrOTPNotFound is returned when no OTP is cached for the customer.
var ErrOTPNotFound = errors.New("otp not found")

// OTPSource yields the OTP the verification step submits.
type OTPSource interface {
	OTP(ctx context.Context, id Identity) (string, error)
}

// StaticOTP always returns the same code.
type StaticOTP string

func (s StaticOTP) OTP(context.Context, Identity) (string, error) {
	return string(s), nil
}

// RedisOTP reads the OTP the service cached for the customer.
type RedisOTP struct {
	client redis.Cmdable
}

func NewRedisOTP(client redis.Cmdable) *RedisOTP {
	return &RedisOTP{client: client}
}

func (r *RedisOTP) OTP(ctx context.Context, id Identity) (string, error) {
	code, err := r.client.Get(ctx, newcore.OTPCacheKey(id.CustomerID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w for customer %s", ErrOTPNotFound, id.CustomerID)
	}
	if err != nil {
		return "", fmt.Errorf("read otp: %w", err)
	}
	return code, nil
}
