package newcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSign(t *testing.T) {
	ts := "2026-01-02T03:04:05Z"

	t.Run("is deterministic and hex encoded", func(t *testing.T) {
		a := Sign("key", "secret", ts)
		b := Sign("key", "secret", ts)
		assert.Equal(t, a, b)
		assert.Len(t, a, 128)
		assert.Regexp(t, `^[0-9a-f]+$`, a)
	})

	t.Run("depends on key, secret and timestamp", func(t *testing.T) {
		base := Sign("key", "secret", ts)
		assert.NotEqual(t, base, Sign("other", "secret", ts))
		assert.NotEqual(t, base, Sign("key", "other", ts))
		assert.NotEqual(t, base, Sign("key", "secret", "2026-01-02T03:04:06Z"))
	})

	t.Run("verifies its own output", func(t *testing.T) {
		assert.True(t, VerifySignature("key", "secret", ts, Sign("key", "secret", ts)))
		assert.False(t, VerifySignature("key", "secret", ts, "deadbeef"))
	})
}

func TestSignLegacy(t *testing.T) {
	sig := SignLegacy("secret", "2026-01-02T03:04:05Z")
	assert.Len(t, sig, 64)
	assert.NotEqual(t, sig, SignLegacy("secret", "2026-01-02T03:04:06Z"))
}

func TestWithCustomerID(t *testing.T) {
	assert.Equal(t,
		"/validate/users/backoffice/customers/42/email-verification",
		WithCustomerID(PathEmailVerification, "42"))
}
