package registration

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

func TestAllExpansion(t *testing.T) {
	t.Run("all is exactly the ten profile steps", func(t *testing.T) {
		set := Exclude(All)
		assert.Len(t, set, 10)
		for _, s := range []Step{
			StepIdentification, StepPersonalData, StepBusinessProfile, StepLegalInformation,
			StepBankInformation, StepEStatement, StepFinancialStatement, StepEmergencyContact,
			StepShareholder, StepVerifyEmail,
		} {
			assert.True(t, set.Has(s), s)
		}
		for _, s := range []Step{StepVerifyOTP, StepProductPreference, StepUpdateUsername, StepSKDU} {
			assert.False(t, set.Has(s), s)
		}
	})

	t.Run("all-except-verify-email drops only verify-email", func(t *testing.T) {
		set := Exclude(AllExceptVerifyEmail)
		assert.Len(t, set, 9)
		assert.False(t, set.Has(StepVerifyEmail))
		assert.True(t, set.Has(StepShareholder))
	})

	t.Run("aggregates combine with single steps", func(t *testing.T) {
		set := Exclude(AllExceptVerifyEmail, StepSKDU)
		assert.Len(t, set, 10)
		assert.True(t, set.Has(StepSKDU))
	})

	t.Run("AllSteps returns a copy", func(t *testing.T) {
		steps := AllSteps()
		steps[0] = StepSKDU
		assert.Equal(t, StepIdentification, AllSteps()[0])
	})
}

func TestParseExclusions(t *testing.T) {
	t.Run("parses tokens and ignores blanks", func(t *testing.T) {
		set, err := ParseExclusions([]string{" skdu", "", "verify-email "})
		require.NoError(t, err)
		assert.Equal(t, []Step{StepSKDU, StepVerifyEmail}, set.Steps())
	})

	t.Run("unknown names are rejected", func(t *testing.T) {
		_, err := ParseExclusions([]string{"identification", "selfie"})
		assert.ErrorIs(t, err, ErrUnknownStep)
	})

	t.Run("basic registration cannot be excluded", func(t *testing.T) {
		_, err := ParseStep(string(StepBasicRegistration))
		assert.ErrorIs(t, err, ErrUnknownStep)
	})

	t.Run("zero set excludes nothing", func(t *testing.T) {
		var set ExclusionSet
		assert.False(t, set.Has(StepVerifyEmail))
		assert.Empty(t, set.Steps())
	})
}

func TestResolveProductSelection(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		want    newcore.ProductSelection
		wantErr bool
	}{
		{name: "individual defaults to OSF", req: Request{}, want: newcore.ProductOSF},
		{name: "institutional defaults to project financing", req: Request{Institutional: true}, want: newcore.ProductProjectFinancing},
		{name: "int override", req: Request{Institutional: true, Override: map[string]any{"productSelection": 1}}, want: newcore.ProductOSF},
		{name: "json number override", req: Request{Override: map[string]any{"productSelection": json.Number("2")}}, want: newcore.ProductProjectFinancing},
		{name: "typed override", req: Request{Override: map[string]any{"productSelection": newcore.ProductProjectFinancing}}, want: newcore.ProductProjectFinancing},
		{name: "nil override falls back", req: Request{Institutional: true, Override: map[string]any{"productSelection": nil}}, want: newcore.ProductProjectFinancing},
		{name: "fractional float", req: Request{Override: map[string]any{"productSelection": 1.5}}, wantErr: true},
		{name: "out of range", req: Request{Override: map[string]any{"productSelection": 0}}, wantErr: true},
		{name: "not a number", req: Request{Override: map[string]any{"productSelection": "osf"}}, wantErr: true},
		{name: "unsupported type", req: Request{Override: map[string]any{"productSelection": true}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveProductSelection(tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidProductSelection)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistrationBody(t *testing.T) {
	t.Run("override wins and product selection is not sent", func(t *testing.T) {
		body, err := registrationBody(map[string]any{
			"username":         "fixed",
			"referralCode":     "QA01",
			"productSelection": 2,
		})
		require.NoError(t, err)
		assert.Equal(t, "fixed", body["username"])
		assert.Equal(t, "QA01", body["referralCode"])
		assert.NotContains(t, body, "productSelection")
		assert.NotEmpty(t, body["password"])
	})

	t.Run("non-string email is rejected", func(t *testing.T) {
		_, err := registrationBody(map[string]any{"email": 42})
		assert.ErrorIs(t, err, ErrNoEmail)
	})
}

func TestState(t *testing.T) {
	assert.Equal(t, "email-verified", StateEmailVerified.String())
	assert.Equal(t, "unknown", State(99).String())

	reg := &Registration{State: StateProfileComplete}
	reg.advance(StateProfilePartial)
	assert.Equal(t, StateProfileComplete, reg.State, "states never move backwards")

	out, err := json.Marshal(reg)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"state":"profile-complete"`)
}

func TestIdentity(t *testing.T) {
	id := Identity{CustomerID: "c1", AccessToken: "t1", UserName: "u", EmailAddress: "e"}
	rotated := id.WithAccessToken("t2")

	assert.Equal(t, "t1", id.AccessToken)
	assert.Equal(t, "t2", rotated.AccessToken)
	assert.True(t, rotated.Valid())
	assert.False(t, Identity{CustomerID: "c1"}.Valid())

	out, err := json.Marshal(id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"customerId":"c1","accessToken":"t1","userName":"u","emailAddress":"e"}`, string(out))
}

func TestRedisOTP(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	src := NewRedisOTP(client)

	t.Run("missing code", func(t *testing.T) {
		_, err := src.OTP(ctx, Identity{CustomerID: "c1"})
		assert.ErrorIs(t, err, ErrOTPNotFound)
	})

	t.Run("cached code is returned", func(t *testing.T) {
		require.NoError(t, mr.Set(newcore.OTPCacheKey("c1"), "777888"))
		code, err := src.OTP(ctx, Identity{CustomerID: "c1"})
		require.NoError(t, err)
		assert.Equal(t, "777888", code)
	})

	t.Run("redis failure is wrapped", func(t *testing.T) {
		mr.SetError("ERR server unavailable")
		defer mr.SetError("")
		_, err := src.OTP(ctx, Identity{CustomerID: "c1"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrOTPNotFound)
	})
}
