package registration_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dedezuli/mocha-API-sub002/internal/environment"
	"github.com/Dedezuli/mocha-API-sub002/internal/httpclient"
	"github.com/Dedezuli/mocha-API-sub002/internal/mockcore"
	"github.com/Dedezuli/mocha-API-sub002/internal/platform/config"
	"github.com/Dedezuli/mocha-API-sub002/internal/platform/metrics"
	"github.com/Dedezuli/mocha-API-sub002/internal/registration"
	"github.com/Dedezuli/mocha-API-sub002/internal/registration/mocks"
	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

//go:generate mockgen -source=otp.go -destination=mocks/mocks.go -package=mocks OTPSource

const (
	apiKey    = "harness-key"
	apiSecret = "harness-secret"
	otpCode   = "246810"
)

var emailPattern = regexp.MustCompile(`^test\.[a-zA-Z0-9]{15}@investree\.id$`)

// ComposerSuite runs registrations end to end against the in-memory backend.
type ComposerSuite struct {
	suite.Suite
	core     *mockcore.Server
	ts       *httptest.Server
	urls     *environment.Resolver
	auth     environment.Auth
	metrics  *metrics.Metrics
	failPath atomic.Value
}

func TestComposerSuite(t *testing.T) {
	suite.Run(t, new(ComposerSuite))
}

func (s *ComposerSuite) SetupTest() {
	s.core = mockcore.New(config.MockCore{
		JWTSigningKey: "composer-test-key",
		TokenTTL:      time.Hour,
		NewCore:       config.Credentials{Key: apiKey, Secret: apiSecret},
		Backoffice:    config.BasicAuth{Username: "ops", Password: "ops-pass"},
		OTPCode:       otpCode,
	}, mockcore.WithBcryptCost(bcrypt.MinCost))

	s.failPath.Store("")
	handler := s.core.Handler()
	s.ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, _ := s.failPath.Load().(string); p != "" && r.URL.Path == p {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"meta":{"code":500,"message":"boom"}}`))
			return
		}
		handler.ServeHTTP(w, r)
	}))

	var err error
	s.urls, err = environment.New("test", environment.WithBaseURLOverride(s.ts.URL))
	s.Require().NoError(err)
	s.auth = environment.Auth{NewCoreKey: apiKey, NewCoreSecret: apiSecret}
	s.metrics = metrics.New(prometheus.NewRegistry())
}

func (s *ComposerSuite) TearDownTest() {
	s.ts.Close()
}

func (s *ComposerSuite) newComposer(opts ...registration.Option) *registration.Composer {
	client := httpclient.New(httpclient.WithHTTPClient(s.ts.Client()))
	base := []registration.Option{
		registration.WithOTPSource(registration.StaticOTP(otpCode)),
		registration.WithAdmin(registration.AdminCredentials{Username: "ops", Password: "ops-pass"}),
		registration.WithMetrics(s.metrics),
	}
	c, err := registration.New(client, s.urls, s.auth, append(base, opts...)...)
	s.Require().NoError(err)
	return c
}

func (s *ComposerSuite) snapshot(id string) newcore.CustomerSnapshot {
	snap, err := s.core.Store().Get(context.Background(), id)
	s.Require().NoError(err)
	return snap
}

// =============================================================================
// Full registrations
// =============================================================================

func (s *ComposerSuite) TestInstitutionalWithoutExclusions() {
	reg, err := s.newComposer().Register(context.Background(), registration.Request{Institutional: true})
	s.Require().NoError(err)

	id := reg.Identity
	s.NotEmpty(id.CustomerID)
	s.NotEmpty(id.AccessToken)
	s.NotEmpty(id.UserName)
	s.Regexp(emailPattern, id.EmailAddress)
	s.Equal(registration.StateEmailVerified, reg.State)
	s.Empty(reg.Skipped)
	s.Len(reg.Executed, 14)

	snap := s.snapshot(id.CustomerID)
	s.True(snap.OTPVerified)
	s.Equal(newcore.CategoryInstitutional, snap.Category)
	s.Equal(newcore.EntityPT, snap.LegalEntity)
	s.Equal(newcore.ProductProjectFinancing, snap.ProductSelection)
	s.Len(snap.LegalDocuments, 7)
	s.ElementsMatch(append([]newcore.LegalDocumentType{newcore.DocNPWP, newcore.DocSKDU}, newcore.InstitutionalDocuments...), snap.LegalDocuments)
	s.Equal(6, snap.EStatements)
	s.Equal(2, snap.FinancialStatements)
	s.Equal(2, snap.Shareholders)
	s.True(snap.HasIdentification)
	s.True(snap.HasPersonalData)
	s.True(snap.HasBusinessProfile)
	s.True(snap.HasBankInformation)
	s.True(snap.HasEmergencyContact)
	s.True(snap.EmailVerified)
}

func (s *ComposerSuite) TestIndividualWithoutExclusions() {
	reg, err := s.newComposer().Register(context.Background(), registration.Request{})
	s.Require().NoError(err)

	s.NotContains(reg.Executed, registration.StepShareholder)
	s.Equal(registration.StateEmailVerified, reg.State)

	snap := s.snapshot(reg.Identity.CustomerID)
	s.Equal(newcore.CategoryIndividual, snap.Category)
	s.Equal(newcore.EntityIndividual, snap.LegalEntity)
	s.Equal(newcore.ProductOSF, snap.ProductSelection)
	s.Equal([]newcore.LegalDocumentType{newcore.DocNPWP, newcore.DocSKDU}, snap.LegalDocuments)
	s.Equal(1, snap.EStatements)
	s.Equal(1, snap.FinancialStatements)
	s.Zero(snap.Shareholders)
}

func (s *ComposerSuite) TestEveryRegistrationIsFresh() {
	c := s.newComposer()
	first, err := c.Register(context.Background(), registration.Request{Exclude: registration.Exclude(registration.All)})
	s.Require().NoError(err)
	second, err := c.Register(context.Background(), registration.Request{Exclude: registration.Exclude(registration.All)})
	s.Require().NoError(err)

	s.NotEqual(first.Identity.CustomerID, second.Identity.CustomerID)
	s.NotEqual(first.Identity.EmailAddress, second.Identity.EmailAddress)
}

func (s *ComposerSuite) TestSmallBatchLimit() {
	reg, err := s.newComposer(registration.WithBatchLimit(1)).
		Register(context.Background(), registration.Request{Institutional: true})
	s.Require().NoError(err)
	s.Equal(6, s.snapshot(reg.Identity.CustomerID).EStatements)
}

// =============================================================================
// Product selection and overrides
// =============================================================================

func (s *ComposerSuite) TestProductSelectionOverride() {
	ctx := context.Background()

	s.Run("institutional may pick OSF", func() {
		reg, err := s.newComposer().Register(ctx, registration.Request{
			Institutional: true,
			Override:      map[string]any{"productSelection": float64(1)},
			Exclude:       registration.Exclude(registration.All),
		})
		s.Require().NoError(err)
		s.Equal(newcore.ProductOSF, s.snapshot(reg.Identity.CustomerID).ProductSelection)
	})

	s.Run("individual may pick project financing as a string", func() {
		reg, err := s.newComposer().Register(ctx, registration.Request{
			Override: map[string]any{"productSelection": "2"},
			Exclude:  registration.Exclude(registration.All),
		})
		s.Require().NoError(err)
		s.Equal(newcore.ProductProjectFinancing, s.snapshot(reg.Identity.CustomerID).ProductSelection)
	})

	s.Run("unknown product fails before any call", func() {
		before := s.core.Store().Len()
		reg, err := s.newComposer().Register(ctx, registration.Request{
			Override: map[string]any{"productSelection": 3},
		})
		s.Require().ErrorIs(err, registration.ErrInvalidProductSelection)
		s.Equal(registration.StateInitial, reg.State)
		s.Equal(before, s.core.Store().Len())
	})
}

func (s *ComposerSuite) TestRegistrationOverride() {
	ctx := context.Background()

	s.Run("override email is used", func() {
		reg, err := s.newComposer().Register(ctx, registration.Request{
			Override: map[string]any{"email": "fixed.address@investree.id"},
			Exclude:  registration.Exclude(registration.All),
		})
		s.Require().NoError(err)
		s.Equal("fixed.address@investree.id", reg.Identity.EmailAddress)
	})

	s.Run("empty email is rejected", func() {
		_, err := s.newComposer().Register(ctx, registration.Request{
			Override: map[string]any{"email": ""},
		})
		s.ErrorIs(err, registration.ErrNoEmail)
	})
}

// =============================================================================
// Exclusions
// =============================================================================

func (s *ComposerSuite) TestExclusions() {
	ctx := context.Background()

	s.Run("all skips every profile step and verification", func() {
		reg, err := s.newComposer().Register(ctx, registration.Request{
			Institutional: true,
			Exclude:       registration.Exclude(registration.All),
		})
		s.Require().NoError(err)
		s.Equal([]registration.Step{
			registration.StepBasicRegistration,
			registration.StepVerifyOTP,
			registration.StepProductPreference,
			registration.StepUpdateUsername,
		}, reg.Executed)
		s.ElementsMatch(registration.AllSteps(), reg.Skipped)
		s.Equal(registration.StateProductPreferenceSet, reg.State)

		snap := s.snapshot(reg.Identity.CustomerID)
		s.Empty(snap.LegalDocuments)
		s.Zero(snap.EStatements)
		s.False(snap.EmailVerified)
	})

	s.Run("all-except-verify-email still verifies the email", func() {
		reg, err := s.newComposer().Register(ctx, registration.Request{
			Exclude: registration.Exclude(registration.AllExceptVerifyEmail),
		})
		s.Require().NoError(err)
		s.Equal(registration.StateEmailVerified, reg.State)

		snap := s.snapshot(reg.Identity.CustomerID)
		s.True(snap.EmailVerified)
		s.False(snap.HasIdentification)
	})

	s.Run("skdu exclusion drops only that document", func() {
		reg, err := s.newComposer().Register(ctx, registration.Request{
			Institutional: true,
			Exclude:       registration.Exclude(registration.StepSKDU, registration.StepVerifyEmail),
		})
		s.Require().NoError(err)
		s.Equal(registration.StateProfilePartial, reg.State)

		snap := s.snapshot(reg.Identity.CustomerID)
		s.Len(snap.LegalDocuments, 6)
		s.NotContains(snap.LegalDocuments, newcore.DocSKDU)
	})

	s.Run("skipping otp leaves the customer pending", func() {
		reg, err := s.newComposer().Register(ctx, registration.Request{
			Exclude: registration.Exclude(registration.StepVerifyOTP, registration.StepProductPreference,
				registration.StepUpdateUsername, registration.All),
		})
		s.Require().NoError(err)
		s.Equal(registration.StateOTPPending, reg.State)
		s.False(s.snapshot(reg.Identity.CustomerID).OTPVerified)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.StepOutcomes.WithLabelValues(string(registration.StepVerifyOTP), "skipped")))
	})

	s.Run("complete profile without email verification", func() {
		reg, err := s.newComposer().Register(ctx, registration.Request{
			Exclude: registration.Exclude(registration.StepVerifyEmail),
		})
		s.Require().NoError(err)
		s.Equal(registration.StateProfileComplete, reg.State)
	})
}

// =============================================================================
// Failures
// =============================================================================

func (s *ComposerSuite) TestStepFailureReturnsPartialRegistration() {
	s.failPath.Store(newcore.PathBankInformation)

	reg, err := s.newComposer().Register(context.Background(), registration.Request{Institutional: true})
	s.Require().Error(err)

	s.Equal(registration.StepBankInformation, registration.FailedStep(err))
	var statusErr *httpclient.StatusError
	s.Require().ErrorAs(err, &statusErr)
	s.Equal(http.StatusInternalServerError, statusErr.Status)
	s.ErrorIs(err, httpclient.ErrUnexpectedStatus)

	s.NotEmpty(reg.Identity.CustomerID)
	s.Equal(registration.StepLegalInformation, reg.Executed[len(reg.Executed)-1])
	s.Equal(registration.StateProfilePartial, reg.State)

	snap := s.snapshot(reg.Identity.CustomerID)
	s.Len(snap.LegalDocuments, 7)
	s.Zero(snap.EStatements, "steps after the failure never ran")
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Registrations.WithLabelValues("institutional", "error")))
}

func (s *ComposerSuite) TestLenientModeToleratesFailures() {
	s.failPath.Store(newcore.PathBankInformation)

	reg, err := s.newComposer(registration.WithStrict(false)).
		Register(context.Background(), registration.Request{
			Exclude: registration.Exclude(registration.StepVerifyEmail),
		})
	s.Require().NoError(err)

	s.Contains(reg.Executed, registration.StepBankInformation)
	s.Equal([]registration.Step{registration.StepBankInformation}, reg.Tolerated)
	s.Equal(registration.StateProfilePartial, reg.State, "a tolerated profile step leaves the profile partial")
	snap := s.snapshot(reg.Identity.CustomerID)
	s.False(snap.HasBankInformation)
	s.Equal(1, snap.EStatements)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.StepOutcomes.WithLabelValues(string(registration.StepBankInformation), "tolerated")))
}

func (s *ComposerSuite) TestLenientModeDoesNotReportUnverifiedEmail() {
	reg, err := s.newComposer(
		registration.WithStrict(false),
		registration.WithAdmin(registration.AdminCredentials{Username: "ops", Password: "wrong"}),
	).Register(context.Background(), registration.Request{})
	s.Require().NoError(err)

	s.Equal([]registration.Step{registration.StepVerifyEmail}, reg.Tolerated)
	s.Equal(registration.StateProfileComplete, reg.State)
	s.False(s.snapshot(reg.Identity.CustomerID).EmailVerified)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.StepOutcomes.WithLabelValues(string(registration.StepVerifyEmail), "tolerated")))
}

func (s *ComposerSuite) TestBasicRegistrationIsAlwaysStrict() {
	s.failPath.Store(newcore.PathRegistration)

	reg, err := s.newComposer(registration.WithStrict(false)).
		Register(context.Background(), registration.Request{})
	s.Require().Error(err)
	s.Equal(registration.StepBasicRegistration, registration.FailedStep(err))
	s.False(reg.Identity.Valid())
	s.Equal(registration.StateInitial, reg.State)
	s.Empty(reg.Executed)
}

func (s *ComposerSuite) TestWrongAdminCredentials() {
	client := httpclient.New(httpclient.WithHTTPClient(s.ts.Client()))
	c, err := registration.New(client, s.urls, s.auth,
		registration.WithOTPSource(registration.StaticOTP(otpCode)),
		registration.WithAdmin(registration.AdminCredentials{Username: "ops", Password: "wrong"}),
	)
	s.Require().NoError(err)

	reg, err := c.Register(context.Background(), registration.Request{})
	s.Require().Error(err)
	s.Equal(registration.StepVerifyEmail, registration.FailedStep(err))
	s.Equal(http.StatusUnauthorized, httpclient.StatusCode(err))
	s.Equal(registration.StateProfileComplete, reg.State)
}

// =============================================================================
// OTP source
// =============================================================================

func (s *ComposerSuite) TestOTPSource() {
	ctx := context.Background()
	onlyOTP := registration.Exclude(registration.StepProductPreference, registration.StepUpdateUsername, registration.All)

	s.Run("code comes from the source for the new customer", func() {
		ctrl := gomock.NewController(s.T())
		src := mocks.NewMockOTPSource(ctrl)
		src.EXPECT().OTP(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, id registration.Identity) (string, error) {
				s.True(id.Valid())
				return otpCode, nil
			})

		reg, err := s.newComposer(registration.WithOTPSource(src)).
			Register(ctx, registration.Request{Exclude: onlyOTP})
		s.Require().NoError(err)
		s.Equal(registration.StateOTPVerified, reg.State)
		s.True(s.snapshot(reg.Identity.CustomerID).OTPVerified)
	})

	s.Run("source failure stops at otp verification", func() {
		ctrl := gomock.NewController(s.T())
		src := mocks.NewMockOTPSource(ctrl)
		lookupErr := errors.New("cache unavailable")
		src.EXPECT().OTP(gomock.Any(), gomock.Any()).Return("", lookupErr)

		reg, err := s.newComposer(registration.WithOTPSource(src)).
			Register(ctx, registration.Request{Exclude: onlyOTP})
		s.Require().ErrorIs(err, lookupErr)
		s.Equal(registration.StepVerifyOTP, registration.FailedStep(err))
		s.Equal(registration.StateCreated, reg.State)
	})

	s.Run("wrong code is rejected by the backend", func() {
		_, err := s.newComposer(registration.WithOTPSource(registration.StaticOTP("000000"))).
			Register(ctx, registration.Request{Exclude: onlyOTP})
		s.Equal(http.StatusBadRequest, httpclient.StatusCode(err))
	})
}

func TestNewRequiresDependencies(t *testing.T) {
	urls, err := environment.New("test")
	require.NoError(t, err)

	_, err = registration.New(nil, urls, environment.Auth{})
	require.Error(t, err)
	_, err = registration.New(httpclient.New(), nil, environment.Auth{})
	require.Error(t, err)
}
