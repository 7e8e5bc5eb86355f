// Package e2e runs the godog feature suite against an in-process fake new-core
// backend.
package e2e

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Dedezuli/mocha-API-sub002/internal/environment"
	"github.com/Dedezuli/mocha-API-sub002/internal/httpclient"
	"github.com/Dedezuli/mocha-API-sub002/internal/mockcore"
	"github.com/Dedezuli/mocha-API-sub002/internal/platform/config"
	"github.com/Dedezuli/mocha-API-sub002/internal/registration"
	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

const (
	apiKey        = "e2e-key"
	apiSecret     = "e2e-secret"
	adminUser     = "ops"
	adminPassword = "ops-pass"
	otpCode       = "135790"
)

// TestContext holds the state of one scenario.
type TestContext struct {
	server   *httptest.Server
	failPath atomic.Value
	strict   bool

	reg *registration.Registration
	err error

	resolver    *environment.Resolver
	resolverErr error
	session     *environment.BackofficeSession
	sessionErr  error
}

// NewTestContext returns a context with strict step handling.
func NewTestContext() *TestContext {
	tc := &TestContext{strict: true}
	tc.failPath.Store("")
	return tc
}

// StartBackend starts a fresh fake backend for the scenario.
func (tc *TestContext) StartBackend() {
	tc.Close()
	core := mockcore.New(config.MockCore{
		JWTSigningKey: "e2e-signing-key",
		TokenTTL:      time.Hour,
		NewCore:       config.Credentials{Key: apiKey, Secret: apiSecret},
		Backoffice:    config.BasicAuth{Username: adminUser, Password: adminPassword},
		OTPCode:       otpCode,
	}, mockcore.WithBcryptCost(bcrypt.MinCost))

	handler := core.Handler()
	tc.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, _ := tc.failPath.Load().(string); p != "" && r.URL.Path == p {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"meta":{"code":500,"message":"injected failure"}}`))
			return
		}
		handler.ServeHTTP(w, r)
	}))
}

// Close stops the fake backend, if any.
func (tc *TestContext) Close() {
	if tc.server != nil {
		tc.server.Close()
		tc.server = nil
	}
}

func (tc *TestContext) BackendURL() string {
	if tc.server == nil {
		return ""
	}
	return tc.server.URL
}

func (tc *TestContext) HTTPClient() *http.Client {
	if tc.server == nil {
		return http.DefaultClient
	}
	return tc.server.Client()
}

func (tc *TestContext) Auth() environment.Auth {
	return environment.Auth{NewCoreKey: apiKey, NewCoreSecret: apiSecret}
}

func (tc *TestContext) SetStrict(strict bool) {
	tc.strict = strict
}

// FailPath makes the backend answer 500 on path.
func (tc *TestContext) FailPath(path string) {
	tc.failPath.Store(path)
}

// Register runs the composer against the fake backend and keeps the result.
func (tc *TestContext) Register(ctx context.Context, req registration.Request) error {
	if tc.server == nil {
		return fmt.Errorf("fake backend is not running")
	}
	urls, err := environment.New("e2e", environment.WithBaseURLOverride(tc.server.URL))
	if err != nil {
		return err
	}
	composer, err := registration.New(httpclient.New(httpclient.WithHTTPClient(tc.server.Client())), urls, tc.Auth(),
		registration.WithOTPSource(registration.StaticOTP(otpCode)),
		registration.WithAdmin(registration.AdminCredentials{Username: adminUser, Password: adminPassword}),
		registration.WithStrict(tc.strict),
	)
	if err != nil {
		return err
	}
	tc.reg, tc.err = composer.Register(ctx, req)
	return nil
}

func (tc *TestContext) Registration() *registration.Registration {
	return tc.reg
}

func (tc *TestContext) LastError() error {
	return tc.err
}

// Snapshot fetches the backend's record of a customer over HTTP.
func (tc *TestContext) Snapshot(ctx context.Context, customerID string) (newcore.CustomerSnapshot, error) {
	client := httpclient.New(httpclient.WithHTTPClient(tc.HTTPClient()))
	resp, err := client.Get(ctx, tc.BackendURL()+newcore.WithCustomerID(newcore.PathCustomerSnapshot, customerID), tc.Auth().NewCore(""))
	if err != nil {
		return newcore.CustomerSnapshot{}, err
	}
	if err := httpclient.CheckStatus(resp); err != nil {
		return newcore.CustomerSnapshot{}, err
	}
	var env newcore.Envelope[newcore.CustomerSnapshot]
	if err := resp.Decode(&env); err != nil {
		return newcore.CustomerSnapshot{}, err
	}
	return env.Data, nil
}

// SelectEnv builds a resolver the way the CLI does. A placeholder of
// "fake-backend" as override points at the running backend.
func (tc *TestContext) SelectEnv(env, override string) {
	if strings.EqualFold(override, "fake-backend") {
		override = tc.BackendURL()
	}
	tc.resolver, tc.resolverErr = environment.New(env, environment.WithBaseURLOverride(override))
}

func (tc *TestContext) Resolver() (*environment.Resolver, error) {
	return tc.resolver, tc.resolverErr
}

// LoginBackoffice performs the legacy backoffice form login against the backend.
func (tc *TestContext) LoginBackoffice(ctx context.Context, username, password string) {
	tc.session, tc.sessionErr = environment.LoginBackofficeLegacy(ctx, tc.HTTPClient(), tc.BackendURL(), username, password)
}

func (tc *TestContext) BackofficeSession() (*environment.BackofficeSession, error) {
	return tc.session, tc.sessionErr
}
