package environment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/Dedezuli/mocha-API-sub002/internal/environment"
	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	BackendURL() string
	SelectEnv(env, override string)
	Resolver() (*environment.Resolver, error)
	LoginBackoffice(ctx context.Context, username, password string)
	BackofficeSession() (*environment.BackofficeSession, error)
}

// RegisterSteps registers environment resolution step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &environmentSteps{tc: tc}

	// Resolution steps
	ctx.Step(`^the environment "([^"]*)"$`, steps.selectEnv)
	ctx.Step(`^the environment "([^"]*)" with base URL override "([^"]*)"$`, steps.selectEnvWithOverride)
	ctx.Step(`^no environment is selected$`, steps.noEnv)
	ctx.Step(`^the "([^"]*)" URL is "([^"]*)"$`, steps.urlIs)
	ctx.Step(`^every URL points at the fake backend$`, steps.everyURLIsBackend)
	ctx.Step(`^environment resolution fails because ENV is missing$`, steps.missingEnv)

	// Header steps
	ctx.Step(`^new-core headers signed with key "([^"]*)" and secret "([^"]*)" verify$`, steps.headersVerify)
	ctx.Step(`^new-core headers signed with secret "([^"]*)" do not verify against "([^"]*)"$`, steps.headersDoNotVerify)

	// Legacy backoffice steps
	ctx.Step(`^I log in to the legacy backoffice as "([^"]*)" with password "([^"]*)"$`, steps.loginBackoffice)
	ctx.Step(`^a backoffice session cookie is returned$`, steps.sessionReturned)
	ctx.Step(`^the backoffice login is rejected$`, steps.loginRejected)
}

type environmentSteps struct {
	tc TestContext
}

var signedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func (s *environmentSteps) selectEnv(ctx context.Context, env string) error {
	s.tc.SelectEnv(env, "")
	return nil
}

func (s *environmentSteps) selectEnvWithOverride(ctx context.Context, env, override string) error {
	s.tc.SelectEnv(env, override)
	return nil
}

func (s *environmentSteps) noEnv(ctx context.Context) error {
	s.tc.SelectEnv("", "")
	return nil
}

func (s *environmentSteps) resolver() (*environment.Resolver, error) {
	r, err := s.tc.Resolver()
	if err != nil {
		return nil, fmt.Errorf("resolver: %w", err)
	}
	if r == nil {
		return nil, fmt.Errorf("no environment selected")
	}
	return r, nil
}

func (s *environmentSteps) urlIs(ctx context.Context, kind, want string) error {
	r, err := s.resolver()
	if err != nil {
		return err
	}
	got, err := r.URL(environment.Kind(kind))
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected %s URL %q, got %q", kind, want, got)
	}
	return nil
}

func (s *environmentSteps) everyURLIsBackend(ctx context.Context) error {
	r, err := s.resolver()
	if err != nil {
		return err
	}
	urls, err := r.URLs()
	if err != nil {
		return err
	}
	for kind, u := range urls {
		if u != s.tc.BackendURL() {
			return fmt.Errorf("expected %s to point at %s, got %s", kind, s.tc.BackendURL(), u)
		}
	}
	return nil
}

func (s *environmentSteps) missingEnv(ctx context.Context) error {
	if _, err := s.tc.Resolver(); !errors.Is(err, environment.ErrMissingEnv) {
		return fmt.Errorf("expected ErrMissingEnv, got %v", err)
	}
	return nil
}

func (s *environmentSteps) signed(key, secret string) environment.Auth {
	return environment.Auth{
		NewCoreKey:    key,
		NewCoreSecret: secret,
		Now:           func() time.Time { return signedAt },
	}
}

func (s *environmentSteps) headersVerify(ctx context.Context, key, secret string) error {
	h := s.signed(key, secret).NewCore("")
	if h.Get(newcore.HeaderKey) != key {
		return fmt.Errorf("expected key header %q, got %q", key, h.Get(newcore.HeaderKey))
	}
	if !newcore.VerifySignature(key, secret, h.Get(newcore.HeaderTimestamp), h.Get(newcore.HeaderSignature)) {
		return fmt.Errorf("signature did not verify: %v", h)
	}
	return nil
}

func (s *environmentSteps) headersDoNotVerify(ctx context.Context, secret, other string) error {
	h := s.signed("key", secret).NewCore("")
	if newcore.VerifySignature("key", other, h.Get(newcore.HeaderTimestamp), h.Get(newcore.HeaderSignature)) {
		return fmt.Errorf("signature with %q verified against %q", secret, other)
	}
	return nil
}

func (s *environmentSteps) loginBackoffice(ctx context.Context, username, password string) error {
	s.tc.LoginBackoffice(ctx, username, password)
	return nil
}

func (s *environmentSteps) sessionReturned(ctx context.Context) error {
	session, err := s.tc.BackofficeSession()
	if err != nil {
		return err
	}
	if session.Header().Get("Cookie") == "" {
		return fmt.Errorf("expected a session cookie")
	}
	return nil
}

func (s *environmentSteps) loginRejected(ctx context.Context) error {
	if _, err := s.tc.BackofficeSession(); err == nil {
		return fmt.Errorf("expected backoffice login to fail")
	}
	return nil
}
