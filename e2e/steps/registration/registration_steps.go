package registration

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cucumber/godog"

	"github.com/Dedezuli/mocha-API-sub002/internal/httpclient"
	"github.com/Dedezuli/mocha-API-sub002/internal/registration"
	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	StartBackend()
	SetStrict(strict bool)
	FailPath(path string)
	Register(ctx context.Context, req registration.Request) error
	Registration() *registration.Registration
	LastError() error
	Snapshot(ctx context.Context, customerID string) (newcore.CustomerSnapshot, error)
}

var emailPattern = regexp.MustCompile(`^test\.[a-zA-Z0-9]{15}@investree\.id$`)

// RegisterSteps registers registration-related step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &registrationSteps{tc: tc}

	// Setup steps
	ctx.Step(`^the fake new-core backend is running$`, steps.backendIsRunning)
	ctx.Step(`^steps run in lenient mode$`, steps.lenientMode)
	ctx.Step(`^the backend fails every call to "([^"]*)"$`, steps.backendFails)

	// Registration steps
	ctx.Step(`^I register an? (individual|institutional) borrower$`, steps.register)
	ctx.Step(`^I register an? (individual|institutional) borrower excluding "([^"]*)"$`, steps.registerExcluding)
	ctx.Step(`^I register an? (individual|institutional) borrower with override "([^"]*)" = "([^"]*)"$`, steps.registerWithOverride)

	// Outcome steps
	ctx.Step(`^the registration succeeds$`, steps.registrationSucceeds)
	ctx.Step(`^the registration fails at step "([^"]*)"$`, steps.registrationFailsAt)
	ctx.Step(`^the registration is rejected as an invalid product selection$`, steps.rejectedProductSelection)
	ctx.Step(`^the registration state is "([^"]*)"$`, steps.stateIs)
	ctx.Step(`^the step "([^"]*)" was skipped$`, steps.stepSkipped)
	ctx.Step(`^the generated email looks like a test address$`, steps.emailLooksGenerated)

	// Backend record steps
	ctx.Step(`^the customer has (\d+) legal documents$`, steps.legalDocuments)
	ctx.Step(`^the customer has (\d+) e-statements and (\d+) financial statements$`, steps.statements)
	ctx.Step(`^the customer has (\d+) shareholders$`, steps.shareholders)
	ctx.Step(`^the product selection is (\d+)$`, steps.productSelection)
	ctx.Step(`^the customer email is (verified|not verified)$`, steps.emailVerified)
}

type registrationSteps struct {
	tc TestContext
}

func (s *registrationSteps) backendIsRunning(ctx context.Context) error {
	s.tc.StartBackend()
	return nil
}

func (s *registrationSteps) lenientMode(ctx context.Context) error {
	s.tc.SetStrict(false)
	return nil
}

func (s *registrationSteps) backendFails(ctx context.Context, path string) error {
	s.tc.FailPath(path)
	return nil
}

func (s *registrationSteps) register(ctx context.Context, kind string) error {
	return s.tc.Register(ctx, registration.Request{Institutional: kind == "institutional"})
}

func (s *registrationSteps) registerExcluding(ctx context.Context, kind, steps string) error {
	exclude, err := registration.ParseExclusions(strings.Split(steps, ","))
	if err != nil {
		return err
	}
	return s.tc.Register(ctx, registration.Request{
		Institutional: kind == "institutional",
		Exclude:       exclude,
	})
}

func (s *registrationSteps) registerWithOverride(ctx context.Context, kind, key, value string) error {
	return s.tc.Register(ctx, registration.Request{
		Institutional: kind == "institutional",
		Override:      map[string]any{key: value},
	})
}

func (s *registrationSteps) registrationSucceeds(ctx context.Context) error {
	if err := s.tc.LastError(); err != nil {
		return fmt.Errorf("expected registration to succeed, got: %w", err)
	}
	reg := s.tc.Registration()
	if reg == nil || !reg.Identity.Valid() {
		return fmt.Errorf("expected a complete identity, got %+v", reg)
	}
	return nil
}

func (s *registrationSteps) registrationFailsAt(ctx context.Context, step string) error {
	err := s.tc.LastError()
	if err == nil {
		return fmt.Errorf("expected registration to fail at %s", step)
	}
	if got := registration.FailedStep(err); string(got) != step {
		return fmt.Errorf("expected failure at %s, got %q (%v)", step, got, err)
	}
	if httpclient.StatusCode(err) == 0 {
		return fmt.Errorf("expected a status error, got: %w", err)
	}
	return nil
}

func (s *registrationSteps) rejectedProductSelection(ctx context.Context) error {
	if !errors.Is(s.tc.LastError(), registration.ErrInvalidProductSelection) {
		return fmt.Errorf("expected invalid product selection, got: %v", s.tc.LastError())
	}
	return nil
}

func (s *registrationSteps) stateIs(ctx context.Context, state string) error {
	reg := s.tc.Registration()
	if reg == nil {
		return fmt.Errorf("no registration recorded")
	}
	if reg.State.String() != state {
		return fmt.Errorf("expected state %s, got %s", state, reg.State)
	}
	return nil
}

func (s *registrationSteps) stepSkipped(ctx context.Context, step string) error {
	reg := s.tc.Registration()
	if reg == nil {
		return fmt.Errorf("no registration recorded")
	}
	for _, skipped := range reg.Skipped {
		if string(skipped) == step {
			return nil
		}
	}
	return fmt.Errorf("step %s was not skipped; skipped: %v", step, reg.Skipped)
}

func (s *registrationSteps) emailLooksGenerated(ctx context.Context) error {
	reg := s.tc.Registration()
	if reg == nil || !emailPattern.MatchString(reg.Identity.EmailAddress) {
		return fmt.Errorf("unexpected email %+v", reg)
	}
	return nil
}

func (s *registrationSteps) snapshot(ctx context.Context) (newcore.CustomerSnapshot, error) {
	reg := s.tc.Registration()
	if reg == nil || reg.Identity.CustomerID == "" {
		return newcore.CustomerSnapshot{}, fmt.Errorf("no customer was created")
	}
	return s.tc.Snapshot(ctx, reg.Identity.CustomerID)
}

func (s *registrationSteps) legalDocuments(ctx context.Context, want int) error {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	if len(snap.LegalDocuments) != want {
		return fmt.Errorf("expected %d legal documents, got %v", want, snap.LegalDocuments)
	}
	return nil
}

func (s *registrationSteps) statements(ctx context.Context, eStatements, financial int) error {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	if snap.EStatements != eStatements || snap.FinancialStatements != financial {
		return fmt.Errorf("expected %d/%d statements, got %d/%d",
			eStatements, financial, snap.EStatements, snap.FinancialStatements)
	}
	return nil
}

func (s *registrationSteps) shareholders(ctx context.Context, want int) error {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	if snap.Shareholders != want {
		return fmt.Errorf("expected %d shareholders, got %d", want, snap.Shareholders)
	}
	return nil
}

func (s *registrationSteps) productSelection(ctx context.Context, want int) error {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	if int(snap.ProductSelection) != want {
		return fmt.Errorf("expected product selection %d, got %d", want, snap.ProductSelection)
	}
	return nil
}

func (s *registrationSteps) emailVerified(ctx context.Context, status string) error {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	if want := status == "verified"; snap.EmailVerified != want {
		return fmt.Errorf("expected email %s, got verified=%t", status, snap.EmailVerified)
	}
	return nil
}
