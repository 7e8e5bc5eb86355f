// Package registration composes a synthetic borrower through the new-core
// onboarding flow.
//
// A registration is a fixed sequence of steps. The basic registration always
// runs and produces the Identity every later step authenticates with; every
// other step can be skipped through an ExclusionSet. Steps are never retried
// and never rolled back: when one fails, Register returns the partially
// completed Registration together with a *StepError.
package registration

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Dedezuli/mocha-API-sub002/internal/environment"
	"github.com/Dedezuli/mocha-API-sub002/internal/httpclient"
	"github.com/Dedezuli/mocha-API-sub002/internal/platform/metrics"
	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

const (
	tracerName        = "github.com/Dedezuli/mocha-API-sub002/internal/registration"
	defaultBatchLimit = 3
)

// URLResolver resolves deployment base URLs.
type URLResolver interface {
	URL(kind environment.Kind) (string, error)
}

// AdminCredentials log in to the backoffice for the email verification bypass.
type AdminCredentials struct {
	Username string
	Password string
}

// Composer runs registrations. It keeps no state between calls.
type Composer struct {
	client     *httpclient.Client
	urls       URLResolver
	auth       environment.Auth
	admin      AdminCredentials
	otp        OTPSource
	strict     bool
	batchLimit int
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	now        func() time.Time
}

// Option configures a Composer.
type Option func(c *Composer)

// WithOTPSource sets where the OTP for a new customer is read from.
func WithOTPSource(src OTPSource) Option {
	return func(c *Composer) {
		c.otp = src
	}
}

// WithStrict controls whether non-2xx answers of steps after the basic
// registration fail the run (true, the default) or are logged and tolerated.
func WithStrict(strict bool) Option {
	return func(c *Composer) {
		c.strict = strict
	}
}

// WithBatchLimit bounds the concurrent uploads of a statement batch.
func WithBatchLimit(n int) Option {
	return func(c *Composer) {
		c.batchLimit = n
	}
}

// WithAdmin sets the backoffice credentials used to verify emails.
func WithAdmin(creds AdminCredentials) Option {
	return func(c *Composer) {
		c.admin = creds
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics sink. A nil value disables metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Composer) {
		c.metrics = m
	}
}

// WithTracer sets the tracer used for per-step spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Composer) {
		c.tracer = t
	}
}

// WithClock sets the clock used to date generated statements.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) {
		c.now = now
	}
}

// New constructs a Composer.
func New(client *httpclient.Client, urls URLResolver, auth environment.Auth, opts ...Option) (*Composer, error) {
	if client == nil {
		return nil, errors.New("http client is required")
	}
	if urls == nil {
		return nil, errors.New("url resolver is required")
	}
	c := &Composer{
		client:     client,
		urls:       urls,
		auth:       auth,
		otp:        StaticOTP(DefaultOTP),
		strict:     true,
		batchLimit: defaultBatchLimit,
		logger:     slog.Default(),
		tracer:     otel.Tracer(tracerName),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.batchLimit < 1 {
		c.batchLimit = 1
	}
	return c, nil
}

// Request describes the borrower to create.
type Request struct {
	Institutional bool
	Exclude       ExclusionSet
	// Override is merged over the generated registration body. A
	// "productSelection" key picks the product instead of the default.
	Override map[string]any
}

// Registration is the outcome of Register, complete or partial.
type Registration struct {
	Identity      Identity `json:"identity"`
	Institutional bool     `json:"institutional"`
	State         State    `json:"state"`
	Executed      []Step   `json:"executed"`
	Skipped       []Step   `json:"skipped,omitempty"`
	// Tolerated lists steps whose non-2xx answer was accepted in lenient
	// mode. They ran but reached no state.
	Tolerated []Step `json:"tolerated,omitempty"`
}

func (r *Registration) advance(s State) {
	if s > r.State {
		r.State = s
	}
}

// Kind labels the borrower for logs and metrics.
func (r *Registration) Kind() string {
	if r.Institutional {
		return "institutional"
	}
	return "individual"
}

type stepDef struct {
	step    Step
	run     func(r *run, ctx context.Context) error
	applies func(req Request) bool
	reached State
}

var onboardingSteps = []stepDef{
	{step: StepVerifyOTP, run: (*run).verifyOTP, reached: StateOTPVerified},
	{step: StepProductPreference, run: (*run).productPreference, reached: StateProductPreferenceSet},
	{step: StepUpdateUsername, run: (*run).updateUsername},
}

var profileStepDefs = []stepDef{
	{step: StepIdentification, run: (*run).identification, reached: StateProfilePartial},
	{step: StepPersonalData, run: (*run).personalData, reached: StateProfilePartial},
	{step: StepBusinessProfile, run: (*run).businessProfile, reached: StateProfilePartial},
	{step: StepLegalInformation, run: (*run).legalInformation, reached: StateProfilePartial},
	{step: StepBankInformation, run: (*run).bankInformation, reached: StateProfilePartial},
	{step: StepEStatement, run: (*run).eStatements, reached: StateProfilePartial},
	{step: StepFinancialStatement, run: (*run).financialStatements, reached: StateProfilePartial},
	{step: StepEmergencyContact, run: (*run).emergencyContact, reached: StateProfilePartial},
	{step: StepShareholder, run: (*run).shareholders, reached: StateProfilePartial, applies: institutionalOnly},
}

var closingSteps = []stepDef{
	{step: StepVerifyEmail, run: (*run).verifyEmail, reached: StateEmailVerified},
}

func institutionalOnly(req Request) bool {
	return req.Institutional
}

// Register creates a fresh borrower. On failure the returned Registration
// holds whatever was completed before the failing step.
func (c *Composer) Register(ctx context.Context, req Request) (*Registration, error) {
	reg := &Registration{Institutional: req.Institutional}

	product, err := resolveProductSelection(req)
	if err != nil {
		return reg, err
	}
	body, err := registrationBody(req.Override)
	if err != nil {
		return reg, err
	}
	serviceURL, err := c.urls.URL(environment.KindService)
	if err != nil {
		return reg, err
	}

	r := &run{c: c, req: req, reg: reg, product: product, serviceURL: serviceURL, body: body}

	err = c.execute(ctx, r, StepBasicRegistration, (*run).basicRegistration)
	if err == nil {
		reg.advance(StateCreated)
		err = c.runAll(ctx, r)
	}

	result := "ok"
	if err != nil {
		result = "error"
	}
	c.metrics.IncrementRegistration(reg.Kind(), result)
	c.logger.InfoContext(ctx, "registration finished",
		"customer_id", reg.Identity.CustomerID,
		"kind", reg.Kind(),
		"state", reg.State.String(),
		"executed", len(reg.Executed),
		"skipped", len(reg.Skipped),
		"result", result,
	)
	return reg, err
}

func (c *Composer) runAll(ctx context.Context, r *run) error {
	if _, err := c.runSteps(ctx, r, onboardingSteps); err != nil {
		return err
	}
	ranProfile, err := c.runSteps(ctx, r, profileStepDefs)
	if err != nil {
		return err
	}
	if ranProfile && !r.profileIncomplete() && !r.toleratedAny(profileStepDefs) {
		r.reg.advance(StateProfileComplete)
	}
	_, err = c.runSteps(ctx, r, closingSteps)
	return err
}

// runSteps executes defs in order and reports whether any of them ran.
func (c *Composer) runSteps(ctx context.Context, r *run, defs []stepDef) (bool, error) {
	ran := false
	for _, def := range defs {
		if def.applies != nil && !def.applies(r.req) {
			continue
		}
		if r.req.Exclude.Has(def.step) {
			r.reg.Skipped = append(r.reg.Skipped, def.step)
			c.metrics.IncrementStepSkipped(string(def.step))
			if def.step == StepVerifyOTP {
				r.reg.advance(StateOTPPending)
			}
			continue
		}
		if err := c.execute(ctx, r, def.step, def.run); err != nil {
			return ran, err
		}
		ran = true
		if r.tolerated.Load() {
			r.reg.Tolerated = append(r.reg.Tolerated, def.step)
			continue
		}
		r.reg.advance(def.reached)
	}
	return ran, nil
}

func (c *Composer) execute(ctx context.Context, r *run, step Step, fn func(r *run, ctx context.Context) error) error {
	ctx, span := c.tracer.Start(ctx, "registration."+string(step),
		trace.WithAttributes(
			attribute.String("registration.step", string(step)),
			attribute.String("registration.kind", r.reg.Kind()),
		))
	defer span.End()

	r.tolerated.Store(false)
	start := time.Now()
	err := fn(r, ctx)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.metrics.ObserveStep(string(step), "error", elapsed)
		c.logger.ErrorContext(ctx, "registration step failed",
			"step", step,
			"customer_id", r.reg.Identity.CustomerID,
			"error", err,
		)
		return &StepError{Step: step, Err: err}
	}

	outcome := "ok"
	if r.tolerated.Load() {
		outcome = "tolerated"
	}
	span.SetAttributes(attribute.String("customer.id", r.reg.Identity.CustomerID))
	r.reg.Executed = append(r.reg.Executed, step)
	c.metrics.ObserveStep(string(step), outcome, elapsed)
	c.logger.DebugContext(ctx, "registration step done",
		"step", step,
		"customer_id", r.reg.Identity.CustomerID,
		"outcome", outcome,
		"duration", elapsed,
	)
	return nil
}

// run is the per-registration working state shared by the steps.
type run struct {
	c          *Composer
	req        Request
	reg        *Registration
	product    newcore.ProductSelection
	serviceURL string
	body       map[string]any
	tolerated  atomic.Bool
}

func (r *run) profileIncomplete() bool {
	for _, def := range profileStepDefs {
		if def.applies != nil && !def.applies(r.req) {
			continue
		}
		if r.req.Exclude.Has(def.step) {
			return true
		}
	}
	return r.req.Exclude.Has(StepSKDU)
}

func (r *run) toleratedAny(defs []stepDef) bool {
	for _, def := range defs {
		if slices.Contains(r.reg.Tolerated, def.step) {
			return true
		}
	}
	return false
}
