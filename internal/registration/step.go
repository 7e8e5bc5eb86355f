package registration

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// ErrUnknownStep is returned when parsing an exclusion token that names no step.
var ErrUnknownStep = errors.New("unknown registration step")

// Step names one unit of the registration flow.
type Step string

const (
	StepBasicRegistration  Step = "basic-registration"
	StepVerifyOTP          Step = "verify-otp"
	StepProductPreference  Step = "product-preference"
	StepUpdateUsername     Step = "update-username"
	StepIdentification     Step = "identification"
	StepPersonalData       Step = "personal-data"
	StepBusinessProfile    Step = "business-profile"
	StepLegalInformation   Step = "legal-information"
	StepSKDU               Step = "skdu"
	StepBankInformation    Step = "bank-information"
	StepEStatement         Step = "e-statement"
	StepFinancialStatement Step = "financial-statement"
	StepEmergencyContact   Step = "emergency-contact"
	StepShareholder        Step = "shareholder-information"
	StepVerifyEmail        Step = "verify-email"
)

// Aggregate tokens accepted wherever an exclusion list is parsed.
const (
	All                  Step = "all"
	AllExceptVerifyEmail Step = "all-except-verify-email"
)

// profileSteps is what "all" expands to.
var profileSteps = []Step{
	StepIdentification,
	StepPersonalData,
	StepBusinessProfile,
	StepLegalInformation,
	StepBankInformation,
	StepEStatement,
	StepFinancialStatement,
	StepEmergencyContact,
	StepShareholder,
	StepVerifyEmail,
}

// excludable lists every step an exclusion set may name. The basic
// registration is not among them: it always runs.
var excludable = []Step{
	StepVerifyOTP,
	StepProductPreference,
	StepUpdateUsername,
	StepIdentification,
	StepPersonalData,
	StepBusinessProfile,
	StepLegalInformation,
	StepSKDU,
	StepBankInformation,
	StepEStatement,
	StepFinancialStatement,
	StepEmergencyContact,
	StepShareholder,
	StepVerifyEmail,
}

// AllSteps returns the concrete steps the "all" token expands to.
func AllSteps() []Step {
	return slices.Clone(profileSteps)
}

// ParseStep validates a single step or aggregate token.
func ParseStep(s string) (Step, error) {
	step := Step(strings.TrimSpace(s))
	if step == All || step == AllExceptVerifyEmail || slices.Contains(excludable, step) {
		return step, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStep, s)
}

// ExclusionSet is the set of steps a registration skips. The zero value
// excludes nothing.
type ExclusionSet map[Step]struct{}

// Exclude builds an exclusion set, expanding aggregate tokens.
func Exclude(steps ...Step) ExclusionSet {
	set := make(ExclusionSet, len(steps))
	for _, s := range steps {
		switch s {
		case All:
			for _, p := range profileSteps {
				set[p] = struct{}{}
			}
		case AllExceptVerifyEmail:
			for _, p := range profileSteps {
				if p != StepVerifyEmail {
					set[p] = struct{}{}
				}
			}
		default:
			set[s] = struct{}{}
		}
	}
	return set
}

// ParseExclusions parses free-form tokens (e.g. from a CLI flag or a feature
// file) into an exclusion set. Unknown names are rejected.
func ParseExclusions(tokens []string) (ExclusionSet, error) {
	steps := make([]Step, 0, len(tokens))
	for _, t := range tokens {
		if strings.TrimSpace(t) == "" {
			continue
		}
		s, err := ParseStep(t)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return Exclude(steps...), nil
}

// Has reports whether step is excluded.
func (e ExclusionSet) Has(step Step) bool {
	_, ok := e[step]
	return ok
}

// Steps returns the excluded steps sorted by name.
func (e ExclusionSet) Steps() []Step {
	out := make([]Step, 0, len(e))
	for s := range e {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
