package registration

// State is how far a registration got. States only move forward.
type State int

const (
	StateInitial State = iota
	StateCreated
	StateOTPPending
	StateOTPVerified
	StateProductPreferenceSet
	StateProfilePartial
	StateProfileComplete
	StateEmailVerified
)

var stateNames = map[State]string{
	StateInitial:              "initial",
	StateCreated:              "created",
	StateOTPPending:           "otp-pending",
	StateOTPVerified:          "otp-verified",
	StateProductPreferenceSet: "product-preference-set",
	StateProfilePartial:       "profile-partial",
	StateProfileComplete:      "profile-complete",
	StateEmailVerified:        "email-verified",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the state by name in JSON output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
