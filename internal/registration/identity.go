package registration

// Identity is the borrower produced by the basic registration step. It is
// passed by value to every later step and returned to the caller.
type Identity struct {
	CustomerID   string `json:"customerId"`
	AccessToken  string `json:"accessToken"`
	UserName     string `json:"userName"`
	EmailAddress string `json:"emailAddress"`
}

// WithAccessToken returns a copy carrying token, for callers that rotate
// credentials after registration.
func (i Identity) WithAccessToken(token string) Identity {
	i.AccessToken = token
	return i
}

// Valid reports whether the basic registration produced a usable identity.
func (i Identity) Valid() bool {
	return i.CustomerID != "" && i.AccessToken != ""
}
