package environment

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

// Auth holds the credentials for the three header-based auth schemes.
type Auth struct {
	NewCoreKey      string
	NewCoreSecret   string
	LegacyKey       string
	LegacySecret    string
	APISyncUser     string
	APISyncPassword string

	// Now defaults to time.Now.
	Now func() time.Time
}

func (a Auth) timestamp() string {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	return now().UTC().Format(newcore.TimestampLayout)
}

// NewCore returns new-core token headers. token may be empty for
// unauthenticated calls such as the basic registration.
func (a Auth) NewCore(token string) http.Header {
	ts := a.timestamp()
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set(newcore.HeaderKey, a.NewCoreKey)
	h.Set(newcore.HeaderTimestamp, ts)
	h.Set(newcore.HeaderSignature, newcore.Sign(a.NewCoreKey, a.NewCoreSecret, ts))
	if token != "" {
		h.Set(newcore.HeaderToken, token)
	}
	return h
}

// Legacy returns legacy key/signature headers.
func (a Auth) Legacy() http.Header {
	ts := a.timestamp()
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set(newcore.HeaderKey, a.LegacyKey)
	h.Set(newcore.HeaderTimestamp, ts)
	h.Set(newcore.HeaderSignature, newcore.SignLegacy(a.LegacySecret, ts))
	return h
}

// APISync returns partner API-sync basic-auth headers.
func (a Auth) APISync() http.Header {
	creds := base64.StdEncoding.EncodeToString([]byte(a.APISyncUser + ":" + a.APISyncPassword))
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Authorization", "Basic "+creds)
	return h
}
