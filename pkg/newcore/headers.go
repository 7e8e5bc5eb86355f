package newcore

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"time"
)

// Header names shared by the new-core and legacy auth schemes.
const (
	HeaderKey       = "X-Investree-Key"
	HeaderSignature = "X-Investree-Signature"
	HeaderTimestamp = "X-Investree-TimeStamp"
	HeaderToken     = "X-Investree-Token"
	HeaderRequestID = "X-Request-Id"
)

// TimestampLayout is the format of HeaderTimestamp.
const TimestampLayout = time.RFC3339

// Sign computes the new-core request signature: lowercase hex of
// HMAC-SHA512(secret, key + timestamp).
func Sign(key, secret, timestamp string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(key + timestamp))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignLegacy computes the legacy signature: lowercase hex of
// HMAC-SHA256(secret, timestamp).
func SignLegacy(secret, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether sig matches Sign(key, secret, timestamp).
func VerifySignature(key, secret, timestamp, sig string) bool {
	want := Sign(key, secret, timestamp)
	return hmac.Equal([]byte(want), []byte(sig))
}
