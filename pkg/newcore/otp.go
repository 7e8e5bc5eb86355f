package newcore

// OTPKeyPrefix prefixes the OTP cache key of a customer.
const OTPKeyPrefix = "otp:"

// OTPCacheKey is where the service caches the pending OTP for a customer.
func OTPCacheKey(customerID string) string {
	return OTPKeyPrefix + customerID
}
