package newcore

import "strings"

// Borrower onboarding endpoints, relative to the service base URL.
const (
	PathRegistration       = "/validate/users/borrower/registration"
	PathOTPVerification    = "/validate/users/borrower/otp/verification"
	PathUsername           = "/validate/users/borrower/username"
	PathProductPreference  = "/validate/customer/product-preference"
	PathIdentification     = "/validate/customer/identification"
	PathPersonalData       = "/validate/customer/personal-data"
	PathBusinessProfile    = "/validate/customer/business-profile"
	PathLegalInformation   = "/validate/customer/legal-information"
	PathBankInformation    = "/validate/customer/bank-information"
	PathEStatement         = "/validate/customer/e-statement"
	PathFinancialStatement = "/validate/customer/financial-statement"
	PathEmergencyContact   = "/validate/customer/emergency-contact"
	PathShareholder        = "/validate/customer/shareholder-information"
)

// Backoffice endpoints, relative to the backend base URL.
const (
	PathBackofficeLogin = "/validate/users/backoffice/login"
	// PathEmailVerification takes a {customerId} path parameter.
	PathEmailVerification = "/validate/users/backoffice/customers/{customerId}/email-verification"
)

// PathCustomerSnapshot is served only by test deployments and the fake backend.
const PathCustomerSnapshot = "/validate/test/customers/{customerId}"

// WithCustomerID fills the {customerId} parameter of a path template.
func WithCustomerID(path, customerID string) string {
	return strings.Replace(path, "{customerId}", customerID, 1)
}
