package newcore

// ProductSelection identifies the loan product a borrower applies for.
type ProductSelection int

const (
	ProductOSF              ProductSelection = 1
	ProductProjectFinancing ProductSelection = 2
)

// BorrowerCategory distinguishes individual and institutional borrowers.
type BorrowerCategory int

const (
	CategoryIndividual    BorrowerCategory = 1
	CategoryInstitutional BorrowerCategory = 2
)

// Legal entity codes sent with the product preference.
const (
	EntityIndividual = "PERORANGAN"
	EntityPT         = "PT"
)

// LegalDocumentType names a regulatory document in the legal-information step.
type LegalDocumentType string

const (
	DocNPWP          LegalDocumentType = "npwp"
	DocSKDU          LegalDocumentType = "skdu"
	DocSIUP          LegalDocumentType = "siup"
	DocAktaPendirian LegalDocumentType = "aktaPendirian"
	DocAktaTerbaru   LegalDocumentType = "aktaTerbaru"
	DocSKMenkumham   LegalDocumentType = "skMenkumham"
	DocTDP           LegalDocumentType = "tdp"
)

// InstitutionalDocuments are required on top of NPWP/SKDU for institutions.
var InstitutionalDocuments = []LegalDocumentType{
	DocSIUP, DocAktaPendirian, DocAktaTerbaru, DocSKMenkumham, DocTDP,
}

// Meta is the status block of every response envelope.
type Meta struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Envelope wraps every new-core response body.
type Envelope[T any] struct {
	Meta Meta `json:"meta"`
	Data T    `json:"data"`
}

// RegistrationRequest is the default body of the basic registration call.
// Callers may merge arbitrary keys over it.
type RegistrationRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
	Agreement   bool   `json:"agreement"`
	Subscribe   bool   `json:"subscribe"`
}

// RegistrationData is returned by the basic registration call.
type RegistrationData struct {
	CustomerID  string `json:"customerId"`
	AccessToken string `json:"accessToken"`
	Username    string `json:"username"`
	Email       string `json:"email"`
}

type OTPVerificationRequest struct {
	OTP string `json:"otp"`
}

type ProductPreferenceRequest struct {
	Category         BorrowerCategory `json:"category"`
	LegalEntity      string           `json:"legalEntity"`
	ProductSelection ProductSelection `json:"productSelection"`
}

type UsernameRequest struct {
	Username string           `json:"username"`
	Category BorrowerCategory `json:"category"`
}

type IdentificationRequest struct {
	NIK          string `json:"nik"`
	KTPFileURL   string `json:"ktpFileUrl"`
	SelfieURL    string `json:"selfieFileUrl"`
	PlaceOfBirth string `json:"placeOfBirth"`
	DateOfBirth  string `json:"dateOfBirth"`
}

type PersonalDataRequest struct {
	Gender        string `json:"gender"`
	Religion      string `json:"religion"`
	MaritalStatus string `json:"maritalStatus"`
	Education     string `json:"education"`
	MotherName    string `json:"motherMaidenName"`
	Address       string `json:"address"`
	Province      string `json:"province"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
}

type BusinessProfileRequest struct {
	CompanyName       string `json:"companyName"`
	Industry          string `json:"industry"`
	YearsOfOperation  int    `json:"yearsOfOperation"`
	NumberOfEmployees int    `json:"numberOfEmployees"`
	AverageMonthly    int64  `json:"averageMonthlySales"`
	Address           string `json:"address"`
	PhoneNumber       string `json:"phoneNumber"`
}

type LegalDocument struct {
	Type       LegalDocumentType `json:"type"`
	Number     string            `json:"number"`
	FileURL    string            `json:"fileUrl"`
	ExpiryDate string            `json:"expiryDate,omitempty"`
}

type LegalInformationRequest struct {
	Documents []LegalDocument `json:"documents"`
}

type BankInformationRequest struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountHolder string `json:"accountHolderName"`
	CoverFileURL  string `json:"bankCoverFileUrl"`
}

type StatementRequest struct {
	Month   string `json:"month"`
	FileURL string `json:"fileUrl"`
}

type FinancialStatementRequest struct {
	Year    int    `json:"year"`
	FileURL string `json:"fileUrl"`
}

type EmergencyContactRequest struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	PhoneNumber  string `json:"phoneNumber"`
	Address      string `json:"address"`
}

type ShareholderRequest struct {
	Name        string  `json:"name"`
	Position    string  `json:"position"`
	NIK         string  `json:"nik"`
	NPWP        string  `json:"npwp"`
	SharePct    float64 `json:"sharePercentage"`
	PhoneNumber string  `json:"phoneNumber"`
}

type ShareholderInformationRequest struct {
	Shareholders []ShareholderRequest `json:"shareholders"`
}

type EmailVerificationRequest struct {
	Verified bool `json:"verified"`
}

type BackofficeLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type BackofficeLoginData struct {
	Token string `json:"token"`
}

// CustomerSnapshot is the recorded onboarding state of one customer.
type CustomerSnapshot struct {
	CustomerID          string              `json:"customerId"`
	Email               string              `json:"email"`
	Username            string              `json:"username"`
	Channel             string              `json:"channel"`
	OTPVerified         bool                `json:"otpVerified"`
	Category            BorrowerCategory    `json:"category"`
	ProductSelection    ProductSelection    `json:"productSelection"`
	LegalEntity         string              `json:"legalEntity"`
	HasIdentification   bool                `json:"hasIdentification"`
	HasPersonalData     bool                `json:"hasPersonalData"`
	HasBusinessProfile  bool                `json:"hasBusinessProfile"`
	LegalDocuments      []LegalDocumentType `json:"legalDocuments"`
	HasBankInformation  bool                `json:"hasBankInformation"`
	EStatements         int                 `json:"eStatements"`
	FinancialStatements int                 `json:"financialStatements"`
	HasEmergencyContact bool                `json:"hasEmergencyContact"`
	Shareholders        int                 `json:"shareholders"`
	EmailVerified       bool                `json:"emailVerified"`
}
