package fixture

import (
	"time"

	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

const dateLayout = "2006-01-02"

// Registration returns a basic registration body for email and username.
func Registration(email, username string) newcore.RegistrationRequest {
	return newcore.RegistrationRequest{
		FullName:    FullName(),
		Email:       email,
		Username:    username,
		Password:    Password(),
		PhoneNumber: Phone(),
		Agreement:   true,
		Subscribe:   false,
	}
}

func Identification() newcore.IdentificationRequest {
	city, _ := Location()
	return newcore.IdentificationRequest{
		NIK:          NIK(),
		KTPFileURL:   FileURL("ktp"),
		SelfieURL:    FileURL("selfie"),
		PlaceOfBirth: city,
		DateOfBirth:  DateOfBirth().Format(dateLayout),
	}
}

func PersonalData() newcore.PersonalDataRequest {
	city, province := Location()
	gender := "M"
	if randIntn(2) == 0 {
		gender = "F"
	}
	return newcore.PersonalDataRequest{
		Gender:        gender,
		Religion:      pick(religions),
		MaritalStatus: pick(maritalStatuses),
		Education:     pick(educations),
		MotherName:    FullName(),
		Address:       Street(),
		Province:      province,
		City:          city,
		PostalCode:    PostalCode(),
	}
}

func BusinessProfile() newcore.BusinessProfileRequest {
	return newcore.BusinessProfileRequest{
		CompanyName:       CompanyName(),
		Industry:          pick(industries),
		YearsOfOperation:  2 + randIntn(20),
		NumberOfEmployees: 5 + randIntn(500),
		AverageMonthly:    int64(50+randIntn(950)) * 1_000_000,
		Address:           Street(),
		PhoneNumber:       Phone(),
	}
}

// LegalDocuments returns one document per type, in the given order.
func LegalDocuments(types []newcore.LegalDocumentType) []newcore.LegalDocument {
	expiry := time.Now().AddDate(5, 0, 0).Format(dateLayout)
	docs := make([]newcore.LegalDocument, 0, len(types))
	for _, t := range types {
		doc := newcore.LegalDocument{
			Type:    t,
			Number:  DocumentNumber(string(t)),
			FileURL: FileURL(string(t)),
		}
		switch t {
		case newcore.DocNPWP:
			doc.Number = NPWP()
		case newcore.DocSIUP, newcore.DocTDP, newcore.DocSKDU:
			doc.ExpiryDate = expiry
		}
		docs = append(docs, doc)
	}
	return docs
}

func BankInformation(holder string) newcore.BankInformationRequest {
	return newcore.BankInformationRequest{
		BankName:      pick(banks),
		AccountNumber: Digits(10),
		AccountHolder: holder,
		CoverFileURL:  FileURL("bank-cover"),
	}
}

// EStatements returns n monthly bank statements ending last month.
func EStatements(now time.Time, n int) []newcore.StatementRequest {
	months := RecentMonths(now, n)
	out := make([]newcore.StatementRequest, n)
	for i, m := range months {
		out[i] = newcore.StatementRequest{Month: m, FileURL: FileURL("e-statement")}
	}
	return out
}

// FinancialStatements returns n yearly statements ending last year.
func FinancialStatements(now time.Time, n int) []newcore.FinancialStatementRequest {
	out := make([]newcore.FinancialStatementRequest, n)
	for i := range out {
		out[i] = newcore.FinancialStatementRequest{
			Year:    now.Year() - (i + 1),
			FileURL: FileURL("financial-statement"),
		}
	}
	return out
}

func EmergencyContact() newcore.EmergencyContactRequest {
	return newcore.EmergencyContactRequest{
		Name:         FullName(),
		Relationship: pick(relationships),
		PhoneNumber:  Phone(),
		Address:      Street(),
	}
}

// Shareholders returns n shareholders whose shares sum to 100.
func Shareholders(n int) []newcore.ShareholderRequest {
	out := make([]newcore.ShareholderRequest, n)
	share := 100.0 / float64(n)
	for i := range out {
		out[i] = newcore.ShareholderRequest{
			Name:        FullName(),
			Position:    pick(positions),
			NIK:         NIK(),
			NPWP:        NPWP(),
			SharePct:    share,
			PhoneNumber: Phone(),
		}
	}
	return out
}
