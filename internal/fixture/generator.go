// Package fixture generates realistic borrower data for registration payloads.
// All randomness comes from crypto/rand so parallel runs never collide.
package fixture

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	alnumChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	lowerAlnum  = "abcdefghijklmnopqrstuvwxyz0123456789"
	digitChars  = "0123456789"
	emailTokenN = 15
)

// Email returns test.<15 alphanumerics>@investree.id.
func Email() string {
	return "test." + Alnum(emailTokenN) + "@" + EmailDomain
}

// Alnum returns n random alphanumeric characters.
func Alnum(n int) string {
	return fromAlphabet(alnumChars, n)
}

// Digits returns n random decimal digits.
func Digits(n int) string {
	return fromAlphabet(digitChars, n)
}

// Username returns a lowercase username that fits backend length limits.
func Username() string {
	return "qa" + fromAlphabet(lowerAlnum, 10)
}

// Password returns a password meeting the backend policy: upper, lower,
// digit and symbol.
func Password() string {
	return "Qa" + fromAlphabet(lowerAlnum, 6) + Digits(2) + "!"
}

// Name returns a random first/last name pair.
func Name() (first, last string) {
	return pick(firstNames), pick(lastNames)
}

// FullName returns "First Last".
func FullName() string {
	first, last := Name()
	return first + " " + last
}

// Phone returns an Indonesian mobile number like 0812xxxxxxxx.
func Phone() string {
	return "0812" + Digits(8)
}

// NIK returns a 16-digit national identity number.
func NIK() string {
	return Digits(16)
}

// NPWP returns a tax number formatted as 99.999.999.9-999.999.
func NPWP() string {
	d := Digits(15)
	return fmt.Sprintf("%s.%s.%s.%s-%s.%s", d[0:2], d[2:5], d[5:8], d[8:9], d[9:12], d[12:15])
}

// DocumentNumber returns an upper-case document number with prefix.
func DocumentNumber(prefix string) string {
	return strings.ToUpper(prefix) + "-" + Digits(4) + "/" + Digits(6)
}

// Street returns a street address like "Jl. Sudirman No. 12".
func Street() string {
	return fmt.Sprintf("%s No. %d", pick(streets), 1+randIntn(200))
}

// Location returns a city and its province.
func Location() (city, province string) {
	c := cities[randIntn(len(cities))]
	return c.City, c.Province
}

// PostalCode returns a 5-digit postal code.
func PostalCode() string {
	return fmt.Sprintf("%05d", 10000+randIntn(90000))
}

// DateOfBirth returns a birth date between 21 and 60 years ago.
func DateOfBirth() time.Time {
	age := 21 + randIntn(40)
	return time.Now().AddDate(-age, 0, -randIntn(365)).Truncate(24 * time.Hour)
}

// CompanyName returns "PT <Word> <Word>".
func CompanyName() string {
	return "PT " + pick(companyWords) + " " + pick(companyWords) + " " + Alnum(3)
}

// FileURL returns a placeholder document URL for kind.
func FileURL(kind string) string {
	return FileHost + "/" + kind + "/" + Alnum(12) + ".pdf"
}

// RecentMonths returns the n months before now as "2006-01", newest first.
func RecentMonths(now time.Time, n int) []string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]string, n)
	for i := range n {
		out[i] = first.AddDate(0, -(i + 1), 0).Format("2006-01")
	}
	return out
}

// pick returns a random element from a string slice.
func pick(s []string) string {
	return s[randIntn(len(s))]
}

func fromAlphabet(alphabet string, n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = alphabet[randIntn(len(alphabet))]
	}
	return string(buf)
}

// randIntn returns a cryptographically random int in [0, n).
func randIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failure is unrecoverable
		panic("crypto/rand: " + err.Error())
	}
	return int(v.Int64())
}
