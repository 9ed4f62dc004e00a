// Package address holds the shipping address model and its two validation
// layers: field sanitizers applied on ingest, and the submit-time gate that
// must pass before an order may be created.
package address

import (
	"regexp"
	"strings"

	"github.com/go-faster/errors"
)

// phonePrefix is the only accepted country code. Phone numbers are normalized
// to this prefix followed by the national subscriber number.
const phonePrefix = "+92"

var (
	// ErrInvalidEmail is returned when the email does not match local@domain.tld.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrInvalidPhone is returned when the phone is not +92 followed by
	// exactly 10 digits.
	ErrInvalidPhone = errors.New("invalid phone number")
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+92[0-9]{10}$`)
)

// MissingFieldsError reports the required fields that were left empty.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// ShippingAddress is the delivery destination collected at checkout.
// ApartmentSuite is the only optional field.
type ShippingAddress struct {
	RecipientName  string `json:"recipientName"`
	StreetAddress  string `json:"streetAddress"`
	ApartmentSuite string `json:"apartmentSuite,omitempty"`
	City           string `json:"city"`
	State          string `json:"state"`
	Zip            string `json:"zip"`
	Country        string `json:"country"`
	PhoneNumber    string `json:"phoneNumber"`
	Email          string `json:"email"`
}

// Normalize applies the per-field character filters and phone prefixing the
// storefront enforces on keystrokes, so the gate sees the same shape of data
// regardless of the client. It returns a sanitized copy.
func (a ShippingAddress) Normalize() ShippingAddress {
	a.RecipientName = keepLettersAndSpaces(a.RecipientName)
	a.City = keepLettersAndSpaces(a.City)
	a.Country = keepLettersAndSpaces(a.Country)
	a.ApartmentSuite = keepDigits(a.ApartmentSuite)
	a.Zip = keepAlphanumerics(a.Zip)
	a.PhoneNumber = NormalizePhone(a.PhoneNumber)
	a.RecipientName = strings.TrimSpace(a.RecipientName)
	a.StreetAddress = strings.TrimSpace(a.StreetAddress)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.Country = strings.TrimSpace(a.Country)
	a.Email = strings.TrimSpace(a.Email)
	return a
}

// Validate is the submit-time gate. It reports every empty required field at
// once, then checks email and phone formats. A failure here means no order
// submission and no external calls.
func (a ShippingAddress) Validate() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"recipientName", a.RecipientName},
		{"streetAddress", a.StreetAddress},
		{"city", a.City},
		{"state", a.State},
		{"zip", a.Zip},
		{"country", a.Country},
		{"phoneNumber", a.PhoneNumber},
		{"email", a.Email},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}

	if !emailPattern.MatchString(a.Email) {
		return ErrInvalidEmail
	}
	if !phonePattern.MatchString(a.PhoneNumber) {
		return ErrInvalidPhone
	}
	return nil
}

// NormalizePhone rewrites raw input to the +92 canonical form. It strips
// non-digits, removes a leading trunk zero or spelled-out country code, and
// prefixes +92. It never truncates: excess digits are left for Validate to
// reject rather than silently dropped.
func NormalizePhone(raw string) string {
	digits := keepDigits(raw)
	switch {
	case strings.HasPrefix(digits, "0092"):
		digits = digits[4:]
	case strings.HasPrefix(digits, "92") && len(digits) >= 12:
		digits = digits[2:]
	case strings.HasPrefix(digits, "0"):
		digits = digits[1:]
	}
	if digits == "" {
		return ""
	}
	return phonePrefix + digits
}

func keepLettersAndSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return r
		}
		return -1
	}, s)
}

func keepDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func keepAlphanumerics(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return r
		}
		return -1
	}, s)
}
