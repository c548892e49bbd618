package domain

import (
	"fmt"
	"strings"
)

// Recipient is one person's personalization record, constructed once per pass
// from campaign storage. Read-only to the engine.
type Recipient struct {
	ID            string `json:"id"`
	Name          string `json:"name" validate:"required"`
	LastName      string `json:"lastname" validate:"required"`
	Street        string `json:"street"`
	City          string `json:"city"`
	Zip           string `json:"zip"`
	Phone         string `json:"phone"`
	Message       string `json:"message"`
	QRImageRef    string `json:"qrImageRef"`    // pre-rendered QR encoding this recipient's tracking URL
	BackgroundRef string `json:"backgroundRef"` // optional per-recipient background
}

// FullName returns "{name} {lastname}".
func (r *Recipient) FullName() string {
	return strings.TrimSpace(r.Name + " " + r.LastName)
}

// AddressLine returns "{street}, {city}, {zip}".
func (r *Recipient) AddressLine() string {
	return fmt.Sprintf("%s, %s, %s", r.Street, r.City, r.Zip)
}

// FormattedPhone returns the phone number in "(XXX) XXX-XXXX" form when it
// contains exactly ten digits, otherwise the stored string unchanged.
func (r *Recipient) FormattedPhone() string {
	var digits []byte
	for i := 0; i < len(r.Phone); i++ {
		if c := r.Phone[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) != 10 {
		return r.Phone
	}
	return fmt.Sprintf("(%s) %s-%s", digits[0:3], digits[3:6], digits[6:10])
}
