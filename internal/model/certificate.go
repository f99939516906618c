package model

import "time"

// Certificate references a generated evaluation certificate. Once
// obtained it is immutable and identifies the artifact to display or
// download.
type Certificate struct {
	CertificateID string    `json:"certificateId"`
	FormID        string    `json:"formId,omitempty"`
	EventID       string    `json:"eventId,omitempty"`
	Title         string    `json:"title,omitempty"`
	IssuedAt      time.Time `json:"issuedAt,omitempty"`
}

// Matches reports whether the certificate belongs to the given form or
// event identifier. The portal keys certificates by either, depending on
// how the evaluation was opened.
func (c Certificate) Matches(formOrEventID string) bool {
	if formOrEventID == "" {
		return false
	}
	return c.FormID == formOrEventID || c.EventID == formOrEventID
}
