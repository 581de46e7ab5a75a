// Package validate checks extracted contact fields against format rules.
// Validation scores are for logging and reporting only; partial records
// are always kept, since some data beats discarding the row.
package validate

import (
	"regexp"

	"github.com/step1ne/enrich-cli/internal/model"
)

var (
	// Landline 02-1234-5678 / mobile 0912-345-678 in hyphenated form,
	// or a bare 10-11 digit number.
	hyphenatedPhonePattern = regexp.MustCompile(`^0\d{1,3}-\d{3,4}-\d{3,4}$`)
	barePhonePattern       = regexp.MustCompile(`^0\d{9,10}$`)
	intlPhonePattern       = regexp.MustCompile(`^\+886\d{8,9}$`)

	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	websitePattern = regexp.MustCompile(`(?i)^https?://\S+\.[a-z]{2,}(/\S*)?$`)
)

// Phone reports whether phone matches the canonical hyphenated shape or a
// bare mobile number.
func Phone(phone string) bool {
	if phone == "" {
		return false
	}
	return hyphenatedPhonePattern.MatchString(phone) ||
		barePhonePattern.MatchString(phone) ||
		intlPhonePattern.MatchString(phone)
}

// Email reports whether email matches local@domain.tld with a dotted domain.
func Email(email string) bool {
	return email != "" && emailPattern.MatchString(email)
}

// Website reports whether website carries an explicit scheme and a dotted
// domain.
func Website(website string) bool {
	return website != "" && websitePattern.MatchString(website)
}

// Record validates every field of an extracted record. Free-text fields
// (address, industry, services) have no stricter grammar than presence.
func Record(r model.ContactRecord) model.Validation {
	return model.Validation{
		Phone:    Phone(r.Phone),
		Email:    Email(r.Email),
		Website:  Website(r.Website),
		Address:  r.Address != "",
		Industry: r.Industry != "",
		Services: r.Services != "",
	}
}
