package model

import (
	"fmt"
	"strings"
)

// FieldName identifies one extractable contact field.
type FieldName string

const (
	FieldPhone    FieldName = "phone"
	FieldEmail    FieldName = "email"
	FieldWebsite  FieldName = "website"
	FieldAddress  FieldName = "address"
	FieldIndustry FieldName = "industry"
	FieldServices FieldName = "services"
)

// FieldNames lists all contact fields in canonical order.
var FieldNames = []FieldName{
	FieldPhone, FieldEmail, FieldWebsite,
	FieldAddress, FieldIndustry, FieldServices,
}

// ContactRecord holds the fields extracted from a company page snapshot.
// An empty string means the field was not found; extraction never errors.
type ContactRecord struct {
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Website  string `json:"website,omitempty"`
	Address  string `json:"address,omitempty"`
	Industry string `json:"industry,omitempty"`
	Services string `json:"services,omitempty"`
}

// Get returns the value of the named field.
func (r ContactRecord) Get(name FieldName) string {
	switch name {
	case FieldPhone:
		return r.Phone
	case FieldEmail:
		return r.Email
	case FieldWebsite:
		return r.Website
	case FieldAddress:
		return r.Address
	case FieldIndustry:
		return r.Industry
	case FieldServices:
		return r.Services
	default:
		return ""
	}
}

// IsEmpty reports whether no field was extracted at all.
func (r ContactRecord) IsEmpty() bool {
	for _, name := range FieldNames {
		if r.Get(name) != "" {
			return false
		}
	}
	return true
}

// HasContact reports whether at least one direct contact channel was found.
func (r ContactRecord) HasContact() bool {
	return r.Phone != "" || r.Email != ""
}

// Validation holds the per-field format check results for a ContactRecord.
type Validation struct {
	Phone    bool `json:"phone"`
	Email    bool `json:"email"`
	Website  bool `json:"website"`
	Address  bool `json:"address"`
	Industry bool `json:"industry"`
	Services bool `json:"services"`
}

// Get returns the validation result for the named field.
func (v Validation) Get(name FieldName) bool {
	switch name {
	case FieldPhone:
		return v.Phone
	case FieldEmail:
		return v.Email
	case FieldWebsite:
		return v.Website
	case FieldAddress:
		return v.Address
	case FieldIndustry:
		return v.Industry
	case FieldServices:
		return v.Services
	default:
		return false
	}
}

// QualityScore returns the percentage of fields that validated, in [0,100].
func (v Validation) QualityScore() float64 {
	valid := 0
	for _, name := range FieldNames {
		if v.Get(name) {
			valid++
		}
	}
	return float64(valid) / float64(len(FieldNames)) * 100
}

// Summary renders a one-line description of the validated record for logs.
func (v Validation) Summary(r ContactRecord) string {
	var parts []string
	if v.Phone {
		parts = append(parts, "phone:"+r.Phone)
	}
	if v.Email {
		parts = append(parts, "email:"+r.Email)
	}
	if v.Website {
		parts = append(parts, "website:ok")
	}
	if v.Address {
		parts = append(parts, "address:ok")
	}
	body := "no valid fields"
	if len(parts) > 0 {
		body = strings.Join(parts, " | ")
	}
	return fmt.Sprintf("%s (quality %.0f%%)", body, v.QualityScore())
}
