// Package forms validates and normalizes public lead submissions.
// Each entry point shares the same pipeline and differs only in its
// required-field set and inquiry defaulting.
package forms

import (
	"strings"

	"adiabatic_site_backend/internal/leads/repository"
	"adiabatic_site_backend/platform/phone"
	"adiabatic_site_backend/platform/validator"
)

// User-facing validation messages.
const (
	MsgSpamDetected  = "Spam detected."
	MsgFieldRequired = "This field is required."
	MsgInvalidEmail  = "Enter a valid email address."
	MsgInvalidPhone  = "Enter a valid phone number (e.g. +380501234567)."
	MsgConsentNeeded = "Consent to personal data processing is required."
	MsgInvalidType   = "Select a valid inquiry type."
)

// Errors accumulates field-level failures. Every failing field is reported,
// not just the first.
type Errors map[string][]string

func (e Errors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Input is the raw submission as parsed from the request body. Website is
// the honeypot: hidden on the site, so any value means a bot filled it in.
type Input struct {
	Website          string
	Name             string
	Email            string
	Phone            string
	Company          string
	Position         string
	InquiryType      string
	Subject          string
	Message          string
	BudgetRange      string
	ProjectTimeline  string
	ConsentGDPR      bool
	ConsentMarketing bool
}

// Normalized is a submission that passed validation: fields trimmed, phone
// in dialing-prefix form, inquiry type resolved.
type Normalized struct {
	Name             string
	Email            string
	Phone            string
	Company          string
	Position         string
	InquiryType      string
	Subject          string
	Message          string
	BudgetRange      string
	ProjectTimeline  string
	ConsentGDPR      bool
	ConsentMarketing bool
}

// Validator runs the per-entry-point validation pipelines.
type Validator struct {
	checks *validator.Validator
}

func New(checks *validator.Validator) *Validator {
	return &Validator{checks: checks}
}

// Submit validates the full form: name, email, phone, message and consent
// are required, inquiry type defaults to "other" when absent.
func (v *Validator) Submit(in Input) (Normalized, Errors) {
	return v.validate(in, []string{"name", "email", "message"})
}

// QuickQuote validates the reduced quote form: message is optional and the
// inquiry classification is forced to price_request regardless of input.
func (v *Validator) QuickQuote(in Input) (Normalized, Errors) {
	in.InquiryType = repository.InquiryPriceRequest
	return v.validate(in, []string{"name", "email"})
}

// Contact validates the generic contact form.
func (v *Validator) Contact(in Input) (Normalized, Errors) {
	return v.validate(in, []string{"name", "email", "message"})
}

// QuickQuoteSubject synthesizes the subject line for quote requests.
func QuickQuoteSubject(productName string) string {
	if productName == "" {
		productName = "General"
	}
	return "Quick price request - " + productName
}

func (v *Validator) validate(in Input, requiredText []string) (Normalized, Errors) {
	// The honeypot aborts everything: a bot gets one generic error and no
	// hints about what else would have failed.
	if strings.TrimSpace(in.Website) != "" {
		return Normalized{}, Errors{"website": {MsgSpamDetected}}
	}

	errs := Errors{}

	normalizedPhone := phone.Normalize(in.Phone)
	switch {
	case normalizedPhone == "":
		errs.add("phone", MsgFieldRequired)
	case !phone.Valid(normalizedPhone):
		errs.add("phone", MsgInvalidPhone)
	}

	fields := map[string]string{
		"name":    strings.TrimSpace(in.Name),
		"email":   strings.TrimSpace(in.Email),
		"message": strings.TrimSpace(in.Message),
	}
	for _, field := range requiredText {
		if fields[field] == "" {
			errs.add(field, MsgFieldRequired)
		}
	}
	if fields["email"] != "" {
		if err := v.checks.Var(fields["email"], "email"); err != nil {
			errs.add("email", MsgInvalidEmail)
		}
	}

	inquiry := strings.TrimSpace(in.InquiryType)
	if inquiry == "" {
		inquiry = repository.InquiryOther
	} else if !repository.ValidInquiryType(inquiry) {
		errs.add("inquiry_type", MsgInvalidType)
	}

	if !in.ConsentGDPR {
		errs.add("consent_gdpr", MsgConsentNeeded)
	}

	if len(errs) > 0 {
		return Normalized{}, errs
	}

	return Normalized{
		Name:             fields["name"],
		Email:            fields["email"],
		Phone:            normalizedPhone,
		Company:          strings.TrimSpace(in.Company),
		Position:         strings.TrimSpace(in.Position),
		InquiryType:      inquiry,
		Subject:          strings.TrimSpace(in.Subject),
		Message:          fields["message"],
		BudgetRange:      strings.TrimSpace(in.BudgetRange),
		ProjectTimeline:  strings.TrimSpace(in.ProjectTimeline),
		ConsentGDPR:      in.ConsentGDPR,
		ConsentMarketing: in.ConsentMarketing,
	}, nil
}
