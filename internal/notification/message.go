package notification

import (
	"strings"

	"adiabatic_site_backend/internal/leads/repository"
	"adiabatic_site_backend/platform/phone"
)

var inquiryLabels = map[string]string{
	repository.InquiryPriceRequest:     "Price request",
	repository.InquiryTechConsultation: "Technical consultation",
	repository.InquiryPartnership:      "Partnership",
	repository.InquiryService:          "Service",
	repository.InquiryOther:            "Other",
}

func inquiryLabel(inquiryType string) string {
	if label, ok := inquiryLabels[inquiryType]; ok {
		return label
	}
	return inquiryType
}

// telegramMessage composes the Markdown body for the Telegram channel.
func telegramMessage(lead repository.Lead, sourceName string) string {
	var b strings.Builder
	b.WriteString("*New lead: " + lead.Name + "*\n\n")
	b.WriteString("*Email:* " + lead.Email + "\n")
	b.WriteString("*Phone:* " + phone.Pretty(lead.Phone) + "\n")
	if lead.Company != "" {
		b.WriteString("*Company:* " + lead.Company + "\n")
	}
	b.WriteString("*Inquiry:* " + inquiryLabel(lead.InquiryType) + "\n")
	if lead.Subject != "" {
		b.WriteString("*Subject:* " + lead.Subject + "\n")
	}
	if sourceName != "" {
		b.WriteString("*Source:* " + sourceName + "\n")
	}
	if lead.Message != "" {
		b.WriteString("\n" + lead.Message + "\n")
	}
	return b.String()
}

// viberMessage composes the plaintext body for the Viber channel.
func viberMessage(lead repository.Lead, sourceName string) string {
	var b strings.Builder
	b.WriteString("New lead: " + lead.Name + "\n\n")
	b.WriteString("Email: " + lead.Email + "\n")
	b.WriteString("Phone: " + phone.Pretty(lead.Phone) + "\n")
	if lead.Company != "" {
		b.WriteString("Company: " + lead.Company + "\n")
	}
	b.WriteString("Inquiry: " + inquiryLabel(lead.InquiryType) + "\n")
	if lead.Subject != "" {
		b.WriteString("Subject: " + lead.Subject + "\n")
	}
	if sourceName != "" {
		b.WriteString("Source: " + sourceName + "\n")
	}
	if lead.Message != "" {
		b.WriteString("\n" + lead.Message + "\n")
	}
	return b.String()
}
