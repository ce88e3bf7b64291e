package email

import (
	"strings"
	"testing"
)

func TestRenderNewLeadIncludesCoreFields(t *testing.T) {
	body, err := RenderNewLead(NewLeadData{
		Name:        "Jane",
		Email:       "jane@x.com",
		Phone:       "+380501234567",
		InquiryType: "price_request",
		Message:     "Need a quote",
		SourceName:  "Google Organic",
		Language:    "uk",
		CreatedAt:   "2026-08-28 10:00",
	})
	if err != nil {
		t.Fatalf("RenderNewLead: %v", err)
	}

	for _, want := range []string{"Jane", "jane@x.com", "+380501234567", "Need a quote", "Google Organic"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "Company:") {
		t.Errorf("empty company should be omitted:\n%s", body)
	}
}

func TestRenderSubject(t *testing.T) {
	if got := RenderSubject("New lead from {name}", "Jane"); got != "New lead from Jane" {
		t.Errorf("RenderSubject = %q", got)
	}
	if got := RenderSubject("", "Jane"); got != "New lead from Jane" {
		t.Errorf("empty template should fall back to default, got %q", got)
	}
	if got := RenderSubject("Inquiry", "Jane"); got != "Inquiry" {
		t.Errorf("template without placeholder should pass through, got %q", got)
	}
}
