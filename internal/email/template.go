package email

import (
	"strings"
	"text/template"
)

// NewLeadData carries the lead fields interpolated into the notification body.
type NewLeadData struct {
	Name        string
	Email       string
	Phone       string
	Company     string
	InquiryType string
	Product     string
	Subject     string
	Message     string
	Budget      string
	Timeline    string
	SourceName  string
	Language    string
	CreatedAt   string
	AdminURL    string
}

var newLeadTemplate = template.Must(template.New("new_lead").Parse(`New lead received.

Name:     {{.Name}}{{if .Company}}
Company:  {{.Company}}{{end}}
Email:    {{.Email}}
Phone:    {{.Phone}}
Inquiry:  {{.InquiryType}}{{if .Product}}
Product:  {{.Product}}{{end}}{{if .Subject}}
Subject:  {{.Subject}}{{end}}

Message:
{{.Message}}
{{if .Budget}}
Budget:   {{.Budget}}{{end}}{{if .Timeline}}
Timeline: {{.Timeline}}{{end}}

Source:   {{.SourceName}}
Language: {{.Language}}
Received: {{.CreatedAt}}
{{if .AdminURL}}
{{.AdminURL}}{{end}}
`))

// RenderNewLead renders the plaintext body for a new-lead notification.
func RenderNewLead(data NewLeadData) (string, error) {
	var buf strings.Builder
	if err := newLeadTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderSubject expands the staff-editable subject template. The only
// supported placeholder is {name}, matching what the admin UI documents.
func RenderSubject(subjectTemplate, name string) string {
	subject := strings.TrimSpace(subjectTemplate)
	if subject == "" {
		subject = "New lead from {name}"
	}
	return strings.ReplaceAll(subject, "{name}", name)
}
