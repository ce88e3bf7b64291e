package notification

import (
	"context"

	"adiabatic_site_backend/internal/email"
	"adiabatic_site_backend/internal/leads/repository"
	"adiabatic_site_backend/platform/phone"
)

// Channel is one notification transport. Configured reports whether the
// channel is enabled and carries complete credentials; an unconfigured
// channel is skipped without counting as a failure.
type Channel interface {
	Name() string
	ActivityType() string
	Configured(settings Settings) bool
	Send(ctx context.Context, lead repository.Lead, sourceName string, settings Settings) error
}

// EmailChannel delivers the plaintext new-lead notification over SMTP.
type EmailChannel struct {
	sender email.Sender
}

func NewEmailChannel(sender email.Sender) *EmailChannel {
	return &EmailChannel{sender: sender}
}

func (ch *EmailChannel) Name() string { return "email" }
func (ch *EmailChannel) ActivityType() string { return repository.ActivityEmailSent }

func (ch *EmailChannel) Configured(settings Settings) bool {
	return settings.EmailEnabled && len(settings.Recipients()) > 0
}

func (ch *EmailChannel) Send(ctx context.Context, lead repository.Lead, sourceName string, settings Settings) error {
	body, err := email.RenderNewLead(email.NewLeadData{
		Name:        lead.Name,
		Email:       lead.Email,
		Phone:       phone.Pretty(lead.Phone),
		Company:     lead.Company,
		InquiryType: inquiryLabel(lead.InquiryType),
		Subject:     lead.Subject,
		Message:     lead.Message,
		Budget:      lead.BudgetRange,
		Timeline:    lead.ProjectTimeline,
		SourceName:  sourceName,
		Language:    lead.Language,
		CreatedAt:   lead.CreatedAt.Format("2006-01-02 15:04"),
	})
	if err != nil {
		return err
	}

	subject := email.RenderSubject(settings.EmailSubjectTemplate, lead.Name)
	return ch.sender.Send(ctx, settings.Recipients(), subject, body)
}

// TelegramChannel delivers a Markdown message through the Bot API.
type TelegramChannel struct {
	client *TelegramClient
}

func NewTelegramChannel(client *TelegramClient) *TelegramChannel {
	return &TelegramChannel{client: client}
}

func (ch *TelegramChannel) Name() string { return "telegram" }
func (ch *TelegramChannel) ActivityType() string { return repository.ActivityTelegramSent }

func (ch *TelegramChannel) Configured(settings Settings) bool {
	return settings.TelegramEnabled && settings.TelegramBotToken != "" && settings.TelegramChatID != ""
}

func (ch *TelegramChannel) Send(ctx context.Context, lead repository.Lead, sourceName string, settings Settings) error {
	return ch.client.SendMessage(ctx, settings.TelegramBotToken, settings.TelegramChatID, telegramMessage(lead, sourceName))
}

// ViberChannel delivers a plaintext message to the admin user.
type ViberChannel struct {
	client *ViberClient
}

func NewViberChannel(client *ViberClient) *ViberChannel {
	return &ViberChannel{client: client}
}

func (ch *ViberChannel) Name() string { return "viber" }
func (ch *ViberChannel) ActivityType() string { return repository.ActivityViberSent }

func (ch *ViberChannel) Configured(settings Settings) bool {
	return settings.ViberEnabled && settings.ViberBotToken != "" && settings.ViberAdminID != ""
}

func (ch *ViberChannel) Send(ctx context.Context, lead repository.Lead, sourceName string, settings Settings) error {
	return ch.client.SendMessage(ctx, settings.ViberBotToken, settings.ViberAdminID, viberMessage(lead, sourceName))
}
