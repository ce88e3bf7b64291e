// Package notification fans persisted leads out to the configured channels.
package notification

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Settings is the notification configuration, stored as a single editable
// row. Dispatchers receive it by value so a mid-flight settings edit never
// changes the behavior of an in-progress fan-out.
type Settings struct {
	EmailEnabled         bool      `json:"email_enabled"`
	EmailRecipients      string    `json:"email_recipients"`
	EmailSubjectTemplate string    `json:"email_subject_template"`
	TelegramEnabled      bool      `json:"telegram_enabled"`
	TelegramBotToken     string    `json:"telegram_bot_token"`
	TelegramChatID       string    `json:"telegram_chat_id"`
	ViberEnabled         bool      `json:"viber_enabled"`
	ViberBotToken        string    `json:"viber_bot_token"`
	ViberAdminID         string    `json:"viber_admin_id"`
	MaxRetries           int       `json:"max_retries"`
	RetryDelaySeconds    int       `json:"retry_delay_seconds"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Recipients splits the comma-separated recipient list.
func (s Settings) Recipients() []string {
	parts := strings.Split(s.EmailRecipients, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// RetryDelay returns the configured pause between delivery attempts.
func (s Settings) RetryDelay() time.Duration {
	if s.RetryDelaySeconds < 0 {
		return 0
	}
	return time.Duration(s.RetryDelaySeconds) * time.Second
}

// Attempts returns the total attempts per channel, at least one.
func (s Settings) Attempts() int {
	if s.MaxRetries < 1 {
		return 1
	}
	return s.MaxRetries
}

const settingsColumns = `email_enabled, email_recipients, email_subject_template,
	telegram_enabled, telegram_bot_token, telegram_chat_id,
	viber_enabled, viber_bot_token, viber_admin_id,
	max_retries, retry_delay_seconds, updated_at`

// SettingsRepository persists the singleton settings row.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Get returns the settings row, creating it with defaults on first read.
func (r *SettingsRepository) Get(ctx context.Context) (Settings, error) {
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO notification_settings (id) VALUES (1)
		ON CONFLICT (id) DO NOTHING
	`); err != nil {
		return Settings{}, err
	}

	var s Settings
	err := r.pool.QueryRow(ctx,
		`SELECT `+settingsColumns+` FROM notification_settings WHERE id = 1`,
	).Scan(
		&s.EmailEnabled, &s.EmailRecipients, &s.EmailSubjectTemplate,
		&s.TelegramEnabled, &s.TelegramBotToken, &s.TelegramChatID,
		&s.ViberEnabled, &s.ViberBotToken, &s.ViberAdminID,
		&s.MaxRetries, &s.RetryDelaySeconds, &s.UpdatedAt,
	)
	if err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Update replaces the editable settings fields and returns the stored row.
func (r *SettingsRepository) Update(ctx context.Context, s Settings) (Settings, error) {
	var out Settings
	err := r.pool.QueryRow(ctx, `
		UPDATE notification_settings SET
			email_enabled = $1, email_recipients = $2, email_subject_template = $3,
			telegram_enabled = $4, telegram_bot_token = $5, telegram_chat_id = $6,
			viber_enabled = $7, viber_bot_token = $8, viber_admin_id = $9,
			max_retries = $10, retry_delay_seconds = $11, updated_at = now()
		WHERE id = 1
		RETURNING `+settingsColumns,
		s.EmailEnabled, s.EmailRecipients, s.EmailSubjectTemplate,
		s.TelegramEnabled, s.TelegramBotToken, s.TelegramChatID,
		s.ViberEnabled, s.ViberBotToken, s.ViberAdminID,
		s.MaxRetries, s.RetryDelaySeconds,
	).Scan(
		&out.EmailEnabled, &out.EmailRecipients, &out.EmailSubjectTemplate,
		&out.TelegramEnabled, &out.TelegramBotToken, &out.TelegramChatID,
		&out.ViberEnabled, &out.ViberBotToken, &out.ViberAdminID,
		&out.MaxRetries, &out.RetryDelaySeconds, &out.UpdatedAt,
	)
	if err != nil {
		return Settings{}, err
	}
	return out, nil
}
