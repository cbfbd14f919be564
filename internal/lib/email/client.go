// Package email sends transactional e-mail through Resend. Bodies are
// rendered from HTML templates embedded in the binary.
package email

import (
	"fmt"

	"github.com/deppfellow/taskmanagement/internal/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

const sender = "Task Management <onboarding@resend.dev>"

type Client struct {
	// client is nil when no Resend API key is configured.
	client *resend.Client
	logger *zerolog.Logger
}

func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	c := &Client{logger: logger}
	if cfg.Integration.ResendAPIKey != "" {
		c.client = resend.NewClient(cfg.Integration.ResendAPIKey)
	}
	return c
}

// Enabled reports whether e-mails are actually delivered.
func (c *Client) Enabled() bool {
	return c.client != nil
}

func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]string) error {
	body, err := RenderTemplate(templateName, data)
	if err != nil {
		return err
	}

	if !c.Enabled() {
		c.logger.Warn().
			Str("to", to).
			Str("template", string(templateName)).
			Msg("resend api key not configured, skipping email delivery")
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    sender,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}

	sent, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Debug().
		Str("email_id", sent.Id).
		Str("template", string(templateName)).
		Msg("email sent")

	return nil
}
