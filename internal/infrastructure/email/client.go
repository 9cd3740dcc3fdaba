// Package email provides email client functionality
package email

import (
	"fmt"

	"github.com/resendlabs/resend-go"

	"github.com/presetbase/presetbase-go/internal/infrastructure/email/templates"
)

// Client sends transactional email through Resend.
type Client struct {
	resend    *resend.Client
	fromEmail string
	fromName  string
}

// NewClient creates an email client. Returns an error when no API key is
// configured; callers may treat that as "email disabled".
func NewClient(apiKey, fromEmail, fromName string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	return &Client{
		resend:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

// SendSubmissionApproved notifies a submitter that their entry went live.
func (c *Client) SendSubmissionApproved(toEmail, name, songTitle string) error {
	content := templates.GetApprovalEmailContent(templates.DecisionEmailProps{
		Name:      name,
		SongTitle: songTitle,
	})

	return c.send(toEmail, "Your PresetBase submission was approved", content)
}

// SendSubmissionDenied notifies a submitter that their entry was declined.
func (c *Client) SendSubmissionDenied(toEmail, name, songTitle, reason string) error {
	content := templates.GetDenialEmailContent(templates.DecisionEmailProps{
		Name:      name,
		SongTitle: songTitle,
		Reason:    reason,
	})

	return c.send(toEmail, "About your PresetBase submission", content)
}

func (c *Client) send(toEmail, subject, content string) error {
	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Content: content,
	})

	request := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	if _, err := c.resend.Emails.Send(request); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
