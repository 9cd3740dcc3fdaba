// Package templates provides HTML email content for submission decisions.
package templates

import "fmt"

// DecisionEmailProps carries the fields rendered into a decision email.
type DecisionEmailProps struct {
	Name      string
	SongTitle string
	Reason    string
}

// GetApprovalEmailContent renders the body of an approval notice.
func GetApprovalEmailContent(props DecisionEmailProps) string {
	name := props.Name
	if name == "" {
		name = "there"
	}

	return fmt.Sprintf(`
	<h2 style="color: #1a1a2e; margin-bottom: 16px;">Your submission is live!</h2>
	<p style="font-size: 16px; line-height: 1.6;">Hi %s,</p>
	<p style="font-size: 16px; line-height: 1.6;">
		Good news: your submission for <strong>%s</strong> was approved and is
		now part of the PresetBase catalog.
	</p>
	<p style="font-size: 16px; line-height: 1.6;">
		Thanks for helping document the synth sounds behind the music.
	</p>`, name, props.SongTitle)
}

// GetDenialEmailContent renders the body of a denial notice.
func GetDenialEmailContent(props DecisionEmailProps) string {
	name := props.Name
	if name == "" {
		name = "there"
	}

	reason := props.Reason
	if reason == "" {
		reason = "it did not meet the catalog guidelines"
	}

	return fmt.Sprintf(`
	<h2 style="color: #1a1a2e; margin-bottom: 16px;">About your submission</h2>
	<p style="font-size: 16px; line-height: 1.6;">Hi %s,</p>
	<p style="font-size: 16px; line-height: 1.6;">
		Your submission for <strong>%s</strong> was not approved: %s.
	</p>
	<p style="font-size: 16px; line-height: 1.6;">
		You are welcome to revise and resubmit at any time.
	</p>`, name, props.SongTitle, reason)
}

// EmailLayoutProps wraps rendered content in the shared layout.
type EmailLayoutProps struct {
	Content string
}

// GetEmailLayout wraps content in the outer HTML shell.
func GetEmailLayout(props EmailLayoutProps) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin: 0; padding: 0; background-color: #f4f4f7; font-family: Helvetica, Arial, sans-serif;">
	<div style="max-width: 560px; margin: 0 auto; padding: 32px 24px; background-color: #ffffff;">
		%s
		<hr style="border: none; border-top: 1px solid #e5e5ea; margin: 32px 0 16px;">
		<p style="font-size: 12px; color: #8e8e93;">PresetBase — the synth presets behind the music.</p>
	</div>
</body>
</html>`, props.Content)
}
