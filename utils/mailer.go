package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"salesforge/config"
)

// InviteEmailData feeds the invite email template.
type InviteEmailData struct {
	CompanyName string
	InviterName string
	Role        string
	Link        string
	Year        int
}

var inviteTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>You're invited to {{.CompanyName}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .button { display: inline-block; background: #3b82f6; color: #fff; padding: 12px 24px; border-radius: 8px; text-decoration: none; font-weight: bold; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>Join {{.CompanyName}} on SalesForge</h2>
    </div>

    <div class="content">
        <p>Hello,</p>
        <p>{{.InviterName}} invited you to join the <strong>{{.CompanyName}}</strong> workspace as a <strong>{{.Role}}</strong>.</p>
        <p style="text-align:center;margin:28px 0;"><a class="button" href="{{.Link}}">Accept Invitation</a></p>
        <p>This invitation expires in 7 days.</p>
    </div>

    <div class="footer">
        <p>If you weren't expecting this invitation, you can safely ignore this email.</p>
        <p>&copy; {{.Year}} SalesForge. All rights reserved.</p>
    </div>
</body>
</html>`

// SendInviteEmail delivers an invite link. Callers treat failure as
// non-fatal: the invite row exists and the link can be shared manually.
func SendInviteEmail(to, companyName, inviterName, role, link string) error {
	if config.AppConfig.SMTPHost == "" {
		return fmt.Errorf("smtp is not configured")
	}

	tmpl, err := template.New("invite").Parse(inviteTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse invite template: %w", err)
	}

	var body bytes.Buffer
	data := InviteEmailData{
		CompanyName: companyName,
		InviterName: inviterName,
		Role:        role,
		Link:        link,
		Year:        time.Now().Year(),
	}
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render invite template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", config.AppConfig.FromEmail, config.AppConfig.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("You're invited to join %s", companyName))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(
		config.AppConfig.SMTPHost,
		config.AppConfig.SMTPPort,
		config.AppConfig.SMTPUsername,
		config.AppConfig.SMTPPassword,
	)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send invite email: %w", err)
	}
	return nil
}
