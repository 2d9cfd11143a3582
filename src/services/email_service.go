// backend/src/services/email_service.go
package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/username/bitbudget/backend/src/config"
	"github.com/username/bitbudget/backend/src/logger"
)

type smtpEmailService struct{}

func NewEmailService() EmailService {
	return &smtpEmailService{}
}

const emailBodyTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #8a2be2;">%s</h2>
<p>%s</p>
<div style="text-align: center; margin: 30px 0;">
<a href="%s" style="background-color: #8a2be2; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">%s</a>
</div>
<p>If the button doesn't work, you can also copy this link to your browser:</p>
<p><a href="%s">%s</a></p>
<p>%s</p>
<p>Best regards,<br>The BitBudget Team</p>
</div>`

func (s *smtpEmailService) SendVerificationEmail(email, username, token string) error {
	link := fmt.Sprintf("%s/%s", strings.TrimRight(config.Cfg.VerificationEmailBaseURL, "/"), token)
	body := fmt.Sprintf(emailBodyTemplate,
		"Welcome to BitBudget!",
		fmt.Sprintf("Hi %s, thank you for registering. Please verify your email address by clicking the button below:", username),
		link, "Verify Email", link, link,
		fmt.Sprintf("This link will expire in %s. If you didn't create an account, you can safely ignore this email.",
			config.Cfg.VerificationTokenExpiry))

	if err := s.send(email, "BitBudget - Verify Your Email", body); err != nil {
		logger.L.Error("failed to send verification email", "email", email, "error", err)
		return err
	}
	logger.L.Info("verification email sent", "email", email)
	return nil
}

func (s *smtpEmailService) SendPasswordResetEmail(email, username, token string) error {
	link := fmt.Sprintf("%s/%s", strings.TrimRight(config.Cfg.PasswordResetBaseURL, "/"), token)
	body := fmt.Sprintf(emailBodyTemplate,
		"Reset Your Password",
		fmt.Sprintf("Hi %s, you requested a password reset. Please click the button below to set a new password:", username),
		link, "Reset Password", link, link,
		fmt.Sprintf("This link will expire in %s. If you didn't request a password reset, you can safely ignore this email.",
			config.Cfg.PasswordResetTokenExpiry))

	if err := s.send(email, "BitBudget - Reset Your Password", body); err != nil {
		logger.L.Error("failed to send password reset email", "email", email, "error", err)
		return err
	}
	logger.L.Info("password reset email sent", "email", email)
	return nil
}

func (s *smtpEmailService) send(to, subject, htmlBody string) error {
	cfg := config.Cfg
	addr := fmt.Sprintf("%s:%d", cfg.SMTPServer, cfg.SMTPPort)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", cfg.SenderName, cfg.SenderEmail),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPServer)
	}
	return smtp.SendMail(addr, auth, cfg.SenderEmail, []string{to}, []byte(msg))
}
