package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/cyberclub/internal/app/models"
	"gopkg.in/gomail.v2"
)

// EmailService defines the interface for email operations
type EmailService interface {
	// SendContactNotification tells the club admins a contact message arrived
	SendContactNotification(msg *models.ContactMessage) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	NotifyTo []string
}

// Enabled reports whether enough is configured to actually send mail
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && len(c.NotifyTo) > 0
}

// sender is the part of *gomail.Dialer the service needs
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	sender sender
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		sender: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		logger: logger,
	}
}

// SendContactNotification sends the message to every NotifyTo address. With
// SMTP unset the message is only logged.
func (s *EmailServiceImpl) SendContactNotification(msg *models.ContactMessage) error {
	if !s.config.Enabled() {
		s.logger.Info().
			Str("messageId", msg.ID).
			Str("fromEmail", msg.Email).
			Msg("SMTP not configured - contact notification not sent")
		return nil
	}

	m := gomail.NewMessage()
	from := s.config.From
	if from == "" {
		from = s.config.Username
	}
	m.SetHeader("From", from)
	m.SetHeader("To", s.config.NotifyTo...)
	m.SetHeader("Reply-To", m.FormatAddress(msg.Email, msg.Name))
	m.SetHeader("Subject", fmt.Sprintf("New contact message from %s", msg.Name))
	m.SetBody("text/plain", contactText(msg))
	m.AddAlternative("text/html", contactHTML(msg))

	if err := s.sender.DialAndSend(m); err != nil {
		s.logger.Error().Err(err).Str("messageId", msg.ID).Msg("Failed to send contact notification")
		return fmt.Errorf("failed to send contact notification: %w", err)
	}

	s.logger.Info().Str("messageId", msg.ID).Int("recipients", len(s.config.NotifyTo)).Msg("Contact notification sent")
	return nil
}

func contactText(msg *models.ContactMessage) string {
	return fmt.Sprintf("Name: %s\nEmail: %s\nReceived: %s\n\n%s\n",
		msg.Name, msg.Email, msg.CreatedAt.Format("2006-01-02 15:04 MST"), msg.Message)
}

func contactHTML(msg *models.ContactMessage) string {
	body := strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>")
	return fmt.Sprintf(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">New contact message</h2>
		<p><strong>%s</strong> &lt;%s&gt;</p>
		<p>%s</p>
	</div>
</body>
</html>`, html.EscapeString(msg.Name), html.EscapeString(msg.Email), body)
}
