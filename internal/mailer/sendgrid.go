package mailer

import (
	"context"
	"regexp"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

type sendClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridMailer delivers mail through the SendGrid v3 API.
type SendGridMailer struct {
	client sendClient
	sender string
	logger logrus.FieldLogger
}

func NewSendGridMailer(apiKey, sender string, logger logrus.FieldLogger) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		sender: sender,
		logger: logger.WithField("component", "mailer"),
	}
}

func (m *SendGridMailer) Send(ctx context.Context, to, subject, htmlBody string) bool {
	message := mail.NewSingleEmail(
		mail.NewEmail("", m.sender),
		subject,
		mail.NewEmail("", to),
		plainText(htmlBody),
		htmlBody,
	)

	log := m.logger.WithField("to", to)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		log.WithError(err).Warn("error sending email")
		return false
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		log.WithField("status_code", response.StatusCode).Warn("email provider rejected message")
		return false
	}

	log.WithField("status_code", response.StatusCode).Info("email sent")
	return true
}

func plainText(htmlBody string) string {
	text := strings.TrimSpace(htmlTag.ReplaceAllString(htmlBody, ""))
	if text == "" {
		return " "
	}
	return text
}

// LogMailer stands in when no provider key is configured. It sends nothing.
type LogMailer struct {
	logger logrus.FieldLogger
}

func NewLogMailer(logger logrus.FieldLogger) *LogMailer {
	return &LogMailer{logger: logger.WithField("component", "mailer")}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, htmlBody string) bool {
	m.logger.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Warn("EMAIL_SERVICE_API_KEY not set, skipping email sending")
	return false
}

// New picks SendGrid when an API key is configured and LogMailer otherwise.
func New(apiKey, sender string, logger logrus.FieldLogger) Mailer {
	if apiKey == "" {
		return NewLogMailer(logger)
	}
	return NewSendGridMailer(apiKey, sender, logger)
}
