package mailer

import (
	"context"

	"github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"
)

// Mailer delivers operator alerts. Delivery is best effort; a failed
// send must never affect the outcome of the request that raised it.
type Mailer interface {
	Notify(ctx context.Context, subject string, body string)
}

type smtpMailer struct {
	logger    *logrus.Logger
	enabled   bool
	sender    string
	recipient string
	dialer    *gomail.Dialer
}

type SMTPMailerProperty struct {
	Logger    *logrus.Logger
	Enabled   bool
	Sender    string
	Recipient string
	Host      string
	Port      int
	Username  string
	Password  string
}

func NewSMTPMailer(props SMTPMailerProperty) Mailer {
	return &smtpMailer{
		logger:    props.Logger,
		enabled:   props.Enabled,
		sender:    props.Sender,
		recipient: props.Recipient,
		dialer:    gomail.NewDialer(props.Host, props.Port, props.Username, props.Password),
	}
}

// Notify implements Mailer.
func (m *smtpMailer) Notify(ctx context.Context, subject string, body string) {
	if !m.enabled || m.recipient == "" {
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", m.recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.WithContext(ctx).WithError(err).Error("unable to deliver operator alert")
	}
}
