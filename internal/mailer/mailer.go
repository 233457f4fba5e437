package mailer

import (
	"context"

	"gopkg.in/gomail.v2"
)

// Mailer delivers rendered messages over SMTP. It keeps no queue and never
// retries; callers decide what a failed send means.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

type Option func(*Mailer)

func WithFrom(from string) Option {
	return func(m *Mailer) {
		m.from = from
	}
}

func NewMailer(host string, port int, username, password string, opts ...Option) *Mailer {
	m := &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   username,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	msg.AddAlternative("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}
