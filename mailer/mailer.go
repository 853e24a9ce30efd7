package mailer

import (
	"fmt"
	"os"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/pkg/errors"
)

// Mailer delivers a single outbound message to a set of recipients.
type Mailer interface {
	Broadcast(subject, body string, recipients []string) error
}

/*

SMTPMailer sends broadcast email through a plain-auth SMTP server.

Recipients are placed on the SMTP envelope only and never in the message
headers, which gives BCC semantics: no recipient sees the rest of the list.
Delivery is a single synchronous attempt; failures are returned to the
caller and never retried.

*/
type SMTPMailer struct {
	Addr     string // host:port
	From     string
	Password string
}

// NewSMTPMailerFromEnv reads SMTP_ADDR, SMTP_FROM and SMTP_PASS.
func NewSMTPMailerFromEnv() (*SMTPMailer, error) {
	m := &SMTPMailer{
		Addr:     os.Getenv("SMTP_ADDR"),
		From:     os.Getenv("SMTP_FROM"),
		Password: os.Getenv("SMTP_PASS"),
	}
	if m.Addr == "" || m.From == "" {
		return nil, errors.New("SMTP_ADDR and SMTP_FROM are required")
	}
	return m, nil
}

func (m *SMTPMailer) Broadcast(subject, body string, recipients []string) error {
	if len(recipients) == 0 {
		return errors.New("no recipients resolved")
	}

	auth := sasl.NewPlainClient("", m.From, m.Password)
	msg := strings.NewReader(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.From, m.From, subject, body))

	return errors.Wrap(smtp.SendMail(m.Addr, auth, m.From, recipients, msg), "send broadcast")
}
