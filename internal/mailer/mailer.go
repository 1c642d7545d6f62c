package mailer

import (
	"os"
	"strconv"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends one message to a list of recipients. Handlers treat a
// send failure as non-fatal: the state change that triggered the mail
// has already committed.
type Mailer interface {
	Send(subject, body string, recipients []string) error
}

// SMTPMailer delivers through a plain SMTP relay.
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTPMailer() *SMTPMailer {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return &SMTPMailer{
		host: os.Getenv("SMTP_HOST"),
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASSWORD"),
		from: os.Getenv("DEFAULT_FROM_EMAIL"),
	}
}

func (m *SMTPMailer) Send(subject, body string, recipients []string) error {
	if len(recipients) == 0 {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	return dialer.DialAndSend(msg)
}
