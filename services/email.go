package services

import (
	"fmt"
	"io"

	"github.com/go-gomail/gomail"

	"github.com/aladdinbruv/docproche-sub000/config"
)

type Attachment struct {
	Name string
	Data []byte
}

// Mailer sends plain text e-mails with optional attachments.
type Mailer interface {
	Send(to, subject, body string, attachments ...Attachment) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	from := cfg.SMTP.From
	if from == "" {
		from = cfg.SMTP.Username
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password),
		from:   from,
	}
}

func (m *SMTPMailer) Send(to, subject, body string, attachments ...Attachment) error {
	msg := buildMessage(m.from, to, subject, body, attachments...)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}

func buildMessage(from, to, subject, body string, attachments ...Attachment) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	for _, a := range attachments {
		data := a.Data
		msg.Attach(a.Name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}
	return msg
}
