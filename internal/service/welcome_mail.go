package service

import (
	"errors"
	"fmt"
	"html"

	"pathfinder/guide-api/config"

	"gopkg.in/gomail.v2"
)

// Mailer sends the mails the application needs. Implementations must be
// safe for concurrent use.
type Mailer interface {
	SendWelcome(name, to string) error
}

type SMTPMailer struct {
	cfg     config.MailConfig
	appName string
	dialer  *gomail.Dialer
}

func NewSMTPMailer(cfg config.MailConfig, appName string) *SMTPMailer {
	return &SMTPMailer{
		cfg:     cfg,
		appName: appName,
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Sender, cfg.Password),
	}
}

func (m *SMTPMailer) SendWelcome(name, to string) error {
	if to == m.cfg.Sender {
		return errors.New("invalid email address")
	}

	if name == "" {
		name = "there"
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Welcome to %s", m.appName))
	msg.SetBody("text/html", fmt.Sprintf(
		"Hi %s,<br><br>your account is ready. Upload your résumé and ask for a recommendation to get started.",
		html.EscapeString(name),
	))

	return m.dialer.DialAndSend(msg)
}
