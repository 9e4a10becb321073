package services

import (
	"gopkg.in/gomail.v2"

	"modshop/internal/config"
)

type EmailService interface {
	SendEmail(to, subject, msg string) error
}

type emailService struct {
	from   string
	dialer *gomail.Dialer
}

func NewEmailService(cfg config.SMTPConfig) EmailService {
	return &emailService{
		from:   cfg.Username,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (e *emailService) SendEmail(to, subject, msg string) error {
	m := gomail.NewMessage()

	m.SetHeader("From", e.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", msg)

	if err := e.dialer.DialAndSend(m); err != nil {
		return err
	}
	return nil
}
