package mail

import (
	"errors"

	gomail "github.com/go-mail/mail"
)

var ErrMailDisabled = errors.New("smtp is not configured")

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether an SMTP host is configured
func (c Config) Enabled() bool {
	return c.Host != ""
}

type dailer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sender отправляет HTML-письма через SMTP
type Sender struct {
	from   string
	dailer dailer
}

// NewSender returns nil when SMTP is not configured; a nil *Sender refuses to send.
func NewSender(cfg Config) *Sender {
	if !cfg.Enabled() {
		return nil
	}
	return newSender(cfg.From, gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password))
}

func newSender(from string, d dailer) *Sender {
	return &Sender{from: from, dailer: d}
}

func (s *Sender) Send(to, subject, htmlBody string) error {
	if s == nil {
		return ErrMailDisabled
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return s.dailer.DialAndSend(m)
}
