package mail

import (
	"crypto/tls"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// SMTPConfig carries the outgoing-mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	cfg SMTPConfig
}

func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	return d.DialAndSend(msg)
}

// SendResetCode mails a password-reset code with its validity window.
func (m *Mailer) SendResetCode(to, code string, ttl time.Duration) error {
	body := fmt.Sprintf(
		`<p>Hi,</p><p>Your password reset code is <b style="font-size:18px;">%s</b>.</p><p>It is valid for %d minutes. If you did not request this, you can ignore this mail.</p>`,
		code, int(ttl.Minutes()))
	return m.Send(to, "Reset your Moovle password", body)
}
