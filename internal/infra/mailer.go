package infra

import (
	"fmt"
	"net/smtp"
	"time"

	"shoptrack/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends notification mail through SMTP, guarded by a circuit
// breaker so a flapping relay cannot stall the worker pool.
type Mailer struct {
	cfg     *config.Config
	breaker *CircuitBreaker
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		cfg:     cfg,
		breaker: NewCircuitBreaker(3, 2*time.Minute),
	}
}

// Enabled reports whether SMTP is configured at all.
func (m *Mailer) Enabled() bool {
	return m.cfg.SMTPHost != ""
}

func (m *Mailer) Send(to, subject, htmlBody string) error {
	if !m.Enabled() {
		return nil
	}
	return m.breaker.Call(func() error {
		e := email.NewEmail()
		e.From = m.cfg.SMTPUser
		e.To = []string{to}
		e.Subject = subject
		e.HTML = []byte(htmlBody)

		addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
		auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)
		return e.Send(addr, auth)
	})
}
