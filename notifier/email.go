// Package notifier delivers finished reports by mail. Delivery is
// optional; commands skip it silently when SMTP is not configured.
package notifier

import (
	"fmt"
	"path/filepath"

	gomail "gopkg.in/mail.v2"

	"kadmin/config"
)

// EmailNotifier sends report summaries with the CSV attached.
type EmailNotifier struct {
	cfg config.SMTPConfig

	// send is swapped out in tests.
	send func(m *gomail.Message) error
}

// New creates a notifier from SMTP settings. It returns nil when mail
// delivery is not configured, and a nil notifier is safe to use.
func New(cfg config.SMTPConfig) *EmailNotifier {
	if !cfg.Enabled() {
		return nil
	}
	n := &EmailNotifier{cfg: cfg}
	n.send = func(m *gomail.Message) error {
		d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		return d.DialAndSend(m)
	}
	return n
}

// SendReport mails a report file with a short summary body. A nil
// notifier is a no-op so callers never branch on configuration.
func (n *EmailNotifier) SendReport(subject, summary, reportPath string) error {
	if n == nil {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", summary)
	if reportPath != "" {
		m.Attach(reportPath, gomail.Rename(filepath.Base(reportPath)))
	}

	if err := n.send(m); err != nil {
		return fmt.Errorf("send report mail: %w", err)
	}
	return nil
}
