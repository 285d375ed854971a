package notify

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/scrape/types"
	"jobradar-engine/internal/secrets"
)

type Mailer struct {
	Cfg config.Config
}

// SendDigest mails the newly added jobs. Missing credentials are a skip, not a
// failure: the scrape run already succeeded at that point.
func (m Mailer) SendDigest(jobs []types.JobRow) error {
	if !m.Cfg.Email.Enabled || len(jobs) == 0 {
		return nil
	}

	from := strings.TrimSpace(m.Cfg.Email.From)
	to := strings.TrimSpace(m.Cfg.Email.To)
	if from == "" || to == "" {
		log.Printf("[notify] email identity not configured; skipping digest (set EMAIL_ADDRESS and RECEIVER_EMAIL)")
		return nil
	}

	pw, err := secrets.GetSMTPPassword(secrets.SMTPKeyringAccount(from, m.Cfg.Email.SMTPHost))
	if err != nil {
		log.Printf("[notify] %v; skipping digest", err)
		return nil
	}

	subject, msg := BuildDigest(from, to, jobs, time.Now())

	addr := fmt.Sprintf("%s:%d", m.Cfg.Email.SMTPHost, m.Cfg.Email.SMTPPort)
	auth := smtp.PlainAuth("", from, pw, m.Cfg.Email.SMTPHost)

	if err := smtp.SendMail(addr, auth, from, []string{to}, msg); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	log.Printf("[notify] sent %q to %s", subject, to)

	if m.Cfg.Email.AppendToSent {
		if err := m.appendToSent(from, pw, msg); err != nil {
			// the mail went out; losing the Sent copy is not fatal
			log.Printf("[notify] append to sent failed: %v", err)
		}
	}
	return nil
}
