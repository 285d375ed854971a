package notify

import (
	"fmt"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// appendToSent stores a copy of the outgoing digest in the Sent mailbox.
// SMTP submission alone leaves nothing behind in the account.
func (m Mailer) appendToSent(user, password string, msg []byte) error {
	host := m.Cfg.Email.IMAPHost
	port := m.Cfg.Email.IMAPPort
	if port == 0 {
		port = 993
	}
	mailbox := m.Cfg.Email.SentMailbox
	if mailbox == "" {
		mailbox = "Sent"
	}

	c, err := imapclient.DialTLS(fmt.Sprintf("%s:%d", host, port), nil)
	if err != nil {
		return fmt.Errorf("imap dial: %w", err)
	}
	defer c.Close()

	if err := c.Login(user, password).Wait(); err != nil {
		return fmt.Errorf("imap login: %w", err)
	}

	cmd := c.Append(mailbox, int64(len(msg)), &imap.AppendOptions{
		Flags: []imap.Flag{imap.FlagSeen},
	})
	if _, err := cmd.Write(msg); err != nil {
		return fmt.Errorf("imap append write: %w", err)
	}
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("imap append close: %w", err)
	}
	if _, err := cmd.Wait(); err != nil {
		return fmt.Errorf("imap append: %w", err)
	}

	if err := c.Logout().Wait(); err != nil {
		return fmt.Errorf("imap logout: %w", err)
	}
	return nil
}
