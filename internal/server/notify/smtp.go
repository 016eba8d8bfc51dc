// Package notify delivers credential-recovery messages. The SMTP notifier
// is the production implementation; LogNotifier backs tests and headless
// setups without a mail server.
package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/benrowan/crusty-crawler/internal/logging"
	"github.com/benrowan/crusty-crawler/internal/server/auth"
)

const recoverySubject = "Crusty Server Credentials Recovery"

// SMTPNotifier sends recovery mail over SMTP using the store's saved
// configuration. With UseTLS set, the connection is opened over implicit
// TLS; otherwise a plain connection is used and STARTTLS is left to the
// server to negotiate.
type SMTPNotifier struct {
	logger logging.Logger

	// sendMail is a test seam over smtp.SendMail.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(logger logging.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		logger:   logger.With("module", "smtp_notifier"),
		sendMail: smtp.SendMail,
	}
}

// Send composes and delivers the recovery message. The message carries the
// username and access token, never the password.
func (n *SMTPNotifier) Send(ctx context.Context, cfg auth.SMTPConfig, user auth.User) error {
	addr := net.JoinHostPort(cfg.Server, strconv.Itoa(cfg.Port))
	from := cfg.Username
	if from == "" {
		from = "crusty@" + cfg.Server
	}

	msg := BuildRecoveryMessage(from, user)

	var a smtp.Auth
	if cfg.Username != "" {
		a = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Server)
	}

	n.logger.Info(ctx, "sending recovery mail", "to", user.Email, "server", addr)

	var err error
	if cfg.UseTLS {
		err = n.sendOverTLS(addr, cfg.Server, a, from, user.Email, msg)
	} else {
		err = n.sendMail(addr, a, from, []string{user.Email}, msg)
	}
	if err != nil {
		return fmt.Errorf("smtp send to %s: %w", addr, err)
	}

	return nil
}

// sendOverTLS speaks SMTP over an implicit-TLS connection (e.g. port 465).
func (n *SMTPNotifier) sendOverTLS(addr, host string, a smtp.Auth, from, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer c.Close()

	if a != nil {
		if err := c.Auth(a); err != nil {
			return err
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// BuildRecoveryMessage renders the full RFC-822-style message for the given
// user. Exposed for tests and the logging notifier.
func BuildRecoveryMessage(from string, user auth.User) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", user.Email)
	fmt.Fprintf(&b, "Subject: %s\r\n", recoverySubject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: <%s@crusty-crawler>\r\n", uuid.NewString())
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "Hello %s,\r\n\r\n", user.Username)
	b.WriteString("Here are your Crusty Server credentials:\r\n")
	fmt.Fprintf(&b, "Username: %s\r\n", user.Username)
	fmt.Fprintf(&b, "Access Token: %s\r\n\r\n", user.AccessToken)
	b.WriteString("Use the username and password to log into the application.\r\n")
	b.WriteString("Use the access token to access the web interface.\r\n\r\n")
	b.WriteString("If you didn't request this, please ignore this message.\r\n")

	return []byte(b.String())
}

// LogNotifier writes the rendered recovery message to the log instead of
// sending it. Used when no SMTP server is reachable and in tests.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "log_notifier")}
}

func (n *LogNotifier) Send(ctx context.Context, _ auth.SMTPConfig, user auth.User) error {
	n.logger.Info(ctx, "recovery message (not sent)",
		"to", user.Email, "username", user.Username, "access_token", user.AccessToken)
	return nil
}
