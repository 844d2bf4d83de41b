package contact

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/varshinivarma16/booksbackend/internal/config"
)

// Message is one outgoing HTML mail.
type Message struct {
	FromName string
	To       string
	Subject  string
	HTML     string
}

// Mailer delivers contact form messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends through an authenticated SMTP server. Port 465 uses
// implicit TLS, any other port goes through smtp.SendMail and STARTTLS.
type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	timeout  time.Duration
}

// NewSMTPMailer returns nil when the mail section is incomplete.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	if cfg.Host == "" || cfg.User == "" || cfg.Password == "" {
		return nil
	}
	return &SMTPMailer{host: cfg.Host, port: cfg.Port, user: cfg.User, password: cfg.Password, timeout: 15 * time.Second}
}

// Mailbox is the address contact mail is sent from and delivered to.
func (m *SMTPMailer) Mailbox() string { return m.user }

func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ", `"`, "'").Replace(s)
}

func (m *SMTPMailer) build(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: \"%s\" <%s>\r\n", headerSafe(msg.FromName), m.user)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", headerSafe(msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.HTML)
	b.WriteString("\r\n")
	return []byte(b.String())
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))
	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	body := m.build(msg)
	if m.port != 465 {
		return smtp.SendMail(addr, auth, m.user, []string{msg.To}, body)
	}

	dialer := &tls.Dialer{NetDialer: &net.Dialer{Timeout: m.timeout}, Config: &tls.Config{ServerName: m.host}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(m.user); err != nil {
		return err
	}
	if err := c.Rcpt(msg.To); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
