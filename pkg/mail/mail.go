// Package mail is a fluent mailer.
//
//	mail.To("alice@example.com").
//	    Subject("Your Brew & Co order #42").
//	    Template(confirmationTmpl, data).
//	    Send(ctx)
//
// With MAIL_HOST unset messages go to the log instead of an SMTP server.
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"sync"

	"github.com/shashiranjanraj/brewandco/config"
	"github.com/shashiranjanraj/brewandco/pkg/logger"
)

// Sender delivers a built message.
type Sender interface {
	Send(ctx context.Context, m *Message) error
}

var (
	senderMu sync.RWMutex
	sender   Sender
)

// SetSender overrides the transport. nil restores the configured default.
func SetSender(s Sender) {
	senderMu.Lock()
	defer senderMu.Unlock()
	sender = s
}

func currentSender() Sender {
	senderMu.RLock()
	s := sender
	senderMu.RUnlock()
	if s != nil {
		return s
	}
	if config.MailHost() == "" {
		return LogSender{}
	}
	return NewSMTPSender(SMTPConfig{
		Host:     config.MailHost(),
		Port:     config.MailPort(),
		Username: config.MailUsername(),
		Password: config.MailPassword(),
	})
}

// Message is a fluent builder for an email.
type Message struct {
	To      []string
	From    string
	Subject string
	Body    string
	HTML    bool
	err     error
}

// To starts a message for the given recipients.
func To(addresses ...string) *Message {
	return &Message{To: addresses, From: config.MailFrom(), HTML: true}
}

// WithSubject sets the subject line.
func (m *Message) WithSubject(s string) *Message {
	m.Subject = s
	return m
}

// Text sets a plain-text body.
func (m *Message) Text(text string) *Message {
	m.Body = text
	m.HTML = false
	return m
}

// Template renders tmpl with data as the HTML body. A render error is
// returned by Send.
func (m *Message) Template(tmpl *template.Template, data any) *Message {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		m.err = fmt.Errorf("mail: render %s: %w", tmpl.Name(), err)
		return m
	}
	m.Body = buf.String()
	m.HTML = true
	return m
}

// Send delivers the message with the configured sender.
func (m *Message) Send(ctx context.Context) error {
	if m.err != nil {
		return m.err
	}
	if len(m.To) == 0 {
		return fmt.Errorf("mail: no recipients")
	}
	return currentSender().Send(ctx, m)
}

// Raw is the RFC 5322 encoding of the message.
func (m *Message) Raw() []byte {
	contentType := "text/plain"
	if m.HTML {
		contentType = "text/html"
	}

	var b strings.Builder
	b.WriteString("From: " + m.From + "\r\n")
	b.WriteString("To: " + strings.Join(m.To, ", ") + "\r\n")
	b.WriteString("Subject: " + m.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: %s; charset=\"UTF-8\"\r\n", contentType))
	b.WriteString("\r\n")
	b.WriteString(m.Body)
	return []byte(b.String())
}

// LogSender writes the envelope to the log and discards the body.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, m *Message) error {
	logger.WithCtx(ctx).Info("mail: not configured, message logged",
		"to", strings.Join(m.To, ","), "subject", m.Subject, "bytes", len(m.Body))
	return nil
}

// SMTPConfig holds connection credentials.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPSender delivers over SMTP: implicit TLS on 465, STARTTLS otherwise.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender { return &SMTPSender{cfg: cfg} }

func (s *SMTPSender) Send(_ context.Context, m *Message) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.Port == 465 {
		return s.sendTLS(addr, auth, m)
	}
	if err := smtp.SendMail(addr, auth, m.From, m.To, m.Raw()); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}

func (s *SMTPSender) sendTLS(addr string, auth smtp.Auth, m *Message) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return fmt.Errorf("mail: TLS dial: %w", err)
	}
	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(m.From); err != nil {
		return err
	}
	for _, rcpt := range m.To {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(m.Raw()); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
