// Package mailer delivers report attachments over SMTP.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/sendxls-go/pkg/sendxls/models"
	"github.com/wneessen/go-mail"
)

const (
	defaultPort = 25
	sslPort     = 465
)

// ErrNoRecipients indicates an empty recipient list.
var ErrNoRecipients = errors.New("no recipients")

// Attachment is a named file carried by a message.
type Attachment struct {
	Name string
	Data []byte
}

// Message is one outgoing report mail.
type Message struct {
	From       string
	To         []string
	Subject    string
	Body       string
	Attachment *Attachment
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTP sends mail through a relay configured by the host platform.
type SMTP struct {
	Settings models.MailSettings
	// Timeout bounds dialing and each SMTP command. Zero keeps the
	// library default.
	Timeout time.Duration
}

// NewSMTP creates an SMTP mailer.
func NewSMTP(settings models.MailSettings, timeout time.Duration) *SMTP {
	return &SMTP{Settings: settings, Timeout: timeout}
}

// Factory builds a Mailer for the host's relay settings.
type Factory func(settings models.MailSettings, timeout time.Duration) Mailer

// SMTPFactory is the Factory for SMTP mailers.
func SMTPFactory(settings models.MailSettings, timeout time.Duration) Mailer {
	return NewSMTP(settings, timeout)
}

// Send implements Mailer.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	m, err := buildMsg(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.host(), s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail via %s: %w", s.Settings.Server, err)
	}
	return nil
}

func buildMsg(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipients %q: %w", strings.Join(msg.To, ","), err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	if msg.Attachment != nil {
		if err := m.AttachReader(msg.Attachment.Name, bytes.NewReader(msg.Attachment.Data)); err != nil {
			return nil, fmt.Errorf("attach %s: %w", msg.Attachment.Name, err)
		}
	}
	return m, nil
}

func (s *SMTP) host() string {
	host, _ := SplitServer(s.Settings.Server, s.Settings.UseSSL)
	return host
}

func (s *SMTP) clientOptions() []mail.Option {
	_, port := SplitServer(s.Settings.Server, s.Settings.UseSSL)
	opts := []mail.Option{mail.WithPort(port)}

	switch {
	case s.Settings.UseSSL:
		opts = append(opts, mail.WithSSL())
	case s.Settings.UseTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.Settings.HasAuth() {
		opts = append(opts,
			mail.WithSMTPAuth(authType(s.Settings)),
			mail.WithUsername(s.Settings.Username),
			mail.WithPassword(s.Settings.Password),
		)
	}
	if s.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.Timeout))
	}
	return opts
}

// authType picks the SASL mechanism. Encrypted sessions use the strongest
// mechanism the relay offers. Plain relays get PLAIN, which the library
// otherwise refuses to send without TLS to a non-local host.
func authType(settings models.MailSettings) mail.SMTPAuthType {
	if settings.UseSSL || settings.UseTLS {
		return mail.SMTPAuthAutoDiscover
	}
	return mail.SMTPAuthPlainNoEnc
}

// SplitServer splits "host[:port]". Without a port, 465 is used for SSL
// and 25 otherwise. An empty server means localhost.
func SplitServer(server string, useSSL bool) (string, int) {
	port := defaultPort
	if useSSL {
		port = sslPort
	}

	server = strings.TrimSpace(server)
	if server == "" {
		return "localhost", port
	}
	host, p, err := net.SplitHostPort(server)
	if err != nil {
		return strings.Trim(server, "[]"), port
	}
	if n, err := strconv.Atoi(p); err == nil && n > 0 {
		port = n
	}
	if host == "" {
		host = "localhost"
	}
	return host, port
}

// NormalizeSender turns a bare user name into an address: "splunk" becomes
// "splunk@<hostname>" and "splunk@" becomes "splunk@localhost".
func NormalizeSender(sender, hostname string) string {
	if !strings.Contains(sender, "@") {
		sender = sender + "@" + hostname
	}
	if strings.HasSuffix(sender, "@") {
		sender += "localhost"
	}
	return sender
}

// SplitRecipients splits a comma separated address list, dropping blanks.
func SplitRecipients(list string) []string {
	var out []string
	for _, addr := range strings.Split(list, ",") {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
