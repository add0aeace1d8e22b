package mailer

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ukaji3/sendxls-go/pkg/sendxls/models"
	"github.com/wneessen/go-mail"
)

func TestSplitServer(t *testing.T) {
	tests := []struct {
		server string
		ssl    bool
		host   string
		port   int
	}{
		{"smtp.example.com:587", false, "smtp.example.com", 587},
		{"smtp.example.com", false, "smtp.example.com", 25},
		{"smtp.example.com", true, "smtp.example.com", 465},
		{"", false, "localhost", 25},
		{":2525", false, "localhost", 2525},
		{"[::1]:2525", false, "::1", 2525},
		{"[::1]", false, "::1", 25},
		{"mail:bogus", false, "mail", 25},
	}
	for _, tt := range tests {
		host, port := SplitServer(tt.server, tt.ssl)
		if host != tt.host || port != tt.port {
			t.Errorf("SplitServer(%q, %v) = %q, %d, expected %q, %d",
				tt.server, tt.ssl, host, port, tt.host, tt.port)
		}
	}
}

func TestNormalizeSender(t *testing.T) {
	tests := []struct {
		sender   string
		expected string
	}{
		{"splunk", "splunk@search01"},
		{"splunk@", "splunk@localhost"},
		{"reports@example.com", "reports@example.com"},
	}
	for _, tt := range tests {
		if got := NormalizeSender(tt.sender, "search01"); got != tt.expected {
			t.Errorf("NormalizeSender(%q) = %q, expected %q", tt.sender, got, tt.expected)
		}
	}
	if got := NormalizeSender("splunk", ""); got != "splunk@localhost" {
		t.Errorf("Expected empty hostname to fall back to localhost, got %q", got)
	}
}

func TestSplitRecipients(t *testing.T) {
	got := SplitRecipients(" a@example.com, b@example.com ,,")
	if !reflect.DeepEqual(got, []string{"a@example.com", "b@example.com"}) {
		t.Errorf("unexpected recipients: %v", got)
	}
	if got := SplitRecipients(""); len(got) != 0 {
		t.Errorf("Expected no recipients, got %v", got)
	}
}

func TestBuildMsg(t *testing.T) {
	msg := Message{
		From:       "reports@example.com",
		To:         []string{"a@example.com", "b@example.com"},
		Subject:    "Daily report",
		Body:       "See attachment.",
		Attachment: &Attachment{Name: "report.xlsx", Data: []byte("PK")},
	}
	if _, err := buildMsg(msg); err != nil {
		t.Fatalf("buildMsg failed: %v", err)
	}

	msg.From = "not an address"
	if _, err := buildMsg(msg); err == nil {
		t.Error("Expected invalid sender to fail")
	}
}

func TestClientOptions(t *testing.T) {
	tests := []struct {
		settings models.MailSettings
		expected int
	}{
		{models.MailSettings{Server: "mail"}, 2},
		{models.MailSettings{Server: "mail", UseTLS: true}, 2},
		{models.MailSettings{Server: "mail", UseSSL: true, Username: "u", Password: "p"}, 5},
	}
	for _, tt := range tests {
		s := NewSMTP(tt.settings, 0)
		if got := len(s.clientOptions()); got != tt.expected {
			t.Errorf("clientOptions(%+v) has %d options, expected %d", tt.settings, got, tt.expected)
		}
	}
}

func TestSendWithoutRecipients(t *testing.T) {
	s := NewSMTP(models.MailSettings{Server: "localhost"}, 0)
	err := s.Send(context.Background(), Message{From: "a@example.com"})
	if !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("Expected ErrNoRecipients, got %v", err)
	}
}

func TestAuthType(t *testing.T) {
	tests := []struct {
		settings models.MailSettings
		expected mail.SMTPAuthType
	}{
		{models.MailSettings{}, mail.SMTPAuthPlainNoEnc},
		{models.MailSettings{UseTLS: true}, mail.SMTPAuthAutoDiscover},
		{models.MailSettings{UseSSL: true}, mail.SMTPAuthAutoDiscover},
	}
	for _, tt := range tests {
		if got := authType(tt.settings); got != tt.expected {
			t.Errorf("authType(%+v) = %q, expected %q", tt.settings, got, tt.expected)
		}
	}
}

// relaySession is what a fakeRelay saw during one connection.
type relaySession struct {
	auth string
	rcpt []string
	data string
}

// fakeRelay accepts one plain-text SMTP session that offers AUTH PLAIN and
// LOGIN. It listens on a non-local loopback address so the client treats
// the connection as remote.
func fakeRelay(t *testing.T) (string, <-chan relaySession) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.2:0")
	if err != nil {
		t.Skipf("cannot listen on 127.0.0.2: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	done := make(chan relaySession, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.SetDeadline(time.Now().Add(10 * time.Second))

		var sess relaySession
		defer func() { done <- sess }()
		r := bufio.NewReader(conn)
		reply := func(lines string) { _, _ = fmt.Fprint(conn, lines) }

		reply("220 relay.test ESMTP\r\n")
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimRight(line, "\r\n")
			cmd := strings.ToUpper(line)
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				reply("250-relay.test\r\n250-AUTH PLAIN LOGIN\r\n250 8BITMIME\r\n")
			case strings.HasPrefix(cmd, "AUTH PLAIN "):
				raw, err := base64.StdEncoding.DecodeString(line[len("AUTH PLAIN "):])
				if err != nil {
					reply("501 5.5.2 bad encoding\r\n")
					continue
				}
				sess.auth = string(raw)
				reply("235 2.7.0 Authentication successful\r\n")
			case strings.HasPrefix(cmd, "RCPT TO:"):
				sess.rcpt = append(sess.rcpt, line[len("RCPT TO:"):])
				reply("250 2.1.5 OK\r\n")
			case cmd == "DATA":
				reply("354 End data with <CR><LF>.<CR><LF>\r\n")
				var b strings.Builder
				for {
					l, err := r.ReadString('\n')
					if err != nil {
						return
					}
					if strings.TrimRight(l, "\r\n") == "." {
						break
					}
					b.WriteString(l)
				}
				sess.data = b.String()
				reply("250 2.0.0 queued\r\n")
			case cmd == "QUIT":
				reply("221 2.0.0 Bye\r\n")
				return
			case strings.HasPrefix(cmd, "MAIL FROM:"), cmd == "NOOP", cmd == "RSET":
				reply("250 2.0.0 OK\r\n")
			default:
				reply("502 5.5.2 command not recognized\r\n")
			}
		}
	}()
	return ln.Addr().String(), done
}

func TestSendAuthWithoutTLS(t *testing.T) {
	addr, done := fakeRelay(t)

	s := NewSMTP(models.MailSettings{Server: addr, Username: "mailer", Password: "s3cret"}, 5*time.Second)
	err := s.Send(context.Background(), Message{
		From:       "splunk@example.com",
		To:         []string{"ops@example.com"},
		Subject:    "Daily report",
		Body:       "See attachment.",
		Attachment: &Attachment{Name: "daily.xlsx", Data: []byte("workbook")},
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	var sess relaySession
	select {
	case sess = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("relay did not finish the session")
	}
	if sess.auth != "\x00mailer\x00s3cret" {
		t.Errorf("unexpected AUTH PLAIN credentials %q", sess.auth)
	}
	if len(sess.rcpt) != 1 || !strings.Contains(sess.rcpt[0], "ops@example.com") {
		t.Errorf("unexpected recipients %v", sess.rcpt)
	}
	if !strings.Contains(sess.data, "Subject: Daily report") || !strings.Contains(sess.data, "daily.xlsx") {
		t.Errorf("message data lacks subject or attachment:\n%s", sess.data)
	}
}
