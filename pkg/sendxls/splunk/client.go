// Package splunk talks to the host search platform: its REST API, the alert
// action payload and the custom search command protocol.
package splunk

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/ukaji3/sendxls-go/pkg/sendxls/models"
)

// DefaultServerURI is the local management port.
const DefaultServerURI = "https://127.0.0.1:8089"

// ErrNoEntry indicates the API returned no configuration entry.
var ErrNoEntry = errors.New("no configuration entry")

// ClientOptions configures the REST client.
type ClientOptions struct {
	Timeout time.Duration
	// InsecureSkipVerify accepts the self-signed certificate the management
	// port ships with.
	InsecureSkipVerify bool
}

// Client reads mail settings from the REST API.
type Client struct {
	baseURL    *url.URL
	sessionKey string
	http       *http.Client
}

// NewClient creates a client for serverURI authenticated by sessionKey.
func NewClient(serverURI, sessionKey string, opts ClientOptions) (*Client, error) {
	serverURI = strings.TrimSpace(serverURI)
	if serverURI == "" {
		serverURI = DefaultServerURI
	}
	u, err := url.Parse(serverURI)
	if err != nil {
		return nil, fmt.Errorf("invalid server uri %q: %w", serverURI, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server uri %q: missing scheme or host", serverURI)
	}
	if strings.TrimSpace(sessionKey) == "" {
		return nil, fmt.Errorf("session key is required")
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	return &Client{
		baseURL:    u,
		sessionKey: sessionKey,
		http:       &http.Client{Timeout: opts.Timeout, Transport: transport},
	}, nil
}

type emailResponse struct {
	Entry []struct {
		Name    string       `json:"name"`
		Content emailContent `json:"content"`
	} `json:"entry"`
}

type emailContent struct {
	MailServer     string `json:"mailserver"`
	From           string `json:"from"`
	UseSSL         Flag   `json:"use_ssl"`
	UseTLS         Flag   `json:"use_tls"`
	AuthUsername   string `json:"auth_username"`
	ClearPassword  string `json:"clear_password"`
	ReportFileName string `json:"reportFileName"`
}

func (c emailContent) settings() models.MailSettings {
	return models.MailSettings{
		Server:         c.MailServer,
		From:           c.From,
		UseSSL:         bool(c.UseSSL),
		UseTLS:         bool(c.UseTLS),
		Username:       c.AuthUsername,
		Password:       c.ClearPassword,
		ReportFileName: c.ReportFileName,
	}
}

// EmailEntity reads the email alert action entity, including credentials.
// An empty namespace reads the global entity.
func (c *Client) EmailEntity(ctx context.Context, namespace string) (models.MailSettings, error) {
	p := "services/admin/alert_actions/email"
	if ns := strings.TrimSpace(namespace); ns != "" {
		p = path.Join("servicesNS", "nobody", ns, "admin/alert_actions/email")
	}
	content, err := c.getEmail(ctx, "getEmailEntity", p)
	if err != nil {
		return models.MailSettings{}, err
	}
	return content.settings(), nil
}

// EmailConf reads the email stanza of alert_actions.conf, which carries the
// report file name template.
func (c *Client) EmailConf(ctx context.Context) (models.MailSettings, error) {
	content, err := c.getEmail(ctx, "getEmailConf", "services/configs/conf-alert_actions/email")
	if err != nil {
		return models.MailSettings{}, err
	}
	return content.settings(), nil
}

func (c *Client) getEmail(ctx context.Context, op, p string) (emailContent, error) {
	u := c.resolve(p)
	q := u.Query()
	q.Set("output_mode", "json")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return emailContent{}, err
	}
	req.Header.Set("Authorization", "Splunk "+c.sessionKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return emailContent{}, fmt.Errorf("%s: %s", op, redactSecrets(err.Error()))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return emailContent{}, err
	}
	if resp.StatusCode/100 != 2 {
		return emailContent{}, newHTTPError(op, resp, b)
	}

	var out emailResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return emailContent{}, fmt.Errorf("parse %s response: %w", op, err)
	}
	if len(out.Entry) == 0 {
		return emailContent{}, fmt.Errorf("%s: %w", op, ErrNoEntry)
	}
	return out.Entry[0].Content, nil
}

func (c *Client) resolve(p string) *url.URL {
	u := *c.baseURL
	u.Path = path.Join("/", u.Path, p)
	u.RawPath = ""
	return &u
}
