package models

// MailSettings holds the relay settings read from the host platform.
type MailSettings struct {
	// Server is host or host:port of the relay.
	Server string `json:"server"`
	// From is the platform default sender.
	From string `json:"from,omitempty"`
	// UseSSL connects with implicit TLS.
	UseSSL bool `json:"use_ssl"`
	// UseTLS upgrades the connection with STARTTLS.
	UseTLS bool `json:"use_tls"`
	Username string `json:"username,omitempty"`
	Password string `json:"-"`
	// ReportFileName is the platform's attachment file name template.
	ReportFileName string `json:"report_file_name,omitempty"`
}

// HasAuth reports whether both credentials are set.
func (s MailSettings) HasAuth() bool {
	return s.Username != "" && s.Password != ""
}
