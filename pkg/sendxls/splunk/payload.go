package splunk

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// AlertPayload is the JSON document an alert action reads on stdin.
type AlertPayload struct {
	ServerURI     string             `json:"server_uri"`
	SessionKey    string             `json:"session_key"`
	ResultsFile   string             `json:"results_file"`
	SearchName    string             `json:"search_name"`
	App           string             `json:"app,omitempty"`
	Owner         string             `json:"owner,omitempty"`
	Configuration AlertConfiguration `json:"configuration"`
}

// AlertConfiguration holds the per-alert parameters set by the user.
type AlertConfiguration struct {
	Body      string `json:"body"`
	Subject   string `json:"subject"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Filename  string `json:"filename"`
}

// ReadAlertPayload decodes and validates an alert payload.
func ReadAlertPayload(r io.Reader) (*AlertPayload, error) {
	var p AlertPayload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode alert payload: %w", err)
	}
	if strings.TrimSpace(p.ResultsFile) == "" {
		return nil, fmt.Errorf("alert payload: results_file is required")
	}
	if strings.TrimSpace(p.SessionKey) == "" {
		return nil, fmt.Errorf("alert payload: session_key is required")
	}
	p.Configuration = p.Configuration.unquoted()
	return &p, nil
}

func (c AlertConfiguration) unquoted() AlertConfiguration {
	return AlertConfiguration{
		Body:      Unquote(c.Body),
		Subject:   Unquote(c.Subject),
		Sender:    Unquote(c.Sender),
		Recipient: Unquote(c.Recipient),
		Filename:  Unquote(c.Filename),
	}
}

// ReportName is the name used for the sheet and the $name$ placeholder:
// the configured file name when set, the search name otherwise.
func (p *AlertPayload) ReportName() string {
	if p.Configuration.Filename != "" {
		return p.Configuration.Filename
	}
	return p.SearchName
}
