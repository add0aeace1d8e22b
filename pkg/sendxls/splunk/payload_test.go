package splunk

import (
	"strings"
	"testing"
)

func TestReadAlertPayload(t *testing.T) {
	t.Run("full payload", func(t *testing.T) {
		in := `{
			"server_uri": "https://127.0.0.1:8089",
			"session_key": "abc123",
			"results_file": "/opt/splunk/var/run/splunk/dispatch/x/results.csv.gz",
			"search_name": "Daily Errors",
			"configuration": {
				"body": "See attached.",
				"subject": "\"Daily\"",
				"recipient": "a@example.com,b@example.com"
			}
		}`
		p, err := ReadAlertPayload(strings.NewReader(in))
		if err != nil {
			t.Fatalf("ReadAlertPayload failed: %v", err)
		}
		if p.SearchName != "Daily Errors" || p.SessionKey != "abc123" {
			t.Errorf("unexpected payload: %+v", p)
		}
		if p.Configuration.Subject != "Daily" {
			t.Errorf("Expected quotes stripped from subject, got %q", p.Configuration.Subject)
		}
		if p.ReportName() != "Daily Errors" {
			t.Errorf("unexpected report name %q", p.ReportName())
		}
		p.Configuration.Filename = "errors"
		if p.ReportName() != "errors" {
			t.Errorf("Expected configured filename to win, got %q", p.ReportName())
		}
	})

	t.Run("missing results file", func(t *testing.T) {
		if _, err := ReadAlertPayload(strings.NewReader(`{"session_key":"k"}`)); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("missing session key", func(t *testing.T) {
		if _, err := ReadAlertPayload(strings.NewReader(`{"results_file":"f"}`)); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := ReadAlertPayload(strings.NewReader(`{`)); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestParseCommandOptions(t *testing.T) {
	opts, keywords := ParseCommandOptions([]string{
		`recipient="a@example.com,b@example.com"`,
		"subject=Daily report",
		"body=a=b",
		"verbose",
		"=x",
	})
	if opts.Get("recipient", "") != "a@example.com,b@example.com" {
		t.Errorf("unexpected recipient %q", opts.Get("recipient", ""))
	}
	if opts.Get("subject", "") != "Daily report" {
		t.Errorf("unexpected subject %q", opts.Get("subject", ""))
	}
	if opts.Get("body", "") != "a=b" {
		t.Errorf("unexpected body %q", opts.Get("body", ""))
	}
	if opts.Get("search_name", "one") != "one" {
		t.Error("Expected default for missing option")
	}
	if len(keywords) != 2 || keywords[0] != "verbose" {
		t.Errorf("unexpected keywords %v", keywords)
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"x"`, "x"},
		{`""`, ""},
		{`"`, `"`},
		{`x"`, `x"`},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := Unquote(tt.input); got != tt.expected {
			t.Errorf("Unquote(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
