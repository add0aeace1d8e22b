// Package filename resolves attachment file name templates.
//
// Templates use the host platform's report file name syntax: "$name$" is the
// report name and "$time:<strftime pattern>$" is the invocation time.
package filename

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// NamePlaceholder is replaced by the report name.
const NamePlaceholder = "$name$"

// DefaultTemplate is used when no template is configured.
const DefaultTemplate = NamePlaceholder

var timeRe = regexp.MustCompile(`\$time:([^$]+)\$`)

// Resolve expands template for a report called name at time now and makes
// sure the result ends with ext. Path separators are replaced so the file
// stays in the output directory.
func Resolve(template, name string, now time.Time, ext string) (string, error) {
	if strings.TrimSpace(template) == "" {
		template = DefaultTemplate
	}

	out := strings.ReplaceAll(template, NamePlaceholder, name)

	var ferr error
	out = timeRe.ReplaceAllStringFunc(out, func(m string) string {
		pattern := timeRe.FindStringSubmatch(m)[1]
		s, err := strftime.Format(pattern, now)
		if err != nil && ferr == nil {
			ferr = fmt.Errorf("time pattern %q: %w", pattern, err)
		}
		return s
	})
	if ferr != nil {
		return "", ferr
	}

	out = strings.NewReplacer("/", "_", "\\", "_").Replace(out)
	if ext != "" && !strings.HasSuffix(strings.ToLower(out), strings.ToLower(ext)) {
		out += ext
	}
	return out, nil
}
