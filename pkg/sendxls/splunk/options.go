package splunk

import "strings"

// Unquote strips one pair of surrounding double quotes.
func Unquote(s string) string {
	if len(s) > 1 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// CommandOptions are the key=value arguments of a search command.
type CommandOptions map[string]string

// ParseCommandOptions splits key=value arguments. Arguments without '=' are
// returned as keywords.
func ParseCommandOptions(args []string) (CommandOptions, []string) {
	opts := make(CommandOptions)
	var keywords []string
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			keywords = append(keywords, arg)
			continue
		}
		opts[key] = Unquote(value)
	}
	return opts, keywords
}

// Get returns the option or def when it is not set.
func (o CommandOptions) Get(key, def string) string {
	if v, ok := o[key]; ok {
		return v
	}
	return def
}
