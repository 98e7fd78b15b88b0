package coerce

import "regexp"

var (
	schemePattern     = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	bareDomainPattern = regexp.MustCompile(`^[\w.-]+(/.*)?$`)
)

// URL normalizes a link for display. Links with a scheme are kept as they
// are; bare domains or paths get an https:// prefix. Anything else is
// returned trimmed but otherwise untouched.
func URL(v any) (string, bool) {
	s, ok := Text(v)
	if !ok {
		return "", false
	}
	if schemePattern.MatchString(s) {
		return s, true
	}
	if bareDomainPattern.MatchString(s) {
		return "https://" + s, true
	}
	return s, true
}
