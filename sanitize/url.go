package sanitize

import (
	"html"
	"regexp"
	"strings"
)

// AllowedProtocols are the URL schemes kept by URL and URLRaw.
var AllowedProtocols = []string{
	"http", "https", "ftp", "ftps", "mailto", "news", "irc", "irc6", "ircs",
	"gopher", "nntp", "feed", "telnet", "mms", "rtsp", "sms", "svn", "tel",
	"fax", "xmpp", "webcal", "urn",
}

var (
	reURLDisallowed  = regexp.MustCompile(`(?i)[^a-z0-9\-~+_.?#=!&;,/:%@$|*'()\[\]\x{80}-\x{10FFFF}]`)
	rePHPFile        = regexp.MustCompile(`(?i)^[a-z0-9-]+?\.php`)
	reColon          = regexp.MustCompile(`(?i):|&#0*58;|&#x0*3a;`)
	reAnySpace       = regexp.MustCompile(`[\s\x00-\x1f\x7f]`)
	reLineBreakOctet = regexp.MustCompile(`%0[adAD]`)
)

// URLRaw cleans a URL for storage. Characters outside the URL alphabet are
// removed, scheme-less hosts get "http://" and a scheme outside
// AllowedProtocols makes the whole value empty.
func URLRaw(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(strings.TrimLeft(s, " \t\n\r\x00\x0B"), " ", "%20")
	s = reURLDisallowed.ReplaceAllString(s, "")
	if s == "" {
		return ""
	}
	for {
		next := reLineBreakOctet.ReplaceAllString(s, "")
		if next == s {
			break
		}
		s = next
	}
	s = strings.ReplaceAll(s, ";//", "://")

	if !strings.Contains(s, ":") && !strings.HasPrefix(s, "/") &&
		!strings.HasPrefix(s, "#") && !strings.HasPrefix(s, "?") &&
		!rePHPFile.MatchString(s) {
		s = "http://" + s
	}

	if !hasAllowedProtocol(s) {
		return ""
	}
	return s
}

// URL is URLRaw with "&" and "'" encoded for output in an attribute.
func URL(s string) string {
	s = URLRaw(s)
	if s == "" {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			m := reEntity.FindString(s[i:])
			switch {
			case m == "" || m == "&amp;":
				b.WriteString("&#038;")
			default:
				b.WriteString(m)
			}
			if m != "" {
				i += len(m) - 1
			}
		case '\'':
			b.WriteString("&#039;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// hasAllowedProtocol reports whether the scheme of s, if any, is allowed.
// Encoded colons count as scheme separators, and the scheme is judged after
// character references are decoded, as a browser reads it.
func hasAllowedProtocol(s string) bool {
	parts := reColon.Split(s, 2)
	if len(parts) < 2 {
		return true
	}
	scheme := reAnySpace.ReplaceAllString(html.UnescapeString(parts[0]), "")
	if strings.ContainsAny(scheme, "/?") {
		return true
	}
	scheme = strings.ToLower(scheme)
	for _, p := range AllowedProtocols {
		if p == scheme {
			return true
		}
	}
	return false
}
