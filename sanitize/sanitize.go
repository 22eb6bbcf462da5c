// Package sanitize cleans user input before storage and escapes stored values
// for HTML output.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

var (
	reWhitespace   = regexp.MustCompile(`[\r\n\t ]+`)
	reSpaces       = regexp.MustCompile(` +`)
	rePercentOctet = regexp.MustCompile(`(?i)%[a-f0-9]{2}`)
	reEntity       = regexp.MustCompile(`^&(#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6}|[a-zA-Z][a-zA-Z0-9]{1,31});`)
)

// TextField cleans a single-line text value: tags are removed, whitespace is
// collapsed and percent-encoded octets are dropped.
func TextField(s string) string {
	return textField(s, false)
}

// TextareaField is TextField that keeps line breaks.
func TextareaField(s string) string {
	return textField(s, true)
}

func textField(s string, keepNewlines bool) string {
	if !utf8.ValidString(s) {
		return ""
	}
	if strings.Contains(s, "<") {
		s = StripTags(encodeLoneLessThan(s))
	}
	if !keepNewlines {
		s = reWhitespace.ReplaceAllString(s, " ")
	}
	s = strings.TrimSpace(s)

	found := false
	for rePercentOctet.MatchString(s) {
		s = rePercentOctet.ReplaceAllString(s, "")
		found = true
	}
	if found {
		s = strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
	}
	return s
}

// encodeLoneLessThan turns every "<" that is not closed by a ">" before the
// next "<" or the end of s into "&lt;".
func encodeLoneLessThan(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '<' {
			b.WriteByte(s[i])
			continue
		}
		rest := s[i+1:]
		gt := strings.IndexByte(rest, '>')
		lt := strings.IndexByte(rest, '<')
		if gt >= 0 && (lt < 0 || gt < lt) {
			b.WriteByte('<')
			continue
		}
		b.WriteString("&lt;")
	}
	return b.String()
}

// StripTags removes every tag from s. The contents of script and style
// elements are dropped; a "<" that does not open a tag is kept as "&lt;".
func StripTags(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			if skip == 0 {
				b.WriteString(strings.ReplaceAll(string(z.Raw()), "<", "&lt;"))
			}
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawTextTag(name) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawTextTag(name) && skip > 0 {
				skip--
			}
		}
	}
}

func isRawTextTag(name []byte) bool {
	n := string(name)
	return n == "script" || n == "style"
}

// HTML escapes s for an HTML text context. Existing character references are
// left alone so stored values are not double-encoded.
func HTML(s string) string {
	if !utf8.ValidString(s) {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			if m := reEntity.FindString(s[i:]); m != "" {
				b.WriteString(m)
				i += len(m) - 1
				continue
			}
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#039;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Attr escapes s for a quoted attribute value.
func Attr(s string) string {
	return HTML(s)
}

// Textarea escapes s for the body of a textarea element. Entities are
// re-encoded so the editor shows exactly what was stored.
func Textarea(s string) string {
	return html.EscapeString(s)
}
