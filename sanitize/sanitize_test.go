package sanitize

import "testing"

func TestTextField(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"  Dune  ", "Dune"},
		{"<b>Title</b>", "Title"},
		{"Frank\nHerbert\t Jr.", "Frank Herbert Jr."},
		{"a < b", "a &lt; b"},
		{"a<b", "a&lt;b"},
		{"x<y <b>bold</b>", "x&lt;y bold"},
		{"x<script>alert(1)</script>y", "xy"},
		{"<style>p{}</style>Styled", "Styled"},
		{"100%20off", "100off"},
		{"%3Cb%3E bold", "b bold"},
		{"Tom &amp; Jerry", "Tom &amp; Jerry"},
		{"bad\xffutf8", ""},
	}
	for _, tt := range tests {
		if got := TextField(tt.input); got != tt.want {
			t.Errorf("TextField(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTextareaFieldKeepsNewlines(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"line one\nline two", "line one\nline two"},
		{"  <p>para</p>\n<em>next</em>  ", "para\nnext"},
		{"\n\nspaced\n\n", "spaced"},
	}
	for _, tt := range tests {
		if got := TextareaField(tt.input); got != tt.want {
			t.Errorf("TextareaField(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestURLRaw(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"javascript:alert(1)", ""},
		{"JavaScript:alert(1)", ""},
		{"java script:alert(1)", ""},
		{"data:text/html;base64,AAAA", ""},
		{"https://example.com/buy?id=1&ref=2", "https://example.com/buy?id=1&ref=2"},
		{"example.com/book", "http://example.com/book"},
		{"/books/dune/", "/books/dune/"},
		{"#top", "#top"},
		{"mailto:shop@example.com", "mailto:shop@example.com"},
		{"https://example.com/a b", "https://example.com/a%20b"},
		{"https://example.com/<x>\"", "https://example.com/x"},
		{"  https://example.com", "https://example.com"},
		{"&#106;avascript:alert(1)", ""},
		{"jav&#x61;script:alert(1)", ""},
		{"/shop/?q=a:b", "/shop/?q=a:b"},
		{"http;//example.com", "http://example.com"},
		{"https://example.com/a%0%0adb", "https://example.com/ab"},
		{"https://example.com/a%0D%0Ab", "https://example.com/ab"},
	}
	for _, tt := range tests {
		if got := URLRaw(tt.input); got != tt.want {
			t.Errorf("URLRaw(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestURLForDisplay(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://example.com/?a=1&b=2", "https://example.com/?a=1&#038;b=2"},
		{"https://example.com/?a=1&amp;b=2", "https://example.com/?a=1&#038;b=2"},
		{"https://example.com/it's", "https://example.com/it&#039;s"},
		{"javascript:alert(1)", ""},
	}
	for _, tt := range tests {
		if got := URL(tt.input); got != tt.want {
			t.Errorf("URL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestHTMLEscaping(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<b>Title</b>", "&lt;b&gt;Title&lt;/b&gt;"},
		{`say "hi" & 'bye'`, "say &quot;hi&quot; &amp; &#039;bye&#039;"},
		{"Tom &amp; Jerry", "Tom &amp; Jerry"},
		{"&#039;quoted&#x27;", "&#039;quoted&#x27;"},
		{"AT&T", "AT&amp;T"},
	}
	for _, tt := range tests {
		if got := HTML(tt.input); got != tt.want {
			t.Errorf("HTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTextareaDoubleEncodes(t *testing.T) {
	if got := Textarea("a &amp; <b>"); got != "a &amp;amp; &lt;b&gt;" {
		t.Errorf("Textarea = %q", got)
	}
}
