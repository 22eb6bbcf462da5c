package bookpress

import "testing"

func TestAutop(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"One line", "<p>One line</p>\n"},
		{"First\nsecond", "<p>First<br/>\nsecond</p>\n"},
		{"A\r\n\r\nB", "<p>A</p>\n<p>B</p>\n"},
		{"<script>x</script>", "<p>&lt;script&gt;x&lt;/script&gt;</p>\n"},
	}
	for _, tt := range tests {
		if got := Autop(tt.in); got != tt.want {
			t.Errorf("Autop(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
