package htmlsanitize

import "testing"

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "octocat", "octocat"},
		{"script tag", "<script>alert(1)</script>octocat", "octocat"},
		{"nested markup", "<b><i>octocat</i></b>", "octocat"},
		{"leading whitespace", "  octocat  ", "octocat"},
		{"empty", "", ""},
		{"only markup", "<script>alert(1)</script>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkup(tt.input); got != tt.want {
				t.Errorf("StripMarkup(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
