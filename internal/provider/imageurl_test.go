package provider

import "testing"

func TestSecureImageURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace", "   \t", ""},
		{"trimmed", "  https://img.example/a.png  ", "https://img.example/a.png"},
		{"protocol relative", "//img.example/a.png", "https://img.example/a.png"},
		{"http upgraded", "http://img.example/a.png", "https://img.example/a.png"},
		{"https untouched", "https://img.example/a.png", "https://img.example/a.png"},
		{"query preserved", "http://img.example/a.png?w=300&h=300", "https://img.example/a.png?w=300&h=300"},
		{"malformed passthrough", "not a url", "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SecureImageURL(tt.in); got != tt.want {
				t.Errorf("SecureImageURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
