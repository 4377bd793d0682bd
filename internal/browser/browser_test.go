package browser

import "testing"

func TestOpenRejectsNonHTTP(t *testing.T) {
	tests := []string{
		"file:///etc/passwd",
		"javascript:alert(1)",
		"ftp://example.com",
		"item?id=42",
		"",
	}

	for _, u := range tests {
		if err := Open(u); err == nil {
			t.Errorf("Open(%q): expected error, got nil", u)
		}
	}
}

func TestResolve(t *testing.T) {
	const base = "https://news.ycombinator.com/newest"

	tests := []struct {
		base    string
		href    string
		want    string
		wantErr bool
	}{
		{base, "https://example.com/post", "https://example.com/post", false},
		{base, "item?id=42", "https://news.ycombinator.com/item?id=42", false},
		{base, "/from?site=example.com", "https://news.ycombinator.com/from?site=example.com", false},
		{base, "", "", false},
		{"", "item?id=42", "", true},
		{base, "%zz", "", true},
	}
	for _, tt := range tests {
		got, err := Resolve(tt.base, tt.href)
		if (err != nil) != tt.wantErr {
			t.Errorf("Resolve(%q, %q) error = %v, wantErr %v", tt.base, tt.href, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}
