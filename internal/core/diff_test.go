package core

import (
	"strings"
	"testing"
)

func TestIsText(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"empty", []byte{}, true},
		{"plain text", []byte("Hello, World!\n"), true},
		{"tabs and CRLF", []byte("a\tb\r\nc\r\n"), true},
		{"unicode", []byte("héllo wörld 日本語\n"), true},
		{"null byte", []byte("Hello\x00World"), false},
		{"invalid UTF-8", []byte{0x80, 0x81, 0x82, 0x83}, false},
		{"control characters", []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A}, false},
		{"DEL characters", []byte("\x7f\x7f\x7f\x7fab"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsText(tt.content); got != tt.want {
				t.Errorf("IsText(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestIsText_SamplesPrefix(t *testing.T) {
	// Binary-looking bytes past the sample window do not count
	data := []byte(strings.Repeat("a", textSampleSize) + "\x01\x02\x03")
	if !IsText(data) {
		t.Error("IsText looked past the sample window")
	}
}

func TestSameContent(t *testing.T) {
	if !SameContent([]byte("abc"), []byte("abc")) {
		t.Error("identical content reported different")
	}
	if !SameContent(nil, []byte{}) {
		t.Error("nil and empty reported different")
	}
	if SameContent([]byte("abc"), []byte("abd")) {
		t.Error("different content reported identical")
	}
}

func TestUnifiedDiff(t *testing.T) {
	tests := []struct {
		name      string
		vault     string
		local     string
		want      []string
		wantEmpty bool
	}{
		{
			name:      "identical",
			vault:     "line1\nline2\n",
			local:     "line1\nline2\n",
			wantEmpty: true,
		},
		{
			name:  "changed line",
			vault: "line1\nline2\nline3\n",
			local: "line1\nmodified\nline3\n",
			want:  []string{"--- vault/f.txt", "+++ local/f.txt", "@@", "-line2", "+modified"},
		},
		{
			name:  "added line",
			vault: "line1\n",
			local: "line1\nline2\n",
			want:  []string{"+line2"},
		},
		{
			name:  "removed line",
			vault: "line1\nline2\n",
			local: "line1\n",
			want:  []string{"-line2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnifiedDiff("f.txt", []byte(tt.vault), []byte(tt.local))
			if tt.wantEmpty {
				if got != "" {
					t.Errorf("UnifiedDiff = %q, want empty", got)
				}
				return
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("diff missing %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestUnifiedDiff_Binary(t *testing.T) {
	got := UnifiedDiff("image.png", []byte{0x89, 'P', 'N', 'G', 0x00}, []byte{0x89, 'P', 'N', 'G', 0x01, 0x00})
	if got != "Binary file image.png has changed\n" {
		t.Errorf("UnifiedDiff = %q", got)
	}
}
