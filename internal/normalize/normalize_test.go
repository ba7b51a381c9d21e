package normalize

import (
	"strings"
	"testing"
)

func TestNormKey(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		corps    string
		title    string
		expected string
	}{
		{"plain", 2017, "Blue Devils", "Metamorph", "2017|blue devils|metamorph"},
		{"whitespace collapsed", 2017, "  Blue   Devils ", "Metamorph\t", "2017|blue devils|metamorph"},
		{"no-break space collapsed", 2017, "Blue\u00a0Devils", "Meta\u2003morph\u00a0", "2017|blue devils|meta morph"},
		{"ideographic space collapsed", 2017, "Blue\u3000\u00a0Devils", "Metamorph", "2017|blue devils|metamorph"},
		{"punctuation dropped", 2014, "The Cadets", "Promise: Alma Mater!", "2014|the cadets|promise alma mater"},
		{"hyphen kept", 2019, "Santa Clara Vanguard", "Vox Eversio - Reborn", "2019|santa clara vanguard|vox eversio - reborn"},
		{"pipe dropped", 2000, "A|B", "C", "2000|ab|c"},
		{"empty parts", 1999, "", "!!!", "1999||"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormKey(tt.year, tt.corps, tt.title)
			if result != tt.expected {
				t.Errorf("NormKey(%d, %q, %q) = %q, want %q", tt.year, tt.corps, tt.title, result, tt.expected)
			}
		})
	}
}

func TestNormKey_CaseInsensitive(t *testing.T) {
	a := NormKey(2017, "BLUE DEVILS", "METAMORPH")
	b := NormKey(2017, "blue devils", "metamorph")
	if a != b {
		t.Errorf("expected equal keys, got %q and %q", a, b)
	}
}

func TestKeyPart_NeverContainsSeparator(t *testing.T) {
	for _, in := range []string{"|", "a|b", "||x||", "a | b"} {
		if strings.Contains(KeyPart(in), "|") {
			t.Errorf("KeyPart(%q) contains separator", in)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Veterans!!", "veterans"},
		{"Drum Major", "drum-major"},
		{"  Brass -- Caption  Head ", "brass-caption-head"},
		{"Élite", "elite"},
		{"!!!", "role"},
		{"", "role"},
		{"日本", "role"},
		{"Age-Out 2019", "age-out-2019"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Slug(tt.input)
			if result != tt.expected {
				t.Errorf("Slug(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSlugCandidate(t *testing.T) {
	if got := SlugCandidate("veterans", 1); got != "veterans" {
		t.Errorf("got %q", got)
	}
	if got := SlugCandidate("veterans", 2); got != "veterans-2" {
		t.Errorf("got %q", got)
	}
	if got := SlugCandidate("veterans", 3); got != "veterans-3" {
		t.Errorf("got %q", got)
	}
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"#1a2B3c", "#1a2B3c"},
		{" #FFFFFF ", "#FFFFFF"},
		{"#FFF", ""},
		{"FFFFFF", ""},
		{"#GGGGGG", ""},
		{"#1234567", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := HexColor(tt.input)
			if result != tt.expected {
				t.Errorf("HexColor(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestOptional(t *testing.T) {
	if Optional("   ") != nil {
		t.Error("blank input should be nil")
	}
	if Optional("") != nil {
		t.Error("empty input should be nil")
	}
	got := Optional("  https://example.com/p.jpg ")
	if got == nil || *got != "https://example.com/p.jpg" {
		t.Errorf("unexpected %v", got)
	}
}

func TestText(t *testing.T) {
	if got := Text("  hello\x00 world \n"); got != "hello world" {
		t.Errorf("Text() = %q", got)
	}
}
