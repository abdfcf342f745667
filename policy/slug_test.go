package policy

import "testing"

func TestDeriveSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Tech News", "tech-news"},
		{"  Spaces  Around  ", "spaces-around"},
		{"Already-Slugified-Title", "already-slugified-title"},
		{"Multiple---Hyphens & Symbols!!", "multiple-hyphens-symbols"},
		{"--leading and trailing--", "leading-and-trailing"},
		{"C++ & Go: a comparison", "c-go-a-comparison"},
		{"2024 Year In Review", "2024-year-in-review"},
		{"中文标题", ""},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := DeriveSlug(tc.in); got != tc.want {
			t.Errorf("DeriveSlug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDeriveSlugIdempotent(t *testing.T) {
	inputs := []string{
		"Hello World",
		"Tech News",
		"A  B  C",
		"post-42",
		"Ünïcode Tïtle",
		"trailing punctuation...",
	}
	for _, in := range inputs {
		once := DeriveSlug(in)
		twice := DeriveSlug(once)
		if once != twice {
			t.Errorf("DeriveSlug not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
