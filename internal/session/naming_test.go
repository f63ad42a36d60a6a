package session

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestProvisionalThreadName(t *testing.T) {
	cases := []struct {
		category Category
		name     string
		want     string
	}{
		{CategoryHelp, "Bob", "🤝 Bob's thread"},
		{CategoryHelp, "James", "🤝 James' thread"},
		{CategoryBug, "Ana", "🐞 Ana's thread"},
		{CategoryQuestion, "CHRIS", "🙋 CHRIS' thread"},
		{CategoryFeature, "Rose", "💡 Rose's thread"},
	}
	for _, tc := range cases {
		if got := provisionalThreadName(tc.category, tc.name); got != tc.want {
			t.Errorf("provisionalThreadName(%s, %q) = %q, want %q", tc.category, tc.name, got, tc.want)
		}
	}
}

func TestTitledThreadName(t *testing.T) {
	if got := titledThreadName(CategoryBug, "Crashes on launch"); got != "🐞 Crashes on launch" {
		t.Fatalf("unexpected name: %q", got)
	}
	if got := titledThreadName(CategoryBug, "Crashes\non   launch "); got != "🐞 Crashes on launch" {
		t.Fatalf("expected whitespace to collapse, got %q", got)
	}
}

func TestTitledThreadName_TruncatesToChannelLimit(t *testing.T) {
	got := titledThreadName(CategoryHelp, strings.Repeat("é", 150))
	if n := utf8.RuneCountInString(got); n != maxChannelNameLength {
		t.Fatalf("expected %d characters, got %d", maxChannelNameLength, n)
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncation split a character")
	}
}
