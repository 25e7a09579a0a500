package service

import (
	"errors"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  I'm EXHAUSTED!!! ", want: "i m exhausted"},
		{in: "see https://example.com/x?y=1 and www.foo.org now", want: "see and now"},
		{in: "can't handle -- it", want: "can t handle it"},
		{in: "", want: ""},
		{in: "¡Qué día!", want: "qué día"},
	}
	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Fatalf("NormalizeText(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestLexiconCount(t *testing.T) {
	lex := MustDefaultLexicon()

	tests := []struct {
		name string
		text string
		want LexiconHits
	}{
		{name: "negative phrases", text: "Exhausted and overwhelmed, I can't handle it", want: LexiconHits{Negative: 3}},
		{name: "repeated word counts every occurrence", text: "tired, tired, tired", want: LexiconHits{Negative: 3}},
		{name: "word boundaries", text: "I feel unwell and stressed", want: LexiconHits{}},
		{name: "multi word phrase", text: "totally burned out", want: LexiconHits{Negative: 1}},
		{name: "mixed", text: "good team but constant stress", want: LexiconHits{Positive: 1, Negative: 1}},
		{name: "positive", text: "Energized, motivated and happy", want: LexiconHits{Positive: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lex.Count(tt.text); got != tt.want {
				t.Fatalf("Count(%q) = %+v; want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseLexicon_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "no version", raw: "positive: [good]\nnegative: [bad]\n"},
		{name: "empty list", raw: "version: 1\npositive: [good]\nnegative: []\n"},
		{name: "blank phrase", raw: "version: 1\npositive: ['!!']\nnegative: [bad]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseLexicon([]byte(tt.raw)); !errors.Is(err, ErrInvalidLexicon) {
				t.Fatalf("expected ErrInvalidLexicon, got %v", err)
			}
		})
	}
}

func TestDefaultLexiconVersion(t *testing.T) {
	if v := MustDefaultLexicon().Version; v != 2 {
		t.Fatalf("expected lexicon version 2, got %d", v)
	}
}
