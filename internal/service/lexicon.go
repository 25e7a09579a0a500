package service

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/lexicon.yaml
var defaultLexiconYAML []byte

var ErrInvalidLexicon = errors.New("invalid lexicon")

var (
	reURL      = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)
	reNonAlnum = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// NormalizeText quita URLs, colapsa puntuacion a un espacio, pasa a minusculas y recorta.
func NormalizeText(text string) string {
	text = reURL.ReplaceAllString(text, " ")
	text = reNonAlnum.ReplaceAllString(text, " ")
	return strings.TrimSpace(strings.ToLower(text))
}

// Lexicon es la lista versionada de frases positivas/negativas compartida por el
// scorer lexico y la clasificacion de tono del prompt.
type Lexicon struct {
	Version  int
	positive [][]string
	negative [][]string
}

// LexiconHits cuenta ocurrencias de frases de cada lista.
type LexiconHits struct {
	Positive int
	Negative int
}

func NewDefaultLexicon() (*Lexicon, error) {
	return ParseLexicon(defaultLexiconYAML)
}

func MustDefaultLexicon() *Lexicon {
	lex, err := NewDefaultLexicon()
	if err != nil {
		panic(err)
	}
	return lex
}

func ParseLexicon(raw []byte) (*Lexicon, error) {
	var doc struct {
		Version  int      `yaml:"version"`
		Positive []string `yaml:"positive"`
		Negative []string `yaml:"negative"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLexicon, err)
	}
	if doc.Version <= 0 {
		return nil, fmt.Errorf("%w: missing version", ErrInvalidLexicon)
	}

	pos, err := tokenizePhrases(doc.Positive)
	if err != nil {
		return nil, err
	}
	neg, err := tokenizePhrases(doc.Negative)
	if err != nil {
		return nil, err
	}
	if len(pos) == 0 || len(neg) == 0 {
		return nil, fmt.Errorf("%w: both lists must be non-empty", ErrInvalidLexicon)
	}
	return &Lexicon{Version: doc.Version, positive: pos, negative: neg}, nil
}

func tokenizePhrases(phrases []string) ([][]string, error) {
	seen := make(map[string]struct{}, len(phrases))
	out := make([][]string, 0, len(phrases))
	for _, p := range phrases {
		norm := NormalizeText(p)
		if norm == "" {
			return nil, fmt.Errorf("%w: phrase %q is empty after normalization", ErrInvalidLexicon, p)
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, strings.Fields(norm))
	}
	return out, nil
}

// Count normaliza el texto y cuenta ocurrencias respetando limites de palabra
// ("well" no matchea dentro de "unwell").
func (l *Lexicon) Count(text string) LexiconHits {
	tokens := strings.Fields(NormalizeText(text))
	return LexiconHits{
		Positive: countPhrases(tokens, l.positive),
		Negative: countPhrases(tokens, l.negative),
	}
}

func countPhrases(tokens []string, phrases [][]string) int {
	total := 0
	for _, phrase := range phrases {
		for i := 0; i+len(phrase) <= len(tokens); i++ {
			if matchAt(tokens, i, phrase) {
				total++
			}
		}
	}
	return total
}

func matchAt(tokens []string, at int, phrase []string) bool {
	for j, w := range phrase {
		if tokens[at+j] != w {
			return false
		}
	}
	return true
}
