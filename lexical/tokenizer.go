package lexical

import (
	"strings"
	"unicode"

	"github.com/go-ego/gse"
)

// Tokenizer converts raw text into index terms.
type Tokenizer interface {
	Tokenize(text string) []string
}

// GseTokenizer segments mixed Chinese and English text using the gse
// dictionary segmenter with HMM fallback for out-of-vocabulary words.
type GseTokenizer struct {
	seg gse.Segmenter
}

var _ Tokenizer = (*GseTokenizer)(nil)

// NewTokenizer creates a tokenizer with the embedded default dictionary.
func NewTokenizer() (*GseTokenizer, error) {
	seg, err := gse.New()
	if err != nil {
		return nil, err
	}
	return &GseTokenizer{seg: seg}, nil
}

// Tokenize segments text into lowercase terms. Whitespace and
// punctuation-only segments are dropped.
func (t *GseTokenizer) Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	segments := t.seg.Cut(text, true)
	terms := make([]string, 0, len(segments))
	for _, segment := range segments {
		term := strings.ToLower(strings.TrimSpace(segment))
		if term == "" || !hasWordRune(term) {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
