// Package typo detects common Turkish misspellings in a line of input.
package typo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed typos.json
var defaultDictionary []byte

var lower = cases.Lower(language.Turkish)

// Suggestion is a misspelled token and its correction.
type Suggestion struct {
	Wrong   string `json:"wrong"`
	Correct string `json:"correct"`
}

// Checker looks tokens up in a static dictionary.
type Checker struct {
	dict map[string]string
}

// NewChecker creates a Checker from a wrong→correct dictionary.
// Entries whose correction equals the key are ignored.
func NewChecker(dict map[string]string) *Checker {
	c := &Checker{dict: make(map[string]string, len(dict))}
	for wrong, correct := range dict {
		w := lower.String(wrong)
		if w != lower.String(correct) {
			c.dict[w] = correct
		}
	}
	return c
}

// ParseDictionary decodes a JSON object of wrong→correct pairs.
func ParseDictionary(data []byte) (map[string]string, error) {
	var dict map[string]string
	if err := json.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("failed to decode typo dictionary: %w", err)
	}
	return dict, nil
}

// Default returns a Checker over the embedded dictionary.
func Default() *Checker {
	dict, err := ParseDictionary(defaultDictionary)
	if err != nil {
		panic(err)
	}
	return NewChecker(dict)
}

// Len returns the number of dictionary entries.
func (c *Checker) Len() int {
	return len(c.dict)
}

// Suggest returns the first misspelled token of text.
func (c *Checker) Suggest(text string) (Suggestion, bool) {
	for _, tok := range tokens(text) {
		if correct, ok := c.dict[tok]; ok {
			return Suggestion{Wrong: tok, Correct: correct}, true
		}
	}
	return Suggestion{}, false
}

// Fix replaces every whole-token, case-insensitive occurrence of s.Wrong with s.Correct.
func (c *Checker) Fix(text string, s Suggestion) string {
	if s.Wrong == "" {
		return text
	}
	var b strings.Builder
	rs := []rune(text)
	for i := 0; i < len(rs); {
		if !isWordRune(rs[i]) {
			b.WriteRune(rs[i])
			i++
			continue
		}
		j := i
		for j < len(rs) && isWordRune(rs[j]) {
			j++
		}
		word := string(rs[i:j])
		if lower.String(word) == s.Wrong {
			b.WriteString(s.Correct)
		} else {
			b.WriteString(word)
		}
		i = j
	}
	return b.String()
}

func tokens(text string) []string {
	return strings.FieldsFunc(lower.String(text), func(r rune) bool {
		return !isWordRune(r)
	})
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
