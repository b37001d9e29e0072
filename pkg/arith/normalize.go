package arith

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MinExpressionLength is the shortest normalized string treated as a calculation.
// It keeps a bare operator or a single digit from counting as arithmetic.
const MinExpressionLength = 3

var lower = cases.Lower(language.Turkish)

// OperatorWords maps localized operator words to their replacement.
// An empty replacement removes the word. Question words ("kaç", "nedir", ...) need no entry:
// letters are stripped anyway.
type OperatorWords map[string]string

// DefaultWords turns multiply words into '*' and removes divide words.
var DefaultWords = OperatorWords{
	"çarpı": "*",
	"carpi": "*",
	"kere":  "*",
	"kez":   "*",
	"x":     "*",
	"×":     "*",
	"bölü":  "",
	"bolu":  "",
	"÷":     "",
}

// ExtendedWords also maps divide words to '/' and understands "artı" and "eksi".
var ExtendedWords = OperatorWords{
	"çarpı": "*",
	"carpi": "*",
	"kere":  "*",
	"kez":   "*",
	"x":     "*",
	"×":     "*",
	"bölü":  "/",
	"bolu":  "/",
	"÷":     "/",
	"artı":  "+",
	"arti":  "+",
	"eksi":  "-",
}

// Normalize converts a phrase like "10 kere 2 kaçtır?" into "10*2" using DefaultWords.
func Normalize(text string) string {
	return DefaultWords.Normalize(text)
}

// HasOperator reports whether text contains an operator symbol or a word of DefaultWords.
func HasOperator(text string) bool {
	return DefaultWords.HasOperator(text)
}

// Normalize substitutes operator words token by token, then removes every rune that is not a
// digit, '.', or one of "+-*/". A decimal comma is removed like any other rune.
func (w OperatorWords) Normalize(text string) string {
	fields := strings.Fields(lower.String(strings.TrimSpace(text)))

	var b strings.Builder
	for _, f := range fields {
		word := strings.TrimFunc(f, isPunct)
		if sym, ok := w[word]; ok {
			b.WriteString(sym)
			continue
		}
		f = replaceInfixX(f)
		for _, r := range f {
			switch {
			case isExprRune(r):
				b.WriteRune(r)
			case r == '×' || r == '÷':
				b.WriteString(w[string(r)])
			}
		}
	}
	return b.String()
}

// HasOperator reports whether text contains an operator symbol or one of w's words.
func (w OperatorWords) HasOperator(text string) bool {
	for _, f := range strings.Fields(lower.String(text)) {
		if _, ok := w[strings.TrimFunc(f, isPunct)]; ok {
			return true
		}
		if strings.ContainsAny(f, "+-*/×÷") {
			return true
		}
		if replaceInfixX(f) != f {
			return true
		}
	}
	return false
}

// HasDigit reports whether text contains at least one ASCII digit.
func HasDigit(text string) bool {
	for _, r := range text {
		if isDigit(r) {
			return true
		}
	}
	return false
}

// replaceInfixX turns "3x4" into "3*4". An 'x' not surrounded by digits is left alone.
func replaceInfixX(s string) string {
	if !strings.Contains(s, "x") {
		return s
	}
	rs := []rune(s)
	for i := 1; i < len(rs)-1; i++ {
		if rs[i] == 'x' && isDigit(rs[i-1]) && isDigit(rs[i+1]) {
			rs[i] = '*'
		}
	}
	return string(rs)
}

func isPunct(r rune) bool {
	return unicode.IsPunct(r) && r != '-' && r != '*' && r != '/' && r != '.'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isExprRune(r rune) bool {
	return isDigit(r) || r == '.' || r == '+' || r == '-' || r == '*' || r == '/'
}
