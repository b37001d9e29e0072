package intent

import (
	"strings"
	"unicode"

	"github.com/aretw0/selim/pkg/arith"
	"github.com/aretw0/selim/pkg/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Turkish)

// rule decides one intent. Rules are evaluated in slice order.
type rule struct {
	kind  domain.Kind
	match func(text string, tokens []string) (domain.Classification, bool)
}

// Classifier is an immutable ordered rule table.
type Classifier struct {
	keywords Keywords
	words    arith.OperatorWords
	rules    []rule
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithKeywords replaces the keyword tables used by the non-arithmetic rules.
func WithKeywords(kw Keywords) Option {
	return func(c *Classifier) {
		c.keywords = kw
	}
}

// WithOperatorWords replaces the localized operator words used by the arithmetic rule.
func WithOperatorWords(w arith.OperatorWords) Option {
	return func(c *Classifier) {
		if w != nil {
			c.words = w
		}
	}
}

// New creates a Classifier backed by the embedded keyword tables unless overridden.
func New(opts ...Option) *Classifier {
	c := &Classifier{keywords: DefaultKeywords(), words: arith.DefaultWords}
	for _, opt := range opts {
		opt(c)
	}
	c.rules = c.buildRules()
	return c
}

var std = New()

// Classify classifies text with the default Classifier.
func Classify(text string) domain.Classification {
	return std.Classify(text)
}

// Priority returns the kinds in the order they are tried. Unrecognized is always last.
func Priority() []domain.Kind {
	return std.Priority()
}

// Classify returns the first matching classification, or domain.Unrecognized.
func (c *Classifier) Classify(text string) domain.Classification {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Unrecognized
	}
	tokens := tokenize(text)
	for _, r := range c.rules {
		if res, ok := r.match(text, tokens); ok {
			return res
		}
	}
	return domain.Unrecognized
}

// Priority returns the kinds in the order they are tried.
func (c *Classifier) Priority() []domain.Kind {
	kinds := make([]domain.Kind, 0, len(c.rules)+1)
	for _, r := range c.rules {
		kinds = append(kinds, r.kind)
	}
	return append(kinds, domain.KindUnrecognized)
}

func (c *Classifier) buildRules() []rule {
	kw := c.keywords
	return []rule{
		{kind: domain.KindArithmetic, match: arithmeticRule(c.words)},
		keywordRule(domain.KindGreeting, kw.Greeting),
		keywordRule(domain.KindIdentity, kw.Identity),
		keywordRule(domain.KindTimeQuery, kw.TimeQuery),
		keywordRule(domain.KindCapabilityProbe, kw.CapabilityProbe),
	}
}

func keywordRule(kind domain.Kind, entries []string) rule {
	phrases := compile(entries)
	return rule{
		kind: kind,
		match: func(_ string, tokens []string) (domain.Classification, bool) {
			if matchAny(tokens, phrases) {
				return domain.Classification{Kind: kind}, true
			}
			return domain.Classification{}, false
		},
	}
}

func arithmeticRule(words arith.OperatorWords) func(string, []string) (domain.Classification, bool) {
	return func(text string, _ []string) (domain.Classification, bool) {
		if !arith.HasDigit(text) || !words.HasOperator(text) {
			return domain.Classification{}, false
		}
		expr := words.Normalize(text)
		parsed, err := arith.Parse(expr)
		if err != nil || parsed.Operands() < 2 {
			return domain.Classification{}, false
		}
		return domain.Classification{Kind: domain.KindArithmetic, Expression: expr}, true
	}
}

// dotless folds 'ı' into 'i' so "HI" (Turkish-lowered to "hı") still matches "hi".
var dotless = strings.NewReplacer("ı", "i")

// tokenize lower-cases text with Turkish rules and splits it on anything that is not a letter or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(dotless.Replace(lower.String(text)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
