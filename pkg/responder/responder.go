// Package responder composes the offline reply for a line of user text.
package responder

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/aretw0/selim/pkg/arith"
	"github.com/aretw0/selim/pkg/domain"
	"github.com/aretw0/selim/pkg/intent"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Reply templates. ArithmeticFormat and TimeFormat take one %s verb.
const (
	ArithmeticFormat = "Hesapladım dostum! 🧮 Sonuç: %s 🚀"
	GreetingReply    = "Selam dostum! 👋 Ben Selim AI. Yerel modda çalışıyorum ama matematik sorularını çözebilir, seninle sohbet edebilirim. 😎"
	IdentityReply    = "Ben Selim AI! 😎 Matematik ve Türkçe konusunda yardım etmek için buradayım. Şu an internete bağlı değilim, yerel zekamla iş görüyorum. 💪"
	TimeFormat       = "Şu an saat %s dostum. ⏰"
	CapabilityReply  = "Evet, ben bir yapay zekayım! 🤖 Şu an demo modundayım, internet olmadan basit matematik ve sohbetle sana eşlik ediyorum. ✨"
	FallbackReply    = "Bunu tam anlayamadım dostum. 🤔 Demo modunda olduğum için şimdilik matematik işlemleri (örneğin \"10 kere 2\") ve basit sohbetle sınırlıyım. Bir API anahtarı eklenirse her konuda yardımcı olabilirim! 🚀"
)

// DefaultLocale is used for number formatting when none is configured.
var DefaultLocale = language.Turkish

// Responder produces local replies. It is safe for concurrent use.
type Responder struct {
	classifier *intent.Classifier
	printer    *message.Printer
	clock      func() time.Time
}

// Option configures a Responder.
type Option func(*Responder)

// WithClassifier sets the classifier used to pick a reply category.
func WithClassifier(c *intent.Classifier) Option {
	return func(r *Responder) {
		r.classifier = c
	}
}

// WithLocale sets the locale used to format arithmetic results.
func WithLocale(tag language.Tag) Option {
	return func(r *Responder) {
		r.printer = message.NewPrinter(tag)
	}
}

// WithClock overrides the wall clock read by time queries.
func WithClock(clock func() time.Time) Option {
	return func(r *Responder) {
		r.clock = clock
	}
}

// New creates a Responder.
func New(opts ...Option) *Responder {
	r := &Responder{
		classifier: intent.New(),
		printer:    message.NewPrinter(DefaultLocale),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Respond returns a non-empty reply for any input.
func (r *Responder) Respond(text string) string {
	c := r.classifier.Classify(text)
	switch c.Kind {
	case domain.KindArithmetic:
		v, err := arith.Evaluate(c.Expression)
		if err != nil {
			return FallbackReply
		}
		return fmt.Sprintf(ArithmeticFormat, r.FormatNumber(v))
	case domain.KindGreeting:
		return GreetingReply
	case domain.KindIdentity:
		return IdentityReply
	case domain.KindTimeQuery:
		return fmt.Sprintf(TimeFormat, r.clock().Format("15:04"))
	case domain.KindCapabilityProbe:
		return CapabilityReply
	default:
		return FallbackReply
	}
}

// FormatNumber renders v with the locale's decimal rules. Integral values have no fraction.
// A negative value that rounds to zero prints without its sign.
func (r *Responder) FormatNumber(v float64) string {
	out := r.printer.Sprint(number.Decimal(v))
	if v < 0 && roundsToZero(out) {
		return r.printer.Sprint(number.Decimal(0.0))
	}
	return out
}

func roundsToZero(formatted string) bool {
	return strings.IndexFunc(formatted, func(r rune) bool {
		return unicode.IsDigit(r) && r != '0'
	}) < 0
}
