package selim

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/selim/internal/logging"
	"github.com/aretw0/selim/pkg/adapters/openai"
	"github.com/aretw0/selim/pkg/arith"
	"github.com/aretw0/selim/pkg/dispatch"
	"github.com/aretw0/selim/pkg/domain"
	"github.com/aretw0/selim/pkg/intent"
	"github.com/aretw0/selim/pkg/ports"
	"github.com/aretw0/selim/pkg/responder"
	"github.com/aretw0/selim/pkg/session"
	"golang.org/x/text/language"
)

// Welcome texts shown as the first turn of a fresh transcript.
const (
	DemoGreeting      = "Selam! Ben Selim AI. 😎\nŞu an **Ücretsiz Demo Modu**ndayım. Matematik sorularını çözebilirim ve seninle sohbet edebilirim. API anahtarı olmadığı için internete bağlanamıyorum ama yerel zekamla buradayım! 💪"
	ConnectedGreeting = "Merhaba dostum! Ben Selim AI. 😎\nMatematik sorularını çözebilir, yazdığın cümleleri düzeltebilir ve aklına gelen her konuda sohbet edebilirim. 🚀"
	ClearedGreeting   = "Sohbet temizlendi. Tertemiz bir sayfa! 🚀"
)

// Companion is the high-level entry point: it wires the classifier, the local responder,
// the session manager and the dispatcher.
type Companion struct {
	manager    *session.Manager
	dispatcher *dispatch.Dispatcher
	responder  *responder.Responder

	assistant  ports.Assistant
	credential string
	baseURL    string

	sessionConfig domain.SessionConfig
	keywords      *intent.Keywords
	operatorWords arith.OperatorWords
	locale        language.Tag
	clock         func() time.Time
	degrade       dispatch.DegradeMode
	delayMin      time.Duration
	delayMax      time.Duration
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
}

// Option defines a functional option for configuring the Companion.
type Option func(*Companion)

// WithAssistant injects the remote assistant. It takes precedence over WithCredential.
func WithAssistant(a ports.Assistant) Option {
	return func(c *Companion) {
		c.assistant = a
	}
}

// WithCredential sets the API key of the default OpenAI-compatible assistant.
// An empty key leaves the companion in local mode.
func WithCredential(apiKey string) Option {
	return func(c *Companion) {
		c.credential = apiKey
	}
}

// WithRemoteBaseURL overrides the endpoint of the default assistant.
func WithRemoteBaseURL(url string) Option {
	return func(c *Companion) {
		c.baseURL = url
	}
}

// WithSessionConfig overrides model, system instruction, temperature and timeout.
func WithSessionConfig(cfg domain.SessionConfig) Option {
	return func(c *Companion) {
		c.sessionConfig = cfg
	}
}

// WithKeywords replaces the classifier keyword tables.
func WithKeywords(kw intent.Keywords) Option {
	return func(c *Companion) {
		c.keywords = &kw
	}
}

// WithOperatorWords replaces the localized arithmetic operator words, e.g. arith.ExtendedWords.
func WithOperatorWords(w arith.OperatorWords) Option {
	return func(c *Companion) {
		c.operatorWords = w
	}
}

// WithLocale sets the locale used for numbers in local replies.
func WithLocale(tag language.Tag) Option {
	return func(c *Companion) {
		c.locale = tag
	}
}

// WithClock overrides the wall clock used for time queries.
func WithClock(clock func() time.Time) Option {
	return func(c *Companion) {
		c.clock = clock
	}
}

// WithDegradeMode sets the reply policy for remote failures.
func WithDegradeMode(mode dispatch.DegradeMode) Option {
	return func(c *Companion) {
		c.degrade = mode
	}
}

// WithLocalDelay sets the bounds of the cosmetic delay before a local reply.
func WithLocalDelay(lo, hi time.Duration) Option {
	return func(c *Companion) {
		c.delayMin, c.delayMax = lo, hi
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Companion) {
		c.hooks = c.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Companion) {
		c.logger = logger
	}
}

// New initializes a Companion. Credential presence is decided here, once.
func New(opts ...Option) (*Companion, error) {
	c := &Companion{
		sessionConfig: session.DefaultConfig(),
		locale:        responder.DefaultLocale,
		clock:         time.Now,
		degrade:       dispatch.DegradeApology,
		delayMin:      dispatch.DefaultLocalDelayMin,
		delayMax:      dispatch.DefaultLocalDelayMax,
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.assistant == nil && c.credential != "" {
		var clientOpts []openai.Option
		if c.baseURL != "" {
			clientOpts = append(clientOpts, openai.WithBaseURL(c.baseURL))
		}
		c.assistant = openai.New(c.credential, clientOpts...)
	}

	var classifierOpts []intent.Option
	if c.keywords != nil {
		classifierOpts = append(classifierOpts, intent.WithKeywords(*c.keywords))
	}
	if c.operatorWords != nil {
		classifierOpts = append(classifierOpts, intent.WithOperatorWords(c.operatorWords))
	}
	c.responder = responder.New(
		responder.WithClassifier(intent.New(classifierOpts...)),
		responder.WithLocale(c.locale),
		responder.WithClock(c.clock),
	)

	c.manager = session.NewManager(c.assistant,
		session.WithConfig(c.sessionConfig),
		session.WithLifecycleHooks(c.hooks),
		session.WithLogger(c.logger),
	)
	c.dispatcher = dispatch.New(c.manager, c.responder,
		dispatch.WithDegradeMode(c.degrade),
		dispatch.WithLocalDelay(c.delayMin, c.delayMax),
		dispatch.WithLifecycleHooks(c.hooks),
		dispatch.WithLogger(c.logger),
	)

	c.logger.Debug("companion ready", "remote", c.Remote(), "model", c.sessionConfig.Model, "degrade", string(c.degrade))
	return c, nil
}

// HandleTurn dispatches one user turn. It never fails; errors surface as IsError outcomes.
func (c *Companion) HandleTurn(ctx context.Context, text string) domain.TurnOutcome {
	return c.dispatcher.HandleTurn(ctx, text)
}

// Reset discards the remote conversation context. Call it before clearing a transcript.
func (c *Companion) Reset(ctx context.Context) {
	c.manager.Reset(ctx)
}

// Remote reports whether turns go to the remote assistant.
func (c *Companion) Remote() bool {
	return c.manager.Remote()
}

// Greeting returns the welcome text matching the current mode.
func (c *Companion) Greeting() string {
	if c.Remote() {
		return ConnectedGreeting
	}
	return DemoGreeting
}

// RespondLocally returns the offline reply for text without any delay or remote call.
func (c *Companion) RespondLocally(text string) string {
	return c.responder.Respond(text)
}

// Sessions exposes the session manager.
func (c *Companion) Sessions() *session.Manager {
	return c.manager
}
