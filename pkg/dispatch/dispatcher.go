package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/aretw0/selim/internal/logging"
	"github.com/aretw0/selim/pkg/domain"
	"github.com/aretw0/selim/pkg/session"
)

// Default bounds of the cosmetic delay before a local reply.
const (
	DefaultLocalDelayMin = 500 * time.Millisecond
	DefaultLocalDelayMax = 800 * time.Millisecond
)

// LocalResponder produces a reply without network access.
type LocalResponder interface {
	Respond(text string) string
}

// Dispatcher is stateless apart from its collaborators and safe for concurrent use.
type Dispatcher struct {
	sessions *session.Manager
	local    LocalResponder
	degrade  DegradeMode

	delayMin time.Duration
	delayMax time.Duration

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithDegradeMode sets the remote failure policy.
func WithDegradeMode(mode DegradeMode) Option {
	return func(d *Dispatcher) {
		d.degrade = mode
	}
}

// WithLocalDelay sets the bounds of the delay before a local reply. Zero disables it.
func WithLocalDelay(lo, hi time.Duration) Option {
	return func(d *Dispatcher) {
		if hi < lo {
			hi = lo
		}
		d.delayMin, d.delayMax = lo, hi
	}
}

// WithLifecycleHooks registers turn lifecycle callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Dispatcher) {
		d.hooks = hooks
	}
}

// WithLogger configures a logger for the Dispatcher.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// New creates a Dispatcher. Remote dispatch is used iff sessions has a credential.
func New(sessions *session.Manager, local LocalResponder, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sessions: sessions,
		local:    local,
		degrade:  DegradeApology,
		delayMin: DefaultLocalDelayMin,
		delayMax: DefaultLocalDelayMax,
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// HandleTurn produces the reply for one user turn. It never panics.
func (d *Dispatcher) HandleTurn(ctx context.Context, text string) (out domain.TurnOutcome) {
	start := d.now()
	remote := d.sessions != nil && d.sessions.Remote()
	d.emit(ctx, d.hooks.OnTurnStart, &domain.TurnEvent{
		EventBase: domain.EventBase{Timestamp: start, Type: domain.EventTurnStart},
		Remote:    remote,
	})

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("turn failed", "panic", fmt.Sprint(r))
			out = domain.TurnOutcome{ReplyText: FailureApology, IsError: true, Source: domain.SourceDegraded}
		}
		end := d.now()
		d.emit(ctx, d.hooks.OnTurnEnd, &domain.TurnEvent{
			EventBase: domain.EventBase{Timestamp: end, Type: domain.EventTurnEnd},
			Remote:    remote,
			Outcome:   &out,
			Duration:  end.Sub(start),
		})
	}()

	if !remote {
		return d.handleLocal(ctx, text)
	}
	return d.handleRemote(ctx, text)
}

func (d *Dispatcher) handleLocal(ctx context.Context, text string) domain.TurnOutcome {
	d.wait(ctx)
	return domain.TurnOutcome{ReplyText: d.local.Respond(text), Source: domain.SourceLocal}
}

func (d *Dispatcher) handleRemote(ctx context.Context, text string) domain.TurnOutcome {
	h := d.sessions.GetSession(ctx)
	reply, err := d.sessions.Send(ctx, h, text)
	if err == nil {
		return domain.TurnOutcome{ReplyText: reply, Source: domain.SourceRemote}
	}

	d.logger.Warn("remote turn failed", "session_id", h.ID(), "mode", string(d.degrade), "error", err)
	if d.degrade == DegradeLocal {
		return domain.TurnOutcome{ReplyText: d.local.Respond(text), IsError: true, Source: domain.SourceDegraded}
	}
	apology := RemoteApology
	if errors.Is(err, domain.ErrEmptyReply) {
		apology = EmptyReplyApology
	}
	return domain.TurnOutcome{ReplyText: apology, IsError: true, Source: domain.SourceDegraded}
}

// wait sleeps for a uniformly drawn delay, returning early if ctx is done.
func (d *Dispatcher) wait(ctx context.Context) {
	delay := d.delayMin
	if span := d.delayMax - d.delayMin; span > 0 {
		delay += time.Duration(rand.Int64N(int64(span) + 1))
	}
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// emit runs a hook, containing any panic it raises.
func (d *Dispatcher) emit(ctx context.Context, hook func(context.Context, *domain.TurnEvent), e *domain.TurnEvent) {
	if hook == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("turn hook failed", "type", string(e.Type), "panic", fmt.Sprint(r))
		}
	}()
	hook(ctx, e)
}
