package observability

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/selim/internal/logging"
	"github.com/aretw0/selim/pkg/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m := NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnTurnEnd(ctx, &domain.TurnEvent{
		Outcome:  &domain.TurnOutcome{ReplyText: "ok", Source: domain.SourceLocal},
		Duration: 600 * time.Millisecond,
	})
	hooks.OnTurnEnd(ctx, &domain.TurnEvent{
		Outcome: &domain.TurnOutcome{ReplyText: "özür", IsError: true, Source: domain.SourceDegraded},
	})
	hooks.OnTurnEnd(ctx, &domain.TurnEvent{})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.turns.WithLabelValues("local", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.turns.WithLabelValues("degraded", "true")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.turnDuration))

	hooks.OnSessionCreate(ctx, &domain.SessionEvent{SessionID: "a"})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.liveSession))
	hooks.OnSessionReset(ctx, &domain.SessionEvent{SessionID: "a"})
	assert.Equal(t, 0.0, testutil.ToFloat64(m.liveSession))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessions.WithLabelValues("session_reset")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.Hooks().OnSessionCreate(context.Background(), &domain.SessionEvent{})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "selim_remote_session_live 1")
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := LogHooks(logging.NewWithWriter(&buf, slog.LevelDebug))

	hooks.OnTurnStart(context.Background(), &domain.TurnEvent{Remote: true})
	hooks.OnSessionReset(context.Background(), &domain.SessionEvent{SessionID: "abc", Epoch: 2})

	assert.Contains(t, buf.String(), "turn_start")
	assert.Contains(t, buf.String(), "session_id=abc")
}
