package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/selim/pkg/adapters/memory"
	"github.com/aretw0/selim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompanion records calls in order.
type fakeCompanion struct {
	mu      sync.Mutex
	calls   []string
	reply   domain.TurnOutcome
	release chan struct{}
}

func (f *fakeCompanion) HandleTurn(ctx context.Context, text string) domain.TurnOutcome {
	f.mu.Lock()
	f.calls = append(f.calls, "turn:"+text)
	release := f.release
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	return f.reply
}

func (f *fakeCompanion) Reset(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "reset")
}

func (f *fakeCompanion) Greeting() string { return "hoş geldin" }

func (f *fakeCompanion) log() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type failingStore struct{ memory.Store }

func (*failingStore) Load(context.Context) (*domain.Transcript, error) {
	return nil, errors.New("disk on fire")
}

func TestConversation_New(t *testing.T) {
	conv, err := New(context.Background(), &fakeCompanion{})
	require.NoError(t, err)

	tr := conv.Transcript()
	require.Equal(t, 1, tr.Len())
	assert.Equal(t, domain.RoleAssistant, tr.Turns[0].Role)
	assert.Equal(t, "hoş geldin", tr.Turns[0].Text)
	assert.False(t, conv.Loading())
}

func TestConversation_New_Resumes(t *testing.T) {
	store := memory.NewStore()
	saved := domain.NewTranscript("eski")
	saved.Append(domain.NewTurn(domain.RoleUser, "selam"))
	require.NoError(t, store.Save(context.Background(), saved))

	conv, err := New(context.Background(), &fakeCompanion{}, WithStore(store))
	require.NoError(t, err)
	assert.Equal(t, 2, conv.Transcript().Len())
}

func TestConversation_New_StoreError(t *testing.T) {
	_, err := New(context.Background(), &fakeCompanion{}, WithStore(&failingStore{}))
	assert.Error(t, err)
}

func TestConversation_Send(t *testing.T) {
	store := memory.NewStore()
	fc := &fakeCompanion{reply: domain.TurnOutcome{ReplyText: "özür", IsError: true}}
	conv, err := New(context.Background(), fc, WithStore(store))
	require.NoError(t, err)

	user, reply, err := conv.Send(context.Background(), "merhaba")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, "merhaba", user.Text)
	assert.Equal(t, "özür", reply.Text)
	assert.True(t, reply.IsError)
	assert.NotEqual(t, user.ID, reply.ID)

	tr := conv.Transcript()
	require.Equal(t, 3, tr.Len())
	assert.Equal(t, user.ID, tr.Turns[1].ID)
	assert.Equal(t, reply.ID, tr.Turns[2].ID)

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Len())
}

func TestConversation_TrySend_Busy(t *testing.T) {
	fc := &fakeCompanion{reply: domain.TurnOutcome{ReplyText: "ok"}, release: make(chan struct{})}
	conv, err := New(context.Background(), fc)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, _ = conv.Send(context.Background(), "yavaş")
	}()

	require.Eventually(t, conv.Loading, time.Second, 5*time.Millisecond)

	_, _, err = conv.TrySend(context.Background(), "hızlı")
	assert.ErrorIs(t, err, domain.ErrBusy)

	close(fc.release)
	<-done
	assert.False(t, conv.Loading())
	assert.Equal(t, 3, conv.Transcript().Len())
}

func TestConversation_Send_ContextCancelledWhileWaiting(t *testing.T) {
	fc := &fakeCompanion{release: make(chan struct{})}
	conv, err := New(context.Background(), fc)
	require.NoError(t, err)

	go func() { _, _, _ = conv.Send(context.Background(), "ilk") }()
	require.Eventually(t, conv.Loading, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err = conv.Send(ctx, "ikinci")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(fc.release)
}

func TestConversation_Clear(t *testing.T) {
	fc := &fakeCompanion{reply: domain.TurnOutcome{ReplyText: "ok"}}
	conv, err := New(context.Background(), fc)
	require.NoError(t, err)

	_, _, err = conv.Send(context.Background(), "bir")
	require.NoError(t, err)

	tr, err := conv.Clear(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, tr.Len())
	assert.Equal(t, ClearedText, tr.Turns[0].Text)
	assert.Equal(t, domain.RoleAssistant, tr.Turns[0].Role)
	assert.Equal(t, []string{"turn:bir", "reset"}, fc.log())
	assert.Equal(t, 1, conv.Transcript().Len())
}

func TestConversation_Subscribe(t *testing.T) {
	conv, err := New(context.Background(), &fakeCompanion{reply: domain.TurnOutcome{ReplyText: "ok"}})
	require.NoError(t, err)

	events, cancel := conv.Subscribe()
	assert.Equal(t, 1, conv.Subscribers())

	_, _, err = conv.Send(context.Background(), "selam")
	require.NoError(t, err)
	_, err = conv.Clear(context.Background())
	require.NoError(t, err)

	e := <-events
	assert.Equal(t, EventAppend, e.Type)
	assert.True(t, e.Loading)
	assert.Equal(t, "selam", e.Turns[0].Text)

	e = <-events
	assert.Equal(t, EventAppend, e.Type)
	assert.False(t, e.Loading)

	e = <-events
	assert.Equal(t, EventReset, e.Type)
	assert.Equal(t, ClearedText, e.Turns[0].Text)

	cancel()
	cancel()
	assert.Equal(t, 0, conv.Subscribers())
	_, ok := <-events
	assert.False(t, ok)
}
