package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/selim"
	"github.com/aretw0/selim/pkg/chat"
	"github.com/aretw0/selim/pkg/responder"
	"github.com/aretw0/selim/pkg/runner"
	"github.com/aretw0/selim/pkg/typo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConversation(t *testing.T) *chat.Conversation {
	t.Helper()
	c, err := selim.New(selim.WithLocalDelay(0, 0))
	require.NoError(t, err)
	conv, err := chat.New(context.Background(), c)
	require.NoError(t, err)
	return conv
}

func TestRunner_TextChat(t *testing.T) {
	conv := newConversation(t)
	in := strings.NewReader("merhaba\n\n10 kere 2\nherkez nerede\n/temizle\nexit\nnever read\n")
	var out bytes.Buffer

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(in, &out)),
		runner.WithTypoChecker(typo.Default()),
	)
	require.NoError(t, r.Run(context.Background(), conv))

	got := out.String()
	assert.Contains(t, got, "Selim: "+selim.DemoGreeting[:10])
	assert.Contains(t, got, responder.GreetingReply)
	assert.Contains(t, got, "Sonuç: 20")
	assert.Contains(t, got, `Yazım önerisi: "herkez" yerine "herkes"`)
	assert.Contains(t, got, chat.ClearedText)
	assert.Contains(t, got, "Selim yazıyor...")

	tr := conv.Transcript()
	require.Equal(t, 1, tr.Len())
	assert.Equal(t, chat.ClearedText, tr.Turns[0].Text)
}

func TestRunner_EOFEndsCleanly(t *testing.T) {
	conv := newConversation(t)
	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("selam"), &out)),
		runner.WithQuiet(true),
	)

	require.NoError(t, r.Run(context.Background(), conv))
	assert.NotContains(t, out.String(), selim.DemoGreeting)
	assert.Equal(t, 3, conv.Transcript().Len())
}

func TestRunner_ContextCancelled(t *testing.T) {
	conv := newConversation(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(""), &bytes.Buffer{})))
	err := r.Run(ctx, conv)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_RejectsOversizedInput(t *testing.T) {
	t.Setenv(runner.EnvMaxInputSize, "8")
	conv := newConversation(t)
	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("çok uzun bir mesaj\nquit\n"), &out)),
		runner.WithQuiet(true),
	)

	require.NoError(t, r.Run(context.Background(), conv))
	assert.Contains(t, out.String(), "[Sistem] Mesaj reddedildi")
	assert.Equal(t, 1, conv.Transcript().Len())
}

func TestRunner_JSONChat(t *testing.T) {
	conv := newConversation(t)
	in := strings.NewReader(`{"text": "merhaba"}` + "\n" + `"kimsin"` + "\n" + "quit\n")
	var out bytes.Buffer

	r := runner.NewRunner(runner.WithInputHandler(runner.NewJSONHandler(in, &out)), runner.WithQuiet(true))
	require.NoError(t, r.Run(context.Background(), conv))

	var replies []string
	dec := json.NewDecoder(&out)
	for dec.More() {
		var msg runner.Message
		require.NoError(t, dec.Decode(&msg))
		if msg.Type == runner.MessageTurn {
			replies = append(replies, msg.Turn.Text)
		}
	}
	assert.Equal(t, []string{responder.GreetingReply, responder.IdentityReply}, replies)
}

func TestCommands(t *testing.T) {
	assert.True(t, runner.IsClearCommand(" /TEMIZLE "))
	assert.True(t, runner.IsClearCommand("/clear"))
	assert.False(t, runner.IsClearCommand("temizle"))
	assert.True(t, runner.IsExitCommand("Quit"))
	assert.True(t, runner.IsExitCommand("/çık"))
	assert.False(t, runner.IsExitCommand("çıkış yap"))
}
