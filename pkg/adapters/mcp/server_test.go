package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/selim"
	"github.com/aretw0/selim/pkg/chat"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *chat.Conversation) {
	t.Helper()
	comp, err := selim.New(selim.WithLocalDelay(0, 0))
	require.NoError(t, err)
	conv, err := chat.New(context.Background(), comp)
	require.NoError(t, err)
	return NewServer(conv), conv
}

// call sends one JSON-RPC message and returns the encoded response.
func call(t *testing.T, s *Server, msg string) string {
	t.Helper()
	resp := s.mcpServer.HandleMessage(context.Background(), json.RawMessage(msg))
	require.NotNil(t, resp)
	out, err := json.Marshal(resp)
	require.NoError(t, err)
	return string(out)
}

func initialize(t *testing.T, s *Server) {
	t.Helper()
	call(t, s, `{"jsonrpc":"2.0","id":0,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`)
}

func TestListTools(t *testing.T) {
	s, _ := newTestServer(t)
	initialize(t, s)

	out := call(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	for _, name := range []string{"send_message", "clear_chat", "get_transcript", "check_typos"} {
		assert.Contains(t, out, `"`+name+`"`)
	}
}

func TestSendMessageTool(t *testing.T) {
	s, conv := newTestServer(t)
	initialize(t, s)

	out := call(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"send_message","arguments":{"text":"5 kere 4"}}}`)
	assert.Contains(t, out, "Sonuç: 20")
	assert.Equal(t, 3, conv.Transcript().Len())
}

func TestHandleSend(t *testing.T) {
	s, _ := newTestServer(t)

	res, err := s.handleSend(context.Background(), mcp.CallToolRequest{}, textArgs{Text: "  merhaba  "})
	require.NoError(t, err)
	assert.Equal(t, "merhaba", res.User.Text)
	assert.NotEmpty(t, res.Reply.Text)
	assert.False(t, res.Reply.IsError)

	_, err = s.handleSend(context.Background(), mcp.CallToolRequest{}, textArgs{Text: "   "})
	assert.Error(t, err)
}

func TestHandleClearAndTranscript(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleSend(ctx, mcp.CallToolRequest{}, textArgs{Text: "merhaba"})
	require.NoError(t, err)

	got, err := s.handleTranscript(ctx, mcp.CallToolRequest{}, noArgs{})
	require.NoError(t, err)
	assert.Len(t, got.Turns, 3)

	cleared, err := s.handleClear(ctx, mcp.CallToolRequest{}, noArgs{})
	require.NoError(t, err)
	require.Len(t, cleared.Turns, 1)
	assert.Equal(t, chat.ClearedText, cleared.Turns[0].Text)
}

func TestHandleTypos(t *testing.T) {
	s, _ := newTestServer(t)

	res, err := s.handleTypos(context.Background(), mcp.CallToolRequest{}, textArgs{Text: "Yanlız kaldım"})
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "yalnız", res.Correct)
	assert.Equal(t, "yalnız kaldım", res.Fixed)

	res, err = s.handleTypos(context.Background(), mcp.CallToolRequest{}, textArgs{Text: "merhaba"})
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, "merhaba", res.Fixed)
}

func TestTranscriptResource(t *testing.T) {
	s, _ := newTestServer(t)
	initialize(t, s)

	out := call(t, s, `{"jsonrpc":"2.0","id":3,"method":"resources/read","params":{"uri":"selim://transcript"}}`)
	assert.Contains(t, out, TranscriptURI)
	assert.Contains(t, out, "application/json")
}
