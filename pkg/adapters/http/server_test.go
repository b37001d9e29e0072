package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/selim"
	"github.com/aretw0/selim/pkg/chat"
	"github.com/aretw0/selim/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, opts ...Option) (http.Handler, *chat.Conversation) {
	t.Helper()
	comp, err := selim.New(selim.WithLocalDelay(0, 0))
	require.NoError(t, err)
	conv, err := chat.New(context.Background(), comp)
	require.NoError(t, err)
	h, err := NewHandler(comp, conv, opts...)
	require.NoError(t, err)
	return h, conv
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthAndInfo(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "selim-http", info["app"])
	assert.Equal(t, selim.Version, info["version"])
	assert.Equal(t, "1.0.0", info["api_version"])
	assert.Equal(t, false, info["remote"])
}

func TestOpenAPIDocument(t *testing.T) {
	h, _ := newTestHandler(t)
	w := do(t, h, "GET", "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestGetTranscript_Greeting(t *testing.T) {
	h, _ := newTestHandler(t)
	w := do(t, h, "GET", "/transcript", "")
	require.Equal(t, http.StatusOK, w.Code)

	var view transcriptView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Turns, 1)
	assert.Equal(t, selim.DemoGreeting, view.Turns[0].Text)
	assert.False(t, view.Loading)
	assert.False(t, view.Remote)
}

func TestSendTurn(t *testing.T) {
	h, conv := newTestHandler(t)
	w := do(t, h, "POST", "/turns", `{"text":"5 kere 4"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp turnResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "5 kere 4", resp.User.Text)
	assert.Equal(t, "Hesapladım dostum! 🧮 Sonuç: 20 🚀", resp.Reply.Text)
	assert.False(t, resp.Reply.IsError)
	assert.Equal(t, 3, conv.Transcript().Len())
}

func TestSendTurn_Rejected(t *testing.T) {
	h, conv := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing text", `{}`},
		{"empty text", `{"text":""}`},
		{"unknown field", `{"text":"merhaba","extra":1}`},
		{"not json", `merhaba`},
		{"blank text", `{"text":"   "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/turns", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
	assert.Equal(t, 1, conv.Transcript().Len())
}

func TestSendTurn_RateLimited(t *testing.T) {
	h, _ := newTestHandler(t, WithRateLimit(0.001, 1))

	w := do(t, h, "POST", "/turns", `{"text":"merhaba"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, "POST", "/turns", `{"text":"merhaba"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestClearTranscript(t *testing.T) {
	h, conv := newTestHandler(t)
	do(t, h, "POST", "/turns", `{"text":"merhaba"}`)
	require.Equal(t, 3, conv.Transcript().Len())

	w := do(t, h, "DELETE", "/transcript", "")
	require.Equal(t, http.StatusOK, w.Code)

	var view transcriptView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Turns, 1)
	assert.Equal(t, chat.ClearedText, view.Turns[0].Text)
}

func TestCheckTypos(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(t, h, "POST", "/typos", `{"text":"yanlız geldim"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp typoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Found)
	assert.Equal(t, "yanlız", resp.Wrong)
	assert.Equal(t, "yalnız", resp.Correct)
	assert.Equal(t, "yalnız geldim", resp.Fixed)

	w = do(t, h, "POST", "/typos", `{"text":"her şey yolunda"}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp = typoResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Found)
	assert.Equal(t, "her şey yolunda", resp.Fixed)
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := observability.NewMetrics()
	comp, err := selim.New(selim.WithLocalDelay(0, 0), selim.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)
	conv, err := chat.New(context.Background(), comp)
	require.NoError(t, err)
	h, err := NewHandler(comp, conv, WithMetricsHandler(metrics.Handler()))
	require.NoError(t, err)

	do(t, h, "POST", "/turns", `{"text":"merhaba"}`)

	w := do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "selim_turns_total")
}

func TestCORS(t *testing.T) {
	h, _ := newTestHandler(t, WithAllowedOrigins([]string{"http://localhost:5173"}))

	req := httptest.NewRequest("OPTIONS", "/turns", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubscribeEvents(t *testing.T) {
	h, _ := newTestHandler(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewReader(resp.Body)
	readEvent := func() string {
		var name string
		for {
			line, err := lines.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimSpace(line)
			if line == "" && name != "" {
				return name
			}
			if after, ok := strings.CutPrefix(line, "event: "); ok {
				name = after
			}
		}
	}
	assert.Equal(t, "ping", readEvent())

	post, err := http.Post(srv.URL+"/turns", "application/json", strings.NewReader(`{"text":"merhaba"}`))
	require.NoError(t, err)
	post.Body.Close()
	require.Equal(t, http.StatusOK, post.StatusCode)

	assert.Equal(t, "append", readEvent())
	assert.Equal(t, "append", readEvent())
}
