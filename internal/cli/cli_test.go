package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/selim"
	"github.com/aretw0/selim/internal/config"
	"github.com/aretw0/selim/internal/logging"
	"github.com/aretw0/selim/pkg/adapters/memory"
	"github.com/aretw0/selim/pkg/adapters/redis"
	"github.com/aretw0/selim/pkg/chat"
	"github.com/aretw0/selim/pkg/responder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:    "info",
		Model:       "gemini-2.5-flash",
		Temperature: 0.7,
		DegradeMode: "apology",
		Locale:      "tr",
		Store: config.StoreConfig{
			Backend:  config.BackendMemory,
			RedisKey: "selim:transcript",
		},
		HTTP: config.HTTPConfig{
			Addr:           ":0",
			RateLimit:      100,
			RateBurst:      10,
			AllowedOrigins: []string{"*"},
		},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	app, err := NewApp(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestNewApp_MemoryStore(t *testing.T) {
	app := newTestApp(t, testConfig())

	assert.IsType(t, &memory.Store{}, app.Store)
	assert.False(t, app.Companion.Remote())
	assert.Equal(t, selim.DemoGreeting, app.Companion.Greeting())
}

func TestNewApp_CredentialEnablesRemote(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = "http://127.0.0.1:1/v1"

	app := newTestApp(t, cfg)
	assert.True(t, app.Companion.Remote())
	assert.Equal(t, selim.ConnectedGreeting, app.Companion.Greeting())
}

func TestNewApp_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Store.Backend = config.BackendRedis
	cfg.Store.RedisAddr = mr.Addr()

	app := newTestApp(t, cfg)
	require.IsType(t, &redis.Store{}, app.Store)

	conv, err := app.NewConversation(context.Background())
	require.NoError(t, err)
	_, _, err = conv.Send(context.Background(), "merhaba")
	require.NoError(t, err)
	assert.True(t, mr.Exists("selim:transcript"))

	// A second conversation resumes the stored transcript.
	resumed, err := app.NewConversation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, resumed.Transcript().Len())
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig()
	cfg.Store.Backend = config.BackendRedis
	cfg.Store.RedisAddr = addr

	_, err := NewApp(context.Background(), cfg, logging.NewNop())
	assert.ErrorContains(t, err, "redis store unreachable")
}

func TestCompanionOptions_KeywordsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte("greeting:\n  - hoşgeldin\n"), 0644))

	cfg := testConfig()
	cfg.KeywordsFile = path
	app := newTestApp(t, cfg)

	assert.Equal(t, responder.GreetingReply, app.Companion.RespondLocally("hoşgeldin"))
	assert.Equal(t, responder.FallbackReply, app.Companion.RespondLocally("merhaba"))

	cfg.KeywordsFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := NewApp(context.Background(), cfg, logging.NewNop())
	assert.ErrorContains(t, err, "error loading keywords")
}

func TestCompanionOptions_ExtendedOperators(t *testing.T) {
	app := newTestApp(t, testConfig())
	assert.Equal(t, responder.FallbackReply, app.Companion.RespondLocally("10 bölü 4"))

	cfg := testConfig()
	cfg.ExtendedOperators = true
	app = newTestApp(t, cfg)
	assert.Equal(t, "Hesapladım dostum! 🧮 Sonuç: 2,5 🚀", app.Companion.RespondLocally("10 bölü 4"))
}

func TestCompanionOptions_InvalidDegradeMode(t *testing.T) {
	cfg := testConfig()
	cfg.DegradeMode = "shrug"
	_, err := NewApp(context.Background(), cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestRunChat_Text(t *testing.T) {
	app := newTestApp(t, testConfig())

	var out bytes.Buffer
	err := RunChat(context.Background(), app, ChatOptions{
		In:  strings.NewReader("5 kere 4\nyanlız\n/temizle\n/çık\n"),
		Out: &out,
	})
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, selim.DemoGreeting)
	assert.Contains(t, got, "Sonuç: 20")
	assert.Contains(t, got, "Yazım önerisi")
	assert.Contains(t, got, chat.ClearedText)
	assert.Contains(t, got, "Görüşürüz")
}

func TestRunChat_JSON(t *testing.T) {
	app := newTestApp(t, testConfig())

	var out bytes.Buffer
	err := RunChat(context.Background(), app, ChatOptions{
		JSON: true,
		In:   strings.NewReader(`{"text":"5 kere 4"}` + "\n"),
		Out:  &out,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"type":"turn"`)
	assert.Contains(t, out.String(), "Sonuç: 20")
	assert.NotContains(t, out.String(), "Görüşürüz")
}

func TestAsk(t *testing.T) {
	app := newTestApp(t, testConfig())

	var out bytes.Buffer
	require.NoError(t, Ask(context.Background(), app, "10 / 4", &out))
	assert.Equal(t, "Hesapladım dostum! 🧮 Sonuç: 2,5 🚀\n", out.String())

	assert.Error(t, Ask(context.Background(), app, "   ", &out))
}

func TestAsk_DegradedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = srv.URL + "/v1"
	app := newTestApp(t, cfg)

	var out bytes.Buffer
	err := Ask(context.Background(), app, "merhaba", &out)
	assert.ErrorIs(t, err, ErrDegradedReply)
	assert.NotEmpty(t, out.String())
}

func TestNewHTTPHandler(t *testing.T) {
	app := newTestApp(t, testConfig())
	h, err := NewHTTPHandler(context.Background(), app)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/turns", strings.NewReader(`{"text":"merhaba"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `selim_turns_total{is_error="false",source="local"} 1`)
}

func TestServe_StopsOnCancel(t *testing.T) {
	app := newTestApp(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, Serve(ctx, app, "127.0.0.1:0"))
}

func TestServeMCP_UnknownTransport(t *testing.T) {
	app := newTestApp(t, testConfig())
	err := ServeMCP(context.Background(), app, "carrier-pigeon", 0)
	assert.ErrorContains(t, err, "unknown transport")
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, logger.Enabled(context.Background(), -4))

	logger, err = NewLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, logger.Enabled(context.Background(), -4))

	_, err = NewLogger("loud", false)
	assert.Error(t, err)
}

func TestNewApp_SealedRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Store.Backend = config.BackendRedis
	cfg.Store.RedisAddr = mr.Addr()
	cfg.Store.EncryptionKey = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
	cfg.Store.Redact = true

	app := newTestApp(t, cfg)
	conv, err := app.NewConversation(context.Background())
	require.NoError(t, err)
	_, _, err = conv.Send(context.Background(), "mailim ali@example.com")
	require.NoError(t, err)

	raw, err := mr.Get("selim:transcript")
	require.NoError(t, err)
	assert.Contains(t, raw, `"sealed"`)
	assert.NotContains(t, raw, "mailim")

	stored, err := app.Store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, stored.Len())
	assert.Equal(t, "mailim ***", stored.Turns[1].Text)
}
