package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/selim"
	"github.com/aretw0/selim/internal/logging"
	"github.com/aretw0/selim/pkg/domain"
	"github.com/aretw0/selim/pkg/runner"
	"github.com/aretw0/selim/pkg/typo"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TranscriptURI is the resource holding the current transcript.
const TranscriptURI = "selim://transcript"

// Conversation is the transcript owner the tools drive.
type Conversation interface {
	Send(ctx context.Context, text string) (user, reply domain.Turn, err error)
	Clear(ctx context.Context) (*domain.Transcript, error)
	Transcript() *domain.Transcript
}

// TurnResult is returned by send_message.
type TurnResult struct {
	User  domain.Turn `json:"user" jsonschema_description:"The turn the user sent"`
	Reply domain.Turn `json:"reply" jsonschema_description:"Selim's reply; is_error marks a degraded reply"`
}

// TranscriptResult is returned by get_transcript and clear_chat.
type TranscriptResult struct {
	Turns []domain.Turn `json:"turns" jsonschema_description:"The conversation in display order"`
}

// TypoResult is returned by check_typos.
type TypoResult struct {
	Found   bool   `json:"found" jsonschema_description:"Whether a known misspelling was found"`
	Wrong   string `json:"wrong,omitempty" jsonschema_description:"The misspelled word"`
	Correct string `json:"correct,omitempty" jsonschema_description:"The suggested spelling"`
	Fixed   string `json:"fixed" jsonschema_description:"The text with the suggestion applied"`
}

type textArgs struct {
	Text string `json:"text"`
}

type noArgs struct{}

// Server exposes a conversation as an MCP server.
type Server struct {
	conv      Conversation
	typos     *typo.Checker
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithTypoChecker replaces the built-in misspelling dictionary.
func WithTypoChecker(c *typo.Checker) Option {
	return func(s *Server) {
		if c != nil {
			s.typos = c
		}
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(conv Conversation, opts ...Option) *Server {
	s := &Server{
		conv:      conv,
		typos:     typo.Default(),
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("selim-mcp", selim.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on the given port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))
	allow := cors.AllowAll()

	mux := http.NewServeMux()
	mux.Handle("/sse", allow.Handler(sseServer.SSEHandler()))
	mux.Handle("/message", allow.Handler(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	sendTool := mcp.NewTool("send_message",
		mcp.WithDescription("Send a message to Selim and get the reply. Arithmetic, greetings and the time are answered locally when no credential is configured."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The message text")),
		mcp.WithOutputSchema[TurnResult](),
	)
	s.mcpServer.AddTool(sendTool, mcp.NewStructuredToolHandler(s.handleSend))

	clearTool := mcp.NewTool("clear_chat",
		mcp.WithDescription("Reset the remote session and clear the transcript."),
		mcp.WithOutputSchema[TranscriptResult](),
	)
	s.mcpServer.AddTool(clearTool, mcp.NewStructuredToolHandler(s.handleClear))

	transcriptTool := mcp.NewTool("get_transcript",
		mcp.WithDescription("Get the conversation so far."),
		mcp.WithOutputSchema[TranscriptResult](),
	)
	s.mcpServer.AddTool(transcriptTool, mcp.NewStructuredToolHandler(s.handleTranscript))

	typoTool := mcp.NewTool("check_typos",
		mcp.WithDescription("Find a common Turkish misspelling in the text and suggest a fix."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The text to check")),
		mcp.WithOutputSchema[TypoResult](),
	)
	s.mcpServer.AddTool(typoTool, mcp.NewStructuredToolHandler(s.handleTypos))
}

func (s *Server) handleSend(ctx context.Context, request mcp.CallToolRequest, args textArgs) (TurnResult, error) {
	clean, err := runner.SanitizeMessage(args.Text)
	if err != nil {
		s.logger.Warn("MCP send_message: input rejected", "err", err, "size", len(args.Text))
		return TurnResult{}, fmt.Errorf("input rejected: %w", err)
	}

	user, reply, err := s.conv.Send(ctx, clean)
	if err != nil {
		return TurnResult{}, fmt.Errorf("send failed: %w", err)
	}
	return TurnResult{User: user, Reply: reply}, nil
}

func (s *Server) handleClear(ctx context.Context, request mcp.CallToolRequest, _ noArgs) (TranscriptResult, error) {
	t, err := s.conv.Clear(ctx)
	if err != nil {
		return TranscriptResult{}, fmt.Errorf("clear failed: %w", err)
	}
	return TranscriptResult{Turns: t.Turns}, nil
}

func (s *Server) handleTranscript(ctx context.Context, request mcp.CallToolRequest, _ noArgs) (TranscriptResult, error) {
	return TranscriptResult{Turns: s.conv.Transcript().Turns}, nil
}

func (s *Server) handleTypos(ctx context.Context, request mcp.CallToolRequest, args textArgs) (TypoResult, error) {
	res := TypoResult{Fixed: args.Text}
	if sug, ok := s.typos.Suggest(args.Text); ok {
		res.Found = true
		res.Wrong = sug.Wrong
		res.Correct = sug.Correct
		res.Fixed = s.typos.Fix(args.Text, sug)
	}
	return res, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(TranscriptURI, "Current Transcript",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.conv.Transcript())
		if err != nil {
			return nil, fmt.Errorf("failed to encode transcript: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      TranscriptURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
