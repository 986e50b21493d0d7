// Package mcp exposes the triage assistant as Model Context Protocol tools,
// so an AI agent can drive a triage session on a user's behalf.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/triage"
	"github.com/aretw0/triage/internal/logging"
	"github.com/aretw0/triage/pkg/domain"
	"github.com/aretw0/triage/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TreeURI is the resource under which the tree is published.
const TreeURI = "triage://tree"

// StepResult aligns with the HTTP StepResponse and is the output of both session tools.
type StepResult struct {
	Status   string `json:"status" jsonschema_description:"question or diagnosis"`
	NodeID   string `json:"node_id" jsonschema_description:"Current question id, or the diagnosis id when status is diagnosis"`
	Text     string `json:"text" jsonschema_description:"Question to ask, or the first-aid recommendation"`
	Terminal bool   `json:"terminal" jsonschema_description:"True when a diagnosis was reached"`
}

// StartArgs are the arguments of start_from_symptoms.
type StartArgs struct {
	Symptoms string `json:"symptoms"`
}

// AdvanceArgs are the arguments of advance.
type AdvanceArgs struct {
	NodeID string `json:"node_id"`
	Answer string `json:"answer"`
}

var _ ports.Assistant = (*triage.Assistant)(nil)

// Server wraps the Assistant and exposes it as an MCP Server.
type Server struct {
	assistant ports.Assistant
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(a ports.Assistant, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		assistant: a,
		logger:    logger,
		mcpServer: server.NewMCPServer("triage-mcp", strings.TrimSpace(triage.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and shuts it down
// when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
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

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	startTool := mcp.NewTool("start_from_symptoms",
		mcp.WithDescription("Start a first-aid triage session from a free-text description of what is happening. "+
			"Returns the first question to ask."),
		mcp.WithString("symptoms", mcp.Required(), mcp.Description("What the bystander observes")),
		mcp.WithOutputSchema[StepResult](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	advanceTool := mcp.NewTool("advance",
		mcp.WithDescription("Answer the current question with yes or no. "+
			`Use answer "initial" to restart from the first question.`),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Id of the question being answered")),
		mcp.WithString("answer", mcp.Required(), mcp.Description(`"yes", "no" or "initial"`)),
		mcp.WithOutputSchema[StepResult](),
	)
	s.mcpServer.AddTool(advanceTool, mcp.NewStructuredToolHandler(s.handleAdvance))

	s.mcpServer.AddTool(mcp.NewTool("get_tree",
		mcp.WithDescription("Get the full decision tree for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := s.treeJSON()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode tree: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args StartArgs) (StepResult, error) {
	step, err := s.assistant.StartFromSymptoms(ctx, args.Symptoms)
	if err != nil {
		s.logger.WarnContext(ctx, "MCP start_from_symptoms rejected", "err", err)
		return StepResult{}, err
	}
	return stepResult(step), nil
}

func (s *Server) handleAdvance(ctx context.Context, request mcp.CallToolRequest, args AdvanceArgs) (StepResult, error) {
	step, err := s.assistant.Advance(ctx, args.NodeID, args.Answer)
	if err != nil {
		s.logger.WarnContext(ctx, "MCP advance rejected", "node_id", args.NodeID, "err", err)
		return StepResult{}, err
	}
	return stepResult(step), nil
}

func stepResult(step domain.Step) StepResult {
	status := "question"
	if step.Terminal() {
		status = "diagnosis"
	}
	return StepResult{
		Status:   status,
		NodeID:   step.NodeID,
		Text:     step.Text,
		Terminal: step.Terminal(),
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(TreeURI, "First-aid decision tree",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := s.treeJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to encode tree: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      TreeURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

type treeDocument struct {
	Root        string              `json:"root"`
	Nodes       []domain.Node       `json:"nodes"`
	EntryPoints []domain.EntryPoint `json:"entry_points"`
}

func (s *Server) treeJSON() ([]byte, error) {
	t := s.assistant.Tree()
	return json.Marshal(treeDocument{
		Root:        t.Root(),
		Nodes:       t.Nodes(),
		EntryPoints: t.EntryPoints(),
	})
}
