package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/triage"
	"github.com/aretw0/triage/internal/llm"
	"github.com/aretw0/triage/pkg/catalog"
	"github.com/aretw0/triage/pkg/classifier"
	"github.com/aretw0/triage/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, responses ...llm.MockResponse) *Server {
	t.Helper()
	tr, err := catalog.FirstAid()
	require.NoError(t, err)
	a, err := triage.New(
		triage.WithTree(tr),
		triage.WithClassifier(classifier.New(llm.NewMockProvider(responses...), tr)),
	)
	require.NoError(t, err)
	return NewServer(a, nil)
}

func TestHandleStart(t *testing.T) {
	s := newTestServer(t, llm.MockResponse{Text: "Stroke"})

	res, err := s.handleStart(context.Background(), mcp.CallToolRequest{}, StartArgs{Symptoms: "face drooping, slurred speech"})
	require.NoError(t, err)
	assert.Equal(t, StepResult{
		Status: "question",
		NodeID: "q4_a",
		Text:   "Are they exhibiting facial drooping, arm weakness, or slurred speech?",
	}, res)

	_, err = s.handleStart(context.Background(), mcp.CallToolRequest{}, StartArgs{Symptoms: " "})
	assert.ErrorIs(t, err, domain.ErrEmptySymptoms)
}

func TestHandleAdvance(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleAdvance(ctx, mcp.CallToolRequest{}, AdvanceArgs{NodeID: "q4_a", Answer: "yes"})
	require.NoError(t, err)
	assert.Equal(t, "diagnosis", res.Status)
	assert.Equal(t, "diag_stroke", res.NodeID)
	assert.True(t, res.Terminal)

	res, err = s.handleAdvance(ctx, mcp.CallToolRequest{}, AdvanceArgs{NodeID: "q4_a", Answer: "initial"})
	require.NoError(t, err)
	assert.Equal(t, "start", res.NodeID)

	_, err = s.handleAdvance(ctx, mcp.CallToolRequest{}, AdvanceArgs{NodeID: "q4_a", Answer: "perhaps"})
	assert.ErrorIs(t, err, domain.ErrInvalidAnswer)

	_, err = s.handleAdvance(ctx, mcp.CallToolRequest{}, AdvanceArgs{NodeID: "ghost", Answer: "no"})
	assert.ErrorIs(t, err, domain.ErrUnknownNode)
}

func rpc(t *testing.T, s *Server, method string, params any) map[string]any {
	t.Helper()
	msg, err := json.Marshal(map[string]any{"jsonrpc": "2.0", "id": 1, "method": method, "params": params})
	require.NoError(t, err)

	resp := s.MCPServer().HandleMessage(context.Background(), msg)
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	require.NotContains(t, out, "error", string(raw))
	return out["result"].(map[string]any)
}

func initialize(t *testing.T, s *Server) {
	t.Helper()
	rpc(t, s, "initialize", map[string]any{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "test", "version": "0"},
	})
}

func TestProtocol_ListTools(t *testing.T) {
	s := newTestServer(t)
	initialize(t, s)

	result := rpc(t, s, "tools/list", map[string]any{})
	var names []string
	for _, tool := range result["tools"].([]any) {
		names = append(names, tool.(map[string]any)["name"].(string))
	}
	assert.ElementsMatch(t, []string{"start_from_symptoms", "advance", "get_tree"}, names)
}

func TestProtocol_GetTree(t *testing.T) {
	s := newTestServer(t)
	initialize(t, s)

	result := rpc(t, s, "tools/call", map[string]any{"name": "get_tree", "arguments": map[string]any{}})
	content := result["content"].([]any)
	require.Len(t, content, 1)

	var doc treeDocument
	require.NoError(t, json.Unmarshal([]byte(content[0].(map[string]any)["text"].(string)), &doc))
	assert.Equal(t, "start", doc.Root)
	assert.Len(t, doc.Nodes, 17)
	assert.Len(t, doc.EntryPoints, 7)
}

func TestProtocol_ReadTreeResource(t *testing.T) {
	s := newTestServer(t)
	initialize(t, s)

	result := rpc(t, s, "resources/read", map[string]any{"uri": TreeURI})
	contents := result["contents"].([]any)
	require.Len(t, contents, 1)
	assert.Equal(t, TreeURI, contents[0].(map[string]any)["uri"])
}

func TestProtocol_AdvanceErrorIsToolError(t *testing.T) {
	s := newTestServer(t)
	initialize(t, s)

	result := rpc(t, s, "tools/call", map[string]any{
		"name":      "advance",
		"arguments": map[string]any{"node_id": "start", "answer": "maybe"},
	})
	assert.Equal(t, true, result["isError"])
}
