package questionbank

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testMCPImpl = &mcp.Implementation{Name: "questionbank-test", Version: "0.1.0"}

func testOpener(path, _ string) (PageSource, error) {
	if path != "katalog.pdf" {
		return nil, errors.New("no such document")
	}
	return catalogue(), nil
}

func mcpSession(t *testing.T) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testMCPImpl, nil)
	testPipeline(2).RegisterMCP(srv, testOpener)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCall(t *testing.T, session *mcp.ClientSession, name string, args any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return result
}

func mcpText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if err := result.GetError(); err != nil {
		t.Fatalf("tool error: %v", err)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatal("expected TextContent")
	}
	return tc.Text
}

func TestMCP_Extract(t *testing.T) {
	session := mcpSession(t)
	text := mcpText(t, mcpCall(t, session, "questionbank_extract", map[string]any{"path": "katalog.pdf"}))

	var bank Bank
	if err := json.Unmarshal([]byte(text), &bank); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(bank.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(bank.Records))
	}
	if bank.SolutionsPage != 4 {
		t.Errorf("solutions_page = %d, want 4", bank.SolutionsPage)
	}
	if got := bank.Records[0].Correct; len(got) != 3 || !got[0] || got[1] || !got[2] {
		t.Errorf("record 1 correct = %v", got)
	}
}

func TestMCP_Extract_UnknownPath(t *testing.T) {
	session := mcpSession(t)
	result := mcpCall(t, session, "questionbank_extract", map[string]any{"path": "fehlt.pdf"})
	if !result.IsError {
		t.Fatal("expected tool error for unknown path")
	}
}

func TestMCP_Extract_MissingPath(t *testing.T) {
	session := mcpSession(t)
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "questionbank_extract",
		Arguments: map[string]any{},
	})
	// Rejected either by schema validation or by the decoder.
	if err == nil && !result.IsError {
		t.Fatal("expected an error for missing path")
	}
}

func TestMCP_LocateSolutions(t *testing.T) {
	session := mcpSession(t)
	text := mcpText(t, mcpCall(t, session, "questionbank_locate_solutions", map[string]any{"path": "katalog.pdf"}))

	var resp struct {
		Found bool `json:"found"`
		Page  int  `json:"page"`
		Line  int  `json:"line"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Found || resp.Page != 4 || resp.Line != 0 {
		t.Errorf("resp = %+v, want found on page 4", resp)
	}
}

func TestMCP_Classify(t *testing.T) {
	session := mcpSession(t)
	for line, want := range map[string]string{
		"12. Welche Aussage?": "question",
		"b) Nein":             "answer",
		"weiter im Text":      "continuation",
	} {
		text := mcpText(t, mcpCall(t, session, "questionbank_classify", map[string]any{"line": line}))
		var resp struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal([]byte(text), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if resp.Kind != want {
			t.Errorf("classify(%q) = %q, want %q", line, resp.Kind, want)
		}
	}
}
