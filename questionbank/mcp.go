package questionbank

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/fragebank/kit"
)

// SourceOpener opens a page source for a document path. backend selects the
// text extractor; an empty backend means the opener's default.
type SourceOpener func(path, backend string) (PageSource, error)

// RegisterMCP registers the question bank tools on an MCP server.
func (p *Pipeline) RegisterMCP(srv *mcp.Server, open SourceOpener) {
	mw := kit.Logging(p.logger)
	p.registerExtractTool(srv, open, mw)
	p.registerLocateTool(srv, open, mw)
	registerClassifyTool(srv, mw)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

var documentProperties = map[string]any{
	"path":    map[string]any{"type": "string", "description": "Path to the question catalogue (PDF or form-feed separated text)"},
	"backend": map[string]any{"type": "string", "description": "Text extractor: pdfcpu, pdftotext or text"},
}

type documentReq struct {
	Path    string `json:"path"`
	Backend string `json:"backend"`
}

func decodeDocument(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	var r documentReq
	if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
		return nil, err
	}
	if r.Path == "" {
		return nil, errors.New("path is required")
	}
	return &kit.MCPDecodeResult{Request: &r}, nil
}

// --- extract ---

func (p *Pipeline) registerExtractTool(srv *mcp.Server, open SourceOpener, mw kit.Middleware) {
	tool := &mcp.Tool{
		Name:        "questionbank_extract",
		Description: "Extract numbered questions, their answer options and correctness flags from a question catalogue.",
		InputSchema: inputSchema(documentProperties, []string{"path"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*documentReq)
		src, err := open(r.Path, r.Backend)
		if err != nil {
			return nil, err
		}
		return p.Extract(ctx, src)
	}

	kit.RegisterMCPTool(srv, tool, mw(endpoint), decodeDocument)
}

// --- locate solutions ---

func (p *Pipeline) registerLocateTool(srv *mcp.Server, open SourceOpener, mw kit.Middleware) {
	tool := &mcp.Tool{
		Name:        "questionbank_locate_solutions",
		Description: "Return the zero-based index of the first page of the solutions section.",
		InputSchema: inputSchema(documentProperties, []string{"path"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*documentReq)
		src, err := open(r.Path, r.Backend)
		if err != nil {
			return nil, err
		}
		pages, err := src.Pages(ctx)
		if err != nil {
			return nil, err
		}
		page, line, err := LocateSolutionsLine(pages, p.cfg.SolutionsKeyword)
		if errors.Is(err, ErrSolutionsNotFound) {
			return map[string]any{"found": false, "page": -1, "line": -1}, nil
		}
		if err != nil {
			return nil, err
		}
		return map[string]any{"found": true, "page": page, "line": line}, nil
	}

	kit.RegisterMCPTool(srv, tool, mw(endpoint), decodeDocument)
}

// --- classify ---

type classifyReq struct {
	Line string `json:"line"`
}

func registerClassifyTool(srv *mcp.Server, mw kit.Middleware) {
	tool := &mcp.Tool{
		Name:        "questionbank_classify",
		Description: "Classify one line of page text as question, answer or continuation.",
		InputSchema: inputSchema(map[string]any{
			"line": map[string]any{"type": "string", "description": "Line of page text"},
		}, []string{"line"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*classifyReq)
		return map[string]any{"kind": Classify(r.Line).String()}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r classifyReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, mw(endpoint), decode)
}
