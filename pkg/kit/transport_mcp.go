package kit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolCall is what a decoder extracts from MCP tool arguments: the endpoint
// request and, for per-collection tools, the collection it reads.
type ToolCall struct {
	Request    any
	Collection string
}

// ToolDecoder turns the arguments of a tool call into a ToolCall.
type ToolDecoder func(mcp.CallToolRequest) (ToolCall, error)

// NoArgs decodes tools without arguments.
func NoArgs(mcp.CallToolRequest) (ToolCall, error) { return ToolCall{}, nil }

// StringArg returns the trimmed string argument name. A required argument
// that is absent, blank or not a string is an error.
func StringArg(req mcp.CallToolRequest, name string, required bool) (string, error) {
	raw, present := req.GetArguments()[name]
	s, isString := raw.(string)
	switch {
	case present && !isString:
		return "", fmt.Errorf("%s must be a string", name)
	case required && strings.TrimSpace(s) == "":
		return "", fmt.Errorf("%s is required", name)
	}
	return strings.TrimSpace(s), nil
}

// RegisterMCPTool exposes an Endpoint as an MCP tool. Calls carry the
// mcp_stdio transport, a fresh request ID and the decoded collection, so
// the Logging and Tracing middlewares see them like HTTP calls. Decode and
// endpoint failures are reported as tool errors; the response is JSON text.
func RegisterMCPTool(srv *server.MCPServer, tool mcp.Tool, endpoint Endpoint, decode ToolDecoder) {
	srv.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		call, err := decode(req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v", tool.Name, err)), nil
		}

		ctx = WithRequestID(WithTransport(ctx, TransportMCP), uuid.NewString())
		if call.Collection != "" {
			ctx = WithCollection(ctx, call.Collection)
		}

		resp, err := endpoint(ctx, call.Request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s: encode response: %v", tool.Name, err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}
