package api

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/ceramics-catalogue/pkg/dict"
	"github.com/hazyhaar/ceramics-catalogue/pkg/kit"
)

// RegisterMCPTools registers the catalogue tools on the server. They share
// their endpoints with the HTTP routes.
func RegisterMCPTools(srv *server.MCPServer, store *Store, reg *dict.Registry) {
	ep := newEndpoints(store, reg)

	kit.RegisterMCPTool(srv, mcp.NewTool("list_collections",
		mcp.WithDescription("List the ceramics collections with their row, processed and unprocessed counts."),
	), ep.collections, kit.NoArgs)

	collectionTool := func(name, desc string, endpoint kit.Endpoint) {
		tool := mcp.NewTool(name,
			mcp.WithDescription(desc),
			mcp.WithString("collection", mcp.Required(), mcp.Description("Collection ID (unified, sevres, mic)")),
		)
		kit.RegisterMCPTool(srv, tool, endpoint, decodeCollection)
	}
	collectionTool("aggregate_lacuna",
		"Lacuna aggregates of a collection: raw label counts, approximate buckets and per-material averages.",
		ep.aggregate)
	collectionTool("list_unprocessed",
		"Rows of a collection left out of aggregation because material or lacuna is missing.",
		ep.unprocessed)
	collectionTool("list_markers",
		"Map markers of a collection, with the rows that could not be placed.",
		ep.markers)

	kit.RegisterMCPTool(srv, mcp.NewTool("translate_material",
		mcp.WithDescription("Translate a French material label to its English display label."),
		mcp.WithString("term", mcp.Required(), mcp.Description("Raw material label, e.g. 'terre cuite'")),
	), ep.translate, decodeTerm)

	kit.RegisterMCPTool(srv, mcp.NewTool("resolve_country",
		mcp.WithDescription("Resolve a provenance country-code field (e.g. '250;276(?)') to coordinates."),
		mcp.WithString("field", mcp.Required(), mcp.Description("Country-code field as found in the dataset")),
	), ep.country, decodeCountry)
}

func decodeCollection(req mcp.CallToolRequest) (kit.ToolCall, error) {
	id, err := kit.StringArg(req, "collection", true)
	if err != nil {
		return kit.ToolCall{}, err
	}
	return kit.ToolCall{Request: &collectionReq{ID: id}, Collection: id}, nil
}

// decodeTerm keeps the raw term: the translator does its own trimming.
func decodeTerm(req mcp.CallToolRequest) (kit.ToolCall, error) {
	if _, err := kit.StringArg(req, "term", true); err != nil {
		return kit.ToolCall{}, err
	}
	term, _ := req.GetArguments()["term"].(string)
	return kit.ToolCall{Request: &translateReq{Term: term}}, nil
}

func decodeCountry(req mcp.CallToolRequest) (kit.ToolCall, error) {
	field, err := kit.StringArg(req, "field", true)
	if err != nil {
		return kit.ToolCall{}, err
	}
	return kit.ToolCall{Request: &countryReq{Field: field}}, nil
}
