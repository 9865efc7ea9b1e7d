package kit

import "context"

type contextKey string

// Transports recorded in the context.
const (
	TransportHTTP = "http"
	TransportMCP  = "mcp_stdio"
)

const (
	TransportKey  contextKey = "kit_transport"
	RequestIDKey  contextKey = "kit_request_id"
	CollectionKey contextKey = "kit_collection"
)

func WithTransport(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, TransportKey, t)
}
func GetTransport(ctx context.Context) string {
	if v, ok := ctx.Value(TransportKey).(string); ok {
		return v
	}
	return TransportHTTP
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(RequestIDKey).(string)
	return v
}

// WithCollection tags ctx with the collection an action works on, for logs.
func WithCollection(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CollectionKey, id)
}
func GetCollection(ctx context.Context) string {
	v, _ := ctx.Value(CollectionKey).(string)
	return v
}
