package core

import "context"

// Context keys for conversion options
type contextKey string

const runUUIDKey contextKey = "runUUID"

// withRunUUID tags the context with the identifier of the current run.
func withRunUUID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runUUIDKey, id)
}

// runUUIDFrom returns the run identifier from context, or "" outside a run.
func runUUIDFrom(ctx context.Context) string {
	val := ctx.Value(runUUIDKey)
	if val == nil {
		return ""
	}
	id, _ := val.(string)
	return id
}
