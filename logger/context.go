package logger

import (
	"context"
)

// ContextKey is used for context values
type ContextKey string

const (
	// QueryIDKey is the context key for the query identifier
	QueryIDKey ContextKey = "query_id"
	// IndexIDKey is the context key for the index being scanned
	IndexIDKey ContextKey = "index_id"
)

// WithContextValue adds a value to the context for logging
func WithContextValue(ctx context.Context, key ContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}

// ExtractContextValues extracts logging-relevant values from context
func ExtractContextValues(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	var args []any

	if queryID, ok := ctx.Value(QueryIDKey).(string); ok {
		args = append(args, "query_id", queryID)
	}

	if indexID, ok := ctx.Value(IndexIDKey).(int64); ok {
		args = append(args, "index_id", indexID)
	}

	return args
}
