package services

import "context"

type contextKey string

const (
	requestIDKey  contextKey = "request_id"
	templateIDKey contextKey = "template_id"
)

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithTemplateID annotates context with the form template being processed.
func WithTemplateID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, templateIDKey, id)
}

// TemplateIDFromContext returns the form template identifier if present.
func TemplateIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(templateIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
