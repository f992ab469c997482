package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	profileIDKey contextKey = "profileID"
	requestIDKey contextKey = "requestID"
)

// ContextWithProfile returns a context carrying the authenticated profile id.
func ContextWithProfile(ctx context.Context, profileID string) context.Context {
	return context.WithValue(ctx, profileIDKey, profileID)
}

// ProfileIDFrom retrieves the authenticated profile id, or "" for guests.
func ProfileIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(profileIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
