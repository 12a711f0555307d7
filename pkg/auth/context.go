package auth

import "context"

type contextKey string

const (
	ctxBearerToken contextKey = "bearer_token"
	ctxGuestID     contextKey = "guest_id"
)

// WithBearerToken stores the caller's opaque bearer token for forwarding to
// upstream requests. The token is never parsed locally.
func WithBearerToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxBearerToken, token)
}

func BearerToken(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxBearerToken).(string); ok {
		return v
	}
	return ""
}

// WithGuestID stores the anonymous browsing session identifier.
func WithGuestID(ctx context.Context, guestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxGuestID, guestID)
}

func GuestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxGuestID).(string); ok {
		return v
	}
	return ""
}

// IsAuthenticated reports whether the context carries a bearer token.
func IsAuthenticated(ctx context.Context) bool {
	return BearerToken(ctx) != ""
}
