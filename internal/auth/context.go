package auth

import "context"

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	userEmailKey contextKey = "email"
	userTypeKey  contextKey = "user_type"
)

// SetCallerContext attaches the authenticated caller identity (set by the
// auth middleware).
func SetCallerContext(ctx context.Context, id uint, email, userType string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id)
	ctx = context.WithValue(ctx, userEmailKey, email)
	ctx = context.WithValue(ctx, userTypeKey, userType)
	return ctx
}

func CallerID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey).(uint)
	return id, ok
}

func CallerEmail(ctx context.Context) string {
	email, _ := ctx.Value(userEmailKey).(string)
	return email
}

func CallerType(ctx context.Context) string {
	t, _ := ctx.Value(userTypeKey).(string)
	return t
}
