package context

import (
	"context"

	"github.com/muhammadheryan/landing-api/constant"
)

// GetAdmin returns the admin username stored by the auth middleware.
func GetAdmin(ctx context.Context) (string, bool) {
	v := ctx.Value(constant.AdminKey)
	if v == nil {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

func WithAdmin(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, constant.AdminKey, username)
}

// GetClientID returns the rate-limit identifier of the caller, or "unknown".
func GetClientID(ctx context.Context) string {
	v, ok := ctx.Value(constant.ClientIDKey).(string)
	if !ok || v == "" {
		return "unknown"
	}
	return v
}

func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, constant.ClientIDKey, clientID)
}
