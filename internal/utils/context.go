package utils

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const ContextUserIDKey contextKey = "userID"

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID := ctx.Value(ContextUserIDKey)
	userIDStr, ok := userID.(string)
	return userIDStr, ok
}

// SessionData is what middleware needs to know about a session without
// depending on the auth package.
type SessionData struct {
	UserID    string
	ExpiresAt time.Time
}

func GenerateUUID() string {
	return uuid.NewString()
}
