package userctx

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/nkiryanov/accountshop/internal/models"
)

type ctxKey int

const (
	userKey ctxKey = iota
	trackerKey
)

// Tracker keeps the id of the user authenticated somewhere down the handler chain.
// Outer middlewares see only their own request context, so they read it from here.
type Tracker struct {
	mu     sync.Mutex
	userID uuid.UUID
}

func (t *Tracker) UserID() (uuid.UUID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.userID, t.userID != uuid.Nil
}

// Track attaches a new tracker to the context
func Track(ctx context.Context) (context.Context, *Tracker) {
	t := &Tracker{}
	return context.WithValue(ctx, trackerKey, t), t
}

// Create a new context with the user; the tracker, if any, remembers the user id
func New(ctx context.Context, u models.User) context.Context {
	if t, ok := ctx.Value(trackerKey).(*Tracker); ok {
		t.mu.Lock()
		t.userID = u.ID
		t.mu.Unlock()
	}
	return context.WithValue(ctx, userKey, u)
}

// Extract the user from the context
func FromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}
