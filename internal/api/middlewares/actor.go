package middlewares

import (
	"context"
	"net/http"

	"github.com/lfarias-dev/biblioteca-api/internal/models"
)

const actorKey ctxKey = 1

func WithActor(ctx context.Context, a models.Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// ActorFrom returns the caller identity assembled by OptionalAuth and
// EnsureSession. The zero Actor means no identity at all.
func ActorFrom(r *http.Request) models.Actor {
	a, _ := r.Context().Value(actorKey).(models.Actor)
	return a
}
