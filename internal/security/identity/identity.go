package identity

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/hrrarya/order-pdf-export/internal/service/models/actor"
)

// The service sits behind an authenticating gateway which injects the
// resolved identity into these headers. Anything arriving without them
// is treated as anonymous and denied downstream.
const (
	HeaderActorID      = "X-Actor-Id"
	HeaderCapabilities = "X-Actor-Capabilities"
	HeaderSessionID    = "X-Session-Id"
)

type ctxKey int

const (
	actorKey ctxKey = iota
	sessionKey
)

// Middleware resolves the current actor and session once at the boundary
// and stores them in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), actorKey, actorFromHeaders(r))
		ctx = context.WithValue(ctx, sessionKey, r.Header.Get(HeaderSessionID))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFromHeaders(r *http.Request) actor.Actor {
	id, err := strconv.ParseInt(r.Header.Get(HeaderActorID), 10, 64)
	if err != nil || id < 0 {
		id = 0
	}

	var caps []actor.Capability
	if raw := r.Header.Get(HeaderCapabilities); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				caps = append(caps, actor.Capability(c))
			}
		}
	}

	return actor.Actor{ID: id, Capabilities: caps}
}

// ActorFromContext returns the actor placed by Middleware, or anonymous.
func ActorFromContext(ctx context.Context) actor.Actor {
	if a, ok := ctx.Value(actorKey).(actor.Actor); ok {
		return a
	}

	return actor.Actor{}
}

// SessionFromContext returns the session id placed by Middleware.
func SessionFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(sessionKey).(string); ok {
		return s
	}

	return ""
}
