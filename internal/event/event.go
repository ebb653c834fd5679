package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeLogin          Type = "auth.login"
	TypeLoginFailed    Type = "auth.login_failed"
	TypeRegister       Type = "auth.register"
	TypeRefresh        Type = "auth.refresh"
	TypeRefreshRotated Type = "auth.refresh_rotated"
	TypeRefreshFailed  Type = "auth.refresh_failed"
	TypeLogout         Type = "auth.logout"
	TypeSessionRevoked Type = "session.revoked"
)

// Actor identifies who triggered an event. Fields the publisher does not know
// stay empty.
type Actor struct {
	UserID string
	Email  string
	IP     string
}

type Event struct {
	ID        string
	Type      Type
	Actor     Actor
	Resource  string
	Payload   any
	Failed    bool
	Reason    string
	Timestamp time.Time
}

func New(typ Type, actor Actor) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(e Event)
}

type Bus interface {
	Publisher
	Subscribe() (<-chan Event, func())
}

type actorKey struct{}

// WithActor stores the request's actor so services can attribute events
// without widening their signatures.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) Actor {
	actor, _ := ctx.Value(actorKey{}).(Actor)
	return actor
}
