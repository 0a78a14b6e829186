package service

import "context"

type actorKey struct{}

// WithActor tags ctx with the username of the authenticated caller so that
// audit events can attribute changes.
func WithActor(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, actorKey{}, username)
}

// ActorFrom returns the caller recorded by WithActor, or "" if none.
func ActorFrom(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}
