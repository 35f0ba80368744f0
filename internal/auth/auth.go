// Package auth carries the authenticated actor through a request's context.
package auth

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when a mutation runs without an actor.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden is returned when an actor touches another school's slots.
	ErrForbidden = errors.New("forbidden")
)

// Actor is the identity a mutation is performed as. An empty SchoolCode
// means the actor is not bound to a single tenant.
type Actor struct {
	ID         string
	SchoolCode string
}

type actorKey struct{}

// WithActor returns a copy of ctx carrying a.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// FromContext returns the actor stored in ctx. It fails with
// ErrUnauthenticated when there is none or its ID is empty.
func FromContext(ctx context.Context) (Actor, error) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	if !ok || a.ID == "" {
		return Actor{}, ErrUnauthenticated
	}
	return a, nil
}

// CanAccess reports whether the actor may touch slots of schoolCode.
func (a Actor) CanAccess(schoolCode string) bool {
	return a.SchoolCode == "" || a.SchoolCode == schoolCode
}

// Authorize returns the actor from ctx after checking it may act on
// schoolCode.
func Authorize(ctx context.Context, schoolCode string) (Actor, error) {
	a, err := FromContext(ctx)
	if err != nil {
		return Actor{}, err
	}
	if !a.CanAccess(schoolCode) {
		return Actor{}, fmt.Errorf("%w: %s cannot modify school %q", ErrForbidden, a.ID, schoolCode)
	}
	return a, nil
}
