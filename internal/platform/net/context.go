// Package net carries request-scoped identity and the JSON reply envelope
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Identity is who is operating the request
// Locked means an upstream proxy supplied the user and the client may not change it
type Identity struct {
	User   string `json:"user"`
	Locked bool   `json:"locked"`
}

type ctxKey uint8

const keyIdentity ctxKey = iota

// WithRequestID puts reqID where chi's middleware.GetReqID finds it
func WithRequestID(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// RequestID returns the request id, if any
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// WithIdentity stores id on ctx
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, keyIdentity, id)
}

// IdentityFrom returns the identity on ctx; the zero value means nobody was named
func IdentityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(keyIdentity).(Identity)
	return id
}

// UserID is shorthand for IdentityFrom(ctx).User
func UserID(ctx context.Context) string { return IdentityFrom(ctx).User }
