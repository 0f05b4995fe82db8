// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const (
	keyChildID  ctxKey = "child_id"
	keyFamilyID ctxKey = "family_id"
)

// WithRequest annotates context with common request scoped ids
func WithRequest(ctx context.Context, reqID, childID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if childID != "" {
		ctx = context.WithValue(ctx, keyChildID, childID)
	}
	return ctx
}

// WithFamily annotates context with the household id
func WithFamily(ctx context.Context, familyID string) context.Context {
	if familyID != "" {
		ctx = context.WithValue(ctx, keyFamilyID, familyID)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	if v := chimw.GetReqID(ctx); v != "" {
		return v
	}
	return ""
}

// ChildID returns the child id on the context if present
func ChildID(ctx context.Context) string {
	if v, ok := ctx.Value(keyChildID).(string); ok {
		return v
	}
	return ""
}

// FamilyID returns the family id on the context if present
func FamilyID(ctx context.Context) string {
	if v, ok := ctx.Value(keyFamilyID).(string); ok {
		return v
	}
	return ""
}
