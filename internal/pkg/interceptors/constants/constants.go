// Package constants names the correlation headers the stations send to the
// remote services and the context keys they travel under in-process.
package constants

type contextKey string

const (
	HeaderXRequestId      = "x-request-id"
	HeaderXIdempotencyKey = "x-idempotency-key"

	// ContextKeyRequestID carries the control request's id into outbound calls.
	ContextKeyRequestID contextKey = HeaderXRequestId
	// ContextKeyIdempotencyKey is set only when the caller sent one.
	ContextKeyIdempotencyKey contextKey = HeaderXIdempotencyKey
)
