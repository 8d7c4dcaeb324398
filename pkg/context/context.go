// Package context carries allocation cycle identifiers through context.Context
package context

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ctxKey is unexported so no other package can collide with these keys.
// It must not be zero-size: pointers to distinct zero-size values may compare equal.
type ctxKey int

const (
	cycleIDKey ctxKey = iota
	correlationIDKey
	operationKey
	startTimeKey
)

// WithCycleID adds an allocation cycle ID to the context
func WithCycleID(parent context.Context, cycleID string) context.Context {
	if cycleID == "" {
		cycleID = GenerateCycleID()
	}
	return context.WithValue(parent, cycleIDKey, cycleID)
}

// GetCycleID retrieves the cycle ID from context
func GetCycleID(ctx context.Context) string {
	if id, ok := ctx.Value(cycleIDKey).(string); ok && id != "" {
		return id
	}
	return "unknown-cycle"
}

// WithCorrelationID adds a correlation ID shared by every cycle of one session
func WithCorrelationID(parent context.Context, correlationID string) context.Context {
	if correlationID == "" {
		correlationID = GenerateCorrelationID()
	}
	return context.WithValue(parent, correlationIDKey, correlationID)
}

// GetCorrelationID retrieves the correlation ID from context
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok && id != "" {
		return id
	}
	return "unknown-correlation"
}

// WithOperation adds an operation name to the context
func WithOperation(parent context.Context, operation string) context.Context {
	return context.WithValue(parent, operationKey, operation)
}

// GetOperation retrieves the operation name from context
func GetOperation(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey).(string); ok && op != "" {
		return op
	}
	return "unknown-operation"
}

// WithStartTime adds the operation start time to the context
func WithStartTime(parent context.Context, startTime time.Time) context.Context {
	return context.WithValue(parent, startTimeKey, startTime)
}

// GetDuration returns the time elapsed since the start time in context, or zero
func GetDuration(ctx context.Context) time.Duration {
	if t, ok := ctx.Value(startTimeKey).(time.Time); ok {
		return time.Since(t)
	}
	return 0
}

// GenerateCycleID creates a new unique cycle ID
func GenerateCycleID() string {
	return "cyc_" + uuid.New().String()
}

// GenerateCorrelationID creates a new unique correlation ID
func GenerateCorrelationID() string {
	return "cor_" + uuid.New().String()
}

// NewCycle returns a context for one allocation cycle, keeping any correlation ID already present
func NewCycle(parent context.Context) context.Context {
	ctx := parent
	if GetCorrelationID(ctx) == "unknown-correlation" {
		ctx = WithCorrelationID(ctx, "")
	}
	ctx = WithCycleID(ctx, "")
	ctx = WithOperation(ctx, "allocation-cycle")
	return WithStartTime(ctx, time.Now())
}
