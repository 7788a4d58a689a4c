package roundlog

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo returns the ids of the active span in ctx, or empty
// strings when there is none.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an entry stamped with the current time and the trace of ctx.
//
//	entry := roundlog.NewEntry(ctx, roundID, roundlog.StatusUnitFailed, "Ana", "X-Burger", 0, []string{reason})
func NewEntry(
	ctx context.Context,
	roundID string,
	status Status,
	clientName string,
	itemName string,
	orderID int64,
	errs []string,
) *Entry {
	ti := ExtractTraceInfo(ctx)

	errJSON := "[]"
	if len(errs) > 0 {
		if b, err := json.Marshal(errs); err == nil {
			errJSON = string(b)
		}
	}

	return &Entry{
		RoundID:       roundID,
		Status:        status,
		ClientName:    clientName,
		ItemName:      itemName,
		OrderID:       orderID,
		ErrorMessages: errJSON,
		TraceID:       ti.TraceID,
		SpanID:        ti.SpanID,
		RecordedAt:    time.Now().UTC(),
	}
}

// Errors decodes ErrorMessages. A malformed column yields nil.
func (e Entry) Errors() []string {
	var out []string
	if err := json.Unmarshal([]byte(e.ErrorMessages), &out); err != nil {
		return nil
	}
	return out
}
