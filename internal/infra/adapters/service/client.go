package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/lanchonete-stations/internal/pkg/apierr"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/interceptors/constants"
)

const tracerName = "github.com/jcmexdev/lanchonete-stations/internal/infra/adapters/service"

// maxErrorBody bounds how much of a failed response is read looking for "erro".
const maxErrorBody = 64 << 10

// Client is the JSON-over-HTTP transport shared by every adapter.
type Client struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
}

// NewClient returns a client rooted at baseURL. A zero timeout leaves requests
// bounded only by ctx and the transport.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tracer:  otel.Tracer(tracerName),
	}
}

type errorPayload struct {
	Erro string `json:"erro"`
}

type requestOption func(*http.Request)

func withIdempotencyKey(key string) requestOption {
	return func(r *http.Request) { r.Header.Set(constants.HeaderXIdempotencyKey, key) }
}

// do sends body as JSON and decodes a 2xx response into out. A non-2xx
// response becomes *apierr.RemoteRejection; anything else that goes wrong
// becomes *apierr.TransportFailure.
func (c *Client) do(ctx context.Context, method, path string, body, out any, opts ...requestOption) error {
	op := method + " " + path

	ctx, span := c.tracer.Start(ctx, op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	err := c.roundTrip(ctx, span, method, path, body, out, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, span trace.Span, method, path string, body, out any, opts []requestOption) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &apierr.TransportFailure{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &apierr.TransportFailure{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(constants.HeaderXRequestId, requestID(ctx))
	for _, opt := range opts {
		opt(req)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	res, err := c.http.Do(req)
	if err != nil {
		return &apierr.TransportFailure{Op: op, Err: err}
	}
	defer res.Body.Close()

	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
		attribute.Int("http.response.status_code", res.StatusCode),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var payload errorPayload
		raw, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		_ = json.Unmarshal(raw, &payload)
		return &apierr.RemoteRejection{StatusCode: res.StatusCode, Message: payload.Erro}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return &apierr.TransportFailure{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &apierr.TransportFailure{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// requestID reuses the id carried by ctx, or mints one.
func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
