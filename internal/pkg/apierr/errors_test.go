package apierr

import (
	"errors"
	"fmt"
	"testing"
)

func TestReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"remote message", &RemoteRejection{StatusCode: 400, Message: "Sem estoque"}, "Sem estoque"},
		{"remote without message", &RemoteRejection{StatusCode: 500}, "fallback"},
		{"wrapped remote", fmt.Errorf("create: %w", &RemoteRejection{StatusCode: 404, Message: "Pedido não encontrado"}), "Pedido não encontrado"},
		{"transport", &TransportFailure{Op: "GET /fila", Err: errors.New("connection refused")}, "connection refused"},
		{"validation", ValidationError{Field: "cliente", Message: "Informe o nome"}, "Informe o nome"},
		{"plain", errors.New("boom"), "boom"},
		{"nil", nil, "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reason(tt.err, "fallback"); got != tt.want {
				t.Errorf("Reason = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(fmt.Errorf("x: %w", ValidationError{Field: "f", Message: "m"})) {
		t.Error("wrapped validation not detected")
	}
	if IsValidation(&RemoteRejection{StatusCode: 400}) {
		t.Error("rejection reported as validation")
	}
}

func TestTransportFailureUnwrap(t *testing.T) {
	cause := errors.New("eof")
	if !errors.Is(&TransportFailure{Op: "x", Err: cause}, cause) {
		t.Error("Unwrap does not expose the cause")
	}
}
