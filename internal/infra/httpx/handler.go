package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/apierr"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/dispatch"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/guard"
)

// StateFunc renders the station's current view.
type StateFunc func() any

// Handler serves one station: its view and its action table.
type Handler struct {
	station  string
	state    StateFunc
	commands *dispatch.Table
}

func NewHandler(station string, state StateFunc, commands *dispatch.Table) *Handler {
	return &Handler{station: station, state: state, commands: commands}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Station: h.station})
}

func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state())
}

func (h *Handler) Actions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ActionsResponse{Actions: h.commands.Actions()})
}

// Dispatch runs the named action. Arguments come from the query string and
// from an optional flat JSON object body; body values win.
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "action")

	args, err := decodeArgs(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	result, err := h.commands.Dispatch(r.Context(), name, args)
	if err != nil {
		status, code := classify(err)
		slog.WarnContext(r.Context(), "action failed",
			"station", h.station,
			"action", name,
			"status", status,
			"error", err,
		)
		writeError(w, status, code, apierr.Reason(err, "Erro ao processar ação"))
		return
	}

	writeJSON(w, http.StatusOK, ActionResponse{Action: name, Result: result, State: h.state()})
}

func decodeArgs(r *http.Request) (dispatch.Args, error) {
	args := dispatch.Args{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			args[key] = values[0]
		}
	}

	if r.Body == nil {
		return args, nil
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return args, nil
		}
		return nil, err
	}
	for key, v := range body {
		switch val := v.(type) {
		case nil:
		case string:
			args[key] = val
		case json.Number:
			args[key] = val.String()
		case bool:
			args[key] = fmt.Sprint(val)
		default:
			return nil, fmt.Errorf("argument %q must be a string, number or boolean", key)
		}
	}
	return args, nil
}

// classify maps an action error to an HTTP status and an error code.
func classify(err error) (int, string) {
	var (
		rej *apierr.RemoteRejection
		tf  *apierr.TransportFailure
	)
	switch {
	case errors.Is(err, dispatch.ErrUnknownAction):
		return http.StatusNotFound, "unknown_action"
	case errors.Is(err, dispatch.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	case apierr.IsValidation(err):
		return http.StatusUnprocessableEntity, "validation_failed"
	case errors.Is(err, guard.ErrBusy):
		return http.StatusConflict, "busy"
	case errors.Is(err, entity.ErrIllegalTransition):
		return http.StatusConflict, "illegal_transition"
	case errors.As(err, &rej):
		return http.StatusBadGateway, "remote_rejected"
	case errors.As(err, &tf):
		return http.StatusBadGateway, "service_unavailable"
	default:
		return http.StatusBadRequest, "action_failed"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: msg})
}
