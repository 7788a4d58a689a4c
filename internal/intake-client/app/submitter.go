package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/lanchonete-stations/internal/coordinator"
	"github.com/jcmexdev/lanchonete-stations/internal/coordinator/roundlog"
	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
	"github.com/jcmexdev/lanchonete-stations/internal/core/ports"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/apierr"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/interceptors/constants"
)

const (
	genericSubmitFailure = "Erro ao criar pedidos"
	genericUnitFailure   = "Erro ao criar pedido"
)

// Submission is what the user confirmed: who orders, an optional note and
// the cart lines at the moment of confirmation.
type Submission struct {
	ClientName string
	Note       string
	Lines      []entity.CartLine
}

// Failure is one unit order the service did not create.
type Failure struct {
	ItemName string `json:"item"`
	Reason   string `json:"motivo"`
}

func (f Failure) String() string { return f.ItemName + ": " + f.Reason }

// Outcome is the reconciled result of one submission round.
type Outcome struct {
	RoundID  string          `json:"round_id"`
	Created  []entity.Order  `json:"-"`
	Failures []Failure       `json:"falhas"`
	Success  bool            `json:"sucesso"`
	Message  string          `json:"mensagem"`
	Total    decimal.Decimal `json:"-"`
}

// Submitter turns a cart into unit orders, one request per unit, sent one at a time.
type Submitter struct {
	orders ports.OrderService
	rounds roundlog.Repository
}

// ErrRoundLogDisabled is returned by Round when no round log is configured.
var ErrRoundLogDisabled = errors.New("round log disabled")

// NewSubmitter builds a submitter. rounds may be nil.
func NewSubmitter(orders ports.OrderService, rounds roundlog.Repository) *Submitter {
	return &Submitter{orders: orders, rounds: rounds}
}

// Validate rejects a submission that must never reach the network.
func Validate(sub Submission) error {
	if strings.TrimSpace(sub.ClientName) == "" {
		return apierr.ValidationError{Field: "cliente", Message: "Informe o nome do cliente"}
	}
	if len(sub.Lines) == 0 {
		return apierr.ValidationError{Field: "carrinho", Message: "Adicione pelo menos um item ao carrinho!"}
	}
	return nil
}

// Submit validates sub, then creates every unit in cart-line then quantity
// order. A failed unit never stops the others. The returned error is only
// ever a validation error; remote failures are folded into the Outcome.
func (s *Submitter) Submit(ctx context.Context, sub Submission) (Outcome, error) {
	if err := Validate(sub); err != nil {
		return Outcome{}, err
	}

	clientName := strings.TrimSpace(sub.ClientName)
	note := strings.TrimSpace(sub.Note)

	callerKey, _ := ctx.Value(constants.ContextKeyIdempotencyKey).(string)

	var steps []coordinator.Step
	var units []*coordinator.CreateUnitOrderStep
	for _, line := range sub.Lines {
		for i := 0; i < line.Quantity; i++ {
			step := coordinator.NewCreateUnitOrderStep(s.orders, entity.CreateOrderInput{
				ClientName:     clientName,
				ItemName:       line.Item.Name,
				Note:           note,
				IdempotencyKey: unitKey(callerKey, len(steps)+1),
			})
			steps = append(steps, step)
			units = append(units, step)
		}
	}

	roundID := uuid.NewString()
	results := coordinator.NewOrchestrator(roundID, clientName, steps, s.rounds).Run(ctx)

	var created []entity.Order
	var failures []Failure
	for i, r := range results {
		if r.Err != nil {
			failures = append(failures, Failure{
				ItemName: r.Step.Name(),
				Reason:   unitReason(r.Err),
			})
			continue
		}
		created = append(created, *units[i].Created())
	}

	out := Reconcile(created, failures)
	out.RoundID = roundID

	if out.Success {
		slog.InfoContext(ctx, "submission round succeeded",
			"round_id", roundID,
			"created", len(created),
			"failed", len(failures),
			"total", out.Total.StringFixed(2),
		)
	} else {
		slog.ErrorContext(ctx, "submission round failed", "round_id", roundID, "failed", len(failures))
	}
	return out, nil
}

// unitKey derives the key of the n-th unit from the key the caller sent, so a
// retried submission maps onto the same unit requests. Without a caller key
// each unit gets a fresh one downstream.
func unitKey(callerKey string, n int) string {
	if callerKey == "" {
		return ""
	}
	return fmt.Sprintf("%s-%d", callerKey, n)
}

func unitReason(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err.Error()
	}
	return apierr.Reason(err, genericUnitFailure)
}

// Reconcile applies the round policy: at least one created order is a
// success, none is a failure.
func Reconcile(created []entity.Order, failures []Failure) Outcome {
	out := Outcome{
		Created:  created,
		Failures: failures,
		Total:    entity.SumValues(created),
	}

	if len(created) > 0 {
		ids := make([]string, 0, len(created))
		for _, o := range created {
			ids = append(ids, fmt.Sprintf("#%d", o.ID))
		}
		out.Success = true
		out.Message = fmt.Sprintf("Pedidos %s realizados! Total: R$ %s", strings.Join(ids, ", "), out.Total.StringFixed(2))
		if len(failures) > 0 {
			out.Message += fmt.Sprintf("\n\nFalhas: %d", len(failures))
		}
		return out
	}

	if len(failures) == 0 {
		out.Message = genericSubmitFailure
		return out
	}
	reasons := make([]string, 0, len(failures))
	for _, f := range failures {
		reasons = append(reasons, f.String())
	}
	out.Message = strings.Join(reasons, "\n")
	return out
}

// Round reads back the audit rows of one submission round.
func (s *Submitter) Round(ctx context.Context, roundID string) ([]roundlog.Entry, error) {
	if s.rounds == nil {
		return nil, ErrRoundLogDisabled
	}
	entries, err := s.rounds.Round(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("read round %s: %w", roundID, err)
	}
	return entries, nil
}
