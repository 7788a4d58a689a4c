package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
)

// wireTime accepts the timestamp shapes the services emit: SQLite's
// "YYYY-MM-DD HH:MM:SS", RFC3339 with or without zone, or null.
type wireTime struct {
	time.Time
	Valid bool
}

var wireTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05.999999",
}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = wireTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		*t = wireTime{}
		return nil
	}
	for _, layout := range wireTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = wireTime{Time: parsed, Valid: true}
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognised format %q", s)
}

func (t wireTime) ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

type menuItemDTO struct {
	Nome      string          `json:"nome"`
	Descricao string          `json:"descricao"`
	Preco     decimal.Decimal `json:"preco"`
}

func (d menuItemDTO) toEntity() entity.MenuItem {
	return entity.MenuItem{Name: d.Nome, Description: d.Descricao, Price: d.Preco}
}

// orderDTO covers both the intake order and the kitchen order rows.
type orderDTO struct {
	ID         int64           `json:"id"`
	PedidoID   int64           `json:"pedido_id"`
	Cliente    string          `json:"cliente"`
	Item       string          `json:"item"`
	Observacao string          `json:"observacao"`
	Valor      decimal.Decimal `json:"valor"`
	Status     string          `json:"status"`

	DataPedido        wireTime `json:"data_pedido"`
	DataRecebimento   wireTime `json:"data_recebimento"`
	DataInicioPreparo wireTime `json:"data_inicio_preparo"`
	DataConclusao     wireTime `json:"data_conclusao"`

	TempoPreparacao *int `json:"tempo_preparacao"`
}

func (d orderDTO) toEntity() entity.Order {
	received := d.DataRecebimento
	if !received.Valid {
		received = d.DataPedido
	}

	o := entity.Order{
		ID:          d.ID,
		IntakeID:    d.PedidoID,
		ClientName:  d.Cliente,
		ItemName:    d.Item,
		Note:        d.Observacao,
		Value:       d.Valor,
		Status:      entity.Status(d.Status),
		ReceivedAt:  received.Time,
		StartedAt:   d.DataInicioPreparo.ptr(),
		CompletedAt: d.DataConclusao.ptr(),
	}
	// the kitchen table defaults the column to 0 until the order is finished
	if d.TempoPreparacao != nil && *d.TempoPreparacao > 0 {
		m := *d.TempoPreparacao
		o.PreparationMinutes = &m
	}
	if o.Status == entity.StatusCanceled {
		o.CancelReason = d.Observacao
	}
	return o
}

func ordersToEntity(in []orderDTO) []entity.Order {
	out := make([]entity.Order, 0, len(in))
	for _, d := range in {
		out = append(out, d.toEntity())
	}
	return out
}

type createOrderRequest struct {
	Cliente    string `json:"cliente"`
	Item       string `json:"item"`
	Observacao string `json:"observacao,omitempty"`
}

type stockDTO struct {
	Nome          string `json:"nome"`
	Quantidade    int    `json:"quantidade"`
	Unidade       string `json:"unidade"`
	EstoqueMinimo *int   `json:"estoque_minimo"`
}

func (d stockDTO) toEntity() entity.IngredientStock {
	return entity.IngredientStock{
		Name:     d.Nome,
		Quantity: d.Quantidade,
		Minimum:  d.EstoqueMinimo,
		Unit:     d.Unidade,
	}
}

type finishRequest struct {
	TempoPreparacao int `json:"tempo_preparacao,omitempty"`
}

type finishResponse struct {
	TempoTotal *int `json:"tempo_total"`
}

type cancelRequest struct {
	Motivo string `json:"motivo"`
}

type replenishRequest struct {
	Quantidade int    `json:"quantidade"`
	Motivo     string `json:"motivo,omitempty"`
}
