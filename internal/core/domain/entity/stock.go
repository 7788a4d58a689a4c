package entity

import "fmt"

// DefaultMinimumStock applies when the inventory service reports no minimum.
const DefaultMinimumStock = 10

const defaultUnit = "unidade"

// IngredientStock is one inventory row.
type IngredientStock struct {
	Name     string
	Quantity int
	// Minimum is nil when the service did not report a threshold.
	Minimum *int
	Unit    string
}

// Health is the derived inventory label. It is never stored.
type Health string

const (
	HealthOut Health = "Esgotado"
	HealthLow Health = "Baixo"
	HealthOK  Health = "OK"
)

// Class is the css-like class the stock table uses for h.
func (h Health) Class() string {
	switch h {
	case HealthOut:
		return "status-critico"
	case HealthLow:
		return "status-baixo"
	default:
		return "status-ok"
	}
}

// Classify evaluates out, then low, then ok, in that order.
func Classify(quantity, minimum int) Health {
	switch {
	case quantity == 0:
		return HealthOut
	case quantity <= minimum:
		return HealthLow
	default:
		return HealthOK
	}
}

// MinimumOr returns the reported minimum, or fallback when there is none.
func (s IngredientStock) MinimumOr(fallback int) int {
	if s.Minimum == nil {
		return fallback
	}
	return *s.Minimum
}

func (s IngredientStock) Health() Health {
	return Classify(s.Quantity, s.MinimumOr(DefaultMinimumStock))
}

func (s IngredientStock) UnitOrDefault() string {
	if s.Unit == "" {
		return defaultUnit
	}
	return s.Unit
}

// Replenished returns the stock after adding delta units. delta must be positive.
func (s IngredientStock) Replenished(delta int) (IngredientStock, error) {
	if delta <= 0 {
		return s, fmt.Errorf("replenish %s: delta must be positive, got %d", s.Name, delta)
	}
	s.Quantity += delta
	return s, nil
}
