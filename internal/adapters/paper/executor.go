package paper

// executor.go — ejecución simulada: todo intent se llena al instante al
// precio de referencia del ciclo, sin slippage ni comisiones. Mismas
// entradas, mismos fills: el modo paper es determinista para poder
// comparar sesiones.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"
)

// Executor implementa ports.OrderExecutor sin tocar ningún broker.
type Executor struct {
	filled int
}

// NewExecutor crea un executor paper.
func NewExecutor() *Executor {
	return &Executor{}
}

// Submit llena el intent síncronamente al precio de referencia.
func (e *Executor) Submit(_ context.Context, intent domain.OrderIntent) (domain.Fill, error) {
	if intent.Delta == 0 {
		return domain.Fill{}, errors.New("paper.Executor: zero delta intent")
	}
	if intent.Price <= 0 {
		return domain.Fill{}, fmt.Errorf("paper.Executor: no reference price for %s", intent.Symbol)
	}

	e.filled++
	return domain.Fill{
		OrderID:   uuid.NewString(),
		Symbol:    intent.Symbol,
		Quantity:  intent.Delta,
		Price:     intent.Price,
		Timestamp: time.Now().UTC(),
	}, nil
}

// CancelOpen no hace nada: los fills paper son síncronos, nunca hay
// órdenes vivas que reconciliar.
func (e *Executor) CancelOpen(context.Context) error {
	return nil
}

// Filled devuelve cuántas órdenes se han llenado en la sesión.
func (e *Executor) Filled() int {
	return e.filled
}
