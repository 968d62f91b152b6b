package paper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"
)

func TestExecutor_FillsAtReferencePrice(t *testing.T) {
	e := NewExecutor()

	fill, err := e.Submit(context.Background(), domain.OrderIntent{
		Symbol: "IEF", Delta: -4, Target: 0, Price: 96.25,
	})

	require.NoError(t, err)
	assert.Equal(t, "IEF", fill.Symbol)
	assert.Equal(t, -4, fill.Quantity)
	assert.Equal(t, 96.25, fill.Price)
	assert.NotEmpty(t, fill.OrderID)
	assert.Equal(t, 1, e.Filled())
}

func TestExecutor_RejectsWithoutReferencePrice(t *testing.T) {
	e := NewExecutor()

	_, err := e.Submit(context.Background(), domain.OrderIntent{Symbol: "IEF", Delta: 3})

	require.Error(t, err)
	assert.Equal(t, 0, e.Filled())
}

func TestExecutor_CancelOpenIsNoop(t *testing.T) {
	assert.NoError(t, NewExecutor().CancelOpen(context.Background()))
}
