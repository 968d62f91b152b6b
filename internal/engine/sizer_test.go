package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"
)

func rankedSignals(symbols ...string) []domain.Signal {
	sigs := make([]domain.Signal, len(symbols))
	for i, s := range symbols {
		sigs[i] = domain.Signal{Symbol: s, Score: float64(len(symbols) - i), Rank: i + 1}
	}
	return sigs
}

func TestSizer_LongOnlyTopHalfLong(t *testing.T) {
	s := NewSizer(1000, 10, false, 0.5, 0.5)
	prices := map[string]float64{"A": 100, "B": 100, "C": 100, "D": 100}

	targets := s.Targets(rankedSignals("A", "B", "C", "D"), prices)

	assert.Equal(t, 10, targets["A"])
	assert.Equal(t, 10, targets["B"])
	assert.Equal(t, 0, targets["C"])
	assert.Equal(t, 0, targets["D"])
}

func TestSizer_LongShortBottomHalfShort(t *testing.T) {
	s := NewSizer(1000, 10, true, 0.5, 0.5)
	prices := map[string]float64{"A": 100, "B": 100, "C": 100, "D": 100}

	targets := s.Targets(rankedSignals("A", "B", "C", "D"), prices)

	assert.Equal(t, 10, targets["A"])
	assert.Equal(t, 10, targets["B"])
	assert.Equal(t, -10, targets["C"])
	assert.Equal(t, -10, targets["D"])
}

func TestSizer_QuantityCappedAtMaxPosition(t *testing.T) {
	s := NewSizer(100000, 10, false, 0.5, 0.5)
	targets := s.Targets(rankedSignals("A", "B"), map[string]float64{"A": 50, "B": 50})

	// 100000/50 = 2000 acciones → cap en 10
	assert.Equal(t, 10, targets["A"])
}

func TestSizer_QuantityFromPositionSize(t *testing.T) {
	s := NewSizer(1000, 100, false, 0.5, 0.5)
	targets := s.Targets(rankedSignals("A", "B"), map[string]float64{"A": 121, "B": 121})

	// floor(1000/121) = 8
	assert.Equal(t, 8, targets["A"])
}

func TestSizer_TwoInstrumentLongShort(t *testing.T) {
	s := NewSizer(1000, 10, true, 0.5, 0.5)
	targets := s.Targets(rankedSignals("A", "B"), map[string]float64{"A": 133.1, "B": 72.9})

	assert.Equal(t, 7, targets["A"])   // floor(1000/133.1)
	assert.Equal(t, -10, targets["B"]) // floor(1000/72.9)=13 → cap 10, corto
}

func TestSizer_UnknownPriceYieldsZero(t *testing.T) {
	s := NewSizer(1000, 10, false, 0.5, 0.5)
	targets := s.Targets(rankedSignals("A"), map[string]float64{})
	assert.Equal(t, 0, targets["A"])
}

func TestSizer_EmptyRanking(t *testing.T) {
	s := NewSizer(1000, 10, true, 0.5, 0.5)
	assert.Empty(t, s.Targets(nil, nil))
}

func TestSizer_SingleInstrumentNeverBothSides(t *testing.T) {
	s := NewSizer(1000, 10, true, 0.5, 0.5)
	targets := s.Targets(rankedSignals("A"), map[string]float64{"A": 100})

	// nLong=1 absorbe el único instrumento; no queda nada para cortos
	assert.Equal(t, 10, targets["A"])
}
