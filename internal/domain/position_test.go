package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fill(sym string, qty int, price float64) Fill {
	return Fill{Symbol: sym, Quantity: qty, Price: price, Timestamp: time.Now().UTC()}
}

func TestPortfolio_ApplyOpensPosition(t *testing.T) {
	p := NewPortfolio(ModePaper)
	p.Apply(fill("AAPL", 10, 150))

	assert.Equal(t, 10, p.Quantity("AAPL"))
	positions := p.Positions()
	assert.Len(t, positions, 1)
	assert.Equal(t, 150.0, positions[0].EntryPrice)
}

func TestPortfolio_ApplyClosesPosition(t *testing.T) {
	p := NewPortfolio(ModePaper)
	p.Apply(fill("AAPL", 10, 150))
	p.Apply(fill("AAPL", -10, 155))

	assert.Equal(t, 0, p.Quantity("AAPL"))
	assert.Empty(t, p.Positions())
}

func TestPortfolio_FlipResetsEntryPrice(t *testing.T) {
	p := NewPortfolio(ModePaper)
	p.Apply(fill("TLT", 5, 90))
	p.Apply(fill("TLT", -12, 88)) // 5 long → 7 short

	assert.Equal(t, -7, p.Quantity("TLT"))
	assert.Equal(t, 88.0, p.Positions()[0].EntryPrice)
}

func TestPortfolio_PartialCloseKeepsEntryPrice(t *testing.T) {
	p := NewPortfolio(ModePaper)
	p.Apply(fill("GLD", 10, 180))
	p.Apply(fill("GLD", -4, 190))

	assert.Equal(t, 6, p.Quantity("GLD"))
	assert.Equal(t, 180.0, p.Positions()[0].EntryPrice)
}

func TestPortfolio_ExposureUsesCurrentPrices(t *testing.T) {
	p := NewPortfolio(ModePaper)
	p.Apply(fill("QQQ", 10, 400))
	p.Apply(fill("TLT", -5, 90))

	exposure := p.Exposure(map[string]float64{"QQQ": 410, "TLT": 92})
	assert.InDelta(t, 10*410+5*92, exposure, 0.001)
}

func TestPortfolio_PositionsSortedBySymbol(t *testing.T) {
	p := NewPortfolio(ModeLive)
	p.Apply(fill("XLK", 1, 1))
	p.Apply(fill("XLE", 1, 1))
	p.Apply(fill("XLF", 1, 1))

	positions := p.Positions()
	assert.Equal(t, "XLE", positions[0].Symbol)
	assert.Equal(t, "XLF", positions[1].Symbol)
	assert.Equal(t, "XLK", positions[2].Symbol)
}
