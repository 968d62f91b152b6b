package engine

import (
	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"
)

// Sizer convierte el ranking de señales en cantidades objetivo por
// instrumento, siempre acotadas por maxPosition.
type Sizer struct {
	positionSize  float64 // unidades de moneda por instrumento
	maxPosition   int     // tope de cantidad, independiente de la señal
	longShort     bool    // true = basket cross-sectional con cortos
	longFraction  float64
	shortFraction float64
}

// NewSizer crea un sizer. longFraction/shortFraction son la proporción del
// ranking que recibe exposición larga/corta (0.5 = mitad superior/inferior).
func NewSizer(positionSize float64, maxPosition int, longShort bool, longFraction, shortFraction float64) *Sizer {
	if longFraction <= 0 || longFraction > 1 {
		longFraction = 0.5
	}
	if shortFraction <= 0 || shortFraction > 1 {
		shortFraction = 0.5
	}
	return &Sizer{
		positionSize:  positionSize,
		maxPosition:   maxPosition,
		longShort:     longShort,
		longFraction:  longFraction,
		shortFraction: shortFraction,
	}
}

// Targets devuelve la cantidad objetivo por símbolo para las señales rankeadas.
// Los mejor rankeados reciben exposición larga; los peor rankeados, corta si
// el basket es long/short o plana si es solo-momentum. Los instrumentos sin
// señal (no warm) no aparecen en el mapa: conservan su posición actual.
func (s *Sizer) Targets(ranked []domain.Signal, prices map[string]float64) map[string]int {
	targets := make(map[string]int, len(ranked))
	if len(ranked) == 0 {
		return targets
	}

	n := len(ranked)
	nLong := int(float64(n) * s.longFraction)
	if nLong < 1 {
		nLong = 1
	}
	nShort := 0
	if s.longShort {
		nShort = int(float64(n) * s.shortFraction)
		if nShort < 1 {
			nShort = 1
		}
		// Un basket pequeño no puede ser largo y corto del mismo instrumento.
		if nLong+nShort > n {
			nShort = n - nLong
		}
	}

	for i, sig := range ranked {
		qty := s.quantity(prices[sig.Symbol])
		switch {
		case i < nLong:
			targets[sig.Symbol] = qty
		case nShort > 0 && i >= n-nShort:
			targets[sig.Symbol] = -qty
		default:
			targets[sig.Symbol] = 0
		}
	}
	return targets
}

// quantity devuelve min(positionSize ÷ precio, maxPosition).
func (s *Sizer) quantity(price float64) int {
	if price <= 0 {
		return 0
	}
	qty := int(s.positionSize / price)
	if qty > s.maxPosition {
		qty = s.maxPosition
	}
	if qty < 0 {
		qty = 0
	}
	return qty
}
