package domain

import (
	"math"
	"sort"
	"time"
)

// Mode indica si el engine ejecuta órdenes reales o simuladas.
// Inmutable durante toda la vida del proceso.
type Mode int

const (
	ModePaper Mode = iota
	ModeLive
)

// String devuelve el nombre del modo.
func (m Mode) String() string {
	if m == ModeLive {
		return "live"
	}
	return "paper"
}

// Position es la tenencia actual de un instrumento: cantidad con signo
// y precio de referencia de entrada.
type Position struct {
	Symbol     string
	Quantity   int
	EntryPrice float64
}

// Fill es una ejecución confirmada: la única vía por la que cambia una Position.
type Fill struct {
	OrderID   string
	Symbol    string
	Quantity  int // con signo: negativo = venta
	Price     float64
	Timestamp time.Time
}

// Portfolio es el estado de posiciones del engine. Propietario único: el
// loop principal; solo se muta vía Apply tras un fill confirmado.
type Portfolio struct {
	mode      Mode
	positions map[string]Position
}

// NewPortfolio crea un portfolio vacío en el modo dado.
func NewPortfolio(mode Mode) *Portfolio {
	return &Portfolio{mode: mode, positions: make(map[string]Position)}
}

// Mode devuelve el modo de ejecución (fijo para toda la vida del proceso).
func (p *Portfolio) Mode() Mode {
	return p.mode
}

// Quantity devuelve la cantidad actual del símbolo (0 si no hay posición).
func (p *Portfolio) Quantity(symbol string) int {
	return p.positions[symbol].Quantity
}

// Apply actualiza la posición del símbolo tras un fill confirmado.
// La posición que llega a cero se elimina del mapa.
func (p *Portfolio) Apply(f Fill) {
	pos := p.positions[f.Symbol]
	prevQty := pos.Quantity
	pos.Symbol = f.Symbol
	pos.Quantity += f.Quantity

	switch {
	case pos.Quantity == 0:
		delete(p.positions, f.Symbol)
		return
	case prevQty == 0 || (prevQty > 0) != (pos.Quantity > 0):
		// Posición nueva o que cambió de signo: el fill fija la entrada.
		pos.EntryPrice = f.Price
	}
	p.positions[f.Symbol] = pos
}

// Positions devuelve una copia de las posiciones ordenada por símbolo.
func (p *Portfolio) Positions() []Position {
	out := make([]Position, 0, len(p.positions))
	for _, pos := range p.positions {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Exposure devuelve la exposición bruta: sum(|qty| × precio actual).
// Los símbolos sin precio conocido usan el precio de entrada.
func (p *Portfolio) Exposure(prices map[string]float64) float64 {
	total := 0.0
	for sym, pos := range p.positions {
		price, ok := prices[sym]
		if !ok || price <= 0 {
			price = pos.EntryPrice
		}
		total += math.Abs(float64(pos.Quantity)) * price
	}
	return total
}
