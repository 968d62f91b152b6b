package strategy

import "github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"

// Momentum puntúa cada instrumento por su retorno porcentual sobre los
// últimos Lookback closes: (último − primero) / primero. Positivo = subiendo.
type Momentum struct {
	Lookback int
}

// Name implementa Strategy.
func (m *Momentum) Name() string { return "momentum" }

// Score implementa Strategy. Devuelve ok=false si la ventana tiene menos de
// Lookback bars o el precio base es cero.
func (m *Momentum) Score(w *domain.Window) (float64, bool) {
	closes := w.Closes()
	if len(closes) < m.Lookback {
		return 0, false
	}
	first := closes[len(closes)-m.Lookback]
	last := closes[len(closes)-1]
	if first == 0 {
		return 0, false
	}
	return (last - first) / first, true
}
