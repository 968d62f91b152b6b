package strategy

import "github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"

// MADivergence puntúa cada instrumento por la desviación relativa de su
// último close respecto a la media móvil simple de Lookback closes:
// (close − SMA) / SMA. Positivo = cotiza por encima de su media.
type MADivergence struct {
	Lookback int
}

// Name implementa Strategy.
func (s *MADivergence) Name() string { return "ma_divergence" }

// Score implementa Strategy.
func (s *MADivergence) Score(w *domain.Window) (float64, bool) {
	closes := w.Closes()
	if len(closes) < s.Lookback {
		return 0, false
	}

	window := closes[len(closes)-s.Lookback:]
	sum := 0.0
	for _, c := range window {
		sum += c
	}
	mean := sum / float64(len(window))
	if mean == 0 {
		return 0, false
	}
	return (closes[len(closes)-1] - mean) / mean, true
}
