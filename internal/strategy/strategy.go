package strategy

import (
	"fmt"

	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"
)

// Strategy define el contrato para puntuar un instrumento a partir de su
// histórico de bars. Cada estrategia encapsula una fórmula de señal distinta;
// el scheduler y el executor no saben cuál está en uso.
type Strategy interface {
	// Name devuelve el identificador de la estrategia.
	Name() string

	// Score calcula el score escalar del instrumento. Devuelve ok=false si
	// la ventana no tiene suficiente histórico para un score significativo;
	// en ese caso el instrumento queda fuera del ranking del ciclo.
	Score(w *domain.Window) (score float64, ok bool)
}

// New construye la estrategia con el nombre y lookback dados.
// Estrategias disponibles: "momentum" (retorno sobre la ventana) y
// "ma_divergence" (desviación del close respecto a su media móvil).
func New(name string, lookback int) (Strategy, error) {
	if lookback <= 1 {
		return nil, fmt.Errorf("strategy.New: lookback must be > 1, got %d", lookback)
	}
	switch name {
	case "momentum", "":
		return &Momentum{Lookback: lookback}, nil
	case "ma_divergence":
		return &MADivergence{Lookback: lookback}, nil
	default:
		return nil, fmt.Errorf("strategy.New: unknown strategy %q", name)
	}
}
