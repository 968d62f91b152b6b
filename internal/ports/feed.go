package ports

import (
	"context"

	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"
)

// MarketDataFeed obtiene el último bar disponible de un instrumento.
type MarketDataFeed interface {
	// FetchLatestBar devuelve el bar más reciente del instrumento.
	// La implementación se encarga de retries acotados con backoff;
	// si los agota devuelve error y el engine salta el instrumento
	// durante ese ciclo sin fabricar datos.
	FetchLatestBar(ctx context.Context, inst domain.Instrument) (domain.Bar, error)
}

// MarketClock indica si el mercado del basket está abierto.
// Para crypto siempre lo está; para equities la implementación
// consulta el calendario del broker.
type MarketClock interface {
	IsOpen(ctx context.Context) (bool, error)
}
