package ports

import (
	"context"

	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"
)

// DataRecorder persiste bars observados y órdenes ejecutadas, best-effort.
// Un fallo de escritura se loguea y nunca aborta el ciclo de trading.
type DataRecorder interface {
	// RecordBar añade un bar al sink junto con la señal y posición del ciclo.
	RecordBar(ctx context.Context, bar domain.Bar, signal float64, position int) error

	// RecordFill añade una ejecución confirmada al sink.
	RecordFill(ctx context.Context, cycle int, f domain.Fill) error

	// MarkRebalanceApplied registra que el evento del ciclo dado ya se aplicó.
	MarkRebalanceApplied(ctx context.Context, cycle int) error

	// LastAppliedCycle devuelve el último ciclo cuyo rebalanceo se aplicó,
	// o 0 si no hay ninguno. Permite no re-aplicar eventos tras un reinicio.
	LastAppliedCycle(ctx context.Context) (int, error)

	// Close cierra el sink limpiamente.
	Close() error
}
