package ports

import (
	"context"

	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"
)

// OrderExecutor aplica order intents, reales o simulados.
type OrderExecutor interface {
	// Submit ejecuta un intent y devuelve el fill confirmado.
	// En modo live espera la confirmación del broker antes de devolver;
	// en modo paper simula un fill inmediato al último close conocido.
	// Un error significa que la posición NO cambió: no hay fills parciales
	// ni asumidos.
	Submit(ctx context.Context, intent domain.OrderIntent) (domain.Fill, error)

	// CancelOpen cancela las órdenes abiertas en el broker durante el
	// shutdown. Las que no pueda cancelar quedan logueadas con su ID para
	// reconciliación manual. En modo paper es un no-op.
	CancelOpen(ctx context.Context) error
}
