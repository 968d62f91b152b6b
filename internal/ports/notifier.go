package ports

import (
	"context"

	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"
)

// Notifier presenta el estado del ciclo al operador.
type Notifier interface {
	// Notify muestra el snapshot del ciclo: ranking, posiciones y avisos.
	// En la implementación de consola imprime una línea compacta o una
	// tabla completa según configuración.
	Notify(ctx context.Context, snap domain.Snapshot) error
}
