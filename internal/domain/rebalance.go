package domain

import (
	"sort"
	"time"
)

// OrderIntent es el delta que el executor debe aplicar a un instrumento
// para llevarlo de la posición actual a la posición objetivo.
type OrderIntent struct {
	Symbol string
	Delta  int     // con signo: positivo = comprar
	Target int     // cantidad objetivo tras aplicar el delta
	Price  float64 // último close conocido, referencia para fills paper
}

// RebalanceEvent es la lista ordenada de intents de un rebalanceo.
// El índice de ciclo actúa como identificador estable: un mismo evento
// se aplica como máximo una vez aunque el proceso se reinicie.
type RebalanceEvent struct {
	Cycle     int
	Timestamp time.Time
	Intents   []OrderIntent
}

// DiffTargets compara el portfolio con las cantidades objetivo y devuelve
// un intent por cada símbolo cuyo objetivo difiere de la tenencia actual,
// ordenados por símbolo para que la ejecución sea determinista.
func DiffTargets(p *Portfolio, targets map[string]int, prices map[string]float64) []OrderIntent {
	var intents []OrderIntent
	for sym, target := range targets {
		current := p.Quantity(sym)
		if target == current {
			continue
		}
		intents = append(intents, OrderIntent{
			Symbol: sym,
			Delta:  target - current,
			Target: target,
			Price:  prices[sym],
		})
	}
	sort.Slice(intents, func(i, j int) bool { return intents[i].Symbol < intents[j].Symbol })
	return intents
}

// Snapshot es lo que el engine publica al notifier tras cada ciclo.
type Snapshot struct {
	Cycle      int
	Timestamp  time.Time
	WarmCount  int
	BasketSize int
	Signals    []Signal   // ranked, puede estar vacío durante warmup
	Positions  []Position // ordenadas por símbolo
	Prices     map[string]float64
	Rebalanced bool
	OrdersSent int
	Warnings   []string
}
