package domain

import (
	"sort"
	"time"
)

// Signal es el score de ranking de un instrumento "warm" en un ciclo.
// Los instrumentos sin suficiente histórico no producen señal.
type Signal struct {
	Symbol    string
	Timestamp time.Time
	Score     float64
	Rank      int // 1 = mejor
}

// RankSignals ordena las señales por score descendente, desempatando por
// símbolo en orden lexicográfico, y asigna ranks 1..n. El desempate fijo
// garantiza rankings reproducibles para secuencias de entrada idénticas.
func RankSignals(signals []Signal) []Signal {
	ranked := make([]Signal, len(signals))
	copy(ranked, signals)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
