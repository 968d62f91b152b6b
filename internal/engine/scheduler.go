package engine

// Scheduler decide en qué ciclos se aplican de verdad las posiciones
// objetivo. Entre disparos, el output del sizer se calcula pero se descarta.
type Scheduler struct {
	period int
}

// NewScheduler crea un scheduler que dispara cada period ciclos.
func NewScheduler(period int) *Scheduler {
	if period < 1 {
		period = 1
	}
	return &Scheduler{period: period}
}

// Fires devuelve true exactamente en los ciclos que son múltiplos
// positivos del periodo de rebalanceo, y en ningún otro.
func (s *Scheduler) Fires(cycle int) bool {
	return cycle > 0 && cycle%s.period == 0
}
