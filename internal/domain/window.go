package domain

// Window retiene el histórico acotado de bars de un instrumento.
// Los bars se añaden por el final; al superar la retención se desecha
// el más antiguo. Nunca se reordena.
type Window struct {
	bars      []Bar
	retention int
}

// NewWindow crea una ventana con la retención dada (mínimo 1).
func NewWindow(retention int) *Window {
	if retention < 1 {
		retention = 1
	}
	return &Window{retention: retention}
}

// Append añade un bar nuevo, desechando el más antiguo si hace falta.
// Bars duplicados (mismo timestamp que el último) se ignoran: un fetch
// fallido en el ciclo anterior puede devolver el mismo "latest bar" dos veces.
func (w *Window) Append(b Bar) {
	if n := len(w.bars); n > 0 && !b.Timestamp.After(w.bars[n-1].Timestamp) {
		return
	}
	w.bars = append(w.bars, b)
	if len(w.bars) > w.retention {
		w.bars = w.bars[len(w.bars)-w.retention:]
	}
}

// Len devuelve el número de bars retenidos.
func (w *Window) Len() int {
	return len(w.bars)
}

// Warm devuelve true si la ventana tiene al menos minBars bars.
func (w *Window) Warm(minBars int) bool {
	return len(w.bars) >= minBars
}

// Last devuelve el bar más reciente, o false si la ventana está vacía.
func (w *Window) Last() (Bar, bool) {
	if len(w.bars) == 0 {
		return Bar{}, false
	}
	return w.bars[len(w.bars)-1], true
}

// Closes devuelve los precios de cierre en orden cronológico.
func (w *Window) Closes() []float64 {
	out := make([]float64, len(w.bars))
	for i, b := range w.bars {
		out[i] = b.Close
	}
	return out
}
