package domain

import "time"

// Bar es una observación OHLCV de un instrumento en un punto del tiempo.
// Inmutable una vez registrada.
type Bar struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Valid devuelve true si el bar tiene un precio de cierre usable.
func (b Bar) Valid() bool {
	return b.Symbol != "" && b.Close > 0
}
