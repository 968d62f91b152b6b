package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func barAt(sym string, minute int, close float64) Bar {
	base := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	return Bar{
		Symbol:    sym,
		Timestamp: base.Add(time.Duration(minute) * time.Minute),
		Open:      close,
		High:      close,
		Low:       close,
		Close:     close,
		Volume:    100,
	}
}

func TestWindow_BoundedRetention(t *testing.T) {
	w := NewWindow(3)
	for i := 0; i < 10; i++ {
		w.Append(barAt("AAPL", i, 100+float64(i)))
	}

	assert.Equal(t, 3, w.Len())
	// Los tres últimos, en orden cronológico
	assert.Equal(t, []float64{107, 108, 109}, w.Closes())
}

func TestWindow_WarmPredicate(t *testing.T) {
	w := NewWindow(10)
	assert.False(t, w.Warm(3))

	w.Append(barAt("AAPL", 0, 100))
	w.Append(barAt("AAPL", 1, 101))
	assert.False(t, w.Warm(3))

	w.Append(barAt("AAPL", 2, 102))
	assert.True(t, w.Warm(3))
}

func TestWindow_IgnoresStaleBar(t *testing.T) {
	w := NewWindow(10)
	w.Append(barAt("AAPL", 0, 100))
	w.Append(barAt("AAPL", 1, 101))

	// Mismo timestamp que el último: el feed repitió el latest bar
	w.Append(barAt("AAPL", 1, 999))
	assert.Equal(t, 2, w.Len())
	assert.Equal(t, []float64{100, 101}, w.Closes())
}

func TestWindow_Last(t *testing.T) {
	w := NewWindow(5)
	_, ok := w.Last()
	assert.False(t, ok)

	w.Append(barAt("AAPL", 0, 100))
	w.Append(barAt("AAPL", 1, 105))
	last, ok := w.Last()
	assert.True(t, ok)
	assert.Equal(t, 105.0, last.Close)
}
