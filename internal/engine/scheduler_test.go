package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_FiresOnExactMultiples(t *testing.T) {
	s := NewScheduler(3)

	fired := []int{}
	for cycle := 1; cycle <= 10; cycle++ {
		if s.Fires(cycle) {
			fired = append(fired, cycle)
		}
	}
	assert.Equal(t, []int{3, 6, 9}, fired)
}

func TestScheduler_NeverFiresOnZero(t *testing.T) {
	s := NewScheduler(2)
	assert.False(t, s.Fires(0))
}

func TestScheduler_PeriodOneFiresEveryCycle(t *testing.T) {
	s := NewScheduler(1)
	for cycle := 1; cycle <= 5; cycle++ {
		assert.True(t, s.Fires(cycle))
	}
}

func TestScheduler_InvalidPeriodClampedToOne(t *testing.T) {
	s := NewScheduler(0)
	assert.True(t, s.Fires(1))
}
