package preview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerLastArmWins(t *testing.T) {
	clock := &fakeClock{}
	d := NewDebouncer(50*time.Millisecond, clock.AfterFunc)

	var got []int
	for i := 0; i < 3; i++ {
		i := i
		d.Arm(func(uint64) { got = append(got, i) })
	}

	assert.True(t, d.Pending())
	assert.Equal(t, 1, clock.fireAll())
	assert.Equal(t, []int{2}, got)
	assert.False(t, d.Pending())
}

func TestDebouncerCancel(t *testing.T) {
	clock := &fakeClock{}
	d := NewDebouncer(time.Millisecond, clock.AfterFunc)

	token := d.Arm(func(uint64) { t.Fatal("cancelled callback ran") })
	assert.True(t, d.Current(token))

	d.Cancel()

	assert.False(t, d.Current(token))
	assert.False(t, d.Pending())
	assert.Zero(t, clock.fireAll())
}

func TestDebouncerStaleTimerDoesNotFire(t *testing.T) {
	clock := &fakeClock{}
	d := NewDebouncer(time.Millisecond, clock.AfterFunc)

	ran := 0
	d.Arm(func(uint64) { ran++ })
	first := clock.timers[0]
	d.Arm(func(uint64) { ran += 10 })

	// The first timer already left the runtime queue before Stop.
	first.f()

	assert.Zero(t, ran)
	clock.fireAll()
	assert.Equal(t, 10, ran)
}

func TestDebouncerRealTimer(t *testing.T) {
	d := NewDebouncer(5*time.Millisecond, nil)
	done := make(chan uint64, 1)

	token := d.Arm(func(tok uint64) { done <- tok })

	select {
	case got := <-done:
		assert.Equal(t, token, got)
	case <-time.After(time.Second):
		t.Fatal("debounced callback never ran")
	}
}
