package randsrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_SeededStreamsRepeat(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestIntBetween_Inclusive(t *testing.T) {
	assert.Equal(t, 1, IntBetween(NewScripted(0), 1, 1825))
	assert.Equal(t, 1825, IntBetween(NewScripted(0.99999), 1, 1825))

	src := New(7)
	for i := 0; i < 1000; i++ {
		v := IntBetween(src, 20, 100)
		assert.GreaterOrEqual(t, v, 20)
		assert.LessOrEqual(t, v, 100)
	}
}

func TestChance_ConsumesDraw(t *testing.T) {
	src := NewScripted(0.5, 0.5)
	assert.False(t, Chance(src, 0))
	assert.True(t, Chance(src, 0.6))
	assert.Equal(t, 2, src.Consumed())
}

func TestPick_Weights(t *testing.T) {
	table := []Weighted[string]{
		{Value: "up", Weight: 0.75},
		{Value: "down", Weight: 0.15},
		{Value: "degraded", Weight: 0.10},
	}

	assert.Equal(t, "up", Pick(NewScripted(0.0), table))
	assert.Equal(t, "up", Pick(NewScripted(0.749), table))
	assert.Equal(t, "down", Pick(NewScripted(0.8), table))
	assert.Equal(t, "degraded", Pick(NewScripted(0.95), table))
}

func TestChoice(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	assert.Equal(t, "a", Choice(NewScripted(0.1), items))
	assert.Equal(t, "c", Choice(NewScripted(0.6), items))
	assert.Equal(t, "d", Choice(NewScripted(0.99), items))
}
