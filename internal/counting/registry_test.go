package counting

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/stacktrace/internal/cards"
)

func TestBuiltinSystems(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Equal(t, []string{"hilo", "zen", "halves"}, r.IDs())

	tests := []struct {
		id       string
		name     string
		level    float64
		balanced bool
	}{
		{id: "hilo", name: "Hi-Lo", level: 1, balanced: true},
		{id: "zen", name: "Zen Count", level: 2, balanced: true},
		{id: "halves", name: "Wong Halves", level: 1.5, balanced: true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			system, err := r.Get(tt.id)
			require.NoError(t, err)
			require.NoError(t, system.Validate())
			assert.Equal(t, tt.name, system.Name)
			assert.Equal(t, tt.level, system.Level())
			assert.Equal(t, tt.balanced, system.Balanced())
		})
	}
}

func TestHiLoWeights(t *testing.T) {
	system, err := NewDefaultRegistry().Get("hilo")
	require.NoError(t, err)

	assert.Equal(t, 1.0, system.Weight(cards.Two))
	assert.Equal(t, 0.0, system.Weight(cards.Eight))
	assert.Equal(t, -1.0, system.Weight(cards.Ace))
	assert.Equal(t, 1, system.Sign(cards.Six))
	assert.Equal(t, 0, system.Sign(cards.Seven))
	assert.Equal(t, -1, system.Sign(cards.King))
}

func TestRegisterValidation(t *testing.T) {
	r := NewRegistry()

	t.Run("missing ranks", func(t *testing.T) {
		err := r.Register(System{
			ID:      "partial",
			Weights: map[cards.Rank]float64{cards.Two: 1, cards.Ace: -1},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrIncompleteSystem))
		assert.Contains(t, err.Error(), "10")
		_, ok := r.Lookup("partial")
		assert.False(t, ok)
	})

	t.Run("empty id", func(t *testing.T) {
		err := r.Register(System{Weights: Builtin()[0].Weights})
		assert.Error(t, err)
	})

	t.Run("duplicate id", func(t *testing.T) {
		require.NoError(t, r.Register(Builtin()[0]))
		err := r.Register(Builtin()[0])
		assert.True(t, errors.Is(err, ErrDuplicateSystem))
	})

	t.Run("must register panics", func(t *testing.T) {
		assert.Panics(t, func() {
			r.MustRegister(System{ID: "broken"})
		})
	})
}

func TestRegistryStoresCopies(t *testing.T) {
	system := Builtin()[0]
	r := NewRegistry()
	require.NoError(t, r.Register(system))

	system.Weights[cards.Two] = 99

	stored, err := r.Get("hilo")
	require.NoError(t, err)
	assert.Equal(t, 1.0, stored.Weight(cards.Two))

	stored.Weights[cards.Two] = 42
	again, _ := r.Get("hilo")
	assert.Equal(t, 1.0, again.Weight(cards.Two))
}

func TestUnknownSystem(t *testing.T) {
	_, err := NewDefaultRegistry().Get("omega")
	assert.True(t, errors.Is(err, ErrUnknownSystem))
}

func TestNext(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Equal(t, "zen", r.Next("hilo"))
	assert.Equal(t, "halves", r.Next("zen"))
	assert.Equal(t, "hilo", r.Next("halves"))
	assert.Equal(t, "hilo", r.Next("missing"))
	assert.Equal(t, "x", NewRegistry().Next("x"))
}

func TestWeightsFromLabels(t *testing.T) {
	weights, err := WeightsFromLabels(map[string]float64{"2": 1, "T": -1, "a": -1})
	require.NoError(t, err)
	assert.Equal(t, map[cards.Rank]float64{cards.Two: 1, cards.Ten: -1, cards.Ace: -1}, weights)

	_, err = WeightsFromLabels(map[string]float64{"10": -1, "T": -1})
	assert.Error(t, err)

	_, err = WeightsFromLabels(map[string]float64{"Z": 1})
	assert.Error(t, err)
}
