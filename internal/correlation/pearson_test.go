package correlation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPearson(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		want float64
	}{
		{"perfect positive", []float64{1, 2, 3, 4}, []float64{2, 4, 6, 8}, 1},
		{"perfect negative", []float64{1, 2, 3, 4}, []float64{8, 6, 4, 2}, -1},
		{"empty", nil, []float64{1, 2}, 0},
		{"single point", []float64{1}, []float64{1}, 0},
		{"zero variance", []float64{3, 3, 3}, []float64{1, 2, 3}, 0},
		{"constant with rounding noise", []float64{0.1, 0.1, 0.1}, []float64{0.1, 0.1, 0.1}, 0},
		{"constant against varying", []float64{0.1, 0.1, 0.1}, []float64{0.1, 0.2, 0.3}, 0},
		{"truncated to common length", []float64{1, 2, 3}, []float64{1, 2, 3, -100}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Pearson(tt.x, tt.y), 1e-12)
		})
	}
}

func TestPearson_Bounds(t *testing.T) {
	x := []float64{0.013, -0.021, 0.007, 0.034, -0.011, 0.002}
	y := []float64{0.009, -0.015, 0.012, 0.021, -0.003, -0.007}

	r := Pearson(x, y)
	assert.GreaterOrEqual(t, r, -1.0)
	assert.LessOrEqual(t, r, 1.0)
	assert.InDelta(t, Pearson(y, x), r, 1e-15)
	assert.InDelta(t, 1.0, Pearson(x, x), 1e-12)
}

func TestMatrix_FlatSeriesDiagonal(t *testing.T) {
	m := Matrix(map[string][]float64{
		"a": {0.1, 0.1, 0.1},
		"b": {0.01, -0.02, 0.03},
	})

	require.Equal(t, []string{"a", "b"}, m.Keys)
	assert.Zero(t, m.Values[0][0])
	assert.Zero(t, m.Values[0][1])
	assert.InDelta(t, 1.0, m.Values[1][1], 1e-12)
}

func TestMatrix(t *testing.T) {
	m := Matrix(map[string][]float64{
		"bob":   {1, 2, 3},
		"alice": {3, 2, 1},
		"flat":  {5, 5, 5},
	})

	require.Equal(t, []string{"alice", "bob", "flat"}, m.Keys)
	assert.InDelta(t, 1.0, m.Values[0][0], 1e-12)
	assert.InDelta(t, 1.0, m.Values[1][1], 1e-12)
	assert.Zero(t, m.Values[2][2])

	r, ok := m.Get("alice", "bob")
	require.True(t, ok)
	assert.InDelta(t, -1.0, r, 1e-12)

	rev, _ := m.Get("bob", "alice")
	assert.Equal(t, r, rev)

	_, ok = m.Get("alice", "nobody")
	assert.False(t, ok)

	pairs := m.HighlyCorrelated(0.7)
	require.Len(t, pairs, 1)
	assert.Equal(t, "alice", pairs[0].A)
	assert.Equal(t, "bob", pairs[0].B)
}

func TestMatrix_Empty(t *testing.T) {
	m := Matrix(nil)
	assert.Empty(t, m.Keys)
	assert.Empty(t, m.Values)
}
