package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Simple", []float64{1, 2, 3}, []float64{4, 5, 6}, 32},
		{"Zero", []float64{0, 0, 0}, []float64{0, 0, 0}, 0},
		{"Mixed", []float64{1, -1, 2}, []float64{1, 1, -2}, -4},
		{"Empty", []float64{}, []float64{}, 0},
		{"Single", []float64{2}, []float64{3}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Dot(tt.a, tt.b), 1e-12)
		})
	}
}

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Simple", []float64{1, 2, 3}, []float64{4, 5, 6}, 27},
		{"Zero", []float64{0, 0, 0}, []float64{0, 0, 0}, 0},
		{"Identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"Mixed", []float64{1, -1}, []float64{-1, 1}, 8},
		{"Empty", []float64{}, []float64{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SquaredL2(tt.a, tt.b), 1e-12)
		})
	}
}

func TestEuclidean(t *testing.T) {
	assert.Equal(t, 5.0, Euclidean([]float64{0, 0}, []float64{3, 4}))
	assert.Equal(t, 0.0, Euclidean([]float64{1.5, 2.5}, []float64{1.5, 2.5}))
}

func TestNormalizeL2(t *testing.T) {
	t.Run("Copy", func(t *testing.T) {
		src := []float64{3, 4}
		dst, ok := NormalizeL2Copy(src)
		require.True(t, ok)
		assert.Equal(t, []float64{3, 4}, src, "source must not be modified")
		assert.InDelta(t, 0.6, dst[0], 1e-12)
		assert.InDelta(t, 0.8, dst[1], 1e-12)
		assert.InDelta(t, 1.0, Norm(dst), 1e-9)
	})

	t.Run("Zero", func(t *testing.T) {
		dst, ok := NormalizeL2Copy([]float64{0, 0, 0})
		assert.False(t, ok)
		assert.Nil(t, dst)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.False(t, NormalizeL2InPlace(nil))
	})

	t.Run("UnitNorm", func(t *testing.T) {
		v := []float64{5.1, 3.5, 1.4, 0.2}
		require.True(t, NormalizeL2InPlace(v))
		assert.InDelta(t, 1.0, math.Sqrt(Dot(v, v)), 1e-9)
	})

	t.Run("ExtremeMagnitudes", func(t *testing.T) {
		for _, x := range []float64{1e200, 1e-200, math.MaxFloat64, 5e-324} {
			v := []float64{x, x}
			require.True(t, NormalizeL2InPlace(v), "x=%g", x)
			assert.InDelta(t, math.Sqrt2/2, v[0], 1e-12, "x=%g", x)
			assert.InDelta(t, 1.0, math.Sqrt(Dot(v, v)), 1e-9, "x=%g", x)
		}
	})

	t.Run("NonFinite", func(t *testing.T) {
		for _, x := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			v := []float64{1, x}
			assert.False(t, NormalizeL2InPlace(v), "x=%g", x)
			assert.Equal(t, 1.0, v[0], "vector must be untouched")
		}
	})
}

func TestNorm(t *testing.T) {
	assert.InDelta(t, 5.0, Norm([]float64{3, 4}), 1e-12)
	assert.InDelta(t, 5e200, Norm([]float64{3e200, 4e200}), 1e188)
	assert.InDelta(t, 5e-200, Norm([]float64{3e-200, 4e-200}), 1e-212)
	assert.Zero(t, Norm([]float64{0, 0}))
	assert.Zero(t, Norm(nil))
	assert.True(t, math.IsInf(Norm([]float64{1, math.Inf(-1)}), 1))
	assert.True(t, math.IsNaN(Norm([]float64{math.NaN(), 1})))
}

func TestLerp(t *testing.T) {
	t.Run("Half", func(t *testing.T) {
		dst := []float64{0, 2}
		Lerp(dst, []float64{2, 0}, 0.5)
		assert.Equal(t, []float64{1, 1}, dst)
	})

	t.Run("FullRateCopiesTarget", func(t *testing.T) {
		dst := []float64{0.1, 0.7, -3}
		target := []float64{0.3, 0.2, 1e-7}
		Lerp(dst, target, 1)
		assert.Equal(t, target, dst)
	})

	t.Run("ZeroRateKeeps", func(t *testing.T) {
		dst := []float64{0.1, 0.7}
		Lerp(dst, []float64{9, 9}, 0)
		assert.Equal(t, []float64{0.1, 0.7}, dst)
	})
}
