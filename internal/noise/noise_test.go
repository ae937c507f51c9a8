package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKinds(t *testing.T) {
	for _, kind := range []string{KindPerlin, KindValue, ""} {
		src, err := New(kind, 42)
		require.NoError(t, err, kind)
		require.NotNil(t, src)
	}

	_, err := New("simplex", 42)
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestSourcesAreDeterministicAndBounded(t *testing.T) {
	for _, kind := range []string{KindPerlin, KindValue} {
		a, _ := New(kind, 3608)
		b, _ := New(kind, 3608)
		for i := 0; i < 200; i++ {
			x := float64(i)*0.37 - 20
			y := float64(i)*0.11 + 3
			z := float64(i)*-0.53 + 7

			v2 := a.Noise2D(x, z)
			assert.Equal(t, v2, b.Noise2D(x, z), "%s 2D not deterministic", kind)
			assert.GreaterOrEqual(t, v2, -1.0)
			assert.LessOrEqual(t, v2, 1.0)

			v3 := a.Noise3D(x, y, z)
			assert.Equal(t, v3, b.Noise3D(x, y, z), "%s 3D not deterministic", kind)
			assert.GreaterOrEqual(t, v3, -1.0)
			assert.LessOrEqual(t, v3, 1.0)
		}
	}
}

func TestValueNoiseVariesWithSeed(t *testing.T) {
	a := NewValue(1)
	b := NewValue(2)
	diff := 0
	for i := 0; i < 50; i++ {
		x := float64(i) * 0.73
		if a.Noise2D(x, x*0.5) != b.Noise2D(x, x*0.5) {
			diff++
		}
	}
	assert.Greater(t, diff, 40)
}

func TestValueNoiseContinuity(t *testing.T) {
	// Neighbouring samples of smoothed noise should be close.
	v := NewValue(99)
	prev := v.Noise2D(0, 0)
	for i := 1; i <= 100; i++ {
		cur := v.Noise2D(float64(i)*0.01, 0)
		assert.InDelta(t, prev, cur, 0.1)
		prev = cur
	}
}

func TestDeriveAndUnit2(t *testing.T) {
	assert.NotEqual(t, Derive(7, 1), Derive(7, 2))
	assert.Equal(t, Derive(7, 1), Derive(7, 1))

	for x := -20; x < 20; x++ {
		u := Unit2(5, x, x*3)
		assert.GreaterOrEqual(t, u, 0.0)
		assert.Less(t, u, 1.0)
		assert.Equal(t, u, Unit2(5, x, x*3))
	}
}

func BenchmarkValueNoise3D(b *testing.B) {
	v := NewValue(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v.Noise3D(float64(i%64)/52, float64(i%32)/35, float64(i%48)/40)
	}
}
