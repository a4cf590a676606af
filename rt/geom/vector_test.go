package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectMulIsPerpendicular(t *testing.T) {
	a := Point3f{1, 2, 3}
	b := Point3f{-2, 0.5, 4}
	c := VectMul(a, b)

	assert.InDelta(t, 0, Dot(a, c), 1e-5)
	assert.InDelta(t, 0, Dot(b, c), 1e-5)

	cosT := Dot(a, b) / (Length(a) * Length(b))
	sinT := math.Sqrt(1 - float64(cosT*cosT))
	assert.InDelta(t, float64(Length(a)*Length(b))*sinT, float64(Length(c)), 1e-4)

	assert.Equal(t, Point3f{0, 0, 1}, VectMul(Point3f{1, 0, 0}, Point3f{0, 1, 0}))
}

func TestVectBasicOps(t *testing.T) {
	assert.Equal(t, Point3f{1.5, 2, 3}, VectMulScalar(Point3f{1, 2, 3}, Point3f{1, 0, 0}, 0.5))
	assert.Equal(t, Point3f{0.5, 2, 3}, VectMulScalar(Point3f{1, 2, 3}, Point3f{1, 0, 0}, -0.5))
	assert.Equal(t, Point3f{6, 6, 6}, VectSum(Point3f{1, 2, 3}, Point3f{3, 2, 1}, Point3f{2, 2, 2}))
	assert.Equal(t, Point3f{0.5, 1, 1.5}, VectDiv(Point3f{1, 2, 3}, 2))
	assert.Equal(t, Point3f{2, -4, 9}, VectScale(Point3f{1, 2, 3}, Point3f{2, -2, 3}))
}

func TestVectNormalize(t *testing.T) {
	inputs := []Point3f{
		{1, 0, 0},
		{3, 4, 0},
		{-1, -1, -1},
		{1e-3, 2e-3, -5e-4},
		{120, -7, 33},
	}
	for _, v := range inputs {
		n := VectNormalize(v)
		assert.InDelta(t, 1, Length(n), 1e-5, "normalize(%v)", v)

		again := VectNormalize(n)
		for i := 0; i < 3; i++ {
			assert.True(t, EpsEq(n[i], again[i]) || math.Abs(float64(n[i]-again[i])) < 1e-6,
				"normalize not idempotent on %v: %v vs %v", v, n, again)
		}
	}
}

func TestVectNormalizeZeroIsNotFinite(t *testing.T) {
	assert.False(t, IsFinite(VectNormalize(Point3f{})))
}

func TestClamp(t *testing.T) {
	p := Point3f{-5, 0.25, 9}
	Clamp(&p, 1)
	assert.Equal(t, Point3f{-1, 0.25, 1}, p)
}

func TestRotationByZeroIsIdentity(t *testing.T) {
	axes := []Point3f{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, VectNormalize(Point3f{1, 2, 3})}
	vectors := []Point3f{{1, 0, 0}, {0.3, -2, 5}, {-1, -1, -1}}
	for _, axis := range axes {
		m := CreateRotationMatrix(axis, 0)
		for _, v := range vectors {
			r := MultiplyVectMatrix(v, m)
			for i := 0; i < 3; i++ {
				assert.True(t, EpsEq(v[i], r[i]), "axis %v vector %v got %v", axis, v, r)
			}
		}
	}
}

func TestRotationQuarterTurn(t *testing.T) {
	m := CreateRotationMatrix(Point3f{0, 0, 1}, math.Pi/2)
	r := MultiplyVectMatrix(Point3f{1, 0, 0}, m)
	require.InDelta(t, 0, r[0], 1e-6)
	require.InDelta(t, -1, r[1], 1e-6)
	require.InDelta(t, 0, r[2], 1e-6)

	v := Point3f{0.2, 0.7, -3}
	assert.InDelta(t, Length(v), Length(MultiplyVectMatrix(v, CreateRotationMatrix(VectNormalize(Point3f{1, 1, 0}), 1.3))), 1e-5)
}
