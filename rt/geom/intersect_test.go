package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpsBoundary(t *testing.T) {
	assert.True(t, EpsEq(0, 9e-7))
	assert.True(t, EpsEq(1, 1+9e-7))
	assert.False(t, EpsEq(0, 1e-3))
	assert.False(t, EpsEq(1, 1.001))

	assert.True(t, EpsGte(1, 1+5e-7))
	assert.True(t, EpsLte(1+5e-7, 1))
	assert.False(t, EpsGte(1, 1.01))
	assert.False(t, EpsLte(1.01, 1))

	assert.True(t, EpsGteP(Point3f{1, 1, 1}, Point3f{1, 1 + 5e-7, 0}))
	assert.False(t, EpsGteP(Point3f{1, 1, 1}, Point3f{1, 2, 0}))
	assert.True(t, EpsLteP(Point3f{0, 0, 1}, Point3f{1, 1, 1 - 5e-7}))
	assert.False(t, EpsLteP(Point3f{0, 3, 0}, Point3f{1, 1, 1}))
}

func TestPlaneIntersectionUnitCubeFace(t *testing.T) {
	origin := Point3f{0.5, 0.5, -1}
	dir := Point3f{0, 0, 1}

	assert.True(t, PlaneIntersection(origin, dir, 2, Point3f{1, 1, 1}))

	dd, ok := FaceIntersection(origin, dir, 2, Point3f{0, 0, 1}, Point3f{1, 1, 1})
	require.True(t, ok)
	assert.Equal(t, 2, dd.Plane)
	assert.InDelta(t, 2, dd.Dist, 1e-6)
}

func TestPlaneIntersectionCentreAlwaysHits(t *testing.T) {
	for plane := 0; plane < 3; plane++ {
		value := Point3f{1, 1, 1}
		var origin, dir Point3f
		for a := 0; a < 3; a++ {
			origin[a] = 0.5
		}
		origin[plane] = -3
		dir[plane] = 1
		assert.True(t, PlaneIntersection(origin, dir, plane, value), "plane %d", plane)

		// aimed at the centre from an oblique origin
		from := Point3f{-2, 4, -1}
		centre := Point3f{0.5, 0.5, 0.5}
		centre[plane] = 1
		if from[plane] > 1 {
			from[plane] = -from[plane]
		}
		assert.True(t, PlaneIntersection(from, centre.Sub(from), plane, value), "oblique plane %d", plane)
	}
}

func TestPlaneIntersectionParallelMisses(t *testing.T) {
	cases := []struct {
		origin Point3f
		dir    Point3f
		value  Point3f
	}{
		{Point3f{0.5, 0.5, 1}, Point3f{1, 0, 0}, Point3f{1, 1, 1}},
		{Point3f{0.5, 0.5, 0.5}, Point3f{0, 1, 0}, Point3f{1, 1, 0.5}},
		{Point3f{-4, 2, 1}, Point3f{1, 1, 0}, Point3f{-1, -1, 1}},
	}
	for _, c := range cases {
		assert.False(t, PlaneIntersection(c.origin, c.dir, 2, c.value))
	}
}

func TestPlaneIntersectionRejects(t *testing.T) {
	value := Point3f{1, 1, 1}
	assert.False(t, PlaneIntersection(Point3f{0.5, 0.5, -1}, Point3f{0, 0, 1}, -1, value))
	assert.False(t, PlaneIntersection(Point3f{0.5, 0.5, -1}, Point3f{0, 0, 1}, 3, value))
	// travelling away
	assert.False(t, PlaneIntersection(Point3f{0.5, 0.5, 2}, Point3f{0, 0, 1}, 2, value))
	assert.False(t, PlaneIntersection(Point3f{0.5, 0.5, -1}, Point3f{0, 0, -1}, 2, value))
	// outside the face bounds
	assert.False(t, PlaneIntersection(Point3f{1.5, 0.5, -1}, Point3f{0, 0, 1}, 2, value))
}

func TestPlaneIntersectionChecksEachAxisAgainstItsOwnExtent(t *testing.T) {
	// y extent 2, z extent 0.5: the crossing at z=1.5 is outside the face
	value := Point3f{1, 2, 0.5}
	assert.False(t, PlaneIntersection(Point3f{-1, 1, 1.5}, Point3f{1, 0, 0}, 0, value))
	assert.True(t, PlaneIntersection(Point3f{-1, 1.5, 0.25}, Point3f{1, 0, 0}, 0, value))
}

func TestPlaneIntersectionGrazingEdges(t *testing.T) {
	value := Point3f{1, 1, 1}
	assert.True(t, PlaneIntersection(Point3f{1, 0.5, -1}, Point3f{0, 0, 1}, 2, value))
	assert.True(t, PlaneIntersection(Point3f{1 + 5e-7, 0.5, -1}, Point3f{0, 0, 1}, 2, value))
	assert.True(t, PlaneIntersection(Point3f{0, 0, -1}, Point3f{0, 0, 1}, 2, value))
	assert.True(t, PlaneIntersection(Point3f{-5e-7, 1, -1}, Point3f{0, 0, 1}, 2, value))
	assert.False(t, PlaneIntersection(Point3f{1.001, 0.5, -1}, Point3f{0, 0, 1}, 2, value))
}

func TestPlaneIntersectionMirrorsNegativeExtent(t *testing.T) {
	value := Point3f{-1, -1, 1}
	assert.True(t, PlaneIntersection(Point3f{-0.5, -0.5, -1}, Point3f{0, 0, 1}, 2, value))
	assert.False(t, PlaneIntersection(Point3f{0.5, 0.5, -1}, Point3f{0, 0, 1}, 2, value))
}

func TestSortDistData(t *testing.T) {
	d := []DistData{{Dist: 3, Plane: 0}, {Dist: 1, Plane: 2}, {Dist: 2, Plane: 1}}
	SortDistData(d)
	assert.Equal(t, []DistData{{1, 2}, {2, 1}, {3, 0}}, d)
}

func TestBoxEntryAndExit(t *testing.T) {
	origin := Point3f{0.5, 0.5, -1}
	dir := Point3f{0, 0, 1}

	in, ok := BoxEntry(origin, dir, Point3f{}, 1)
	require.True(t, ok)
	assert.Equal(t, 2, in.Plane)
	assert.InDelta(t, 1, in.Dist, 1e-6)

	out, ok := BoxExit(origin, dir, Point3f{}, 1)
	require.True(t, ok)
	assert.Equal(t, 2, out.Plane)
	assert.InDelta(t, 2, out.Dist, 1e-6)

	out, ok = BoxExit(Point3f{0.5, 0.5, 0.5}, Point3f{1, 0, 0}, Point3f{}, 1)
	require.True(t, ok)
	assert.Equal(t, 0, out.Plane)
	assert.InDelta(t, 0.5, out.Dist, 1e-6)

	// half-size box offset from the origin
	out, ok = BoxExit(Point3f{2.25, 2.1, 2.2}, VectNormalize(Point3f{1, 1, 0}), Point3f{2, 2, 2}, 0.5)
	require.True(t, ok)
	assert.Equal(t, 0, out.Plane)

	_, ok = BoxEntry(Point3f{5, 5, 5}, Point3f{1, 0, 0}, Point3f{}, 1)
	assert.False(t, ok)
}

func TestInsideBox(t *testing.T) {
	assert.True(t, InsideBox(Point3f{0.5, 0.5, 0.5}, Point3f{}, 1))
	assert.True(t, InsideBox(Point3f{1, 1, 1}, Point3f{}, 1))
	assert.False(t, InsideBox(Point3f{1.01, 0.5, 0.5}, Point3f{}, 1))
}
