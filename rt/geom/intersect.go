package geom

import "sort"

// DistData pairs a ray parameter with the axis of the face it was found on.
type DistData struct {
	Dist  float32
	Plane int
}

// SortDistData orders candidates nearest first.
func SortDistData(d []DistData) {
	sort.Slice(d, func(i, j int) bool { return d[i].Dist < d[j].Dist })
}

// PlaneIntersection reports whether the ray [origin; direction] crosses the
// face perpendicular to axis plane (0=x, 1=y, 2=z) located at value[plane].
// The face spans [0, value[a]] on each of the two other axes a; negative
// extents are mirrored.
func PlaneIntersection(origin, direction Point3f, plane int, value Point3f) bool {
	_, ok := PlaneDistance(origin, direction, plane, value)
	return ok
}

// PlaneDistance is PlaneIntersection that also returns the ray parameter.
func PlaneDistance(origin, direction Point3f, plane int, value Point3f) (DistData, bool) {
	var corner Point3f
	if plane >= 0 && plane < 3 {
		corner[plane] = value[plane]
	}
	return FaceIntersection(origin, direction, plane, corner, value)
}

// FaceIntersection generalises PlaneIntersection to a face anchored at
// corner: the face lies at corner[plane] and spans
// [corner[a], corner[a]+extent[a]] on the other two axes.
func FaceIntersection(origin, direction Point3f, plane int, corner, extent Point3f) (DistData, bool) {
	if plane < 0 || plane >= 3 {
		return DistData{}, false
	}
	d := direction[plane]
	if d == 0 ||
		(origin[plane] < corner[plane] && d < 0) ||
		(origin[plane] > corner[plane] && d > 0) {
		return DistData{}, false
	}
	t := (corner[plane] - origin[plane]) / d
	hit := VectMulScalar(origin, direction, t)

	for _, a := range [2]int{(plane + 1) % 3, (plane + 2) % 3} {
		i := hit[a] - corner[a]
		v := extent[a]
		if v < 0 {
			v = -v
			i = -i
		}
		if !EpsGte(i, 0) || !EpsLte(i, v) {
			return DistData{}, false
		}
	}
	return DistData{Dist: t, Plane: plane}, true
}

// boxFaces collects every face of the cube [lo, lo+size]^3 crossed by the
// ray in its direction of travel.
func boxFaces(origin, dir, lo Point3f, size float32, out []DistData) []DistData {
	extent := Point3f{size, size, size}
	for plane := 0; plane < 3; plane++ {
		for side := 0; side < 2; side++ {
			corner := lo
			corner[plane] += float32(side) * size
			if dd, ok := FaceIntersection(origin, dir, plane, corner, extent); ok {
				out = append(out, dd)
			}
		}
	}
	return out
}

// BoxEntry returns the nearest face of the cube crossed by the ray. For an
// origin outside the cube that is the entry face.
func BoxEntry(origin, dir, lo Point3f, size float32) (DistData, bool) {
	var buf [6]DistData
	faces := boxFaces(origin, dir, lo, size, buf[:0])
	if len(faces) == 0 {
		return DistData{}, false
	}
	SortDistData(faces)
	return faces[0], true
}

// BoxExit returns the farthest face of the cube crossed by the ray. For an
// origin inside the cube (or on its boundary) that is the exit face.
func BoxExit(origin, dir, lo Point3f, size float32) (DistData, bool) {
	var buf [6]DistData
	faces := boxFaces(origin, dir, lo, size, buf[:0])
	if len(faces) == 0 {
		return DistData{}, false
	}
	SortDistData(faces)
	return faces[len(faces)-1], true
}

// InsideBox reports whether p lies in the cube, boundary included.
func InsideBox(p, lo Point3f, size float32) bool {
	hi := Point3f{lo[0] + size, lo[1] + size, lo[2] + size}
	return EpsGteP(p, lo) && EpsLteP(p, hi)
}
