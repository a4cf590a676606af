package geom

// Eps is the tolerance used for boundary decisions. Rays grazing a face
// exactly are classified as hits.
const Eps float32 = 1e-6

func EpsEq(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < Eps
}

func EpsGte(a, b float32) bool {
	return a > b || EpsEq(a, b)
}

func EpsLte(a, b float32) bool {
	return b > a || EpsEq(a, b)
}

// EpsGteP holds when every component of a is >= the matching one of b.
func EpsGteP(a, b Point3f) bool {
	return EpsGte(a[0], b[0]) && EpsGte(a[1], b[1]) && EpsGte(a[2], b[2])
}

// EpsLteP holds when every component of a is <= the matching one of b.
func EpsLteP(a, b Point3f) bool {
	return EpsLte(a[0], b[0]) && EpsLte(a[1], b[1]) && EpsLte(a[2], b[2])
}
