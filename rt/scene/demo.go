package scene

// Demo is the built-in scene used when no file is configured: the unit
// cube with a subdivided corner and a few coloured octants.
func Demo() NodeSpec {
	corner := Partial(
		Solid(1, 1, 1), Empty(), Solid(0.9, 0.6, 0.1), Empty(),
		Empty(), Solid(0.1, 0.6, 0.9), Empty(), Solid(0.6, 0.1, 0.9),
	)
	// c0..c7 = (0,1,1) (1,1,1) (0,0,1) (1,0,1) (0,1,0) (1,1,0) (0,0,0) (1,0,0)
	return Partial(
		Empty(), Solid(0, 0, 1), Empty(), Solid(1, 1, 0),
		Solid(0, 1, 0), Empty(), corner, Solid(1, 0, 0),
	)
}
