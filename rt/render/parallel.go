package render

import (
	"context"

	"github.com/gekko3d/svo/rt/core"
	"github.com/gekko3d/svo/rt/octree"

	"golang.org/x/sync/errgroup"
)

// renderRows splits the frame into horizontal bands and traces them on
// separate goroutines. The arena is sealed so the workers only read it.
func renderRows(ctx context.Context, workers int, view core.View, a *octree.Arena, f *Frame, tr Tracer) error {
	if !a.Sealed() {
		return ErrNotSealed
	}
	if f.Height == 0 || f.Width == 0 {
		return nil
	}
	if workers > f.Height {
		workers = f.Height
	}
	band := (f.Height + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for y0 := 0; y0 < f.Height; y0 += band {
		y1 := min(y0+band, f.Height)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				for x := 0; x < f.Width; x++ {
					origin, dir := view.Ray(x, y, f.Width, f.Height)
					h, ok := tr.Trace(a, origin, dir)
					if !ok {
						f.Set(x, y, Background)
						continue
					}
					f.Set(x, y, view.Shade(h.Color, h.Point, h.Normal).RGB())
				}
			}
			return nil
		})
	}
	return g.Wait()
}
