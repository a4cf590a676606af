package svo

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gekko3d/svo/rt/render"

	"github.com/google/uuid"
	"golang.org/x/image/bmp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"
)

type SnapshotFormat int

const (
	SnapshotPNG SnapshotFormat = iota
	SnapshotBMP
	SnapshotTIFF
)

func (f SnapshotFormat) Ext() string {
	switch f {
	case SnapshotBMP:
		return ".bmp"
	case SnapshotTIFF:
		return ".tiff"
	}
	return ".png"
}

func ParseSnapshotFormat(s string) (SnapshotFormat, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "png", "":
		return SnapshotPNG, nil
	case "bmp":
		return SnapshotBMP, nil
	case "tif", "tiff":
		return SnapshotTIFF, nil
	}
	return 0, fmt.Errorf("unknown snapshot format %q", s)
}

// DrawOverlay writes lines of text in the top-left corner of img.
func DrawOverlay(img draw.Image, lines []string) {
	face := basicfont.Face7x13
	height := face.Metrics().Height.Ceil()

	width := 0
	for _, l := range lines {
		if w := font.MeasureString(face, l).Ceil(); w > width {
			width = w
		}
	}
	if width == 0 {
		return
	}
	// dim the panel so the text stays readable
	panel := image.Rect(0, 0, width+8, len(lines)*height+6).Intersect(img.Bounds())
	draw.Draw(img, panel, image.NewUniform(color.RGBA{0, 0, 0, 160}), image.Point{}, draw.Over)

	d := &font.Drawer{Dst: img, Src: image.White, Face: face}
	for i, l := range lines {
		d.Dot = fixed.P(4, 3+(i+1)*height-face.Descent)
		d.DrawString(l)
	}
}

// WriteImage encodes img to path in format.
func WriteImage(img image.Image, path string, format SnapshotFormat) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	switch format {
	case SnapshotBMP:
		return bmp.Encode(f, img)
	case SnapshotTIFF:
		return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(f, img)
	}
}

// SaveFrame writes frame to path. The format follows the extension of path
// and falls back to format when the extension is unknown.
func SaveFrame(frame *render.Frame, path string, format SnapshotFormat, overlay []string) error {
	if ext := filepath.Ext(path); ext != "" {
		if f, err := ParseSnapshotFormat(ext); err == nil {
			format = f
		}
	}
	img := frame.Image()
	if len(overlay) > 0 {
		DrawOverlay(img, overlay)
	}
	return WriteImage(img, path, format)
}

// Snapshot saves the last rendered frame. An empty path picks a unique name
// in the configured snapshot directory.
func (c *Context) Snapshot(path string) (string, error) {
	format, err := ParseSnapshotFormat(c.cfg.Snapshot.Format)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = filepath.Join(c.cfg.Snapshot.Dir, "svo-"+uuid.NewString()[:8]+format.Ext())
	}
	var overlay []string
	if c.cfg.Snapshot.Overlay {
		overlay = c.OverlayLines()
	}
	if err := SaveFrame(c.frame, path, format, overlay); err != nil {
		return "", fmt.Errorf("svo: snapshot: %w", err)
	}
	return path, nil
}

// OverlayLines describes the current frame.
func (c *Context) OverlayLines() []string {
	p := c.Camera.Position
	lines := []string{
		c.Selector.Status(),
		fmt.Sprintf("frame %.2f ms", float64(c.Profiler.Last("frame").Microseconds())/1000),
		fmt.Sprintf("camera %.2f %.2f %.2f", p[0], p[1], p[2]),
	}
	if c.arena != nil {
		lines = append(lines, fmt.Sprintf("nodes %d", c.arena.Len()))
	}
	return lines
}
