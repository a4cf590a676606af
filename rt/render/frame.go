package render

import (
	"image"
	"image/color"

	"github.com/gekko3d/svo/rt/geom"
)

// Frame is a w x h RGB float framebuffer, row-major from the top-left.
type Frame struct {
	Width, Height int
	Pix           []float32
}

func NewFrame(w, h int) *Frame {
	return &Frame{Width: w, Height: h, Pix: make([]float32, w*h*3)}
}

// Resize reallocates the buffer only when the size changed.
func (f *Frame) Resize(w, h int) {
	if f.Width == w && f.Height == h {
		return
	}
	f.Width, f.Height = w, h
	f.Pix = make([]float32, w*h*3)
}

func (f *Frame) Set(x, y int, c geom.Point3f) {
	i := (y*f.Width + x) * 3
	f.Pix[i], f.Pix[i+1], f.Pix[i+2] = c[0], c[1], c[2]
}

func (f *Frame) At(x, y int) geom.Point3f {
	i := (y*f.Width + x) * 3
	return geom.Point3f{f.Pix[i], f.Pix[i+1], f.Pix[i+2]}
}

func (f *Frame) Clear(c geom.Point3f) {
	for i := 0; i < len(f.Pix); i += 3 {
		f.Pix[i], f.Pix[i+1], f.Pix[i+2] = c[0], c[1], c[2]
	}
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// RGBA8 packs the frame as tightly packed RGBA bytes for texture upload.
func (f *Frame) RGBA8(dst []byte) []byte {
	n := f.Width * f.Height * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for p, i := 0, 0; i < len(f.Pix); p, i = p+4, i+3 {
		dst[p] = to8(f.Pix[i])
		dst[p+1] = to8(f.Pix[i+1])
		dst[p+2] = to8(f.Pix[i+2])
		dst[p+3] = 255
	}
	return dst
}

// Image converts the frame for the image encoders.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	img.Pix = f.RGBA8(img.Pix)
	return img
}

// ColorAt is At as an 8-bit colour.
func (f *Frame) ColorAt(x, y int) color.RGBA {
	c := f.At(x, y)
	return color.RGBA{to8(c[0]), to8(c[1]), to8(c[2]), 255}
}
