package ggfx

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
)

// Pixmap is a width×height grid of non-premultiplied RGBA samples,
// 4 bytes per pixel, stored row-major from the top-left corner.
//
// Filters never modify their source Pixmap; each one returns a fresh buffer.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA, len == width*height*4
}

// NewPixmap creates a zeroed (transparent black) pixmap.
// Returns ErrInvalidBuffer if either dimension is not positive.
func NewPixmap(width, height int) (*Pixmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidBuffer, width, height)
	}
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}, nil
}

// FromRGBA creates a pixmap from raw RGBA bytes. The data is copied.
// Returns ErrInvalidBuffer if len(data) != width*height*4.
func FromRGBA(data []uint8, width, height int) (*Pixmap, error) {
	pm, err := NewPixmap(width, height)
	if err != nil {
		return nil, err
	}
	if len(data) != len(pm.data) {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %dx%d",
			ErrInvalidBuffer, len(data), len(pm.data), width, height)
	}
	copy(pm.data, data)
	return pm, nil
}

// FromImage converts any image.Image into a non-premultiplied pixmap.
func FromImage(img image.Image) (*Pixmap, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidBuffer)
	}
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pm, err := NewPixmap(width, height)
	if err != nil {
		return nil, err
	}

	// Fast path for NRGBA images
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := range height {
			src := nrgba.Pix[nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			copy(pm.data[y*width*4:(y+1)*width*4], src[:width*4])
		}
		return pm, nil
	}

	// Generic slow path, un-premultiplying through color.NRGBAModel
	for y := range height {
		for x := range width {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			i := (y*width + x) * 4
			pm.data[i+0] = c.R
			pm.data[i+1] = c.G
			pm.data[i+2] = c.B
			pm.data[i+3] = c.A
		}
	}
	return pm, nil
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data (RGBA format).
// The slice aliases the pixmap; callers must treat it as read-only
// when the pixmap is shared.
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// RGBAAt returns the channels of pixel (x, y).
// Returns zeros if coordinates are out of bounds.
func (p *Pixmap) RGBAAt(x, y int) (r, g, b, a uint8) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0, 0, 0, 0
	}
	i := (y*p.width + x) * 4
	return p.data[i], p.data[i+1], p.data[i+2], p.data[i+3]
}

// SetRGBA sets pixel (x, y). Out-of-bounds writes are ignored.
func (p *Pixmap) SetRGBA(x, y int, r, g, b, a uint8) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = r
	p.data[i+1] = g
	p.data[i+2] = b
	p.data[i+3] = a
}

// Fill sets every pixel to the same color.
func (p *Pixmap) Fill(r, g, b, a uint8) {
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// Clone creates a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	data := make([]uint8, len(p.data))
	copy(data, p.data)
	return &Pixmap{width: p.width, height: p.height, data: data}
}

// Equal reports whether both pixmaps have the same size and identical samples.
func (p *Pixmap) Equal(o *Pixmap) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.width == o.width && p.height == o.height && bytes.Equal(p.data, o.data)
}

// validate checks the structural invariants of a pixmap received from a caller.
func (p *Pixmap) validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil pixmap", ErrInvalidBuffer)
	}
	if p.width <= 0 || p.height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidBuffer, p.width, p.height)
	}
	if len(p.data) != p.width*p.height*4 {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidBuffer, len(p.data), p.width*p.height*4)
	}
	return nil
}

// ToImage converts the pixmap to an image.NRGBA. The data is copied.
func (p *Pixmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	r, g, b, a := p.RGBAAt(x, y)
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
