package codec

import (
	"image"
	"image/color"
	"image/color/palette"

	xdraw "golang.org/x/image/draw"
)

// downscale shrinks img so that its longer side is at most maxSize, keeping
// the aspect ratio. Images already within bounds are returned unchanged.
func downscale(img image.Image, maxSize int) image.Image {
	if maxSize <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSize && h <= maxSize {
		return img
	}

	var nw, nh int
	if w >= h {
		nw, nh = maxSize, max(h*maxSize/w, 1)
	} else {
		nw, nh = max(w*maxSize/h, 1), maxSize
	}

	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// gifPalette is the web-safe palette plus one fully transparent entry, which
// the GIF encoder writes as the transparent index.
var gifPalette = append(color.Palette{color.Transparent}, palette.WebSafe...)

// palettize dithers img onto gifPalette.
func palettize(img image.Image) *image.Paletted {
	b := img.Bounds()
	dst := image.NewPaletted(b, gifPalette)
	xdraw.FloydSteinberg.Draw(dst, b, img, b.Min)
	return dst
}
