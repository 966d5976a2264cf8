// Package codec converts between encoded images and ggfx pixmaps.
//
// Decoding accepts PNG, JPEG and GIF (standard library) and BMP, TIFF and
// WebP (golang.org/x/image), from readers, byte slices, files or HTTP URLs.
// Encoding writes PNG, JPEG or GIF, and animated GIF for frame sequences.
package codec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/gogpu/ggfx"
)

// Codec errors.
var (
	// ErrDecode is returned when input bytes cannot be decoded into a pixmap.
	ErrDecode = errors.New("codec: decode failed")

	// ErrEncode is returned when a pixmap cannot be encoded.
	ErrEncode = errors.New("codec: encode failed")

	// ErrUnsupportedFormat is returned for unknown output format names.
	ErrUnsupportedFormat = errors.New("codec: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("codec: empty data")
)

// Format is an output image format.
type Format uint8

const (
	// FormatPNG is lossless PNG, the default.
	FormatPNG Format = iota

	// FormatJPEG is baseline JPEG; alpha is discarded.
	FormatJPEG

	// FormatGIF is a single-frame GIF with a web-safe palette.
	FormatGIF
)

// String returns the lower-case name of the format.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatGIF:
		return "gif"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// Ext returns the conventional file extension, with the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return "." + f.String()
}

// ParseFormat parses "png", "jpeg"/"jpg" or "gif", ignoring case and a leading dot.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "gif":
		return FormatGIF, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Option configures decoding and encoding.
type Option func(*options)

type options struct {
	maxSize     int
	maxBytes    int64
	jpegQuality int
	client      *http.Client
}

// DefaultMaxBytes caps how much is read from a URL.
const DefaultMaxBytes = 32 << 20

// DefaultJPEGQuality is used when no quality is given.
const DefaultJPEGQuality = 90

func defaultOptions() options {
	return options{
		maxBytes:    DefaultMaxBytes,
		jpegQuality: DefaultJPEGQuality,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMaxSize downscales decoded images whose longer side exceeds n pixels.
// Zero disables downscaling.
func WithMaxSize(n int) Option {
	return func(o *options) {
		o.maxSize = max(n, 0)
	}
}

// WithMaxBytes caps the number of bytes read from a URL.
func WithMaxBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBytes = n
		}
	}
}

// WithJPEGQuality sets the JPEG quality. Values are clamped to 1..100.
func WithJPEGQuality(q int) Option {
	return func(o *options) {
		o.jpegQuality = min(max(q, 1), 100)
	}
}

// WithHTTPClient sets the client used by DecodeURL.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.client = c
		}
	}
}

// Decode decodes an image from r, auto-detecting the format.
func Decode(ctx context.Context, r io.Reader, opts ...Option) (*ggfx.Pixmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	img = downscale(img, o.maxSize)
	pm, err := ggfx.FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	ggfx.Logger().Debug("codec: decoded", "format", format, "width", pm.Width(), "height", pm.Height())
	return pm, nil
}

// DecodeBytes decodes an image held in memory.
func DecodeBytes(ctx context.Context, data []byte, opts ...Option) (*ggfx.Pixmap, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrDecode, ErrEmptyData)
	}
	return Decode(ctx, bytes.NewReader(data), opts...)
}

// DecodeFile decodes the image file at path.
func DecodeFile(ctx context.Context, path string, opts ...Option) (*ggfx.Pixmap, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: open file: %w", ErrDecode, err)
	}
	defer func() { _ = f.Close() }()

	return Decode(ctx, f, opts...)
}

// DecodeURL downloads and decodes the image at url.
func DecodeURL(ctx context.Context, url string, opts ...Option) (*ggfx.Pixmap, error) {
	o := buildOptions(opts)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrDecode, err)
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", ErrDecode, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: status %s", ErrDecode, url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, o.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrDecode, url, err)
	}
	if int64(len(data)) > o.maxBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrDecode, url, o.maxBytes)
	}
	return DecodeBytes(ctx, data, opts...)
}

// Load decodes resource, which is either an http(s) URL or a file path.
func Load(ctx context.Context, resource string, opts ...Option) (*ggfx.Pixmap, error) {
	if strings.HasPrefix(resource, "http://") || strings.HasPrefix(resource, "https://") {
		return DecodeURL(ctx, resource, opts...)
	}
	return DecodeFile(ctx, resource, opts...)
}

// Encode writes pm to w in the given format.
func Encode(w io.Writer, pm *ggfx.Pixmap, format Format, opts ...Option) error {
	if pm == nil || pm.Width() <= 0 || pm.Height() <= 0 {
		return fmt.Errorf("%w: %w", ErrEncode, ggfx.ErrInvalidBuffer)
	}
	o := buildOptions(opts)
	img := pm.ToImage()

	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: o.jpegQuality})
	case FormatGIF:
		err = gif.Encode(w, palettize(img), nil)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEncode, format, err)
	}
	return nil
}

// EncodeBytes encodes pm and returns the bytes.
func EncodeBytes(pm *ggfx.Pixmap, format Format, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, pm, format, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveFile encodes pm into path, picking the format from the extension.
func SaveFile(path string, pm *ggfx.Pixmap, opts ...Option) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("%w: create file: %w", ErrEncode, err)
	}
	if err := Encode(f, pm, format, opts...); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
