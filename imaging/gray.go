// Package imaging converts raw scanner frames into portable image files.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/spakin/netpbm"
)

type Format string

const (
	PNG Format = "png"
	PGM Format = "pgm"
)

// ParseFormat maps a request value to a Format. Empty selects PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return PNG, nil
	case "pgm":
		return PGM, nil
	default:
		return "", fmt.Errorf("unsupported image format %q - must be png or pgm", s)
	}
}

// FromRaw wraps an 8-bit row-major frame of width*height pixels.
func FromRaw(raw []byte, width, height int) (*image.Gray, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame geometry %dx%d", width, height)
	}
	if len(raw) < width*height {
		return nil, fmt.Errorf("frame has %d bytes, want %d", len(raw), width*height)
	}
	gray := image.NewGray(image.Rect(0, 0, width, height))
	copy(gray.Pix, raw[:width*height])
	return gray, nil
}

// Encode serialises img in format f.
func Encode(img *image.Gray, f Format) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case PGM:
		err := netpbm.Encode(&buf, img, &netpbm.EncodeOptions{
			Format:   netpbm.PGM,
			MaxValue: 255,
			Comments: []string{"fingerprint-server capture"},
		})
		if err != nil {
			return nil, fmt.Errorf("encode pgm: %w", err)
		}
	case PNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported image format %q", f)
	}
	return buf.Bytes(), nil
}
