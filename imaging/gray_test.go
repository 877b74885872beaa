package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(w, h int) []byte {
	raw := make([]byte, w*h)
	for i := range raw {
		raw[i] = byte(i)
	}
	return raw
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": PNG, "png": PNG, "PGM": PGM, " pgm ": PGM} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("wsq")
	require.Error(t, err)
}

func TestFromRaw(t *testing.T) {
	img, err := FromRaw(frame(4, 3), 4, 3)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
	assert.Equal(t, color.Gray{Y: 5}, img.GrayAt(1, 1))

	_, err = FromRaw(frame(2, 2), 4, 3)
	require.Error(t, err)
	_, err = FromRaw(nil, 0, 3)
	require.Error(t, err)
}

func TestEncodePNGRoundTrip(t *testing.T) {
	img, err := FromRaw(frame(16, 8), 16, 8)
	require.NoError(t, err)

	data, err := Encode(img, PNG)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	gray, ok := decoded.(*image.Gray)
	require.True(t, ok, "decoded %T", decoded)
	assert.Equal(t, img.Bounds(), gray.Bounds())
	assert.Equal(t, img.Pix, gray.Pix)
}

func TestEncodePGM(t *testing.T) {
	img, err := FromRaw(frame(16, 8), 16, 8)
	require.NoError(t, err)

	data, err := Encode(img, PGM)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("P5")), "binary graymap magic")
	assert.Equal(t, img.Pix, data[len(data)-len(img.Pix):])
}
