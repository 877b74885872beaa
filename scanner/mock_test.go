package scanner

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/high-horse/fingerprint-server/imaging"
	"github.com/high-horse/fingerprint-server/sgfplib"
)

func newTestMock() *Mock {
	return NewMock(time.Millisecond, 260, 300)
}

func TestMockOpenClose(t *testing.T) {
	m := newTestMock()
	assert.True(t, m.Mock())
	require.NoError(t, m.OpenDevice(0))
	require.NoError(t, m.OpenDevice(3))
	require.NoError(t, m.CloseDevice())
	require.NoError(t, m.CloseDevice())
}

func TestMockCapture(t *testing.T) {
	m := newTestMock()

	for i := 0; i < 50; i++ {
		res, err := m.Capture(captureOpts())
		require.NoError(t, err)
		require.True(t, res.Success)
		require.NotNil(t, res.Quality)
		assert.GreaterOrEqual(t, *res.Quality, 70)
		assert.LessOrEqual(t, *res.Quality, 95)
		assert.Equal(t, 260, res.Width)
		assert.Equal(t, 300, res.Height)

		raw, err := base64.StdEncoding.DecodeString(res.Template)
		require.NoError(t, err)
		assert.Len(t, raw, sgfplib.TemplateSize)
	}
}

func TestMockCaptureDelay(t *testing.T) {
	m := NewMock(30*time.Millisecond, 260, 300)
	start := time.Now()
	_, err := m.Capture(captureOpts())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestMockCaptureWithImage(t *testing.T) {
	m := NewMock(0, 16, 8)
	opts := captureOpts()
	opts.IncludeImage = true
	opts.ImageFormat = imaging.PNG

	res, err := m.Capture(opts)
	require.NoError(t, err)
	assert.Equal(t, "png", res.ImageFormat)
	data, err := base64.StdEncoding.DecodeString(res.Image)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data[:4]))
}

// The mock deliberately matches any two well-formed templates, including
// templates that differ. Front-end flows developed without hardware capture
// random templates and still need to reach the "matched" branch. This test
// pins that behaviour so that it is only ever changed on purpose; the
// mock_mode flag is what tells clients these matches carry no assurance.
func TestMockMatchAcceptsAnyTemplates(t *testing.T) {
	m := newTestMock()

	a, err := m.Capture(captureOpts())
	require.NoError(t, err)
	b, err := m.Capture(captureOpts())
	require.NoError(t, err)
	require.NotEqual(t, a.Template, b.Template)

	pairs := [][2]string{
		{a.Template, b.Template},
		{a.Template, a.Template},
		{"QQ==", "QQ=="},
		{"QQ==", "Qg=="},
		{"", "QQ=="},
	}
	for _, p := range pairs {
		for _, level := range []int{1, 5, 9} {
			matched, err := m.Match(p[0], p[1], level)
			require.NoError(t, err)
			assert.True(t, matched, "%q vs %q at level %d", p[0], p[1], level)
		}
	}
}

func TestMockMatchMalformedBase64(t *testing.T) {
	m := newTestMock()
	_, err := m.Match("***", "QQ==", DefaultSecurityLevel)
	require.Error(t, err)
}
