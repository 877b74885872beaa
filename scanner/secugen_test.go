package scanner

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/high-horse/fingerprint-server/imaging"
	"github.com/high-horse/fingerprint-server/sgfplib"
	"github.com/high-horse/fingerprint-server/sgfplib/sgfplibtest"
)

func captureOpts() CaptureOptions {
	return CaptureOptions{Timeout: DefaultTimeout, Quality: sgfplib.DefaultImageQuality}
}

func TestSecuGenOpenIsIdempotent(t *testing.T) {
	fake := sgfplibtest.New()
	s := NewSecuGen(fake, 0)

	require.NoError(t, s.OpenDevice(0))
	require.NoError(t, s.OpenDevice(0))

	opens, _, _, _ := fake.Counts()
	assert.Equal(t, 1, opens)
}

func TestSecuGenCloseTwice(t *testing.T) {
	fake := sgfplibtest.New()
	s := NewSecuGen(fake, 0)

	require.NoError(t, s.CloseDevice())
	require.NoError(t, s.OpenDevice(0))
	require.NoError(t, s.CloseDevice())
	require.NoError(t, s.CloseDevice())

	_, closes, _, _ := fake.Counts()
	assert.Equal(t, 1, closes)
}

func TestSecuGenOpenFailure(t *testing.T) {
	fake := sgfplibtest.New()
	fake.OpenStatus = sgfplib.ErrorDeviceNotFound
	s := NewSecuGen(fake, 0)

	err := s.OpenDevice(0)
	require.Error(t, err)
	var se *sgfplib.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, sgfplib.ErrorDeviceNotFound, se.Status)
}

func TestSecuGenCaptureCannotOpen(t *testing.T) {
	fake := sgfplibtest.New()
	fake.OpenStatus = sgfplib.ErrorDeviceNotFound
	s := NewSecuGen(fake, 0)

	res, err := s.Capture(captureOpts())
	require.NoError(t, err)
	assert.Equal(t, &CaptureResult{Success: false, Error: "Failed to open device"}, res)

	body, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"Failed to open device"}`, string(body))

	_, _, captures, _ := fake.Counts()
	assert.Zero(t, captures)
}

func TestSecuGenCaptureInvalidGeometry(t *testing.T) {
	fake := sgfplibtest.New()
	fake.Width = 0
	s := NewSecuGen(fake, 0)

	res, err := s.Capture(captureOpts())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, ErrOpenDevice, res.Error)
}

func TestSecuGenCapture(t *testing.T) {
	fake := sgfplibtest.New()
	fake.Quality = 88
	s := NewSecuGen(fake, 0)

	res, err := s.Capture(CaptureOptions{Timeout: 3 * time.Second, Quality: 60})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotNil(t, res.Quality)
	assert.Equal(t, 88, *res.Quality)
	assert.Equal(t, 260, res.Width)
	assert.Equal(t, 300, res.Height)
	assert.Empty(t, res.Error)
	assert.Empty(t, res.Image)

	raw, err := base64.StdEncoding.DecodeString(res.Template)
	require.NoError(t, err)
	assert.Len(t, raw, sgfplib.TemplateSize)

	assert.Equal(t, 3*time.Second, fake.LastTimeout)
	assert.Equal(t, 60, fake.LastImageQuality)
}

func TestSecuGenCaptureTemplateRoundTripsThroughMatch(t *testing.T) {
	fake := sgfplibtest.New()
	s := NewSecuGen(fake, 0)

	res, err := s.Capture(captureOpts())
	require.NoError(t, err)
	require.True(t, res.Success)

	matched, err := s.Match(res.Template, res.Template, DefaultSecurityLevel)
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, [2]int{sgfplib.TemplateSize, sgfplib.TemplateSize}, fake.LastTemplateLens)
}

func TestSecuGenCaptureFailures(t *testing.T) {
	t.Run("image", func(t *testing.T) {
		fake := sgfplibtest.New()
		fake.ImageStatus = sgfplib.ErrorTimeOut
		res, err := NewSecuGen(fake, 0).Capture(captureOpts())
		require.NoError(t, err)
		assert.Equal(t, &CaptureResult{Success: false, Error: "Capture failed: SGFDX_ERROR_TIME_OUT"}, res)
	})

	t.Run("template", func(t *testing.T) {
		fake := sgfplibtest.New()
		fake.TemplateStatus = sgfplib.ErrorExtractFail
		res, err := NewSecuGen(fake, 0).Capture(captureOpts())
		require.NoError(t, err)
		assert.Equal(t, &CaptureResult{Success: false, Error: "Template creation failed: SGFDX_ERROR_EXTRACT_FAIL"}, res)
	})

	t.Run("quality status is not fatal", func(t *testing.T) {
		fake := sgfplibtest.New()
		fake.QualityStatus = sgfplib.ErrorFunctionFailed
		res, err := NewSecuGen(fake, 0).Capture(captureOpts())
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.NotNil(t, res.Quality)
	})
}

func TestSecuGenCaptureWithImage(t *testing.T) {
	fake := sgfplibtest.New()
	fake.Width, fake.Height = 8, 4
	s := NewSecuGen(fake, 0)

	opts := captureOpts()
	opts.IncludeImage = true
	opts.ImageFormat = imaging.PGM
	res, err := s.Capture(opts)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "pgm", res.ImageFormat)

	data, err := base64.StdEncoding.DecodeString(res.Image)
	require.NoError(t, err)
	assert.Equal(t, "P5", string(data[:2]))
}

func TestSecuGenMatch(t *testing.T) {
	fake := sgfplibtest.New()
	s := NewSecuGen(fake, 0)

	matched, err := s.Match("QQ==", "QQ==", DefaultSecurityLevel)
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, sgfplib.TemplateFormatANSI378, fake.LastFormat)
	assert.Equal(t, DefaultSecurityLevel, fake.LastSecurityLevel)
	// short templates cross the FFI boundary in full-size buffers
	assert.Equal(t, [2]int{sgfplib.TemplateSize, sgfplib.TemplateSize}, fake.LastTemplateLens)

	matched, err = s.Match("QQ==", "Qg==", 9)
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Equal(t, 9, fake.LastSecurityLevel)
}

func TestSecuGenMatchStatusIsNoMatch(t *testing.T) {
	fake := sgfplibtest.New()
	fake.MatchStatus = sgfplib.ErrorInvalidTemplate1
	matched, err := NewSecuGen(fake, 0).Match("QQ==", "QQ==", DefaultSecurityLevel)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestSecuGenMatchMalformedBase64(t *testing.T) {
	fake := sgfplibtest.New()
	s := NewSecuGen(fake, 0)

	_, err := s.Match("not base64!", "QQ==", DefaultSecurityLevel)
	require.Error(t, err)
	_, err = s.Match("QQ==", "%%%", DefaultSecurityLevel)
	require.Error(t, err)

	_, _, _, matches := fake.Counts()
	assert.Zero(t, matches)
}

func TestSecuGenMatchDoesNotTouchDeviceState(t *testing.T) {
	fake := sgfplibtest.New()
	s := NewSecuGen(fake, 0)

	_, err := s.Match("QQ==", "QQ==", DefaultSecurityLevel)
	require.NoError(t, err)
	assert.False(t, s.deviceOpen)
	assert.Zero(t, s.imageWidth)
}

func TestSecuGenRelease(t *testing.T) {
	fake := sgfplibtest.New()
	s := NewSecuGen(fake, 0)
	require.NoError(t, s.OpenDevice(0))

	require.NoError(t, s.Release())
	assert.True(t, fake.Terminated)
	_, closes, _, _ := fake.Counts()
	assert.Equal(t, 1, closes)
}

func TestSecuGenMatchClampsSecurityLevel(t *testing.T) {
	fake := sgfplibtest.New()
	s := NewSecuGen(fake, 0)

	for _, tc := range []struct{ in, want int }{
		{0, DefaultSecurityLevel},
		{-3, DefaultSecurityLevel},
		{1, 1},
		{MaxSecurityLevel, MaxSecurityLevel},
		{42, MaxSecurityLevel},
	} {
		_, err := s.Match("QQ==", "QQ==", tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, fake.LastSecurityLevel, "level %d", tc.in)
	}
}

func TestSecuGenCaptureDefaultsTimeout(t *testing.T) {
	fake := sgfplibtest.New()
	s := NewSecuGen(fake, 0)

	res, err := s.Capture(CaptureOptions{Quality: sgfplib.DefaultImageQuality})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, DefaultTimeout, fake.LastTimeout)
}

func TestSecuGenMatchEmptyTemplate(t *testing.T) {
	fake := sgfplibtest.New()
	matched, err := NewSecuGen(fake, 0).Match("QQ==", "", DefaultSecurityLevel)
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Equal(t, [2]int{sgfplib.TemplateSize, sgfplib.TemplateSize}, fake.LastTemplateLens)
}
