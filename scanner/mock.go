package scanner

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"github.com/high-horse/fingerprint-server/sgfplib"
)

const (
	mockQualityMin = 70
	mockQualityMax = 95
)

// Mock stands in for the hardware when the SDK cannot be initialised.
// It provides no biometric assurance.
type Mock struct {
	delay         time.Duration
	width, height int

	mu         sync.Mutex
	rng        *rand.Rand
	deviceOpen bool
}

// NewMock returns a mock that sleeps delay per capture to emulate the
// acquisition latency of a real device.
func NewMock(delay time.Duration, width, height int) *Mock {
	return &Mock{
		delay:  delay,
		width:  width,
		height: height,
		rng:    rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

func (m *Mock) Mock() bool { return true }

func (m *Mock) OpenDevice(int) error {
	m.mu.Lock()
	m.deviceOpen = true
	m.mu.Unlock()
	return nil
}

func (m *Mock) CloseDevice() error {
	m.mu.Lock()
	m.deviceOpen = false
	m.mu.Unlock()
	return nil
}

func (m *Mock) Capture(opts CaptureOptions) (*CaptureResult, error) {
	time.Sleep(m.delay)

	m.mu.Lock()
	template := make([]byte, sgfplib.TemplateSize)
	m.rng.Read(template)
	quality := mockQualityMin + m.rng.Intn(mockQualityMax-mockQualityMin+1)
	var frame []byte
	if opts.IncludeImage {
		frame = make([]byte, m.width*m.height)
		m.rng.Read(frame)
	}
	m.mu.Unlock()

	result := captured(template, quality, m.width, m.height)
	if opts.IncludeImage {
		if err := result.attachImage(frame, m.width, m.height, opts.ImageFormat); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Match accepts every pair of well-formed templates, whatever their content.
// UI flows built against the mock must be able to complete verification
// with freshly captured random templates, so this must stay permissive.
// Never expose a mock-mode server outside development: its matches
// authenticate nobody.
func (m *Mock) Match(template1, template2 string, securityLevel int) (bool, error) {
	if _, err := DecodeTemplate(template1); err != nil {
		return false, err
	}
	if _, err := DecodeTemplate(template2); err != nil {
		return false, err
	}
	return true, nil
}
