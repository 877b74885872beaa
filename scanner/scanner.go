// Package scanner exposes the fingerprint device behind one interface with two
// implementations: SecuGen, which drives the native SDK, and Mock, which
// synthesises data when no SDK or device is present.
package scanner

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/high-horse/fingerprint-server/imaging"
	"github.com/high-horse/fingerprint-server/sgfplib"
)

// ErrOpenDevice is the capture error reported when the device cannot be opened.
const ErrOpenDevice = "Failed to open device"

const (
	// DefaultTimeout replaces a non-positive capture timeout.
	DefaultTimeout = 10 * time.Second
	// DefaultSecurityLevel replaces a non-positive security level. Levels
	// above MaxSecurityLevel are clamped.
	DefaultSecurityLevel = 5
	MaxSecurityLevel     = 9
)

func clampSecurityLevel(level int) int {
	switch {
	case level <= 0:
		return DefaultSecurityLevel
	case level > MaxSecurityLevel:
		return MaxSecurityLevel
	}
	return level
}

// Scanner is the capability set shared by the hardware and mock variants.
type Scanner interface {
	// OpenDevice acquires the device and records its geometry. Opening an
	// already open device is a no-op.
	OpenDevice(deviceID int) error
	// CloseDevice releases the device if held. It never fails.
	CloseDevice() error
	// Capture acquires one frame and derives a template from it. Device
	// failures are reported in the result; the error is reserved for
	// unexpected faults.
	Capture(opts CaptureOptions) (*CaptureResult, error)
	// Match compares two base64 templates at the given security level.
	Match(template1, template2 string, securityLevel int) (bool, error)
	// Mock reports whether this is the software fallback.
	Mock() bool
}

type CaptureOptions struct {
	Timeout      time.Duration
	Quality      int
	IncludeImage bool
	ImageFormat  imaging.Format
}

// CaptureResult is the outcome of one capture. A successful result always
// carries Template and Quality.
type CaptureResult struct {
	Success     bool   `json:"success"`
	Template    string `json:"template,omitempty"`
	Quality     *int   `json:"quality,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Error       string `json:"error,omitempty"`
	Image       string `json:"image,omitempty"`
	ImageFormat string `json:"imageFormat,omitempty"`
}

func failed(msg string) *CaptureResult {
	return &CaptureResult{Success: false, Error: msg}
}

func captured(template []byte, quality, width, height int) *CaptureResult {
	q := quality
	return &CaptureResult{
		Success:  true,
		Template: base64.StdEncoding.EncodeToString(template),
		Quality:  &q,
		Width:    width,
		Height:   height,
	}
}

// attachImage adds the encoded raw frame to a successful result.
func (r *CaptureResult) attachImage(raw []byte, width, height int, format imaging.Format) error {
	img, err := imaging.FromRaw(raw, width, height)
	if err != nil {
		return err
	}
	if format == "" {
		format = imaging.PNG
	}
	data, err := imaging.Encode(img, format)
	if err != nil {
		return err
	}
	r.Image = base64.StdEncoding.EncodeToString(data)
	r.ImageFormat = string(format)
	return nil
}

// DecodeTemplate decodes a standard base64 template.
func DecodeTemplate(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid template encoding: %w", err)
	}
	return b, nil
}

// padTemplate returns t unchanged when it already fills a template buffer,
// otherwise a zero-padded copy of TemplateSize bytes.
func padTemplate(t []byte) []byte {
	if len(t) >= sgfplib.TemplateSize {
		return t
	}
	buf := make([]byte, sgfplib.TemplateSize)
	copy(buf, t)
	return buf
}

// Probe tests live connectivity by opening and immediately closing the
// device. The mock is always connected.
func Probe(s Scanner, deviceID int) (connected bool) {
	if s.Mock() {
		return true
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Error checking device: %v", r)
			connected = false
		}
	}()
	if err := s.OpenDevice(deviceID); err != nil {
		log.Printf("Error checking device: %v", err)
		return false
	}
	if err := s.CloseDevice(); err != nil {
		log.Printf("Error closing device after check: %v", err)
	}
	return true
}

var (
	ErrNoCapturedTemplate = errors.New("scanner: no captured template")
	ErrNoStoredTemplates  = errors.New("scanner: no stored templates")
)
