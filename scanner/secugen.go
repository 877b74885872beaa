package scanner

import (
	"fmt"
	"log"
	"sync"

	"github.com/high-horse/fingerprint-server/sgfplib"
)

// SecuGen drives a physical scanner through the native SDK.
//
// The device is a single physical resource, so every call that touches the
// SDK handle runs under mu.
type SecuGen struct {
	lib      sgfplib.Library
	deviceID int

	mu          sync.Mutex
	deviceOpen  bool
	imageWidth  int
	imageHeight int
}

// NewSecuGen wraps an SDK instance that has already been created and
// initialised. deviceID is used when Capture has to open the device itself.
func NewSecuGen(lib sgfplib.Library, deviceID int) *SecuGen {
	return &SecuGen{lib: lib, deviceID: deviceID}
}

func (s *SecuGen) Mock() bool { return false }

func (s *SecuGen) OpenDevice(deviceID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openLocked(deviceID)
}

func (s *SecuGen) openLocked(deviceID int) error {
	if s.deviceOpen {
		return nil
	}
	if err := sgfplib.Check("SGFPM_OpenDevice", s.lib.OpenDevice(deviceID)); err != nil {
		log.Printf("Failed to open device: %v", err)
		return err
	}
	info, status := s.lib.DeviceInfo()
	if err := sgfplib.Check("SGFPM_GetDeviceInfo", status); err != nil {
		s.lib.CloseDevice()
		log.Printf("Failed to read device info: %v", err)
		return err
	}
	if info.Width <= 0 || info.Height <= 0 {
		s.lib.CloseDevice()
		return fmt.Errorf("sgfplib: device reported geometry %dx%d", info.Width, info.Height)
	}
	s.deviceOpen = true
	s.imageWidth = info.Width
	s.imageHeight = info.Height
	log.Printf("Device opened: %dx%d", s.imageWidth, s.imageHeight)
	return nil
}

func (s *SecuGen) CloseDevice() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
	return nil
}

func (s *SecuGen) closeLocked() {
	if !s.deviceOpen {
		return
	}
	if status := s.lib.CloseDevice(); !status.OK() {
		log.Printf("Close device returned %s", status)
	}
	s.deviceOpen = false
}

func (s *SecuGen) Capture(opts CaptureOptions) (*CaptureResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.deviceOpen {
		if err := s.openLocked(s.deviceID); err != nil {
			return failed(ErrOpenDevice), nil
		}
	}

	width, height := s.imageWidth, s.imageHeight
	image := make([]byte, width*height)
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if status := s.lib.GetImageEx(image, timeout, opts.Quality); !status.OK() {
		return failed(fmt.Sprintf("Capture failed: %s", status)), nil
	}

	quality, status := s.lib.ImageQuality(width, height, image)
	if !status.OK() {
		log.Printf("Image quality unavailable: %s", status)
	}

	template := make([]byte, sgfplib.TemplateSize)
	if status := s.lib.CreateTemplate(image, template); !status.OK() {
		return failed(fmt.Sprintf("Template creation failed: %s", status)), nil
	}

	result := captured(template, quality, width, height)
	if opts.IncludeImage {
		if err := result.attachImage(image, width, height, opts.ImageFormat); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *SecuGen) Match(template1, template2 string, level int) (bool, error) {
	t1, err := DecodeTemplate(template1)
	if err != nil {
		return false, err
	}
	t2, err := DecodeTemplate(template2)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if status := s.lib.SetTemplateFormat(sgfplib.TemplateFormatANSI378); !status.OK() {
		log.Printf("Set template format failed: %s", status)
	}
	matched, status := s.lib.MatchTemplate(padTemplate(t1), padTemplate(t2), clampSecurityLevel(level))
	if !status.OK() {
		log.Printf("Match failed: %s", status)
		return false, nil
	}
	return matched, nil
}

// Release closes the device and terminates the SDK instance.
func (s *SecuGen) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
	return sgfplib.Check("SGFPM_Terminate", s.lib.Terminate())
}
