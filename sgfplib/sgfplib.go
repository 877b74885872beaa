// Package sgfplib is the foreign-call boundary to the SecuGen FDx SDK.
//
// Every call returns a Status tag. Buffers are allocated by the caller:
// image buffers hold width*height bytes and template buffers hold
// TemplateSize bytes. Nothing else about the SDK's memory layout is assumed.
//
// The native binding is compiled only with the "secugen" build tag and cgo.
// Other builds get a Load that always fails with ErrNotBuilt.
package sgfplib

import (
	"errors"
	"path/filepath"
	"time"
)

// TemplateSize is the fixed size of a minutiae template buffer.
const TemplateSize = 400

// DeviceName selects the device family passed to Init.
type DeviceName uint32

// DeviceAuto lets the SDK pick the attached device.
const DeviceAuto DeviceName = 0xFF

// TemplateFormat selects the template encoding used by CreateTemplate and
// MatchTemplate.
type TemplateFormat uint16

const (
	TemplateFormatANSI378  TemplateFormat = 0x0100
	TemplateFormatSG400    TemplateFormat = 0x0200
	TemplateFormatISO19794 TemplateFormat = 0x0300
)

// DefaultImageQuality is the minimum quality GetImageEx waits for.
const DefaultImageQuality = 50

var (
	// ErrNotBuilt is returned by Load in builds without the native binding.
	ErrNotBuilt = errors.New("sgfplib: native SDK binding not compiled in (build with -tags secugen)")
	// ErrLoad is wrapped by Load when the shared library or one of its
	// symbols cannot be resolved.
	ErrLoad = errors.New("sgfplib: cannot load SDK library")
)

// DeviceInfo is the subset of the SDK's device description the bridge uses.
type DeviceInfo struct {
	Width  int
	Height int
}

// Library is one loaded SDK instance driving at most one device.
type Library interface {
	Create() Status
	Init(dev DeviceName) Status
	OpenDevice(id int) Status
	DeviceInfo() (DeviceInfo, Status)
	CloseDevice() Status
	// GetImageEx blocks until a finger of at least quality is captured
	// into buf or timeout elapses.
	GetImageEx(buf []byte, timeout time.Duration, quality int) Status
	ImageQuality(width, height int, img []byte) (int, Status)
	CreateTemplate(img []byte, tmpl []byte) Status
	SetTemplateFormat(format TemplateFormat) Status
	MatchTemplate(t1, t2 []byte, securityLevel int) (bool, Status)
	Terminate() Status
}

// Loader opens the shared library at path.
type Loader func(path string) (Library, error)

// LibraryPath resolves the shared library inside an SDK installation.
// Absolute library names are returned unchanged.
func LibraryPath(sdkDir, library string) string {
	if filepath.IsAbs(library) {
		return library
	}
	return filepath.Join(sdkDir, "lib", library)
}
