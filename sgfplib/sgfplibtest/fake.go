// Package sgfplibtest provides an in-memory sgfplib.Library for tests.
package sgfplibtest

import (
	"bytes"
	"sync"
	"time"

	"github.com/high-horse/fingerprint-server/sgfplib"
)

// Fake emulates one SDK instance with one attached device. Zero-valued
// status fields mean success.
type Fake struct {
	mu sync.Mutex

	CreateStatus   sgfplib.Status
	InitStatus     sgfplib.Status
	OpenStatus     sgfplib.Status
	InfoStatus     sgfplib.Status
	ImageStatus    sgfplib.Status
	QualityStatus  sgfplib.Status
	TemplateStatus sgfplib.Status
	FormatStatus   sgfplib.Status
	MatchStatus    sgfplib.Status

	Width   int
	Height  int
	Quality int

	// MatchFunc overrides the default byte-equality matcher.
	MatchFunc func(t1, t2 []byte, securityLevel int) bool
	// PanicOn names a method that panics when called, e.g. "OpenDevice".
	PanicOn string

	Opens, Closes, Captures, Matches int
	Terminated                       bool
	LastTimeout                      time.Duration
	LastImageQuality                 int
	LastSecurityLevel                int
	LastFormat                       sgfplib.TemplateFormat
	LastTemplateLens                 [2]int
}

// New returns a healthy 260x300 device reporting quality 80.
func New() *Fake {
	return &Fake{Width: 260, Height: 300, Quality: 80}
}

func (f *Fake) maybePanic(name string) {
	if f.PanicOn == name {
		panic("sgfplibtest: " + name)
	}
}

func (f *Fake) Create() sgfplib.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maybePanic("Create")
	return f.CreateStatus
}

func (f *Fake) Init(dev sgfplib.DeviceName) sgfplib.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maybePanic("Init")
	return f.InitStatus
}

func (f *Fake) OpenDevice(id int) sgfplib.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maybePanic("OpenDevice")
	f.Opens++
	return f.OpenStatus
}

func (f *Fake) DeviceInfo() (sgfplib.DeviceInfo, sgfplib.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return sgfplib.DeviceInfo{Width: f.Width, Height: f.Height}, f.InfoStatus
}

func (f *Fake) CloseDevice() sgfplib.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closes++
	return sgfplib.ErrorNone
}

func (f *Fake) GetImageEx(buf []byte, timeout time.Duration, quality int) sgfplib.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maybePanic("GetImageEx")
	f.Captures++
	f.LastTimeout = timeout
	f.LastImageQuality = quality
	if f.ImageStatus != sgfplib.ErrorNone {
		return f.ImageStatus
	}
	for i := range buf {
		buf[i] = byte(i*7 + f.Captures)
	}
	return sgfplib.ErrorNone
}

func (f *Fake) ImageQuality(width, height int, img []byte) (int, sgfplib.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Quality, f.QualityStatus
}

func (f *Fake) CreateTemplate(img []byte, tmpl []byte) sgfplib.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.TemplateStatus != sgfplib.ErrorNone {
		return f.TemplateStatus
	}
	if len(tmpl) < sgfplib.TemplateSize || len(img) == 0 {
		return sgfplib.ErrorInvalidParam
	}
	for i := range tmpl {
		tmpl[i] = img[i%len(img)]
	}
	return sgfplib.ErrorNone
}

func (f *Fake) SetTemplateFormat(format sgfplib.TemplateFormat) sgfplib.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastFormat = format
	return f.FormatStatus
}

func (f *Fake) MatchTemplate(t1, t2 []byte, securityLevel int) (bool, sgfplib.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maybePanic("MatchTemplate")
	f.Matches++
	f.LastSecurityLevel = securityLevel
	f.LastTemplateLens = [2]int{len(t1), len(t2)}
	if f.MatchStatus != sgfplib.ErrorNone {
		return false, f.MatchStatus
	}
	if f.MatchFunc != nil {
		return f.MatchFunc(t1, t2, securityLevel), sgfplib.ErrorNone
	}
	return bytes.Equal(t1, t2), sgfplib.ErrorNone
}

func (f *Fake) Terminate() sgfplib.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Terminated = true
	return sgfplib.ErrorNone
}

// Loader returns an sgfplib.Loader that always hands out f.
func (f *Fake) Loader() sgfplib.Loader {
	return func(string) (sgfplib.Library, error) { return f, nil }
}

// Counts returns the call counters under the lock.
func (f *Fake) Counts() (opens, closes, captures, matches int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Opens, f.Closes, f.Captures, f.Matches
}
