package scanner

import (
	"fmt"
	"log"

	"github.com/high-horse/fingerprint-server/config"
	"github.com/high-horse/fingerprint-server/sgfplib"
)

// Selection is the scanner chosen at startup. It never changes afterwards.
type Selection struct {
	Scanner Scanner
	// Available reports whether the SDK loaded and initialised.
	Available bool
	// Reason holds the initialisation failure that forced the mock.
	Reason error
}

// MockMode is the negation of Available.
func (s *Selection) MockMode() bool { return !s.Available }

// Select loads the SDK with load and walks create and init. Any error, panic
// or non-success status falls back to the mock.
func Select(load sgfplib.Loader, cfg *config.Settings) *Selection {
	path := sgfplib.LibraryPath(cfg.SDK.Path, cfg.SDK.Library)
	lib, err := initSDK(load, path)
	if err != nil {
		log.Printf("SecuGen SDK not available: %v", err)
		log.Printf("Using mock scanner (no hardware detected)")
		return &Selection{
			Scanner: NewMock(cfg.Mock.CaptureDelay, cfg.Mock.ImageWidth, cfg.Mock.ImageHeight),
			Reason:  err,
		}
	}
	log.Printf("SecuGen SDK initialized successfully")
	if cfg.Server.Debug {
		for _, s := range sgfplib.Statuses() {
			log.Printf("sgfplib status %3d %s", uint32(s), s)
		}
	}
	return &Selection{
		Scanner:   NewSecuGen(lib, cfg.SDK.DeviceID),
		Available: true,
	}
}

func initSDK(load sgfplib.Loader, path string) (lib sgfplib.Library, err error) {
	defer func() {
		if r := recover(); r != nil {
			lib, err = nil, fmt.Errorf("sgfplib: panic during initialisation: %v", r)
		}
	}()

	lib, err = load(path)
	if err != nil {
		return nil, err
	}
	if err := sgfplib.Check("SGFPM_Create", lib.Create()); err != nil {
		lib.Terminate()
		return nil, err
	}
	if err := sgfplib.Check("SGFPM_Init", lib.Init(sgfplib.DeviceAuto)); err != nil {
		lib.Terminate()
		return nil, err
	}
	return lib, nil
}

// Close releases the hardware, if any.
func (s *Selection) Close() error {
	if hw, ok := s.Scanner.(*SecuGen); ok {
		return hw.Release()
	}
	return s.Scanner.CloseDevice()
}
