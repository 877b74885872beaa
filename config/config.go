// Package config holds the process-wide settings of the fingerprint server.
//
// Settings are assembled in layers: struct defaults, an optional TOML file,
// an optional .env file and finally the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/mcuadros/go-defaults"
)

// Config is the active configuration. It is populated by LoadConfig and
// treated as read-only afterwards.
var Config *Settings

type Settings struct {
	Server  ServerSettings  `toml:"server"`
	SDK     SDKSettings     `toml:"sdk"`
	Capture CaptureSettings `toml:"capture"`
	Match   MatchSettings   `toml:"match"`
	Mock    MockSettings    `toml:"mock"`
	Log     LogSettings     `toml:"log"`
}

type ServerSettings struct {
	Host           string        `toml:"host" default:"0.0.0.0"`
	Port           int           `toml:"port" default:"8444"`
	Debug          bool          `toml:"debug"`
	AllowedOrigins []string      `toml:"allowed_origins" default:"[http://localhost:5173,http://localhost:3000,http://192.168.178.41:5173]"`
	ReadTimeout    time.Duration `toml:"read_timeout" default:"30s"`
	WriteTimeout   time.Duration `toml:"write_timeout" default:"30s"`
}

// Addr is the listen address.
func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type SDKSettings struct {
	// Path is the SDK installation root. The shared library is looked up
	// under Path/lib.
	Path     string `toml:"path" default:"/opt/secugen-sdk"`
	Library  string `toml:"library" default:"libsgfplib.so"`
	DeviceID int    `toml:"device_id"`
}

type CaptureSettings struct {
	TimeoutMs int `toml:"timeout_ms" default:"10000"`
	Quality   int `toml:"quality" default:"50"`
}

type MatchSettings struct {
	SecurityLevel int `toml:"security_level" default:"5"`
}

type MockSettings struct {
	CaptureDelay time.Duration `toml:"capture_delay" default:"500ms"`
	ImageWidth   int           `toml:"image_width" default:"260"`
	ImageHeight  int           `toml:"image_height" default:"300"`
}

type LogSettings struct {
	// Dir enables rotated log files when non-empty.
	Dir          string        `toml:"dir"`
	MaxAge       time.Duration `toml:"max_age" default:"168h"`
	RotationTime time.Duration `toml:"rotation_time" default:"24h"`
}

// New returns settings with every default applied and no file or
// environment overrides.
func New() *Settings {
	s := &Settings{}
	defaults.SetDefaults(s)
	return s
}

// LoadConfig sets Config from the built-in defaults, overlaid by the TOML
// file at path, then .env and the environment.
func LoadConfig(path string) error {
	s, err := Load(path)
	if err != nil {
		return err
	}
	Config = s
	return nil
}

// Load reads settings without touching the package-level Config.
func Load(path string) (*Settings, error) {
	// Defaults go first so that explicit zero values in the file survive.
	s := New()
	if path != "" {
		if _, err := toml.DecodeFile(path, s); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}
	loadDotEnv()
	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func loadDotEnv() {
	// a missing .env is the normal case
	_ = godotenv.Load()
}

func (s *Settings) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PORT %q", v)
		}
		s.Server.Port = port
	}
	if v := os.Getenv("DEBUG"); v != "" {
		s.Server.Debug = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("SECUGEN_SDK_PATH"); v != "" {
		s.SDK.Path = v
	}
	if v := os.Getenv("LOG_DIR"); v != "" {
		s.Log.Dir = v
	}
	return nil
}

// Validate checks value ranges.
func (s *Settings) Validate() error {
	var errs []error
	if s.Server.Port < 1 || s.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", s.Server.Port))
	}
	if s.Match.SecurityLevel < 1 || s.Match.SecurityLevel > 9 {
		errs = append(errs, fmt.Errorf("match.security_level %d out of range 1..9", s.Match.SecurityLevel))
	}
	if s.Capture.Quality < 0 || s.Capture.Quality > 100 {
		errs = append(errs, fmt.Errorf("capture.quality %d out of range 0..100", s.Capture.Quality))
	}
	if s.Capture.TimeoutMs <= 0 {
		errs = append(errs, fmt.Errorf("capture.timeout_ms must be positive"))
	}
	if s.Mock.ImageWidth <= 0 || s.Mock.ImageHeight <= 0 {
		errs = append(errs, fmt.Errorf("mock image geometry must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
