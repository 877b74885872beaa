// Package server exposes the selected scanner over local HTTP.
package server

import (
	"errors"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/high-horse/fingerprint-server/config"
	"github.com/high-horse/fingerprint-server/scanner"
)

type Server struct {
	app     *fiber.App
	sel     *scanner.Selection
	cfg     *config.Settings
	metrics *metrics
}

// New wires the routes for sel. Access log lines go to accessLog, or stderr
// when it is nil.
func New(sel *scanner.Selection, cfg *config.Settings, accessLog io.Writer) *Server {
	if accessLog == nil {
		accessLog = os.Stderr
	}
	s := &Server{
		sel:     sel,
		cfg:     cfg,
		metrics: newMetrics(sel.MockMode()),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "fingerprint-server",
		DisableStartupMessage: !cfg.Server.Debug,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(recover.New(recover.Config{EnableStackTrace: cfg.Server.Debug}))
	s.app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	s.app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		Output: accessLog,
	}))
	// An empty allow-list means no cross-origin access. cors.New would
	// read it as "*".
	if len(cfg.Server.AllowedOrigins) > 0 {
		s.app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(cfg.Server.AllowedOrigins, ","),
			AllowMethods: "GET,POST,OPTIONS",
			AllowHeaders: "Origin, Content-Type, Accept",
		}))
	}
	s.app.Use(s.metrics.observe)

	s.app.Get("/health", s.health)
	s.app.Get("/status", s.status)
	s.app.Post("/capture", s.capture)
	s.app.Post("/verify", s.verify)
	s.app.Post("/match", s.match)
	s.app.Get("/metrics", s.metrics.handler())

	return s
}

// App exposes the underlying Fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen() error {
	addr := s.cfg.Server.Addr()
	log.Printf("Starting Fingerprint Service on %s", addr)
	if s.sel.Available {
		log.Println("SecuGen SDK: Available")
	} else {
		log.Println("SecuGen SDK: Not available (mock mode)")
	}
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}

// handleError renders every error as {success:false, error}. Anything that
// is not a *fiber.Error is an unexpected fault and is logged.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	} else {
		log.Printf("%s %s error: %v", c.Method(), c.Path(), err)
	}
	return respond(c, code, ErrorResponse{Success: false, Error: err.Error()})
}
