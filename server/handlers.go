package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/high-horse/fingerprint-server/imaging"
	"github.com/high-horse/fingerprint-server/scanner"
)

func badRequest(msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}

func orDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func (s *Server) health(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, HealthResponse{
		Status:           "ok",
		SecugenAvailable: s.sel.Available,
		MockMode:         s.sel.MockMode(),
	})
}

func (s *Server) status(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, StatusResponse{
		Connected:        scanner.Probe(s.sel.Scanner, s.cfg.SDK.DeviceID),
		SecugenAvailable: s.sel.Available,
		MockMode:         s.sel.MockMode(),
	})
}

func (s *Server) capture(c *fiber.Ctx) error {
	var req CaptureRequest
	if err := decodeBody(c, &req); err != nil && !errors.Is(err, errEmptyBody) {
		return badRequest("Invalid request body: " + err.Error())
	}

	format, err := imaging.ParseFormat(req.ImageFormat)
	if err != nil {
		return badRequest(err.Error())
	}
	timeout := orDefault(req.Timeout, s.cfg.Capture.TimeoutMs)
	if timeout <= 0 {
		timeout = s.cfg.Capture.TimeoutMs
	}

	result, err := s.sel.Scanner.Capture(scanner.CaptureOptions{
		Timeout:      time.Duration(timeout) * time.Millisecond,
		Quality:      orDefault(req.Quality, s.cfg.Capture.Quality),
		IncludeImage: req.IncludeImage,
		ImageFormat:  format,
	})
	if err != nil {
		s.metrics.captures.WithLabelValues("error").Inc()
		return err
	}
	if result.Success {
		s.metrics.captures.WithLabelValues("success").Inc()
	} else {
		s.metrics.captures.WithLabelValues("failed").Inc()
	}
	return respond(c, fiber.StatusOK, result)
}

func (s *Server) verify(c *fiber.Ctx) error {
	var req VerifyRequest
	if err := decodeBody(c, &req); err != nil {
		if errors.Is(err, errEmptyBody) {
			return badRequest("No data provided")
		}
		return badRequest("Invalid request body: " + err.Error())
	}

	level := orDefault(req.SecurityLevel, s.cfg.Match.SecurityLevel)
	stored := scanner.StoredTemplatesFrom(req.StoredTemplates)
	result, err := scanner.Verify(s.sel.Scanner, req.CapturedTemplate, stored, level)
	switch {
	case errors.Is(err, scanner.ErrNoCapturedTemplate):
		return badRequest("No captured template")
	case errors.Is(err, scanner.ErrNoStoredTemplates):
		return badRequest("No stored templates")
	case err != nil:
		s.metrics.matches.WithLabelValues("verify", "error").Inc()
		return err
	}

	s.metrics.compared.Observe(float64(result.Compared))
	s.metrics.matches.WithLabelValues("verify", matchResult(result.Matched)).Inc()
	return respond(c, fiber.StatusOK, VerifyResponse{
		Success:     true,
		Matched:     result.Matched,
		FingerIndex: result.FingerIndex,
	})
}

func (s *Server) match(c *fiber.Ctx) error {
	var req MatchRequest
	if err := decodeBody(c, &req); err != nil && !errors.Is(err, errEmptyBody) {
		return badRequest("Invalid request body: " + err.Error())
	}
	if req.Template1 == "" || req.Template2 == "" {
		return badRequest("Both templates required")
	}

	level := orDefault(req.SecurityLevel, s.cfg.Match.SecurityLevel)
	matched, err := s.sel.Scanner.Match(req.Template1, req.Template2, level)
	if err != nil {
		s.metrics.matches.WithLabelValues("match", "error").Inc()
		return err
	}
	s.metrics.matches.WithLabelValues("match", matchResult(matched)).Inc()
	return respond(c, fiber.StatusOK, MatchResponse{Success: true, Matched: matched})
}
