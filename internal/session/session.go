// Package session holds the single inspection being filled in: the form
// state and the GPS field that feeds its gps entry. All access goes through
// a mutex because MCP handlers may run concurrently.
package session

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/mcp-well-inspection/internal/form"
	"github.com/a3tai/mcp-well-inspection/internal/geo"
)

// Session is one inspection sheet
type Session struct {
	mu     sync.Mutex
	form   *form.Form
	gps    *geo.Field
	logger logrus.FieldLogger
}

// New creates an empty session over catalog. GPS readings come from locator.
func New(catalog form.Catalog, locator geo.Locator, logger logrus.FieldLogger) (*Session, error) {
	f, err := form.New(catalog)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Session{
		form:   f,
		gps:    geo.NewField(locator),
		logger: logger,
	}, nil
}

// Update runs fn with exclusive access to the form
func (s *Session) Update(fn func(f *form.Form) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.form)
}

// View runs fn with exclusive access to the form. fn must not modify it.
func (s *Session) View(fn func(f *form.Form)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.form)
}

// Snapshot returns an immutable copy of the current state
func (s *Session) Snapshot() form.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.Snapshot()
}

// SetField stores a text field. The gps field is routed through the GPS
// input so manual coordinates are validated the same way.
func (s *Session) SetField(field form.Field, value string) error {
	if field == form.FieldGPS {
		_, err := s.SetGPSManual(value)
		return err
	}
	return s.Update(func(f *form.Form) error {
		return f.SetField(field, value)
	})
}

// ResetFields clears selections and text fields, keeping GPS, actions
// and photos.
func (s *Session) ResetFields() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.ResetFields()
}

// ClearAll empties the whole sheet including the GPS reading
func (s *Session) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.ClearAll()
	s.gps.Restore("")
	s.logger.Debug("inspection cleared")
}

// GPS returns the state of the GPS field
func (s *Session) GPS() geo.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gps.State()
}

// SetGPSMode switches the GPS field between automatic and manual entry.
// A failed reading is not fatal: the returned state carries the failure
// placeholder and err is only informative.
func (s *Session) SetGPSMode(ctx context.Context, mode geo.Mode) (geo.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.gps.SetMode(ctx, mode)
	s.syncGPS()
	if err != nil {
		s.logger.WithField("mode", mode).WithError(err).Warn("gps reading failed")
	}
	return s.gps.State(), err
}

// CaptureGPS takes a fresh reading in automatic mode
func (s *Session) CaptureGPS(ctx context.Context) (geo.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.gps.Capture(ctx)
	s.syncGPS()
	if err != nil {
		s.logger.WithError(err).Warn("gps reading failed")
	}
	return s.gps.State(), err
}

// SetGPSManual stores typed coordinates in manual mode
func (s *Session) SetGPSManual(text string) (geo.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.gps.SetManual(text); err != nil {
		return s.gps.State(), err
	}
	s.syncGPS()
	return s.gps.State(), nil
}

func (s *Session) syncGPS() {
	// gps is a catalog field, so this cannot fail
	_ = s.form.SetField(form.FieldGPS, s.gps.Value())
}
