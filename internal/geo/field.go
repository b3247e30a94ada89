package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Mode selects how the GPS field is filled
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeManual Mode = "manual"
)

// Placeholders shown in the GPS field
const (
	PlaceholderLocating    = "Obteniendo ubicación..."
	PlaceholderManual      = "Escriba lat, lon (decimal)"
	PlaceholderError       = "Error al obtener GPS"
	PlaceholderUnsupported = "Geolocalización no soportada"
)

// ErrReadOnly is returned when typing into the field in automatic mode
var ErrReadOnly = errors.New("gps field is read-only in automatic mode")

// State is what the GPS field currently shows
type State struct {
	Mode        Mode   `json:"mode"`
	Value       string `json:"value"`
	Placeholder string `json:"placeholder"`
	ReadOnly    bool   `json:"read_only"`
}

// Field is the GPS input of the form. In automatic mode it is filled from a
// Locator; in manual mode the user types the coordinates.
type Field struct {
	locator Locator
	state   State
}

// NewField creates a field in manual mode with no value. Call SetMode to
// switch to automatic mode and take a first reading.
func NewField(locator Locator) *Field {
	if locator == nil {
		locator = UnsupportedLocator{}
	}
	return &Field{
		locator: locator,
		state:   State{Mode: ModeManual, Placeholder: PlaceholderManual},
	}
}

// State returns the current state of the field
func (f *Field) State() State {
	return f.state
}

// Value returns the coordinates shown in the field
func (f *Field) Value() string {
	return f.state.Value
}

// SetMode switches between automatic and manual entry. Entering automatic
// mode requests a reading; its failure only changes the placeholder and is
// returned for logging.
func (f *Field) SetMode(ctx context.Context, mode Mode) error {
	switch mode {
	case ModeAuto:
		f.state.Mode = ModeAuto
		f.state.ReadOnly = true
		f.state.Placeholder = PlaceholderLocating
		return f.Capture(ctx)
	case ModeManual:
		f.state.Mode = ModeManual
		f.state.ReadOnly = false
		f.state.Placeholder = PlaceholderManual
		return nil
	default:
		return fmt.Errorf("unknown gps mode: %q", mode)
	}
}

// Capture asks the locator for the current position and stores it. A failed
// reading leaves the value untouched.
func (f *Field) Capture(ctx context.Context) error {
	pos, err := f.locator.CurrentPosition(ctx)
	if err != nil {
		if f.state.Mode != ModeManual {
			if errors.Is(err, ErrUnavailable) {
				f.state.Placeholder = PlaceholderUnsupported
			} else {
				f.state.Placeholder = PlaceholderError
			}
		}
		return fmt.Errorf("failed to get position: %w", err)
	}
	f.state.Value = pos.String()
	return nil
}

// SetManual stores typed coordinates. The value is normalized to six
// decimals; an empty value clears the field.
func (f *Field) SetManual(text string) error {
	if f.state.ReadOnly {
		return ErrReadOnly
	}
	if strings.TrimSpace(text) == "" {
		f.state.Value = ""
		return nil
	}
	pos, err := ParseCoordinates(text)
	if err != nil {
		return err
	}
	f.state.Value = pos.String()
	return nil
}

// Restore sets the value without going through a locator, e.g. when loading
// a saved form.
func (f *Field) Restore(value string) {
	f.state.Value = value
}
