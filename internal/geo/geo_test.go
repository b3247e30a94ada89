package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "19.432608, -99.133209", want: "19.432608, -99.133209"},
		{name: "padded to six decimals", input: "19.4,-99.1", want: "19.400000, -99.100000"},
		{name: "rounded to six decimals", input: " 10.12345678 , 20.1234564 ", want: "10.123457, 20.123456"},
		{name: "integers", input: "0, 0", want: "0.000000, 0.000000"},
		{name: "edges", input: "-90, 180", want: "-90.000000, 180.000000"},
		{name: "latitude out of range", input: "91, 0", wantErr: true},
		{name: "longitude out of range", input: "0, -180.5", wantErr: true},
		{name: "missing longitude", input: "19.4", wantErr: true},
		{name: "too many parts", input: "1, 2, 3", wantErr: true},
		{name: "not a number", input: "norte, sur", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := ParseCoordinates(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidCoordinates)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, pos.String())
		})
	}
}

func TestNewPosition(t *testing.T) {
	pos, err := NewPosition(19.4326077, -99.133208)
	require.NoError(t, err)
	assert.Equal(t, "19.432608, -99.133208", pos.String())

	_, err = NewPosition(120, 0)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}

func TestField_AutoMode(t *testing.T) {
	pos, err := NewPosition(1.5, -2.25)
	require.NoError(t, err)
	f := NewField(FixedLocator{Position: pos})

	require.NoError(t, f.SetMode(context.Background(), ModeAuto))
	st := f.State()
	assert.Equal(t, ModeAuto, st.Mode)
	assert.True(t, st.ReadOnly)
	assert.Equal(t, PlaceholderLocating, st.Placeholder)
	assert.Equal(t, "1.500000, -2.250000", st.Value)

	assert.ErrorIs(t, f.SetManual("3, 4"), ErrReadOnly)
	assert.Equal(t, "1.500000, -2.250000", f.Value())
}

func TestField_CaptureFailures(t *testing.T) {
	tests := []struct {
		name            string
		locator         Locator
		wantPlaceholder string
	}{
		{name: "unsupported", locator: UnsupportedLocator{}, wantPlaceholder: PlaceholderUnsupported},
		{
			name: "denied",
			locator: LocatorFunc(func(context.Context) (Position, error) {
				return Position{}, errors.New("permission denied")
			}),
			wantPlaceholder: PlaceholderError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewField(tt.locator)
			f.Restore("5.000000, 6.000000")

			err := f.SetMode(context.Background(), ModeAuto)
			require.Error(t, err)
			assert.Equal(t, tt.wantPlaceholder, f.State().Placeholder)
			assert.Equal(t, "5.000000, 6.000000", f.Value(), "a failed reading keeps the previous value")
		})
	}
}

func TestField_ManualMode(t *testing.T) {
	f := NewField(UnsupportedLocator{})
	require.NoError(t, f.SetMode(context.Background(), ModeManual))

	st := f.State()
	assert.False(t, st.ReadOnly)
	assert.Equal(t, PlaceholderManual, st.Placeholder)

	require.NoError(t, f.SetManual("20.5, -100.25"))
	assert.Equal(t, "20.500000, -100.250000", f.Value())

	assert.ErrorIs(t, f.SetManual("20.5"), ErrInvalidCoordinates)
	assert.Equal(t, "20.500000, -100.250000", f.Value())

	// a failed capture in manual mode leaves the placeholder alone
	assert.Error(t, f.Capture(context.Background()))
	assert.Equal(t, PlaceholderManual, f.State().Placeholder)

	require.NoError(t, f.SetManual(""))
	assert.Empty(t, f.Value())

	assert.Error(t, f.SetMode(context.Background(), "satellite"))
}

func TestFixedLocator_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FixedLocator{}.CurrentPosition(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
