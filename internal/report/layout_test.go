package report

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedWidth measures every rune as 6pt wide
func fixedWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * 6
}

func TestScaleToFit(t *testing.T) {
	tests := []struct {
		name         string
		origW, origH int
		maxW, maxH   float64
		wantW, wantH int
	}{
		// 4000*260/3000 = 346.67, which rounds to 347
		{name: "landscape bounded by height", origW: 4000, origH: 3000, maxW: 500, maxH: 260, wantW: 347, wantH: 260},
		{name: "portrait bounded by height", origW: 1000, origH: 2000, maxW: 500, maxH: 260, wantW: 130, wantH: 260},
		{name: "panorama bounded by width", origW: 5000, origH: 500, maxW: 500, maxH: 260, wantW: 500, wantH: 50},
		{name: "small image is enlarged", origW: 100, origH: 100, maxW: 500, maxH: 260, wantW: 260, wantH: 260},
		{name: "exact fit", origW: 500, origH: 260, maxW: 500, maxH: 260, wantW: 500, wantH: 260},
		{name: "degenerate", origW: 0, origH: 300, maxW: 500, maxH: 260, wantW: 0, wantH: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ScaleToFit(tt.origW, tt.origH, tt.maxW, tt.maxH)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
			assert.LessOrEqual(t, float64(w), tt.maxW)
			assert.LessOrEqual(t, float64(h), tt.maxH)
		})
	}
}

func TestScaleToFit_PreservesAspectRatio(t *testing.T) {
	w, h := ScaleToFit(4000, 3000, 515.28, 260)
	assert.InDelta(t, 4.0/3.0, float64(w)/float64(h), 0.01)
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{name: "empty", text: "", width: 60, want: []string{""}},
		{name: "fits", text: "Clima: Soleado", width: 600, want: []string{"Clima: Soleado"}},
		{name: "word wrap", text: "uno dos tres cuatro", width: 48, want: []string{"uno dos", "tres", "cuatro"}},
		{name: "newline", text: "a\nb", width: 600, want: []string{"a", "b"}},
		{name: "long word is split", text: "abcdefghij", width: 24, want: []string{"abcd", "efgh", "ij"}},
		{name: "indent kept", text: " 1. uno dos", width: 42, want: []string{" 1. uno", "dos"}},
		{name: "spaces at break dropped", text: "uno   dos", width: 30, want: []string{"uno", "dos"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapText(tt.text, tt.width, fixedWidth))
		})
	}
}

func TestWrapText_LinesFitAndKeepWords(t *testing.T) {
	text := strings.Repeat("observación larga del pozo ", 40)
	width := 200.0

	lines := WrapText(text, width, fixedWidth)
	require.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, fixedWidth(l), width, l)
	}
	assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(lines, " ")))
}

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()
	assert.InDelta(t, 515.28, l.ContentWidth(), 0.001)
	assert.InDelta(t, 801.89, l.Bottom(), 0.001)
	assert.Equal(t, 14.0, l.LineHeight)
	assert.Equal(t, 260.0, l.ImageMaxHeight)
	assert.Equal(t, 12.0, l.ImageGap)
}
