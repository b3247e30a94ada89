package report

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Layout holds the page geometry and spacing of a report, in points
type Layout struct {
	PageWidth      float64
	PageHeight     float64
	Margin         float64
	LineHeight     float64
	TitleAdvance   float64
	ImageMaxHeight float64
	ImageGap       float64
	// HeaderRoom is the space a section header needs at the bottom of a page
	HeaderRoom float64
}

// DefaultLayout is A4 portrait with a 40pt margin
func DefaultLayout() Layout {
	return Layout{
		PageWidth:      595.28,
		PageHeight:     841.89,
		Margin:         40,
		LineHeight:     14,
		TitleAdvance:   24,
		ImageMaxHeight: 260,
		ImageGap:       12,
		HeaderRoom:     20,
	}
}

// ContentWidth is the usable width between the margins
func (l Layout) ContentWidth() float64 {
	return l.PageWidth - 2*l.Margin
}

// Bottom is the lowest y a baseline or image edge may reach
func (l Layout) Bottom() float64 {
	return l.PageHeight - l.Margin
}

// ScaleToFit resizes origW x origH so that it fits in maxW x maxH keeping
// the aspect ratio. Both results are rounded to the nearest integer.
func ScaleToFit(origW, origH int, maxW, maxH float64) (int, int) {
	if origW <= 0 || origH <= 0 {
		return 0, 0
	}
	ratio := math.Min(maxW/float64(origW), maxH/float64(origH))
	return int(math.Round(float64(origW) * ratio)), int(math.Round(float64(origH) * ratio))
}

// WrapText breaks text into lines no wider than width. Lines break at
// spaces; a word wider than a whole line is split between characters.
// Explicit newlines always break. An empty text yields one empty line.
func WrapText(text string, width float64, measure func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(para, width, measure)...)
	}
	return lines
}

func wrapParagraph(para string, width float64, measure func(string) float64) []string {
	if measure(para) <= width {
		return []string{para}
	}

	var lines []string
	line, open := "", false
	for i, word := range strings.Split(para, " ") {
		if open {
			if candidate := line + " " + word; measure(candidate) <= width {
				line = candidate
				continue
			}
			lines = append(lines, strings.TrimRight(line, " "))
			line, open = "", false
		}
		// spaces at a break are dropped, leading indentation is kept
		if word == "" && i > 0 {
			continue
		}
		for measure(word) > width && utf8.RuneCountInString(word) > 1 {
			n := fitPrefix(word, width, measure)
			lines = append(lines, word[:n])
			word = word[n:]
		}
		line, open = word, true
	}
	if open {
		lines = append(lines, line)
	}
	return lines
}

// fitPrefix returns the byte length of the longest prefix of word that fits
// in width. At least one rune is always taken.
func fitPrefix(word string, width float64, measure func(string) float64) int {
	_, first := utf8.DecodeRuneInString(word)
	n := first
	for n < len(word) {
		_, size := utf8.DecodeRuneInString(word[n:])
		if measure(word[:n+size]) > width {
			break
		}
		n += size
	}
	return n
}
