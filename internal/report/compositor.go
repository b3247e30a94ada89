// Package report lays an inspection snapshot out as a paginated document
// and exports it as PDF, e-mail and print renditions.
package report

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"slices"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/a3tai/mcp-well-inspection/internal/form"
)

// FontStyle selects one of the report's text styles
type FontStyle int

const (
	StyleBody FontStyle = iota
	StyleTitle
	StyleHeading
)

// Canvas is the drawing surface a report is composed onto. Coordinates are
// in points from the top-left corner of the current page; y of Text is the
// baseline, y of PlaceImage the top edge.
type Canvas interface {
	AddPage()
	SetStyle(style FontStyle)
	TextWidth(s string) float64
	Text(x, y float64, s string)
	PlaceImage(name string, img image.Image, x, y, w, h float64) error
}

// GlyphChecker is implemented by canvases whose fonts cannot draw every
// rune. Unsupported returns the runes of s the canvas substitutes.
type GlyphChecker interface {
	Unsupported(s string) []rune
}

// ImageError reports a photo that could not be placed
type ImageError struct {
	Index int
	Name  string
	Err   error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("photo %d (%s): %v", e.Index+1, e.Name, e.Err)
}

func (e *ImageError) Unwrap() error {
	return e.Err
}

// Result summarizes a composed report
type Result struct {
	Pages    int      `json:"pages"`
	Lines    int      `json:"lines"`
	Images   int      `json:"images"`
	Warnings []string `json:"warnings,omitempty"`
}

// Option configures a Compositor
type Option func(*Compositor)

// WithStrictImages makes an undecodable photo abort the whole report
// instead of being skipped with a warning.
func WithStrictImages(strict bool) Option {
	return func(c *Compositor) { c.strictImages = strict }
}

// WithMaxImagePixels bounds the longest side of embedded photos; 0 keeps
// the original resolution.
func WithMaxImagePixels(n int) Option {
	return func(c *Compositor) { c.maxImagePixels = n }
}

// WithLogger sets the logger used for skipped photos
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Compositor) { c.logger = logger }
}

// Compositor lays out snapshots with a fixed geometry
type Compositor struct {
	layout         Layout
	strictImages   bool
	maxImagePixels int
	logger         logrus.FieldLogger
}

// NewCompositor creates a compositor for the given layout
func NewCompositor(layout Layout, opts ...Option) *Compositor {
	c := &Compositor{
		layout: layout,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Layout returns the geometry the compositor uses
func (c *Compositor) Layout() Layout {
	return c.layout
}

// cursor tracks the vertical position on the current page
type cursor struct {
	canvas Canvas
	layout Layout
	y      float64
	pages  int
	lines  int
	// runes the canvas could not draw, in first-seen order
	missing []rune
}

func (cur *cursor) newPage() {
	cur.canvas.AddPage()
	cur.pages++
	cur.y = cur.layout.Margin
}

func (cur *cursor) emitLine(text string) {
	if gc, ok := cur.canvas.(GlyphChecker); ok {
		for _, r := range gc.Unsupported(text) {
			if !slices.Contains(cur.missing, r) {
				cur.missing = append(cur.missing, r)
			}
		}
	}
	for _, line := range WrapText(text, cur.layout.ContentWidth(), cur.canvas.TextWidth) {
		if cur.y > cur.layout.Bottom() {
			cur.newPage()
		}
		cur.canvas.Text(cur.layout.Margin, cur.y, line)
		cur.y += cur.layout.LineHeight
		cur.lines++
	}
}

// Compose draws snap onto canvas. Photos are decoded one at a time in
// attachment order.
func (c *Compositor) Compose(ctx context.Context, snap form.Snapshot, canvas Canvas) (*Result, error) {
	l := c.layout
	cur := &cursor{canvas: canvas, layout: l}
	cur.newPage()

	canvas.SetStyle(StyleTitle)
	canvas.Text((l.PageWidth-canvas.TextWidth(Title))/2, cur.y, Title)
	cur.y += l.TitleAdvance

	canvas.SetStyle(StyleBody)
	for _, line := range BodyLines(snap) {
		cur.emitLine(line)
	}

	result := &Result{}
	if len(cur.missing) > 0 {
		msg := fmt.Sprintf("characters not available in the report font were replaced: %q", string(cur.missing))
		c.logger.WithField("characters", string(cur.missing)).Warn("report text substituted")
		result.Warnings = append(result.Warnings, msg)
	}
	if len(snap.Photos) > 0 {
		if err := c.placePhotos(ctx, cur, snap.Photos, result); err != nil {
			return nil, err
		}
	}

	result.Pages = cur.pages
	result.Lines = cur.lines
	return result, nil
}

func (c *Compositor) placePhotos(ctx context.Context, cur *cursor, photos []form.Photo, result *Result) error {
	l := c.layout
	if cur.y+l.HeaderRoom > l.Bottom() {
		cur.newPage()
	}
	cur.y += 6
	cur.canvas.SetStyle(StyleHeading)
	cur.canvas.Text(l.Margin, cur.y, PhotosHeading)
	cur.y += 12
	cur.canvas.SetStyle(StyleBody)

	for i, p := range photos {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("report composition canceled: %w", err)
		}

		err := c.placePhoto(cur, i, p)
		if err == nil {
			result.Images++
			continue
		}

		imgErr := &ImageError{Index: i, Name: p.Name, Err: err}
		if c.strictImages {
			return imgErr
		}
		c.logger.WithFields(logrus.Fields{
			"photo": p.Name,
			"index": i,
		}).WithError(err).Warn("skipping photo")
		result.Warnings = append(result.Warnings, imgErr.Error())
	}
	return nil
}

func (c *Compositor) placePhoto(cur *cursor, index int, p form.Photo) error {
	l := c.layout
	img, err := imaging.Decode(bytes.NewReader(p.Data), imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	b := img.Bounds()
	w, h := ScaleToFit(b.Dx(), b.Dy(), l.ContentWidth(), l.ImageMaxHeight)
	if w == 0 || h == 0 {
		return fmt.Errorf("image has no area")
	}
	if c.maxImagePixels > 0 {
		img = imaging.Fit(img, c.maxImagePixels, c.maxImagePixels, imaging.Lanczos)
	}

	if cur.y+float64(h) > l.Bottom() {
		cur.newPage()
	}
	name := fmt.Sprintf("photo-%d-%s", index, p.ID)
	if err := cur.canvas.PlaceImage(name, img, l.Margin, cur.y, float64(w), float64(h)); err != nil {
		return fmt.Errorf("place: %w", err)
	}
	cur.y += float64(h) + l.ImageGap
	return nil
}
