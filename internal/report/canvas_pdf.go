package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
)

const (
	fontFamily  = "Helvetica"
	jpegQuality = 85
)

// Metadata is written into the document information dictionary
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Created  time.Time
	Keywords []string
}

// PDFCanvas draws a report into an FPDF document using the core Helvetica
// font. Text is translated to cp1252 so Spanish characters render.
type PDFCanvas struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
}

// NewPDFCanvas creates an empty document sized to layout
func NewPDFCanvas(layout Layout, meta Metadata) *PDFCanvas {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: layout.PageWidth, Ht: layout.PageHeight},
	})
	pdf.SetMargins(layout.Margin, layout.Margin, layout.Margin)
	pdf.SetAutoPageBreak(false, 0)

	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetCreator(meta.Creator, true)
	if len(meta.Keywords) > 0 {
		pdf.SetKeywords(strings.Join(meta.Keywords, " "), true)
	}
	if !meta.Created.IsZero() {
		pdf.SetCreationDate(meta.Created)
	}

	c := &PDFCanvas{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
	c.SetStyle(StyleBody)
	return c
}

// AddPage starts a new page
func (c *PDFCanvas) AddPage() {
	c.pdf.AddPage()
}

// SetStyle switches the current font
func (c *PDFCanvas) SetStyle(style FontStyle) {
	switch style {
	case StyleTitle:
		c.pdf.SetFont(fontFamily, "B", 16)
	case StyleHeading:
		c.pdf.SetFont(fontFamily, "B", 11)
	default:
		c.pdf.SetFont(fontFamily, "", 11)
	}
}

// TextWidth measures s in the current font
func (c *PDFCanvas) TextWidth(s string) float64 {
	return c.pdf.GetStringWidth(c.translate(s))
}

// Unsupported returns the runes of s that have no cp1252 glyph and are
// drawn as '.'
func (c *PDFCanvas) Unsupported(s string) []rune {
	var out []rune
	for _, r := range s {
		if r < utf8.RuneSelf {
			continue
		}
		if c.translate(string(r)) == "." {
			out = append(out, r)
		}
	}
	return out
}

// Text draws s with its baseline at y
func (c *PDFCanvas) Text(x, y float64, s string) {
	c.pdf.Text(x, y, c.translate(s))
}

// PlaceImage embeds img as a JPEG with its top-left corner at (x, y).
// Transparent areas are flattened onto white.
func (c *PDFCanvas) PlaceImage(name string, img image.Image, x, y, w, h float64) error {
	b := img.Bounds()
	flat := imaging.Overlay(imaging.New(b.Dx(), b.Dy(), color.White), img, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	c.pdf.RegisterImageOptionsReader(name, opts, &buf)
	if err := c.pdf.Error(); err != nil {
		c.pdf.ClearError()
		return fmt.Errorf("register image: %w", err)
	}
	c.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return c.pdf.Error()
}

// PageCount returns the number of pages drawn so far
func (c *PDFCanvas) PageCount() int {
	return c.pdf.PageCount()
}

// Output writes the finished document
func (c *PDFCanvas) Output(w io.Writer) error {
	if err := c.pdf.Error(); err != nil {
		return fmt.Errorf("pdf generation failed: %w", err)
	}
	return c.pdf.Output(w)
}
