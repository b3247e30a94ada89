package report

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-well-inspection/internal/form"
)

type drawOp struct {
	kind       string
	page       int
	style      FontStyle
	text       string
	x, y, w, h float64
}

// recordingCanvas records drawing operations and measures 6pt per rune
type recordingCanvas struct {
	ops        []drawOp
	page       int
	style      FontStyle
	failPlaces bool
}

func (c *recordingCanvas) AddPage()                   { c.page++ }
func (c *recordingCanvas) SetStyle(style FontStyle)   { c.style = style }
func (c *recordingCanvas) TextWidth(s string) float64 { return fixedWidth(s) }

func (c *recordingCanvas) Text(x, y float64, s string) {
	c.ops = append(c.ops, drawOp{kind: "text", page: c.page, style: c.style, text: s, x: x, y: y})
}

func (c *recordingCanvas) PlaceImage(name string, img image.Image, x, y, w, h float64) error {
	if c.failPlaces {
		return errors.New("canvas refused image")
	}
	c.ops = append(c.ops, drawOp{kind: "image", page: c.page, text: name, x: x, y: y, w: w, h: h})
	return nil
}

func (c *recordingCanvas) texts() []string {
	var out []string
	for _, op := range c.ops {
		if op.kind == "text" {
			out = append(out, op.text)
		}
	}
	return out
}

func (c *recordingCanvas) images() []drawOp {
	var out []drawOp
	for _, op := range c.ops {
		if op.kind == "image" {
			out = append(out, op)
		}
	}
	return out
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.NRGBA{G: 128, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func newForm(t *testing.T) *form.Form {
	t.Helper()
	f, err := form.New(form.DefaultCatalog())
	require.NoError(t, err)
	return f
}

func sampleForm(t *testing.T) *form.Form {
	t.Helper()
	f := newForm(t)
	require.NoError(t, f.SetField(form.FieldFecha, "2025-03-14"))
	require.NoError(t, f.SetField(form.FieldHora, "09:30"))
	require.NoError(t, f.SetField(form.FieldInspector, "Ana Torres"))
	require.NoError(t, f.SetField(form.FieldPozoID, "PZ-7"))
	require.NoError(t, f.SetField(form.FieldGPS, "19.432608, -99.133209"))
	require.NoError(t, f.SetField(form.FieldClima, "Nublado"))
	require.NoError(t, f.SetField(form.FieldObservaciones, "Sin fugas visibles"))
	require.NoError(t, f.SetField(form.FieldFirmaInspector, "A. Torres"))
	require.NoError(t, f.Select("tuberia", "Regular"))
	require.NoError(t, f.Select("valvulaGas", "Funcional"))

	for _, d := range []string{"Reparar tapon", "Limpiar maleza"} {
		a := f.AddAction()
		desc, resp := d, "Cuadrilla 2"
		_, err := f.UpdateAction(a.ID, form.ActionUpdate{Description: &desc, Responsible: &resp})
		require.NoError(t, err)
	}
	return f
}

func TestCompose_TextContent(t *testing.T) {
	snap := sampleForm(t).Snapshot()
	canvas := &recordingCanvas{}

	result, err := NewCompositor(DefaultLayout()).Compose(context.Background(), snap, canvas)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pages)
	assert.Zero(t, result.Images)

	texts := canvas.texts()
	require.NotEmpty(t, texts)
	assert.Equal(t, Title, texts[0])
	assert.Equal(t, StyleTitle, canvas.ops[0].style)
	assert.InDelta(t, (DefaultLayout().PageWidth-fixedWidth(Title))/2, canvas.ops[0].x, 0.001)

	want := []string{
		"Fecha: 2025-03-14   Hora: 09:30",
		"Inspector: Ana Torres",
		"Pozo ID: PZ-7",
		"GPS: 19.432608, -99.133209",
		"Clima: Nublado",
		"",
		"tuberia: Regular",
		"valvulaGas: Funcional",
		"",
		"Observaciones: Sin fugas visibles",
		"",
		"Acciones Correctivas:",
		" 1. Acción: Reparar tapon | Responsable: Cuadrilla 2 | Prioridad: Alta | Fecha: ",
		" 2. Acción: Limpiar maleza | Responsable: Cuadrilla 2 | Prioridad: Alta | Fecha: ",
		"Firma Inspector: A. Torres",
		"Firma Supervisor: ",
	}
	assert.Equal(t, want, texts[1:])
	assert.Equal(t, len(want), result.Lines)

	// body lines advance by the line height from below the title
	l := DefaultLayout()
	assert.InDelta(t, l.Margin+l.TitleAdvance, canvas.ops[1].y, 0.001)
	assert.InDelta(t, l.Margin+l.TitleAdvance+l.LineHeight, canvas.ops[2].y, 0.001)
}

func TestCompose_UnansweredGroupsOmitted(t *testing.T) {
	f := newForm(t)
	require.NoError(t, f.Select("erosion", "Severo"))
	canvas := &recordingCanvas{}

	_, err := NewCompositor(DefaultLayout()).Compose(context.Background(), f.Snapshot(), canvas)
	require.NoError(t, err)

	joined := strings.Join(canvas.texts(), "\n")
	assert.Contains(t, joined, "erosion: Severo")
	for _, g := range f.Catalog().Groups {
		if g.Name == "erosion" {
			continue
		}
		assert.NotContains(t, joined, g.Name+":", "unanswered group %s must not be reported", g.Name)
	}
}

func TestCompose_MultiPageText(t *testing.T) {
	f := newForm(t)
	require.NoError(t, f.SetField(form.FieldObservaciones, strings.Repeat("corrosión en la brida ", 600)))
	canvas := &recordingCanvas{}
	l := DefaultLayout()

	result, err := NewCompositor(l).Compose(context.Background(), f.Snapshot(), canvas)
	require.NoError(t, err)
	assert.Greater(t, result.Pages, 1)
	assert.Equal(t, result.Pages, canvas.page)

	for _, op := range canvas.ops {
		assert.LessOrEqual(t, op.y, l.Bottom(), "baseline of %q", op.text)
		assert.GreaterOrEqual(t, op.y, l.Margin)
		if op.style == StyleBody {
			assert.LessOrEqual(t, fixedWidth(op.text), l.ContentWidth())
		}
	}

	// the first line of every new page sits on the top margin
	lastPage := 1
	for _, op := range canvas.ops {
		if op.page != lastPage {
			assert.InDelta(t, l.Margin, op.y, 0.001)
			lastPage = op.page
		}
	}
}

func TestCompose_Photos(t *testing.T) {
	f := sampleForm(t)
	f.AddPhotos([]form.PhotoFile{
		{Name: "a.png", MIMEType: "image/png", Data: encodePNG(t, 400, 300)},
		{Name: "b.jpg", MIMEType: "image/jpeg", Data: encodeJPEG(t, 300, 600)},
		{Name: "c.png", MIMEType: "image/png", Data: encodePNG(t, 2000, 100)},
	})
	snap := f.Snapshot()
	canvas := &recordingCanvas{}
	l := DefaultLayout()

	result, err := NewCompositor(l).Compose(context.Background(), snap, canvas)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Images)
	assert.Empty(t, result.Warnings)

	texts := canvas.texts()
	assert.Equal(t, PhotosHeading, texts[len(texts)-1])

	imgs := canvas.images()
	require.Len(t, imgs, 3)
	assert.Equal(t, [2]float64{347, 260}, [2]float64{imgs[0].w, imgs[0].h})
	assert.Equal(t, [2]float64{130, 260}, [2]float64{imgs[1].w, imgs[1].h})
	assert.InDelta(t, l.ContentWidth(), imgs[2].w, 0.5)

	for i, img := range imgs {
		assert.True(t, strings.HasPrefix(img.text, "photo-"), img.text)
		assert.Contains(t, img.text, snap.Photos[i].ID, "photos keep attachment order")
		assert.Equal(t, l.Margin, img.x)
		assert.LessOrEqual(t, img.y+img.h, l.Bottom())
	}

	// the second photo does not fit under the first and opens page 2
	assert.Equal(t, 1, imgs[0].page)
	assert.Equal(t, 2, imgs[1].page)
	assert.InDelta(t, l.Margin, imgs[1].y, 0.001)
	assert.InDelta(t, imgs[1].y+imgs[1].h+l.ImageGap, imgs[2].y, 0.001)
}

func TestCompose_PhotoHeaderNeedsRoom(t *testing.T) {
	l := DefaultLayout()
	f := newForm(t)
	// 11 fixed body lines plus 41 observation lines leave the cursor at
	// 64 + 52*14 = 792, too low for the photo header
	obs := strings.TrimSuffix(strings.Repeat("x\n", 41), "\n")
	require.NoError(t, f.SetField(form.FieldObservaciones, obs))
	f.AddPhotos([]form.PhotoFile{{Name: "a.png", MIMEType: "image/png", Data: encodePNG(t, 10, 10)}})
	canvas := &recordingCanvas{}

	result, err := NewCompositor(l).Compose(context.Background(), f.Snapshot(), canvas)
	require.NoError(t, err)
	assert.Equal(t, 52, result.Lines)
	assert.Equal(t, 2, result.Pages)

	var heading drawOp
	for _, op := range canvas.ops {
		if op.text == PhotosHeading {
			heading = op
		}
	}
	assert.Equal(t, 2, heading.page)
	assert.InDelta(t, l.Margin+6, heading.y, 0.001)

	imgs := canvas.images()
	require.Len(t, imgs, 1)
	assert.Equal(t, 2, imgs[0].page)
	assert.InDelta(t, l.Margin+18, imgs[0].y, 0.001)
}

func TestCompose_BrokenPhotoIsSkipped(t *testing.T) {
	logger, hook := test.NewNullLogger()
	snap := form.Snapshot{Photos: []form.Photo{
		{ID: "1", Name: "ok.png", MIMEType: "image/png", Data: encodePNG(t, 40, 30)},
		{ID: "2", Name: "roto.jpg", MIMEType: "image/jpeg", Data: []byte("not really a jpeg")},
		{ID: "3", Name: "ok2.png", MIMEType: "image/png", Data: encodePNG(t, 30, 40)},
	}}
	canvas := &recordingCanvas{}

	result, err := NewCompositor(DefaultLayout(), WithLogger(logger)).Compose(context.Background(), snap, canvas)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Images)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "photo 2 (roto.jpg)")

	imgs := canvas.images()
	require.Len(t, imgs, 2)
	assert.Contains(t, imgs[0].text, "-1")
	assert.Contains(t, imgs[1].text, "-3")

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "roto.jpg", hook.LastEntry().Data["photo"])
}

func TestCompose_StrictImagesAborts(t *testing.T) {
	snap := form.Snapshot{Photos: []form.Photo{
		{ID: "1", Name: "roto.jpg", MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8, 0x00}},
	}}

	_, err := NewCompositor(DefaultLayout(), WithStrictImages(true)).
		Compose(context.Background(), snap, &recordingCanvas{})
	require.Error(t, err)

	var imgErr *ImageError
	require.ErrorAs(t, err, &imgErr)
	assert.Equal(t, 0, imgErr.Index)
	assert.Equal(t, "roto.jpg", imgErr.Name)
}

func TestCompose_CanvasImageFailure(t *testing.T) {
	logger, _ := test.NewNullLogger()
	snap := form.Snapshot{Photos: []form.Photo{
		{ID: "1", Name: "ok.png", MIMEType: "image/png", Data: encodePNG(t, 4, 4)},
	}}

	result, err := NewCompositor(DefaultLayout(), WithLogger(logger)).
		Compose(context.Background(), snap, &recordingCanvas{failPlaces: true})
	require.NoError(t, err)
	assert.Zero(t, result.Images)
	assert.Len(t, result.Warnings, 1)
}

func TestCompose_Canceled(t *testing.T) {
	snap := form.Snapshot{Photos: []form.Photo{
		{ID: "1", Name: "ok.png", MIMEType: "image/png", Data: encodePNG(t, 4, 4)},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCompositor(DefaultLayout()).Compose(ctx, snap, &recordingCanvas{})
	assert.ErrorIs(t, err, context.Canceled)
}
