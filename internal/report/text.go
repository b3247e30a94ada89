package report

import (
	"net/url"
	"strings"

	"github.com/a3tai/mcp-well-inspection/internal/form"
)

// MailSubject is the subject of the e-mail handoff
const MailSubject = "Hoja de Inspección Pozo de Gas"

// headerFields are the fields listed before the checklist in text renditions
var headerFields = []form.Field{
	form.FieldFecha, form.FieldHora, form.FieldInspector,
	form.FieldPozoID, form.FieldGPS, form.FieldClima,
}

// PlainText renders every form entry as "key: value" lines, the body of
// the e-mail handoff.
func PlainText(snap form.Snapshot) string {
	var b strings.Builder
	line := func(key, value string) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteByte('\n')
	}

	for _, f := range headerFields {
		line(string(f), snap.Value(f))
	}
	for _, g := range snap.Answered() {
		line(g.Group, g.Selected)
	}
	line(string(form.FieldObservaciones), snap.Value(form.FieldObservaciones))
	for _, a := range snap.Actions {
		line("accion[]", a.Description)
		line("responsable[]", a.Responsible)
		line("prioridad[]", string(a.Priority))
		line("fechaAccion[]", a.Date)
	}
	line(string(form.FieldFirmaInspector), snap.Value(form.FieldFirmaInspector))
	line(string(form.FieldFirmaSupervisor), snap.Value(form.FieldFirmaSupervisor))
	return b.String()
}

// MailtoURL builds a mailto link with no recipient carrying PlainText as body
func MailtoURL(snap form.Snapshot) string {
	return "mailto:?subject=" + mailEscape(MailSubject) + "&body=" + mailEscape(PlainText(snap))
}

// mailEscape percent-encodes s, spaces included, as mail clients expect
func mailEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// PrintText is the printable rendition: the title followed by the report lines
func PrintText(snap form.Snapshot) string {
	var b strings.Builder
	b.WriteString(Title)
	b.WriteString("\n\n")
	for _, l := range BodyLines(snap) {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if len(snap.Photos) > 0 {
		b.WriteString("\n" + PhotosHeading + "\n")
		for _, p := range snap.Photos {
			b.WriteString(" " + p.Name + "\n")
		}
	}
	return b.String()
}
