package report

import (
	"fmt"

	"github.com/a3tai/mcp-well-inspection/internal/form"
)

const (
	// Title is the centered heading of the first page
	Title = "Hoja de Inspección – Pozo de Gas"
	// PhotosHeading introduces the photo section
	PhotosHeading = "Fotografías:"
	// FileName is the name the exported document is saved under
	FileName = "hoja_inspeccion.pdf"
)

// BodyLines returns the logical text lines of a report, before wrapping.
// Unanswered checklist items are left out.
func BodyLines(snap form.Snapshot) []string {
	v := snap.Value
	lines := []string{
		fmt.Sprintf("Fecha: %s   Hora: %s", v(form.FieldFecha), v(form.FieldHora)),
		"Inspector: " + v(form.FieldInspector),
		"Pozo ID: " + v(form.FieldPozoID),
		"GPS: " + v(form.FieldGPS),
		"Clima: " + v(form.FieldClima),
		"",
	}

	for _, g := range snap.Answered() {
		lines = append(lines, fmt.Sprintf("%s: %s", g.Group, g.Selected))
	}

	lines = append(lines,
		"",
		"Observaciones: "+v(form.FieldObservaciones),
		"",
		"Acciones Correctivas:",
	)
	for i, a := range snap.Actions {
		lines = append(lines, ActionLine(i+1, a))
	}

	return append(lines,
		"Firma Inspector: "+v(form.FieldFirmaInspector),
		"Firma Supervisor: "+v(form.FieldFirmaSupervisor),
	)
}

// ActionLine formats one corrective action; index is 1-based
func ActionLine(index int, a form.Action) string {
	return fmt.Sprintf(" %d. Acción: %s | Responsable: %s | Prioridad: %s | Fecha: %s",
		index, a.Description, a.Responsible, a.Priority, a.Date)
}
