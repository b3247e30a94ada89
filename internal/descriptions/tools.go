package descriptions

import "sort"

// Tool descriptions with practical examples, shown to MCP clients

const (
	// Form tools
	FormCatalogDescription = `List the inspection checklist: sections, items with their allowed options, and the text fields.

**When to use:** Before filling in the sheet, to learn the exact item keys and option spelling.

**Examples:**
• "Which options does the tuberia item accept?"
• "Show me every item in the captacion section"

**Notes:** Option values are case-sensitive and include accents (for example "Sí" and "Dañada").`

	FormSelectOptionDescription = `Answer a checklist item by selecting one of its options.

**When to use:** Recording the observed condition of an item. Selecting replaces any previous answer for that item.

**Examples:**
• Pipe in good shape: group "tuberia", option "Buena"
• Gas valve missing: group "valvulaGas", option "Ausente"

**Notes:** An option that is not in the item's vocabulary is rejected and the previous answer is kept.`

	FormToggleOptionDescription = `Toggle an option of a checklist item: select it, or clear the item if it is already selected.

**When to use:** Mirroring a tap on a radio button that can be untapped.

**Examples:**
• Tap "Leve" on erosion twice: the item ends up unanswered`

	FormClearGroupDescription = `Clear the answer of one checklist item.

**Examples:**
• "Forget the answer for soldaduras": group "soldaduras"`

	FormClearSectionDescription = `Clear every item of a section: estructura, captacion or circundante.

**When to use:** Re-inspecting one area of the well from scratch.`

	FormClearAllDescription = `Empty the whole inspection sheet: answers, text fields, GPS, corrective actions and photos.

**When to use:** Starting a new inspection. This cannot be undone.`

	FormResetFieldsDescription = `Clear answers and text fields while keeping the GPS reading, the corrective actions and the photos.

**When to use:** Restarting the checklist at the same well without losing the evidence already gathered.`

	FormSetFieldDescription = `Set a free-text field of the sheet. An empty value clears the field.

**Fields:** fecha, hora, inspector, pozoId, gps, clima, observaciones, firmaInspector, firmaSupervisor

**Examples:**
• inspector "Ana Torres"
• observaciones "Fuga menor en la brida norte"

**Notes:** gps only accepts "lat, lon" in decimal degrees and only in manual GPS mode.`

	FormSnapshotDescription = `Get the current state of the sheet as JSON: fields with labels, items with their answer, corrective actions, photos and the GPS field state.

**When to use:** Reviewing the sheet before exporting, or checking the ids of actions and photos.`

	// Corrective actions
	ActionAddDescription = `Append a corrective action row. All columns are optional; the priority defaults to Alta.

**Columns:** description (accion), responsible, priority (Alta, Media, Baja), date (YYYY-MM-DD)

**Examples:**
• "Replace the Fernco coupling, responsible Luis, priority Media, due 2024-06-30"`

	ActionUpdateDescription = `Change columns of an existing corrective action, identified by its id. Columns not given are left unchanged.`

	ActionRemoveDescription = `Remove a corrective action by id. The remaining rows keep their order. Removing an action that no longer exists does nothing.`

	// Photos
	PhotoAddDescription = `Attach photos to the sheet from local paths or http(s) URLs.

**When to use:** Adding photographic evidence that will be placed at the end of the report.

**Examples:**
• paths ["fotos/brida.jpg", "https://campo.example.com/pozo12/valvula.png"]

**Notes:** Files that are not images are skipped. URLs are kept in the offline cache once fetched.`

	PhotoRemoveDescription = `Remove the photo at the given zero-based position. Later photos move up by one.`

	PhotoClearDescription = `Remove every attached photo.`

	// GPS
	GPSCaptureDescription = `Take a GPS reading from the device position and store it as "lat, lon" with six decimals.

**Notes:** A failed reading is not an error for the sheet: the field keeps its previous value and shows why no reading was taken.`

	GPSSetModeDescription = `Switch the GPS field between automatic (auto, read-only, filled from the device) and manual (manual, typed) entry. Switching to auto takes a reading immediately.`

	GPSSetManualDescription = `Type the GPS coordinates as "lat, lon" in decimal degrees, for example "19.432608, -99.133209". Only allowed in manual mode.`

	// Reports
	ReportExportPDFDescription = `Render the sheet to hoja_inspeccion.pdf in the output directory.

**Layout:** A4 pages with the title, header fields, answered items, observations, corrective actions, signatures and then the photos scaled to fit.

**Notes:** Photos that cannot be decoded are skipped and listed as warnings unless the server runs with strict images.`

	ReportEmailDescription = `Build a mailto: link whose body carries the sheet as plain text, ready to open in a mail client.`

	ReportPrintDescription = `Get a printable plain-text rendition of the sheet.`

	ReportTextDescription = `Render the PDF in memory and return the text read back from each page.

**When to use:** Checking what the exported report will contain without writing it to disk.`

	ServerInfoDescription = `Get server status, configuration and the list of available tools.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"form_catalog":       FormCatalogDescription,
	"form_select_option": FormSelectOptionDescription,
	"form_toggle_option": FormToggleOptionDescription,
	"form_clear_group":   FormClearGroupDescription,
	"form_clear_section": FormClearSectionDescription,
	"form_clear_all":     FormClearAllDescription,
	"form_reset_fields":  FormResetFieldsDescription,
	"form_set_field":     FormSetFieldDescription,
	"form_snapshot":      FormSnapshotDescription,
	"action_add":         ActionAddDescription,
	"action_update":      ActionUpdateDescription,
	"action_remove":      ActionRemoveDescription,
	"photo_add":          PhotoAddDescription,
	"photo_remove":       PhotoRemoveDescription,
	"photo_clear":        PhotoClearDescription,
	"gps_capture":        GPSCaptureDescription,
	"gps_set_mode":       GPSSetModeDescription,
	"gps_set_manual":     GPSSetManualDescription,
	"report_export_pdf":  ReportExportPDFDescription,
	"report_email":       ReportEmailDescription,
	"report_print":       ReportPrintDescription,
	"report_text":        ReportTextDescription,
	"server_info":        ServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the names of all tools, sorted
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summary returns the first line of a tool description
func Summary(toolName string) string {
	desc := GetToolDescription(toolName)
	for i, r := range desc {
		if r == '\n' {
			return desc[:i]
		}
	}
	return desc
}
