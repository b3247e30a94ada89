package form

import (
	"fmt"
	"slices"
)

// Section groups related checklist items so they can be cleared together
type Section string

const (
	SectionEstructura  Section = "estructura"
	SectionCaptacion   Section = "captacion"
	SectionCircundante Section = "circundante"
)

// Option vocabularies used by the default catalog
var (
	ConditionOptions = []string{"Buena", "Regular", "Mala"}
	SeverityOptions  = []string{"Leve", "Moderado", "Severo"}
	YesNoOptions     = []string{"Sí", "No"}
	ValveOptions     = []string{"Funcional", "Dañada", "Ausente"}
)

// Group is a named set of mutually exclusive options (one checklist item)
type Group struct {
	Name    string   `json:"name"`
	Section Section  `json:"section"`
	Options []string `json:"options"`
}

// HasOption reports whether option belongs to the group's vocabulary
func (g Group) HasOption(option string) bool {
	return slices.Contains(g.Options, option)
}

// Field identifies a free-text field of the form
type Field string

const (
	FieldFecha           Field = "fecha"
	FieldHora            Field = "hora"
	FieldInspector       Field = "inspector"
	FieldPozoID          Field = "pozoId"
	FieldGPS             Field = "gps"
	FieldClima           Field = "clima"
	FieldObservaciones   Field = "observaciones"
	FieldFirmaInspector  Field = "firmaInspector"
	FieldFirmaSupervisor Field = "firmaSupervisor"
)

// FieldSpec describes a text field and the label it is reported under
type FieldSpec struct {
	Key   Field  `json:"key"`
	Label string `json:"label"`
}

// Catalog is the static configuration the form is built from. Group and
// field order is the order used by snapshots and reports.
type Catalog struct {
	Groups []Group     `json:"groups"`
	Fields []FieldSpec `json:"fields"`
}

// Clone returns a deep copy of the catalog
func (c Catalog) Clone() Catalog {
	out := Catalog{
		Groups: make([]Group, len(c.Groups)),
		Fields: slices.Clone(c.Fields),
	}
	for i, g := range c.Groups {
		g.Options = slices.Clone(g.Options)
		out.Groups[i] = g
	}
	return out
}

// DefaultCatalog returns the gas well checklist
func DefaultCatalog() Catalog {
	groups := make([]Group, 0, 14)
	add := func(section Section, options []string, names ...string) {
		for _, name := range names {
			groups = append(groups, Group{Name: name, Section: section, Options: slices.Clone(options)})
		}
	}

	add(SectionEstructura, ConditionOptions, "tuberia", "tapon", "fernco", "soldaduras", "mangasGas", "samplePort")
	add(SectionCaptacion, YesNoOptions, "conexionLateral", "condensado", "azufre")
	add(SectionCaptacion, ValveOptions, "valvulaGas")
	add(SectionCircundante, SeverityOptions, "lixiviados", "erosion", "vegetacion", "accesibilidad")

	return Catalog{
		Groups: groups,
		Fields: []FieldSpec{
			{Key: FieldFecha, Label: "Fecha"},
			{Key: FieldHora, Label: "Hora"},
			{Key: FieldInspector, Label: "Inspector"},
			{Key: FieldPozoID, Label: "Pozo ID"},
			{Key: FieldGPS, Label: "GPS"},
			{Key: FieldClima, Label: "Clima"},
			{Key: FieldObservaciones, Label: "Observaciones"},
			{Key: FieldFirmaInspector, Label: "Firma Inspector"},
			{Key: FieldFirmaSupervisor, Label: "Firma Supervisor"},
		},
	}
}

// Validate checks the catalog for duplicate keys and empty vocabularies
func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Groups))
	for _, g := range c.Groups {
		if g.Name == "" {
			return fmt.Errorf("group name cannot be empty")
		}
		if seen[g.Name] {
			return fmt.Errorf("duplicate group: %s", g.Name)
		}
		seen[g.Name] = true

		if len(g.Options) == 0 {
			return fmt.Errorf("group %s has no options", g.Name)
		}
		opts := make(map[string]bool, len(g.Options))
		for _, o := range g.Options {
			if o == "" || opts[o] {
				return fmt.Errorf("group %s has an empty or repeated option %q", g.Name, o)
			}
			opts[o] = true
		}
	}

	fields := make(map[Field]bool, len(c.Fields))
	for _, f := range c.Fields {
		if f.Key == "" || fields[f.Key] {
			return fmt.Errorf("empty or duplicate field key %q", f.Key)
		}
		fields[f.Key] = true
	}
	return nil
}

// GroupsIn returns the names of every group in a section, in catalog order
func (c Catalog) GroupsIn(section Section) []string {
	var names []string
	for _, g := range c.Groups {
		if g.Section == section {
			names = append(names, g.Name)
		}
	}
	return names
}
