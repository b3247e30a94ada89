package form

import (
	"bytes"
	"slices"
)

// FieldValue is a labelled text field in a snapshot
type FieldValue struct {
	Field Field  `json:"field"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// GroupValue is a checklist item in a snapshot; Selected is empty when unanswered
type GroupValue struct {
	Group    string  `json:"group"`
	Section  Section `json:"section"`
	Selected string  `json:"selected,omitempty"`
}

// Snapshot is an immutable view of the form at one instant
type Snapshot struct {
	Fields  []FieldValue `json:"fields"`
	Groups  []GroupValue `json:"groups"`
	Actions []Action     `json:"actions"`
	Photos  []Photo      `json:"photos"`
}

// Snapshot copies the current state. Later mutations of the form do not
// affect the returned value.
func (f *Form) Snapshot() Snapshot {
	snap := Snapshot{
		Fields:  make([]FieldValue, 0, len(f.catalog.Fields)),
		Groups:  make([]GroupValue, 0, len(f.catalog.Groups)),
		Actions: slices.Clone(f.actions),
		Photos:  make([]Photo, 0, len(f.photos)),
	}
	for _, fd := range f.catalog.Fields {
		snap.Fields = append(snap.Fields, FieldValue{Field: fd.Key, Label: fd.Label, Value: f.fields[fd.Key]})
	}
	for _, g := range f.catalog.Groups {
		snap.Groups = append(snap.Groups, GroupValue{Group: g.Name, Section: g.Section, Selected: f.selected[g.Name]})
	}
	for _, p := range f.photos {
		p.Data = bytes.Clone(p.Data)
		snap.Photos = append(snap.Photos, p)
	}
	return snap
}

// Value returns the value of a field ("" when absent)
func (s Snapshot) Value(field Field) string {
	for _, fv := range s.Fields {
		if fv.Field == field {
			return fv.Value
		}
	}
	return ""
}

// Answered returns the groups that have a selection, in catalog order
func (s Snapshot) Answered() []GroupValue {
	var out []GroupValue
	for _, g := range s.Groups {
		if g.Selected != "" {
			out = append(out, g)
		}
	}
	return out
}

// IsEmpty reports whether nothing has been entered
func (s Snapshot) IsEmpty() bool {
	for _, fv := range s.Fields {
		if fv.Value != "" {
			return false
		}
	}
	return len(s.Answered()) == 0 && len(s.Actions) == 0 && len(s.Photos) == 0
}
