// Package form holds the in-memory state of a well inspection: checklist
// selections, free-text fields, corrective actions and attached photos.
//
// A Form is owned by a single logical thread of control. Callers that share
// one across goroutines must serialize access themselves.
package form

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

// Form is the canonical inspection state
type Form struct {
	catalog  Catalog
	groups   map[string]Group
	fields   map[Field]string
	labels   map[Field]string
	selected map[string]string
	actions  []Action
	photos   []Photo
	validate *validator.Validate
}

// New creates an empty form for the given catalog
func New(catalog Catalog) (*Form, error) {
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	catalog = catalog.Clone()
	f := &Form{
		catalog:  catalog,
		groups:   make(map[string]Group, len(catalog.Groups)),
		fields:   make(map[Field]string, len(catalog.Fields)),
		labels:   make(map[Field]string, len(catalog.Fields)),
		selected: make(map[string]string),
		validate: validator.New(),
	}
	for _, g := range catalog.Groups {
		f.groups[g.Name] = g
	}
	for _, fd := range catalog.Fields {
		f.labels[fd.Key] = fd.Label
	}
	return f, nil
}

// Catalog returns the configuration the form was built from
func (f *Form) Catalog() Catalog {
	return f.catalog.Clone()
}

func (f *Form) group(name string) (Group, error) {
	g, ok := f.groups[name]
	if !ok {
		return Group{}, fmt.Errorf("%w: %s", ErrUnknownGroup, name)
	}
	return g, nil
}

// Select sets the selection of a group. Options outside the group's
// vocabulary are rejected and the previous selection is kept.
func (f *Form) Select(group, option string) error {
	g, err := f.group(group)
	if err != nil {
		return err
	}
	if !g.HasOption(option) {
		return &InvalidOptionError{Group: group, Option: option, Allowed: slices.Clone(g.Options)}
	}
	f.selected[group] = option
	return nil
}

// Toggle clears the group when option is already selected, otherwise it
// selects it. It reports whether option is selected afterwards.
func (f *Form) Toggle(group, option string) (bool, error) {
	if current, ok := f.selected[group]; ok && current == option {
		delete(f.selected, group)
		return false, nil
	}
	if err := f.Select(group, option); err != nil {
		return false, err
	}
	return true, nil
}

// Selected returns the current selection of a group
func (f *Form) Selected(group string) (string, bool, error) {
	if _, err := f.group(group); err != nil {
		return "", false, err
	}
	v, ok := f.selected[group]
	return v, ok, nil
}

// ClearGroup resets one group to no selection
func (f *Form) ClearGroup(group string) error {
	if _, err := f.group(group); err != nil {
		return err
	}
	delete(f.selected, group)
	return nil
}

// ClearGroups resets several groups. Unknown names are rejected before any
// group is cleared.
func (f *Form) ClearGroups(groups ...string) error {
	for _, name := range groups {
		if _, err := f.group(name); err != nil {
			return err
		}
	}
	for _, name := range groups {
		delete(f.selected, name)
	}
	return nil
}

// ClearSection resets every group of a section
func (f *Form) ClearSection(section Section) error {
	names := f.catalog.GroupsIn(section)
	if len(names) == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	return f.ClearGroups(names...)
}

// ClearSelections resets every group
func (f *Form) ClearSelections() {
	clear(f.selected)
}

// ResetFields clears selections and text fields but keeps the GPS reading,
// the corrective actions and the photos.
func (f *Form) ResetFields() {
	f.ClearSelections()
	gps := f.fields[FieldGPS]
	clear(f.fields)
	if gps != "" {
		f.fields[FieldGPS] = gps
	}
}

// ClearAll returns the form to its initial empty state
func (f *Form) ClearAll() {
	f.ClearSelections()
	clear(f.fields)
	f.actions = nil
	f.photos = nil
}

// SetField stores the value of a text field. An empty value clears it.
func (f *Form) SetField(field Field, value string) error {
	if _, ok := f.labels[field]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if value == "" {
		delete(f.fields, field)
		return nil
	}
	f.fields[field] = value
	return nil
}

// FieldValue returns the value of a text field ("" when unset)
func (f *Form) FieldValue(field Field) string {
	return f.fields[field]
}
