package form

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Priority of a corrective action
type Priority string

const (
	PriorityAlta  Priority = "Alta"
	PriorityMedia Priority = "Media"
	PriorityBaja  Priority = "Baja"
)

// Action is one row of the corrective actions table
type Action struct {
	ID          string   `json:"id"`
	Description string   `json:"accion"`
	Responsible string   `json:"responsable"`
	Priority    Priority `json:"prioridad" validate:"oneof=Alta Media Baja"`
	Date        string   `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
}

// ActionUpdate carries the fields to change on an action; nil leaves a field as is
type ActionUpdate struct {
	Description *string
	Responsible *string
	Priority    *Priority
	Date        *string
}

// AddAction appends an empty row. New rows default to the first priority.
func (f *Form) AddAction() Action {
	a := Action{
		ID:       uuid.NewString(),
		Priority: PriorityAlta,
	}
	f.actions = append(f.actions, a)
	return a
}

// UpdateAction applies an update to the row with the given id
func (f *Form) UpdateAction(id string, upd ActionUpdate) (Action, error) {
	i := f.actionIndex(id)
	if i < 0 {
		return Action{}, fmt.Errorf("%w: %s", ErrActionNotFound, id)
	}

	a := f.actions[i]
	if upd.Description != nil {
		a.Description = *upd.Description
	}
	if upd.Responsible != nil {
		a.Responsible = *upd.Responsible
	}
	if upd.Priority != nil {
		a.Priority = *upd.Priority
	}
	if upd.Date != nil {
		a.Date = *upd.Date
	}

	if err := f.validate.Struct(a); err != nil {
		return Action{}, fmt.Errorf("invalid corrective action %s: %w", id, err)
	}
	f.actions[i] = a
	return a, nil
}

// RemoveAction deletes a row. Removing a row that no longer exists is a no-op.
func (f *Form) RemoveAction(id string) bool {
	i := f.actionIndex(id)
	if i < 0 {
		return false
	}
	f.actions = slices.Delete(f.actions, i, i+1)
	return true
}

// Actions returns a copy of the rows in insertion order
func (f *Form) Actions() []Action {
	return slices.Clone(f.actions)
}

func (f *Form) actionIndex(id string) int {
	return slices.IndexFunc(f.actions, func(a Action) bool { return a.ID == id })
}
