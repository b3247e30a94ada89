// Package formfile reads an inspection sheet saved as JSON and replays it
// into a session through the regular form operations, so a saved sheet is
// validated exactly like one filled in interactively.
package formfile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/a3tai/mcp-well-inspection/internal/form"
	"github.com/a3tai/mcp-well-inspection/internal/session"
)

// Action is a saved corrective action row
type Action struct {
	Description string `json:"accion"`
	Responsible string `json:"responsable"`
	Priority    string `json:"prioridad"`
	Date        string `json:"fecha"`
}

// File is the saved form document
type File struct {
	Fields     map[string]string `json:"fields"`
	Selections map[string]string `json:"selections"`
	Actions    []Action          `json:"actions"`
	Photos     []string          `json:"photos"`
}

// Summary counts what Apply put on the sheet
type Summary struct {
	Fields        int `json:"fields"`
	Selections    int `json:"selections"`
	Actions       int `json:"actions"`
	Photos        int `json:"photos"`
	SkippedPhotos int `json:"skipped_photos"`
}

// Decode reads a saved form. Unknown keys are rejected to catch typos.
func Decode(r io.Reader) (*File, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("invalid form file: %w", err)
	}
	return &f, nil
}

// Apply replays the saved form into sess. Photos are read with loader.
// The first rejected entry stops the replay.
func (f *File) Apply(ctx context.Context, sess *session.Session, loader *session.PhotoLoader) (*Summary, error) {
	var sum Summary

	for _, key := range sortedKeys(f.Fields) {
		if err := sess.SetField(form.Field(key), f.Fields[key]); err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		sum.Fields++
	}

	err := sess.Update(func(fm *form.Form) error {
		for _, group := range sortedKeys(f.Selections) {
			if err := fm.Select(group, f.Selections[group]); err != nil {
				return err
			}
			sum.Selections++
		}

		for i, a := range f.Actions {
			upd := form.ActionUpdate{
				Description: &a.Description,
				Responsible: &a.Responsible,
				Date:        &a.Date,
			}
			if a.Priority != "" {
				p := form.Priority(a.Priority)
				upd.Priority = &p
			}
			row := fm.AddAction()
			if _, err := fm.UpdateAction(row.ID, upd); err != nil {
				fm.RemoveAction(row.ID)
				return fmt.Errorf("action %d: %w", i+1, err)
			}
			sum.Actions++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(f.Photos) > 0 {
		files, err := loader.LoadAll(ctx, f.Photos)
		if err != nil {
			return nil, err
		}
		_ = sess.Update(func(fm *form.Form) error {
			sum.Photos = len(fm.AddPhotos(files))
			return nil
		})
		sum.SkippedPhotos = len(files) - sum.Photos
	}

	return &sum, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
