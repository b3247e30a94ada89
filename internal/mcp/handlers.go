package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/a3tai/mcp-well-inspection/internal/form"
	"github.com/a3tai/mcp-well-inspection/internal/geo"
	"github.com/a3tai/mcp-well-inspection/internal/report"
)

// Form state handlers

func (s *Server) handleFormCatalog(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var catalog form.Catalog
	s.session.View(func(f *form.Form) { catalog = f.Catalog() })
	return mcp.NewToolResultText(formatCatalog(catalog)), nil
}

func (s *Server) handleFormSelectOption(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, option, err := groupAndOption(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	err = s.session.Update(func(f *form.Form) error { return f.Select(group, option) })
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s: %s", group, option)), nil
}

func (s *Server) handleFormToggleOption(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, option, err := groupAndOption(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var selected bool
	err = s.session.Update(func(f *form.Form) error {
		var err error
		selected, err = f.Toggle(group, option)
		return err
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if selected {
		return mcp.NewToolResultText(fmt.Sprintf("%s: %s", group, option)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s: no answer", group)), nil
}

func (s *Server) handleFormClearGroup(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, err := request.RequireString("group")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.session.Update(func(f *form.Form) error { return f.ClearGroup(group) }); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s: no answer", group)), nil
}

func (s *Server) handleFormClearSection(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	section, err := request.RequireString("section")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var cleared []string
	err = s.session.Update(func(f *form.Form) error {
		cleared = f.Catalog().GroupsIn(form.Section(section))
		return f.ClearSection(form.Section(section))
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Cleared %d item(s) in %s", len(cleared), section)), nil
}

func (s *Server) handleFormClearAll(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.session.ClearAll()
	return mcp.NewToolResultText("Inspection sheet cleared"), nil
}

func (s *Server) handleFormResetFields(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.session.ResetFields()
	return mcp.NewToolResultText("Answers and text fields cleared; GPS, actions and photos kept"), nil
}

func (s *Server) handleFormSetField(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	field, err := request.RequireString("field")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := stringOrEmpty(request, "value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.session.SetField(form.Field(field), value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var stored string
	s.session.View(func(f *form.Form) { stored = f.FieldValue(form.Field(field)) })
	if stored == "" {
		return mcp.NewToolResultText(fmt.Sprintf("%s cleared", field)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s: %s", field, stored)), nil
}

// snapshotView is the JSON document returned by form_snapshot
type snapshotView struct {
	form.Snapshot
	GPS geo.State `json:"gps_field"`
}

func (s *Server) handleFormSnapshot(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	view := snapshotView{Snapshot: s.session.Snapshot(), GPS: s.session.GPS()}
	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode snapshot: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Corrective action handlers

func actionUpdate(request mcp.CallToolRequest) (form.ActionUpdate, error) {
	var upd form.ActionUpdate
	var err error
	if upd.Description, err = optionalString(request, "description"); err != nil {
		return upd, err
	}
	if upd.Responsible, err = optionalString(request, "responsible"); err != nil {
		return upd, err
	}
	if upd.Date, err = optionalString(request, "date"); err != nil {
		return upd, err
	}
	priority, err := optionalString(request, "priority")
	if err != nil {
		return upd, err
	}
	if priority != nil {
		p := form.Priority(*priority)
		upd.Priority = &p
	}
	return upd, nil
}

func (s *Server) handleActionAdd(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	upd, err := actionUpdate(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var action form.Action
	var index int
	err = s.session.Update(func(f *form.Form) error {
		added := f.AddAction()
		updated, err := f.UpdateAction(added.ID, upd)
		if err != nil {
			// the row is only kept when all its columns are valid
			f.RemoveAction(added.ID)
			return err
		}
		action = updated
		index = len(f.Actions())
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Added action %s\n%s", action.ID, report.ActionLine(index, action))), nil
}

func (s *Server) handleActionUpdate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	upd, err := actionUpdate(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var action form.Action
	var index int
	err = s.session.Update(func(f *form.Form) error {
		updated, err := f.UpdateAction(id, upd)
		if err != nil {
			return err
		}
		action = updated
		index = slices.IndexFunc(f.Actions(), func(a form.Action) bool { return a.ID == id }) + 1
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Updated action %s\n%s", action.ID, report.ActionLine(index, action))), nil
}

func (s *Server) handleActionRemove(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var removed bool
	var left int
	_ = s.session.Update(func(f *form.Form) error {
		removed = f.RemoveAction(id)
		left = len(f.Actions())
		return nil
	})
	if !removed {
		return mcp.NewToolResultText(fmt.Sprintf("Action %s not present; nothing removed", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Removed action %s (%d remaining)", id, left)), nil
}

// Photo handlers

func (s *Server) handlePhotoAdd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	paths, err := requireStrings(request, "paths")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	files, err := s.photos.LoadAll(ctx, paths)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var added []form.Photo
	var total int
	_ = s.session.Update(func(f *form.Form) error {
		added = f.AddPhotos(files)
		total = len(f.Photos())
		return nil
	})

	s.logger.WithField("added", len(added)).WithField("skipped", len(files)-len(added)).Debug("photos attached")
	return mcp.NewToolResultText(formatPhotosAdded(files, added, total)), nil
}

func (s *Server) handlePhotoRemove(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := requireIndex(request, "index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var photos []form.Photo
	err = s.session.Update(func(f *form.Form) error {
		if err := f.RemovePhoto(index); err != nil {
			return err
		}
		photos = f.Photos()
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Removed photo %d\n%s", index, formatPhotoList(photos))), nil
}

func (s *Server) handlePhotoClear(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_ = s.session.Update(func(f *form.Form) error {
		f.ClearPhotos()
		return nil
	})
	return mcp.NewToolResultText("All photos removed"), nil
}

// GPS handlers

func (s *Server) handleGPSCapture(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.session.CaptureGPS(ctx)
	return mcp.NewToolResultText(formatGPS(st, err)), nil
}

func (s *Server) handleGPSSetMode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode, err := request.RequireString("mode")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if mode != string(geo.ModeAuto) && mode != string(geo.ModeManual) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown gps mode: %q", mode)), nil
	}

	st, err := s.session.SetGPSMode(ctx, geo.Mode(mode))
	return mcp.NewToolResultText(formatGPS(st, err)), nil
}

func (s *Server) handleGPSSetManual(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	coords, err := stringOrEmpty(request, "coordinates")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	st, err := s.session.SetGPSManual(coords)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGPS(st, nil)), nil
}

// Report handlers

func (s *Server) handleReportExportPDF(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.exporter.Export(ctx, s.session.Snapshot())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatExportResult(result)), nil
}

func (s *Server) handleReportEmail(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(report.MailtoURL(s.session.Snapshot())), nil
}

func (s *Server) handleReportPrint(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(report.PrintText(s.session.Snapshot())), nil
}

func (s *Server) handleReportText(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, result, err := s.exporter.Render(ctx, s.session.Snapshot())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to compose report: %v", err)), nil
	}
	pages, err := report.ExtractText(data)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatPageTexts(pages, result)), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

func groupAndOption(request mcp.CallToolRequest) (string, string, error) {
	group, err := request.RequireString("group")
	if err != nil {
		return "", "", err
	}
	option, err := request.RequireString("option")
	if err != nil {
		return "", "", err
	}
	return group, option, nil
}
