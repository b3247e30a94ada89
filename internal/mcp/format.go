package mcp

import (
	"fmt"
	"strings"

	"github.com/a3tai/mcp-well-inspection/internal/descriptions"
	"github.com/a3tai/mcp-well-inspection/internal/form"
	"github.com/a3tai/mcp-well-inspection/internal/geo"
	"github.com/a3tai/mcp-well-inspection/internal/report"
)

var sections = []form.Section{form.SectionEstructura, form.SectionCaptacion, form.SectionCircundante}

func formatCatalog(catalog form.Catalog) string {
	var b strings.Builder
	b.WriteString("Inspection checklist\n")

	for _, section := range sections {
		fmt.Fprintf(&b, "\n[%s]\n", section)
		for _, g := range catalog.Groups {
			if g.Section != section {
				continue
			}
			fmt.Fprintf(&b, "  %s: %s\n", g.Name, strings.Join(g.Options, " | "))
		}
	}

	b.WriteString("\nText fields:\n")
	for _, f := range catalog.Fields {
		fmt.Fprintf(&b, "  %s (%s)\n", f.Key, f.Label)
	}
	return b.String()
}

func formatPhotoList(photos []form.Photo) string {
	if len(photos) == 0 {
		return "No photos attached"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Photos (%d):\n", len(photos))
	for i, p := range photos {
		fmt.Fprintf(&b, "  [%d] %s (%s, %d bytes)\n", i, p.Name, p.MIMEType, p.Size())
	}
	return b.String()
}

func formatPhotosAdded(files []form.PhotoFile, added []form.Photo, total int) string {
	text := fmt.Sprintf("Attached %d of %d file(s); %d photo(s) on the sheet\n", len(added), len(files), total)

	accepted := make(map[string]int, len(added))
	for _, p := range added {
		accepted[p.Name]++
	}
	for _, f := range files {
		if accepted[f.Name] > 0 {
			accepted[f.Name]--
			continue
		}
		text += fmt.Sprintf("  skipped %s: not an image\n", f.Name)
	}
	return text
}

func formatGPS(st geo.State, err error) string {
	text := fmt.Sprintf("GPS mode: %s\n", st.Mode)
	if st.Value != "" {
		text += fmt.Sprintf("GPS: %s\n", st.Value)
	} else {
		text += "GPS: (empty)\n"
	}
	text += fmt.Sprintf("Placeholder: %s\n", st.Placeholder)
	if st.ReadOnly {
		text += "Field is read-only\n"
	}
	if err != nil {
		text += fmt.Sprintf("Reading not taken: %v\n", err)
	}
	return text
}

func formatExportResult(result *report.ExportResult) string {
	text := fmt.Sprintf("Report written: %s\n", result.Path)
	text += fmt.Sprintf("Size: %d bytes\n", result.Size)
	text += fmt.Sprintf("Pages: %d\n", result.Pages)
	text += fmt.Sprintf("Photos embedded: %d\n", result.Images)
	text += fmt.Sprintf("Valid PDF: %t\n", result.Valid)
	if len(result.Warnings) > 0 {
		text += "\nWarnings:\n"
		for _, w := range result.Warnings {
			text += fmt.Sprintf("  - %s\n", w)
		}
	}
	return text
}

func formatPageTexts(pages []string, result *report.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d page(s), %d photo(s)\n", len(pages), result.Images)
	for i, page := range pages {
		fmt.Fprintf(&b, "\n--- Page %d ---\n%s\n", i+1, strings.TrimSpace(page))
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(&b, "\nWarning: %s", w)
	}
	return b.String()
}

func (s *Server) formatServerInfo() string {
	cfg := s.config
	snap := s.session.Snapshot()
	gps := s.session.GPS()

	text := fmt.Sprintf("%s v%s - Server Information\n", cfg.ServerName, cfg.Version)
	text += fmt.Sprintf("Mode: %s\n", cfg.Mode)
	text += fmt.Sprintf("Report file: %s\n", s.exporter.OutputPath())
	text += fmt.Sprintf("Max photo size: %d MB\n", cfg.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("Strict images: %t\n", cfg.StrictImages)
	text += fmt.Sprintf("Asset cache version: %s\n", cfg.CacheVersion)
	text += fmt.Sprintf("GPS mode: %s\n", gps.Mode)

	answered := len(snap.Answered())
	text += fmt.Sprintf("\nCurrent sheet: %d/%d items answered, %d action(s), %d photo(s)\n",
		answered, len(snap.Groups), len(snap.Actions), len(snap.Photos))

	text += "\nAvailable Tools:\n"
	for _, name := range descriptions.GetAllToolNames() {
		text += fmt.Sprintf("  • %s: %s\n", name, descriptions.Summary(name))
	}
	return text
}
