package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/a3tai/mcp-well-inspection/internal/form"
)

const outputFilePerm = 0o644

// ExportResult describes a written report
type ExportResult struct {
	Path     string   `json:"path"`
	Size     int      `json:"size"`
	Pages    int      `json:"pages"`
	Images   int      `json:"images"`
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings,omitempty"`
}

// Exporter renders snapshots to PDF and saves them in an output directory
type Exporter struct {
	compositor *Compositor
	fs         afero.Fs
	outputDir  string
	creator    string
	logger     logrus.FieldLogger
	now        func() time.Time
}

// NewExporter creates an exporter writing into outputDir on fs
func NewExporter(compositor *Compositor, fs afero.Fs, outputDir, creator string, logger logrus.FieldLogger) *Exporter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Exporter{
		compositor: compositor,
		fs:         fs,
		outputDir:  outputDir,
		creator:    creator,
		logger:     logger,
		now:        time.Now,
	}
}

// OutputPath is where Export saves the document
func (e *Exporter) OutputPath() string {
	return filepath.Join(e.outputDir, FileName)
}

// Render composes snap into PDF bytes
func (e *Exporter) Render(ctx context.Context, snap form.Snapshot) ([]byte, *Result, error) {
	pozo := snap.Value(form.FieldPozoID)
	meta := Metadata{
		Title:    Title,
		Author:   snap.Value(form.FieldInspector),
		Subject:  "Inspección de pozo " + pozo,
		Creator:  e.creator,
		Created:  e.now(),
		Keywords: []string{"inspeccion", "pozo", pozo},
	}

	canvas := NewPDFCanvas(e.compositor.Layout(), meta)
	result, err := e.compositor.Compose(ctx, snap, canvas)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := canvas.Output(&buf); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), result, nil
}

// Export renders snap, writes it to the output directory and checks the
// written document.
func (e *Exporter) Export(ctx context.Context, snap form.Snapshot) (*ExportResult, error) {
	data, result, err := e.Render(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("failed to compose report: %w", err)
	}

	if err := e.fs.MkdirAll(e.outputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("cannot create output directory %s: %w", e.outputDir, err)
	}
	path := e.OutputPath()
	if err := afero.WriteFile(e.fs, path, data, outputFilePerm); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	check, err := Verify(data)
	if err != nil {
		return nil, fmt.Errorf("failed to verify report: %w", err)
	}
	if !check.Valid {
		e.logger.WithField("path", path).Warnf("written report did not validate: %s", check.Message)
	}

	e.logger.WithFields(logrus.Fields{
		"path":     path,
		"pages":    result.Pages,
		"images":   result.Images,
		"warnings": len(result.Warnings),
	}).Info("report exported")

	return &ExportResult{
		Path:     path,
		Size:     len(data),
		Pages:    result.Pages,
		Images:   result.Images,
		Valid:    check.Valid,
		Warnings: result.Warnings,
	}, nil
}
