package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/a3tai/mcp-well-inspection/internal/config"
	"github.com/a3tai/mcp-well-inspection/internal/form"
	"github.com/a3tai/mcp-well-inspection/internal/formfile"
	"github.com/a3tai/mcp-well-inspection/internal/report"
	"github.com/a3tai/mcp-well-inspection/internal/session"
)

type options struct {
	formPath       string
	outputDir      string
	photoDir       string
	strictImages   bool
	maxImagePixels int
	maxFileSize    int64
	verbose        bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := pflag.NewFlagSet("inspection-report", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.formPath, "form", "", "Saved inspection form (JSON)")
	fs.StringVar(&opts.outputDir, "out", ".", "Directory hoja_inspeccion.pdf is written to")
	fs.StringVar(&opts.photoDir, "photo-dir", "", "Directory photo paths are resolved against (default: the form's directory)")
	fs.BoolVar(&opts.strictImages, "strict-images", false, "Fail when a photo cannot be decoded")
	fs.IntVar(&opts.maxImagePixels, "max-image-pixels", config.DefaultMaxImagePixels, "Downsample photos to this longest side (0 keeps originals)")
	fs.Int64Var(&opts.maxFileSize, "maxfilesize", config.DefaultMaxFileSize, "Maximum photo size in bytes")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Log progress to stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: inspection-report --form form.json [--out dir] [--strict-images]\n\n")
		fmt.Fprintf(stderr, "Renders a saved gas well inspection form to hoja_inspeccion.pdf.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.formPath == "" {
		fs.Usage()
		return nil, errors.New("--form is required")
	}
	if opts.photoDir == "" {
		opts.photoDir = filepath.Dir(opts.formPath)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, fsys afero.Fs, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if opts.verbose {
		logger.SetOutput(stderr)
		logger.SetLevel(logrus.DebugLevel)
	}

	result, err := render(ctx, opts, fsys, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Report written: %s\n", result.Path)
	fmt.Fprintf(stdout, "Pages: %d\n", result.Pages)
	fmt.Fprintf(stdout, "Photos embedded: %d\n", result.Images)
	for _, w := range result.Warnings {
		fmt.Fprintf(stdout, "Warning: %s\n", w)
	}
	if !result.Valid {
		fmt.Fprintf(stderr, "Error: the written document did not validate\n")
		return 1
	}
	return 0
}

func render(ctx context.Context, opts *options, fsys afero.Fs, logger logrus.FieldLogger) (*report.ExportResult, error) {
	f, err := fsys.Open(opts.formPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open form: %w", err)
	}
	saved, err := formfile.Decode(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	sess, err := session.New(form.DefaultCatalog(), nil, logger)
	if err != nil {
		return nil, err
	}
	loader := session.NewPhotoLoader(fsys, opts.photoDir, opts.maxFileSize, nil)

	summary, err := saved.Apply(ctx, sess, loader)
	if err != nil {
		return nil, fmt.Errorf("invalid form %s: %w", opts.formPath, err)
	}
	logger.WithFields(logrus.Fields{
		"fields":     summary.Fields,
		"selections": summary.Selections,
		"actions":    summary.Actions,
		"photos":     summary.Photos,
		"skipped":    summary.SkippedPhotos,
	}).Debug("form loaded")

	compositor := report.NewCompositor(report.DefaultLayout(),
		report.WithStrictImages(opts.strictImages),
		report.WithMaxImagePixels(opts.maxImagePixels),
		report.WithLogger(logger),
	)
	exporter := report.NewExporter(compositor, fsys, opts.outputDir, "inspection-report", logger)
	return exporter.Export(ctx, sess.Snapshot())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], afero.NewOsFs(), os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
