package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/panbanda/cyclo/internal/analyzer"
	"github.com/panbanda/cyclo/internal/cache"
	"github.com/panbanda/cyclo/internal/output"
	"github.com/panbanda/cyclo/internal/progress"
	"github.com/panbanda/cyclo/internal/scanner"
	"github.com/panbanda/cyclo/pkg/config"
	"github.com/panbanda/cyclo/pkg/models"
	"github.com/urfave/cli/v2"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"an"},
		Usage:     "Measure cyclomatic complexity of C sources",
		ArgsUsage: "[path...]",
		Description: `Analyzes the given files and directories, or standard input when no
paths (or "-") are given. Results go to the record sink (output.cy by
default) in the plain three-field format, or through --format to one of
the structured renderings.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "declarations",
				Value: true,
				Usage: "Report bodyless prototypes with complexity 1",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail on source units containing syntax errors",
			},
			&cli.BoolFlag{
				Name:  "annotate",
				Usage: "Collect decision-point source lines per function",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Max concurrent files (0 = 2x NumCPU)",
			},
		},
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	cfg := loadConfig(c)
	verbose := c.Bool("verbose") || cfg.Output.Verbose

	opts := analyzer.Options{
		IncludeDeclarations: cfg.Analysis.IncludeDeclarations,
		Strict:              cfg.Analysis.Strict,
		Annotate:            cfg.Analysis.Annotate,
		Workers:             cfg.Analysis.Workers,
	}
	if c.IsSet("declarations") {
		opts.IncludeDeclarations = c.Bool("declarations")
	}
	if c.IsSet("strict") {
		opts.Strict = c.Bool("strict")
	}
	if c.IsSet("annotate") {
		opts.Annotate = c.Bool("annotate")
	}
	if c.IsSet("workers") {
		opts.Workers = c.Int("workers")
	}
	if verbose {
		opts.OnMalformed = func(path string, line uint32, err error) {
			color.Yellow("%s:%d: %v", path, line, err)
		}
	}

	format := output.ParseFormat(cfg.Output.Format)
	if c.IsSet("format") {
		format = output.ParseFormat(c.String("format"))
	}
	sink := sinkPath(c, cfg, format)

	args := c.Args().Slice()
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		return analyzeStdin(opts, format, sink, cfg)
	}

	if cfg.Cache.Enabled && !c.Bool("no-cache") {
		cch, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, true)
		if err == nil {
			opts.Cache = cch
		} else if verbose {
			color.Yellow("cache disabled: %v", err)
		}
	}

	return analyzePaths(c.Context, args, opts, format, sink, cfg, verbose)
}

// analyzeStdin treats standard input as one complete source unit, fully
// read before parsing. Records stream to the sink as functions are
// discovered.
func analyzeStdin(opts analyzer.Options, format output.Format, sinkPath string, cfg *config.Config) error {
	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	a := analyzer.NewWithOptions(opts)
	defer a.Close()

	if format == output.FormatRecords {
		sink, err := output.NewRecordWriter(sinkPath)
		if err != nil {
			return err
		}
		defer sink.Close()

		if err := a.AnalyzeSourceWithEmit(source, "<stdin>", sink.Write); err != nil {
			return err
		}
		return sink.Close()
	}

	fr, err := a.AnalyzeSource(source, "<stdin>")
	if err != nil {
		return err
	}
	return writeAnalysis(models.BuildAnalysis([]models.FileResult{*fr}), format, sinkPath, cfg)
}

// analyzePaths scans the given files and directories and analyzes the
// result as a batch.
func analyzePaths(ctx context.Context, paths []string, opts analyzer.Options, format output.Format, sinkPath string, cfg *config.Config, verbose bool) error {
	scan := scanner.New(cfg)

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("invalid path %s: %w", path, err)
		}

		if !info.IsDir() {
			if ok, err := scan.ScanFile(path); err == nil && ok {
				files = append(files, path)
			}
			continue
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("invalid path %s: %w", path, err)
		}
		found, err := scan.ScanDir(absPath)
		if err != nil {
			return fmt.Errorf("failed to scan directory %s: %w", path, err)
		}
		files = append(files, found...)
	}

	files, skipped := scanner.FilterBySize(files, cfg.Analysis.MaxFileSize)
	if skipped > 0 && verbose {
		color.Yellow("Skipped %d oversized files", skipped)
	}

	if len(files) == 0 {
		color.Yellow("No C source files found")
		return nil
	}

	a := analyzer.NewWithOptions(opts)
	defer a.Close()

	var onProgress func()
	if format != output.FormatRecords || sinkPath != "-" {
		tracker := progress.NewTracker("Analyzing...", len(files))
		defer tracker.FinishSuccess()
		onProgress = tracker.Tick
	}

	analysis, errs := a.AnalyzeProjectWithProgress(ctx, files, onProgress)

	if err := writeAnalysis(analysis, format, sinkPath, cfg); err != nil {
		return err
	}

	if errs != nil {
		for _, pe := range errs.Errors {
			color.Red("%v", pe)
		}
		return fmt.Errorf("%d of %d files failed", len(errs.Errors), len(files))
	}
	return nil
}

// writeAnalysis writes a finished analysis through the selected format.
// The sink is opened once, truncated, and closed exactly once.
func writeAnalysis(analysis *models.Analysis, format output.Format, sinkPath string, cfg *config.Config) error {
	if format == output.FormatRecords {
		sink, err := output.NewRecordWriter(sinkPath)
		if err != nil {
			return err
		}
		defer sink.Close()

		for _, file := range analysis.Files {
			for _, rec := range file.Records {
				if err := sink.Write(rec); err != nil {
					return err
				}
			}
		}
		return sink.Close()
	}

	formatter, err := output.NewFormatter(format, sinkPath, cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	view := &output.AnalysisView{
		Analysis:  analysis,
		Threshold: uint32(cfg.Thresholds.CyclomaticComplexity),
	}
	if err := formatter.Output(view); err != nil {
		return err
	}
	return formatter.Close()
}
