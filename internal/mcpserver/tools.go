package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/cyclo/internal/analyzer"
	"github.com/panbanda/cyclo/internal/scanner"
	"github.com/panbanda/cyclo/pkg/config"
	"github.com/panbanda/cyclo/pkg/models"
	"github.com/panbanda/cyclo/pkg/parser"
	toon "github.com/toon-format/toon-go"
)

// ComplexityInput selects files or directories to analyze.
type ComplexityInput struct {
	Paths               []string `json:"paths,omitempty" jsonschema:"Files or directories to analyze. Defaults to the current directory."`
	Format              string   `json:"format,omitempty" jsonschema:"Output format: toon (default) or json."`
	IncludeDeclarations *bool    `json:"include_declarations,omitempty" jsonschema:"Report bodyless prototypes with complexity 1. Default true."`
	Annotate            bool     `json:"annotate,omitempty" jsonschema:"Include the source lines of decision points per function."`
	Threshold           uint32   `json:"threshold,omitempty" jsonschema:"Only report functions with complexity at or above this value."`
}

// SourceInput carries inline C source.
type SourceInput struct {
	Source              string `json:"source" jsonschema:"C source text to analyze."`
	Format              string `json:"format,omitempty" jsonschema:"Output format: toon (default) or json."`
	IncludeDeclarations *bool  `json:"include_declarations,omitempty" jsonschema:"Report bodyless prototypes with complexity 1. Default true."`
}

func analyzerOptions(includeDecls *bool, annotate bool) analyzer.Options {
	opts := analyzer.DefaultOptions()
	if includeDecls != nil {
		opts.IncludeDeclarations = *includeDecls
	}
	opts.Annotate = annotate
	return opts
}

func formatOutput(data any, format string) (string, error) {
	if format == "json" {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	}

	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func toolResult(data any, format string) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// collectFiles expands paths (files or directories) into C source files.
func collectFiles(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	cfg := config.LoadOrDefault()
	scan := scanner.New(cfg)

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			abs, err := filepath.Abs(path)
			if err != nil {
				return nil, err
			}
			found, err := scan.ScanDir(abs)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		if ok, err := scan.ScanFile(path); err == nil && ok {
			files = append(files, path)
		}
	}
	return files, nil
}

func handleAnalyzeComplexity(ctx context.Context, req *mcp.CallToolRequest, input ComplexityInput) (*mcp.CallToolResult, any, error) {
	files, err := collectFiles(input.Paths)
	if err != nil {
		return toolError(err.Error())
	}
	if len(files) == 0 {
		return toolError("no C source files found")
	}

	a := analyzer.NewWithOptions(analyzerOptions(input.IncludeDeclarations, input.Annotate))
	defer a.Close()

	analysis, errs := a.AnalyzeProject(ctx, files)
	if errs != nil && len(analysis.Files) == 0 {
		return toolError(errs.Error())
	}

	if input.Threshold > 0 {
		out := struct {
			Hotspots []models.Hotspot `json:"hotspots" toon:"hotspots"`
			Summary  models.Summary   `json:"summary" toon:"summary"`
		}{analysis.Exceeding(input.Threshold - 1), analysis.Summary}
		return toolResult(out, input.Format)
	}

	return toolResult(analysis, input.Format)
}

func handleAnalyzeSource(ctx context.Context, req *mcp.CallToolRequest, input SourceInput) (*mcp.CallToolResult, any, error) {
	if input.Source == "" {
		return toolError("source must not be empty")
	}

	a := analyzer.NewWithOptions(analyzerOptions(input.IncludeDeclarations, false))
	defer a.Close()

	fr, err := a.AnalyzeSource([]byte(input.Source), "inline.c")
	if err != nil {
		var parseErr *parser.ParseError
		if errors.As(err, &parseErr) {
			return toolError(parseErr.Error())
		}
		return toolError(err.Error())
	}

	return toolResult(fr, input.Format)
}
