package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/panbanda/cyclo/internal/cache"
	"github.com/panbanda/cyclo/internal/fileproc"
	"github.com/panbanda/cyclo/pkg/models"
	"github.com/panbanda/cyclo/pkg/parser"
)

// EmitFunc receives one record at a time, in discovery order.
type EmitFunc func(models.Record) error

// Analyzer measures McCabe cyclomatic complexity of C source units.
type Analyzer struct {
	parser *parser.Parser
	opts   Options
}

// Options configures analysis behavior.
type Options struct {
	// IncludeDeclarations reports bodyless prototypes. They carry no
	// branches and always score 1.
	IncludeDeclarations bool
	// Strict rejects units containing any syntax error instead of
	// analyzing the recovered tree.
	Strict bool
	// Annotate records the source lines that contributed decision points.
	Annotate bool
	// Cache memoizes per-file results keyed by content hash.
	Cache *cache.Cache
	// Workers caps analysis concurrency; <= 0 uses the fileproc default.
	Workers int
	// OnMalformed receives operator resolution diagnostics.
	OnMalformed MalformedFunc
}

// DefaultOptions reports prototypes and tolerates recoverable syntax
// errors.
func DefaultOptions() Options {
	return Options{IncludeDeclarations: true}
}

// New creates an analyzer with default options.
func New() *Analyzer {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates an analyzer with explicit options.
func NewWithOptions(opts Options) *Analyzer {
	return &Analyzer{
		parser: parser.New(),
		opts:   opts,
	}
}

// Close releases the analyzer's parser.
func (a *Analyzer) Close() {
	a.parser.Close()
}

// AnalyzeSourceWithEmit measures every function in an in-memory source
// unit and hands each record to emit as soon as it is computed, so a sink
// can write incrementally. Records arrive in source discovery order.
func (a *Analyzer) AnalyzeSourceWithEmit(source []byte, path string, emit EmitFunc) error {
	return analyzeUnit(a.parser, source, path, a.opts, emit)
}

// AnalyzeSource measures every function in an in-memory source unit.
func (a *Analyzer) AnalyzeSource(source []byte, path string) (*models.FileResult, error) {
	return analyzeSource(a.parser, source, path, a.opts)
}

// AnalyzeFile measures one file, consulting the cache when enabled.
func (a *Analyzer) AnalyzeFile(path string) (*models.FileResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return analyzeSource(a.parser, source, path, a.opts)
}

// AnalyzeProject measures every file concurrently and aggregates a
// project summary. Results keep the order of the input paths no matter
// which worker finished first, and a failed unit never suppresses the
// others.
func (a *Analyzer) AnalyzeProject(ctx context.Context, files []string) (*models.Analysis, *fileproc.ProcessingErrors) {
	return a.AnalyzeProjectWithProgress(ctx, files, nil)
}

// AnalyzeProjectWithProgress is AnalyzeProject with a callback invoked
// after each file completes.
func (a *Analyzer) AnalyzeProjectWithProgress(ctx context.Context, files []string, onProgress func()) (*models.Analysis, *fileproc.ProcessingErrors) {
	opts := a.opts

	results, errs := fileproc.MapFilesIndexedN(ctx, files, opts.Workers, func(p *parser.Parser, path string) (models.FileResult, error) {
		source, err := os.ReadFile(path)
		if err != nil {
			return models.FileResult{}, fmt.Errorf("failed to read file: %w", err)
		}
		fr, err := analyzeSource(p, source, path, opts)
		if onProgress != nil {
			onProgress()
		}
		if err != nil {
			return models.FileResult{}, err
		}
		return *fr, nil
	})

	// Failed units occupy their slot with a zero value; drop them so the
	// summary only aggregates measured files.
	kept := make([]models.FileResult, 0, len(results))
	for _, fr := range results {
		if fr.Path == "" {
			continue
		}
		kept = append(kept, fr)
	}

	return models.BuildAnalysis(kept), errs
}

// analyzeSource measures one unit into a FileResult, going through the
// cache when one is configured. The parser is passed in so pooled workers
// can hold their own instance.
func analyzeSource(p *parser.Parser, source []byte, path string, opts Options) (*models.FileResult, error) {
	var hash string
	if opts.Cache != nil {
		hash = cache.HashBytes(source)
		if data, ok := opts.Cache.GetWithHash(cacheKey(path, opts), hash); ok {
			var cached models.FileResult
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var records []models.Record
	err := analyzeUnit(p, source, path, opts, func(rec models.Record) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	fr := models.NewFileResult(path, string(parser.LangC), records)

	if opts.Cache != nil {
		// A failed cache write costs a recomputation later, nothing more.
		if data, err := json.Marshal(fr); err == nil {
			_ = opts.Cache.SetWithHash(cacheKey(path, opts), hash, data)
		}
	}

	return &fr, nil
}

// cacheKey namespaces cached entries by the options that change what a
// record contains, so toggling them never serves stale shapes.
func cacheKey(path string, opts Options) string {
	key := "complexity:" + path
	if !opts.IncludeDeclarations {
		key += ":nodecl"
	}
	if opts.Annotate {
		key += ":annot"
	}
	return key
}

// analyzeUnit parses one source unit and emits a record per discovered
// function. Emission happens between function walks, never during one.
func analyzeUnit(p *parser.Parser, source []byte, path string, opts Options, emit EmitFunc) error {
	result, err := p.Parse(source, path)
	if err != nil {
		return err
	}
	if opts.Strict && result.HasSyntaxError() {
		return &parser.ParseError{Path: path, Err: errors.New("source contains syntax errors")}
	}

	var functions []parser.FunctionNode
	if opts.IncludeDeclarations {
		functions = parser.FunctionsAndDeclarations(result)
	} else {
		functions = parser.Functions(result)
	}

	for _, fn := range functions {
		var decisions *roaring.Bitmap
		if opts.Annotate {
			decisions = roaring.New()
		}

		tally := FunctionTally(fn, result, decisions, opts.OnMalformed)

		rec := models.Record{
			Line:       fn.StartLine,
			Name:       fn.Name,
			Complexity: tally.Complexity(),
			Edges:      tally.Edges,
			Nodes:      tally.Nodes,
		}
		if decisions != nil {
			rec.DecisionLines = decisions.ToArray()
		}

		if err := emit(rec); err != nil {
			return err
		}
	}

	return nil
}
