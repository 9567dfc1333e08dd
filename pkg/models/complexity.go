package models

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Record is one emitted complexity measurement for a single function.
// Line is the 1-based declaration line. Edges and Nodes are the raw graph
// counts the complexity was derived from; DecisionLines lists the lines
// that contributed a decision point, deduplicated and sorted, and is only
// populated when annotation is requested.
type Record struct {
	Line          uint32   `json:"line" yaml:"line"`
	Name          string   `json:"name" yaml:"name"`
	Complexity    uint32   `json:"complexity" yaml:"complexity"`
	Edges         uint32   `json:"edges" yaml:"edges"`
	Nodes         uint32   `json:"nodes" yaml:"nodes"`
	DecisionLines []uint32 `json:"decision_lines,omitempty" yaml:"decision_lines,omitempty"`
}

// String renders the record in the plain three-field line format.
func (r Record) String() string {
	return fmt.Sprintf("%d %s %d", r.Line, r.Name, r.Complexity)
}

// FileResult holds the records of one analyzed source unit in discovery
// order, plus per-file aggregates.
type FileResult struct {
	Path            string   `json:"path" yaml:"path"`
	Language        string   `json:"language" yaml:"language"`
	Records         []Record `json:"records" yaml:"records"`
	TotalComplexity uint32   `json:"total_complexity" yaml:"total_complexity"`
	MaxComplexity   uint32   `json:"max_complexity" yaml:"max_complexity"`
	AvgComplexity   float64  `json:"avg_complexity" yaml:"avg_complexity"`
}

// NewFileResult builds a FileResult and computes its aggregates.
func NewFileResult(path, language string, records []Record) FileResult {
	fr := FileResult{
		Path:     path,
		Language: language,
		Records:  records,
	}
	for _, rec := range records {
		fr.TotalComplexity += rec.Complexity
		if rec.Complexity > fr.MaxComplexity {
			fr.MaxComplexity = rec.Complexity
		}
	}
	if len(records) > 0 {
		fr.AvgComplexity = float64(fr.TotalComplexity) / float64(len(records))
	}
	return fr
}

// Analysis is the result of analyzing a set of source units.
type Analysis struct {
	Files   []FileResult `json:"files" yaml:"files"`
	Summary Summary      `json:"summary" yaml:"summary"`
}

// Summary holds project-level complexity statistics.
type Summary struct {
	TotalFiles     int     `json:"total_files" yaml:"total_files"`
	TotalFunctions int     `json:"total_functions" yaml:"total_functions"`
	AvgComplexity  float64 `json:"avg_complexity" yaml:"avg_complexity"`
	MaxComplexity  uint32  `json:"max_complexity" yaml:"max_complexity"`
	P50Complexity  float64 `json:"p50_complexity" yaml:"p50_complexity"`
	P90Complexity  float64 `json:"p90_complexity" yaml:"p90_complexity"`
	P95Complexity  float64 `json:"p95_complexity" yaml:"p95_complexity"`
}

// Hotspot identifies a function exceeding a complexity threshold.
type Hotspot struct {
	File       string `json:"file" yaml:"file"`
	Line       uint32 `json:"line" yaml:"line"`
	Function   string `json:"function" yaml:"function"`
	Complexity uint32 `json:"complexity" yaml:"complexity"`
}

// BuildAnalysis aggregates per-file results into an Analysis with summary
// statistics over all function complexities.
func BuildAnalysis(files []FileResult) *Analysis {
	analysis := &Analysis{
		Files:   files,
		Summary: Summary{TotalFiles: len(files)},
	}

	var complexities []float64
	for _, file := range files {
		for _, rec := range file.Records {
			complexities = append(complexities, float64(rec.Complexity))
			if rec.Complexity > analysis.Summary.MaxComplexity {
				analysis.Summary.MaxComplexity = rec.Complexity
			}
		}
	}
	analysis.Summary.TotalFunctions = len(complexities)

	if len(complexities) > 0 {
		sort.Float64s(complexities)
		analysis.Summary.AvgComplexity = stat.Mean(complexities, nil)
		analysis.Summary.P50Complexity = stat.Quantile(0.50, stat.Empirical, complexities, nil)
		analysis.Summary.P90Complexity = stat.Quantile(0.90, stat.Empirical, complexities, nil)
		analysis.Summary.P95Complexity = stat.Quantile(0.95, stat.Empirical, complexities, nil)
	}

	return analysis
}

// Exceeding returns every function whose complexity is strictly above the
// threshold, in file order.
func (a *Analysis) Exceeding(threshold uint32) []Hotspot {
	var hotspots []Hotspot
	for _, file := range a.Files {
		for _, rec := range file.Records {
			if rec.Complexity > threshold {
				hotspots = append(hotspots, Hotspot{
					File:       file.Path,
					Line:       rec.Line,
					Function:   rec.Name,
					Complexity: rec.Complexity,
				})
			}
		}
	}
	return hotspots
}
