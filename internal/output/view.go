package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/cyclo/pkg/models"
)

// AnalysisView renders a full Analysis in the human-facing formats.
// Structured formats serialize the Analysis itself.
type AnalysisView struct {
	Analysis *models.Analysis
	// Threshold highlights functions at or above this complexity in the
	// text rendering. Zero disables highlighting.
	Threshold uint32
}

func (v *AnalysisView) RenderData() any {
	return v.Analysis
}

func (v *AnalysisView) table(colored bool) *Table {
	var rows [][]string
	for _, file := range v.Analysis.Files {
		for _, rec := range file.Records {
			score := strconv.FormatUint(uint64(rec.Complexity), 10)
			if colored && v.Threshold > 0 && rec.Complexity >= v.Threshold {
				score = color.RedString(score)
			}
			rows = append(rows, []string{
				file.Path,
				strconv.FormatUint(uint64(rec.Line), 10),
				rec.Name,
				score,
			})
		}
	}

	s := v.Analysis.Summary
	footer := []string{
		fmt.Sprintf("%d files", s.TotalFiles),
		"",
		fmt.Sprintf("%d functions", s.TotalFunctions),
		fmt.Sprintf("max %d", s.MaxComplexity),
	}

	return NewTable("Cyclomatic Complexity",
		[]string{"File", "Line", "Function", "Complexity"},
		rows, footer, v.Analysis)
}

func (v *AnalysisView) RenderText(w io.Writer, colored bool) error {
	if err := v.table(colored).RenderText(w, colored); err != nil {
		return err
	}

	s := v.Analysis.Summary
	fmt.Fprintf(w, "Mean %.2f  P50 %.0f  P90 %.0f  P95 %.0f\n",
		s.AvgComplexity, s.P50Complexity, s.P90Complexity, s.P95Complexity)
	return nil
}

func (v *AnalysisView) RenderMarkdown(w io.Writer) error {
	if err := v.table(false).RenderMarkdown(w); err != nil {
		return err
	}

	s := v.Analysis.Summary
	fmt.Fprintf(w, "Mean %.2f, P50 %.0f, P90 %.0f, P95 %.0f\n\n",
		s.AvgComplexity, s.P50Complexity, s.P90Complexity, s.P95Complexity)
	return nil
}

// RenderRecords writes the plain records rendering of an Analysis to w,
// every file's functions in discovery order.
func RenderRecords(w io.Writer, analysis *models.Analysis) error {
	var b strings.Builder
	for _, file := range analysis.Files {
		for _, rec := range file.Records {
			fmt.Fprintf(&b, "%d %s %d\n", rec.Line, rec.Name, rec.Complexity)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
