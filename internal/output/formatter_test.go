package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/panbanda/cyclo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"records", FormatRecords},
		{"text", FormatText},
		{"TEXT", FormatText},
		{"json", FormatJSON},
		{"yaml", FormatYAML},
		{"yml", FormatYAML},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"toon", FormatTOON},
		{"", FormatRecords},
		{"invalid", FormatRecords},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFormat(tt.input))
		})
	}
}

func sampleAnalysis() *models.Analysis {
	return models.BuildAnalysis([]models.FileResult{
		models.NewFileResult("main.c", "c", []models.Record{
			{Line: 1, Name: "foo", Complexity: 1},
			{Line: 5, Name: "bar", Complexity: 2, Edges: 2, Nodes: 1},
		}),
	})
}

func TestFormatterJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{format: FormatJSON, writer: &buf}

	view := &AnalysisView{Analysis: sampleAnalysis()}
	require.NoError(t, f.Output(view))

	var decoded models.Analysis
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Files, 1)
	assert.Equal(t, 2, decoded.Summary.TotalFunctions)
	assert.Equal(t, "bar", decoded.Files[0].Records[1].Name)
}

func TestFormatterYAML(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{format: FormatYAML, writer: &buf}

	require.NoError(t, f.Output(&AnalysisView{Analysis: sampleAnalysis()}))

	var decoded models.Analysis
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Files, 1)
	assert.Equal(t, uint32(2), decoded.Summary.MaxComplexity)
}

func TestFormatterText(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{format: FormatText, writer: &buf}

	require.NoError(t, f.Output(&AnalysisView{Analysis: sampleAnalysis()}))

	out := buf.String()
	assert.Contains(t, out, "foo")
	assert.Contains(t, out, "bar")
	assert.Contains(t, out, "Cyclomatic Complexity")
}

func TestFormatterMarkdown(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{format: FormatMarkdown, writer: &buf}

	require.NoError(t, f.Output(&AnalysisView{Analysis: sampleAnalysis()}))

	out := buf.String()
	assert.Contains(t, out, "| File | Line | Function | Complexity |")
	assert.Contains(t, out, "| main.c | 5 | bar | 2 |")
}

func TestFormatterTOON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{format: FormatTOON, writer: &buf}

	require.NoError(t, f.Output(&AnalysisView{Analysis: sampleAnalysis()}))
	assert.Contains(t, buf.String(), "main.c")
}

func TestRenderRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderRecords(&buf, sampleAnalysis()))
	assert.Equal(t, "1 foo 1\n5 bar 2\n", buf.String())
}

func TestFormatterMessagesWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{format: FormatText, writer: &buf}

	f.Success("done %d", 3)
	f.Warning("slow")
	f.Error("bad")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "done 3", lines[0])
	assert.Equal(t, "WARNING: slow", lines[1])
	assert.Equal(t, "ERROR: bad", lines[2])
}
