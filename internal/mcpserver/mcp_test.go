package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestNewServer(t *testing.T) {
	s := NewServer("1.0.0")
	require.NotNil(t, s)
	require.NotNil(t, s.server)
}

func TestNewServerDefaultVersion(t *testing.T) {
	s := NewServer("")
	require.NotNil(t, s)
}

func TestHandleAnalyzeSource(t *testing.T) {
	input := SourceInput{
		Source: "int f(int x) { if (x && 1) { return 1; } return 0; }",
	}

	result, _, err := handleAnalyzeSource(context.Background(), nil, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	text := textContent(t, result)
	assert.Contains(t, text, "f")
	assert.Contains(t, text, "3")
}

func TestHandleAnalyzeSourceJSON(t *testing.T) {
	input := SourceInput{
		Source: "int f(void) { return 0; }",
		Format: "json",
	}

	result, _, err := handleAnalyzeSource(context.Background(), nil, input)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, textContent(t, result), `"complexity": 1`)
}

func TestHandleAnalyzeSourceEmpty(t *testing.T) {
	result, _, err := handleAnalyzeSource(context.Background(), nil, SourceInput{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleAnalyzeSourceSkipsDeclarations(t *testing.T) {
	include := false
	input := SourceInput{
		Source:              "int forward(int x);\nint f(void) { return 0; }\n",
		IncludeDeclarations: &include,
	}

	result, _, err := handleAnalyzeSource(context.Background(), nil, input)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := textContent(t, result)
	assert.NotContains(t, text, "forward")
	assert.Contains(t, text, "f")
}

func TestHandleAnalyzeComplexity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.c")
	require.NoError(t, os.WriteFile(path,
		[]byte("int main(void) { for (int i = 0; i < 3; i++) {} return 0; }\n"), 0644))

	input := ComplexityInput{Paths: []string{dir}}
	result, _, err := handleAnalyzeComplexity(context.Background(), nil, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
	assert.Contains(t, textContent(t, result), "main")
}

func TestHandleAnalyzeComplexityNoFiles(t *testing.T) {
	input := ComplexityInput{Paths: []string{t.TempDir()}}
	result, _, err := handleAnalyzeComplexity(context.Background(), nil, input)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleAnalyzeComplexityThreshold(t *testing.T) {
	dir := t.TempDir()
	source := `
int simple(void) { return 0; }
int branchy(int x) { if (x) { if (x > 1) { return 2; } return 1; } return 0; }
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "m.c"), []byte(source), 0644))

	input := ComplexityInput{Paths: []string{dir}, Threshold: 3}
	result, _, err := handleAnalyzeComplexity(context.Background(), nil, input)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := textContent(t, result)
	assert.Contains(t, text, "branchy")
	assert.NotContains(t, text, "simple")
}
