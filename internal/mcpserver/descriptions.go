package mcpserver

func describeComplexity() string {
	return `Measure McCabe cyclomatic complexity of C source files.

Walks each function's syntax tree counting decision points (if, for,
while, switch labels, ternaries, and short-circuit && / ||) and reports
one score per function plus project summary statistics (mean, max,
P50/P90/P95).

Use threshold to only surface functions at or above a complexity value,
and annotate to include the source lines that contributed decisions.`
}

func describeSource() string {
	return `Measure McCabe cyclomatic complexity of inline C source text.

Accepts a complete C translation unit as a string and returns one
complexity record per function in declaration order. Useful for checking
a snippet or a generated function without writing it to disk.`
}
