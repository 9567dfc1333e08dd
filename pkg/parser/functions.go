package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// FunctionNode represents a function found in the AST. Body is nil for a
// forward declaration.
type FunctionNode struct {
	Name      string
	StartLine uint32
	EndLine   uint32
	Node      *sitter.Node
	Body      *sitter.Node
}

// IsDeclaration reports whether the function is a bodyless prototype.
func (f FunctionNode) IsDeclaration() bool {
	return f.Body == nil
}

// Functions returns every function definition reachable from the root, in
// source discovery order. The walk descends through non-function containers
// (preprocessor conditionals, linkage blocks, error-recovery nodes) but
// never into a matched function, so C's lack of nested functions is
// preserved structurally rather than assumed.
func Functions(result *ParseResult) []FunctionNode {
	var functions []FunctionNode
	collectFunctions(result.Tree.RootNode(), result.Source, false, &functions)
	return functions
}

// FunctionsAndDeclarations returns function definitions and bodyless
// prototypes interleaved in source discovery order.
func FunctionsAndDeclarations(result *ParseResult) []FunctionNode {
	var functions []FunctionNode
	collectFunctions(result.Tree.RootNode(), result.Source, true, &functions)
	return functions
}

func collectFunctions(node *sitter.Node, source []byte, includeDecls bool, out *[]FunctionNode) {
	if node == nil {
		return
	}

	if node.Type() == "function_definition" {
		*out = append(*out, extractFunction(node, source))
		return
	}

	if includeDecls && node.Type() == "declaration" {
		collectPrototypes(node, source, out)
		return
	}

	for i := range int(node.ChildCount()) {
		collectFunctions(node.Child(i), source, includeDecls, out)
	}
}

func extractFunction(node *sitter.Node, source []byte) FunctionNode {
	return FunctionNode{
		Name:      declaratorName(node.ChildByFieldName("declarator"), source),
		StartLine: node.StartPoint().Row + 1,
		EndLine:   node.EndPoint().Row + 1,
		Node:      node,
		Body:      node.ChildByFieldName("body"),
	}
}

// collectPrototypes extracts function prototypes from a declaration node. A
// declaration may carry several declarators; each one that is a function
// declarator over a plain (possibly pointer-returning) identifier is a
// prototype. Parenthesized declarators are function pointer variables and
// are skipped.
func collectPrototypes(decl *sitter.Node, source []byte, out *[]FunctionNode) {
	for i := range int(decl.ChildCount()) {
		child := decl.Child(i)

		d := child
		for d != nil && d.Type() == "pointer_declarator" {
			d = d.ChildByFieldName("declarator")
		}
		if d == nil || d.Type() != "function_declarator" {
			continue
		}

		inner := d.ChildByFieldName("declarator")
		if inner == nil || inner.Type() != "identifier" {
			continue
		}

		*out = append(*out, FunctionNode{
			Name:      GetNodeText(inner, source),
			StartLine: child.StartPoint().Row + 1,
			EndLine:   child.EndPoint().Row + 1,
			Node:      decl,
		})
	}
}

// declaratorName resolves the identifier inside a declarator chain,
// unwrapping pointer, function, and parenthesized declarators. Returns
// empty when no identifier exists; an empty name is still reportable.
func declaratorName(declarator *sitter.Node, source []byte) string {
	d := declarator
	for d != nil {
		if d.Type() == "identifier" {
			return GetNodeText(d, source)
		}

		next := d.ChildByFieldName("declarator")
		if next == nil {
			// parenthesized declarators carry the inner declarator as an
			// unnamed child
			for i := range int(d.NamedChildCount()) {
				child := d.NamedChild(i)
				if child.Type() == "identifier" || strings.HasSuffix(child.Type(), "_declarator") {
					next = child
					break
				}
			}
		}
		if next == nil {
			return ""
		}
		d = next
	}
	return ""
}
