package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// NodeKind is the closed set of syntactic categories the complexity engine
// distinguishes. Everything outside the set collapses to KindOther, so new
// grammar node types cannot change analysis results silently.
type NodeKind int

const (
	KindOther NodeKind = iota
	KindIf
	KindFor
	KindWhile
	KindSwitchCase
	KindSwitchDefault
	KindConditional
	KindBinaryOperator
	KindFunctionDefinition
)

// String returns the kind name for diagnostics.
func (k NodeKind) String() string {
	switch k {
	case KindIf:
		return "if"
	case KindFor:
		return "for"
	case KindWhile:
		return "while"
	case KindSwitchCase:
		return "case"
	case KindSwitchDefault:
		return "default"
	case KindConditional:
		return "conditional"
	case KindBinaryOperator:
		return "binary-operator"
	case KindFunctionDefinition:
		return "function"
	default:
		return "other"
	}
}

// KindOf maps a grammar node onto the closed kind set. A case label with a
// value is a switch case; one without is the default label. do-while and
// the switch statement head itself are intentionally KindOther: only the
// labelled arms add paths.
func KindOf(node *sitter.Node) NodeKind {
	if node == nil {
		return KindOther
	}

	switch node.Type() {
	case "if_statement":
		return KindIf
	case "for_statement":
		return KindFor
	case "while_statement":
		return KindWhile
	case "case_statement":
		if node.ChildByFieldName("value") != nil {
			return KindSwitchCase
		}
		return KindSwitchDefault
	case "conditional_expression":
		return KindConditional
	case "binary_expression":
		return KindBinaryOperator
	case "function_definition":
		return KindFunctionDefinition
	default:
		return KindOther
	}
}
