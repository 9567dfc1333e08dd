package analyzer

import (
	"errors"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/panbanda/cyclo/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// ErrMalformedExpression reports a binary expression whose operator token
// could not be located inside its extent. The expression contributes no
// decision point; analysis of the unit continues.
var ErrMalformedExpression = errors.New("malformed binary expression: operator token not found")

// Tally accumulates control-flow graph counts for one function. It is a
// plain value: the walk passes it down and returns the updated copy, so a
// tally can never be shared between functions.
type Tally struct {
	Edges uint32
	Nodes uint32
}

// addDecision records one decision point. A branch contributes two edges
// and one node to the function's graph.
func (t Tally) addDecision() Tally {
	t.Edges += 2
	t.Nodes++
	return t
}

// Complexity derives the cyclomatic number. The tally counts only
// decision-induced nodes, so the implicit entry node is folded in here:
// E - (N+1) + 2 simplifies to E - N + 1. Every decision adds twice as many
// edges as nodes, so the subtraction cannot underflow and a zero tally
// scores 1.
func (t Tally) Complexity() uint32 {
	return t.Edges - t.Nodes + 1
}

// MalformedFunc receives non-fatal diagnostics for binary expressions
// whose operator could not be resolved.
type MalformedFunc func(path string, line uint32, err error)

// FunctionTally walks one discovered function and returns its decision
// tally. The function node itself is never classified, only its
// descendants; a bodyless prototype has nothing to walk and yields the
// zero tally. When decisions is non-nil, the 1-based line of every
// decision point is added to it.
func FunctionTally(fn parser.FunctionNode, unit *parser.ParseResult, decisions *roaring.Bitmap, onMalformed MalformedFunc) Tally {
	if fn.IsDeclaration() {
		return Tally{}
	}

	w := &tallyWalker{
		unit:        unit,
		decisions:   decisions,
		onMalformed: onMalformed,
	}
	return w.walk(fn.Node, Tally{})
}

type tallyWalker struct {
	unit        *parser.ParseResult
	decisions   *roaring.Bitmap
	onMalformed MalformedFunc
}

// walk visits every descendant exactly once in depth-first pre-order,
// threading the tally through.
func (w *tallyWalker) walk(node *sitter.Node, t Tally) Tally {
	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		t = w.classify(child, t)
		t = w.walk(child, t)
	}
	return t
}

// classify applies the decision rules to one node. Control statements,
// switch labels, and ternaries always count; a binary expression counts
// only when its operator is && or ||. Unknown kinds never count.
func (w *tallyWalker) classify(node *sitter.Node, t Tally) Tally {
	switch parser.KindOf(node) {
	case parser.KindIf, parser.KindFor, parser.KindWhile,
		parser.KindSwitchCase, parser.KindSwitchDefault, parser.KindConditional:
		return w.decision(node, t)

	case parser.KindBinaryOperator:
		op, err := BinaryOperator(node, w.unit.Source)
		if err != nil {
			if w.onMalformed != nil {
				w.onMalformed(w.unit.Path, node.StartPoint().Row+1, err)
			}
			return t
		}
		if op == "&&" || op == "||" {
			return w.decision(node, t)
		}
	}

	return t
}

func (w *tallyWalker) decision(node *sitter.Node, t Tally) Tally {
	if w.decisions != nil {
		w.decisions.Add(node.StartPoint().Row + 1)
	}
	return t.addDecision()
}

// BinaryOperator recovers the operator symbol of a binary expression from
// its token stream. The grammar keeps the operator as an anonymous token
// rather than a named child, so it is found positionally: the token
// directly after those consumed by the left operand.
func BinaryOperator(node *sitter.Node, source []byte) (string, error) {
	lhs := node.Child(0)
	if lhs == nil {
		return "", ErrMalformedExpression
	}

	tok, err := operatorToken(
		parser.TokensInExtent(node, source),
		parser.TokensInExtent(lhs, source),
	)
	if err != nil {
		return "", err
	}
	return tok.Text, nil
}

// operatorToken indexes the full token sequence by the number of tokens
// the left operand consumed. Degenerate extents produced by error
// recovery fail with ErrMalformedExpression instead of indexing out of
// range.
func operatorToken(full, lhs []parser.Token) (parser.Token, error) {
	if len(lhs) == 0 || len(lhs) >= len(full) {
		return parser.Token{}, ErrMalformedExpression
	}
	return full[len(lhs)], nil
}
