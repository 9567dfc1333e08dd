package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Token is one lexical token with its source text and byte extent.
type Token struct {
	Text  string
	Start uint32
	End   uint32
}

// TokensInExtent returns the ordered lexical tokens spanning a node's
// extent. Tokens are the tree's leaves, comments included, exactly as the
// grammar lexed them; zero-width leaves inserted by error recovery carry
// no text and are dropped.
func TokensInExtent(node *sitter.Node, source []byte) []Token {
	var tokens []Token
	Walk(node, source, func(n *sitter.Node, src []byte) bool {
		if n.ChildCount() > 0 {
			return true
		}
		start := n.StartByte()
		end := n.EndByte()
		if start >= end || end > uint32(len(src)) {
			return false
		}
		tokens = append(tokens, Token{
			Text:  string(src[start:end]),
			Start: start,
			End:   end,
		})
		return false
	})
	return tokens
}
