package parser

import (
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
)

// continuationTokens are operators that cannot legally end an input, so
// a line ending with one is asking for more
var continuationTokens = map[lexer.TokenType]bool{
	lexer.PLUS: true, lexer.MINUS: true, lexer.ASTERISK: true,
	lexer.SLASH: true, lexer.PERCENT: true, lexer.POWER: true,
	lexer.EQ: true, lexer.NOT_EQ: true, lexer.LT: true, lexer.GT: true,
	lexer.LTE: true, lexer.GTE: true, lexer.AND: true, lexer.OR: true,
	lexer.ASSIGN: true, lexer.ARROW: true, lexer.FAT_ARROW: true,
	lexer.PIPELINE: true, lexer.DOT: true, lexer.COMMA: true,
	lexer.COLON: true, lexer.ELSE: true, lexer.IN: true,
}

// NeedsContinuation reports whether the input is an incomplete fragment
// that should be continued on the next line rather than parsed. Used by
// the REPL for multiline editing.
func NeedsContinuation(input string) bool {
	l := lexer.New(input)

	depth := 0
	var last lexer.Token
	for {
		tok := l.NextToken()
		if tok.Type == lexer.EOF {
			break
		}
		switch tok.Type {
		case lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE:
			depth++
		case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
			depth--
		}
		last = tok
	}

	if depth > 0 {
		return true
	}

	// An unterminated string or block comment wants more lines too
	for _, diag := range l.Diagnostics() {
		if diag.Code == "LEX-0003" {
			return true
		}
	}

	return continuationTokens[last.Type]
}
