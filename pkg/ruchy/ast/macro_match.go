package ast

import (
	"strconv"
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
)

// Token-level macro machinery shared by macro expansion at transpile
// time and in the interpreter. Rules and invocation arguments are kept
// as raw token streams; expansion matches, captures, and substitutes at
// the token level before the result is re-parsed.

// MatchMacroRule matches raw invocation tokens against a rule's matcher
// list. Metavariables capture balanced token runs up to the next literal
// matcher; repetitions capture zero or more separator-delimited groups.
func MatchMacroRule(matchers []*MacroMatcher, tokens []lexer.Token) (map[string][][]lexer.Token, bool) {
	captures := make(map[string][][]lexer.Token)
	pos := 0

	for idx, matcher := range matchers {
		switch {
		case matcher.Literal != nil:
			if pos >= len(tokens) || tokens[pos].Type != matcher.Literal.Type || tokens[pos].Literal != matcher.Literal.Literal {
				return nil, false
			}
			pos++

		case matcher.MetaVar != "":
			var stop *lexer.Token
			if idx+1 < len(matchers) && matchers[idx+1].Literal != nil {
				stop = matchers[idx+1].Literal
			}
			run, next, ok := captureRun(tokens, pos, stop)
			if !ok {
				return nil, false
			}
			captures[matcher.MetaVar] = append(captures[matcher.MetaVar], run)
			pos = next

		case len(matcher.Repetition) > 0:
			for pos < len(tokens) {
				consumed := groupLen(tokens, pos, matcher.Separator)
				inner, ok := MatchMacroRule(matcher.Repetition, tokens[pos:pos+consumed])
				if !ok {
					return nil, false
				}
				for name, runs := range inner {
					captures[name] = append(captures[name], runs...)
				}
				pos += consumed
				if pos < len(tokens) && matcher.Separator != "" && tokens[pos].Literal == matcher.Separator {
					pos++
					continue
				}
				break
			}
		}
	}

	if pos != len(tokens) {
		return nil, false
	}
	return captures, true
}

// captureRun consumes a balanced token run ending before the stop token
// at depth zero, or the rest of the input when stop is nil
func captureRun(tokens []lexer.Token, start int, stop *lexer.Token) ([]lexer.Token, int, bool) {
	depth := 0
	for pos := start; pos < len(tokens); pos++ {
		tok := tokens[pos]
		switch tok.Type {
		case lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE:
			depth++
		case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
			depth--
		}
		if depth == 0 && stop != nil && tok.Type == stop.Type && tok.Literal == stop.Literal {
			if pos == start {
				return nil, 0, false
			}
			return tokens[start:pos], pos, true
		}
	}
	if stop != nil {
		return nil, 0, false
	}
	if start == len(tokens) {
		return nil, 0, false
	}
	return tokens[start:], len(tokens), true
}

func groupLen(tokens []lexer.Token, start int, separator string) int {
	depth := 0
	for pos := start; pos < len(tokens); pos++ {
		tok := tokens[pos]
		switch tok.Type {
		case lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE:
			depth++
		case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
			depth--
		}
		if depth == 0 && separator != "" && tok.Literal == separator {
			return pos - start
		}
	}
	return len(tokens) - start
}

// SubstituteTokens replaces $name references in a macro body with the
// captured token runs. Repeated captures expand comma separated.
func SubstituteTokens(body []lexer.Token, captures map[string][][]lexer.Token) []lexer.Token {
	var out []lexer.Token
	for idx := 0; idx < len(body); idx++ {
		tok := body[idx]
		if tok.Type == lexer.DOLLAR && idx+1 < len(body) && body[idx+1].Type == lexer.IDENT {
			name := body[idx+1].Literal
			if runs, ok := captures[name]; ok {
				for runIdx, run := range runs {
					if runIdx > 0 {
						out = append(out, lexer.Token{Type: lexer.COMMA, Literal: ","})
					}
					out = append(out, run...)
				}
				idx++
				continue
			}
		}
		out = append(out, tok)
	}
	return out
}

// SplitTokenGroups splits on commas outside any nested delimiter
func SplitTokenGroups(tokens []lexer.Token) [][]lexer.Token {
	return splitTokens(tokens, lexer.COMMA)
}

// SplitTokenSemicolons splits on top-level semicolons, for the
// [value; count] repetition forms
func SplitTokenSemicolons(tokens []lexer.Token) [][]lexer.Token {
	return splitTokens(tokens, lexer.SEMICOLON)
}

func splitTokens(tokens []lexer.Token, sep lexer.TokenType) [][]lexer.Token {
	var groups [][]lexer.Token
	var current []lexer.Token
	depth := 0
	for _, tok := range tokens {
		switch tok.Type {
		case lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE:
			depth++
		case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
			depth--
		}
		if tok.Type == sep && depth == 0 {
			groups = append(groups, current)
			current = nil
			continue
		}
		current = append(current, tok)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

// RenderTokens rebuilds parseable source text from raw tokens,
// re-quoting string and char literals
func RenderTokens(tokens []lexer.Token) string {
	var out strings.Builder
	for idx, tok := range tokens {
		if idx > 0 {
			out.WriteByte(' ')
		}
		switch tok.Type {
		case lexer.STRING, lexer.RAWSTRING:
			out.WriteString(strconv.Quote(tok.Literal))
		case lexer.FSTRING:
			out.WriteString("f")
			out.WriteString(strconv.Quote(tok.Literal))
		case lexer.CHAR:
			out.WriteString(strconv.QuoteRune([]rune(tok.Literal)[0]))
		case lexer.BYTE_LIT:
			out.WriteString("b")
			out.WriteString(strconv.QuoteRune(rune(tok.Literal[0])))
		case lexer.INT:
			out.WriteString(tok.Literal)
			out.WriteString(tok.Suffix)
		default:
			out.WriteString(tok.Literal)
		}
	}
	return out.String()
}
