package parser

import (
	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
)

// parsePattern parses match and destructuring patterns, including
// or-patterns like '1 | 2 | 3'
func (p *Parser) parsePattern() ast.Pattern {
	first := p.parseSinglePattern()
	if first == nil {
		return nil
	}

	if !p.peekTokenIs(lexer.PIPE) {
		return first
	}

	or := &ast.OrPattern{Token: p.peekToken, Alternatives: []ast.Pattern{first}}
	for p.peekTokenIs(lexer.PIPE) {
		p.nextToken()
		p.nextToken()
		alt := p.parseSinglePattern()
		if alt == nil {
			return nil
		}
		or.Alternatives = append(or.Alternatives, alt)
	}
	return or
}

func (p *Parser) parseSinglePattern() ast.Pattern {
	switch p.curToken.Type {
	case lexer.INT, lexer.FLOAT, lexer.CHAR, lexer.MINUS:
		return p.parseLiteralOrRangePattern()
	case lexer.STRING, lexer.TRUE, lexer.FALSE, lexer.NULL, lexer.BYTE_LIT:
		tok := p.curToken
		return &ast.LiteralPattern{Token: tok, Value: p.parsePatternLiteral()}
	case lexer.LPAREN:
		return p.parseTuplePattern()
	case lexer.LBRACKET:
		return p.parseListPattern()
	case lexer.IDENT:
		return p.parseIdentStartPattern()
	default:
		p.addError(rerrors.ErrUnexpectedToken, p.curToken.Line, p.curToken.Column, map[string]any{
			"Token": p.curToken.Literal,
		})
		return nil
	}
}

// parsePatternLiteral parses the literal expression inside a pattern
func (p *Parser) parsePatternLiteral() ast.Expression {
	switch p.curToken.Type {
	case lexer.INT:
		return p.parseIntegerLiteral()
	case lexer.FLOAT:
		return p.parseFloatLiteral()
	case lexer.STRING:
		return p.parseStringLiteral()
	case lexer.CHAR:
		return p.parseCharLiteral()
	case lexer.BYTE_LIT:
		return p.parseByteLiteral()
	case lexer.TRUE, lexer.FALSE:
		return p.parseBooleanLiteral()
	case lexer.NULL:
		return p.parseNullLiteral()
	case lexer.MINUS:
		expr := &ast.PrefixExpression{Token: p.curToken, Operator: "-"}
		p.nextToken()
		expr.Right = p.parsePatternLiteral()
		return expr
	default:
		p.addError(rerrors.ErrUnexpectedToken, p.curToken.Line, p.curToken.Column, map[string]any{
			"Token": p.curToken.Literal,
		})
		return nil
	}
}

// parseLiteralOrRangePattern handles '5', '-1', and ranges like
// 1..5 and 'a'..='z'
func (p *Parser) parseLiteralOrRangePattern() ast.Pattern {
	tok := p.curToken
	lit := p.parsePatternLiteral()
	if lit == nil {
		return nil
	}

	if p.peekTokenIs(lexer.RANGE) || p.peekTokenIs(lexer.RANGE_INCL) {
		rp := &ast.RangePattern{
			Token:     p.peekToken,
			Start:     lit,
			Inclusive: p.peekTokenIs(lexer.RANGE_INCL),
		}
		p.nextToken()
		p.nextToken()
		rp.End = p.parsePatternLiteral()
		return rp
	}

	return &ast.LiteralPattern{Token: tok, Value: lit}
}

func (p *Parser) parseTuplePattern() ast.Pattern {
	pat := &ast.TuplePattern{Token: p.curToken}

	for !p.peekTokenIs(lexer.RPAREN) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		elem := p.parsePattern()
		if elem == nil {
			return nil
		}
		pat.Elements = append(pat.Elements, elem)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}

	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return pat
}

func (p *Parser) parseListPattern() ast.Pattern {
	pat := &ast.ListPattern{Token: p.curToken}

	for !p.peekTokenIs(lexer.RBRACKET) && !p.peekTokenIs(lexer.EOF) {
		if p.peekTokenIs(lexer.RANGE) {
			p.nextToken()
			pat.HasRest = true
			pat.Rest = "_"
			if p.peekTokenIs(lexer.IDENT) {
				p.nextToken()
				pat.Rest = p.curToken.Literal
			}
			break
		}
		p.nextToken()
		elem := p.parsePattern()
		if elem == nil {
			return nil
		}
		pat.Elements = append(pat.Elements, elem)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}

	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return pat
}

// parseIdentStartPattern handles wildcards, bindings, Some/None, enum
// variants, and struct patterns
func (p *Parser) parseIdentStartPattern() ast.Pattern {
	tok := p.curToken
	name := p.curToken.Literal

	if name == "_" {
		return &ast.WildcardPattern{Token: tok}
	}
	if name == "None" && !p.peekTokenIs(lexer.LPAREN) {
		return &ast.NonePattern{Token: tok}
	}
	if name == "Some" && p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		p.nextToken()
		inner := p.parsePattern()
		if inner == nil {
			return nil
		}
		if !p.expectPeek(lexer.RPAREN) {
			return nil
		}
		return &ast.SomePattern{Token: tok, Inner: inner}
	}

	if p.peekTokenIs(lexer.COLONCOLON) {
		parts := []string{name}
		for p.peekTokenIs(lexer.COLONCOLON) {
			p.nextToken()
			if !p.expectPeek(lexer.IDENT) {
				return nil
			}
			parts = append(parts, p.curToken.Literal)
		}
		if p.peekTokenIs(lexer.LPAREN) {
			return p.parseTupleVariantPattern(tok, parts)
		}
		return &ast.QualifiedNamePattern{Token: tok, Parts: parts}
	}

	if isTypeName(name) && p.peekTokenIs(lexer.LBRACE) {
		return p.parseStructPattern(tok, name)
	}
	if isTypeName(name) && p.peekTokenIs(lexer.LPAREN) {
		return p.parseTupleVariantPattern(tok, []string{name})
	}

	return &ast.IdentifierPattern{Token: tok, Name: name}
}

// parseTupleVariantPattern parses '(pat, pat)' after a variant path
func (p *Parser) parseTupleVariantPattern(tok lexer.Token, parts []string) ast.Pattern {
	pat := &ast.TupleVariantPattern{Token: tok, Parts: parts}

	p.nextToken() // onto '('
	for !p.peekTokenIs(lexer.RPAREN) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		elem := p.parsePattern()
		if elem == nil {
			return nil
		}
		pat.Elements = append(pat.Elements, elem)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}

	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return pat
}

// parseStructPattern parses 'Point { x, y: b, .. }' after the type name
func (p *Parser) parseStructPattern(tok lexer.Token, name string) ast.Pattern {
	pat := &ast.StructPattern{Token: tok, Name: name}

	p.nextToken() // onto '{'
	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		if p.peekTokenIs(lexer.RANGE) {
			p.nextToken()
			pat.HasRest = true
			break
		}
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		field := ast.StructPatternField{Name: p.curToken.Literal}
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			field.Pattern = p.parsePattern()
			if field.Pattern == nil {
				return nil
			}
		}
		pat.Fields = append(pat.Fields, field)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}

	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return pat
}
