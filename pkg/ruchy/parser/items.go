package parser

import (
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
)

func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.LetStatement{Token: p.curToken, Mutable: p.curTokenIs(lexer.VAR)}

	if p.peekTokenIs(lexer.MUT) {
		p.nextToken()
		stmt.Mutable = true
	}

	switch p.peekToken.Type {
	case lexer.LPAREN, lexer.LBRACKET:
		p.nextToken()
		stmt.Pattern = p.parsePattern()
		if stmt.Pattern == nil {
			return nil
		}
	default:
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}

	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		stmt.TypeAnno = p.parseTypeName()
	}

	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)

	if p.peekTokenIs(lexer.IN) {
		p.nextToken()
		p.nextToken()
		stmt.Body = p.parseExpression(LOWEST)
	}

	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseFunctionStatement(isAsync bool) ast.Statement {
	fl := p.parseFunctionCommon(isAsync)
	if fl == nil {
		return nil
	}
	return fl
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	fl := p.parseFunctionCommon(false)
	if fl == nil {
		return nil
	}
	return fl
}

// parseFunctionCommon parses named and anonymous functions, with
// curToken on 'fun'
func (p *Parser) parseFunctionCommon(isAsync bool) *ast.FunctionLiteral {
	fl := &ast.FunctionLiteral{Token: p.curToken, IsAsync: isAsync}

	if p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
		fl.Name = p.curToken.Literal
	}

	if p.peekTokenIs(lexer.LT) {
		p.skipGenericParams()
	}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	fl.Params = p.parseFunctionParams()

	if p.peekTokenIs(lexer.ARROW) {
		p.nextToken()
		p.nextToken()
		fl.ReturnType = p.parseTypeName()
	}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	fl.Body = p.parseBlockStatement()

	return fl
}

// skipGenericParams consumes '<T, U>' after a declaration name. Type
// parameters carry no meaning at runtime, so only the shape is checked.
func (p *Parser) skipGenericParams() {
	p.nextToken() // onto '<'
	depth := 1
	for depth > 0 && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		switch p.curToken.Type {
		case lexer.LT:
			depth++
		case lexer.GT:
			depth--
		case lexer.SHR:
			depth -= 2
		}
	}
}

// parseFunctionParams parses '(name: Type = default, ...)' with
// curToken on '('
func (p *Parser) parseFunctionParams() []*ast.Param {
	params := []*ast.Param{}

	for !p.peekTokenIs(lexer.RPAREN) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		if p.curTokenIs(lexer.MUT) {
			p.nextToken()
		}
		param := &ast.Param{Name: p.curToken.Literal}

		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			param.Type = p.parseTypeName()
		}
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			param.Default = p.parseExpression(LOWEST)
		}

		params = append(params, param)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}

	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return params
}

// parseTypeName reads a type annotation into its source form:
// i32, Vec<i32>, [i32; 5], (i32, f64), std::path::PathBuf
func (p *Parser) parseTypeName() string {
	switch p.curToken.Type {
	case lexer.LBRACKET:
		p.nextToken()
		s := "[" + p.parseTypeName()
		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
			p.nextToken()
			s += "; " + p.curToken.Literal
		}
		if p.peekTokenIs(lexer.RBRACKET) {
			p.nextToken()
		}
		return s + "]"
	case lexer.LPAREN:
		parts := []string{}
		for !p.peekTokenIs(lexer.RPAREN) && !p.peekTokenIs(lexer.EOF) {
			p.nextToken()
			parts = append(parts, p.parseTypeName())
			if p.peekTokenIs(lexer.COMMA) {
				p.nextToken()
			}
		}
		if p.peekTokenIs(lexer.RPAREN) {
			p.nextToken()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		name := p.curToken.Literal
		for p.peekTokenIs(lexer.COLONCOLON) {
			p.nextToken()
			p.nextToken()
			name += "::" + p.curToken.Literal
		}
		if p.peekTokenIs(lexer.LT) {
			p.nextToken() // onto '<'
			name += "<"
			depth := 1
			first := true
			for depth > 0 && !p.peekTokenIs(lexer.EOF) {
				p.nextToken()
				switch p.curToken.Type {
				case lexer.LT:
					depth++
				case lexer.GT:
					depth--
				case lexer.SHR:
					depth -= 2
				}
				if depth <= 0 {
					break
				}
				if p.curTokenIs(lexer.COMMA) {
					name += ", "
					first = true
					continue
				}
				if !first {
					name += " "
				}
				name = strings.TrimSuffix(name, " ")
				name += p.curToken.Literal
				first = false
			}
			name += ">"
		}
		return name
	}
}

func (p *Parser) parseStructDeclaration() ast.Statement {
	stmt := &ast.StructDeclaration{Token: p.curToken}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Name = p.curToken.Literal

	if p.peekTokenIs(lexer.LT) {
		p.skipGenericParams()
	}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		field := &ast.StructField{Name: p.curToken.Literal}
		if !p.expectPeek(lexer.COLON) {
			return nil
		}
		p.nextToken()
		field.Type = p.parseTypeName()
		stmt.Fields = append(stmt.Fields, field)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}

	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return stmt
}

func (p *Parser) parseEnumDeclaration() ast.Statement {
	stmt := &ast.EnumDeclaration{Token: p.curToken}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Name = p.curToken.Literal

	if p.peekTokenIs(lexer.LT) {
		p.skipGenericParams()
	}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		variant := &ast.EnumVariant{Name: p.curToken.Literal}
		if p.peekTokenIs(lexer.LPAREN) {
			p.nextToken()
			for !p.peekTokenIs(lexer.RPAREN) && !p.peekTokenIs(lexer.EOF) {
				p.nextToken()
				variant.Fields = append(variant.Fields, p.parseTypeName())
				if p.peekTokenIs(lexer.COMMA) {
					p.nextToken()
				}
			}
			if !p.expectPeek(lexer.RPAREN) {
				return nil
			}
		}
		stmt.Variants = append(stmt.Variants, variant)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}

	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return stmt
}

func (p *Parser) parseTraitDeclaration() ast.Statement {
	stmt := &ast.TraitDeclaration{Token: p.curToken}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Name = p.curToken.Literal

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		if !p.expectPeek(lexer.FUN) {
			return nil
		}
		method := &ast.TraitMethod{}
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		method.Name = p.curToken.Literal
		if !p.expectPeek(lexer.LPAREN) {
			return nil
		}
		method.Params = p.parseFunctionParams()
		if p.peekTokenIs(lexer.ARROW) {
			p.nextToken()
			p.nextToken()
			method.ReturnType = p.parseTypeName()
		}
		if p.peekTokenIs(lexer.LBRACE) {
			p.nextToken()
			method.Body = p.parseBlockStatement()
		} else if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		stmt.Methods = append(stmt.Methods, method)
	}

	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return stmt
}

func (p *Parser) parseImplBlock() ast.Statement {
	stmt := &ast.ImplBlock{Token: p.curToken}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	first := p.curToken.Literal

	if p.peekTokenIs(lexer.FOR) {
		stmt.Trait = first
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		stmt.TypeName = p.curToken.Literal
	} else {
		stmt.TypeName = first
	}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		if !p.expectPeek(lexer.FUN) {
			return nil
		}
		method := p.parseFunctionCommon(false)
		if method == nil {
			return nil
		}
		stmt.Methods = append(stmt.Methods, method)
	}

	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return stmt
}

func (p *Parser) parseActorDeclaration() ast.Statement {
	stmt := &ast.ActorDeclaration{Token: p.curToken}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Name = p.curToken.Literal

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}

		// 'receive { Msg(args) => { body } }' groups handlers
		if p.curToken.Literal == "receive" && p.peekTokenIs(lexer.LBRACE) {
			p.nextToken()
			for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
				if !p.expectPeek(lexer.IDENT) {
					return nil
				}
				handler := p.parseActorHandler()
				if handler == nil {
					return nil
				}
				stmt.Handlers = append(stmt.Handlers, handler)
				if p.peekTokenIs(lexer.COMMA) {
					p.nextToken()
				}
			}
			if !p.expectPeek(lexer.RBRACE) {
				return nil
			}
			continue
		}

		switch p.peekToken.Type {
		case lexer.COLON:
			field := &ast.StructField{Name: p.curToken.Literal}
			p.nextToken()
			p.nextToken()
			field.Type = p.parseTypeName()
			stmt.State = append(stmt.State, field)
			if p.peekTokenIs(lexer.COMMA) || p.peekTokenIs(lexer.SEMICOLON) {
				p.nextToken()
			}
		case lexer.LPAREN:
			handler := p.parseActorHandler()
			if handler == nil {
				return nil
			}
			stmt.Handlers = append(stmt.Handlers, handler)
		default:
			p.addError(rerrors.ErrUnexpectedToken, p.peekToken.Line, p.peekToken.Column, map[string]any{
				"Token": p.peekToken.Literal,
			})
			return nil
		}
	}

	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return stmt
}

// parseActorHandler parses 'Message(params) => { body }' with curToken
// on the message name
func (p *Parser) parseActorHandler() *ast.ActorHandler {
	handler := &ast.ActorHandler{Message: p.curToken.Literal}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	handler.Params = p.parseFunctionParams()

	if p.peekTokenIs(lexer.FAT_ARROW) {
		p.nextToken()
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	handler.Body = p.parseBlockStatement()
	return handler
}

func (p *Parser) parseImportStatement() ast.Statement {
	stmt := &ast.ImportStatement{Token: p.curToken}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Path = []string{p.curToken.Literal}

	for p.peekTokenIs(lexer.COLONCOLON) {
		p.nextToken()
		switch p.peekToken.Type {
		case lexer.ASTERISK:
			p.nextToken()
			stmt.All = true
			return stmt
		case lexer.LBRACE:
			p.nextToken()
			for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
				if !p.expectPeek(lexer.IDENT) {
					return nil
				}
				item := ast.ImportItem{Name: p.curToken.Literal}
				if p.peekTokenIs(lexer.IDENT) && p.peekToken.Literal == "as" {
					p.nextToken()
					if !p.expectPeek(lexer.IDENT) {
						return nil
					}
					item.Alias = p.curToken.Literal
				}
				stmt.Items = append(stmt.Items, item)
				if p.peekTokenIs(lexer.COMMA) {
					p.nextToken()
				}
			}
			if !p.expectPeek(lexer.RBRACE) {
				return nil
			}
			return stmt
		default:
			if !p.expectPeek(lexer.IDENT) {
				return nil
			}
			stmt.Path = append(stmt.Path, p.curToken.Literal)
		}
	}

	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseExportStatement() ast.Statement {
	stmt := &ast.ExportStatement{Token: p.curToken}

	if p.peekTokenIs(lexer.LBRACE) {
		p.nextToken()
		for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
			if !p.expectPeek(lexer.IDENT) {
				return nil
			}
			stmt.Names = append(stmt.Names, p.curToken.Literal)
			if p.peekTokenIs(lexer.COMMA) {
				p.nextToken()
			}
		}
		if !p.expectPeek(lexer.RBRACE) {
			return nil
		}
		return stmt
	}

	p.nextToken()
	stmt.Decl = p.parseStatement()
	return stmt
}

func (p *Parser) parseMacroDefinition() ast.Statement {
	stmt := &ast.MacroDefinition{Token: p.curToken}

	if !p.expectPeek(lexer.BANG) {
		return nil
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Name = p.curToken.Literal

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		if !p.expectPeek(lexer.LPAREN) {
			return nil
		}
		rule := &ast.MacroRule{}
		rule.Matchers = p.parseMacroMatchers()

		if !p.expectPeek(lexer.FAT_ARROW) {
			return nil
		}
		if !p.expectPeek(lexer.LBRACE) {
			return nil
		}
		rule.Body = p.collectRawTokens(lexer.LBRACE, lexer.RBRACE)

		stmt.Rules = append(stmt.Rules, rule)
		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
		}
	}

	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return stmt
}

// parseMacroMatchers parses a macro rule's pattern with curToken on the
// opening '(' and leaves curToken on the matching ')'
func (p *Parser) parseMacroMatchers() []*ast.MacroMatcher {
	matchers := []*ast.MacroMatcher{}

	for {
		p.nextToken()
		if p.curTokenIs(lexer.RPAREN) {
			return matchers
		}
		if p.curTokenIs(lexer.EOF) {
			p.addError(rerrors.ErrUnexpectedEOF, p.curToken.Line, p.curToken.Column, map[string]any{
				"Expected": ")",
			})
			return matchers
		}

		if p.curTokenIs(lexer.DOLLAR) {
			if p.peekTokenIs(lexer.LPAREN) {
				// repetition group: $( ... ),*
				p.nextToken()
				m := &ast.MacroMatcher{Repetition: p.parseMacroMatchers()}
				if p.peekTokenIs(lexer.COMMA) || p.peekTokenIs(lexer.SEMICOLON) {
					p.nextToken()
					m.Separator = p.curToken.Literal
				}
				if p.peekTokenIs(lexer.ASTERISK) || p.peekTokenIs(lexer.PLUS) {
					p.nextToken()
					m.RepOp = p.curToken.Literal
				}
				matchers = append(matchers, m)
				continue
			}
			if !p.expectPeek(lexer.IDENT) {
				return matchers
			}
			m := &ast.MacroMatcher{MetaVar: p.curToken.Literal}
			if !p.expectPeek(lexer.COLON) {
				return matchers
			}
			if !p.expectPeek(lexer.IDENT) {
				return matchers
			}
			m.Fragment = p.curToken.Literal
			matchers = append(matchers, m)
			continue
		}

		tok := p.curToken
		matchers = append(matchers, &ast.MacroMatcher{Literal: &tok})
	}
}

// collectRawTokens gathers tokens until the balanced closing delimiter,
// leaving curToken on it
func (p *Parser) collectRawTokens(open, close lexer.TokenType) []lexer.Token {
	depth := 1
	toks := []lexer.Token{}

	for {
		p.nextToken()
		if p.curTokenIs(lexer.EOF) {
			p.addError(rerrors.ErrUnexpectedEOF, p.curToken.Line, p.curToken.Column, map[string]any{
				"Expected": close.String(),
			})
			return toks
		}
		if p.curTokenIs(open) {
			depth++
		}
		if p.curTokenIs(close) {
			depth--
			if depth == 0 {
				return toks
			}
		}
		toks = append(toks, p.curToken)
	}
}

// parseMacroInvocation parses 'name!(tokens)' with curToken on the name
func (p *Parser) parseMacroInvocation() ast.Expression {
	mi := &ast.MacroInvocation{Token: p.curToken, Name: p.curToken.Literal}

	p.nextToken() // onto '!'
	p.nextToken() // onto '(' or '['

	open := p.curToken.Type
	close := lexer.RPAREN
	if open == lexer.LBRACKET {
		close = lexer.RBRACKET
	}
	mi.Tokens = p.collectRawTokens(open, close)
	return mi
}
