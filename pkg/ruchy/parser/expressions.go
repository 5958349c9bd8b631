package parser

import (
	"strconv"
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
)

func (p *Parser) parseIdentifier() ast.Expression {
	// name!(...) is a macro invocation
	if p.peekTokenIs(lexer.BANG) && (p.peekNTokenIs(2, lexer.LPAREN) || p.peekNTokenIs(2, lexer.LBRACKET)) {
		return p.parseMacroInvocation()
	}

	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	// Ordering::Less style paths
	if p.peekTokenIs(lexer.COLONCOLON) && p.peekNTokenIs(2, lexer.IDENT) {
		qn := &ast.QualifiedName{Token: p.curToken, Parts: []string{p.curToken.Literal}}
		for p.peekTokenIs(lexer.COLONCOLON) && p.peekNTokenIs(2, lexer.IDENT) {
			p.nextToken()
			p.nextToken()
			qn.Parts = append(qn.Parts, p.curToken.Literal)
		}
		return qn
	}

	if p.peekTokenIs(lexer.LBRACE) && !p.noStructLiteral && isTypeName(ident.Value) && p.looksLikeStructLiteral() {
		return p.parseStructLiteral(ident)
	}

	return ident
}

// isTypeName reports whether an identifier is capitalized like a type
func isTypeName(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// looksLikeStructLiteral peeks past the '{' to rule out blocks following
// a bare identifier
func (p *Parser) looksLikeStructLiteral() bool {
	after := p.l.PeekToken()
	if after.Type == lexer.RBRACE || after.Type == lexer.RANGE {
		return true
	}
	return after.Type == lexer.IDENT
}

func (p *Parser) parseStructLiteral(name *ast.Identifier) ast.Expression {
	lit := &ast.StructLiteral{Token: name.Token, Name: name.Value}

	p.nextToken() // onto '{'

	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		if p.peekTokenIs(lexer.RANGE) {
			p.nextToken()
			p.nextToken()
			lit.Base = p.parseExpression(LOWEST)
			break
		}
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		field := ast.StructLiteralField{Name: p.curToken.Literal}
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			field.Value = p.parseExpression(LOWEST)
		} else {
			// shorthand: Point { x, y }
			field.Value = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		}
		lit.Fields = append(lit.Fields, field)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}

	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return lit
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken, Suffix: p.curToken.Suffix}

	value, err := strconv.ParseInt(p.curToken.Literal, 0, 64)
	if err != nil {
		p.addError(rerrors.ErrInvalidNumber, p.curToken.Line, p.curToken.Column, map[string]any{
			"Literal": p.curToken.Literal,
		})
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	lit := &ast.FloatLiteral{Token: p.curToken}

	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError(rerrors.ErrInvalidNumber, p.curToken.Line, p.curToken.Column, map[string]any{
			"Literal": p.curToken.Literal,
		})
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseRawStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal, Raw: true}
}

func (p *Parser) parseCharLiteral() ast.Expression {
	lit := &ast.CharLiteral{Token: p.curToken}
	for _, r := range p.curToken.Literal {
		lit.Value = r
		break
	}
	return lit
}

func (p *Parser) parseByteLiteral() ast.Expression {
	lit := &ast.ByteLiteral{Token: p.curToken}
	if len(p.curToken.Literal) > 0 {
		lit.Value = p.curToken.Literal[0]
	}
	return lit
}

func (p *Parser) parseCommandLiteral() ast.Expression {
	return &ast.CommandLiteral{Token: p.curToken, Command: p.curToken.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(lexer.TRUE)}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken}
}

// parseFStringLiteral splits an interpolated string into text segments
// and expression holes, sub-parsing each hole. '{{' and '}}' escape
// literal braces.
func (p *Parser) parseFStringLiteral() ast.Expression {
	tok := p.curToken
	lit := &ast.FStringLiteral{Token: tok}
	body := tok.Literal

	var text strings.Builder
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '{':
			if i+1 < len(body) && body[i+1] == '{' {
				text.WriteByte('{')
				i++
				continue
			}
			depth := 1
			j := i + 1
			for j < len(body) && depth > 0 {
				switch body[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				j++
			}
			if depth != 0 {
				p.addError(rerrors.ErrUnterminated, tok.Line, tok.Column, map[string]any{
					"Kind": "interpolation",
				})
				return lit
			}
			if text.Len() > 0 {
				lit.Parts = append(lit.Parts, ast.FStringPart{Text: text.String()})
				text.Reset()
			}
			expr := p.parseSubExpression(body[i+1:j-1], tok)
			if expr != nil {
				lit.Parts = append(lit.Parts, ast.FStringPart{IsExpr: true, Expr: expr})
			}
			i = j - 1
		case '}':
			if i+1 < len(body) && body[i+1] == '}' {
				text.WriteByte('}')
				i++
				continue
			}
			text.WriteByte('}')
		default:
			text.WriteByte(body[i])
		}
	}
	if text.Len() > 0 {
		lit.Parts = append(lit.Parts, ast.FStringPart{Text: text.String()})
	}
	return lit
}

// parseSubExpression parses an isolated expression source fragment,
// folding its errors into this parser
func (p *Parser) parseSubExpression(src string, at lexer.Token) ast.Expression {
	sub := New(lexer.New(src))
	expr := sub.parseExpression(LOWEST)
	for _, err := range sub.structuredErrors {
		if len(p.structuredErrors) == 0 {
			p.structuredErrors = append(p.structuredErrors, err.WithPosition(at.Line, at.Column))
		}
	}
	return expr
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}

	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Literal,
	}

	precedence := p.rightPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

// isAssignableExpression reports whether an expression can be the target
// of an assignment
func (p *Parser) isAssignableExpression(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.Identifier, *ast.IndexExpression, *ast.FieldAccessExpression:
		return true
	}
	return false
}

func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	if !p.isAssignableExpression(left) {
		p.addError(rerrors.ErrUnexpectedToken, p.curToken.Line, p.curToken.Column, map[string]any{
			"Token": "=",
		})
		return nil
	}

	expr := &ast.AssignExpression{Token: p.curToken, Target: left}

	precedence := p.rightPrecedence()
	p.nextToken()
	expr.Value = p.parseExpression(precedence)
	return expr
}

func (p *Parser) parseCompoundAssignExpression(left ast.Expression) ast.Expression {
	if !p.isAssignableExpression(left) {
		p.addError(rerrors.ErrUnexpectedToken, p.curToken.Line, p.curToken.Column, map[string]any{
			"Token": p.curToken.Literal,
		})
		return nil
	}

	expr := &ast.CompoundAssignExpression{
		Token:    p.curToken,
		Target:   left,
		Operator: strings.TrimSuffix(p.curToken.Literal, "="),
	}

	precedence := p.rightPrecedence()
	p.nextToken()
	expr.Value = p.parseExpression(precedence)
	return expr
}

func (p *Parser) parseIncDecPrefix() ast.Expression {
	expr := &ast.IncDecExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		IsPrefix: true,
	}
	p.nextToken()
	expr.Target = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parseIncDecPostfix(left ast.Expression) ast.Expression {
	return &ast.IncDecExpression{
		Token:     p.curToken,
		Operator:  p.curToken.Literal,
		Target:    left,
		IsPostfix: true,
	}
}

// parseGroupedOrTuple parses '()', '(expr)', and '(a, b, c)'
func (p *Parser) parseGroupedOrTuple() ast.Expression {
	tok := p.curToken

	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return &ast.UnitLiteral{Token: tok}
	}

	// struct literals are fine again inside parens
	outer := p.noStructLiteral
	p.noStructLiteral = false
	defer func() { p.noStructLiteral = outer }()

	p.nextToken()
	first := p.parseExpression(LOWEST)

	if p.peekTokenIs(lexer.COMMA) {
		tuple := &ast.TupleLiteral{Token: tok, Elements: []ast.Expression{first}}
		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			if p.peekTokenIs(lexer.RPAREN) {
				break
			}
			p.nextToken()
			tuple.Elements = append(tuple.Elements, p.parseExpression(LOWEST))
		}
		if !p.expectPeek(lexer.RPAREN) {
			return nil
		}
		return tuple
	}

	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return &ast.GroupedExpression{Token: tok, Inner: first}
}

// parseArrayLiteral parses '[1, 2, 3]' and repeat form '[0; 10]'
func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.curToken

	if p.peekTokenIs(lexer.RBRACKET) {
		p.nextToken()
		return &ast.ArrayLiteral{Token: tok, Elements: []ast.Expression{}}
	}

	outer := p.noStructLiteral
	p.noStructLiteral = false
	defer func() { p.noStructLiteral = outer }()

	p.nextToken()
	first := p.parseExpression(LOWEST)

	if p.peekTokenIs(lexer.SEMICOLON) {
		init := &ast.ArrayInitExpression{Token: tok, Value: first}
		p.nextToken()
		p.nextToken()
		init.Size = p.parseExpression(LOWEST)
		if !p.expectPeek(lexer.RBRACKET) {
			return nil
		}
		return init
	}

	arr := &ast.ArrayLiteral{Token: tok, Elements: []ast.Expression{first}}
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		if p.peekTokenIs(lexer.RBRACKET) {
			break
		}
		p.nextToken()
		arr.Elements = append(arr.Elements, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return arr
}

// parseBlockOrObjectLiteral decides between a block expression and an
// object literal: '{ key: value }' needs an identifier or string key
// directly followed by ':'
func (p *Parser) parseBlockOrObjectLiteral() ast.Expression {
	if (p.peekTokenIs(lexer.IDENT) || p.peekTokenIs(lexer.STRING)) && p.l.PeekToken().Type == lexer.COLON {
		return p.parseObjectLiteral()
	}
	return p.parseBlockStatement()
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	obj := &ast.ObjectLiteral{Token: p.curToken}

	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		key := p.curToken.Literal
		if !p.expectPeek(lexer.COLON) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		obj.Pairs = append(obj.Pairs, ast.ObjectPair{Key: key, Value: value})
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}

	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return obj
}

func (p *Parser) parseIfExpression() ast.Expression {
	expr := &ast.IfExpression{Token: p.curToken}

	p.nextToken()
	expr.Condition = p.parseLoopHeadExpression()

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	expr.Consequence = p.parseBlockStatement()

	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		if p.peekTokenIs(lexer.IF) {
			p.nextToken()
			expr.Alternative = p.parseIfExpression()
		} else {
			if !p.expectPeek(lexer.LBRACE) {
				return nil
			}
			expr.Alternative = p.parseBlockStatement()
		}
	}

	return expr
}

func (p *Parser) parseMatchExpression() ast.Expression {
	expr := &ast.MatchExpression{Token: p.curToken}

	p.nextToken()
	expr.Expr = p.parseLoopHeadExpression()

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
		arm := &ast.MatchArm{}
		arm.Pattern = p.parsePattern()
		if arm.Pattern == nil {
			return nil
		}

		if p.peekTokenIs(lexer.IF) {
			p.nextToken()
			p.nextToken()
			arm.Guard = p.parseExpression(LOWEST)
		}

		if !p.expectPeek(lexer.FAT_ARROW) {
			return nil
		}
		p.nextToken()
		arm.Body = p.parseExpression(LOWEST)

		expr.Arms = append(expr.Arms, arm)

		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}

	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}

	if len(expr.Arms) == 0 {
		p.addError(rerrors.ErrEmptyMatch, expr.Token.Line, expr.Token.Column, nil)
		return nil
	}

	return expr
}

func (p *Parser) parseForExpression() ast.Expression {
	expr := &ast.ForExpression{Token: p.curToken}

	p.nextToken()
	expr.Pattern = p.parsePattern()
	if expr.Pattern == nil {
		return nil
	}

	if !p.expectPeek(lexer.IN) {
		return nil
	}

	p.nextToken()
	expr.Iter = p.parseLoopHeadExpression()

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	expr.Body = p.parseBlockStatement()

	return expr
}

func (p *Parser) parseWhileExpression() ast.Expression {
	expr := &ast.WhileExpression{Token: p.curToken}

	p.nextToken()
	expr.Condition = p.parseLoopHeadExpression()

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	expr.Body = p.parseBlockStatement()

	return expr
}

func (p *Parser) parseLoopExpression() ast.Expression {
	expr := &ast.LoopExpression{Token: p.curToken}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	expr.Body = p.parseBlockStatement()

	return expr
}

func (p *Parser) parseThrowExpression() ast.Expression {
	expr := &ast.ThrowExpression{Token: p.curToken}
	p.nextToken()
	expr.Value = p.parseExpression(LOWEST)
	return expr
}

func (p *Parser) parseTryCatchExpression() ast.Expression {
	expr := &ast.TryCatchExpression{Token: p.curToken}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	expr.Try = p.parseBlockStatement()

	for p.peekTokenIs(lexer.CATCH) {
		p.nextToken()
		clause := &ast.CatchClause{}

		if p.peekTokenIs(lexer.LPAREN) {
			p.nextToken()
			p.nextToken()
			if p.curTokenIs(lexer.IDENT) && p.peekTokenIs(lexer.RPAREN) {
				clause.Param = p.curToken.Literal
			} else {
				clause.Pattern = p.parsePattern()
			}
			if !p.expectPeek(lexer.RPAREN) {
				return nil
			}
		} else if p.peekTokenIs(lexer.IDENT) {
			p.nextToken()
			clause.Param = p.curToken.Literal
		}

		if !p.expectPeek(lexer.LBRACE) {
			return nil
		}
		clause.Body = p.parseBlockStatement()
		expr.Catches = append(expr.Catches, clause)
	}

	if p.peekTokenIs(lexer.FINALLY) {
		p.nextToken()
		if !p.expectPeek(lexer.LBRACE) {
			return nil
		}
		expr.Finally = p.parseBlockStatement()
	}

	return expr
}

func (p *Parser) parseLambdaLiteral() ast.Expression {
	lambda := &ast.LambdaLiteral{Token: p.curToken}

	for !p.peekTokenIs(lexer.PIPE) && !p.peekTokenIs(lexer.EOF) {
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		param := &ast.Param{Name: p.curToken.Literal}
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			param.Type = p.parseTypeName()
		}
		lambda.Params = append(lambda.Params, param)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}

	if !p.expectPeek(lexer.PIPE) {
		return nil
	}

	p.nextToken()
	lambda.Body = p.parseExpression(LOWEST)
	return lambda
}

// parseEmptyParamLambda handles '|| body', which the lexer reads as OR
func (p *Parser) parseEmptyParamLambda() ast.Expression {
	lambda := &ast.LambdaLiteral{Token: p.curToken, Params: []*ast.Param{}}
	p.nextToken()
	lambda.Body = p.parseExpression(LOWEST)
	return lambda
}

func (p *Parser) parseAsyncExpression() ast.Expression {
	tok := p.curToken

	switch p.peekToken.Type {
	case lexer.LBRACE:
		p.nextToken()
		return &ast.AsyncBlockExpression{Token: tok, Body: p.parseBlockStatement()}
	case lexer.FUN:
		p.nextToken()
		return p.parseFunctionCommon(true)
	case lexer.PIPE:
		p.nextToken()
		if lambda, ok := p.parseLambdaLiteral().(*ast.LambdaLiteral); ok {
			lambda.IsAsync = true
			return lambda
		}
		return nil
	case lexer.OR:
		p.nextToken()
		if lambda, ok := p.parseEmptyParamLambda().(*ast.LambdaLiteral); ok {
			lambda.IsAsync = true
			return lambda
		}
		return nil
	default:
		p.addError(rerrors.ErrUnexpectedToken, p.peekToken.Line, p.peekToken.Column, map[string]any{
			"Token": p.peekToken.Literal,
		})
		return nil
	}
}

func (p *Parser) parseAwaitExpression() ast.Expression {
	expr := &ast.AwaitExpression{Token: p.curToken}
	p.nextToken()
	expr.Value = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parseSpawnExpression() ast.Expression {
	expr := &ast.SpawnExpression{Token: p.curToken}
	p.nextToken()
	if p.curTokenIs(lexer.LBRACE) {
		expr.Value = p.parseBlockStatement()
		return expr
	}
	expr.Value = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parseLetExpression() ast.Expression {
	stmt := p.parseLetStatement()
	if let, ok := stmt.(*ast.LetStatement); ok {
		return let
	}
	return nil
}

func (p *Parser) parseBreakExpression() ast.Expression {
	return p.parseBreakStatement()
}

func (p *Parser) parseContinueExpression() ast.Expression {
	return &ast.ContinueStatement{Token: p.curToken}
}

func (p *Parser) parseReturnExpression() ast.Expression {
	return p.parseReturnStatement()
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	expr := &ast.CallExpression{Token: p.curToken, Function: function}
	expr.Arguments = p.parseExpressionList(lexer.RPAREN)
	return expr
}

// parseExpressionList parses a comma-separated expression list ending at
// the given token, with curToken on the opening delimiter
func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	list := []ast.Expression{}

	outer := p.noStructLiteral
	p.noStructLiteral = false
	defer func() { p.noStructLiteral = outer }()

	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))

	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		if p.peekTokenIs(end) {
			break
		}
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	expr := &ast.IndexExpression{Token: p.curToken, Left: left}

	outer := p.noStructLiteral
	p.noStructLiteral = false
	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	p.noStructLiteral = outer

	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return expr
}

// parseDotExpression handles field access, method calls, tuple indexing
// (t.0), and postfix '.await'
func (p *Parser) parseDotExpression(left ast.Expression) ast.Expression {
	tok := p.curToken

	switch p.peekToken.Type {
	case lexer.AWAIT:
		p.nextToken()
		return &ast.AwaitExpression{Token: p.curToken, Value: left}
	case lexer.INT:
		p.nextToken()
		return &ast.FieldAccessExpression{Token: tok, Object: left, Field: p.curToken.Literal}
	case lexer.IDENT:
		p.nextToken()
		name := p.curToken.Literal
		if p.peekTokenIs(lexer.LPAREN) {
			p.nextToken()
			call := &ast.MethodCallExpression{Token: tok, Receiver: left, Method: name}
			call.Arguments = p.parseExpressionList(lexer.RPAREN)
			return call
		}
		return &ast.FieldAccessExpression{Token: tok, Object: left, Field: name}
	default:
		p.addError(rerrors.ErrExpectedToken, p.peekToken.Line, p.peekToken.Column, map[string]any{
			"Expected": "IDENT",
			"Got":      p.peekToken.Literal,
		})
		return nil
	}
}

func (p *Parser) parseSafeNavExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	return &ast.FieldAccessExpression{
		Token:    tok,
		Object:   left,
		Field:    p.curToken.Literal,
		Optional: true,
	}
}

func (p *Parser) parseRangeExpression(left ast.Expression) ast.Expression {
	expr := &ast.RangeExpression{
		Token:     p.curToken,
		Start:     left,
		Inclusive: p.curTokenIs(lexer.RANGE_INCL),
	}

	p.nextToken()
	expr.End = p.parseExpression(RANGE_PREC)
	return expr
}

func (p *Parser) parsePipelineExpression(left ast.Expression) ast.Expression {
	expr := &ast.PipelineExpression{Token: p.curToken, Left: left}

	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

// parseQuestionExpression disambiguates 'cond ? a : b' from postfix '?'
// error propagation by trying the ternary form and rolling back
func (p *Parser) parseQuestionExpression(left ast.Expression) ast.Expression {
	tok := p.curToken

	state := p.saveState()
	p.nextToken()
	thenExpr := p.parseExpression(LOWEST)
	if thenExpr == nil || len(p.structuredErrors) > state.numErrors || !p.peekTokenIs(lexer.COLON) {
		p.restoreState(state)
		return &ast.PostfixExpression{Token: tok, Operator: "?", Left: left}
	}

	p.nextToken() // onto ':'
	p.nextToken()
	elseExpr := p.parseExpression(TERNARY - 1)

	return &ast.TernaryExpression{Token: tok, Condition: left, Then: thenExpr, Else: elseExpr}
}

func (p *Parser) parseSendExpression(left ast.Expression) ast.Expression {
	expr := &ast.SendExpression{Token: p.curToken, Actor: left}
	p.nextToken()
	expr.Message = p.parseExpression(ACTOR_OP)
	return expr
}

func (p *Parser) parseAskExpression(left ast.Expression) ast.Expression {
	expr := &ast.AskExpression{Token: p.curToken, Actor: left}
	p.nextToken()
	expr.Message = p.parseExpression(ACTOR_OP)
	return expr
}

// parseDataFrameLiteral parses 'df![name: [1, 2], age: [3, 4]]'
func (p *Parser) parseDataFrameLiteral() ast.Expression {
	lit := &ast.DataFrameLiteral{Token: p.curToken}

	if !p.expectPeek(lexer.BANG) {
		return nil
	}
	if !p.expectPeek(lexer.LBRACKET) {
		return nil
	}

	for !p.peekTokenIs(lexer.RBRACKET) && !p.peekTokenIs(lexer.EOF) {
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		col := ast.DataFrameColumn{Name: p.curToken.Literal}
		if !p.expectPeek(lexer.COLON) {
			return nil
		}
		if !p.expectPeek(lexer.LBRACKET) {
			return nil
		}
		values := p.parseExpressionList(lexer.RBRACKET)
		col.Values = values
		lit.Columns = append(lit.Columns, col)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		}
	}

	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return lit
}
