package parser

import (
	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
)

// Precedence levels for operators
const (
	_ int = iota
	LOWEST
	ASSIGN      // = += -= ...
	ACTOR_OP    // <- <?
	PIPELINE    // |>
	TERNARY     // ?:
	RANGE_PREC  // .. ..=
	LOGIC_OR    // ||
	LOGIC_AND   // &&
	BIT_OR      // |
	BIT_XOR     // ^
	BIT_AND     // &
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	SHIFT       // << >>
	SUM         // + -
	PRODUCT     // * / %
	POWER       // **
	PREFIX      // -x !x ~x &x
	POSTFIX     // x? x++ x--
	INDEX       // array[index], a.b
	CALL        // f(x)
)

// precedences maps tokens to their precedence
var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:         ASSIGN,
	lexer.PLUS_ASSIGN:    ASSIGN,
	lexer.MINUS_ASSIGN:   ASSIGN,
	lexer.STAR_ASSIGN:    ASSIGN,
	lexer.SLASH_ASSIGN:   ASSIGN,
	lexer.PERCENT_ASSIGN: ASSIGN,
	lexer.AMP_ASSIGN:     ASSIGN,
	lexer.PIPE_ASSIGN:    ASSIGN,
	lexer.CARET_ASSIGN:   ASSIGN,
	lexer.SHL_ASSIGN:     ASSIGN,
	lexer.SHR_ASSIGN:     ASSIGN,
	lexer.SEND:           ACTOR_OP,
	lexer.ASK:            ACTOR_OP,
	lexer.PIPELINE:       PIPELINE,
	lexer.QUESTION:       TERNARY,
	lexer.RANGE:          RANGE_PREC,
	lexer.RANGE_INCL:     RANGE_PREC,
	lexer.OR:             LOGIC_OR,
	lexer.AND:            LOGIC_AND,
	lexer.PIPE:           BIT_OR,
	lexer.CARET:          BIT_XOR,
	lexer.AMPERSAND:      BIT_AND,
	lexer.EQ:             EQUALS,
	lexer.NOT_EQ:         EQUALS,
	lexer.LT:             LESSGREATER,
	lexer.GT:             LESSGREATER,
	lexer.LTE:            LESSGREATER,
	lexer.GTE:            LESSGREATER,
	lexer.SHL:            SHIFT,
	lexer.SHR:            SHIFT,
	lexer.PLUS:           SUM,
	lexer.MINUS:          SUM,
	lexer.ASTERISK:       PRODUCT,
	lexer.SLASH:          PRODUCT,
	lexer.PERCENT:        PRODUCT,
	lexer.POWER:          POWER,
	lexer.INCREMENT:      POSTFIX,
	lexer.DECREMENT:      POSTFIX,
	lexer.LBRACKET:       INDEX,
	lexer.DOT:            INDEX,
	lexer.SAFE_NAV:       INDEX,
	lexer.LPAREN:         CALL,
}

// rightAssociative marks operators that bind tighter to the right
var rightAssociative = map[lexer.TokenType]bool{
	lexer.ASSIGN:         true,
	lexer.PLUS_ASSIGN:    true,
	lexer.MINUS_ASSIGN:   true,
	lexer.STAR_ASSIGN:    true,
	lexer.SLASH_ASSIGN:   true,
	lexer.PERCENT_ASSIGN: true,
	lexer.AMP_ASSIGN:     true,
	lexer.PIPE_ASSIGN:    true,
	lexer.CARET_ASSIGN:   true,
	lexer.SHL_ASSIGN:     true,
	lexer.SHR_ASSIGN:     true,
	lexer.POWER:          true,
}

// Parser represents the parser
type Parser struct {
	l *lexer.Lexer

	structuredErrors []*rerrors.RuchyError

	prevToken lexer.Token
	curToken  lexer.Token
	peekToken lexer.Token

	// struct literals are forbidden while parsing if/while/for/match
	// heads so that 'if x {' reads the brace as a block
	noStructLiteral bool

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// New creates a new parser instance
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l: l,
	}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.INT, p.parseIntegerLiteral)
	p.registerPrefix(lexer.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.RAWSTRING, p.parseRawStringLiteral)
	p.registerPrefix(lexer.FSTRING, p.parseFStringLiteral)
	p.registerPrefix(lexer.CHAR, p.parseCharLiteral)
	p.registerPrefix(lexer.BYTE_LIT, p.parseByteLiteral)
	p.registerPrefix(lexer.COMMAND, p.parseCommandLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.NULL, p.parseNullLiteral)
	p.registerPrefix(lexer.BANG, p.parsePrefixExpression)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpression)
	p.registerPrefix(lexer.TILDE, p.parsePrefixExpression)
	p.registerPrefix(lexer.AMPERSAND, p.parsePrefixExpression)
	p.registerPrefix(lexer.INCREMENT, p.parseIncDecPrefix)
	p.registerPrefix(lexer.DECREMENT, p.parseIncDecPrefix)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedOrTuple)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseBlockOrObjectLiteral)
	p.registerPrefix(lexer.IF, p.parseIfExpression)
	p.registerPrefix(lexer.MATCH, p.parseMatchExpression)
	p.registerPrefix(lexer.FOR, p.parseForExpression)
	p.registerPrefix(lexer.WHILE, p.parseWhileExpression)
	p.registerPrefix(lexer.LOOP, p.parseLoopExpression)
	p.registerPrefix(lexer.TRY, p.parseTryCatchExpression)
	p.registerPrefix(lexer.THROW, p.parseThrowExpression)
	p.registerPrefix(lexer.FUN, p.parseFunctionLiteral)
	p.registerPrefix(lexer.PIPE, p.parseLambdaLiteral)
	p.registerPrefix(lexer.OR, p.parseEmptyParamLambda)
	p.registerPrefix(lexer.ASYNC, p.parseAsyncExpression)
	p.registerPrefix(lexer.AWAIT, p.parseAwaitExpression)
	p.registerPrefix(lexer.SPAWN, p.parseSpawnExpression)
	p.registerPrefix(lexer.LET, p.parseLetExpression)
	p.registerPrefix(lexer.BREAK, p.parseBreakExpression)
	p.registerPrefix(lexer.CONTINUE, p.parseContinueExpression)
	p.registerPrefix(lexer.RETURN, p.parseReturnExpression)
	p.registerPrefix(lexer.DF, p.parseDataFrameLiteral)

	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	for _, tt := range []lexer.TokenType{
		lexer.PLUS, lexer.MINUS, lexer.ASTERISK, lexer.SLASH,
		lexer.PERCENT, lexer.POWER, lexer.EQ, lexer.NOT_EQ,
		lexer.LT, lexer.GT, lexer.LTE, lexer.GTE,
		lexer.AND, lexer.OR, lexer.AMPERSAND, lexer.PIPE,
		lexer.CARET, lexer.SHL, lexer.SHR,
	} {
		p.registerInfix(tt, p.parseInfixExpression)
	}
	p.registerInfix(lexer.ASSIGN, p.parseAssignExpression)
	for _, tt := range []lexer.TokenType{
		lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN, lexer.STAR_ASSIGN,
		lexer.SLASH_ASSIGN, lexer.PERCENT_ASSIGN, lexer.AMP_ASSIGN,
		lexer.PIPE_ASSIGN, lexer.CARET_ASSIGN, lexer.SHL_ASSIGN,
		lexer.SHR_ASSIGN,
	} {
		p.registerInfix(tt, p.parseCompoundAssignExpression)
	}
	p.registerInfix(lexer.RANGE, p.parseRangeExpression)
	p.registerInfix(lexer.RANGE_INCL, p.parseRangeExpression)
	p.registerInfix(lexer.PIPELINE, p.parsePipelineExpression)
	p.registerInfix(lexer.QUESTION, p.parseQuestionExpression)
	p.registerInfix(lexer.LPAREN, p.parseCallExpression)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpression)
	p.registerInfix(lexer.DOT, p.parseDotExpression)
	p.registerInfix(lexer.SAFE_NAV, p.parseSafeNavExpression)
	p.registerInfix(lexer.SEND, p.parseSendExpression)
	p.registerInfix(lexer.ASK, p.parseAskExpression)
	p.registerInfix(lexer.INCREMENT, p.parseIncDecPostfix)
	p.registerInfix(lexer.DECREMENT, p.parseIncDecPostfix)

	// Read two tokens so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// Errors returns parser errors as formatted strings
func (p *Parser) Errors() []string {
	result := make([]string, len(p.structuredErrors))
	for i, err := range p.structuredErrors {
		result[i] = err.String()
	}
	return result
}

// StructuredErrors returns parser errors as structured RuchyError objects.
func (p *Parser) StructuredErrors() []*rerrors.RuchyError {
	return p.structuredErrors
}

// addError adds a structured error from the catalog.
// Only the first error is recorded - subsequent errors are usually cascading noise.
func (p *Parser) addError(code string, line, column int, data map[string]any) {
	if len(p.structuredErrors) > 0 {
		return
	}
	p.structuredErrors = append(p.structuredErrors, rerrors.NewWithPosition(code, line, column, data))
}

func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// nextToken advances prevToken, curToken, and peekToken
func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// parserState captures the token window and error count so speculative
// parses can be rolled back.
type parserState struct {
	lexState  lexer.LexerState
	prevToken lexer.Token
	curToken  lexer.Token
	peekToken lexer.Token
	numErrors int
}

func (p *Parser) saveState() parserState {
	return parserState{
		lexState:  p.l.SaveState(),
		prevToken: p.prevToken,
		curToken:  p.curToken,
		peekToken: p.peekToken,
		numErrors: len(p.structuredErrors),
	}
}

func (p *Parser) restoreState(s parserState) {
	p.l.RestoreState(s.lexState)
	p.prevToken = s.prevToken
	p.curToken = s.curToken
	p.peekToken = s.peekToken
	p.structuredErrors = p.structuredErrors[:s.numErrors]
}

// ParseProgram parses the program and returns the AST
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	for !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		if len(p.structuredErrors) > 0 {
			p.synchronize()
		}
		p.nextToken()
	}

	// Lexer diagnostics take priority: a parse error after a lex error
	// is usually a symptom, not the cause
	if diags := p.l.Diagnostics(); len(diags) > 0 {
		p.structuredErrors = append(diags, p.structuredErrors...)
	}

	return program
}

// synchronize skips tokens until a likely statement boundary so a single
// mistake does not cascade
func (p *Parser) synchronize() {
	for !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.SEMICOLON) || p.curTokenIs(lexer.RBRACE) {
			return
		}
		switch p.peekToken.Type {
		case lexer.FUN, lexer.LET, lexer.VAR, lexer.STRUCT, lexer.ENUM,
			lexer.TRAIT, lexer.IMPL, lexer.ACTOR, lexer.IMPORT:
			return
		}
		p.nextToken()
	}
}

// parseStatement parses statements
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.LET, lexer.VAR:
		return p.parseLetStatement()
	case lexer.FUN:
		return p.parseFunctionStatement(false)
	case lexer.ASYNC:
		if p.peekTokenIs(lexer.FUN) {
			p.nextToken()
			return p.parseFunctionStatement(true)
		}
		return p.parseExpressionStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.BREAK:
		return p.parseBreakStatement()
	case lexer.CONTINUE:
		return &ast.ContinueStatement{Token: p.curToken}
	case lexer.STRUCT:
		return p.parseStructDeclaration()
	case lexer.ENUM:
		return p.parseEnumDeclaration()
	case lexer.TRAIT:
		return p.parseTraitDeclaration()
	case lexer.IMPL:
		return p.parseImplBlock()
	case lexer.ACTOR:
		return p.parseActorDeclaration()
	case lexer.IMPORT:
		return p.parseImportStatement()
	case lexer.EXPORT:
		return p.parseExportStatement()
	case lexer.MACRO:
		return p.parseMacroDefinition()
	case lexer.SEMICOLON:
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	if p.peekTokenIs(lexer.SEMICOLON) || p.peekTokenIs(lexer.RBRACE) || p.peekTokenIs(lexer.EOF) {
		return stmt
	}

	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)

	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	stmt := &ast.BreakStatement{Token: p.curToken}

	if p.peekTokenIs(lexer.SEMICOLON) || p.peekTokenIs(lexer.RBRACE) || p.peekTokenIs(lexer.EOF) {
		return stmt
	}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}

	stmt.Expression = p.parseExpression(LOWEST)

	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

// parseExpression drives Pratt parsing at the given binding power
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}

	leftExp := prefix()

	for !p.peekTokenIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
	}

	return leftExp
}

// parseLoopHeadExpression parses the scrutinee or condition of
// if/while/for/match, with struct literals disabled so the body's '{'
// terminates the head
func (p *Parser) parseLoopHeadExpression() ast.Expression {
	outer := p.noStructLiteral
	p.noStructLiteral = true
	expr := p.parseExpression(LOWEST)
	p.noStructLiteral = outer
	return expr
}

func (p *Parser) noPrefixParseFnError(tok lexer.Token) {
	p.addError(rerrors.ErrUnexpectedToken, tok.Line, tok.Column, map[string]any{
		"Token": tok.Literal,
	})
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

// peekNTokenIs looks n tokens ahead: n=1 is peekToken, n=2 is the token
// after it
func (p *Parser) peekNTokenIs(n int, t lexer.TokenType) bool {
	switch n {
	case 0:
		return p.curTokenIs(t)
	case 1:
		return p.peekTokenIs(t)
	case 2:
		return p.l.PeekToken().Type == t
	}
	return false
}

// expectPeek advances if the next token matches, otherwise records an
// error
func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t lexer.TokenType) {
	p.addError(rerrors.ErrExpectedToken, p.peekToken.Line, p.peekToken.Column, map[string]any{
		"Expected": t.String(),
		"Got":      p.peekToken.Literal,
	})
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// rightPrecedence returns the binding power for the right operand of the
// current operator, honoring right associativity
func (p *Parser) rightPrecedence() int {
	prec := p.curPrecedence()
	if rightAssociative[p.curToken.Type] {
		return prec - 1
	}
	return prec
}

// parseBlockStatement parses '{ stmt; stmt }' with curToken on '{'
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	block.Statements = []ast.Statement{}

	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}

	if p.curTokenIs(lexer.EOF) {
		p.addError(rerrors.ErrUnexpectedEOF, p.curToken.Line, p.curToken.Column, map[string]any{
			"Expected": "}",
		})
	}

	return block
}
