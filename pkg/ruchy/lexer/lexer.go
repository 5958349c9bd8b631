package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
)

// Lexer represents the lexical analyzer
type Lexer struct {
	filename     string
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination (first byte)
	chRune       rune // current character as a rune (for Unicode support)
	chSize       int  // byte size of current character (1 for ASCII, 1-4 for UTF-8)
	line         int  // current line number
	column       int  // current column number

	diagnostics []*errors.RuchyError // lexical errors (unknown bytes, unterminated literals)

	pendingComments        []string
	pendingTrailingComment string
}

// New creates a new lexer instance
func New(input string) *Lexer {
	l := &Lexer{
		filename: "<input>",
		input:    input,
		line:     1,
		column:   0,
	}
	l.readChar()
	return l
}

// NewWithFilename creates a new lexer instance with a specific filename
func NewWithFilename(input string, filename string) *Lexer {
	l := New(input)
	l.filename = filename
	return l
}

// Diagnostics returns the lexical errors collected so far.
func (l *Lexer) Diagnostics() []*errors.RuchyError {
	return l.diagnostics
}

func (l *Lexer) addError(code string, data map[string]any) {
	err := errors.NewWithPosition(code, l.line, l.column, data)
	err.File = l.filename
	l.diagnostics = append(l.diagnostics, err)
}

// LexerState holds the state of a lexer for save/restore
type LexerState struct {
	position               int
	readPosition           int
	ch                     byte
	chRune                 rune
	chSize                 int
	line                   int
	column                 int
	diagnosticCount        int
	pendingComments        []string
	pendingTrailingComment string
}

// SaveState saves the current lexer state for potential restoration
func (l *Lexer) SaveState() LexerState {
	commentsCopy := make([]string, len(l.pendingComments))
	copy(commentsCopy, l.pendingComments)
	return LexerState{
		position:               l.position,
		readPosition:           l.readPosition,
		ch:                     l.ch,
		chRune:                 l.chRune,
		chSize:                 l.chSize,
		line:                   l.line,
		column:                 l.column,
		diagnosticCount:        len(l.diagnostics),
		pendingComments:        commentsCopy,
		pendingTrailingComment: l.pendingTrailingComment,
	}
}

// RestoreState restores the lexer to a previously saved state
func (l *Lexer) RestoreState(state LexerState) {
	l.position = state.position
	l.readPosition = state.readPosition
	l.ch = state.ch
	l.chRune = state.chRune
	l.chSize = state.chSize
	l.line = state.line
	l.column = state.column
	l.diagnostics = l.diagnostics[:state.diagnosticCount]
	l.pendingComments = state.pendingComments
	l.pendingTrailingComment = state.pendingTrailingComment
}

// PeekToken returns the next token without consuming it
func (l *Lexer) PeekToken() Token {
	state := l.SaveState()
	tok := l.NextToken()
	l.RestoreState(state)
	return tok
}

// readChar reads the next character and advances position.
// Uses a hybrid approach: ASCII fast-path for single-byte characters,
// UTF-8 decoding for multi-byte characters (to support Unicode identifiers).
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NUL represents EOF
		l.chRune = 0
		l.chSize = 0
		l.position = l.readPosition
		return
	}

	b := l.input[l.readPosition]

	// ASCII fast-path
	if b < utf8.RuneSelf {
		l.ch = b
		l.chRune = rune(b)
		l.chSize = 1
		l.position = l.readPosition
		l.readPosition++

		if l.ch == '\n' {
			l.line++
			l.column = 0
		} else {
			l.column++
		}
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = b
	l.chRune = r
	l.chSize = size
	l.position = l.readPosition
	l.readPosition += size
	l.column++
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// peekCharN returns the character n positions ahead without advancing position
func (l *Lexer) peekCharN(n int) byte {
	pos := l.readPosition + n - 1
	if pos >= len(l.input) {
		return 0
	}
	return l.input[pos]
}

// collectTrivia skips whitespace and captures comments so they can be
// attached to the next token.
func (l *Lexer) collectTrivia() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			comment := l.readLineComment()
			l.pendingComments = append(l.pendingComments, comment)
		case l.ch == '/' && l.peekChar() == '*':
			comment := l.readBlockComment()
			l.pendingComments = append(l.pendingComments, comment)
		default:
			return
		}
	}
}

// readLineComment consumes a // comment up to (not including) the newline.
func (l *Lexer) readLineComment() string {
	start := l.position
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readBlockComment consumes a nest-aware /* ... */ comment.
func (l *Lexer) readBlockComment() string {
	start := l.position
	depth := 0
	for l.ch != 0 {
		if l.ch == '/' && l.peekChar() == '*' {
			depth++
			l.readChar()
			l.readChar()
			continue
		}
		if l.ch == '*' && l.peekChar() == '/' {
			depth--
			l.readChar()
			l.readChar()
			if depth == 0 {
				break
			}
			continue
		}
		l.readChar()
	}
	if depth > 0 {
		l.addError("LEX-0003", map[string]any{"Kind": "block comment"})
	}
	return l.input[start:l.position]
}

// attachPendingTrivia attaches collected comments to the token.
func (l *Lexer) attachPendingTrivia(tok Token) Token {
	if len(l.pendingComments) > 0 {
		tok.LeadingComments = l.pendingComments
		l.pendingComments = nil
	}
	return tok
}

func (l *Lexer) newToken(tokenType TokenType, literal string, line, column, pos int) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Line:    line,
		Column:  column,
		Pos:     pos,
		End:     pos + len(literal),
	}
}

// twoChar consumes the second character of a two-character operator and
// returns the combined token.
func (l *Lexer) twoChar(tokenType TokenType) Token {
	line, col, pos := l.line, l.column, l.position
	first := l.ch
	l.readChar()
	lit := string(first) + string(l.ch)
	return l.newToken(tokenType, lit, line, col, pos)
}

// threeChar consumes the second and third characters of a three-character
// operator and returns the combined token.
func (l *Lexer) threeChar(tokenType TokenType) Token {
	line, col, pos := l.line, l.column, l.position
	lit := l.input[l.position : l.position+3]
	l.readChar()
	l.readChar()
	return l.newToken(tokenType, lit, line, col, pos)
}

// NextToken scans the input and returns the next token
func (l *Lexer) NextToken() Token {
	var tok Token

	l.collectTrivia()

	line, col, pos := l.line, l.column, l.position

	switch l.ch {
	case '=':
		switch l.peekChar() {
		case '=':
			tok = l.twoChar(EQ)
		case '>':
			tok = l.twoChar(FAT_ARROW)
		default:
			tok = l.newToken(ASSIGN, "=", line, col, pos)
		}
	case '+':
		switch l.peekChar() {
		case '+':
			tok = l.twoChar(INCREMENT)
		case '=':
			tok = l.twoChar(PLUS_ASSIGN)
		default:
			tok = l.newToken(PLUS, "+", line, col, pos)
		}
	case '-':
		switch l.peekChar() {
		case '-':
			tok = l.twoChar(DECREMENT)
		case '=':
			tok = l.twoChar(MINUS_ASSIGN)
		case '>':
			tok = l.twoChar(ARROW)
		default:
			tok = l.newToken(MINUS, "-", line, col, pos)
		}
	case '*':
		switch l.peekChar() {
		case '*':
			tok = l.twoChar(POWER)
		case '=':
			tok = l.twoChar(STAR_ASSIGN)
		default:
			tok = l.newToken(ASTERISK, "*", line, col, pos)
		}
	case '/':
		if l.peekChar() == '=' {
			tok = l.twoChar(SLASH_ASSIGN)
		} else {
			tok = l.newToken(SLASH, "/", line, col, pos)
		}
	case '%':
		if l.peekChar() == '=' {
			tok = l.twoChar(PERCENT_ASSIGN)
		} else {
			tok = l.newToken(PERCENT, "%", line, col, pos)
		}
	case '!':
		if l.peekChar() == '=' {
			tok = l.twoChar(NOT_EQ)
		} else {
			tok = l.newToken(BANG, "!", line, col, pos)
		}
	case '~':
		tok = l.newToken(TILDE, "~", line, col, pos)
	case '<':
		switch l.peekChar() {
		case '=':
			tok = l.twoChar(LTE)
		case '-':
			tok = l.twoChar(SEND)
		case '?':
			tok = l.twoChar(ASK)
		case '<':
			if l.peekCharN(2) == '=' {
				tok = l.threeChar(SHL_ASSIGN)
			} else {
				tok = l.twoChar(SHL)
			}
		default:
			tok = l.newToken(LT, "<", line, col, pos)
		}
	case '>':
		switch l.peekChar() {
		case '=':
			tok = l.twoChar(GTE)
		case '>':
			if l.peekCharN(2) == '=' {
				tok = l.threeChar(SHR_ASSIGN)
			} else {
				tok = l.twoChar(SHR)
			}
		default:
			tok = l.newToken(GT, ">", line, col, pos)
		}
	case '&':
		switch l.peekChar() {
		case '&':
			tok = l.twoChar(AND)
		case '=':
			tok = l.twoChar(AMP_ASSIGN)
		default:
			tok = l.newToken(AMPERSAND, "&", line, col, pos)
		}
	case '|':
		switch l.peekChar() {
		case '|':
			tok = l.twoChar(OR)
		case '>':
			tok = l.twoChar(PIPELINE)
		case '=':
			tok = l.twoChar(PIPE_ASSIGN)
		default:
			tok = l.newToken(PIPE, "|", line, col, pos)
		}
	case '^':
		if l.peekChar() == '=' {
			tok = l.twoChar(CARET_ASSIGN)
		} else {
			tok = l.newToken(CARET, "^", line, col, pos)
		}
	case '.':
		if l.peekChar() == '.' {
			if l.peekCharN(2) == '=' {
				tok = l.threeChar(RANGE_INCL)
			} else {
				tok = l.twoChar(RANGE)
			}
		} else {
			tok = l.newToken(DOT, ".", line, col, pos)
		}
	case '?':
		switch l.peekChar() {
		case '.':
			tok = l.twoChar(SAFE_NAV)
		default:
			tok = l.newToken(QUESTION, "?", line, col, pos)
		}
	case ':':
		if l.peekChar() == ':' {
			tok = l.twoChar(COLONCOLON)
		} else {
			tok = l.newToken(COLON, ":", line, col, pos)
		}
	case '$':
		tok = l.newToken(DOLLAR, "$", line, col, pos)
	case ',':
		tok = l.newToken(COMMA, ",", line, col, pos)
	case ';':
		tok = l.newToken(SEMICOLON, ";", line, col, pos)
	case '(':
		tok = l.newToken(LPAREN, "(", line, col, pos)
	case ')':
		tok = l.newToken(RPAREN, ")", line, col, pos)
	case '{':
		tok = l.newToken(LBRACE, "{", line, col, pos)
	case '}':
		tok = l.newToken(RBRACE, "}", line, col, pos)
	case '[':
		tok = l.newToken(LBRACKET, "[", line, col, pos)
	case ']':
		tok = l.newToken(RBRACKET, "]", line, col, pos)
	case '"':
		return l.attachPendingTrivia(l.readString(false, line, col, pos))
	case '\'':
		return l.attachPendingTrivia(l.readCharLiteral(line, col, pos))
	case '`':
		return l.attachPendingTrivia(l.readCommand(line, col, pos))
	case 0:
		tok = Token{Type: EOF, Literal: "", Line: line, Column: col, Pos: pos, End: pos}
	default:
		if isLetter(l.chRune) {
			return l.attachPendingTrivia(l.readIdentifierOrPrefixed(line, col, pos))
		}
		if isDigit(l.ch) {
			return l.attachPendingTrivia(l.readNumber(line, col, pos))
		}
		// Unknown byte: report, resynchronize at the next whitespace.
		l.addError("LEX-0001", map[string]any{"Byte": fmt.Sprintf("%q", l.chRune)})
		bad := string(l.chRune)
		for l.ch != 0 && !unicode.IsSpace(l.chRune) {
			l.readChar()
		}
		tok = l.newToken(ILLEGAL, bad, line, col, pos)
		return l.attachPendingTrivia(tok)
	}

	l.readChar()
	return l.attachPendingTrivia(tok)
}

// readIdentifierOrPrefixed reads an identifier, keyword, or a prefixed
// string literal (f"..." interpolation, r"..." raw, b'x' byte).
func (l *Lexer) readIdentifierOrPrefixed(line, col, pos int) Token {
	// String prefixes
	if l.ch == 'f' && l.peekChar() == '"' {
		l.readChar() // consume 'f'
		return l.readStringBody(FSTRING, false, line, col, pos)
	}
	if l.ch == 'r' && l.peekChar() == '"' {
		l.readChar() // consume 'r'
		return l.readStringBody(RAWSTRING, true, line, col, pos)
	}
	if l.ch == 'b' && l.peekChar() == '\'' {
		l.readChar() // consume 'b'
		tok := l.readCharLiteral(l.line, l.column, l.position)
		tok.Type = BYTE_LIT
		tok.Line, tok.Column, tok.Pos = line, col, pos
		return tok
	}

	start := l.position
	for isLetter(l.chRune) || isDigit(l.ch) {
		l.readChar()
	}
	literal := l.input[start:l.position]
	tok := Token{
		Type:    LookupIdent(literal),
		Literal: literal,
		Line:    line,
		Column:  col,
		Pos:     pos,
		End:     l.position,
	}
	// macro_rules is always followed by '!' which the parser consumes.
	return tok
}

// readString reads a double-quoted string starting at the current '"'.
func (l *Lexer) readString(raw bool, line, col, pos int) Token {
	t := STRING
	if raw {
		t = RAWSTRING
	}
	return l.readStringBody(t, raw, line, col, pos)
}

// readStringBody reads the quoted body. The literal stored on the token is
// the decoded string content (escapes processed unless raw).
func (l *Lexer) readStringBody(tokenType TokenType, raw bool, line, col, pos int) Token {
	var sb strings.Builder
	l.readChar() // consume opening quote
	terminated := false
	for l.ch != 0 {
		if l.ch == '"' {
			terminated = true
			l.readChar() // consume closing quote
			break
		}
		if !raw && l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case '\'':
				sb.WriteByte('\'')
			case '0':
				sb.WriteByte(0)
			default:
				l.addError("LEX-0002", map[string]any{"Escape": string(l.chRune)})
				sb.WriteRune(l.chRune)
			}
			l.readChar()
			continue
		}
		sb.WriteRune(l.chRune)
		l.readChar()
	}
	if !terminated {
		l.addError("LEX-0003", map[string]any{"Kind": "string"})
	}
	return Token{
		Type:    tokenType,
		Literal: sb.String(),
		Line:    line,
		Column:  col,
		Pos:     pos,
		End:     l.position,
	}
}

// readCharLiteral reads a single-quoted character literal.
func (l *Lexer) readCharLiteral(line, col, pos int) Token {
	l.readChar() // consume opening quote
	var value rune
	if l.ch == '\\' {
		l.readChar()
		switch l.ch {
		case 'n':
			value = '\n'
		case 't':
			value = '\t'
		case 'r':
			value = '\r'
		case '\\':
			value = '\\'
		case '\'':
			value = '\''
		case '"':
			value = '"'
		case '0':
			value = 0
		default:
			l.addError("LEX-0002", map[string]any{"Escape": string(l.chRune)})
			value = l.chRune
		}
		l.readChar()
	} else if l.ch == '\'' || l.ch == 0 {
		l.addError("LEX-0003", map[string]any{"Kind": "character"})
	} else {
		value = l.chRune
		l.readChar()
	}
	if l.ch == '\'' {
		l.readChar() // consume closing quote
	} else {
		l.addError("LEX-0003", map[string]any{"Kind": "character"})
	}
	return Token{
		Type:    CHAR,
		Literal: string(value),
		Line:    line,
		Column:  col,
		Pos:     pos,
		End:     l.position,
	}
}

// readCommand reads a backtick-quoted shell command literal.
func (l *Lexer) readCommand(line, col, pos int) Token {
	var sb strings.Builder
	l.readChar() // consume opening backtick
	terminated := false
	for l.ch != 0 {
		if l.ch == '`' {
			terminated = true
			l.readChar()
			break
		}
		sb.WriteRune(l.chRune)
		l.readChar()
	}
	if !terminated {
		l.addError("LEX-0003", map[string]any{"Kind": "command"})
	}
	return Token{
		Type:    COMMAND,
		Literal: sb.String(),
		Line:    line,
		Column:  col,
		Pos:     pos,
		End:     l.position,
	}
}

// intSuffixes are the accepted integer width tags, longest first so that
// maximal munch works (i128 before i12-prefix confusion is impossible, but
// i16 must beat i1).
var intSuffixes = []string{
	"i128", "u128", "i64", "u64", "i32", "u32", "i16", "u16", "i8", "u8",
}

// readNumber reads an integer or float literal, including underscore
// separators, exponents, and integer width suffixes.
func (l *Lexer) readNumber(line, col, pos int) Token {
	start := l.position
	isFloat := false

	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}

	// Decimal point, but not a range operator (1..10)
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}

	// Exponent
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekCharN(2))) {
			isFloat = true
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	literal := strings.ReplaceAll(l.input[start:l.position], "_", "")

	if isFloat {
		return Token{Type: FLOAT, Literal: literal, Line: line, Column: col, Pos: pos, End: l.position}
	}

	// Width suffix (i8..u128)
	suffix := ""
	if l.ch == 'i' || l.ch == 'u' {
		rest := l.input[l.position:]
		for _, s := range intSuffixes {
			if strings.HasPrefix(rest, s) {
				suffix = s
				for range s {
					l.readChar()
				}
				break
			}
		}
	}

	return Token{
		Type:    INT,
		Literal: literal,
		Suffix:  suffix,
		Line:    line,
		Column:  col,
		Pos:     pos,
		End:     l.position,
	}
}

func isLetter(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
