package lexer

import "fmt"

// TokenType represents different types of tokens
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF
	COMMENT // // single line comment or /* block */

	// Identifiers and literals
	IDENT      // add, foobar, x, y, ...
	INT        // 1343456, 1_000_000, 42i64
	FLOAT      // 3.14159, 1e10
	STRING     // "foobar"
	FSTRING    // f"hello {name}"
	RAWSTRING  // r"no \escapes"
	CHAR       // 'a', '\n'
	BYTE_LIT   // b'a'
	COMMAND // `ls -la`
	DOLLAR  // $ (macro metavariables)

	// Operators
	ASSIGN   // =
	PLUS     // +
	MINUS    // -
	BANG     // !
	ASTERISK // *
	SLASH    // /
	PERCENT  // %
	POWER    // **
	TILDE    // ~

	LT     // <
	GT     // >
	LTE    // <=
	GTE    // >=
	EQ     // ==
	NOT_EQ // !=

	AND // &&
	OR  // ||

	AMPERSAND // &
	PIPE      // |
	CARET     // ^
	SHL       // <<
	SHR       // >>

	RANGE          // ..
	RANGE_INCL     // ..=
	PIPELINE       // |>
	SEND           // <-
	ASK            // <?
	QUESTION       // ?
	SAFE_NAV       // ?.
	ARROW          // ->
	FAT_ARROW      // =>
	INCREMENT      // ++
	DECREMENT      // --
	PLUS_ASSIGN    // +=
	MINUS_ASSIGN   // -=
	STAR_ASSIGN    // *=
	SLASH_ASSIGN   // /=
	PERCENT_ASSIGN // %=
	AMP_ASSIGN     // &=
	PIPE_ASSIGN    // |=
	CARET_ASSIGN   // ^=
	SHL_ASSIGN     // <<=
	SHR_ASSIGN     // >>=

	// Delimiters
	COMMA      // ,
	SEMICOLON  // ;
	COLON      // :
	COLONCOLON // ::
	DOT        // .
	LPAREN     // (
	RPAREN     // )
	LBRACE     // {
	RBRACE     // }
	LBRACKET   // [
	RBRACKET   // ]

	// Keywords
	FUN      // "fun" / "fn"
	LET      // "let"
	VAR      // "var"
	MUT      // "mut"
	IF       // "if"
	ELSE     // "else"
	MATCH    // "match"
	FOR      // "for"
	IN       // "in"
	WHILE    // "while"
	LOOP     // "loop"
	RETURN   // "return"
	BREAK    // "break"
	CONTINUE // "continue"
	ASYNC    // "async"
	AWAIT    // "await"
	SPAWN    // "spawn"
	ACTOR    // "actor"
	STRUCT   // "struct"
	ENUM     // "enum"
	TRAIT    // "trait"
	IMPL     // "impl"
	IMPORT   // "import"
	EXPORT   // "export"
	THROW    // "throw"
	TRY      // "try"
	CATCH    // "catch"
	FINALLY  // "finally"
	TRUE     // "true"
	FALSE    // "false"
	NULL     // "null"
	MACRO    // "macro_rules"
	DF       // "df" (DataFrame literal prefix)
)

// Token represents a single token with its source span.
type Token struct {
	Type    TokenType
	Literal string
	Suffix  string // width suffix on integer literals: i8..i128, u8..u128
	Line    int
	Column  int
	Pos     int // byte offset of the first byte of the token
	End     int // byte offset one past the last byte of the token

	LeadingComments []string // comments before this token (for formatting)
	TrailingComment string   // comment on same line after this token
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Line: %d, Column: %d}",
		t.Type.String(), t.Literal, t.Line, t.Column)
}

var tokenNames = map[TokenType]string{
	ILLEGAL:        "ILLEGAL",
	EOF:            "EOF",
	COMMENT:        "COMMENT",
	IDENT:          "IDENT",
	INT:            "INT",
	FLOAT:          "FLOAT",
	STRING:         "STRING",
	FSTRING:        "FSTRING",
	RAWSTRING:      "RAWSTRING",
	CHAR:           "CHAR",
	BYTE_LIT:       "BYTE",
	COMMAND:        "COMMAND",
	DOLLAR:         "DOLLAR",
	ASSIGN:         "ASSIGN",
	PLUS:           "PLUS",
	MINUS:          "MINUS",
	BANG:           "BANG",
	ASTERISK:       "ASTERISK",
	SLASH:          "SLASH",
	PERCENT:        "PERCENT",
	POWER:          "POWER",
	TILDE:          "TILDE",
	LT:             "LT",
	GT:             "GT",
	LTE:            "LTE",
	GTE:            "GTE",
	EQ:             "EQ",
	NOT_EQ:         "NOT_EQ",
	AND:            "AND",
	OR:             "OR",
	AMPERSAND:      "AMPERSAND",
	PIPE:           "PIPE",
	CARET:          "CARET",
	SHL:            "SHL",
	SHR:            "SHR",
	RANGE:          "RANGE",
	RANGE_INCL:     "RANGE_INCL",
	PIPELINE:       "PIPELINE",
	SEND:           "SEND",
	ASK:            "ASK",
	QUESTION:       "QUESTION",
	SAFE_NAV:       "SAFE_NAV",
	ARROW:          "ARROW",
	FAT_ARROW:      "FAT_ARROW",
	INCREMENT:      "INCREMENT",
	DECREMENT:      "DECREMENT",
	PLUS_ASSIGN:    "PLUS_ASSIGN",
	MINUS_ASSIGN:   "MINUS_ASSIGN",
	STAR_ASSIGN:    "STAR_ASSIGN",
	SLASH_ASSIGN:   "SLASH_ASSIGN",
	PERCENT_ASSIGN: "PERCENT_ASSIGN",
	AMP_ASSIGN:     "AMP_ASSIGN",
	PIPE_ASSIGN:    "PIPE_ASSIGN",
	CARET_ASSIGN:   "CARET_ASSIGN",
	SHL_ASSIGN:     "SHL_ASSIGN",
	SHR_ASSIGN:     "SHR_ASSIGN",
	COMMA:          "COMMA",
	SEMICOLON:      "SEMICOLON",
	COLON:          "COLON",
	COLONCOLON:     "COLONCOLON",
	DOT:            "DOT",
	LPAREN:         "LPAREN",
	RPAREN:         "RPAREN",
	LBRACE:         "LBRACE",
	RBRACE:         "RBRACE",
	LBRACKET:       "LBRACKET",
	RBRACKET:       "RBRACKET",
	FUN:            "FUN",
	LET:            "LET",
	VAR:            "VAR",
	MUT:            "MUT",
	IF:             "IF",
	ELSE:           "ELSE",
	MATCH:          "MATCH",
	FOR:            "FOR",
	IN:             "IN",
	WHILE:          "WHILE",
	LOOP:           "LOOP",
	RETURN:         "RETURN",
	BREAK:          "BREAK",
	CONTINUE:       "CONTINUE",
	ASYNC:          "ASYNC",
	AWAIT:          "AWAIT",
	SPAWN:          "SPAWN",
	ACTOR:          "ACTOR",
	STRUCT:         "STRUCT",
	ENUM:           "ENUM",
	TRAIT:          "TRAIT",
	IMPL:           "IMPL",
	IMPORT:         "IMPORT",
	EXPORT:         "EXPORT",
	THROW:          "THROW",
	TRY:            "TRY",
	CATCH:          "CATCH",
	FINALLY:        "FINALLY",
	TRUE:           "TRUE",
	FALSE:          "FALSE",
	NULL:           "NULL",
	MACRO:          "MACRO",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return "UNKNOWN"
}

// Keywords map for identifying language keywords
var keywords = map[string]TokenType{
	"fun":         FUN,
	"fn":          FUN, // alias
	"let":         LET,
	"var":         VAR,
	"mut":         MUT,
	"if":          IF,
	"else":        ELSE,
	"match":       MATCH,
	"for":         FOR,
	"in":          IN,
	"while":       WHILE,
	"loop":        LOOP,
	"return":      RETURN,
	"break":       BREAK,
	"continue":    CONTINUE,
	"async":       ASYNC,
	"await":       AWAIT,
	"spawn":       SPAWN,
	"actor":       ACTOR,
	"struct":      STRUCT,
	"enum":        ENUM,
	"trait":       TRAIT,
	"impl":        IMPL,
	"import":      IMPORT,
	"export":      EXPORT,
	"throw":       THROW,
	"try":         TRY,
	"catch":       CATCH,
	"finally":     FINALLY,
	"true":        TRUE,
	"false":       FALSE,
	"null":        NULL,
	"nil":         NULL, // alias
	"macro_rules": MACRO,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsAssignment reports whether the token type is `=` or a compound
// assignment operator.
func IsAssignment(tt TokenType) bool {
	switch tt {
	case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN,
		PERCENT_ASSIGN, AMP_ASSIGN, PIPE_ASSIGN, CARET_ASSIGN, SHL_ASSIGN, SHR_ASSIGN:
		return true
	}
	return false
}
