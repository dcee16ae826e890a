package expression_parser

import (
	"strconv"
	"strings"

	"auc-go/packages/compiler/src/util"
)

// TokenType represents the type of a lexed token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdentifier
	TokenKeyword
	TokenNumber
	TokenString
	TokenTemplate
	TokenOperator
)

// templateSegment is one `${...}` segment inside a template literal, kept as
// raw text plus its absolute offset for sub-parsing.
type templateSegment struct {
	Text   string
	Offset int
}

// Token represents a lexed token. Spans are absolute document offsets.
type Token struct {
	Type TokenType
	Span util.Span
	// Text is the token's raw text (operator text for operators).
	Text string
	// NumValue holds the parsed value of a number token.
	NumValue float64
	// StrValue holds the unescaped value of a string token.
	StrValue string
	// Cooked and Segments carry the pieces of a template token.
	Cooked   []string
	Segments []templateSegment
}

// IsOperator reports whether the token is the given operator.
func (t *Token) IsOperator(op string) bool {
	return t.Type == TokenOperator && t.Text == op
}

// IsKeyword reports whether the token is the given keyword.
func (t *Token) IsKeyword(kw string) bool {
	return t.Type == TokenKeyword && t.Text == kw
}

var keywords = map[string]bool{
	"true": true, "false": true, "null": true, "undefined": true,
	"typeof": true, "void": true, "in": true, "instanceof": true,
	"of": true, "$this": true, "$parent": true,
}

// threeCharOps and twoCharOps are matched longest-first.
var threeCharOps = []string{"===", "!==", "?.("}
var twoCharOps = []string{
	"??", "?.", "&&", "||", "==", "!=", "<=", ">=",
}

// lexer turns expression text into tokens. The base offset rebases every
// token span onto the surrounding document.
type lexer struct {
	src  string
	pos  int
	base int
	errs []*ParseError
}

func newLexer(src string, base int) *lexer {
	return &lexer{src: src, base: base}
}

// Lex tokenizes the whole input. Lexing never stops early; unterminated
// literals are recorded in errs for the parser to surface.
func (l *lexer) Lex() []*Token {
	var tokens []*Token
	for {
		tok := l.next()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

func (l *lexer) next() *Token {
	l.skipWhitespace()
	if l.pos >= len(l.src) {
		return &Token{Type: TokenEOF, Span: l.span(l.pos, l.pos)}
	}
	ch := l.src[l.pos]
	switch {
	case isIdentStart(ch):
		return l.scanIdentifier()
	case ch >= '0' && ch <= '9':
		return l.scanNumber()
	case ch == '\'' || ch == '"':
		return l.scanString()
	case ch == '`':
		return l.scanTemplate()
	default:
		return l.scanOperator()
	}
}

func (l *lexer) scanIdentifier() *Token {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	text := l.src[start:l.pos]
	typ := TokenIdentifier
	if keywords[text] {
		typ = TokenKeyword
	}
	return &Token{Type: typ, Span: l.span(start, l.pos), Text: text}
}

func (l *lexer) scanNumber() *Token {
	start := l.pos
	seenDot := false
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		if ch >= '0' && ch <= '9' {
			l.pos++
		} else if ch == '.' && !seenDot && l.pos+1 < len(l.src) && l.src[l.pos+1] >= '0' && l.src[l.pos+1] <= '9' {
			seenDot = true
			l.pos++
		} else {
			break
		}
	}
	text := l.src[start:l.pos]
	value, _ := strconv.ParseFloat(text, 64)
	return &Token{Type: TokenNumber, Span: l.span(start, l.pos), Text: text, NumValue: value}
}

func (l *lexer) scanString() *Token {
	start := l.pos
	quote := l.src[l.pos]
	l.pos++
	var sb strings.Builder
	for l.pos < len(l.src) && l.src[l.pos] != quote {
		if l.src[l.pos] == '\\' && l.pos+1 < len(l.src) {
			l.pos++
			sb.WriteByte(unescape(l.src[l.pos]))
		} else {
			sb.WriteByte(l.src[l.pos])
		}
		l.pos++
	}
	if l.pos < len(l.src) {
		l.pos++ // closing quote
	} else {
		l.error("unterminated string literal", start)
	}
	return &Token{Type: TokenString, Span: l.span(start, l.pos), Text: l.src[start:l.pos], StrValue: sb.String()}
}

func (l *lexer) scanTemplate() *Token {
	start := l.pos
	l.pos++ // opening backtick
	var cooked []string
	var segments []templateSegment
	var sb strings.Builder
	for l.pos < len(l.src) && l.src[l.pos] != '`' {
		if strings.HasPrefix(l.src[l.pos:], "${") {
			cooked = append(cooked, sb.String())
			sb.Reset()
			l.pos += 2
			segStart := l.pos
			depth := 1
			for l.pos < len(l.src) && depth > 0 {
				switch l.src[l.pos] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth > 0 {
					l.pos++
				}
			}
			segments = append(segments, templateSegment{Text: l.src[segStart:l.pos], Offset: l.base + segStart})
			if l.pos < len(l.src) {
				l.pos++ // closing brace
			}
			continue
		}
		if l.src[l.pos] == '\\' && l.pos+1 < len(l.src) {
			l.pos++
			sb.WriteByte(unescape(l.src[l.pos]))
		} else {
			sb.WriteByte(l.src[l.pos])
		}
		l.pos++
	}
	cooked = append(cooked, sb.String())
	if l.pos < len(l.src) {
		l.pos++ // closing backtick
	} else {
		l.error("unterminated template literal", start)
	}
	return &Token{Type: TokenTemplate, Span: l.span(start, l.pos), Text: l.src[start:l.pos], Cooked: cooked, Segments: segments}
}

func (l *lexer) scanOperator() *Token {
	start := l.pos
	rest := l.src[l.pos:]
	for _, op := range threeCharOps {
		if strings.HasPrefix(rest, op) {
			l.pos += 3
			return &Token{Type: TokenOperator, Span: l.span(start, l.pos), Text: op}
		}
	}
	for _, op := range twoCharOps {
		if strings.HasPrefix(rest, op) {
			l.pos += 2
			return &Token{Type: TokenOperator, Span: l.span(start, l.pos), Text: op}
		}
	}
	l.pos++
	return &Token{Type: TokenOperator, Span: l.span(start, l.pos), Text: l.src[start:l.pos]}
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) span(start, end int) util.Span {
	return util.NewSpan(l.base+start, l.base+end)
}

func (l *lexer) error(message string, at int) {
	l.errs = append(l.errs, &ParseError{Message: message, Span: l.span(at, l.pos)})
}

func unescape(ch byte) byte {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return ch
	}
}

func isIdentStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_' || ch == '$'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || ch >= '0' && ch <= '9'
}
