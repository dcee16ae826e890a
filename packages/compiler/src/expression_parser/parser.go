package expression_parser

import (
	"fmt"
	"strings"

	"auc-go/packages/compiler/src/util"
)

// Context rebases parsed AST positions onto the surrounding document when the
// expression text was extracted from an attribute value or an interpolation
// segment.
type Context struct {
	// BaseOffset is the document offset of the expression text's first
	// character.
	BaseOffset int
}

// ParseError represents a failure to parse expression text.
type ParseError struct {
	Message string
	Span    util.Span
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Span)
}

// Parser parses expression text into an AST. A Parser holds no state across
// calls; one instance may serve any number of concurrent pipelines.
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses the given text with the grammar selected by kind. All AST
// spans are absolute, rebased through ctx.
func (p *Parser) Parse(text string, kind ExpressionKind, ctx *Context) (AST, error) {
	base := 0
	if ctx != nil {
		base = ctx.BaseOffset
	}
	switch kind {
	case KindInterpolation:
		return p.parseInterpolation(text, base)
	case KindIteratorHeader:
		return p.parseTokens(text, base, true)
	default:
		return p.parseTokens(text, base, false)
	}
}

// HasInterpolation reports whether the text contains an interpolation marker.
func HasInterpolation(text string) bool {
	return findInterpolationStart(text, 0) >= 0
}

func findInterpolationStart(text string, from int) int {
	for i := from; i+1 < len(text); i++ {
		if text[i] == '\\' {
			i++
			continue
		}
		if text[i] == '$' && text[i+1] == '{' {
			return i
		}
	}
	return -1
}

// parseInterpolation splits text into literal parts and `${}` segments and
// parses each segment with the general-binding grammar.
func (p *Parser) parseInterpolation(text string, base int) (AST, error) {
	var parts []string
	var expressions []AST
	pos := 0
	for {
		start := findInterpolationStart(text, pos)
		if start < 0 {
			break
		}
		// Find the matching close brace, tracking nesting and strings.
		depth := 1
		i := start + 2
		var quote byte
		for i < len(text) && depth > 0 {
			ch := text[i]
			switch {
			case quote != 0:
				if ch == '\\' {
					i++
				} else if ch == quote {
					quote = 0
				}
			case ch == '\'' || ch == '"' || ch == '`':
				quote = ch
			case ch == '{':
				depth++
			case ch == '}':
				depth--
			}
			if depth > 0 {
				i++
			}
		}
		if depth > 0 {
			return nil, &ParseError{
				Message: "unterminated interpolation",
				Span:    util.NewSpan(base+start, base+len(text)),
			}
		}
		parts = append(parts, text[pos:start])
		inner := text[start+2 : i]
		expr, err := p.parseTokens(inner, base+start+2, false)
		if err != nil {
			return nil, err
		}
		expressions = append(expressions, expr)
		pos = i + 1
	}
	parts = append(parts, text[pos:])
	if len(expressions) == 0 {
		return nil, &ParseError{
			Message: "interpolation text has no ${} segment",
			Span:    util.NewSpan(base, base+len(text)),
		}
	}
	return NewInterpolation(util.NewSpan(base, base+len(text)), parts, expressions), nil
}

func (p *Parser) parseTokens(text string, base int, iterator bool) (AST, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Message: "empty expression", Span: util.NewSpan(base, base+len(text))}
	}
	lx := newLexer(text, base)
	tokens := lx.Lex()
	if len(lx.errs) > 0 {
		return nil, lx.errs[0]
	}
	ps := &exprState{parser: p, tokens: tokens}
	var result AST
	var err error
	if iterator {
		result, err = ps.parseForOf()
	} else {
		result, err = ps.parseBindingBehavior()
	}
	if err != nil {
		return nil, err
	}
	if !ps.peek().isEOF() {
		return nil, ps.errorf("unconsumed token %q", ps.peek().Text)
	}
	return result, nil
}

func (t *Token) isEOF() bool {
	return t.Type == TokenEOF
}

type exprState struct {
	parser *Parser
	tokens []*Token
	index  int
}

func (s *exprState) peek() *Token {
	return s.tokens[s.index]
}

func (s *exprState) advance() *Token {
	tok := s.tokens[s.index]
	if tok.Type != TokenEOF {
		s.index++
	}
	return tok
}

func (s *exprState) consumeOperator(op string) bool {
	if s.peek().IsOperator(op) {
		s.advance()
		return true
	}
	return false
}

func (s *exprState) expectOperator(op string) error {
	if !s.consumeOperator(op) {
		return s.errorf("expected %q but found %q", op, s.peek().Text)
	}
	return nil
}

func (s *exprState) errorf(format string, args ...interface{}) error {
	return &ParseError{Message: fmt.Sprintf(format, args...), Span: s.peek().Span}
}

func (s *exprState) spanFrom(start int) util.Span {
	end := start
	if s.index > 0 {
		end = s.tokens[s.index-1].Span.End
	}
	return util.NewSpan(start, end)
}

// parseForOf parses an iteration header, `declaration of iterable`.
func (s *exprState) parseForOf() (AST, error) {
	start := s.peek().Span.Start
	decl, err := s.parseForDeclaration()
	if err != nil {
		return nil, err
	}
	if !s.peek().IsKeyword("of") {
		return nil, s.errorf("expected \"of\" in iteration header but found %q", s.peek().Text)
	}
	s.advance()
	iterable, err := s.parseBindingBehavior()
	if err != nil {
		return nil, err
	}
	return NewForOfStatement(s.spanFrom(start), decl, iterable), nil
}

func (s *exprState) parseForDeclaration() (ForDeclaration, error) {
	start := s.peek().Span.Start
	if s.consumeOperator("[") {
		var names []string
		var spans []util.Span
		for {
			tok := s.peek()
			if tok.Type != TokenIdentifier {
				return ForDeclaration{}, s.errorf("expected identifier in destructuring declaration but found %q", tok.Text)
			}
			s.advance()
			names = append(names, tok.Text)
			spans = append(spans, tok.Span)
			if !s.consumeOperator(",") {
				break
			}
		}
		if err := s.expectOperator("]"); err != nil {
			return ForDeclaration{}, err
		}
		return ForDeclaration{Names: names, NameSpans: spans, Destructured: true, Span: s.spanFrom(start)}, nil
	}
	tok := s.peek()
	if tok.Type != TokenIdentifier {
		return ForDeclaration{}, s.errorf("expected declaration identifier but found %q", tok.Text)
	}
	s.advance()
	return ForDeclaration{Names: []string{tok.Text}, NameSpans: []util.Span{tok.Span}, Span: tok.Span}, nil
}

// parseBindingBehavior parses converters and behaviors around an expression.
// `|` and `&` are resource applications here, never bitwise operators.
func (s *exprState) parseBindingBehavior() (AST, error) {
	start := s.peek().Span.Start
	result, err := s.parseValueConverter()
	if err != nil {
		return nil, err
	}
	for s.consumeOperator("&") {
		name, nameSpan, args, err := s.parsePipeTail()
		if err != nil {
			return nil, err
		}
		result = NewBindingBehavior(s.spanFrom(start), result, name, args, nameSpan)
	}
	return result, nil
}

func (s *exprState) parseValueConverter() (AST, error) {
	start := s.peek().Span.Start
	result, err := s.parseAssign()
	if err != nil {
		return nil, err
	}
	for s.consumeOperator("|") {
		name, nameSpan, args, err := s.parsePipeTail()
		if err != nil {
			return nil, err
		}
		result = NewValueConverter(s.spanFrom(start), result, name, args, nameSpan)
	}
	return result, nil
}

func (s *exprState) parsePipeTail() (string, util.Span, []AST, error) {
	tok := s.peek()
	if tok.Type != TokenIdentifier {
		return "", util.Span{}, nil, s.errorf("expected converter or behavior name but found %q", tok.Text)
	}
	s.advance()
	var args []AST
	for s.consumeOperator(":") {
		arg, err := s.parseAssign()
		if err != nil {
			return "", util.Span{}, nil, err
		}
		args = append(args, arg)
	}
	return tok.Text, tok.Span, args, nil
}

func (s *exprState) parseAssign() (AST, error) {
	start := s.peek().Span.Start
	target, err := s.parseConditional()
	if err != nil {
		return nil, err
	}
	if s.consumeOperator("=") {
		value, err := s.parseAssign()
		if err != nil {
			return nil, err
		}
		return NewAssign(s.spanFrom(start), target, value), nil
	}
	return target, nil
}

func (s *exprState) parseConditional() (AST, error) {
	start := s.peek().Span.Start
	condition, err := s.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if s.consumeOperator("?") {
		yes, err := s.parseAssign()
		if err != nil {
			return nil, err
		}
		if err := s.expectOperator(":"); err != nil {
			return nil, err
		}
		no, err := s.parseAssign()
		if err != nil {
			return nil, err
		}
		return NewConditional(s.spanFrom(start), condition, yes, no), nil
	}
	return condition, nil
}

// binaryPrecedence orders binary operators; larger binds tighter.
var binaryPrecedence = map[string]int{
	"??": 1,
	"||": 2,
	"&&": 3,
	"==": 4, "!=": 4, "===": 4, "!==": 4,
	"<": 5, ">": 5, "<=": 5, ">=": 5, "in": 5, "instanceof": 5,
	"+": 6, "-": 6,
	"*": 7, "/": 7, "%": 7,
}

func (s *exprState) binaryOp() (string, int, bool) {
	tok := s.peek()
	if tok.Type == TokenOperator || tok.Type == TokenKeyword {
		if prec, ok := binaryPrecedence[tok.Text]; ok {
			return tok.Text, prec, true
		}
	}
	return "", 0, false
}

func (s *exprState) parseBinary(minPrecedence int) (AST, error) {
	start := s.peek().Span.Start
	left, err := s.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, prec, ok := s.binaryOp()
		if !ok || prec < minPrecedence {
			return left, nil
		}
		s.advance()
		right, err := s.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = NewBinary(s.spanFrom(start), op, left, right)
	}
}

func (s *exprState) parseUnary() (AST, error) {
	tok := s.peek()
	start := tok.Span.Start
	if tok.IsOperator("!") || tok.IsOperator("-") || tok.IsOperator("+") ||
		tok.IsKeyword("typeof") || tok.IsKeyword("void") {
		s.advance()
		expr, err := s.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewUnary(s.spanFrom(start), tok.Text, expr), nil
	}
	return s.parsePostfix()
}

func (s *exprState) parsePostfix() (AST, error) {
	start := s.peek().Span.Start
	result, err := s.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case s.consumeOperator(".") || s.peek().IsOperator("?."):
			optional := s.consumeOperator("?.")
			name := s.peek()
			if name.Type != TokenIdentifier && name.Type != TokenKeyword {
				return nil, s.errorf("expected member name but found %q", name.Text)
			}
			s.advance()
			if s.consumeOperator("(") {
				args, err := s.parseArgs()
				if err != nil {
					return nil, err
				}
				result = s.makeMemberCall(s.spanFrom(start), result, name, args, optional)
			} else {
				result = NewAccessMember(s.spanFrom(start), result, name.Text, name.Span, optional)
			}
		case s.consumeOperator("["):
			key, err := s.parseBindingBehavior()
			if err != nil {
				return nil, err
			}
			if err := s.expectOperator("]"); err != nil {
				return nil, err
			}
			result = NewAccessKeyed(s.spanFrom(start), result, key, false)
		case s.consumeOperator("(") || s.peek().IsOperator("?.("):
			if s.peek().IsOperator("?.(") {
				s.advance()
			}
			args, err := s.parseArgs()
			if err != nil {
				return nil, err
			}
			result = s.makeCall(s.spanFrom(start), result, args)
		default:
			return result, nil
		}
	}
}

// makeMemberCall folds `obj.name(args)` into a CallMember.
func (s *exprState) makeMemberCall(span util.Span, object AST, name *Token, args []AST, optional bool) AST {
	return NewCallMember(span, object, name.Text, args, name.Span, optional)
}

// makeCall folds `expr(args)` into the most specific call node.
func (s *exprState) makeCall(span util.Span, callee AST, args []AST) AST {
	switch c := callee.(type) {
	case *AccessScope:
		return NewCallScope(span, c.Name, args, c.Ancestor, c.NameSpan)
	case *AccessMember:
		return NewCallMember(span, c.Object, c.Name, args, c.NameSpan, c.Optional)
	default:
		return NewCallFunction(span, callee, args)
	}
}

// parseArgs parses a comma-separated argument list; the opening paren has
// already been consumed.
func (s *exprState) parseArgs() ([]AST, error) {
	var args []AST
	if s.consumeOperator(")") {
		return args, nil
	}
	for {
		arg, err := s.parseAssign()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !s.consumeOperator(",") {
			break
		}
	}
	if err := s.expectOperator(")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (s *exprState) parsePrimary() (AST, error) {
	tok := s.peek()
	switch tok.Type {
	case TokenNumber:
		s.advance()
		return NewPrimitiveLiteral(tok.Span, tok.NumValue, tok.Text), nil
	case TokenString:
		s.advance()
		return NewPrimitiveLiteral(tok.Span, tok.StrValue, tok.Text), nil
	case TokenTemplate:
		s.advance()
		return s.buildTemplate(tok)
	case TokenKeyword:
		switch tok.Text {
		case "true":
			s.advance()
			return NewPrimitiveLiteral(tok.Span, true, tok.Text), nil
		case "false":
			s.advance()
			return NewPrimitiveLiteral(tok.Span, false, tok.Text), nil
		case "null", "undefined":
			s.advance()
			return NewPrimitiveLiteral(tok.Span, nil, tok.Text), nil
		case "$this":
			s.advance()
			return NewAccessThis(tok.Span, 0), nil
		case "$parent":
			return s.parseParentChain()
		}
		return nil, s.errorf("unexpected keyword %q", tok.Text)
	case TokenIdentifier:
		s.advance()
		return NewAccessScope(tok.Span, tok.Text, 0, tok.Span), nil
	case TokenOperator:
		switch tok.Text {
		case "(":
			s.advance()
			inner, err := s.parseBindingBehavior()
			if err != nil {
				return nil, err
			}
			if err := s.expectOperator(")"); err != nil {
				return nil, err
			}
			return inner, nil
		case "[":
			return s.parseArrayLiteral()
		case "{":
			return s.parseObjectLiteral()
		}
	}
	return nil, s.errorf("unexpected token %q", tok.Text)
}

// parseParentChain parses `$parent`, `$parent.$parent...`, optionally ending
// in a scope access of the resolved ancestor.
func (s *exprState) parseParentChain() (AST, error) {
	start := s.peek().Span.Start
	ancestor := 0
	for s.peek().IsKeyword("$parent") {
		ancestor++
		s.advance()
		if !s.peek().IsOperator(".") {
			return NewAccessThis(s.spanFrom(start), ancestor), nil
		}
		// Only consume the dot if a `$parent` or identifier follows; a
		// trailing member access is handled by parsePostfix.
		next := s.tokens[s.index+1]
		if next.IsKeyword("$parent") {
			s.advance()
			continue
		}
		if next.Type == TokenIdentifier {
			s.advance()
			name := s.advance()
			return NewAccessScope(s.spanFrom(start), name.Text, ancestor, name.Span), nil
		}
		return NewAccessThis(s.spanFrom(start), ancestor), nil
	}
	return NewAccessThis(s.spanFrom(start), ancestor), nil
}

func (s *exprState) parseArrayLiteral() (AST, error) {
	start := s.peek().Span.Start
	s.advance() // '['
	var elements []AST
	if !s.consumeOperator("]") {
		for {
			element, err := s.parseAssign()
			if err != nil {
				return nil, err
			}
			elements = append(elements, element)
			if !s.consumeOperator(",") {
				break
			}
		}
		if err := s.expectOperator("]"); err != nil {
			return nil, err
		}
	}
	return NewArrayLiteral(s.spanFrom(start), elements), nil
}

func (s *exprState) parseObjectLiteral() (AST, error) {
	start := s.peek().Span.Start
	s.advance() // '{'
	var keys []string
	var values []AST
	if !s.consumeOperator("}") {
		for {
			keyTok := s.peek()
			var key string
			switch keyTok.Type {
			case TokenIdentifier, TokenKeyword:
				key = keyTok.Text
			case TokenString:
				key = keyTok.StrValue
			case TokenNumber:
				key = keyTok.Text
			default:
				return nil, s.errorf("expected object key but found %q", keyTok.Text)
			}
			s.advance()
			if s.consumeOperator(":") {
				value, err := s.parseAssign()
				if err != nil {
					return nil, err
				}
				keys = append(keys, key)
				values = append(values, value)
			} else {
				// Shorthand property: {foo} reads foo from scope.
				keys = append(keys, key)
				values = append(values, NewAccessScope(keyTok.Span, key, 0, keyTok.Span))
			}
			if !s.consumeOperator(",") {
				break
			}
		}
		if err := s.expectOperator("}"); err != nil {
			return nil, err
		}
	}
	return NewObjectLiteral(s.spanFrom(start), keys, values), nil
}

// buildTemplate sub-parses the `${}` segments recorded by the lexer.
func (s *exprState) buildTemplate(tok *Token) (AST, error) {
	var expressions []AST
	for _, segment := range tok.Segments {
		expr, err := s.parser.parseTokens(segment.Text, segment.Offset, false)
		if err != nil {
			return nil, err
		}
		expressions = append(expressions, expr)
	}
	return NewTemplateExpression(tok.Span, tok.Cooked, expressions), nil
}
