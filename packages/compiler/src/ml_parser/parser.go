package ml_parser

import (
	"strings"

	"auc-go/packages/compiler/src/util"
)

// voidElements are elements that never have children or a close tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// IsVoidElement reports whether the tag name names a void element.
func IsVoidElement(name string) bool {
	return voidElements[strings.ToLower(name)]
}

// Result represents the outcome of parsing one markup document. Parsing is
// best-effort: malformed input produces a partial tree plus diagnostics,
// never a failure.
type Result struct {
	Nodes  []Node
	Errors []*util.Diagnostic
}

// Parser parses markup text into a node tree with exact per-node offsets.
// A Parser holds no state across calls and is safe for reuse.
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// openElement is an element whose close tag has not been seen yet.
type openElement struct {
	element *Element
}

type parseState struct {
	file   *util.SourceFile
	src    string
	pos    int
	roots  []Node
	stack  []*openElement
	errors []*util.Diagnostic
}

// Parse parses the source file into a node tree.
func (p *Parser) Parse(file *util.SourceFile) *Result {
	st := &parseState{file: file, src: file.Content}
	st.run()
	return &Result{Nodes: st.roots, Errors: st.errors}
}

func (st *parseState) run() {
	textStart := st.pos
	for st.pos < len(st.src) {
		if st.src[st.pos] != '<' {
			st.pos++
			continue
		}
		st.flushText(textStart)
		switch {
		case strings.HasPrefix(st.src[st.pos:], "<!--"):
			st.consumeComment()
		case strings.HasPrefix(st.src[st.pos:], "</"):
			st.consumeCloseTag()
		case st.pos+1 < len(st.src) && isNameStart(st.src[st.pos+1]):
			st.consumeOpenTag()
		default:
			// A stray `<` that does not begin a tag is text.
			st.pos++
			st.appendNode(NewText("<", util.NewSpan(st.pos-1, st.pos)))
		}
		textStart = st.pos
	}
	st.flushText(textStart)
	st.closeDangling()
}

func (st *parseState) flushText(start int) {
	if st.pos > start {
		st.appendNode(NewText(st.src[start:st.pos], util.NewSpan(start, st.pos)))
	}
}

func (st *parseState) appendNode(node Node) {
	if len(st.stack) > 0 {
		top := st.stack[len(st.stack)-1].element
		top.Children = append(top.Children, node)
		return
	}
	st.roots = append(st.roots, node)
}

func (st *parseState) consumeComment() {
	start := st.pos
	st.pos += len("<!--")
	end := strings.Index(st.src[st.pos:], "-->")
	if end < 0 {
		value := st.src[st.pos:]
		st.pos = len(st.src)
		st.error("AUM003", "unterminated comment", util.NewSpan(start, st.pos))
		st.appendNode(NewComment(value, util.NewSpan(start, st.pos)))
		return
	}
	value := st.src[st.pos : st.pos+end]
	st.pos += end + len("-->")
	st.appendNode(NewComment(value, util.NewSpan(start, st.pos)))
}

func (st *parseState) consumeOpenTag() {
	start := st.pos
	st.pos++ // '<'
	nameStart := st.pos
	for st.pos < len(st.src) && isNameChar(st.src[st.pos]) {
		st.pos++
	}
	name := st.src[nameStart:st.pos]
	nameSpan := util.NewSpan(nameStart, st.pos)

	attrs := st.consumeAttributes()

	selfClosing := false
	st.skipWhitespace()
	if strings.HasPrefix(st.src[st.pos:], "/>") {
		selfClosing = true
		st.pos += 2
	} else if st.pos < len(st.src) && st.src[st.pos] == '>' {
		st.pos++
	} else {
		st.error("AUM001", "unterminated open tag \""+name+"\"", util.NewSpan(start, st.pos))
	}

	startSpan := util.NewSpan(start, st.pos)
	element := NewElement(name, attrs, nil, startSpan, startSpan, nameSpan)
	element.IsSelfClosing = selfClosing
	st.appendNode(element)
	if !selfClosing && !IsVoidElement(name) {
		st.stack = append(st.stack, &openElement{element: element})
	}
}

func (st *parseState) consumeCloseTag() {
	start := st.pos
	st.pos += 2 // '</'
	nameStart := st.pos
	for st.pos < len(st.src) && isNameChar(st.src[st.pos]) {
		st.pos++
	}
	name := st.src[nameStart:st.pos]
	closeNameSpan := util.NewSpan(nameStart, st.pos)
	st.skipWhitespace()
	if st.pos < len(st.src) && st.src[st.pos] == '>' {
		st.pos++
	}
	closeSpan := util.NewSpan(start, st.pos)

	// Find the innermost open element with this name. Anything opened after
	// it was left unclosed and is closed implicitly.
	for i := len(st.stack) - 1; i >= 0; i-- {
		if st.stack[i].element.Name != name {
			continue
		}
		for j := len(st.stack) - 1; j > i; j-- {
			unclosed := st.stack[j].element
			unclosed.SetSourceSpan(util.NewSpan(unclosed.SourceSpan().Start, start))
			st.error("AUM002", "element \""+unclosed.Name+"\" is never closed", unclosed.StartSourceSpan)
		}
		el := st.stack[i].element
		el.EndSourceSpan = closeSpan
		el.CloseNameSpan = closeNameSpan
		el.SetSourceSpan(util.NewSpan(el.SourceSpan().Start, st.pos))
		st.stack = st.stack[:i]
		return
	}
	st.error("AUM004", "unexpected closing tag \""+name+"\"", closeSpan)
}

func (st *parseState) consumeAttributes() []*Attribute {
	var attrs []*Attribute
	for {
		st.skipWhitespace()
		if st.pos >= len(st.src) {
			return attrs
		}
		ch := st.src[st.pos]
		if ch == '>' || ch == '/' {
			return attrs
		}
		attrs = append(attrs, st.consumeAttribute())
	}
}

func (st *parseState) consumeAttribute() *Attribute {
	keyStart := st.pos
	for st.pos < len(st.src) && !isAttrNameEnd(st.src[st.pos]) {
		st.pos++
	}
	name := st.src[keyStart:st.pos]
	keySpan := util.NewSpan(keyStart, st.pos)

	st.skipWhitespace()
	if st.pos >= len(st.src) || st.src[st.pos] != '=' {
		return NewAttribute(name, "", keySpan, keySpan, util.NewSpan(keySpan.End, keySpan.End), false)
	}
	st.pos++ // '='
	st.skipWhitespace()

	var value string
	var valueSpan util.Span
	if st.pos < len(st.src) && (st.src[st.pos] == '"' || st.src[st.pos] == '\'') {
		quote := st.src[st.pos]
		st.pos++
		valueStart := st.pos
		for st.pos < len(st.src) && st.src[st.pos] != quote {
			st.pos++
		}
		value = st.src[valueStart:st.pos]
		valueSpan = util.NewSpan(valueStart, st.pos)
		if st.pos < len(st.src) {
			st.pos++ // closing quote
		} else {
			st.error("AUM005", "unterminated attribute value", util.NewSpan(keyStart, st.pos))
		}
	} else {
		valueStart := st.pos
		for st.pos < len(st.src) && !isUnquotedValueEnd(st.src[st.pos]) && !strings.HasPrefix(st.src[st.pos:], "/>") {
			st.pos++
		}
		value = st.src[valueStart:st.pos]
		valueSpan = util.NewSpan(valueStart, st.pos)
	}
	return NewAttribute(name, value, util.NewSpan(keyStart, st.pos), keySpan, valueSpan, true)
}

func (st *parseState) closeDangling() {
	for i := len(st.stack) - 1; i >= 0; i-- {
		el := st.stack[i].element
		el.SetSourceSpan(util.NewSpan(el.SourceSpan().Start, len(st.src)))
		st.error("AUM002", "element \""+el.Name+"\" is never closed", el.StartSourceSpan)
	}
	st.stack = nil
}

func (st *parseState) skipWhitespace() {
	for st.pos < len(st.src) && isWhitespace(st.src[st.pos]) {
		st.pos++
	}
}

func (st *parseState) error(code, message string, span util.Span) {
	st.errors = append(st.errors, util.NewDiagnostic(code, message, span, util.SeverityWarning))
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isNameStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

func isNameChar(ch byte) bool {
	return isNameStart(ch) || ch >= '0' && ch <= '9' || ch == '-' || ch == ':' || ch == '_'
}

func isAttrNameEnd(ch byte) bool {
	return isWhitespace(ch) || ch == '=' || ch == '>' || ch == '/'
}

func isUnquotedValueEnd(ch byte) bool {
	return isWhitespace(ch) || ch == '>'
}
