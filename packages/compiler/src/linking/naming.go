package linking

import (
	"strings"

	"auc-go/packages/compiler/src/resources"
)

// AttrMapper normalizes attribute names to target property names. Resolution
// runs through a fixed precedence chain:
//
//  1. a per-tag override table
//  2. the host element definition's declared attribute-to-property overrides
//  3. a global override table
//  4. a case-insensitive match against the host's declared property names,
//     bindables before native properties
//  5. the default kebab-case to camelCase transform
//
// The transform is idempotent: a name already in property form passes through
// every step unchanged.
type AttrMapper struct {
	tagOverrides    map[string]map[string]string
	globalOverrides map[string]string
	nativeProps     map[string]bool
}

// NewAttrMapper creates a new AttrMapper seeded with the standard markup
// attribute tables.
func NewAttrMapper() *AttrMapper {
	return &AttrMapper{
		tagOverrides: map[string]map[string]string{
			"label": {"for": "htmlFor"},
			"img":   {"usemap": "useMap"},
			"input": {
				"maxlength":      "maxLength",
				"minlength":      "minLength",
				"formaction":     "formAction",
				"formenctype":    "formEncType",
				"formmethod":     "formMethod",
				"formnovalidate": "formNoValidate",
				"formtarget":     "formTarget",
				"inputmode":      "inputMode",
			},
			"textarea": {"maxlength": "maxLength"},
			"td":       {"rowspan": "rowSpan", "colspan": "colSpan"},
			"th":       {"rowspan": "rowSpan", "colspan": "colSpan"},
		},
		globalOverrides: map[string]string{
			"class":           "className",
			"accesskey":       "accessKey",
			"contenteditable": "contentEditable",
			"tabindex":        "tabIndex",
			"textcontent":     "textContent",
			"innerhtml":       "innerHTML",
			"scrolltop":       "scrollTop",
			"scrollleft":      "scrollLeft",
			"readonly":        "readOnly",
		},
		nativeProps: nativePropertySet(),
	}
}

// Property resolves an attribute name to a property name for the given tag.
// The element definition may be nil for native and unknown tags.
func (m *AttrMapper) Property(tag, attr string, def *resources.ElementDef) string {
	if props, ok := m.tagOverrides[tag]; ok {
		if prop, ok := props[attr]; ok {
			return prop
		}
	}
	if def != nil {
		if b := def.BindableForAttribute(attr); b != nil {
			return b.Name
		}
	}
	if prop, ok := m.globalOverrides[attr]; ok {
		return prop
	}
	if def != nil {
		for _, b := range def.Bindables {
			if strings.EqualFold(b.Name, attr) {
				return b.Name
			}
		}
	}
	for prop := range m.nativeProps {
		if strings.EqualFold(prop, attr) {
			return prop
		}
	}
	return resources.CamelCase(attr)
}

// IsNativeProperty reports whether the name is a recognized native element
// property.
func (m *AttrMapper) IsNativeProperty(name string) bool {
	return m.nativeProps[name]
}

// nativeTags is the set of recognized plain markup element names.
var nativeTags = map[string]bool{
	"a": true, "abbr": true, "address": true, "area": true, "article": true,
	"aside": true, "audio": true, "b": true, "base": true, "bdi": true,
	"bdo": true, "blockquote": true, "body": true, "br": true, "button": true,
	"canvas": true, "caption": true, "cite": true, "code": true, "col": true,
	"colgroup": true, "data": true, "datalist": true, "dd": true, "del": true,
	"details": true, "dfn": true, "dialog": true, "div": true, "dl": true,
	"dt": true, "em": true, "embed": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "head": true,
	"header": true, "hgroup": true, "hr": true, "html": true, "i": true,
	"iframe": true, "img": true, "input": true, "ins": true, "kbd": true,
	"label": true, "legend": true, "li": true, "link": true, "main": true,
	"map": true, "mark": true, "menu": true, "meta": true, "meter": true,
	"nav": true, "noscript": true, "object": true, "ol": true, "optgroup": true,
	"option": true, "output": true, "p": true, "picture": true, "pre": true,
	"progress": true, "q": true, "rp": true, "rt": true, "ruby": true,
	"s": true, "samp": true, "script": true, "section": true, "select": true,
	"slot": true, "small": true, "source": true, "span": true, "strong": true,
	"style": true, "sub": true, "summary": true, "sup": true, "table": true,
	"tbody": true, "td": true, "template": true, "textarea": true,
	"tfoot": true, "th": true, "thead": true, "time": true, "title": true,
	"tr": true, "track": true, "u": true, "ul": true, "var": true,
	"video": true, "wbr": true,
}

// IsNativeTag reports whether the name is a recognized plain markup element.
func IsNativeTag(name string) bool {
	return nativeTags[name]
}

func nativePropertySet() map[string]bool {
	set := map[string]bool{}
	for _, name := range []string{
		"accessKey", "alt", "autocomplete", "autofocus", "checked",
		"className", "cols", "colSpan", "contentEditable", "disabled",
		"download", "draggable", "formAction", "formEncType", "formMethod",
		"formNoValidate", "formTarget", "height", "hidden", "href",
		"htmlFor", "id", "innerHTML", "inputMode", "lang", "loop", "max",
		"maxLength", "min", "minLength", "multiple", "muted", "name",
		"open", "pattern", "placeholder", "readOnly", "rel", "required",
		"rows", "rowSpan", "scrollLeft", "scrollTop", "selected", "size",
		"spellcheck", "src", "step", "tabIndex", "target", "textContent",
		"title", "type", "useMap", "value", "width",
	} {
		set[name] = true
	}
	return set
}
