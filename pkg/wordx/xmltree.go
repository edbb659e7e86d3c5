package wordx

import (
	"encoding/xml"
	"io"
	"math"
	"strconv"
	"strings"
)

// WordprocessingML namespace URIs. The lookup tables below are keyed on
// these, so producers that emit full URIs and producers that emit bare
// prefixes both resolve.
const (
	nsWordML        = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsDrawingWP     = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsDrawingML     = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPicture       = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsMarkupCompat  = "http://schemas.openxmlformats.org/markup-compatibility/2006"
	nsWord14        = "http://schemas.microsoft.com/office/word/2010/wordml"
	nsWordShape     = "http://schemas.microsoft.com/office/word/2010/wordprocessingShape"
	nsVML           = "urn:schemas-microsoft-com:vml"
	nsVMLOffice     = "urn:schemas-microsoft-com:office:office"
	nsXML           = "http://www.w3.org/XML/1998/namespace"
)

// namespaceByPrefix maps the handful of prefixes this format uses to their
// canonical URIs.
var namespaceByPrefix = map[string]string{
	"w":   nsWordML,
	"r":   nsRelationships,
	"wp":  nsDrawingWP,
	"a":   nsDrawingML,
	"pic": nsPicture,
	"mc":  nsMarkupCompat,
	"w14": nsWord14,
	"wps": nsWordShape,
	"v":   nsVML,
	"o":   nsVMLOffice,
	"xml": nsXML,
}

// lookupPrefixes is the probe order for namespace-tolerant attribute lookup.
var lookupPrefixes = []string{"w", "r", "wp", "a", "pic", "xml", "w14", "mc", "wps", "v", "o"}

// prefixByNamespace is the inverse of namespaceByPrefix, used to reconstruct
// prefixed names when the document did not declare its own.
var prefixByNamespace = map[string]string{
	nsWordML:        "w",
	nsRelationships: "r",
	nsDrawingWP:     "wp",
	nsDrawingML:     "a",
	nsPicture:       "pic",
	nsMarkupCompat:  "mc",
	nsWord14:        "w14",
	nsWordShape:     "wps",
	nsVML:           "v",
	nsVMLOffice:     "o",
	nsXML:           "xml",
	"xml":           "xml",
}

// attrNamespaces maps attribute local names to the namespace URIs they are
// known to appear under. This is the last lookup tier, for attributes whose
// prefix the tokenizer resolved to a URI outside the common prefix set.
var attrNamespaces = map[string][]string{
	"embed": {nsRelationships},
	"id":    {nsRelationships, nsWordML},
	"link":  {nsRelationships},
	"space": {nsXML, "xml"},
}

// Node is one entry of the ordered XML tree: an Element or a TextNode.
type Node interface {
	isNode()
}

// TextNode is character data within an element.
type TextNode struct {
	Data string
}

func (*TextNode) isNode() {}

// Attr is a single attribute. Space holds the resolved namespace URI when
// the tokenizer resolved one, or the bare prefix when it did not; Prefix is
// the prefix used to re-serialize the attribute.
type Attr struct {
	Prefix string
	Local  string
	Space  string
	Value  string
}

// Element is a pure value type: one XML element with ordered attributes and
// ordered children. There is no ambient parser state; adapter functions
// receive and return Elements explicitly.
type Element struct {
	Tag         string // local name
	OriginalTag string // prefixed form captured at parse time; empty when synthesized
	Space       string // namespace URI when known
	Attrs       []Attr
	Children    []Node
}

func (*Element) isNode() {}

// NewElement creates an element from a canonical prefixed name such as
// "w:p". The prefix must be one of the namespaces this format uses.
func NewElement(name string) *Element {
	prefix, local := splitName(name)
	return &Element{
		Tag:         local,
		OriginalTag: name,
		Space:       namespaceByPrefix[prefix],
	}
}

func splitName(name string) (prefix, local string) {
	if idx := strings.IndexByte(name, ':'); idx >= 0 {
		return name[:idx], name[idx+1:]
	}
	return "", name
}

// SetAttr sets an attribute from a canonical prefixed name such as "w:val".
// It returns the element for chaining while assembling build-side trees.
func (e *Element) SetAttr(name, value string) *Element {
	prefix, local := splitName(name)
	for i := range e.Attrs {
		if e.Attrs[i].Prefix == prefix && e.Attrs[i].Local == local {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{
		Prefix: prefix,
		Local:  local,
		Space:  namespaceByPrefix[prefix],
		Value:  value,
	})
	return e
}

// Append adds child nodes in order and returns the element for chaining.
func (e *Element) Append(children ...Node) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// ChildElements returns the element children with the given local name, in
// document order. An empty name matches every element child.
func (e *Element) ChildElements(local string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && (local == "" || el.Tag == local) {
			out = append(out, el)
		}
	}
	return out
}

// FirstChild returns the first element child with the given local name, or
// nil when none exists.
func (e *Element) FirstChild(local string) *Element {
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Tag == local {
			return el
		}
	}
	return nil
}

// FindDescendant returns the first descendant element with the given local
// name, searching depth-first, or nil when none exists.
func (e *Element) FindDescendant(local string) *Element {
	for _, c := range e.Children {
		el, ok := c.(*Element)
		if !ok {
			continue
		}
		if el.Tag == local {
			return el
		}
		if found := el.FindDescendant(local); found != nil {
			return found
		}
	}
	return nil
}

// Text returns the concatenated character data of the element's direct
// children.
func (e *Element) Text() string {
	var sb strings.Builder
	for _, c := range e.Children {
		if t, ok := c.(*TextNode); ok {
			sb.WriteString(t.Data)
		}
	}
	return sb.String()
}

// Attr looks up an attribute by local name, tolerating missing or aliased
// namespace prefixes. Lookup is tiered: an unprefixed key first, then the
// fixed prefix set this format uses, then a static table of the namespace
// URIs the attribute is known to appear under.
func (e *Element) Attr(local string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Space == "" && a.Local == local {
			return a.Value, true
		}
	}
	for _, p := range lookupPrefixes {
		uri := namespaceByPrefix[p]
		for _, a := range e.Attrs {
			if a.Local == local && (a.Space == p || a.Space == uri) {
				return a.Value, true
			}
		}
	}
	for _, uri := range attrNamespaces[local] {
		for _, a := range e.Attrs {
			if a.Local == local && a.Space == uri {
				return a.Value, true
			}
		}
	}
	return "", false
}

// BoolAttr reads a boolean attribute. The format accepts 1|true|on and
// 0|false|off; anything else (including absence) yields def.
func (e *Element) BoolAttr(local string, def bool) bool {
	v, ok := e.Attr(local)
	if !ok {
		return def
	}
	switch v {
	case "1", "true", "on":
		return true
	case "0", "false", "off":
		return false
	}
	return def
}

// IntAttr reads an integer attribute; ok is false when the attribute is
// absent or not an integer.
func (e *Element) IntAttr(local string) (int, bool) {
	v, found := e.Attr(local)
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// LengthUnit identifies the native unit a length attribute is stored in.
type LengthUnit string

const (
	// UnitTwips is the format's native length unit, 1/20 of a point.
	UnitTwips LengthUnit = "dxa"
	// UnitEMU is the drawing dimension unit, 1/12700 of a point.
	UnitEMU LengthUnit = "emu"
	// UnitPoints passes through unchanged.
	UnitPoints LengthUnit = "pt"
)

// LengthAttr reads a length attribute and converts it to points, the
// canonical unit of the document model. Returns nil when the attribute is
// absent or not numeric.
func (e *Element) LengthAttr(local string, unit LengthUnit) *float64 {
	v, ok := e.Attr(local)
	if !ok {
		return nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	pt := n
	switch unit {
	case UnitTwips:
		pt = n / 20
	case UnitEMU:
		pt = n / 12700
	}
	return &pt
}

// TwipsFromPoints converts points back to the format's native twentieths of
// a point.
func TwipsFromPoints(pt float64) int {
	return int(math.Round(pt * 20))
}

// EMUFromPoints converts points back to drawing EMUs.
func EMUFromPoints(pt float64) int64 {
	return int64(math.Round(pt * 12700))
}

// ParseXML parses xmlText into an Element tree, preserving child order and
// capturing the original prefixed tag names so serialization can reproduce
// them. The upstream tokenizer may or may not retain prefixes depending on
// configuration; both shapes resolve through the same lookup tables.
func ParseXML(xmlText string) (*Element, error) {
	dec := xml.NewDecoder(strings.NewReader(xmlText))
	// Prefixes declared by the document itself, recorded as encountered.
	declared := map[string]string{}

	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Message: "malformed XML", Cause: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Tag: t.Name.Local, Space: t.Name.Space}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" {
					if _, seen := declared[a.Value]; !seen {
						declared[a.Value] = a.Name.Local
					}
					el.Attrs = append(el.Attrs, Attr{Prefix: "xmlns", Local: a.Name.Local, Space: "xmlns", Value: a.Value})
					continue
				}
				if a.Name.Space == "" && a.Name.Local == "xmlns" {
					el.Attrs = append(el.Attrs, Attr{Local: "xmlns", Value: a.Value})
					continue
				}
				el.Attrs = append(el.Attrs, Attr{
					Prefix: prefixFor(a.Name.Space, declared),
					Local:  a.Name.Local,
					Space:  a.Name.Space,
					Value:  a.Value,
				})
			}
			if p := prefixFor(t.Name.Space, declared); p != "" {
				el.OriginalTag = p + ":" + t.Name.Local
			} else {
				el.OriginalTag = t.Name.Local
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, &ParseError{Message: "multiple root elements"}
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, &ParseError{Message: "unbalanced end element", Token: t.Name.Local}
			}
			done := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			pruneLayoutWhitespace(done)

		case xml.CharData:
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, &TextNode{Data: string(t)})
			}
		}
	}

	if root == nil {
		return nil, &ParseError{Message: "empty document"}
	}
	if len(stack) != 0 {
		return nil, &ParseError{Message: "unclosed element", Token: stack[len(stack)-1].Tag}
	}
	return root, nil
}

// prefixFor resolves a token namespace to the prefix used for
// serialization: document-declared first, then the canonical table, then
// the value itself when the tokenizer kept a bare prefix.
func prefixFor(space string, declared map[string]string) string {
	if space == "" {
		return ""
	}
	if p, ok := declared[space]; ok {
		return p
	}
	if p, ok := prefixByNamespace[space]; ok {
		return p
	}
	if !strings.ContainsAny(space, "/:") {
		return space
	}
	return ""
}

// pruneLayoutWhitespace drops whitespace-only text nodes from container
// elements. Leaf elements keep their text untouched, so significant
// whitespace inside w:t survives.
func pruneLayoutWhitespace(el *Element) {
	hasElement := false
	for _, c := range el.Children {
		if _, ok := c.(*Element); ok {
			hasElement = true
			break
		}
	}
	if !hasElement {
		return
	}
	kept := el.Children[:0]
	for _, c := range el.Children {
		if t, ok := c.(*TextNode); ok && strings.TrimSpace(t.Data) == "" {
			continue
		}
		kept = append(kept, c)
	}
	el.Children = kept
}

// SerializeXML renders an Element tree back to text. The original prefixed
// tag name is reproduced when it was captured at parse time; synthesized
// nodes fall back to the canonical prefix table. Elements without children
// emit self-closing tags.
func SerializeXML(el *Element) string {
	var sb strings.Builder
	writeElement(&sb, el)
	return sb.String()
}

func writeElement(sb *strings.Builder, el *Element) {
	name := serializedTagName(el)
	sb.WriteByte('<')
	sb.WriteString(name)
	for _, a := range el.Attrs {
		sb.WriteByte(' ')
		if a.Prefix != "" {
			sb.WriteString(a.Prefix)
			sb.WriteByte(':')
		}
		sb.WriteString(a.Local)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(a.Value))
		sb.WriteByte('"')
	}
	if len(el.Children) == 0 {
		sb.WriteString("/>")
		return
	}
	sb.WriteByte('>')
	for _, c := range el.Children {
		switch n := c.(type) {
		case *Element:
			writeElement(sb, n)
		case *TextNode:
			sb.WriteString(escapeText(n.Data))
		}
	}
	sb.WriteString("</")
	sb.WriteString(name)
	sb.WriteByte('>')
}

func serializedTagName(el *Element) string {
	if el.OriginalTag != "" {
		return el.OriginalTag
	}
	if p, ok := prefixByNamespace[el.Space]; ok {
		return p + ":" + el.Tag
	}
	return el.Tag
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeAttr(s string) string {
	s = escapeText(s)
	return strings.ReplaceAll(s, `"`, "&quot;")
}
