package wordx

import "strings"

// BodyElement represents any element that can appear in a document body.
type BodyElement interface {
	isBodyElement()
}

// Document is the full round-trip unit produced by Extract and consumed by
// Build. Body is the single source of truth for document order; Paragraphs
// and Tables are derived flat views kept in the same relative order.
type Document struct {
	Body              []BodyElement
	Paragraphs        []*Paragraph
	Tables            []*Table
	Styles            map[string]*StyleInfo
	Defaults          *RunFormatting
	ParagraphDefaults *ParagraphFormatting
	Numbering         map[string]*NumberingDefinition
	MediaFiles        map[string][]byte
}

// NewDocument creates an empty document model.
func NewDocument() *Document {
	return &Document{
		Styles:     make(map[string]*StyleInfo),
		Numbering:  make(map[string]*NumberingDefinition),
		MediaFiles: make(map[string][]byte),
	}
}

// AddParagraph appends a paragraph to the body and the flat paragraph list.
func (d *Document) AddParagraph(p *Paragraph) {
	d.Body = append(d.Body, p)
	d.Paragraphs = append(d.Paragraphs, p)
}

// AddTable appends a table to the body and the flat table list.
func (d *Document) AddTable(t *Table) {
	d.Body = append(d.Body, t)
	d.Tables = append(d.Tables, t)
}

// Alignment is a paragraph justification value.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// LineRule qualifies how a line spacing value is interpreted.
type LineRule string

const (
	LineRuleAuto    LineRule = "auto"
	LineRuleExactly LineRule = "exactly"
	LineRuleAtLeast LineRule = "atLeast"
)

// VerticalAlign is a run-level vertical alignment (superscript/subscript).
type VerticalAlign string

const (
	VerticalAlignSuperscript VerticalAlign = "superscript"
	VerticalAlignSubscript   VerticalAlign = "subscript"
)

// CellVerticalAlign is the vertical alignment of table cell content.
type CellVerticalAlign string

const (
	CellAlignTop    CellVerticalAlign = "top"
	CellAlignCenter CellVerticalAlign = "center"
	CellAlignBottom CellVerticalAlign = "bottom"
)

// StyleType identifies what kind of entity a style applies to.
type StyleType string

const (
	StyleTypeParagraph StyleType = "paragraph"
	StyleTypeCharacter StyleType = "character"
	StyleTypeTable     StyleType = "table"
	StyleTypeNumbering StyleType = "numbering"
)

// Spacing holds paragraph spacing in points.
type Spacing struct {
	Before   *float64
	After    *float64
	Line     *float64
	LineRule LineRule
}

// Indentation holds paragraph indentation in points.
type Indentation struct {
	Left      *float64
	Right     *float64
	FirstLine *float64
	Hanging   *float64
}

// NumberingRef ties a paragraph (or style) to a numbering instance.
// Level is nil when the source omitted the level marker; it is defaulted
// only at build time, and only for paragraph-level references.
type NumberingRef struct {
	ID    string
	Level *int
}

// Paragraph is an ordered sequence of runs plus optional formatting.
type Paragraph struct {
	Runs        []Run
	Spacing     *Spacing
	Alignment   Alignment
	Indentation *Indentation
	StyleName   string
	Numbering   *NumberingRef
}

func (p *Paragraph) isBodyElement() {}

// IsEmpty reports whether no run in the paragraph carries non-blank text.
func (p *Paragraph) IsEmpty() bool {
	for _, r := range p.Runs {
		if strings.TrimSpace(r.Text) != "" {
			return false
		}
	}
	return true
}

// Text returns the concatenated text of all runs in the paragraph.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Run is a span of identically formatted content. A run holds text or an
// image, never both; it may hold neither.
type Run struct {
	Text       string
	Image      *Image
	Formatting *RunFormatting
}

// RunFormatting holds character-level formatting.
type RunFormatting struct {
	Bold          *bool
	Italic        *bool
	Strike        *bool
	Underline     string // w:u value; empty when unset
	VerticalAlign VerticalAlign
	Color         string // hex RGB, no leading '#'
	Highlight     string
	Size          *float64 // points
	Font          string   // concrete typeface
	ThemeFont     string   // unresolved theme placeholder, re-emitted as-is
}

// Image is run-embedded picture content. Exactly one identification mode
// applies: MediaPath references preserved bytes in Document.MediaFiles,
// Data carries base64 content for an image not present in any archive part.
type Image struct {
	MediaPath   string
	Data        string
	ContentType string
	Width       *float64 // points
	Height      *float64 // points
	DrawingXML  string   // original drawing markup, reused verbatim on build
}

// Table owns ordered rows.
type Table struct {
	Rows         []*TableRow
	StyleName    string
	ColumnWidths []float64 // points; empty when no explicit grid was recorded
}

func (t *Table) isBodyElement() {}

// TableRow owns ordered cells.
type TableRow struct {
	Cells  []*TableCell
	Height *float64 // points
}

// TableCell owns an ordered list of paragraphs plus merge and formatting
// metadata. RowSpan is a three-state merge sentinel: 1 marks the start of a
// vertical merge, 0 a continuation cell, nil not merged. ColSpan is only
// populated when greater than 1.
type TableCell struct {
	Content         []*Paragraph
	ColSpan         int
	RowSpan         *int
	Width           *float64 // points
	BackgroundColor string
	Borders         *CellBorders
	VerticalAlign   CellVerticalAlign
	Margins         *CellMargins
}

// Text returns the concatenated text of all paragraphs in the cell,
// separated by newlines.
func (c *TableCell) Text() string {
	parts := make([]string, 0, len(c.Content))
	for _, p := range c.Content {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}

// Border describes one side of a cell border.
type Border struct {
	Style string
	Size  *float64 // points
	Color string
}

// CellBorders holds per-side cell borders; nil sides were not recorded.
type CellBorders struct {
	Top    *Border
	Bottom *Border
	Left   *Border
	Right  *Border
}

// CellMargins holds per-side cell margins in points.
type CellMargins struct {
	Top    *float64
	Bottom *float64
	Left   *float64
	Right  *float64
}

// StyleInfo is one entry of the style catalog. Inheritance pointers are
// stored as unresolved ids and never expanded at extraction time, so cycles
// or missing targets cannot corrupt extraction. Table-type styles keep
// their properties subtree as an opaque XML blob.
type StyleInfo struct {
	StyleID             string
	Name                string
	Type                StyleType
	BasedOn             string
	Next                string
	Link                string
	Default             bool
	QFormat             bool
	UnhideWhenUsed      bool
	UIPriority          *int
	RunFormatting       *RunFormatting
	ParagraphFormatting *ParagraphFormatting
	TablePropertiesXml  string
}

// ParagraphFormatting holds paragraph-level formatting as carried by a
// style definition or by document defaults.
type ParagraphFormatting struct {
	Spacing           *Spacing
	Alignment         Alignment
	Indentation       *Indentation
	Numbering         *NumberingRef
	KeepNext          bool
	KeepLines         bool
	ContextualSpacing bool
	OutlineLevel      *int
}

// NumberingDefinition is a numbering instance resolved against its abstract
// template. NSID, MultiLevelType and Template are pass-through metadata.
type NumberingDefinition struct {
	NumID          string
	AbstractNumID  string
	NSID           string
	MultiLevelType string
	Template       string
	Levels         []NumberingLevel
}

// NumberingLevel is one level of an abstract numbering template.
type NumberingLevel struct {
	Level       int
	Start       *int
	Format      string // free-form keyword: bullet, decimal, lowerRoman, ...
	Text        string // level-text pattern, e.g. "%1."
	Alignment   Alignment
	Indentation *Indentation
	Tabs        []TabStop
	Font        string
}

// TabStop is a single tab stop of a numbering level.
type TabStop struct {
	Position float64 // points
	Kind     string  // num, left, ...
}
