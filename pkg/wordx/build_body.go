package wordx

import (
	"fmt"
	"strconv"
)

// buildParagraph converts a Paragraph model node back to a <w:p> subtree.
// A paragraph with zero runs still emits one run containing an explicitly
// empty text element; omitting it makes consuming applications fail to
// render the paragraph, especially inside table cells.
func (b *builder) buildParagraph(p *Paragraph) *Element {
	pEl := NewElement("w:p")
	if pPr := buildParagraphProperties(p); pPr != nil {
		pEl.Append(pPr)
	}
	if len(p.Runs) == 0 {
		pEl.Append(b.buildRun(&Run{}))
		return pEl
	}
	for i := range p.Runs {
		pEl.Append(b.buildRun(&p.Runs[i]))
	}
	return pEl
}

func buildParagraphProperties(p *Paragraph) *Element {
	pPr := NewElement("w:pPr")
	if p.StyleName != "" {
		pPr.Append(NewElement("w:pStyle").SetAttr("w:val", p.StyleName))
	}
	if p.Numbering != nil && p.Numbering.ID != "" {
		// The level marker is defaulted at build time for paragraph-level
		// references only; style-level references are re-emitted as stored.
		level := 0
		if p.Numbering.Level != nil {
			level = *p.Numbering.Level
		}
		numPr := NewElement("w:numPr")
		numPr.Append(
			NewElement("w:ilvl").SetAttr("w:val", strconv.Itoa(level)),
			NewElement("w:numId").SetAttr("w:val", p.Numbering.ID),
		)
		pPr.Append(numPr)
	}
	if sp := buildSpacing(p.Spacing); sp != nil {
		pPr.Append(sp)
	}
	if ind := buildIndentation(p.Indentation); ind != nil {
		pPr.Append(ind)
	}
	if jc := buildAlignment(p.Alignment); jc != nil {
		pPr.Append(jc)
	}
	if len(pPr.Children) == 0 {
		return nil
	}
	return pPr
}

func buildSpacing(sp *Spacing) *Element {
	if sp == nil {
		return nil
	}
	el := NewElement("w:spacing")
	if sp.Before != nil {
		el.SetAttr("w:before", strconv.Itoa(TwipsFromPoints(*sp.Before)))
	}
	if sp.After != nil {
		el.SetAttr("w:after", strconv.Itoa(TwipsFromPoints(*sp.After)))
	}
	if sp.Line != nil {
		el.SetAttr("w:line", strconv.Itoa(TwipsFromPoints(*sp.Line)))
	}
	if sp.LineRule != "" {
		el.SetAttr("w:lineRule", string(sp.LineRule))
	}
	if len(el.Attrs) == 0 {
		return nil
	}
	return el
}

func buildIndentation(ind *Indentation) *Element {
	if ind == nil {
		return nil
	}
	el := NewElement("w:ind")
	if ind.Left != nil {
		el.SetAttr("w:left", strconv.Itoa(TwipsFromPoints(*ind.Left)))
	}
	if ind.Right != nil {
		el.SetAttr("w:right", strconv.Itoa(TwipsFromPoints(*ind.Right)))
	}
	if ind.FirstLine != nil {
		el.SetAttr("w:firstLine", strconv.Itoa(TwipsFromPoints(*ind.FirstLine)))
	}
	if ind.Hanging != nil {
		el.SetAttr("w:hanging", strconv.Itoa(TwipsFromPoints(*ind.Hanging)))
	}
	if len(el.Attrs) == 0 {
		return nil
	}
	return el
}

// buildAlignment is the inverse of parseAlignment: the model's justify maps
// back to the format's "both".
func buildAlignment(al Alignment) *Element {
	var val string
	switch al {
	case AlignLeft:
		val = "left"
	case AlignCenter:
		val = "center"
	case AlignRight:
		val = "right"
	case AlignJustify:
		val = "both"
	default:
		return nil
	}
	return NewElement("w:jc").SetAttr("w:val", val)
}

// buildRun converts a Run back to a <w:r> subtree. Multi-line text is
// re-split on newlines into break-separated segments and on tabs into
// tab-separated segments; a form feed becomes an explicit page break. A run
// with neither text nor image still emits an empty text element.
func (b *builder) buildRun(run *Run) *Element {
	rEl := NewElement("w:r")
	if rPr := buildRunProperties(run.Formatting); rPr != nil {
		rEl.Append(rPr)
	}

	if run.Image != nil {
		if drawing := b.buildImage(run.Image); drawing != nil {
			rEl.Append(drawing)
			return rEl
		}
		rEl.Append(emptyTextElement())
		return rEl
	}

	if run.Text == "" {
		rEl.Append(emptyTextElement())
		return rEl
	}

	segment := ""
	flush := func() {
		if segment != "" {
			rEl.Append(textElement(segment))
			segment = ""
		}
	}
	for _, r := range run.Text {
		switch r {
		case '\n':
			flush()
			rEl.Append(NewElement("w:br"))
		case '\f':
			flush()
			rEl.Append(NewElement("w:br").SetAttr("w:type", "page"))
		case '\t':
			flush()
			rEl.Append(NewElement("w:tab"))
		default:
			segment += string(r)
		}
	}
	flush()
	return rEl
}

func textElement(text string) *Element {
	el := NewElement("w:t").SetAttr("xml:space", "preserve")
	el.Append(&TextNode{Data: text})
	return el
}

func emptyTextElement() *Element {
	el := NewElement("w:t").SetAttr("xml:space", "preserve")
	el.Append(&TextNode{})
	return el
}

// buildImage resolves the relationship id of a run-embedded image and
// produces its drawing markup. Returns nil when the image cannot be bound
// to any media entry; the run keeps its other content.
func (b *builder) buildImage(img *Image) *Element {
	var relID string
	switch {
	case img.MediaPath != "":
		id, ok := b.mediaRelIDs[img.MediaPath]
		if !ok {
			b.warn(fmt.Errorf("dropping image: media path %s not in model", img.MediaPath))
			return nil
		}
		relID = id
	default:
		id, ok := b.imageRelIDs[img]
		if !ok {
			b.warn(fmt.Errorf("dropping image: no media content"))
			return nil
		}
		relID = id
	}

	b.docPrID++
	drawing, err := buildDrawing(img, relID, b.docPrID)
	if err != nil {
		b.warn(fmt.Errorf("dropping image: %v", err))
		return nil
	}
	return drawing
}

func buildRunProperties(f *RunFormatting) *Element {
	if f == nil {
		return nil
	}
	rPr := NewElement("w:rPr")
	if f.Font != "" || f.ThemeFont != "" {
		fonts := NewElement("w:rFonts")
		if f.Font != "" {
			fonts.SetAttr("w:ascii", f.Font).SetAttr("w:hAnsi", f.Font)
		}
		if f.ThemeFont != "" {
			fonts.SetAttr("w:asciiTheme", f.ThemeFont)
		}
		rPr.Append(fonts)
	}
	if f.Bold != nil {
		rPr.Append(boolProperty("w:b", *f.Bold))
	}
	if f.Italic != nil {
		rPr.Append(boolProperty("w:i", *f.Italic))
	}
	if f.Strike != nil {
		rPr.Append(boolProperty("w:strike", *f.Strike))
	}
	if f.Underline != "" {
		rPr.Append(NewElement("w:u").SetAttr("w:val", f.Underline))
	}
	if f.Color != "" {
		rPr.Append(NewElement("w:color").SetAttr("w:val", f.Color))
	}
	if f.Highlight != "" {
		rPr.Append(NewElement("w:highlight").SetAttr("w:val", f.Highlight))
	}
	if f.Size != nil {
		// Font size is stored in half-points.
		rPr.Append(NewElement("w:sz").SetAttr("w:val", strconv.Itoa(int(*f.Size*2))))
	}
	if f.VerticalAlign != "" {
		rPr.Append(NewElement("w:vertAlign").SetAttr("w:val", string(f.VerticalAlign)))
	}
	if len(rPr.Children) == 0 {
		return nil
	}
	return rPr
}

func boolProperty(name string, value bool) *Element {
	el := NewElement(name)
	if !value {
		el.SetAttr("w:val", "0")
	}
	return el
}

// defaultColumnWidthTwips sizes grid columns when neither an explicit grid
// nor first-row cell widths were recorded.
const defaultColumnWidthTwips = 2400

// defaultTableStyle names the generic grid style applied to tables that
// carry no style of their own.
const defaultTableStyle = "TableGrid"

// buildTable converts a Table model node back to a <w:tbl> subtree. Every
// table ends up with one grid-column entry per column; consuming
// applications misrender column boundaries otherwise.
func (b *builder) buildTable(t *Table) *Element {
	tblEl := NewElement("w:tbl")

	styleName := t.StyleName
	if styleName == "" {
		styleName = defaultTableStyle
	}
	tblPr := NewElement("w:tblPr")
	tblPr.Append(
		NewElement("w:tblStyle").SetAttr("w:val", styleName),
		NewElement("w:tblW").SetAttr("w:w", "0").SetAttr("w:type", "auto"),
	)
	tblEl.Append(tblPr)

	grid := NewElement("w:tblGrid")
	for _, width := range tableGridWidths(t) {
		grid.Append(NewElement("w:gridCol").SetAttr("w:w", strconv.Itoa(width)))
	}
	tblEl.Append(grid)

	for _, row := range t.Rows {
		tblEl.Append(b.buildTableRow(row))
	}
	return tblEl
}

// tableGridWidths derives grid-column widths in twips: explicit extracted
// column widths first, then first-row cell widths, then a fixed default per
// column inferred from the first row's cell count.
func tableGridWidths(t *Table) []int {
	if len(t.ColumnWidths) > 0 {
		widths := make([]int, len(t.ColumnWidths))
		for i, w := range t.ColumnWidths {
			widths[i] = TwipsFromPoints(w)
		}
		return widths
	}
	if len(t.Rows) == 0 {
		return nil
	}
	first := t.Rows[0].Cells

	fromCells := make([]int, 0, len(first))
	complete := len(first) > 0
	for _, cell := range first {
		if cell.Width == nil {
			complete = false
			break
		}
		fromCells = append(fromCells, TwipsFromPoints(*cell.Width))
	}
	if complete {
		return fromCells
	}

	columns := 0
	for _, cell := range first {
		span := cell.ColSpan
		if span < 1 {
			span = 1
		}
		columns += span
	}
	widths := make([]int, columns)
	for i := range widths {
		widths[i] = defaultColumnWidthTwips
	}
	return widths
}

func (b *builder) buildTableRow(row *TableRow) *Element {
	trEl := NewElement("w:tr")
	if row.Height != nil {
		trPr := NewElement("w:trPr")
		trPr.Append(NewElement("w:trHeight").SetAttr("w:val", strconv.Itoa(TwipsFromPoints(*row.Height))))
		trEl.Append(trPr)
	}
	for _, cell := range row.Cells {
		trEl.Append(b.buildTableCell(cell))
	}
	return trEl
}

// buildTableCell re-encodes one cell. The cell-properties block is emitted
// even when empty (explicit auto-width declaration) and the cell always
// contains at least one paragraph, mirroring the run emptiness rule.
func (b *builder) buildTableCell(cell *TableCell) *Element {
	tcEl := NewElement("w:tc")

	tcPr := NewElement("w:tcPr")
	if cell.Width != nil {
		tcPr.Append(NewElement("w:tcW").
			SetAttr("w:w", strconv.Itoa(TwipsFromPoints(*cell.Width))).
			SetAttr("w:type", "dxa"))
	} else {
		tcPr.Append(NewElement("w:tcW").SetAttr("w:w", "0").SetAttr("w:type", "auto"))
	}
	if cell.ColSpan > 1 {
		tcPr.Append(NewElement("w:gridSpan").SetAttr("w:val", strconv.Itoa(cell.ColSpan)))
	}
	if cell.RowSpan != nil {
		// The merge sentinel law: 1 restarts a vertical merge, 0 continues
		// it, nil never serializes a marker.
		if *cell.RowSpan == 0 {
			tcPr.Append(NewElement("w:vMerge").SetAttr("w:val", "continue"))
		} else {
			tcPr.Append(NewElement("w:vMerge").SetAttr("w:val", "restart"))
		}
	}
	if cell.BackgroundColor != "" {
		tcPr.Append(NewElement("w:shd").
			SetAttr("w:val", "clear").
			SetAttr("w:color", "auto").
			SetAttr("w:fill", cell.BackgroundColor))
	}
	if borders := buildCellBorders(cell.Borders); borders != nil {
		tcPr.Append(borders)
	}
	if cell.VerticalAlign != "" {
		tcPr.Append(NewElement("w:vAlign").SetAttr("w:val", string(cell.VerticalAlign)))
	}
	if margins := buildCellMargins(cell.Margins); margins != nil {
		tcPr.Append(margins)
	}
	tcEl.Append(tcPr)

	if len(cell.Content) == 0 {
		tcEl.Append(b.buildParagraph(&Paragraph{}))
		return tcEl
	}
	for _, p := range cell.Content {
		tcEl.Append(b.buildParagraph(p))
	}
	return tcEl
}

func buildCellBorders(borders *CellBorders) *Element {
	if borders == nil {
		return nil
	}
	el := NewElement("w:tcBorders")
	appendBorder := func(name string, border *Border) {
		if border == nil {
			return
		}
		side := NewElement(name).SetAttr("w:val", border.Style)
		if border.Size != nil {
			// Border size is stored in eighths of a point.
			side.SetAttr("w:sz", strconv.Itoa(int(*border.Size*8)))
		}
		if border.Color != "" {
			side.SetAttr("w:color", border.Color)
		} else {
			side.SetAttr("w:color", "auto")
		}
		el.Append(side)
	}
	appendBorder("w:top", borders.Top)
	appendBorder("w:left", borders.Left)
	appendBorder("w:bottom", borders.Bottom)
	appendBorder("w:right", borders.Right)
	if len(el.Children) == 0 {
		return nil
	}
	return el
}

func buildCellMargins(margins *CellMargins) *Element {
	if margins == nil {
		return nil
	}
	el := NewElement("w:tcMar")
	appendMargin := func(name string, value *float64) {
		if value == nil {
			return
		}
		el.Append(NewElement(name).
			SetAttr("w:w", strconv.Itoa(TwipsFromPoints(*value))).
			SetAttr("w:type", "dxa"))
	}
	appendMargin("w:top", margins.Top)
	appendMargin("w:left", margins.Left)
	appendMargin("w:bottom", margins.Bottom)
	appendMargin("w:right", margins.Right)
	if len(el.Children) == 0 {
		return nil
	}
	return el
}
