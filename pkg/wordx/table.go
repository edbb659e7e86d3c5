package wordx

// extractTable converts a <tbl> subtree into a Table.
func (ex *extractor) extractTable(el *Element) *Table {
	t := &Table{}

	if tblPr := el.FirstChild("tblPr"); tblPr != nil {
		if style := tblPr.FirstChild("tblStyle"); style != nil {
			t.StyleName, _ = style.Attr("val")
		}
	}
	if grid := el.FirstChild("tblGrid"); grid != nil {
		for _, col := range grid.ChildElements("gridCol") {
			if w := col.LengthAttr("w", UnitTwips); w != nil {
				t.ColumnWidths = append(t.ColumnWidths, *w)
			}
		}
	}
	for _, rowEl := range el.ChildElements("tr") {
		t.Rows = append(t.Rows, ex.extractTableRow(rowEl))
	}
	return t
}

func (ex *extractor) extractTableRow(el *Element) *TableRow {
	row := &TableRow{}
	if trPr := el.FirstChild("trPr"); trPr != nil {
		if h := trPr.FirstChild("trHeight"); h != nil {
			row.Height = h.LengthAttr("val", UnitTwips)
		}
	}
	for _, cellEl := range el.ChildElements("tc") {
		row.Cells = append(row.Cells, ex.extractTableCell(cellEl))
	}
	return row
}

// extractTableCell decodes one <tc> subtree, including the merge sentinels:
// a vMerge marked "restart" (or carrying no value) yields RowSpan 1, an
// explicit continuation marker yields RowSpan 0, no marker leaves RowSpan
// nil. ColSpan is only populated when the grid span exceeds 1.
func (ex *extractor) extractTableCell(el *Element) *TableCell {
	cell := &TableCell{}

	if tcPr := el.FirstChild("tcPr"); tcPr != nil {
		if span := tcPr.FirstChild("gridSpan"); span != nil {
			if n, ok := span.IntAttr("val"); ok && n > 1 {
				cell.ColSpan = n
			}
		}
		if vMerge := tcPr.FirstChild("vMerge"); vMerge != nil {
			restart := 1
			continuation := 0
			if v, ok := vMerge.Attr("val"); ok && v != "restart" {
				cell.RowSpan = &continuation
			} else {
				cell.RowSpan = &restart
			}
		}
		if w := tcPr.FirstChild("tcW"); w != nil {
			if wType, _ := w.Attr("type"); wType == "" || wType == "dxa" {
				cell.Width = w.LengthAttr("w", UnitTwips)
			}
		}
		if shd := tcPr.FirstChild("shd"); shd != nil {
			if fill, ok := shd.Attr("fill"); ok && fill != "auto" {
				cell.BackgroundColor = fill
			}
		}
		cell.Borders = parseCellBorders(tcPr.FirstChild("tcBorders"))
		if vAlign := tcPr.FirstChild("vAlign"); vAlign != nil {
			switch v, _ := vAlign.Attr("val"); v {
			case "top", "center", "bottom":
				cell.VerticalAlign = CellVerticalAlign(v)
			}
		}
		cell.Margins = parseCellMargins(tcPr.FirstChild("tcMar"))
	}

	for _, pEl := range el.ChildElements("p") {
		cell.Content = append(cell.Content, ex.extractParagraph(pEl))
	}
	return cell
}

func parseCellBorders(el *Element) *CellBorders {
	if el == nil {
		return nil
	}
	borders := &CellBorders{
		Top:    parseBorder(el.FirstChild("top")),
		Bottom: parseBorder(el.FirstChild("bottom")),
		Left:   firstBorder(el, "left", "start"),
		Right:  firstBorder(el, "right", "end"),
	}
	if borders.Top == nil && borders.Bottom == nil && borders.Left == nil && borders.Right == nil {
		return nil
	}
	return borders
}

func firstBorder(el *Element, names ...string) *Border {
	for _, name := range names {
		if b := parseBorder(el.FirstChild(name)); b != nil {
			return b
		}
	}
	return nil
}

func parseBorder(el *Element) *Border {
	if el == nil {
		return nil
	}
	style, _ := el.Attr("val")
	if style == "" || style == "none" || style == "nil" {
		return nil
	}
	b := &Border{Style: style}
	// Border size is stored in eighths of a point.
	if n, ok := el.IntAttr("sz"); ok {
		pt := float64(n) / 8
		b.Size = &pt
	}
	if c, ok := el.Attr("color"); ok && c != "auto" {
		b.Color = c
	}
	return b
}

func parseCellMargins(el *Element) *CellMargins {
	if el == nil {
		return nil
	}
	side := func(names ...string) *float64 {
		for _, name := range names {
			if m := el.FirstChild(name); m != nil {
				if v := m.LengthAttr("w", UnitTwips); v != nil {
					return v
				}
			}
		}
		return nil
	}
	margins := &CellMargins{
		Top:    side("top"),
		Bottom: side("bottom"),
		Left:   side("left", "start"),
		Right:  side("right", "end"),
	}
	if margins.Top == nil && margins.Bottom == nil && margins.Left == nil && margins.Right == nil {
		return nil
	}
	return margins
}
