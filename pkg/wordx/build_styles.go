package wordx

import (
	"sort"
	"strconv"
)

// buildStylesXML re-emits the style catalog: document defaults first, then
// every style sorted by id for deterministic output. Table styles referenced
// by the body but absent from the catalog get a minimal synthesized
// definition so the output stays renderable.
func (b *builder) buildStylesXML() string {
	root := NewElement("w:styles").SetAttr("xmlns:w", nsWordML)
	root.Append(buildDocDefaults(b.doc.Defaults, b.doc.ParagraphDefaults))

	ids := make([]string, 0, len(b.doc.Styles))
	for id := range b.doc.Styles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		root.Append(buildStyle(b.doc.Styles[id]))
	}

	for _, id := range b.missingTableStyles() {
		root.Append(synthesizeTableStyle(id))
	}
	return SerializeXML(root)
}

func buildDocDefaults(runDefaults *RunFormatting, paraDefaults *ParagraphFormatting) *Element {
	defaults := NewElement("w:docDefaults")
	rd := NewElement("w:rPrDefault")
	if rPr := buildRunProperties(runDefaults); rPr != nil {
		rd.Append(rPr)
	}
	defaults.Append(rd)
	pd := NewElement("w:pPrDefault")
	if pPr := buildStyleParagraphProperties(paraDefaults); pPr != nil {
		pd.Append(pPr)
	}
	defaults.Append(pd)
	return defaults
}

func buildStyle(info *StyleInfo) *Element {
	styleEl := NewElement("w:style").SetAttr("w:styleId", info.StyleID)
	if info.Type != "" {
		styleEl.SetAttr("w:type", string(info.Type))
	}
	if info.Default {
		styleEl.SetAttr("w:default", "1")
	}
	if info.Name != "" {
		styleEl.Append(NewElement("w:name").SetAttr("w:val", info.Name))
	}
	if info.BasedOn != "" {
		styleEl.Append(NewElement("w:basedOn").SetAttr("w:val", info.BasedOn))
	}
	if info.Next != "" {
		styleEl.Append(NewElement("w:next").SetAttr("w:val", info.Next))
	}
	if info.Link != "" {
		styleEl.Append(NewElement("w:link").SetAttr("w:val", info.Link))
	}
	if info.UIPriority != nil {
		styleEl.Append(NewElement("w:uiPriority").SetAttr("w:val", strconv.Itoa(*info.UIPriority)))
	}
	if info.UnhideWhenUsed {
		styleEl.Append(NewElement("w:unhideWhenUsed"))
	}
	if info.QFormat {
		styleEl.Append(NewElement("w:qFormat"))
	}
	if pPr := buildStyleParagraphProperties(info.ParagraphFormatting); pPr != nil {
		styleEl.Append(pPr)
	}
	if rPr := buildRunProperties(info.RunFormatting); rPr != nil {
		styleEl.Append(rPr)
	}
	// Table properties were carried as opaque markup; reparse and reattach.
	if info.TablePropertiesXml != "" {
		if tblPr, err := ParseXML(info.TablePropertiesXml); err == nil {
			styleEl.Append(tblPr)
		} else {
			GetLogger().Warn("dropping table properties of style %s: %v", info.StyleID, err)
		}
	}
	return styleEl
}

// buildStyleParagraphProperties encodes the paragraph formatting a style
// definition or the document defaults carry. Unlike paragraph-level
// references, a style-level numbering reference re-emits the level marker
// only when one was recorded.
func buildStyleParagraphProperties(f *ParagraphFormatting) *Element {
	if f == nil {
		return nil
	}
	pPr := NewElement("w:pPr")
	if f.KeepNext {
		pPr.Append(NewElement("w:keepNext"))
	}
	if f.KeepLines {
		pPr.Append(NewElement("w:keepLines"))
	}
	if f.Numbering != nil && f.Numbering.ID != "" {
		numPr := NewElement("w:numPr")
		if f.Numbering.Level != nil {
			numPr.Append(NewElement("w:ilvl").SetAttr("w:val", strconv.Itoa(*f.Numbering.Level)))
		}
		numPr.Append(NewElement("w:numId").SetAttr("w:val", f.Numbering.ID))
		pPr.Append(numPr)
	}
	if f.ContextualSpacing {
		pPr.Append(NewElement("w:contextualSpacing"))
	}
	if sp := buildSpacing(f.Spacing); sp != nil {
		pPr.Append(sp)
	}
	if ind := buildIndentation(f.Indentation); ind != nil {
		pPr.Append(ind)
	}
	if jc := buildAlignment(f.Alignment); jc != nil {
		pPr.Append(jc)
	}
	if f.OutlineLevel != nil {
		pPr.Append(NewElement("w:outlineLvl").SetAttr("w:val", strconv.Itoa(*f.OutlineLevel)))
	}
	if len(pPr.Children) == 0 {
		return nil
	}
	return pPr
}

// missingTableStyles lists the style names the body's tables will reference
// that have no catalog entry, the implicit default included.
func (b *builder) missingTableStyles() []string {
	referenced := map[string]bool{}
	for _, t := range b.doc.Tables {
		name := t.StyleName
		if name == "" {
			name = defaultTableStyle
		}
		referenced[name] = true
	}
	var missing []string
	for name := range referenced {
		if _, ok := b.doc.Styles[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// synthesizeTableStyle produces a minimal single-line bordered table style.
func synthesizeTableStyle(styleID string) *Element {
	styleEl := NewElement("w:style").
		SetAttr("w:type", "table").
		SetAttr("w:styleId", styleID)
	styleEl.Append(NewElement("w:name").SetAttr("w:val", styleID))

	borders := NewElement("w:tblBorders")
	for _, side := range []string{"w:top", "w:left", "w:bottom", "w:right", "w:insideH", "w:insideV"} {
		borders.Append(NewElement(side).
			SetAttr("w:val", "single").
			SetAttr("w:sz", "4").
			SetAttr("w:space", "0").
			SetAttr("w:color", "auto"))
	}
	tblPr := NewElement("w:tblPr")
	tblPr.Append(borders)
	styleEl.Append(tblPr)
	return styleEl
}

// buildNumberingXML re-emits the numbering part: abstract templates first
// (deduplicated by abstract id), then the instances that bind to them. When
// the model carries no definitions but paragraphs still reference numbering,
// generic fallback definitions are synthesized.
func (b *builder) buildNumberingXML() string {
	root := NewElement("w:numbering").SetAttr("xmlns:w", nsWordML)

	defs := b.numberingDefinitions()
	seen := map[string]bool{}
	for _, def := range defs {
		if seen[def.AbstractNumID] {
			continue
		}
		seen[def.AbstractNumID] = true
		root.Append(buildAbstractNumbering(def))
	}
	for _, def := range defs {
		numEl := NewElement("w:num").SetAttr("w:numId", def.NumID)
		numEl.Append(NewElement("w:abstractNumId").SetAttr("w:val", def.AbstractNumID))
		root.Append(numEl)
	}
	return SerializeXML(root)
}

func (b *builder) numberingDefinitions() []*NumberingDefinition {
	if len(b.doc.Numbering) > 0 {
		ids := make([]string, 0, len(b.doc.Numbering))
		for id := range b.doc.Numbering {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			a, errA := strconv.Atoi(ids[i])
			c, errC := strconv.Atoi(ids[j])
			if errA == nil && errC == nil {
				return a < c
			}
			return ids[i] < ids[j]
		})
		defs := make([]*NumberingDefinition, len(ids))
		for i, id := range ids {
			defs[i] = b.doc.Numbering[id]
		}
		return defs
	}
	if b.referencesNumbering() {
		return fallbackNumberingDefinitions()
	}
	return nil
}

func (b *builder) referencesNumbering() bool {
	check := func(p *Paragraph) bool {
		return p.Numbering != nil && p.Numbering.ID != ""
	}
	for _, elem := range b.doc.Body {
		switch el := elem.(type) {
		case *Paragraph:
			if check(el) {
				return true
			}
		case *Table:
			for _, row := range el.Rows {
				for _, cell := range row.Cells {
					for _, p := range cell.Content {
						if check(p) {
							return true
						}
					}
				}
			}
		}
	}
	return false
}

func buildAbstractNumbering(def *NumberingDefinition) *Element {
	abstract := NewElement("w:abstractNum").SetAttr("w:abstractNumId", def.AbstractNumID)
	if def.NSID != "" {
		abstract.Append(NewElement("w:nsid").SetAttr("w:val", def.NSID))
	}
	if def.MultiLevelType != "" {
		abstract.Append(NewElement("w:multiLevelType").SetAttr("w:val", def.MultiLevelType))
	}
	if def.Template != "" {
		abstract.Append(NewElement("w:tmpl").SetAttr("w:val", def.Template))
	}
	for i := range def.Levels {
		abstract.Append(buildNumberingLevel(&def.Levels[i]))
	}
	return abstract
}

func buildNumberingLevel(lvl *NumberingLevel) *Element {
	lvlEl := NewElement("w:lvl").SetAttr("w:ilvl", strconv.Itoa(lvl.Level))
	if lvl.Start != nil {
		lvlEl.Append(NewElement("w:start").SetAttr("w:val", strconv.Itoa(*lvl.Start)))
	}
	if lvl.Format != "" {
		lvlEl.Append(NewElement("w:numFmt").SetAttr("w:val", lvl.Format))
	}
	if lvl.Text != "" {
		lvlEl.Append(NewElement("w:lvlText").SetAttr("w:val", lvl.Text))
	}
	if jc := buildAlignment(lvl.Alignment); jc != nil {
		val, _ := jc.Attr("val")
		lvlEl.Append(NewElement("w:lvlJc").SetAttr("w:val", val))
	}
	pPr := NewElement("w:pPr")
	if len(lvl.Tabs) > 0 {
		tabs := NewElement("w:tabs")
		for _, tab := range lvl.Tabs {
			tabEl := NewElement("w:tab").SetAttr("w:pos", strconv.Itoa(TwipsFromPoints(tab.Position)))
			if tab.Kind != "" {
				tabEl.SetAttr("w:val", tab.Kind)
			}
			tabs.Append(tabEl)
		}
		pPr.Append(tabs)
	}
	if ind := buildIndentation(lvl.Indentation); ind != nil {
		pPr.Append(ind)
	}
	if len(pPr.Children) > 0 {
		lvlEl.Append(pPr)
	}
	if lvl.Font != "" {
		rPr := NewElement("w:rPr")
		rPr.Append(NewElement("w:rFonts").
			SetAttr("w:ascii", lvl.Font).
			SetAttr("w:hAnsi", lvl.Font))
		lvlEl.Append(rPr)
	}
	return lvlEl
}
