package wordx

import "strconv"

// abstractNumbering is the reusable list-formatting template side of the
// format's two-tier numbering model.
type abstractNumbering struct {
	id             string
	nsid           string
	multiLevelType string
	template       string
	levels         []NumberingLevel
}

// extractNumbering reads abstract numbering templates first, then resolves
// each numbering instance against them. Instances whose abstract id is
// unresolvable are discarded.
func (ex *extractor) extractNumbering() {
	text, ok := ex.pkg.xmlPart(partNumbering)
	if !ok {
		return
	}
	root, err := ParseXML(text)
	if err != nil {
		GetLogger().Warn("skipping numbering: %v", err)
		return
	}

	abstract := make(map[string]*abstractNumbering)
	for _, el := range root.ChildElements("abstractNum") {
		an := parseAbstractNumbering(el)
		if an.id != "" {
			abstract[an.id] = an
		}
	}

	for _, el := range root.ChildElements("num") {
		numID, _ := el.Attr("numId")
		if numID == "" {
			continue
		}
		abstractRef := el.FirstChild("abstractNumId")
		if abstractRef == nil {
			continue
		}
		abstractID, _ := abstractRef.Attr("val")
		an, ok := abstract[abstractID]
		if !ok {
			GetLogger().Debug("discarding numbering instance %s: abstract id %s unresolvable", numID, abstractID)
			continue
		}
		ex.doc.Numbering[numID] = &NumberingDefinition{
			NumID:          numID,
			AbstractNumID:  an.id,
			NSID:           an.nsid,
			MultiLevelType: an.multiLevelType,
			Template:       an.template,
			Levels:         an.levels,
		}
	}
}

func parseAbstractNumbering(el *Element) *abstractNumbering {
	an := &abstractNumbering{}
	an.id, _ = el.Attr("abstractNumId")
	if nsid := el.FirstChild("nsid"); nsid != nil {
		an.nsid, _ = nsid.Attr("val")
	}
	if mlt := el.FirstChild("multiLevelType"); mlt != nil {
		an.multiLevelType, _ = mlt.Attr("val")
	}
	if tmpl := el.FirstChild("tmpl"); tmpl != nil {
		an.template, _ = tmpl.Attr("val")
	}
	for _, lvlEl := range el.ChildElements("lvl") {
		an.levels = append(an.levels, parseNumberingLevel(lvlEl))
	}
	return an
}

func parseNumberingLevel(el *Element) NumberingLevel {
	lvl := NumberingLevel{}
	if n, ok := el.IntAttr("ilvl"); ok {
		lvl.Level = n
	}
	if start := el.FirstChild("start"); start != nil {
		if n, ok := start.IntAttr("val"); ok {
			lvl.Start = &n
		}
	}
	if numFmt := el.FirstChild("numFmt"); numFmt != nil {
		// Free-form keyword, pass-through: bullet, decimal, lowerRoman, ...
		lvl.Format, _ = numFmt.Attr("val")
	}
	if lvlText := el.FirstChild("lvlText"); lvlText != nil {
		lvl.Text, _ = lvlText.Attr("val")
	}
	lvl.Alignment = parseAlignment(el.FirstChild("lvlJc"))
	if pPr := el.FirstChild("pPr"); pPr != nil {
		lvl.Indentation = parseIndentation(pPr.FirstChild("ind"))
		if tabs := pPr.FirstChild("tabs"); tabs != nil {
			for _, tab := range tabs.ChildElements("tab") {
				pos := tab.LengthAttr("pos", UnitTwips)
				if pos == nil {
					continue
				}
				kind, _ := tab.Attr("val")
				lvl.Tabs = append(lvl.Tabs, TabStop{Position: *pos, Kind: kind})
			}
		}
	}
	if rPr := el.FirstChild("rPr"); rPr != nil {
		if fonts := rPr.FirstChild("rFonts"); fonts != nil {
			lvl.Font, _ = fonts.Attr("ascii")
		}
	}
	return lvl
}

// fallbackNumberingDefinitions synthesizes a generic bullet list bound to
// id "1" and a decimal list bound to id "2". They keep the output
// renderable when paragraphs reference numbering the model never carried.
func fallbackNumberingDefinitions() []*NumberingDefinition {
	indent := func(level int) *Indentation {
		left := float64(36 * (level + 1))
		hanging := 18.0
		return &Indentation{Left: &left, Hanging: &hanging}
	}
	one := 1
	bullet := &NumberingDefinition{NumID: "1", AbstractNumID: "0"}
	decimal := &NumberingDefinition{NumID: "2", AbstractNumID: "1"}
	for level := 0; level < 9; level++ {
		bullet.Levels = append(bullet.Levels, NumberingLevel{
			Level:       level,
			Format:      "bullet",
			Text:        "•",
			Alignment:   AlignLeft,
			Indentation: indent(level),
			Font:        "Symbol",
		})
		start := one
		decimal.Levels = append(decimal.Levels, NumberingLevel{
			Level:       level,
			Start:       &start,
			Format:      "decimal",
			Text:        "%" + strconv.Itoa(level+1) + ".",
			Alignment:   AlignLeft,
			Indentation: indent(level),
		})
	}
	return []*NumberingDefinition{bullet, decimal}
}
