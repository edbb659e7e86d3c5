package wordx

import "strings"

// themeFonts holds the concrete typefaces of the theme part's font scheme.
type themeFonts struct {
	major string // major Latin
	minor string // minor Latin
}

// loadTheme reads the theme part's font scheme. Failure to locate the part
// or the scheme is non-fatal: theme resolution is simply skipped and
// placeholders stay unresolved.
func (ex *extractor) loadTheme() {
	text, ok := ex.pkg.xmlPart(partTheme)
	if !ok {
		return
	}
	root, err := ParseXML(text)
	if err != nil {
		GetLogger().Warn("skipping theme resolution: %v", err)
		return
	}
	scheme := root.FindDescendant("fontScheme")
	if scheme == nil {
		GetLogger().Warn("skipping theme resolution: no font scheme in %s", partTheme)
		return
	}
	ex.theme = &themeFonts{}
	if major := scheme.FirstChild("majorFont"); major != nil {
		if latin := major.FirstChild("latin"); latin != nil {
			ex.theme.major, _ = latin.Attr("typeface")
		}
	}
	if minor := scheme.FirstChild("minorFont"); minor != nil {
		if latin := minor.FirstChild("latin"); latin != nil {
			ex.theme.minor, _ = latin.Attr("typeface")
		}
	}
}

// resolve substitutes the concrete typeface for a theme placeholder such as
// "+mn-lt" or "majorHAnsi". Empty result means the scheme had no entry.
func (tf *themeFonts) resolve(placeholder string) string {
	if tf == nil {
		return ""
	}
	p := strings.ToLower(placeholder)
	if strings.Contains(p, "major") || strings.Contains(p, "mj") {
		return tf.major
	}
	return tf.minor
}

// extractStyles reads the document-defaults block and the flat style
// catalog from the styles part.
func (ex *extractor) extractStyles() {
	text, ok := ex.pkg.xmlPart(partStyles)
	if !ok {
		return
	}
	root, err := ParseXML(text)
	if err != nil {
		GetLogger().Warn("skipping styles: %v", err)
		return
	}

	if defaults := root.FirstChild("docDefaults"); defaults != nil {
		if rd := defaults.FirstChild("rPrDefault"); rd != nil {
			ex.doc.Defaults = ex.parseRunFormatting(rd.FirstChild("rPr"))
		}
		if pd := defaults.FirstChild("pPrDefault"); pd != nil {
			ex.doc.ParagraphDefaults = ex.parseParagraphFormatting(pd.FirstChild("pPr"))
		}
	}

	for _, styleEl := range root.ChildElements("style") {
		info := ex.parseStyle(styleEl)
		if info.StyleID == "" {
			continue
		}
		ex.doc.Styles[info.StyleID] = info
	}
}

// parseStyle decodes one style catalog entry. Inheritance pointers are kept
// as ids; table-type styles keep their properties subtree verbatim.
func (ex *extractor) parseStyle(el *Element) *StyleInfo {
	info := &StyleInfo{}
	info.StyleID, _ = el.Attr("styleId")
	if t, ok := el.Attr("type"); ok {
		info.Type = StyleType(t)
	}
	info.Default = el.BoolAttr("default", false)

	if name := el.FirstChild("name"); name != nil {
		info.Name, _ = name.Attr("val")
	}
	if basedOn := el.FirstChild("basedOn"); basedOn != nil {
		info.BasedOn, _ = basedOn.Attr("val")
	}
	if next := el.FirstChild("next"); next != nil {
		info.Next, _ = next.Attr("val")
	}
	if link := el.FirstChild("link"); link != nil {
		info.Link, _ = link.Attr("val")
	}
	info.QFormat = el.FirstChild("qFormat") != nil
	info.UnhideWhenUsed = el.FirstChild("unhideWhenUsed") != nil
	if prio := el.FirstChild("uiPriority"); prio != nil {
		if n, ok := prio.IntAttr("val"); ok {
			info.UIPriority = &n
		}
	}

	info.RunFormatting = ex.parseRunFormatting(el.FirstChild("rPr"))
	info.ParagraphFormatting = ex.parseParagraphFormatting(el.FirstChild("pPr"))

	// Table styles are not structurally decomposed; the properties
	// subtree is carried as text and re-inserted at build time.
	if info.Type == StyleTypeTable {
		if tblPr := el.FirstChild("tblPr"); tblPr != nil {
			info.TablePropertiesXml = SerializeXML(tblPr)
		}
	}
	return info
}

// parseRunFormatting decodes an rPr block. Returns nil when the block is
// absent or carries nothing the model tracks.
func (ex *extractor) parseRunFormatting(rPr *Element) *RunFormatting {
	if rPr == nil {
		return nil
	}
	f := &RunFormatting{}
	set := false

	if b := rPr.FirstChild("b"); b != nil {
		v := b.BoolAttr("val", true)
		f.Bold = &v
		set = true
	}
	if i := rPr.FirstChild("i"); i != nil {
		v := i.BoolAttr("val", true)
		f.Italic = &v
		set = true
	}
	if s := rPr.FirstChild("strike"); s != nil {
		v := s.BoolAttr("val", true)
		f.Strike = &v
		set = true
	}
	if u := rPr.FirstChild("u"); u != nil {
		if v, ok := u.Attr("val"); ok && v != "none" {
			f.Underline = v
			set = true
		}
	}
	if va := rPr.FirstChild("vertAlign"); va != nil {
		switch v, _ := va.Attr("val"); v {
		case "superscript":
			f.VerticalAlign = VerticalAlignSuperscript
			set = true
		case "subscript":
			f.VerticalAlign = VerticalAlignSubscript
			set = true
		}
	}
	if c := rPr.FirstChild("color"); c != nil {
		if v, ok := c.Attr("val"); ok && v != "auto" {
			f.Color = v
			set = true
		}
	}
	if h := rPr.FirstChild("highlight"); h != nil {
		if v, ok := h.Attr("val"); ok && v != "none" {
			f.Highlight = v
			set = true
		}
	}
	if sz := rPr.FirstChild("sz"); sz != nil {
		// Font size is stored in half-points.
		if n, ok := sz.IntAttr("val"); ok {
			pt := float64(n) / 2
			f.Size = &pt
			set = true
		}
	}
	if fonts := rPr.FirstChild("rFonts"); fonts != nil {
		ascii, _ := fonts.Attr("ascii")
		themeRef, hasTheme := fonts.Attr("asciiTheme")
		if !hasTheme && strings.HasPrefix(ascii, "+") {
			themeRef, hasTheme = ascii, true
			ascii = ""
		}
		if hasTheme {
			f.ThemeFont = themeRef
			if concrete := ex.theme.resolve(themeRef); concrete != "" {
				f.Font = concrete
			}
			set = true
		}
		if ascii != "" {
			f.Font = ascii
			set = true
		}
	}

	if !set {
		return nil
	}
	return f
}

// parseParagraphFormatting decodes a pPr block as carried by a style
// definition or the document defaults. The numbering level marker is never
// defaulted here.
func (ex *extractor) parseParagraphFormatting(pPr *Element) *ParagraphFormatting {
	if pPr == nil {
		return nil
	}
	f := &ParagraphFormatting{}
	set := false

	if sp := parseSpacing(pPr.FirstChild("spacing")); sp != nil {
		f.Spacing = sp
		set = true
	}
	if al := parseAlignment(pPr.FirstChild("jc")); al != "" {
		f.Alignment = al
		set = true
	}
	if ind := parseIndentation(pPr.FirstChild("ind")); ind != nil {
		f.Indentation = ind
		set = true
	}
	if ref := parseNumberingRef(pPr.FirstChild("numPr")); ref != nil {
		f.Numbering = ref
		set = true
	}
	if pPr.FirstChild("keepNext") != nil {
		f.KeepNext = true
		set = true
	}
	if pPr.FirstChild("keepLines") != nil {
		f.KeepLines = true
		set = true
	}
	if pPr.FirstChild("contextualSpacing") != nil {
		f.ContextualSpacing = true
		set = true
	}
	if lvl := pPr.FirstChild("outlineLvl"); lvl != nil {
		if n, ok := lvl.IntAttr("val"); ok {
			f.OutlineLevel = &n
			set = true
		}
	}

	if !set {
		return nil
	}
	return f
}

func parseSpacing(el *Element) *Spacing {
	if el == nil {
		return nil
	}
	sp := &Spacing{
		Before: el.LengthAttr("before", UnitTwips),
		After:  el.LengthAttr("after", UnitTwips),
		Line:   el.LengthAttr("line", UnitTwips),
	}
	if rule, ok := el.Attr("lineRule"); ok {
		switch rule {
		case "auto", "exactly", "atLeast":
			sp.LineRule = LineRule(rule)
		}
	}
	if sp.Before == nil && sp.After == nil && sp.Line == nil && sp.LineRule == "" {
		return nil
	}
	return sp
}

func parseIndentation(el *Element) *Indentation {
	if el == nil {
		return nil
	}
	ind := &Indentation{
		Left:      firstLength(el, UnitTwips, "left", "start"),
		Right:     firstLength(el, UnitTwips, "right", "end"),
		FirstLine: el.LengthAttr("firstLine", UnitTwips),
		Hanging:   el.LengthAttr("hanging", UnitTwips),
	}
	if ind.Left == nil && ind.Right == nil && ind.FirstLine == nil && ind.Hanging == nil {
		return nil
	}
	return ind
}

func firstLength(el *Element, unit LengthUnit, names ...string) *float64 {
	for _, name := range names {
		if v := el.LengthAttr(name, unit); v != nil {
			return v
		}
	}
	return nil
}

// parseAlignment normalizes a jc value: the format's start/end and both
// aliases map to left/right/justify.
func parseAlignment(el *Element) Alignment {
	if el == nil {
		return ""
	}
	v, _ := el.Attr("val")
	switch v {
	case "left", "start":
		return AlignLeft
	case "right", "end":
		return AlignRight
	case "center":
		return AlignCenter
	case "justify", "both":
		return AlignJustify
	}
	return ""
}

// parseNumberingRef decodes a numPr block. Level stays nil when the source
// omitted the level marker.
func parseNumberingRef(el *Element) *NumberingRef {
	if el == nil {
		return nil
	}
	ref := &NumberingRef{}
	if numID := el.FirstChild("numId"); numID != nil {
		ref.ID, _ = numID.Attr("val")
	}
	if ref.ID == "" {
		return nil
	}
	if ilvl := el.FirstChild("ilvl"); ilvl != nil {
		if n, ok := ilvl.IntAttr("val"); ok {
			ref.Level = &n
		}
	}
	return ref
}
