package wordx

import "strings"

// lineTerminatorReplacer normalizes the Unicode line-terminator variants
// that may occur inside literal run text. Downstream consumers treat them
// as rendering hazards, not structure; explicit break markers are the only
// way a run encodes a line break.
var lineTerminatorReplacer = strings.NewReplacer(
	"\u2028", " ", // line separator
	"\u2029", " ", // paragraph separator
	"\u0085", " ", // next line
	"\v", " ", // vertical tab
	"\f", " ", // form feed inside literal text, not a break marker
)

// extractParagraph converts a <p> subtree into a Paragraph. Exactly one
// paragraph-properties block is recognized, followed by zero or more runs.
func (ex *extractor) extractParagraph(el *Element) *Paragraph {
	p := &Paragraph{}
	sawProps := false

	for _, child := range el.ChildElements("") {
		switch child.Tag {
		case "pPr":
			if sawProps {
				continue
			}
			sawProps = true
			ex.applyParagraphProperties(p, child)
		case "r":
			p.Runs = append(p.Runs, ex.extractRun(child))
		case "hyperlink":
			// Hyperlink targets are not modeled; the wrapped runs keep
			// their text.
			for _, r := range child.ChildElements("r") {
				p.Runs = append(p.Runs, ex.extractRun(r))
			}
		}
	}
	return p
}

func (ex *extractor) applyParagraphProperties(p *Paragraph, pPr *Element) {
	if style := pPr.FirstChild("pStyle"); style != nil {
		p.StyleName, _ = style.Attr("val")
	}
	p.Alignment = parseAlignment(pPr.FirstChild("jc"))
	p.Spacing = parseSpacing(pPr.FirstChild("spacing"))
	p.Indentation = parseIndentation(pPr.FirstChild("ind"))
	p.Numbering = parseNumberingRef(pPr.FirstChild("numPr"))
}

// extractRun converts an <r> subtree into a Run. Text assembly concatenates
// literal text, a tab character for tab markers, and '\n' or '\f' for break
// markers ('\f' distinguishes an explicit page break). A run holds image
// content instead of text when it contains a drawing child; legacy VML
// pictures are recognized but not decoded.
func (ex *extractor) extractRun(el *Element) Run {
	run := Run{
		Formatting: ex.parseRunFormatting(el.FirstChild("rPr")),
	}

	var sb strings.Builder
	for _, child := range el.ChildElements("") {
		switch child.Tag {
		case "t":
			sb.WriteString(lineTerminatorReplacer.Replace(child.Text()))
		case "tab":
			sb.WriteByte('\t')
		case "br":
			if kind, _ := child.Attr("type"); kind == "page" {
				sb.WriteByte('\f')
			} else {
				sb.WriteByte('\n')
			}
		case "cr":
			sb.WriteByte('\n')
		case "drawing":
			if img := ex.extractImage(child); img != nil {
				run.Image = img
			}
		case "pict", "object":
			// VML legacy pictures stay undecoded.
		}
	}

	if run.Image == nil {
		run.Text = sb.String()
	}
	return run
}
