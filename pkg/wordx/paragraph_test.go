package wordx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractParagraph(t *testing.T) {
	ex := &extractor{doc: NewDocument()}

	tests := []struct {
		name  string
		xml   string
		check func(t *testing.T, p *Paragraph)
	}{
		{
			name: "text in several runs",
			xml:  `<w:p><w:r><w:t>Hello </w:t></w:r><w:r><w:t>World</w:t></w:r></w:p>`,
			check: func(t *testing.T, p *Paragraph) {
				require.Len(t, p.Runs, 2)
				assert.Equal(t, "Hello World", p.Text())
			},
		},
		{
			name: "style alignment spacing indentation numbering",
			xml: `<w:p><w:pPr>` +
				`<w:pStyle w:val="Heading1"/>` +
				`<w:jc w:val="both"/>` +
				`<w:spacing w:before="120" w:after="240"/>` +
				`<w:ind w:left="720"/>` +
				`<w:numPr><w:ilvl w:val="1"/><w:numId w:val="5"/></w:numPr>` +
				`</w:pPr><w:r><w:t>x</w:t></w:r></w:p>`,
			check: func(t *testing.T, p *Paragraph) {
				assert.Equal(t, "Heading1", p.StyleName)
				assert.Equal(t, AlignJustify, p.Alignment)
				require.NotNil(t, p.Spacing)
				assert.Equal(t, 6.0, *p.Spacing.Before)
				require.NotNil(t, p.Indentation)
				assert.Equal(t, 36.0, *p.Indentation.Left)
				require.NotNil(t, p.Numbering)
				assert.Equal(t, "5", p.Numbering.ID)
				require.NotNil(t, p.Numbering.Level)
				assert.Equal(t, 1, *p.Numbering.Level)
			},
		},
		{
			name: "numbering without level marker keeps level nil",
			xml:  `<w:p><w:pPr><w:numPr><w:numId w:val="3"/></w:numPr></w:pPr></w:p>`,
			check: func(t *testing.T, p *Paragraph) {
				require.NotNil(t, p.Numbering)
				assert.Equal(t, "3", p.Numbering.ID)
				assert.Nil(t, p.Numbering.Level)
			},
		},
		{
			name: "only the first properties block is recognized",
			xml: `<w:p>` +
				`<w:pPr><w:pStyle w:val="First"/></w:pPr>` +
				`<w:pPr><w:pStyle w:val="Second"/></w:pPr>` +
				`<w:r><w:t>x</w:t></w:r></w:p>`,
			check: func(t *testing.T, p *Paragraph) {
				assert.Equal(t, "First", p.StyleName)
			},
		},
		{
			name: "hyperlink runs keep their text",
			xml: `<w:p><w:r><w:t>see </w:t></w:r>` +
				`<w:hyperlink r:id="rId9"><w:r><w:t>the docs</w:t></w:r></w:hyperlink></w:p>`,
			check: func(t *testing.T, p *Paragraph) {
				require.Len(t, p.Runs, 2)
				assert.Equal(t, "see the docs", p.Text())
			},
		},
		{
			name: "empty paragraph",
			xml:  `<w:p/>`,
			check: func(t *testing.T, p *Paragraph) {
				assert.Empty(t, p.Runs)
				assert.True(t, p.IsEmpty())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ex.extractParagraph(mustParse(t, tt.xml))
			require.NotNil(t, p)
			tt.check(t, p)
		})
	}
}

func TestExtractRunBreakMarkers(t *testing.T) {
	ex := &extractor{doc: NewDocument()}

	tests := []struct {
		name string
		xml  string
		want string
	}{
		{
			name: "tab marker",
			xml:  `<w:r><w:t>a</w:t><w:tab/><w:t>b</w:t></w:r>`,
			want: "a\tb",
		},
		{
			name: "line break",
			xml:  `<w:r><w:t>a</w:t><w:br/><w:t>b</w:t></w:r>`,
			want: "a\nb",
		},
		{
			name: "page break",
			xml:  `<w:r><w:t>a</w:t><w:br w:type="page"/><w:t>b</w:t></w:r>`,
			want: "a\fb",
		},
		{
			name: "carriage return",
			xml:  `<w:r><w:t>a</w:t><w:cr/><w:t>b</w:t></w:r>`,
			want: "a\nb",
		},
		{
			name: "line terminators in literal text become spaces",
			xml:  "<w:r><w:t>a\u2028b\u2029c\u0085d</w:t></w:r>",
			want: "a b c d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := ex.extractRun(mustParse(t, tt.xml))
			assert.Equal(t, tt.want, run.Text)
		})
	}
}

func TestExtractRunImageExcludesText(t *testing.T) {
	media := []byte{0x89, 'P', 'N', 'G'}
	ex := &extractor{
		doc:  NewDocument(),
		rels: map[string]string{"rId7": "media/image1.png"},
		pkg: &packageReader{parts: map[string][]byte{
			"word/media/image1.png": media,
		}},
	}

	run := ex.extractRun(mustParse(t, `<w:r>`+
		`<w:t>caption text</w:t>`+
		`<w:drawing><wp:inline><wp:extent cx="914400" cy="457200"/>`+
		`<a:graphic><a:graphicData><pic:pic><pic:blipFill>`+
		`<a:blip r:embed="rId7"/>`+
		`</pic:blipFill></pic:pic></a:graphicData></a:graphic>`+
		`</wp:inline></w:drawing></w:r>`))

	require.NotNil(t, run.Image)
	assert.Empty(t, run.Text, "a run holds text or an image, never both")
	assert.Equal(t, "word/media/image1.png", run.Image.MediaPath)
	assert.Equal(t, "image/png", run.Image.ContentType)
	require.NotNil(t, run.Image.Width)
	assert.Equal(t, 72.0, *run.Image.Width)
	require.NotNil(t, run.Image.Height)
	assert.Equal(t, 36.0, *run.Image.Height)
	assert.Equal(t, media, ex.doc.MediaFiles["word/media/image1.png"])
	assert.NotEmpty(t, run.Image.DrawingXML)
}

func TestExtractRunUnresolvedImageIsDropped(t *testing.T) {
	ex := &extractor{
		doc:  NewDocument(),
		rels: map[string]string{},
		pkg:  &packageReader{parts: map[string][]byte{}},
	}

	run := ex.extractRun(mustParse(t, `<w:r><w:t>kept</w:t>` +
		`<w:drawing><wp:inline><a:graphic><a:blip r:embed="rId1"/></a:graphic></wp:inline></w:drawing></w:r>`))

	assert.Nil(t, run.Image)
	assert.Equal(t, "kept", run.Text)
}

func TestBuildRunSplitsTextIntoMarkers(t *testing.T) {
	b := &builder{doc: NewDocument()}
	rEl := b.buildRun(&Run{Text: "a\tb\nc\fd"})

	var tags []string
	for _, child := range rEl.ChildElements("") {
		tags = append(tags, child.Tag)
	}
	assert.Equal(t, []string{"t", "tab", "t", "br", "t", "br", "t"}, tags)

	brs := rEl.ChildElements("br")
	require.Len(t, brs, 2)
	_, hasType := brs[0].Attr("type")
	assert.False(t, hasType)
	pageType, _ := brs[1].Attr("type")
	assert.Equal(t, "page", pageType)
}

func TestBuildRunEmptyEmitsEmptyText(t *testing.T) {
	b := &builder{doc: NewDocument()}
	rEl := b.buildRun(&Run{})

	tEl := rEl.FirstChild("t")
	require.NotNil(t, tEl)
	assert.Equal(t, "", tEl.Text())
	space, _ := tEl.Attr("space")
	assert.Equal(t, "preserve", space)
	// The text element must serialize with an explicit open/close pair.
	assert.Equal(t, `<w:t xml:space="preserve"></w:t>`, SerializeXML(tEl))
}

func TestBuildParagraphWithoutRuns(t *testing.T) {
	b := &builder{doc: NewDocument()}
	pEl := b.buildParagraph(&Paragraph{})

	runs := pEl.ChildElements("r")
	require.Len(t, runs, 1)
	require.NotNil(t, runs[0].FirstChild("t"))
}

func TestBuildParagraphProperties(t *testing.T) {
	six := 6.0
	p := &Paragraph{
		StyleName:   "ListParagraph",
		Alignment:   AlignJustify,
		Spacing:     &Spacing{After: &six},
		Numbering:   &NumberingRef{ID: "5"},
		Indentation: &Indentation{Left: &six},
	}
	pPr := buildParagraphProperties(p)
	require.NotNil(t, pPr)

	style, _ := pPr.FirstChild("pStyle").Attr("val")
	assert.Equal(t, "ListParagraph", style)

	jc, _ := pPr.FirstChild("jc").Attr("val")
	assert.Equal(t, "both", jc, "justify re-emits as the format's 'both'")

	after, _ := pPr.FirstChild("spacing").Attr("after")
	assert.Equal(t, "120", after)

	left, _ := pPr.FirstChild("ind").Attr("left")
	assert.Equal(t, "120", left)

	numPr := pPr.FirstChild("numPr")
	require.NotNil(t, numPr)
	ilvl, _ := numPr.FirstChild("ilvl").Attr("val")
	assert.Equal(t, "0", ilvl, "absent level defaults to 0 on paragraph references")
	numID, _ := numPr.FirstChild("numId").Attr("val")
	assert.Equal(t, "5", numID)
}

func TestBuildRunPropertiesRoundTrip(t *testing.T) {
	boldOff := false
	size := 12.0
	f := &RunFormatting{
		Bold:      &boldOff,
		Underline: "single",
		Color:     "FF0000",
		Size:      &size,
		Font:      "Arial",
	}
	rPr := buildRunProperties(f)
	require.NotNil(t, rPr)

	ex := &extractor{doc: NewDocument()}
	parsed := ex.parseRunFormatting(mustParse(t, SerializeXML(rPr)))
	require.NotNil(t, parsed)
	require.NotNil(t, parsed.Bold)
	assert.False(t, *parsed.Bold, "explicit false survives as w:val=\"0\"")
	assert.Equal(t, "single", parsed.Underline)
	assert.Equal(t, "FF0000", parsed.Color)
	assert.Equal(t, 12.0, *parsed.Size)
	assert.Equal(t, "Arial", parsed.Font)
}
