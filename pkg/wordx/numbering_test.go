package wordx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const numberingFixture = `<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:abstractNum w:abstractNumId="0">` +
	`<w:nsid w:val="1A2B3C4D"/>` +
	`<w:multiLevelType w:val="hybridMultilevel"/>` +
	`<w:tmpl w:val="0409001D"/>` +
	`<w:lvl w:ilvl="0">` +
	`<w:start w:val="1"/>` +
	`<w:numFmt w:val="decimal"/>` +
	`<w:lvlText w:val="%1."/>` +
	`<w:lvlJc w:val="left"/>` +
	`<w:pPr><w:tabs><w:tab w:val="num" w:pos="720"/></w:tabs><w:ind w:left="720" w:hanging="360"/></w:pPr>` +
	`</w:lvl>` +
	`<w:lvl w:ilvl="1">` +
	`<w:numFmt w:val="bullet"/>` +
	`<w:lvlText w:val="o"/>` +
	`<w:rPr><w:rFonts w:ascii="Courier New"/></w:rPr>` +
	`</w:lvl>` +
	`</w:abstractNum>` +
	`<w:num w:numId="5"><w:abstractNumId w:val="0"/></w:num>` +
	`<w:num w:numId="6"><w:abstractNumId w:val="99"/></w:num>` +
	`</w:numbering>`

func TestExtractNumbering(t *testing.T) {
	ex := &extractor{
		doc: NewDocument(),
		pkg: &packageReader{parts: map[string][]byte{
			partNumbering: []byte(numberingFixture),
		}},
	}
	ex.extractNumbering()

	def, ok := ex.doc.Numbering["5"]
	require.True(t, ok)
	assert.Equal(t, "5", def.NumID)
	assert.Equal(t, "0", def.AbstractNumID)
	assert.Equal(t, "1A2B3C4D", def.NSID)
	assert.Equal(t, "hybridMultilevel", def.MultiLevelType)
	assert.Equal(t, "0409001D", def.Template)

	require.Len(t, def.Levels, 2)
	lvl := def.Levels[0]
	assert.Equal(t, 0, lvl.Level)
	require.NotNil(t, lvl.Start)
	assert.Equal(t, 1, *lvl.Start)
	assert.Equal(t, "decimal", lvl.Format)
	assert.Equal(t, "%1.", lvl.Text)
	assert.Equal(t, AlignLeft, lvl.Alignment)
	require.NotNil(t, lvl.Indentation)
	assert.Equal(t, 36.0, *lvl.Indentation.Left)
	assert.Equal(t, 18.0, *lvl.Indentation.Hanging)
	require.Len(t, lvl.Tabs, 1)
	assert.Equal(t, 36.0, lvl.Tabs[0].Position)
	assert.Equal(t, "num", lvl.Tabs[0].Kind)

	assert.Equal(t, "bullet", def.Levels[1].Format)
	assert.Equal(t, "Courier New", def.Levels[1].Font)

	// Instance 6 points at an abstract template that does not exist.
	_, ok = ex.doc.Numbering["6"]
	assert.False(t, ok)
}

func TestExtractNumberingMissingPart(t *testing.T) {
	ex := &extractor{
		doc: NewDocument(),
		pkg: &packageReader{parts: map[string][]byte{}},
	}
	ex.extractNumbering()
	assert.Empty(t, ex.doc.Numbering)
}

func TestFallbackNumberingDefinitions(t *testing.T) {
	defs := fallbackNumberingDefinitions()
	require.Len(t, defs, 2)

	bullet, decimal := defs[0], defs[1]
	assert.Equal(t, "1", bullet.NumID)
	assert.Equal(t, "2", decimal.NumID)
	assert.NotEqual(t, bullet.AbstractNumID, decimal.AbstractNumID)

	require.Len(t, bullet.Levels, 9)
	require.Len(t, decimal.Levels, 9)

	for i, lvl := range bullet.Levels {
		assert.Equal(t, i, lvl.Level)
		assert.Equal(t, "bullet", lvl.Format)
		assert.Equal(t, "Symbol", lvl.Font)
		require.NotNil(t, lvl.Indentation)
		assert.Equal(t, float64(36*(i+1)), *lvl.Indentation.Left)
	}
	for i, lvl := range decimal.Levels {
		assert.Equal(t, "decimal", lvl.Format)
		require.NotNil(t, lvl.Start)
		assert.Equal(t, 1, *lvl.Start)
		assert.Contains(t, lvl.Text, "%")
		assert.Equal(t, i, lvl.Level)
	}
}

func TestBuildNumberingXMLFallbackWhenReferenced(t *testing.T) {
	doc := NewDocument()
	level := 0
	doc.AddParagraph(&Paragraph{
		Runs:      []Run{{Text: "item"}},
		Numbering: &NumberingRef{ID: "1", Level: &level},
	})

	b := &builder{doc: doc}
	out := b.buildNumberingXML()
	assert.Contains(t, out, "w:abstractNum")
	assert.Contains(t, out, `w:numId="1"`)
	assert.Contains(t, out, `w:val="bullet"`)
}

func TestBuildNumberingXMLEmptyWithoutReferences(t *testing.T) {
	doc := NewDocument()
	doc.AddParagraph(&Paragraph{Runs: []Run{{Text: "plain"}}})

	b := &builder{doc: doc}
	out := b.buildNumberingXML()
	assert.NotContains(t, out, "w:abstractNum")
	assert.Contains(t, out, "w:numbering")
}

func TestBuildNumberingXMLRoundTripsDefinitions(t *testing.T) {
	ex := &extractor{
		doc: NewDocument(),
		pkg: &packageReader{parts: map[string][]byte{
			partNumbering: []byte(numberingFixture),
		}},
	}
	ex.extractNumbering()

	b := &builder{doc: ex.doc}
	out := b.buildNumberingXML()

	ex2 := &extractor{
		doc: NewDocument(),
		pkg: &packageReader{parts: map[string][]byte{
			partNumbering: []byte(out),
		}},
	}
	ex2.extractNumbering()

	def, ok := ex2.doc.Numbering["5"]
	require.True(t, ok)
	require.Len(t, def.Levels, 2)
	assert.Equal(t, "decimal", def.Levels[0].Format)
	assert.Equal(t, "%1.", def.Levels[0].Text)
	assert.Equal(t, "Courier New", def.Levels[1].Font)
}
