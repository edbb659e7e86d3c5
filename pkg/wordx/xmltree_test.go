package wordx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseXML(t *testing.T) {
	tests := []struct {
		name    string
		xml     string
		wantErr bool
		check   func(t *testing.T, root *Element)
	}{
		{
			name: "simple paragraph with declared namespace",
			xml:  `<w:p xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:r><w:t>Hello</w:t></w:r></w:p>`,
			check: func(t *testing.T, root *Element) {
				assert.Equal(t, "p", root.Tag)
				assert.Equal(t, "w:p", root.OriginalTag)
				r := root.FirstChild("r")
				require.NotNil(t, r)
				tEl := r.FirstChild("t")
				require.NotNil(t, tEl)
				assert.Equal(t, "Hello", tEl.Text())
			},
		},
		{
			name: "undeclared prefix resolves through the canonical table",
			xml:  `<w:p><w:r><w:t>Hi</w:t></w:r></w:p>`,
			check: func(t *testing.T, root *Element) {
				assert.Equal(t, "p", root.Tag)
				assert.Equal(t, "w:p", root.OriginalTag)
				require.NotNil(t, root.FirstChild("r"))
			},
		},
		{
			name: "layout whitespace is pruned from containers",
			xml: `<w:p>
	<w:r>
		<w:t>kept </w:t>
	</w:r>
</w:p>`,
			check: func(t *testing.T, root *Element) {
				require.Len(t, root.Children, 1)
				tEl := root.FindDescendant("t")
				require.NotNil(t, tEl)
				assert.Equal(t, "kept ", tEl.Text())
			},
		},
		{
			name:    "malformed markup fails",
			xml:     `<w:p><w:r></w:p>`,
			wantErr: true,
		},
		{
			name:    "empty input fails",
			xml:     ``,
			wantErr: true,
		},
		{
			name:    "multiple roots fail",
			xml:     `<a/><b/>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := ParseXML(tt.xml)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsParseError(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, root)
		})
	}
}

func TestSerializeXMLRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{
			name: "compact paragraph reproduces exactly",
			xml:  `<w:p xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:r><w:t>Hello</w:t></w:r></w:p>`,
		},
		{
			name: "self-closing empty elements",
			xml:  `<w:p><w:pPr><w:keepNext/></w:pPr></w:p>`,
		},
		{
			name: "attributes and escaping survive",
			xml:  `<w:t xml:space="preserve">a &lt;b&gt; &amp;c</w:t>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := ParseXML(tt.xml)
			require.NoError(t, err)
			assert.Equal(t, tt.xml, SerializeXML(root))
		})
	}
}

func TestElementAttrLookup(t *testing.T) {
	root, err := ParseXML(`<root xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
		` plain="1" w:val="prefixed" r:embed="rId3"/>`)
	require.NoError(t, err)

	v, ok := root.Attr("plain")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	v, ok = root.Attr("val")
	require.True(t, ok)
	assert.Equal(t, "prefixed", v)

	v, ok = root.Attr("embed")
	require.True(t, ok)
	assert.Equal(t, "rId3", v)

	_, ok = root.Attr("missing")
	assert.False(t, ok)
}

func TestElementAttrBarePrefix(t *testing.T) {
	// No xmlns declarations at all: the tokenizer keeps bare prefixes.
	root, err := ParseXML(`<w:jc w:val="center"/>`)
	require.NoError(t, err)
	v, ok := root.Attr("val")
	require.True(t, ok)
	assert.Equal(t, "center", v)
}

func TestBoolAttr(t *testing.T) {
	root, err := ParseXML(`<w:b w:val="0"/>`)
	require.NoError(t, err)
	assert.False(t, root.BoolAttr("val", true))

	root, err = ParseXML(`<w:b/>`)
	require.NoError(t, err)
	assert.True(t, root.BoolAttr("val", true))

	root, err = ParseXML(`<w:b w:val="true"/>`)
	require.NoError(t, err)
	assert.True(t, root.BoolAttr("val", false))
}

func TestLengthAttr(t *testing.T) {
	root, err := ParseXML(`<w:ind w:left="240" w:right="junk"/>`)
	require.NoError(t, err)

	left := root.LengthAttr("left", UnitTwips)
	require.NotNil(t, left)
	assert.Equal(t, 12.0, *left)

	assert.Nil(t, root.LengthAttr("right", UnitTwips))
	assert.Nil(t, root.LengthAttr("absent", UnitTwips))

	root, err = ParseXML(`<wp:extent cx="914400"/>`)
	require.NoError(t, err)
	cx := root.LengthAttr("cx", UnitEMU)
	require.NotNil(t, cx)
	assert.Equal(t, 72.0, *cx)
}

func TestUnitConversions(t *testing.T) {
	assert.Equal(t, 240, TwipsFromPoints(12))
	assert.Equal(t, 241, TwipsFromPoints(12.05))
	assert.Equal(t, int64(914400), EMUFromPoints(72))
}

func TestNewElementAndSetAttr(t *testing.T) {
	el := NewElement("w:pStyle").SetAttr("w:val", "Heading1")
	assert.Equal(t, "pStyle", el.Tag)
	assert.Equal(t, nsWordML, el.Space)
	assert.Equal(t, `<w:pStyle w:val="Heading1"/>`, SerializeXML(el))

	// SetAttr overwrites in place.
	el.SetAttr("w:val", "Heading2")
	v, _ := el.Attr("val")
	assert.Equal(t, "Heading2", v)
	assert.Len(t, el.Attrs, 1)
}
