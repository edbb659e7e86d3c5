package wordx

import (
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
)

// builder owns the relationship-allocation counter and relationship table
// of one Build call. It is constructed fresh per call, so concurrent Build
// calls are safe.
type builder struct {
	doc       *Document
	nextRelID int
	rels      []relationship
	// mediaRelIDs maps a preserved media path to its allocated id.
	mediaRelIDs map[string]string
	// imageRelIDs maps newly introduced images to their allocated ids.
	imageRelIDs map[*Image]string
	newMedia    []newMediaEntry
	docPrID     int
	err         error
}

// newMediaEntry is a media part synthesized for an image that was not
// present in any archive part.
type newMediaEntry struct {
	name        string
	data        []byte
	contentType string
}

// Build serializes a Document model into a packaged archive. Unresolvable
// references degrade gracefully: images without media are dropped with a
// diagnostic, missing table styles and numbering definitions are
// synthesized so the output stays renderable.
func Build(doc *Document) ([]byte, error) {
	b := &builder{
		doc:         doc,
		mediaRelIDs: make(map[string]string),
		imageRelIDs: make(map[*Image]string),
	}
	return b.run()
}

// BuildFile builds the document and writes the archive to disk.
func BuildFile(doc *Document, path string) error {
	archive, err := Build(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, archive, 0o644); err != nil {
		return NewDocumentError("build", path, err)
	}
	return nil
}

func (b *builder) run() ([]byte, error) {
	// Relationship ids are fixed before any part is emitted so the body
	// builder can reference them.
	b.allocateRelationships()

	pw := newPackageWriter()
	steps := []struct {
		name string
		body func() string
	}{
		{partContentTypes, b.buildContentTypesXML},
		{partPackageRels, buildPackageRelsXML},
		{partCoreProps, buildCorePropsXML},
		{partAppProps, buildAppPropsXML},
		{partSettings, buildSettingsXML},
		{partWebSettings, buildWebSettingsXML},
		{partStyles, b.buildStylesXML},
		{partNumbering, b.buildNumberingXML},
		{partDocument, b.buildDocumentXML},
		{partDocumentRels, b.buildDocumentRelsXML},
	}
	for _, step := range steps {
		if err := pw.addXMLPart(step.name, step.body()); err != nil {
			return nil, err
		}
	}

	// Preserved media is relocated, never transformed.
	for _, name := range sortedMediaPaths(b.doc.MediaFiles) {
		if err := pw.addPart(name, b.doc.MediaFiles[name]); err != nil {
			return nil, err
		}
	}
	for _, entry := range b.newMedia {
		if err := pw.addPart("word/"+entry.name, entry.data); err != nil {
			return nil, err
		}
	}

	if b.err != nil {
		return nil, b.err
	}
	return pw.bytes()
}

// allocateRelationships assigns relationship ids deterministically: ids 1-4
// are reserved for the fixed structural parts, preserved media files take
// the next ids in archive order, and newly introduced images follow.
func (b *builder) allocateRelationships() {
	b.addRel(relTypeStyles, "styles.xml")
	b.addRel(relTypeNumbering, "numbering.xml")
	b.addRel(relTypeSettings, "settings.xml")
	b.addRel(relTypeWebSettings, "webSettings.xml")

	for _, name := range sortedMediaPaths(b.doc.MediaFiles) {
		b.mediaRelIDs[name] = b.addRel(relTypeImage, strings.TrimPrefix(name, "word/"))
	}

	imageSeq := len(b.mediaRelIDs)
	b.forEachImage(func(img *Image) {
		if img.MediaPath != "" || img.Data == "" {
			return
		}
		data, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			b.warn(fmt.Errorf("dropping image: invalid base64 data: %v", err))
			return
		}
		// Skip sequence numbers already taken by preserved media names.
		var target string
		for {
			imageSeq++
			target = fmt.Sprintf("media/image%d.%s", imageSeq, extensionForContentType(img.ContentType))
			if _, taken := b.doc.MediaFiles["word/"+target]; !taken {
				break
			}
		}
		b.imageRelIDs[img] = b.addRel(relTypeImage, target)
		b.newMedia = append(b.newMedia, newMediaEntry{
			name:        target,
			data:        data,
			contentType: img.ContentType,
		})
	})
}

func (b *builder) addRel(relType, target string) string {
	b.nextRelID++
	id := fmt.Sprintf("rId%d", b.nextRelID)
	b.rels = append(b.rels, relationship{ID: id, Type: relType, Target: target})
	return id
}

// forEachImage visits every run-embedded image in stored body order,
// descending into table cells.
func (b *builder) forEachImage(visit func(*Image)) {
	var visitParagraph func(p *Paragraph)
	visitParagraph = func(p *Paragraph) {
		for i := range p.Runs {
			if p.Runs[i].Image != nil {
				visit(p.Runs[i].Image)
			}
		}
	}
	for _, elem := range b.doc.Body {
		switch el := elem.(type) {
		case *Paragraph:
			visitParagraph(el)
		case *Table:
			for _, row := range el.Rows {
				for _, cell := range row.Cells {
					for _, p := range cell.Content {
						visitParagraph(p)
					}
				}
			}
		}
	}
}

// warn records a recoverable build failure: logged and continued by
// default, promoted to a hard error in strict mode.
func (b *builder) warn(err error) {
	if GetGlobalConfig().StrictMode {
		if b.err == nil {
			b.err = NewDocumentError("build", "", err)
		}
		return
	}
	GetLogger().Warn("%v", err)
}

func sortedMediaPaths(media map[string][]byte) []string {
	names := make([]string, 0, len(media))
	for name := range media {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b *builder) buildContentTypesXML() string {
	var sb strings.Builder
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	sb.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)

	seen := map[string]bool{"rels": true, "xml": true}
	addDefault := func(name, contentType string) {
		ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
		if ext == "" || seen[ext] {
			return
		}
		seen[ext] = true
		if contentType == "" {
			contentType = contentTypeByExtension["."+ext]
		}
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		fmt.Fprintf(&sb, `<Default Extension="%s" ContentType="%s"/>`, ext, contentType)
	}
	for _, name := range sortedMediaPaths(b.doc.MediaFiles) {
		addDefault(name, "")
	}
	for _, entry := range b.newMedia {
		addDefault(entry.name, entry.contentType)
	}

	overrides := []struct{ part, contentType string }{
		{partDocument, "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"},
		{partStyles, "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"},
		{partNumbering, "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"},
		{partSettings, "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"},
		{partWebSettings, "application/vnd.openxmlformats-officedocument.wordprocessingml.webSettings+xml"},
		{partCoreProps, "application/vnd.openxmlformats-package.core-properties+xml"},
		{partAppProps, "application/vnd.openxmlformats-officedocument.extended-properties+xml"},
	}
	for _, o := range overrides {
		fmt.Fprintf(&sb, `<Override PartName="/%s" ContentType="%s"/>`, o.part, o.contentType)
	}
	sb.WriteString(`</Types>`)
	return sb.String()
}

func buildPackageRelsXML() string {
	return `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="` + relTypeOfficeDocument + `" Target="word/document.xml"/>` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
		`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>` +
		`</Relationships>`
}

func buildCorePropsXML() string {
	return `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` +
		` xmlns:dc="http://purl.org/dc/elements/1.1/"` +
		` xmlns:dcterms="http://purl.org/dc/terms/"` +
		` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title/><dc:creator/><cp:lastModifiedBy/>` +
		`</cp:coreProperties>`
}

func buildAppPropsXML() string {
	return `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"` +
		` xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">` +
		`<Application>go-wordx</Application>` +
		`</Properties>`
}

func buildSettingsXML() string {
	return `<w:settings xmlns:w="` + nsWordML + `">` +
		`<w:defaultTabStop w:val="708"/>` +
		`</w:settings>`
}

func buildWebSettingsXML() string {
	return `<w:webSettings xmlns:w="` + nsWordML + `"/>`
}

func (b *builder) buildDocumentRelsXML() string {
	var sb strings.Builder
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, rel := range b.rels {
		fmt.Fprintf(&sb, `<Relationship Id="%s" Type="%s" Target="%s"/>`, rel.ID, rel.Type, escapeAttr(rel.Target))
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

// buildDocumentXML walks the body in stored order and dispatches each node
// to paragraph or table building, then appends the section boilerplate.
func (b *builder) buildDocumentXML() string {
	root := NewElement("w:document").
		SetAttr("xmlns:w", nsWordML).
		SetAttr("xmlns:r", nsRelationships).
		SetAttr("xmlns:wp", nsDrawingWP).
		SetAttr("xmlns:a", nsDrawingML).
		SetAttr("xmlns:pic", nsPicture).
		SetAttr("xmlns:mc", nsMarkupCompat)
	body := NewElement("w:body")
	root.Append(body)

	for _, elem := range b.doc.Body {
		switch el := elem.(type) {
		case *Paragraph:
			body.Append(b.buildParagraph(el))
		case *Table:
			body.Append(b.buildTable(el))
		}
	}
	body.Append(buildSectionProperties())
	return SerializeXML(root)
}

func buildSectionProperties() *Element {
	sectPr := NewElement("w:sectPr")
	sectPr.Append(
		NewElement("w:pgSz").SetAttr("w:w", "12240").SetAttr("w:h", "15840"),
		NewElement("w:pgMar").
			SetAttr("w:top", "1440").SetAttr("w:right", "1440").
			SetAttr("w:bottom", "1440").SetAttr("w:left", "1440").
			SetAttr("w:header", "708").SetAttr("w:footer", "708").
			SetAttr("w:gutter", "0"),
		NewElement("w:cols").SetAttr("w:space", "708"),
		NewElement("w:docGrid").SetAttr("w:linePitch", "360"),
	)
	return sectPr
}
