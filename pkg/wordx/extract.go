package wordx

import (
	"errors"
	"os"
)

// extractor accumulates the resolver state of one Extract call: the
// relationship table, the style catalog, the numbering map and the theme
// fonts. It is constructed fresh per call and never shared, so concurrent
// Extract calls are safe.
type extractor struct {
	pkg   *packageReader
	doc   *Document
	rels  map[string]string
	theme *themeFonts
	err   error // first recoverable failure, promoted by strict mode
}

// Extract parses a packaged document into a Document model. It fails when
// the primary document part or its body element is missing; every other
// failure mode is recovered and the extraction continues.
func Extract(archive []byte) (*Document, error) {
	pkg, err := openPackage(archive)
	if err != nil {
		return nil, err
	}
	ex := &extractor{
		pkg:  pkg,
		doc:  NewDocument(),
		rels: make(map[string]string),
	}
	return ex.run()
}

// ExtractFile reads a packaged document from disk and extracts it.
func ExtractFile(path string) (*Document, error) {
	archive, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("extract", path, err)
	}
	return Extract(archive)
}

func (ex *extractor) run() (*Document, error) {
	// Resolver state loads before the body walk; run and paragraph
	// extraction depends on all of it being in place.
	ex.loadRelationships()
	// Every media part is preserved, referenced by a drawing or not.
	for _, name := range ex.pkg.mediaParts() {
		if data, ok := ex.pkg.part(name); ok {
			ex.doc.MediaFiles[name] = data
		}
	}
	ex.loadTheme()
	ex.extractStyles()
	ex.extractNumbering()

	text, _ := ex.pkg.xmlPart(partDocument)
	root, err := ParseXML(text)
	if err != nil {
		return nil, NewDocumentError("extract", partDocument, err)
	}
	body := root.FirstChild("body")
	if body == nil {
		return nil, NewDocumentError("extract", partDocument, errors.New("document has no body element"))
	}

	for _, child := range body.ChildElements("") {
		switch child.Tag {
		case "p":
			ex.doc.AddParagraph(ex.extractParagraph(child))
		case "tbl":
			ex.doc.AddTable(ex.extractTable(child))
		}
	}

	if ex.err != nil {
		return nil, ex.err
	}
	return ex.doc, nil
}

// warn records a recoverable failure: logged and continued by default,
// promoted to a hard error in strict mode.
func (ex *extractor) warn(err error) {
	if GetGlobalConfig().StrictMode {
		if ex.err == nil {
			ex.err = NewDocumentError("extract", "", err)
		}
		return
	}
	GetLogger().Warn("%v", err)
}
