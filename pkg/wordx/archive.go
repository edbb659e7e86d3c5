package wordx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Well-known part names of the package layout.
const (
	partContentTypes = "[Content_Types].xml"
	partPackageRels  = "_rels/.rels"
	partCoreProps    = "docProps/core.xml"
	partAppProps     = "docProps/app.xml"
	partDocument     = "word/document.xml"
	partStyles       = "word/styles.xml"
	partNumbering    = "word/numbering.xml"
	partSettings     = "word/settings.xml"
	partWebSettings  = "word/webSettings.xml"
	partDocumentRels = "word/_rels/document.xml.rels"
	partTheme        = "word/theme/theme1.xml"
)

// packageReader gives name-indexed access to the parts of one archive.
type packageReader struct {
	parts map[string][]byte
	names []string // archive iteration order
}

// openPackage reads a zip-packaged document into memory. A package without
// the primary document part is rejected outright.
func openPackage(archive []byte) (*packageReader, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, NewDocumentError("open", "", fmt.Errorf("failed to read zip archive: %w", err))
	}

	pr := &packageReader{parts: make(map[string][]byte, len(zr.File))}
	for _, file := range zr.File {
		rc, err := file.Open()
		if err != nil {
			return nil, NewDocumentError("open", file.Name, err)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			rc.Close()
			return nil, NewDocumentError("open", file.Name, err)
		}
		rc.Close()
		pr.parts[file.Name] = buf.Bytes()
		pr.names = append(pr.names, file.Name)
	}

	if _, ok := pr.parts[partDocument]; !ok {
		return nil, NewDocumentError("open", partDocument, fmt.Errorf("not a valid document package: missing %s", partDocument))
	}
	return pr, nil
}

// part returns the raw bytes of a named part.
func (pr *packageReader) part(name string) ([]byte, bool) {
	data, ok := pr.parts[name]
	return data, ok
}

// xmlPart returns a named part as a string, for the XML parts.
func (pr *packageReader) xmlPart(name string) (string, bool) {
	data, ok := pr.parts[name]
	if !ok {
		return "", false
	}
	return string(data), true
}

// mediaParts returns the media entry names in a deterministic order.
func (pr *packageReader) mediaParts() []string {
	var media []string
	for _, name := range pr.names {
		if strings.HasPrefix(name, "word/media/") {
			media = append(media, name)
		}
	}
	sort.Strings(media)
	return media
}

// packageWriter assembles the output archive.
type packageWriter struct {
	buf bytes.Buffer
	zw  *zip.Writer
}

func newPackageWriter() *packageWriter {
	pw := &packageWriter{}
	pw.zw = zip.NewWriter(&pw.buf)
	return pw
}

// addPart writes one named entry.
func (pw *packageWriter) addPart(name string, data []byte) error {
	fw, err := pw.zw.Create(name)
	if err != nil {
		return NewDocumentError("build", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return NewDocumentError("build", name, err)
	}
	return nil
}

// addXMLPart writes one XML entry with the standard declaration prepended.
func (pw *packageWriter) addXMLPart(name, body string) error {
	return pw.addPart(name, []byte(xmlHeader+body))
}

// bytes finalizes the archive and returns its content.
func (pw *packageWriter) bytes() ([]byte, error) {
	if err := pw.zw.Close(); err != nil {
		return nil, NewDocumentError("build", "", err)
	}
	return pw.buf.Bytes(), nil
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
