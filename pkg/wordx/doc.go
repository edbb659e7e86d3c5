// Package wordx converts Microsoft Word documents (DOCX) to and from a
// structured in-memory model. Extract reads a packaged archive into a
// Document; Build serializes a Document back into a valid archive. The two
// halves are designed as a round-trip pair: a document extracted and rebuilt
// without modification preserves its text, structure and formatting.
//
// Basic Usage:
//
//	// Extract a document from a file
//	doc, err := wordx.ExtractFile("report.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Inspect and modify the model
//	for _, p := range doc.Paragraphs {
//	    fmt.Println(p.StyleName, p.Text())
//	}
//	doc.AddParagraph(&wordx.Paragraph{
//	    Runs: []wordx.Run{{Text: "Appended by wordx"}},
//	})
//
//	// Build it back
//	if err := wordx.BuildFile(doc, "report-out.docx"); err != nil {
//	    log.Fatal(err)
//	}
//
// The model covers paragraphs, runs with character formatting, tables with
// merged cells, images, the style catalog, numbering definitions and raw
// media bytes. Lengths are carried in points throughout; the format's native
// units (twips, EMUs, half-points) are converted at the parse/serialize
// boundary.
//
// Extraction is lenient by default: malformed styles, numbering, theme or
// image references are logged and skipped rather than failing the whole
// document. Set WORDX_STRICT_MODE=true (or SetGlobalConfig) to promote
// recoverable failures to errors.
package wordx
