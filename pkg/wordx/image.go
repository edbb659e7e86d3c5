package wordx

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"path"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	relTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeNumbering      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	relTypeSettings       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
	relTypeWebSettings    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/webSettings"
	relTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// contentTypeByExtension maps media file extensions to MIME types.
// Unrecognized extensions yield no content type rather than failing.
var contentTypeByExtension = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
	".emf":  "image/x-emf",
	".wmf":  "image/x-wmf",
}

// extensionForContentType is the build-side inverse, used when synthesizing
// media entry names for newly added images.
func extensionForContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	case "image/tiff":
		return "tif"
	case "image/webp":
		return "webp"
	default:
		return "png"
	}
}

// relationship is one id-to-target binding of a part's relationship table.
type relationship struct {
	ID     string
	Type   string
	Target string
}

// loadRelationships reads the document part's relationship table once per
// extraction. A missing table is not an error; runs referencing images will
// simply drop them.
func (ex *extractor) loadRelationships() {
	text, ok := ex.pkg.xmlPart(partDocumentRels)
	if !ok {
		return
	}
	root, err := ParseXML(text)
	if err != nil {
		GetLogger().Warn("skipping relationships: %v", err)
		return
	}
	for _, rel := range root.ChildElements("Relationship") {
		id, _ := rel.Attr("Id")
		target, _ := rel.Attr("Target")
		if id != "" && target != "" {
			ex.rels[id] = target
		}
	}
}

// extractImage resolves a drawing's embed reference through the
// relationship table, loads the raw media bytes, and records them in the
// model. Bytes are never re-encoded or transformed. A missing relationship
// entry drops the image with a diagnostic instead of failing extraction.
func (ex *extractor) extractImage(drawing *Element) *Image {
	blip := drawing.FindDescendant("blip")
	if blip == nil {
		return nil
	}
	embed, ok := blip.Attr("embed")
	if !ok {
		return nil
	}
	target, ok := ex.rels[embed]
	if !ok {
		ex.warn(fmt.Errorf("unresolved image relationship %q", embed))
		return nil
	}
	mediaPath := "word/" + strings.TrimPrefix(target, "/")
	data, ok := ex.pkg.part(mediaPath)
	if !ok {
		ex.warn(fmt.Errorf("image relationship %q points at missing part %s", embed, mediaPath))
		return nil
	}
	ex.doc.MediaFiles[mediaPath] = data

	img := &Image{
		MediaPath:   mediaPath,
		ContentType: contentTypeByExtension[strings.ToLower(path.Ext(mediaPath))],
		DrawingXML:  SerializeXML(drawing),
	}
	if extent := drawing.FindDescendant("extent"); extent != nil {
		img.Width = extent.LengthAttr("cx", UnitEMU)
		img.Height = extent.LengthAttr("cy", UnitEMU)
	}
	return img
}

// NewImageFromBytes creates an Image for content not present in any archive
// part. The bytes are carried inline as base64 until Build writes them to a
// synthesized media entry. Intrinsic pixel dimensions are used when the
// data decodes as a known raster format.
func NewImageFromBytes(data []byte, contentType string) *Image {
	img := &Image{
		Data:        base64.StdEncoding.EncodeToString(data),
		ContentType: contentType,
	}
	if w, h, ok := imageDimensions(data); ok {
		img.Width = &w
		img.Height = &h
	}
	return img
}

// imageDimensions sniffs intrinsic pixel dimensions and converts them to
// points at 96 DPI. The x/image codecs extend the stdlib set with BMP,
// TIFF and WebP.
func imageDimensions(data []byte) (width, height float64, ok bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	return float64(cfg.Width) * 72 / 96, float64(cfg.Height) * 72 / 96, true
}

// buildDrawing produces the run-level drawing markup for an image bound to
// relID. Preserved markup is reused verbatim with only the relationship id
// substituted; otherwise a minimal inline fragment is synthesized from the
// image dimensions.
func buildDrawing(img *Image, relID string, docPrID int) (*Element, error) {
	if img.DrawingXML != "" {
		drawing, err := ParseXML(img.DrawingXML)
		if err != nil {
			return nil, &ParseError{Message: "preserved drawing markup", Cause: err}
		}
		if blip := drawing.FindDescendant("blip"); blip != nil {
			substituted := false
			for i := range blip.Attrs {
				if blip.Attrs[i].Local == "embed" {
					blip.Attrs[i].Value = relID
					substituted = true
					break
				}
			}
			if !substituted {
				blip.SetAttr("r:embed", relID)
			}
		}
		return drawing, nil
	}
	return synthesizeInlineDrawing(img, relID, docPrID), nil
}

// defaultImageSidePt sizes a synthesized drawing when the image carries no
// dimensions and its bytes cannot be sniffed.
const defaultImageSidePt = 96.0

func synthesizeInlineDrawing(img *Image, relID string, docPrID int) *Element {
	width, height := defaultImageSidePt, defaultImageSidePt
	if img.Width != nil {
		width = *img.Width
	}
	if img.Height != nil {
		height = *img.Height
	}
	cx, cy := EMUFromPoints(width), EMUFromPoints(height)

	fragment := fmt.Sprintf(
		`<w:drawing xmlns:w="%s">`+
			`<wp:inline xmlns:wp="%s" distT="0" distB="0" distL="0" distR="0">`+
			`<wp:extent cx="%d" cy="%d"/>`+
			`<wp:docPr id="%d" name="Picture %d"/>`+
			`<a:graphic xmlns:a="%s">`+
			`<a:graphicData uri="%s">`+
			`<pic:pic xmlns:pic="%s">`+
			`<pic:nvPicPr><pic:cNvPr id="%d" name="Picture %d"/><pic:cNvPicPr/></pic:nvPicPr>`+
			`<pic:blipFill><a:blip xmlns:r="%s" r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
			`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
			`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
			`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing>`,
		nsWordML, nsDrawingWP, cx, cy, docPrID, docPrID,
		nsDrawingML, nsPicture, nsPicture, docPrID, docPrID,
		nsRelationships, relID, cx, cy,
	)
	// The fragment above is well-formed by construction.
	drawing, err := ParseXML(fragment)
	if err != nil {
		panic("wordx: invalid synthesized drawing fragment: " + err.Error())
	}
	return drawing
}
