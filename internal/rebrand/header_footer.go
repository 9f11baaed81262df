package rebrand

import (
	"fmt"
	"strings"

	"github.com/yuanying/docx-rebrand/internal/ooxml"
)

// Managed relationship ids. Only one header/footer/image triple is managed
// per document, so fixed ids are used instead of allocating new ones.
const (
	LogoRelID   = "rId1"
	HeaderRelID = "rIdHeader1"
	FooterRelID = "rIdFooter1"
)

// Logo display box in EMU (914400 per inch): 1in x 0.5in.
const (
	logoWidthEMU  = 914400
	logoHeightEMU = 457200
)

const xmlDecl = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
)

// HeaderXML renders the header part: optional inline logo, a tab, and the
// header text in bold against a right-aligned tab stop.
func HeaderXML(h HeaderSpec) string {
	var b strings.Builder
	b.WriteString(xmlDecl)
	fmt.Fprintf(&b, `<w:hdr xmlns:w="%s" xmlns:r="%s" xmlns:wp="%s">`, nsW, nsR, nsWP)
	b.WriteString(`<w:p><w:pPr><w:pStyle w:val="Header"/>`)
	b.WriteString(`<w:tabs><w:tab w:val="right" w:pos="9360"/></w:tabs></w:pPr>`)
	if h.Logo != nil {
		b.WriteString(logoRun())
	}
	b.WriteString(`<w:r><w:tab/></w:r>`)
	b.WriteString(`<w:r><w:rPr><w:b/><w:sz w:val="24"/></w:rPr>`)
	b.WriteString(textElement(h.Text))
	b.WriteString(`</w:r></w:p></w:hdr>`)
	return b.String()
}

func logoRun() string {
	return fmt.Sprintf(`<w:r><w:drawing>`+
		`<wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%[1]d" cy="%[2]d"/>`+
		`<wp:docPr id="1" name="Logo"/>`+
		`<a:graphic xmlns:a="%[3]s">`+
		`<a:graphicData uri="%[4]s">`+
		`<pic:pic xmlns:pic="%[4]s">`+
		`<pic:nvPicPr><pic:cNvPr id="1" name="Logo"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%[5]s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[1]d" cy="%[2]d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic>`+
		`</wp:inline></w:drawing></w:r>`,
		logoWidthEMU, logoHeightEMU, nsA, nsPic, LogoRelID)
}

// FooterXML renders the footer part: "Page N" on the left, then the center
// and right texts on their tab stops.
func FooterXML(f FooterSpec) string {
	var b strings.Builder
	b.WriteString(xmlDecl)
	fmt.Fprintf(&b, `<w:ftr xmlns:w="%s">`, nsW)
	b.WriteString(`<w:p><w:pPr><w:pStyle w:val="Footer"/><w:tabs>`)
	b.WriteString(`<w:tab w:val="center" w:pos="4680"/><w:tab w:val="right" w:pos="9360"/>`)
	b.WriteString(`</w:tabs></w:pPr>`)
	b.WriteString(smallRun("Page "))
	b.WriteString(`<w:r><w:fldChar w:fldCharType="begin"/></w:r>`)
	b.WriteString(`<w:r><w:instrText xml:space="preserve"> PAGE </w:instrText></w:r>`)
	b.WriteString(`<w:r><w:fldChar w:fldCharType="end"/></w:r>`)
	b.WriteString(`<w:r><w:tab/></w:r>`)
	b.WriteString(smallRun(f.Center))
	b.WriteString(`<w:r><w:tab/></w:r>`)
	b.WriteString(smallRun(f.Right))
	b.WriteString(`</w:p></w:ftr>`)
	return b.String()
}

func smallRun(text string) string {
	return `<w:r><w:rPr><w:sz w:val="18"/></w:rPr>` + textElement(text) + `</w:r>`
}

func textElement(text string) string {
	return `<w:t xml:space="preserve">` + ooxml.EscapeXML(text) + `</w:t>`
}

// WriteHeaderFooter writes header and footer slot 1, replacing any
// existing parts.
func WriteHeaderFooter(pkg *ooxml.Package, h HeaderSpec, f FooterSpec) {
	pkg.WriteText(ooxml.HeaderPath(1), HeaderXML(h))
	pkg.WriteText(ooxml.FooterPath(1), FooterXML(f))
}
