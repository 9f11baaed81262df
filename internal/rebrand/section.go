package rebrand

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuanying/docx-rebrand/internal/ooxml"
)

// sectPrOpen matches <w:sectPr ...> and <w:sectPr .../> but not <w:sectPrChange>.
var sectPrOpen = regexp.MustCompile(`<w:sectPr((?:\s[^>]*?)?)(/?)>`)

var documentOpen = regexp.MustCompile(`<w:document\b[^>]*>`)

var sectionReferences = fmt.Sprintf(
	`<w:headerReference w:type="default" r:id="%s"/><w:footerReference w:type="default" r:id="%s"/>`,
	HeaderRelID, FooterRelID)

// defaultSection is appended when the body has no section properties:
// US-Letter page, 1-inch margins.
var defaultSection = `<w:sectPr>` + sectionReferences +
	`<w:pgSz w:w="12240" w:h="15840"/>` +
	`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720"/>` +
	`</w:sectPr>`

// PatchSectionReferences points the document's section properties at the
// managed header and footer.
//
// When the body already has a header or footer reference anywhere, it is
// left untouched. This check is document-wide, not per section.
func PatchSectionReferences(pkg *ooxml.Package) error {
	doc, err := pkg.ReadText(ooxml.DocumentPath)
	if errors.Is(err, ooxml.ErrPartNotFound) {
		return nil
	}
	if err != nil {
		return partError(ooxml.DocumentPath, err)
	}

	patched, changed := patchSections(doc)
	if !changed {
		return nil
	}
	pkg.WriteText(ooxml.DocumentPath, ensureRelationshipNamespace(patched))
	return nil
}

func patchSections(doc string) (string, bool) {
	if sectPrOpen.MatchString(doc) {
		if strings.Contains(doc, "headerReference") || strings.Contains(doc, "footerReference") {
			return doc, false
		}
		return sectPrOpen.ReplaceAllStringFunc(doc, func(tag string) string {
			m := sectPrOpen.FindStringSubmatch(tag)
			attrs, selfClosing := m[1], m[2] == "/"
			if selfClosing {
				return "<w:sectPr" + attrs + ">" + sectionReferences + "</w:sectPr>"
			}
			return "<w:sectPr" + attrs + ">" + sectionReferences
		}), true
	}

	idx := strings.LastIndex(doc, "</w:body>")
	if idx < 0 {
		return doc, false
	}
	return doc[:idx] + defaultSection + doc[idx:], true
}

// ensureRelationshipNamespace declares the r: prefix on the document root
// when it is missing, so the injected r:id attributes stay well-formed.
func ensureRelationshipNamespace(doc string) string {
	loc := documentOpen.FindStringIndex(doc)
	if loc == nil {
		return doc
	}
	root := doc[loc[0]:loc[1]]
	if strings.Contains(root, "xmlns:r=") {
		return doc
	}
	insertAt := loc[0] + len("<w:document")
	return doc[:insertAt] + ` xmlns:r="` + nsR + `"` + doc[insertAt:]
}
