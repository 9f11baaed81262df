package ooxml

import (
	"fmt"
	"strings"
)

const relationshipsNS = "http://schemas.openxmlformats.org/package/2006/relationships"

// EmptyRelationships is a relationships part with no entries.
const EmptyRelationships = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="` + relationshipsNS + `">
</Relationships>`

// Relationship is one entry of a .rels part.
type Relationship struct {
	ID     string
	Type   string
	Target string
}

// XML renders the relationship element.
func (r Relationship) XML() string {
	return fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s"/>`,
		EscapeXML(r.ID), EscapeXML(r.Type), EscapeXML(r.Target))
}

// BuildRelationships renders a complete relationships part.
func BuildRelationships(rels ...Relationship) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<Relationships xmlns="` + relationshipsNS + `">`)
	for _, rel := range rels {
		b.WriteString(rel.XML())
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

// AppendRelationship inserts rel before the closing </Relationships> tag.
// A self-closing root is expanded first. The second result is false when
// rels has no Relationships root to insert into.
func AppendRelationship(rels string, rel Relationship) (string, bool) {
	return insertBeforeClose(rels, "Relationships", rel.XML())
}

// insertBeforeClose inserts fragment before the last </root> in doc,
// expanding a self-closing <root .../> when no closing tag exists.
func insertBeforeClose(doc, root, fragment string) (string, bool) {
	closing := "</" + root + ">"
	if idx := strings.LastIndex(doc, closing); idx >= 0 {
		return doc[:idx] + fragment + doc[idx:], true
	}

	open := strings.Index(doc, "<"+root)
	if open < 0 {
		return doc, false
	}
	end := strings.Index(doc[open:], ">")
	if end < 0 {
		return doc, false
	}
	end += open
	if end == 0 || doc[end-1] != '/' {
		return doc, false
	}
	return doc[:end-1] + ">" + fragment + closing + doc[end+1:], true
}
