// Package ooxml provides an in-memory view of a WordprocessingML package
// and string-level helpers for its relationship and content-type parts.
package ooxml

import (
	"fmt"
	"path"
)

// Well-known part paths inside a .docx package.
const (
	DocumentPath     = "word/document.xml"
	DocumentRelsPath = "word/_rels/document.xml.rels"
	StylesPath       = "word/styles.xml"
	SettingsPath     = "word/settings.xml"
	ContentTypesPath = "[Content_Types].xml"
	MediaDir         = "word/media/"
)

// MIMEType is the content type of a .docx file.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Relationship types.
const (
	RelTypeImage  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelTypeHeader = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	RelTypeFooter = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
)

// Part content types.
const (
	ContentTypeHeader = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
	ContentTypeFooter = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
)

// HeaderPath returns the path of header slot n, e.g. word/header1.xml.
func HeaderPath(n int) string {
	return fmt.Sprintf("word/header%d.xml", n)
}

// FooterPath returns the path of footer slot n, e.g. word/footer1.xml.
func FooterPath(n int) string {
	return fmt.Sprintf("word/footer%d.xml", n)
}

// RelsPath returns the relationships part that belongs to part,
// e.g. word/header1.xml -> word/_rels/header1.xml.rels.
func RelsPath(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

// PartName returns the absolute part name used in [Content_Types].xml.
func PartName(part string) string {
	return "/" + normalizePath(part)
}
