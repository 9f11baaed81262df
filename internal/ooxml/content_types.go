package ooxml

import (
	"fmt"
	"strings"
)

// EnsureDefault adds <Default Extension="ext" .../> to the manifest unless
// the extension is already declared. It reports whether the manifest changed.
func EnsureDefault(manifest, ext, contentType string) (string, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	marker := fmt.Sprintf(`extension="%s"`, ext)
	if strings.Contains(strings.ToLower(manifest), marker) {
		return manifest, false
	}

	entry := fmt.Sprintf(`<Default Extension="%s" ContentType="%s"/>`, EscapeXML(ext), EscapeXML(contentType))
	return insertBeforeClose(manifest, "Types", entry)
}

// EnsureOverride adds <Override PartName="/part" .../> unless the part
// name is already present. It reports whether the manifest changed.
func EnsureOverride(manifest, part, contentType string) (string, bool) {
	name := PartName(part)
	if strings.Contains(manifest, `"`+name+`"`) {
		return manifest, false
	}

	entry := fmt.Sprintf(`<Override PartName="%s" ContentType="%s"/>`, EscapeXML(name), EscapeXML(contentType))
	return insertBeforeClose(manifest, "Types", entry)
}
