package rebrand

import (
	"path"
	"strings"

	"github.com/yuanying/docx-rebrand/internal/ooxml"
)

var rasterExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// ReplaceMedia overwrites every raster image under word/media/ with the
// logo bytes and writes the canonical logo entry. Entries keep their name
// and extension even when the logo has a different format. The bytes are
// those supplied by the caller unless PrepareLogo had to resize or convert.
// It returns the pre-existing entries that were overwritten.
func ReplaceMedia(pkg *ooxml.Package, logo *Logo) []string {
	if logo == nil {
		return nil
	}

	var replaced []string
	for _, name := range pkg.List(ooxml.MediaDir) {
		if !rasterExts[strings.ToLower(path.Ext(name))] {
			continue
		}
		pkg.WriteBinary(name, logo.Data)
		replaced = append(replaced, name)
	}

	pkg.WriteBinary(logo.MediaPath(), logo.Data)
	return replaced
}

// RegisterContentTypes declares the logo extension and the header/footer
// part types in [Content_Types].xml, skipping entries that already exist.
func RegisterContentTypes(pkg *ooxml.Package, logo *Logo) error {
	if logo == nil {
		return nil
	}

	manifest, err := pkg.ReadText(ooxml.ContentTypesPath)
	if err != nil {
		return partError(ooxml.ContentTypesPath, err)
	}

	changed := false
	apply := func(updated string, ok bool) {
		if ok {
			manifest = updated
			changed = true
		}
	}
	apply(ooxml.EnsureDefault(manifest, logo.Ext, logo.ContentType))
	apply(ooxml.EnsureOverride(manifest, ooxml.HeaderPath(1), ooxml.ContentTypeHeader))
	apply(ooxml.EnsureOverride(manifest, ooxml.FooterPath(1), ooxml.ContentTypeFooter))

	if changed {
		pkg.WriteText(ooxml.ContentTypesPath, manifest)
	}
	return nil
}
