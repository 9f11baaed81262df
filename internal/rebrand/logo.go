package rebrand

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/yuanying/docx-rebrand/internal/ooxml"
)

// logoBaseName is the canonical media entry the synthesized header embeds.
const logoBaseName = "image1"

// Logo is the client logo as it will be stored in the package.
// Warning is set when the bytes could not be decoded or re-encoded and
// were kept as supplied.
type Logo struct {
	Data        []byte
	Ext         string
	ContentType string
	Width       int
	Height      int
	Warning     string
}

// MediaPath is the canonical part path of the logo.
func (l *Logo) MediaPath() string {
	return ooxml.MediaDir + logoBaseName + "." + l.Ext
}

// Target is the logo path relative to the word/ directory, as used in
// relationship targets.
func (l *Logo) Target() string {
	return strings.TrimPrefix(l.MediaPath(), "word/")
}

// PrepareLogo sniffs the logo format and normalizes it for embedding.
// PNG, JPEG, GIF, BMP and TIFF logos are kept verbatim unless wider than
// maxWidth (0 disables resizing); a resized logo keeps its format. Any
// other decodable format is converted to PNG. Undecodable bytes are kept
// verbatim and labelled PNG.
func PrepareLogo(data []byte, maxWidth int) *Logo {
	logo := &Logo{Data: data, Ext: "png", ContentType: "image/png"}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		logo.Warning = fmt.Sprintf("logo decode failed, embedding as-is: %v", err)
		return logo
	}
	logo.Width, logo.Height = cfg.Width, cfg.Height

	target, native := nativeFormat(format)
	needsResize := maxWidth > 0 && cfg.Width > maxWidth
	if native {
		logo.Ext, logo.ContentType = formatExt(target), formatContentType(target)
		if !needsResize {
			return logo
		}
	}

	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		logo.Warning = fmt.Sprintf("logo decode failed, embedding as-is: %v", err)
		return logo
	}
	if needsResize {
		src = imaging.Resize(src, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, src, target); err != nil {
		logo.Warning = fmt.Sprintf("logo encode failed, embedding as-is: %v", err)
		return logo
	}

	logo.Data = buf.Bytes()
	logo.Ext, logo.ContentType = formatExt(target), formatContentType(target)
	logo.Width, logo.Height = src.Bounds().Dx(), src.Bounds().Dy()
	return logo
}

// nativeFormat maps a decoder name to the format the logo is stored in.
// The second result reports whether the format is embedded unchanged.
func nativeFormat(format string) (imaging.Format, bool) {
	switch strings.ToLower(format) {
	case "png":
		return imaging.PNG, true
	case "jpeg", "jpg":
		return imaging.JPEG, true
	case "gif":
		return imaging.GIF, true
	case "bmp":
		return imaging.BMP, true
	case "tiff", "tif":
		return imaging.TIFF, true
	default:
		return imaging.PNG, false
	}
}

func formatExt(f imaging.Format) string {
	switch f {
	case imaging.JPEG:
		return "jpeg"
	case imaging.GIF:
		return "gif"
	case imaging.BMP:
		return "bmp"
	case imaging.TIFF:
		return "tiff"
	default:
		return "png"
	}
}

func formatContentType(f imaging.Format) string {
	switch f {
	case imaging.JPEG:
		return "image/jpeg"
	case imaging.GIF:
		return "image/gif"
	case imaging.BMP:
		return "image/bmp"
	case imaging.TIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}
