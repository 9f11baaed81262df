package rebrand

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
)

const (
	DefaultOriginalBrand = "Aistra"
	DefaultFooterCenter  = "Company Internal"
	DefaultFooterRight   = "Created by SecComply"
	DefaultFileName      = "document.docx"
)

// Options configures a Rebrander. Zero values fall back to the defaults above.
type Options struct {
	OriginalBrand string
	FooterCenter  string
	FooterRight   string
	FileName      string

	// LogoMaxWidth downscales wider logos; 0 keeps logo bytes verbatim.
	LogoMaxWidth int

	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.OriginalBrand == "" {
		o.OriginalBrand = DefaultOriginalBrand
	}
	if o.FooterCenter == "" {
		o.FooterCenter = DefaultFooterCenter
	}
	if o.FooterRight == "" {
		o.FooterRight = DefaultFooterRight
	}
	if o.FileName == "" {
		o.FileName = DefaultFileName
	}
	if o.LogoMaxWidth < 0 {
		o.LogoMaxWidth = 0
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Request is one rebranding job. Document and TargetBrand are required.
type Request struct {
	Document      []byte
	FileName      string
	TargetBrand   string
	OriginalBrand string
	Logo          []byte

	HeaderText       string
	FooterCenterText string
	FooterRightText  string
}

// Result is a rebranded package ready to be handed to the caller.
type Result struct {
	Data        []byte
	FileName    string
	ContentType string
	// Warnings lists the parts that were skipped.
	Warnings []error
}

// HeaderSpec is the resolved content of the synthesized header.
type HeaderSpec struct {
	Text string
	Logo *Logo
}

// FooterSpec is the resolved content of the synthesized footer.
type FooterSpec struct {
	Center string
	Right  string
}

func (o Options) headerSpec(req Request, logo *Logo) HeaderSpec {
	return HeaderSpec{
		Text: firstNonEmpty(req.HeaderText, req.TargetBrand),
		Logo: logo,
	}
}

func (o Options) footerSpec(req Request) FooterSpec {
	return FooterSpec{
		Center: firstNonEmpty(req.FooterCenterText, o.FooterCenter),
		Right:  firstNonEmpty(req.FooterRightText, o.FooterRight),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// OutputFileName builds the attachment name for a rebranded document:
// the sanitized brand, an underscore, then the original file name.
// Whitespace is replaced too, so "Globex Inc." yields "Globex_Inc__policy.docx".
func OutputFileName(brand, fileName string) string {
	if fileName == "" {
		fileName = DefaultFileName
	}
	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, brand)
	return sanitized + "_" + fileName
}

// DecodePayload decodes a base64 field that may carry a data URI header
// such as "data:image/png;base64,".
func DecodePayload(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if _, after, found := strings.Cut(s, ","); found {
		s = after
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if err != nil {
			return nil, fmt.Errorf("invalid base64 payload: %w", err)
		}
	}
	return data, nil
}
