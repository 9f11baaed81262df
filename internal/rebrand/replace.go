package rebrand

import (
	"errors"
	"regexp"
	"strings"

	"github.com/yuanying/docx-rebrand/internal/ooxml"
)

// brandParts lists the parts that may carry visible brand text, in the
// order they are rewritten.
var brandParts = []string{
	ooxml.DocumentPath,
	ooxml.HeaderPath(1),
	ooxml.HeaderPath(2),
	ooxml.HeaderPath(3),
	ooxml.FooterPath(1),
	ooxml.FooterPath(2),
	ooxml.FooterPath(3),
	ooxml.StylesPath,
	ooxml.SettingsPath,
}

// quoteForms lists the spellings a quote character may take in part XML.
// Word writes them literally inside w:t, but attribute values and other
// producers use the entity forms.
var quoteForms = map[rune]string{
	'\'': `(?:'|&apos;|&#39;|&#x27;)`,
	'"':  `(?:"|&quot;|&#34;|&#x22;)`,
}

// brandPattern matches original case-insensitively as it appears in XML
// text: &, < and > only in their escaped form, quotes in either form.
func brandPattern(original string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("(?i)")
	for _, r := range original {
		if alt, ok := quoteForms[r]; ok {
			b.WriteString(alt)
			continue
		}
		b.WriteString(regexp.QuoteMeta(ooxml.EscapeXML(string(r))))
	}
	return regexp.MustCompile(b.String())
}

// ReplaceBrand rewrites every case-insensitive occurrence of original with
// target across the brand parts. Missing parts are skipped; parts that are
// not text are skipped and returned as PartAccessFailure errors.
// Matching is not whole-word and does not preserve per-match casing.
func ReplaceBrand(pkg *ooxml.Package, original, target string) []error {
	if original == "" {
		return nil
	}

	re := brandPattern(original)
	replacement := ooxml.EscapeXML(target)

	var errs []error
	for _, part := range brandParts {
		text, err := pkg.ReadText(part)
		if errors.Is(err, ooxml.ErrPartNotFound) {
			continue
		}
		if err != nil {
			errs = append(errs, partError(part, err))
			continue
		}

		pkg.WriteText(part, re.ReplaceAllLiteralString(text, replacement))
	}
	return errs
}
