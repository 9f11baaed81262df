package rebrand

import (
	"errors"
	"strings"

	"github.com/yuanying/docx-rebrand/internal/ooxml"
)

// LinkRelationships rebuilds the header's relationships part and makes sure
// the document relationships point at header1.xml and footer1.xml.
// Existing header/footer declarations are left alone, so repeated runs do
// not add duplicates. An unreadable document relationships part is
// replaced by an empty one and reported as a PartAccessFailure.
func LinkRelationships(pkg *ooxml.Package, logo *Logo) error {
	var headerRels []ooxml.Relationship
	if logo != nil {
		headerRels = append(headerRels, ooxml.Relationship{
			ID:     LogoRelID,
			Type:   ooxml.RelTypeImage,
			Target: logo.Target(),
		})
	}
	pkg.WriteText(ooxml.RelsPath(ooxml.HeaderPath(1)), ooxml.BuildRelationships(headerRels...))

	var partErr error
	rels, err := pkg.ReadText(ooxml.DocumentRelsPath)
	switch {
	case errors.Is(err, ooxml.ErrPartNotFound):
		rels = ooxml.EmptyRelationships
	case err != nil:
		partErr = partError(ooxml.DocumentRelsPath, err)
		rels = ooxml.EmptyRelationships
	}

	managed := []ooxml.Relationship{
		{ID: HeaderRelID, Type: ooxml.RelTypeHeader, Target: "header1.xml"},
		{ID: FooterRelID, Type: ooxml.RelTypeFooter, Target: "footer1.xml"},
	}
	for _, rel := range managed {
		if strings.Contains(rels, rel.Type+`"`) || strings.Contains(rels, rel.Target) {
			continue
		}
		updated, ok := ooxml.AppendRelationship(rels, rel)
		if !ok {
			// No Relationships root to extend; start over from an empty part.
			updated, _ = ooxml.AppendRelationship(ooxml.EmptyRelationships, rel)
		}
		rels = updated
	}

	pkg.WriteText(ooxml.DocumentRelsPath, rels)
	return partErr
}
