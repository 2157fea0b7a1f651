package redline

import (
	"github.com/beevik/etree"
)

// relsXMLTemplate seeds word/_rels/document.xml.rels when a package lacks
// one. Rare in practice, but a minimal document is allowed to omit it.
const relsXMLTemplate = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>
`

// documentRels loads the main document's relationships part, creating an
// empty one if the package has none.
func documentRels(pkg *Package) (*etree.Document, *etree.Element, error) {
	if _, ok := pkg.Part(documentRelsPart); !ok {
		pkg.SetPart(documentRelsPart, []byte(relsXMLTemplate))
	}
	doc, err := pkg.XMLPart(documentRelsPart)
	if err != nil {
		return nil, nil, err
	}
	root := doc.Root()
	if root == nil || root.Tag != "Relationships" {
		return nil, nil, NewManifestError(documentRelsPart, "missing Relationships root element")
	}
	return doc, root, nil
}

// addRelationship appends a new relationship to the main document's rels part
// and returns its freshly allocated id. Every call adds an entry; hyperlinks
// need one relationship per link even when targets repeat.
func addRelationship(pkg *Package, relType, target string, external bool) (string, error) {
	doc, root, err := documentRels(pkg)
	if err != nil {
		return "", err
	}

	rID := nextRelationshipID(root)
	rel := root.CreateElement("Relationship")
	rel.CreateAttr("Id", rID)
	rel.CreateAttr("Type", relType)
	rel.CreateAttr("Target", target)
	if external {
		rel.CreateAttr("TargetMode", "External")
	}

	if err := pkg.SetXMLPart(documentRelsPart, doc); err != nil {
		return "", err
	}
	Debug("added relationship %s -> %s", rID, target)
	return rID, nil
}

// ensureRelationship returns the id of an existing relationship of the given
// type, adding one only when absent. Used for side-car parts like comments
// that the document references at most once.
func ensureRelationship(pkg *Package, relType, target string) (string, error) {
	_, root, err := documentRels(pkg)
	if err != nil {
		return "", err
	}
	for _, rel := range root.ChildElements() {
		if rel.Tag == "Relationship" && rel.SelectAttrValue("Type", "") == relType {
			return rel.SelectAttrValue("Id", ""), nil
		}
	}
	return addRelationship(pkg, relType, target, false)
}

// ensureContentTypeOverride registers a content type for a part in
// [Content_Types].xml unless an Override for that part name already exists.
// Unlike the rels part, a missing [Content_Types].xml is never seeded: the
// part is optional and only patched when present.
func ensureContentTypeOverride(pkg *Package, partName, contentType string) error {
	if _, ok := pkg.Part(contentTypesPart); !ok {
		return nil
	}
	doc, err := pkg.XMLPart(contentTypesPart)
	if err != nil {
		return err
	}
	root := doc.Root()
	if root == nil || root.Tag != "Types" {
		return NewManifestError(contentTypesPart, "missing Types root element")
	}

	for _, child := range root.ChildElements() {
		if child.Tag == "Override" && child.SelectAttrValue("PartName", "") == partName {
			return nil
		}
	}

	override := root.CreateElement("Override")
	override.CreateAttr("PartName", partName)
	override.CreateAttr("ContentType", contentType)
	return pkg.SetXMLPart(contentTypesPart, doc)
}
