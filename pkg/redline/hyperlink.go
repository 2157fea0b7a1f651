package redline

import (
	"fmt"

	"github.com/beevik/etree"
)

// HyperlinkResult describes a hyperlink that was spliced and written out.
type HyperlinkResult struct {
	RelationshipID string
	URL            string
	Anchor         string
	Path           string
}

type hyperlinkOptions struct {
	paragraph    int
	hasParagraph bool
}

// HyperlinkOption adjusts how AddHyperlink locates its anchor text.
type HyperlinkOption func(*hyperlinkOptions)

// InParagraph restricts the anchor search to the paragraph with the given
// zero-based index. Paragraphs are counted in document order, including those
// nested in tables.
func InParagraph(index int) HyperlinkOption {
	return func(o *hyperlinkOptions) {
		o.paragraph = index
		o.hasParagraph = true
	}
}

// AddHyperlink wraps the first occurrence of search in a w:hyperlink pointing
// at url and saves the document in place. A new external relationship is
// registered for every call; Word requires one per link even when targets
// repeat. The wrapped runs get the standard Hyperlink style with the classic
// blue underline, keeping the rest of their formatting.
func AddHyperlink(path, search, url string, opts ...HyperlinkOption) (*HyperlinkResult, error) {
	if search == "" {
		return nil, NewInvalidInputError("search text", "cannot be empty")
	}
	if url == "" {
		return nil, NewInvalidInputError("url", "cannot be empty")
	}
	var options hyperlinkOptions
	for _, opt := range opts {
		opt(&options)
	}

	pkg, err := OpenPackage(path)
	if err != nil {
		return nil, err
	}

	docXML, err := pkg.XMLPart(documentPart)
	if err != nil {
		return nil, err
	}
	body, err := documentBody(docXML)
	if err != nil {
		return nil, err
	}

	var match *textMatch
	if options.hasParagraph {
		ps := paragraphs(body)
		if options.paragraph < 0 || options.paragraph >= len(ps) {
			return nil, NewNotFoundError(
				fmt.Sprintf("paragraph %d", options.paragraph), path,
				fmt.Sprintf("document has %d paragraphs", len(ps)))
		}
		matches := findTextInParagraph(ps[options.paragraph], search)
		if len(matches) > 0 {
			match = matches[0]
		}
	} else {
		match = findFirstMatch(body, search)
	}
	if match == nil {
		return nil, NewNoMatchError(search)
	}

	rID, err := addRelationship(pkg, hyperlinkRelationType, url, true)
	if err != nil {
		return nil, err
	}

	spliceHyperlink(match, rID)

	if err := pkg.SetXMLPart(documentPart, docXML); err != nil {
		return nil, err
	}
	if err := pkg.Save(); err != nil {
		return nil, err
	}

	Info("added hyperlink %s -> %s in %s", rID, url, path)
	return &HyperlinkResult{
		RelationshipID: rID,
		URL:            url,
		Anchor:         search,
		Path:           path,
	}, nil
}

// spliceHyperlink replaces the matched runs with a w:hyperlink holding one
// consolidated run of the matched text, styled as a link.
func spliceHyperlink(match *textMatch, rID string) {
	p := match.paragraph
	text := match.text()
	sourcePr := cloneRunProperties(match.spans[0].run)

	matched := splitMatch(match)
	hl := etree.NewElement("w:hyperlink")
	hl.CreateAttr("r:id", rID)
	insertBefore(p, matched[0], hl)
	removeRuns(matched)

	hl.AddChild(newRun(hyperlinkRunProperties(sourcePr), text))
}

// hyperlinkRunProperties builds the rPr for a link run: Hyperlink character
// style, theme blue, single underline. Other formatting from the source run
// (bold, fonts, sizes) is carried over; any previous style, color, or
// underline yields to the link styling.
func hyperlinkRunProperties(source *etree.Element) *etree.Element {
	rPr := etree.NewElement("w:rPr")
	style := rPr.CreateElement("w:rStyle")
	style.CreateAttr("w:val", "Hyperlink")

	if source != nil {
		for _, child := range source.ChildElements() {
			switch child.Tag {
			case "rStyle", "color", "u":
			default:
				rPr.AddChild(child.Copy())
			}
		}
	}

	color := rPr.CreateElement("w:color")
	color.CreateAttr("w:val", "0563C1")
	color.CreateAttr("w:themeColor", "hyperlink")

	u := rPr.CreateElement("w:u")
	u.CreateAttr("w:val", "single")
	return rPr
}
