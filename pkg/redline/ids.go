package redline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// maxAnnotationID returns the largest numeric w:id attribute value found
// anywhere under root. Attributes that do not parse as integers are skipped;
// a tree with no usable ids yields 0.
func maxAnnotationID(root *etree.Element) int {
	max := 0
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, attr := range e.Attr {
			if attr.Key != "id" || attr.Space != "w" {
				continue
			}
			id, err := strconv.Atoi(attr.Value)
			if err != nil {
				continue
			}
			if id > max {
				max = id
			}
		}
		for _, child := range e.ChildElements() {
			walk(child)
		}
	}
	if root != nil {
		walk(root)
	}
	return max
}

// nextAnnotationID allocates a w:id that is unused across all the given
// trees. Allocation is a fresh scan every time, so ids stay unique even after
// other mutations have inserted annotations since the package was opened.
func nextAnnotationID(roots ...*etree.Element) int {
	max := 0
	for _, root := range roots {
		if m := maxAnnotationID(root); m > max {
			max = m
		}
	}
	return max + 1
}

// nextRelationshipID allocates the next rIdN for a relationships part by
// scanning existing Id attributes. Ids not shaped like rIdN are ignored.
func nextRelationshipID(relsRoot *etree.Element) string {
	max := 0
	for _, rel := range relsRoot.ChildElements() {
		if rel.Tag != "Relationship" {
			continue
		}
		id := rel.SelectAttrValue("Id", "")
		num, ok := strings.CutPrefix(id, "rId")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("rId%d", max+1)
}
