package redline

import (
	"strings"

	"github.com/beevik/etree"
)

// findChild returns the first child element with the given local tag name,
// regardless of namespace prefix.
func findChild(parent *etree.Element, tag string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}

// runText concatenates the text of all w:t children of a run.
func runText(run *etree.Element) string {
	var sb strings.Builder
	for _, child := range run.ChildElements() {
		if child.Tag == "t" {
			sb.WriteString(child.Text())
		}
	}
	return sb.String()
}

// setRunText replaces the run's text content with a single w:t element.
// Leading or trailing whitespace requires xml:space="preserve" or Word will
// strip it on load.
func setRunText(run *etree.Element, text string) {
	var first *etree.Element
	for _, child := range run.ChildElements() {
		if child.Tag != "t" {
			continue
		}
		if first == nil {
			first = child
		} else {
			run.RemoveChild(child)
		}
	}
	if first == nil {
		first = run.CreateElement("w:t")
	}
	first.SetText(text)
	applySpacePreserve(first, text)
}

// applySpacePreserve adds or removes xml:space="preserve" on a text element
// depending on whether its content has significant edge whitespace.
func applySpacePreserve(t *etree.Element, text string) {
	needed := text != strings.TrimSpace(text)
	attr := t.SelectAttr("xml:space")
	if needed && attr == nil {
		t.CreateAttr("xml:space", "preserve")
	} else if !needed && attr != nil {
		t.RemoveAttr("xml:space")
	}
}

// cloneRunProperties deep-copies the w:rPr of a run, or returns nil when the
// run has none.
func cloneRunProperties(run *etree.Element) *etree.Element {
	if rPr := findChild(run, "rPr"); rPr != nil {
		return rPr.Copy()
	}
	return nil
}

// newRun builds a w:r holding a single w:t with the given text. A cloned
// w:rPr may be supplied to carry over formatting; it is inserted first as
// required by the run content model.
func newRun(rPr *etree.Element, text string) *etree.Element {
	run := etree.NewElement("w:r")
	if rPr != nil {
		run.AddChild(rPr)
	}
	t := run.CreateElement("w:t")
	t.SetText(text)
	applySpacePreserve(t, text)
	return run
}

// newDeletedRun builds a w:r holding a w:delText, the element Word requires
// for text inside a w:del wrapper.
func newDeletedRun(rPr *etree.Element, text string) *etree.Element {
	run := etree.NewElement("w:r")
	if rPr != nil {
		run.AddChild(rPr)
	}
	t := run.CreateElement("w:delText")
	t.SetText(text)
	applySpacePreserve(t, text)
	return run
}

// convertToDeletedText rewrites every w:t child of a run into w:delText,
// preserving content and the space attribute.
func convertToDeletedText(run *etree.Element) {
	for _, child := range run.ChildElements() {
		if child.Tag == "t" {
			child.Space = "w"
			child.Tag = "delText"
		}
	}
}

// convertToRegularText rewrites every w:delText child of a run back into w:t.
func convertToRegularText(run *etree.Element) {
	for _, child := range run.ChildElements() {
		if child.Tag == "delText" {
			child.Space = "w"
			child.Tag = "t"
		}
	}
}

// splitMatch isolates the matched byte ranges into their own runs. Runs fully
// covered by the match are left in place; partially covered runs are split
// into up to three runs, each carrying a copy of the original formatting. It
// returns the run elements that now hold exactly the matched text, in
// document order.
func splitMatch(m *textMatch) []*etree.Element {
	matched := make([]*etree.Element, 0, len(m.spans))

	for _, span := range m.spans {
		text := runText(span.run)
		if span.start == 0 && span.end == len(text) {
			matched = append(matched, span.run)
			continue
		}

		parent := span.run.Parent()
		idx := span.run.Index()

		var pieces []*etree.Element
		if span.start > 0 {
			pieces = append(pieces, newRun(cloneRunProperties(span.run), text[:span.start]))
		}
		mid := newRun(cloneRunProperties(span.run), text[span.start:span.end])
		pieces = append(pieces, mid)
		if span.end < len(text) {
			pieces = append(pieces, newRun(cloneRunProperties(span.run), text[span.end:]))
		}

		parent.RemoveChild(span.run)
		for k, piece := range pieces {
			parent.InsertChildAt(idx+k, piece)
		}
		matched = append(matched, mid)
	}

	return matched
}

// insertBefore places node immediately before ref among ref's siblings.
func insertBefore(parent *etree.Element, ref, node *etree.Element) {
	parent.InsertChildAt(ref.Index(), node)
}

// insertAfter places node immediately after ref among ref's siblings.
func insertAfter(parent *etree.Element, ref, node *etree.Element) {
	parent.InsertChildAt(ref.Index()+1, node)
}

// removeRuns detaches the given runs from their parents.
func removeRuns(runs []*etree.Element) {
	for _, run := range runs {
		if parent := run.Parent(); parent != nil {
			parent.RemoveChild(run)
		}
	}
}
