package redline

import (
	"strings"

	"github.com/beevik/etree"
)

// runSpan addresses a byte range [start, end) within the text of one run.
type runSpan struct {
	run   *etree.Element
	start int
	end   int
}

// textMatch locates one occurrence of a search string inside a paragraph as a
// sequence of run spans in document order. Spans are only valid until the
// paragraph is mutated; callers re-search after every splice.
type textMatch struct {
	paragraph *etree.Element
	spans     []runSpan
}

// text returns the matched text, reassembled from the spans.
func (m *textMatch) text() string {
	var sb strings.Builder
	for _, span := range m.spans {
		sb.WriteString(runText(span.run)[span.start:span.end])
	}
	return sb.String()
}

// documentBody returns the w:body of a parsed word/document.xml.
func documentBody(doc *etree.Document) (*etree.Element, error) {
	root := doc.Root()
	if root == nil || root.Tag != "document" {
		return nil, NewDocumentError("parse", documentPart, nil)
	}
	body := findChild(root, "body")
	if body == nil {
		return nil, NewNotFoundError("w:body", documentPart, "document has no body")
	}
	return body, nil
}

// paragraphs returns every w:p under root in document order, including
// paragraphs nested inside tables and other containers.
func paragraphs(root *etree.Element) []*etree.Element {
	var result []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if child.Tag == "p" {
				result = append(result, child)
				continue
			}
			walk(child)
		}
	}
	walk(root)
	return result
}

// directRuns returns the w:r elements that are direct children of a
// paragraph. Runs nested inside w:ins, w:del, or w:hyperlink wrappers are
// deliberately not included: splicing across those boundaries would detach
// text from its annotation.
func directRuns(p *etree.Element) []*etree.Element {
	var runs []*etree.Element
	for _, child := range p.ChildElements() {
		if child.Tag == "r" {
			runs = append(runs, child)
		}
	}
	return runs
}

// paragraphText concatenates all visible text in a paragraph, including text
// inside wrappers, for use as display context. Deleted text is included so
// pending deletions remain identifiable.
func paragraphText(p *etree.Element) string {
	var sb strings.Builder
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if child.Tag == "t" || child.Tag == "delText" {
				sb.WriteString(child.Text())
				continue
			}
			walk(child)
		}
	}
	walk(p)
	return sb.String()
}

// directRunsAfter returns the paragraph's direct-child runs positioned after
// marker in document order. With a nil marker all direct runs are returned.
func directRunsAfter(p *etree.Element, marker *etree.Element) []*etree.Element {
	runs := directRuns(p)
	if marker == nil {
		return runs
	}
	idx := marker.Index()
	var after []*etree.Element
	for _, run := range runs {
		if run.Index() > idx {
			after = append(after, run)
		}
	}
	return after
}

// findTextInParagraph finds every non-overlapping occurrence of search in the
// concatenated text of the paragraph's direct runs. Occurrences may span any
// number of run boundaries.
func findTextInParagraph(p *etree.Element, search string) []*textMatch {
	return findTextInRuns(p, directRuns(p), search)
}

// findTextInRuns matches search against the concatenation of the given runs.
// Callers that splice wrappers into a paragraph pass only the runs after the
// splice point: text on either side of a wrapper is not contiguous, so
// leftover fragments across the gap must never combine into a match.
func findTextInRuns(p *etree.Element, runs []*etree.Element, search string) []*textMatch {
	if len(runs) == 0 {
		return nil
	}

	texts := make([]string, len(runs))
	offsets := make([]int, len(runs))
	var sb strings.Builder
	for i, run := range runs {
		texts[i] = runText(run)
		offsets[i] = sb.Len()
		sb.WriteString(texts[i])
	}
	full := sb.String()

	var matches []*textMatch
	from := 0
	for {
		i := strings.Index(full[from:], search)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(search)
		matches = append(matches, &textMatch{
			paragraph: p,
			spans:     spansFor(runs, texts, offsets, start, end),
		})
		from = end
	}
	return matches
}

// spansFor maps a byte range of the combined paragraph text back onto the
// runs it covers. Runs that contribute zero bytes to the range are skipped.
func spansFor(runs []*etree.Element, texts []string, offsets []int, start, end int) []runSpan {
	var spans []runSpan
	for i, run := range runs {
		runStart := offsets[i]
		runEnd := runStart + len(texts[i])
		if runEnd <= start || runStart >= end {
			continue
		}
		s := 0
		if start > runStart {
			s = start - runStart
		}
		e := len(texts[i])
		if end < runEnd {
			e = end - runStart
		}
		if e > s {
			spans = append(spans, runSpan{run: run, start: s, end: e})
		}
	}
	return spans
}

// findFirstMatch scans paragraphs in document order and returns the first
// occurrence of search, or nil when no paragraph contains it.
func findFirstMatch(body *etree.Element, search string) *textMatch {
	for _, p := range paragraphs(body) {
		if matches := findTextInParagraph(p, search); len(matches) > 0 {
			return matches[0]
		}
	}
	return nil
}
