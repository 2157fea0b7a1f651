package redline

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// TrackedChange is one pending insertion or deletion found in a document.
// RawID carries the w:id attribute verbatim; ID is its numeric value, or 0
// when the attribute does not parse.
type TrackedChange struct {
	ID      int
	RawID   string
	Type    string
	Author  string
	Date    string
	Text    string
	Context string
}

// ChangesSummary groups tracked changes by kind, each list in document
// order, with totals.
type ChangesSummary struct {
	Insertions      []TrackedChange
	Deletions       []TrackedChange
	TotalInsertions int
	TotalDeletions  int
}

// SummarizeChanges splits a flat change list into insertion and deletion
// groups with totals.
func SummarizeChanges(changes []TrackedChange) *ChangesSummary {
	summary := &ChangesSummary{}
	for _, c := range changes {
		if c.Type == "deletion" {
			summary.Deletions = append(summary.Deletions, c)
		} else {
			summary.Insertions = append(summary.Insertions, c)
		}
	}
	summary.TotalInsertions = len(summary.Insertions)
	summary.TotalDeletions = len(summary.Deletions)
	return summary
}

// ReviewResult describes an accept or reject pass over a document.
type ReviewResult struct {
	Action string
	Count  int
	Path   string
}

type reviewOptions struct {
	authors map[string]bool
	ids     map[int]bool
}

// ReviewOption narrows which tracked changes an accept or reject pass
// touches. With no options every change is processed; combining options
// requires a change to satisfy all of them.
type ReviewOption func(*reviewOptions)

// ByAuthor restricts the pass to changes attributed to the given author.
// Repeating the option widens the set of accepted authors.
func ByAuthor(author string) ReviewOption {
	return func(o *reviewOptions) {
		if o.authors == nil {
			o.authors = make(map[string]bool)
		}
		o.authors[author] = true
	}
}

// ByIDs restricts the pass to changes with the given w:id values.
func ByIDs(ids ...int) ReviewOption {
	return func(o *reviewOptions) {
		if o.ids == nil {
			o.ids = make(map[int]bool)
		}
		for _, id := range ids {
			o.ids[id] = true
		}
	}
}

// matches reports whether a change wrapper passes the configured filters.
func (o *reviewOptions) matches(wrapper *etree.Element) bool {
	if o.ids != nil {
		id, err := strconv.Atoi(wrapper.SelectAttrValue("w:id", ""))
		if err != nil || !o.ids[id] {
			return false
		}
	}
	if o.authors != nil && !o.authors[wrapper.SelectAttrValue("w:author", "")] {
		return false
	}
	return true
}

// trackedChangeElements returns every w:ins and w:del under root in document
// order, including wrappers nested inside other wrappers.
func trackedChangeElements(root *etree.Element) []*etree.Element {
	var out []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if child.Tag == "ins" || child.Tag == "del" {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(root)
	return out
}

// changeText extracts the text a wrapper carries: w:delText for deletions
// with a w:t fallback for malformed ones, w:t for insertions.
func changeText(wrapper *etree.Element) string {
	collect := func(tag string) string {
		var sb strings.Builder
		var walk func(e *etree.Element)
		walk = func(e *etree.Element) {
			for _, child := range e.ChildElements() {
				if child.Tag == tag {
					sb.WriteString(child.Text())
					continue
				}
				walk(child)
			}
		}
		walk(wrapper)
		return sb.String()
	}

	if wrapper.Tag == "del" {
		if text := collect("delText"); text != "" {
			return text
		}
	}
	return collect("t")
}

// enclosingParagraph walks up from a wrapper to its containing w:p.
func enclosingParagraph(e *etree.Element) *etree.Element {
	for p := e.Parent(); p != nil; p = p.Parent() {
		if p.Tag == "p" {
			return p
		}
	}
	return nil
}

// truncateContext shortens paragraph text to a display-friendly prefix
// without splitting a multi-byte character.
func truncateContext(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

// ListTrackedChanges returns every pending insertion and deletion in the
// document at path, in document order, with paragraph context for display.
func ListTrackedChanges(path string) ([]TrackedChange, error) {
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

	var changes []TrackedChange
	for _, wrapper := range trackedChangeElements(body) {
		rawID := wrapper.SelectAttrValue("w:id", "")
		id, _ := strconv.Atoi(rawID)
		kind := "insertion"
		if wrapper.Tag == "del" {
			kind = "deletion"
		}
		var context string
		if p := enclosingParagraph(wrapper); p != nil {
			context = truncateContext(paragraphText(p), 100)
		}
		changes = append(changes, TrackedChange{
			ID:      id,
			RawID:   rawID,
			Type:    kind,
			Author:  wrapper.SelectAttrValue("w:author", ""),
			Date:    wrapper.SelectAttrValue("w:date", ""),
			Text:    changeText(wrapper),
			Context: context,
		})
	}
	return changes, nil
}

// isAttached reports whether e is still reachable from root.
func isAttached(e, root *etree.Element) bool {
	for p := e; p != nil; p = p.Parent() {
		if p == root {
			return true
		}
	}
	return false
}

// unwrapChange replaces a wrapper with its children, keeping their order.
func unwrapChange(wrapper *etree.Element) {
	parent := wrapper.Parent()
	idx := wrapper.Index()
	children := wrapper.ChildElements()
	parent.RemoveChild(wrapper)
	for k, child := range children {
		wrapper.RemoveChild(child)
		parent.InsertChildAt(idx+k, child)
	}
}

// AcceptTrackedChanges makes the selected pending changes permanent:
// insertions are unwrapped into regular runs, deletions are removed along
// with their text. Matching no changes is not an error; the result reports a
// zero count.
func AcceptTrackedChanges(path string, opts ...ReviewOption) (*ReviewResult, error) {
	return reviewPass(path, "accept", func(wrapper *etree.Element) {
		if wrapper.Tag == "ins" {
			unwrapChange(wrapper)
		} else {
			wrapper.Parent().RemoveChild(wrapper)
		}
	}, opts)
}

// RejectTrackedChanges restores the document as it was before the selected
// changes: insertions are removed, deletions are unwrapped with their text
// converted back from w:delText to w:t.
func RejectTrackedChanges(path string, opts ...ReviewOption) (*ReviewResult, error) {
	return reviewPass(path, "reject", func(wrapper *etree.Element) {
		if wrapper.Tag == "ins" {
			wrapper.Parent().RemoveChild(wrapper)
		} else {
			for _, run := range wrapper.ChildElements() {
				convertToRegularText(run)
			}
			unwrapChange(wrapper)
		}
	}, opts)
}

func reviewPass(path, action string, apply func(*etree.Element), opts []ReviewOption) (*ReviewResult, error) {
	var options reviewOptions
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

	count := 0
	for _, wrapper := range trackedChangeElements(body) {
		// A wrapper nested inside an already-removed one is gone with its
		// ancestor; skip it.
		if !isAttached(wrapper, body) {
			continue
		}
		if !options.matches(wrapper) {
			continue
		}
		apply(wrapper)
		count++
	}

	if count > 0 {
		if err := pkg.SetXMLPart(documentPart, docXML); err != nil {
			return nil, err
		}
		if err := pkg.Save(); err != nil {
			return nil, err
		}
	}

	Info("%sed %d tracked change(s) in %s", action, count, path)
	return &ReviewResult{Action: action, Count: count, Path: path}, nil
}
