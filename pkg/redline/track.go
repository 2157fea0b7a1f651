package redline

import (
	"strconv"
	"time"

	"github.com/beevik/etree"
)

// TrackResult describes a tracked-change mutation that was written out.
type TrackResult struct {
	Operation string
	Count     int
	Author    string
	Path      string
	ChangeIDs []int
}

// trackContext bundles the open package and parsed document shared by the
// tracked-change operations.
type trackContext struct {
	pkg    *Package
	docXML *etree.Document
	body   *etree.Element
	author string
	date   string
}

func openForTracking(path, author string) (*trackContext, error) {
	if author == "" {
		author = GetGlobalConfig().DefaultAuthor
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
	return &trackContext{
		pkg:    pkg,
		docXML: docXML,
		body:   body,
		author: author,
		date:   annotationDate(time.Now()),
	}, nil
}

func (tc *trackContext) save() error {
	if err := tc.pkg.SetXMLPart(documentPart, tc.docXML); err != nil {
		return err
	}
	return tc.pkg.Save()
}

// nextChangeID allocates a w:id unused anywhere in the document tree. Each
// allocation re-scans, so ids inserted moments earlier are accounted for.
func (tc *trackContext) nextChangeID() int {
	return nextAnnotationID(tc.docXML.Root())
}

// newChangeWrapper builds an empty w:ins or w:del element.
func newChangeWrapper(tag string, id int, author, date string) *etree.Element {
	wrapper := etree.NewElement(tag)
	wrapper.CreateAttr("w:id", strconv.Itoa(id))
	wrapper.CreateAttr("w:author", author)
	wrapper.CreateAttr("w:date", date)
	return wrapper
}

// wrapDeletion replaces the matched runs with a w:del wrapper holding the
// matched text as a single w:delText run. The run takes the first matched
// run's formatting. Returns the wrapper element.
func (tc *trackContext) wrapDeletion(match *textMatch, id int) *etree.Element {
	p := match.paragraph
	text := match.text()
	rPr := cloneRunProperties(match.spans[0].run)

	matched := splitMatch(match)
	del := newChangeWrapper("w:del", id, tc.author, tc.date)
	insertBefore(p, matched[0], del)
	removeRuns(matched)
	del.AddChild(newDeletedRun(rPr, text))
	return del
}

// insertTracked places a w:ins wrapper holding one new run after ref.
func (tc *trackContext) insertTracked(p, ref *etree.Element, rPr *etree.Element, text string, id int) *etree.Element {
	ins := newChangeWrapper("w:ins", id, tc.author, tc.date)
	ins.AddChild(newRun(rPr, text))
	insertAfter(p, ref, ins)
	return ins
}

// TrackReplace marks every occurrence of search as deleted and inserts
// replacement after each, as a tracked change attributed to author. The
// replacement run copies the formatting of the first replaced run. Returns
// NoMatchError when the document contains no occurrence.
func TrackReplace(path, search, replacement, author string) (*TrackResult, error) {
	if search == "" {
		return nil, NewInvalidInputError("search text", "cannot be empty")
	}
	if replacement == "" {
		return nil, NewInvalidInputError("replacement text", "cannot be empty")
	}

	tc, err := openForTracking(path, author)
	if err != nil {
		return nil, err
	}

	var changeIDs []int
	count := 0
	for _, p := range paragraphs(tc.body) {
		// Re-search after every splice, resuming past the spliced region:
		// spans go stale, and the leftover runs on either side of a wrapper
		// are not contiguous text, so they must not combine into a match.
		var resumeAfter *etree.Element
		for {
			matches := findTextInRuns(p, directRunsAfter(p, resumeAfter), search)
			if len(matches) == 0 {
				break
			}
			match := matches[0]
			rPr := cloneRunProperties(match.spans[0].run)

			delID := tc.nextChangeID()
			del := tc.wrapDeletion(match, delID)
			insID := tc.nextChangeID()
			resumeAfter = tc.insertTracked(p, del, rPr, replacement, insID)

			changeIDs = append(changeIDs, delID, insID)
			count++
		}
	}
	if count == 0 {
		return nil, NewNoMatchError(search)
	}

	if err := tc.save(); err != nil {
		return nil, err
	}
	Info("tracked replace of %d occurrence(s) in %s", count, path)
	return &TrackResult{
		Operation: "replace",
		Count:     count,
		Author:    tc.author,
		Path:      path,
		ChangeIDs: changeIDs,
	}, nil
}

// TrackInsert inserts newText immediately after the first occurrence of
// anchor, as a tracked insertion attributed to author. When the anchor ends
// mid-run the run is split so the insertion lands at the exact offset. The
// inserted run copies the formatting of the run the anchor ends in.
func TrackInsert(path, anchor, newText, author string) (*TrackResult, error) {
	if anchor == "" {
		return nil, NewInvalidInputError("anchor text", "cannot be empty")
	}
	if newText == "" {
		return nil, NewInvalidInputError("new text", "cannot be empty")
	}

	tc, err := openForTracking(path, author)
	if err != nil {
		return nil, err
	}

	match := findFirstMatch(tc.body, anchor)
	if match == nil {
		return nil, NewNoMatchError(anchor)
	}

	matched := splitMatch(match)
	last := matched[len(matched)-1]
	rPr := cloneRunProperties(last)

	insID := tc.nextChangeID()
	tc.insertTracked(match.paragraph, last, rPr, newText, insID)

	if err := tc.save(); err != nil {
		return nil, err
	}
	Info("tracked insert after '%s' in %s", anchor, path)
	return &TrackResult{
		Operation: "insert",
		Count:     1,
		Author:    tc.author,
		Path:      path,
		ChangeIDs: []int{insID},
	}, nil
}

// TrackDelete marks every occurrence of search as deleted, as a tracked
// change attributed to author. The text stays in the document inside w:del
// wrappers until a reviewer accepts or rejects it.
func TrackDelete(path, search, author string) (*TrackResult, error) {
	if search == "" {
		return nil, NewInvalidInputError("search text", "cannot be empty")
	}

	tc, err := openForTracking(path, author)
	if err != nil {
		return nil, err
	}

	var changeIDs []int
	count := 0
	for _, p := range paragraphs(tc.body) {
		var resumeAfter *etree.Element
		for {
			matches := findTextInRuns(p, directRunsAfter(p, resumeAfter), search)
			if len(matches) == 0 {
				break
			}
			delID := tc.nextChangeID()
			resumeAfter = tc.wrapDeletion(matches[0], delID)
			changeIDs = append(changeIDs, delID)
			count++
		}
	}
	if count == 0 {
		return nil, NewNoMatchError(search)
	}

	if err := tc.save(); err != nil {
		return nil, err
	}
	Info("tracked delete of %d occurrence(s) in %s", count, path)
	return &TrackResult{
		Operation: "delete",
		Count:     count,
		Author:    tc.author,
		Path:      path,
		ChangeIDs: changeIDs,
	}, nil
}
