package redline

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/beevik/etree"
)

// CommentResult describes a comment that was anchored and written out.
type CommentResult struct {
	CommentID int
	Author    string
	Anchor    string
	Path      string
}

// annotationDate formats a timestamp the way Word expects on comments and
// tracked changes: UTC, second precision, trailing Z.
func annotationDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// newParaID returns a random 8-digit uppercase hex value for w14:paraId.
func newParaID() string {
	return fmt.Sprintf("%08X", rand.Uint32())
}

// AddComment anchors a new comment to the first occurrence of search in the
// document at path and saves the file in place. The comments side-car part,
// its relationship, and its content-type registration are all created on
// demand, so commenting works on documents that have never held a comment.
// Empty author or initials fall back to the configured defaults.
func AddComment(path, search, commentText, author, initials string) (*CommentResult, error) {
	if search == "" {
		return nil, NewInvalidInputError("search text", "cannot be empty")
	}
	if commentText == "" {
		return nil, NewInvalidInputError("comment text", "cannot be empty")
	}
	config := GetGlobalConfig()
	if author == "" {
		author = config.DefaultAuthor
	}
	if initials == "" {
		initials = config.DefaultInitials
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

	match := findFirstMatch(body, search)
	if match == nil {
		return nil, NewNoMatchError(search)
	}

	if _, ok := pkg.Part(commentsPart); !ok {
		pkg.SetPart(commentsPart, []byte(commentsXMLTemplate))
	}
	commentsXML, err := pkg.XMLPart(commentsPart)
	if err != nil {
		return nil, err
	}
	commentsRoot := commentsXML.Root()
	if commentsRoot == nil || commentsRoot.Tag != "comments" {
		return nil, NewManifestError(commentsPart, "missing w:comments root element")
	}

	if err := ensureContentTypeOverride(pkg, "/"+commentsPart, commentsContentType); err != nil {
		return nil, err
	}
	if _, err := ensureRelationship(pkg, commentsRelationType, "comments.xml"); err != nil {
		return nil, err
	}

	// Scan both trees so the new id cannot collide with an existing comment
	// or a tracked-change id in the document.
	commentID := nextAnnotationID(docXML.Root(), commentsRoot)

	appendCommentBody(commentsRoot, commentID, author, initials, commentText)
	anchorCommentRange(match, commentID)

	if err := pkg.SetXMLPart(commentsPart, commentsXML); err != nil {
		return nil, err
	}
	if err := pkg.SetXMLPart(documentPart, docXML); err != nil {
		return nil, err
	}
	if err := pkg.Save(); err != nil {
		return nil, err
	}

	Info("added comment %d by %s to %s", commentID, author, path)
	return &CommentResult{
		CommentID: commentID,
		Author:    author,
		Anchor:    search,
		Path:      path,
	}, nil
}

// appendCommentBody adds a w:comment entry to the comments part.
func appendCommentBody(commentsRoot *etree.Element, id int, author, initials, text string) {
	comment := commentsRoot.CreateElement("w:comment")
	comment.CreateAttr("w:id", strconv.Itoa(id))
	comment.CreateAttr("w:author", author)
	comment.CreateAttr("w:initials", initials)
	comment.CreateAttr("w:date", annotationDate(time.Now()))

	p := comment.CreateElement("w:p")
	p.CreateAttr("w14:paraId", newParaID())
	p.CreateAttr("w14:textId", "77777777")

	refRun := p.CreateElement("w:r")
	refPr := refRun.CreateElement("w:rPr")
	refStyle := refPr.CreateElement("w:rStyle")
	refStyle.CreateAttr("w:val", "CommentReference")
	refRun.CreateElement("w:annotationRef")

	textRun := p.CreateElement("w:r")
	textPr := textRun.CreateElement("w:rPr")
	sz := textPr.CreateElement("w:sz")
	sz.CreateAttr("w:val", "20")
	szCs := textPr.CreateElement("w:szCs")
	szCs.CreateAttr("w:val", "20")
	t := textRun.CreateElement("w:t")
	t.SetText(text)
	applySpacePreserve(t, text)
}

// anchorCommentRange splices commentRangeStart/End markers around the matched
// runs and appends the in-text reference run after the range end.
func anchorCommentRange(match *textMatch, id int) {
	matched := splitMatch(match)
	p := match.paragraph
	idStr := strconv.Itoa(id)

	rangeStart := etree.NewElement("w:commentRangeStart")
	rangeStart.CreateAttr("w:id", idStr)
	insertBefore(p, matched[0], rangeStart)

	rangeEnd := etree.NewElement("w:commentRangeEnd")
	rangeEnd.CreateAttr("w:id", idStr)
	insertAfter(p, matched[len(matched)-1], rangeEnd)

	refRun := etree.NewElement("w:r")
	refPr := refRun.CreateElement("w:rPr")
	refStyle := refPr.CreateElement("w:rStyle")
	refStyle.CreateAttr("w:val", "CommentReference")
	refMark := refRun.CreateElement("w:commentReference")
	refMark.CreateAttr("w:id", idStr)
	insertAfter(p, rangeEnd, refRun)
}
