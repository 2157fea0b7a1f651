package redline

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTrackedChanges(t *testing.T) {
	path := writeTestDocx(t, map[string]string{
		documentPart: testDocXML(threeRunParagraph),
	})

	_, err := TrackDelete(path, "fox", "Alice")
	require.NoError(t, err)

	changes, err := ListTrackedChanges(path)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "deletion", changes[0].Type)
	assert.Equal(t, "Alice", changes[0].Author)
	assert.Equal(t, "fox", changes[0].Text)
	assert.Equal(t, "The quick brown fox", changes[0].Context)
	assert.NotEmpty(t, changes[0].Date)
	assert.Positive(t, changes[0].ID)
	assert.Equal(t, strconv.Itoa(changes[0].ID), changes[0].RawID)
}

func TestListTrackedChangesKeepsRawID(t *testing.T) {
	body := `<w:p><w:ins w:id="abc" w:author="Alice" w:date="2024-01-01T00:00:00Z"><w:r><w:t>new</w:t></w:r></w:ins></w:p>`
	path := writeTestDocx(t, map[string]string{documentPart: testDocXML(body)})

	changes, err := ListTrackedChanges(path)
	require.NoError(t, err)
	require.Len(t, changes, 1)

	// A w:id that does not parse still surfaces verbatim.
	assert.Equal(t, 0, changes[0].ID)
	assert.Equal(t, "abc", changes[0].RawID)
}

func TestSummarizeChanges(t *testing.T) {
	path := writeTestDocx(t, nil)

	_, err := TrackReplace(path, "world", "there", "Bob")
	require.NoError(t, err)
	_, err = TrackInsert(path, "Hello", " dear", "Alice")
	require.NoError(t, err)

	changes, err := ListTrackedChanges(path)
	require.NoError(t, err)

	summary := SummarizeChanges(changes)
	require.Len(t, summary.Deletions, 1)
	require.Len(t, summary.Insertions, 2)
	assert.Equal(t, 1, summary.TotalDeletions)
	assert.Equal(t, 2, summary.TotalInsertions)
	assert.Equal(t, "world", summary.Deletions[0].Text)
}

func TestSummarizeChangesEmpty(t *testing.T) {
	summary := SummarizeChanges(nil)
	assert.Empty(t, summary.Insertions)
	assert.Empty(t, summary.Deletions)
	assert.Equal(t, 0, summary.TotalInsertions)
	assert.Equal(t, 0, summary.TotalDeletions)
}

func TestListTrackedChangesAfterReplace(t *testing.T) {
	path := writeTestDocx(t, nil)

	_, err := TrackReplace(path, "world", "there", "Bob")
	require.NoError(t, err)

	changes, err := ListTrackedChanges(path)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, "deletion", changes[0].Type)
	assert.Equal(t, "world", changes[0].Text)
	assert.Equal(t, "insertion", changes[1].Type)
	assert.Equal(t, "there", changes[1].Text)
}

func TestListTrackedChangesEmptyDocument(t *testing.T) {
	path := writeTestDocx(t, nil)

	changes, err := ListTrackedChanges(path)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestAcceptDeletion(t *testing.T) {
	path := writeTestDocx(t, map[string]string{
		documentPart: testDocXML(threeRunParagraph),
	})

	_, err := TrackDelete(path, "fox", "Alice")
	require.NoError(t, err)

	result, err := AcceptTrackedChanges(path)
	require.NoError(t, err)
	assert.Equal(t, "accept", result.Action)
	assert.Equal(t, 1, result.Count)

	body := savedBody(t, path)
	assert.Equal(t, "The quick brown ", visibleText(body))
	assert.Empty(t, trackedChangeElements(body))
	assert.NotContains(t, readZipPart(t, path, documentPart), "delText")
}

func TestAcceptInsertion(t *testing.T) {
	path := writeTestDocx(t, nil)

	_, err := TrackInsert(path, "Hello", " dear", "Alice")
	require.NoError(t, err)

	result, err := AcceptTrackedChanges(path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)

	body := savedBody(t, path)
	assert.Equal(t, "Hello dear world", visibleText(body))
	assert.Empty(t, trackedChangeElements(body))
}

func TestRejectDeletionRestoresText(t *testing.T) {
	path := writeTestDocx(t, map[string]string{
		documentPart: testDocXML(threeRunParagraph),
	})

	_, err := TrackDelete(path, "fox", "Alice")
	require.NoError(t, err)

	result, err := RejectTrackedChanges(path)
	require.NoError(t, err)
	assert.Equal(t, "reject", result.Action)
	assert.Equal(t, 1, result.Count)

	body := savedBody(t, path)
	assert.Equal(t, "The quick brown fox", visibleText(body))
	assert.Empty(t, trackedChangeElements(body))
	assert.NotContains(t, readZipPart(t, path, documentPart), "delText")
}

func TestRejectInsertionRemovesText(t *testing.T) {
	path := writeTestDocx(t, nil)

	_, err := TrackInsert(path, "Hello", " dear", "Alice")
	require.NoError(t, err)

	result, err := RejectTrackedChanges(path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "Hello world", visibleText(savedBody(t, path)))
}

func TestRejectReplaceRestoresOriginal(t *testing.T) {
	path := writeTestDocx(t, nil)

	_, err := TrackReplace(path, "world", "there", "Bob")
	require.NoError(t, err)

	result, err := RejectTrackedChanges(path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, "Hello world", visibleText(savedBody(t, path)))
}

func TestReviewFilterByAuthor(t *testing.T) {
	path := writeTestDocx(t, map[string]string{
		documentPart: testDocXML(threeRunParagraph),
	})

	_, err := TrackDelete(path, "quick", "Alice")
	require.NoError(t, err)
	_, err = TrackDelete(path, "fox", "Bob")
	require.NoError(t, err)

	result, err := AcceptTrackedChanges(path, ByAuthor("Alice"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)

	remaining, err := ListTrackedChanges(path)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Bob", remaining[0].Author)
	assert.Equal(t, "fox", remaining[0].Text)
}

func TestReviewFilterByIDs(t *testing.T) {
	path := writeTestDocx(t, map[string]string{
		documentPart: testDocXML(`<w:p><w:r><w:t>red fish blue fish</w:t></w:r></w:p>`),
	})

	tracked, err := TrackDelete(path, "fish", "Alice")
	require.NoError(t, err)
	require.Len(t, tracked.ChangeIDs, 2)

	result, err := RejectTrackedChanges(path, ByIDs(tracked.ChangeIDs[0]))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)

	remaining, err := ListTrackedChanges(path)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, tracked.ChangeIDs[1], remaining[0].ID)
}

func TestReviewCombinedFiltersMustAllMatch(t *testing.T) {
	path := writeTestDocx(t, map[string]string{
		documentPart: testDocXML(threeRunParagraph),
	})

	_, err := TrackDelete(path, "quick", "Alice")
	require.NoError(t, err)
	bob, err := TrackDelete(path, "fox", "Bob")
	require.NoError(t, err)

	result, err := AcceptTrackedChanges(path, ByAuthor("Alice"), ByIDs(bob.ChangeIDs[0]))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
}

func TestReviewNoMatchingChangesIsNotAnError(t *testing.T) {
	path := writeTestDocx(t, nil)
	before := readZipPart(t, path, documentPart)

	result, err := AcceptTrackedChanges(path)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)

	// Nothing matched, nothing was rewritten.
	assert.Equal(t, before, readZipPart(t, path, documentPart))
}
