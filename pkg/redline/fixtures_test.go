package redline

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"
)

const testContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const testRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

const testDocRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

// testDocXML wraps body content in a minimal but namespace-complete
// word/document.xml.
func testDocXML(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:w14="http://schemas.microsoft.com/office/word/2010/wordml"><w:body>` + body + `</w:body></w:document>`
}

// threeRunParagraph is the canonical split fixture: one sentence spread over
// three runs, the middle one bold.
const threeRunParagraph = `<w:p><w:r><w:t xml:space="preserve">The quick </w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t>brown</w:t></w:r><w:r><w:t xml:space="preserve"> fox</w:t></w:r></w:p>`

// writeTestDocx builds a .docx in a temp dir. parts overrides or extends the
// default entries by name; an empty-string value omits that entry entirely.
func writeTestDocx(t *testing.T, parts map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.docx")
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	defaults := []struct{ name, data string }{
		{contentTypesPart, testContentTypes},
		{"_rels/.rels", testRootRels},
		{documentRelsPart, testDocRels},
		{documentPart, testDocXML(`<w:p><w:r><w:t>Hello world</w:t></w:r></w:p>`)},
	}

	written := make(map[string]bool)
	for _, d := range defaults {
		written[d.name] = true
		data := d.data
		if override, ok := parts[d.name]; ok {
			if override == "" {
				continue
			}
			data = override
		}
		w, err := zw.Create(d.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(data))
		require.NoError(t, err)
	}
	for name, data := range parts {
		if written[name] || data == "" {
			continue
		}
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(data))
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

// readZipPart extracts one entry from a zip file on disk.
func readZipPart(t *testing.T, path, name string) string {
	t.Helper()

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatalf("part %s not found in %s", name, path)
	return ""
}

// zipEntryNames lists entry names in archive order.
func zipEntryNames(t *testing.T, path string) []string {
	t.Helper()

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

// parseXML parses an XML string into an etree document.
func parseXML(t *testing.T, data string) *etree.Document {
	t.Helper()

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(data))
	return doc
}

// savedBody reparses the document part of a saved file and returns its body.
func savedBody(t *testing.T, path string) *etree.Element {
	t.Helper()

	doc := parseXML(t, readZipPart(t, path, documentPart))
	body, err := documentBody(doc)
	require.NoError(t, err)
	return body
}

// visibleText concatenates the text of all w:t elements under root, skipping
// w:delText so pending deletions read as already gone.
func visibleText(root *etree.Element) string {
	text := ""
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if child.Tag == "t" {
				text += child.Text()
				continue
			}
			walk(child)
		}
	}
	walk(root)
	return text
}
