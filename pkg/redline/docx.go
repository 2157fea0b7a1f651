package redline

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
)

// Package is the in-memory representation of a .docx zip archive. Entries are
// kept as raw bytes in their original order; mutated parts are replaced
// wholesale, everything else round-trips with identical content.
type Package struct {
	path    string
	order   []string
	entries map[string][]byte
	added   []string
}

// OpenPackage reads a .docx file fully into memory. It distinguishes a
// missing file, a file locked by another process (typically a running word
// processor), a non-zip file, and a zip without word/document.xml.
func OpenPackage(path string) (*Package, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewNotFoundError("document", path, "file does not exist")
		}
		return nil, NewDocumentError("stat", path, err)
	}

	// Probe readability before parsing so an exclusive lock surfaces as a
	// distinct condition instead of a generic zip error.
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, NewLockedFileError(path, err)
		}
		return nil, NewDocumentError("open", path, err)
	}

	content, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return nil, NewDocumentError("read", path, err)
	}

	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, NewDocumentError("open zip", path, err)
	}

	pkg := &Package{
		path:    path,
		entries: make(map[string][]byte, len(zr.File)),
	}

	for _, file := range zr.File {
		rc, err := file.Open()
		if err != nil {
			return nil, NewDocumentError("open part", file.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, NewDocumentError("read part", file.Name, err)
		}
		pkg.order = append(pkg.order, file.Name)
		pkg.entries[file.Name] = data
	}

	if _, ok := pkg.entries[documentPart]; !ok {
		return nil, NewNotFoundError(documentPart, path, "not a valid DOCX file")
	}

	return pkg, nil
}

// Path returns the file path this package was loaded from.
func (p *Package) Path() string {
	return p.path
}

// Part returns the current bytes of a named entry.
func (p *Package) Part(name string) ([]byte, bool) {
	data, ok := p.entries[name]
	return data, ok
}

// SetPart replaces the bytes of an entry, or registers a new entry that will
// be appended after the original ones on save.
func (p *Package) SetPart(name string, data []byte) {
	if _, ok := p.entries[name]; !ok {
		p.added = append(p.added, name)
	}
	p.entries[name] = data
}

// PartNames returns all entry names in write order.
func (p *Package) PartNames() []string {
	names := make([]string, 0, len(p.order)+len(p.added))
	names = append(names, p.order...)
	names = append(names, p.added...)
	return names
}

// WriteTo serializes the package as a zip archive: original entries in their
// original order, then any newly added entries.
func (p *Package) WriteTo(w io.Writer) error {
	zw := zip.NewWriter(w)

	write := func(name string) error {
		fw, err := zw.Create(name)
		if err != nil {
			return NewDocumentError("create zip entry", name, err)
		}
		if _, err := fw.Write(p.entries[name]); err != nil {
			return NewDocumentError("write zip entry", name, err)
		}
		return nil
	}

	for _, name := range p.order {
		if err := write(name); err != nil {
			return err
		}
	}
	for _, name := range p.added {
		if err := write(name); err != nil {
			return err
		}
	}

	return zw.Close()
}

// Save writes the package back to its original path. The new archive is
// staged as a sibling temp file and renamed over the original so readers
// never observe a partially written zip.
func (p *Package) Save() error {
	var buf bytes.Buffer
	if err := p.WriteTo(&buf); err != nil {
		return err
	}

	dir := filepath.Dir(p.path)
	tmp, err := os.CreateTemp(dir, ".redline-*.docx")
	if err != nil {
		return NewDocumentError("create temp file", p.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return NewDocumentError("write temp file", p.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return NewDocumentError("close temp file", p.path, err)
	}

	if err := os.Rename(tmpName, p.path); err != nil {
		os.Remove(tmpName)
		return NewDocumentError("replace file", p.path, err)
	}

	Debug("saved package %s (%d entries)", p.path, len(p.entries))
	return nil
}

// XMLPart parses a named entry as an XML document.
func (p *Package) XMLPart(name string) (*etree.Document, error) {
	data, ok := p.entries[name]
	if !ok {
		return nil, NewNotFoundError(name, p.path, "part missing from package")
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, NewDocumentError("parse", name, err)
	}
	return doc, nil
}

// SetXMLPart serializes an XML document back into a named entry.
func (p *Package) SetXMLPart(name string, doc *etree.Document) error {
	out, err := doc.WriteToBytes()
	if err != nil {
		return NewDocumentError("serialize", name, err)
	}
	p.SetPart(name, out)
	return nil
}
