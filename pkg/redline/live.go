package redline

// LiveEdit kinds accepted by a LiveSurface.
const (
	LiveEditComment   = "comment"
	LiveEditReplace   = "replace"
	LiveEditInsert    = "insert"
	LiveEditDelete    = "delete"
	LiveEditHyperlink = "hyperlink"
)

// LiveEdit is one edit request expressed independently of the XML layer, so
// it can be replayed against a document that is open in a running word
// processor instead of on disk.
type LiveEdit struct {
	Kind   string
	Search string
	Text   string
	URL    string
	Author string
}

// LiveResult reports the outcome of a batch applied through a live surface.
type LiveResult struct {
	Applied  int
	Messages []string
}

// LiveSurface is a bridge to a running word processor session. Direct package
// surgery fails with a LockedFileError while the target document is open;
// callers holding a LiveSurface can resolve the document and route the same
// edits through the editor instead.
//
// The interface is deliberately small: resolving a path to an open document,
// and applying a batch of edits to it. Everything else (matching semantics,
// attribution, ordering) is the implementation's contract with its editor.
type LiveSurface interface {
	// ResolveDocument reports whether the file at path is open in the
	// surface and returns the surface's name for it.
	ResolveDocument(path string) (name string, open bool, err error)

	// BatchEdit applies edits to the open document in order. Implementations
	// return an error only for transport failures; per-edit misses are
	// reported through LiveResult.Messages.
	BatchEdit(path string, edits []LiveEdit) (*LiveResult, error)
}

// RouteIfLocked retries a failed edit through a live surface. If err is a
// LockedFileError, surface is non-nil, and the surface has the document open,
// the edits are applied there. Any other error, or a lock with no live route,
// is returned unchanged.
func RouteIfLocked(surface LiveSurface, path string, err error, edits []LiveEdit) (*LiveResult, error) {
	if err == nil || !IsLockedFile(err) || surface == nil {
		return nil, err
	}
	name, open, resolveErr := surface.ResolveDocument(path)
	if resolveErr != nil || !open {
		return nil, err
	}
	Info("routing %d edit(s) to open document %s", len(edits), name)
	return surface.BatchEdit(path, edits)
}
