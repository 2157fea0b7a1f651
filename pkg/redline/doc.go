// Package redline edits Word documents in place by splicing their XML: it
// anchors comments, wraps hyperlinks, and records insertions and deletions as
// tracked changes, all addressed by literal text rather than coordinates.
//
// The engine works directly on the .docx zip package. Parts it touches are
// parsed and rewritten; everything else round-trips byte for byte, so custom
// styles, embedded media, and markup the engine does not understand survive
// every edit. Search text may span run boundaries; runs are split as needed
// and keep their formatting.
//
// Typical use:
//
//	result, err := redline.AddComment("report.docx", "Q3 revenue", "Needs a source.", "Dana", "DK")
//	if redline.IsLockedFile(err) {
//		// the document is open in a word processor; see LiveSurface
//	}
package redline
