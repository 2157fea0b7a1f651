package redline

import (
	"errors"
	"fmt"
)

// NotFoundError reports a missing file, a missing archive part, or an
// out-of-range paragraph index.
type NotFoundError struct {
	What    string
	Path    string
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s not found in '%s': %s", e.What, e.Path, e.Message)
	}
	return fmt.Sprintf("%s not found in '%s'", e.What, e.Path)
}

// NewNotFoundError creates a new not-found error.
func NewNotFoundError(what, path, message string) error {
	return &NotFoundError{What: what, Path: path, Message: message}
}

// NoMatchError reports that a literal search string was not present in any
// eligible run of the document.
type NoMatchError struct {
	SearchText string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("text not found: '%s'", e.SearchText)
}

// NewNoMatchError creates a new no-match error for the given search text.
func NewNoMatchError(searchText string) error {
	return &NoMatchError{SearchText: searchText}
}

// InvalidInputError reports an empty or otherwise unusable required parameter.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewInvalidInputError creates a new invalid-input error.
func NewInvalidInputError(field, message string) error {
	return &InvalidInputError{Field: field, Message: message}
}

// LockedFileError reports a file that exists but cannot be read, typically
// because a word processor holds it with an exclusive lock. Callers that have
// a live-editing surface available should route these files there instead.
type LockedFileError struct {
	Path  string
	Cause error
}

func (e *LockedFileError) Error() string {
	return fmt.Sprintf("file locked (probably open in Word): '%s': %v", e.Path, e.Cause)
}

func (e *LockedFileError) Unwrap() error {
	return e.Cause
}

// NewLockedFileError creates a new locked-file error.
func NewLockedFileError(path string, cause error) error {
	return &LockedFileError{Path: path, Cause: cause}
}

// ManifestError reports a structurally unusable package manifest (missing
// root element in a rels or content-types part).
type ManifestError struct {
	Part    string
	Message string
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest error in %s: %s", e.Part, e.Message)
}

// NewManifestError creates a new manifest error.
func NewManifestError(part, message string) error {
	return &ManifestError{Part: part, Message: message}
}

// DocumentError represents an unexpected failure during package or XML
// processing (corrupt zip, unparseable part, write failure).
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error.
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{Operation: operation, Path: path, Cause: cause}
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsNoMatch checks if an error is a no-match error.
func IsNoMatch(err error) bool {
	var target *NoMatchError
	return errors.As(err, &target)
}

// IsInvalidInput checks if an error is an invalid-input error.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// IsLockedFile checks if an error is a locked-file error.
func IsLockedFile(err error) bool {
	var target *LockedFileError
	return errors.As(err, &target)
}

// IsManifestError checks if an error is a manifest error.
func IsManifestError(err error) bool {
	var target *ManifestError
	return errors.As(err, &target)
}

// IsDocumentError checks if an error is a document error.
func IsDocumentError(err error) bool {
	var target *DocumentError
	return errors.As(err, &target)
}
