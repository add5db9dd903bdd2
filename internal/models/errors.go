package models

import "fmt"

// The pipeline's error taxonomy. NotFoundError, FetchError, ExtractionError
// and PersistenceError are fatal and abort a run; OracleError and ParseError
// are contained at the chunk level and only skip that chunk.

// NotFoundError reports a missing document or library record.
type NotFoundError struct {
	Kind string // "document" or "library"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// FetchError reports that a document's byte-reference could not be read.
type FetchError struct {
	Ref        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Ref, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Ref, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError reports that no text could be extracted from the PDF.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("text extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// OracleError reports a failed extraction-model call for one chunk.
type OracleError struct {
	Err error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("extraction model call failed: %v", e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }

// ParseError reports that one chunk's model response held no parseable JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("extraction response not parseable: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PersistenceError reports a failed write to the record or result store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
