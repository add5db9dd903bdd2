package models

import "time"

// Pipeline statuses written to the document record. External collaborators
// poll the record for these; there are no intermediate stages.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// Document represents the main record for a report processing job in Firestore.
// It tracks the overall status and metadata of the uploaded annual report.
type Document struct {
	ID               string    `firestore:"-"`
	LibraryID        string    `firestore:"libraryId"`
	Year             int       `firestore:"year"`
	FileURL          string    `firestore:"fileUrl"`
	OriginalFilename string    `firestore:"originalFilename,omitempty"`
	FileHash         string    `firestore:"fileHash,omitempty"`
	Status           string    `firestore:"status,omitempty"`
	ErrorDetails     string    `firestore:"errorDetails,omitempty"`
	CreatedAt        time.Time `firestore:"createdAt,omitempty"`
	UpdatedAt        time.Time `firestore:"updatedAt,omitempty"`
}

// Library is the metadata record for one library, keyed by its document ID.
type Library struct {
	ID   string `firestore:"-"`
	Name string `firestore:"name"`
}
