// Package store holds the Firestore-backed record stores the pipeline reads
// from and writes to. Each store is a narrow, dependency-injected handle; no
// package-level client singletons.
package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Lllllllleong/libraryreportflow/internal/models"
)

// DocumentStore reads and updates report processing job records.
type DocumentStore struct {
	client     *firestore.Client
	collection string
}

func NewDocumentStore(client *firestore.Client, collection string) *DocumentStore {
	return &DocumentStore{client: client, collection: collection}
}

// Get loads one document record. A missing record surfaces as a
// *models.NotFoundError.
func (s *DocumentStore) Get(ctx context.Context, id string) (*models.Document, error) {
	snap, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, &models.NotFoundError{Kind: "document", ID: id}
		}
		return nil, fmt.Errorf("failed to load document %s: %w", id, err)
	}

	var doc models.Document
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	doc.ID = snap.Ref.ID
	return &doc, nil
}

// SetStatus writes the document's status, error details and update timestamp.
func (s *DocumentStore) SetStatus(ctx context.Context, id, docStatus, errDetails string) error {
	updates := []firestore.Update{
		{Path: "status", Value: docStatus},
		{Path: "errorDetails", Value: errDetails},
		{Path: "updatedAt", Value: time.Now()},
	}
	if _, err := s.client.Collection(s.collection).Doc(id).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to update status of document %s: %w", id, err)
	}
	return nil
}

// Create adds a new document record and returns its generated ID.
func (s *DocumentStore) Create(ctx context.Context, doc *models.Document) (string, error) {
	ref, _, err := s.client.Collection(s.collection).Add(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create document record: %w", err)
	}
	return ref.ID, nil
}

// FindByHash returns the ID of an existing record with the given file hash,
// if any. Used for upload deduplication.
func (s *DocumentStore) FindByHash(ctx context.Context, fileHash string) (string, bool, error) {
	docs, err := s.client.Collection(s.collection).Where("fileHash", "==", fileHash).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return "", false, fmt.Errorf("failed to query for duplicates: %w", err)
	}
	if len(docs) > 0 {
		return docs[0].Ref.ID, true, nil
	}
	return "", false, nil
}

// LibraryStore reads library metadata records.
type LibraryStore struct {
	client     *firestore.Client
	collection string
}

func NewLibraryStore(client *firestore.Client, collection string) *LibraryStore {
	return &LibraryStore{client: client, collection: collection}
}

// Get loads one library record. A missing record surfaces as a
// *models.NotFoundError.
func (s *LibraryStore) Get(ctx context.Context, id string) (*models.Library, error) {
	snap, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, &models.NotFoundError{Kind: "library", ID: id}
		}
		return nil, fmt.Errorf("failed to load library %s: %w", id, err)
	}

	var lib models.Library
	if err := snap.DataTo(&lib); err != nil {
		return nil, fmt.Errorf("failed to decode library %s: %w", id, err)
	}
	lib.ID = snap.Ref.ID
	return &lib, nil
}

// ResultStore persists merged report records, one per document ID.
type ResultStore struct {
	client     *firestore.Client
	collection string
}

func NewResultStore(client *firestore.Client, collection string) *ResultStore {
	return &ResultStore{client: client, collection: collection}
}

// Save writes the final record for a document, replacing any previous run's
// result. Last write wins.
func (s *ResultStore) Save(ctx context.Context, documentID string, record *models.FinalRecord) error {
	if _, err := s.client.Collection(s.collection).Doc(documentID).Set(ctx, record); err != nil {
		return &models.PersistenceError{
			Op:  fmt.Sprintf("save report for document %s", documentID),
			Err: err,
		}
	}
	return nil
}
