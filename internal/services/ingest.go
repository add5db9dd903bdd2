package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"github.com/Lllllllleong/libraryreportflow/internal/gcp"
	"github.com/Lllllllleong/libraryreportflow/internal/models"
	"github.com/Lllllllleong/libraryreportflow/internal/store"
)

// IngestConfig holds configuration for the upload-ingest service.
type IngestConfig struct {
	ProjectID           string
	DocumentsCollection string
}

// IngestFunction creates the initial document record when an annual report
// lands in the upload bucket. It does not start the pipeline; the
// report-processor function is invoked separately.
type IngestFunction struct {
	storageClient *storage.Client
	documents     *store.DocumentStore
	config        IngestConfig
}

// GCSEvent is the payload of a GCS object-finalize CloudEvent.
type GCSEvent struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

// NewIngest creates a new IngestFunction instance.
func NewIngest(ctx context.Context) (*IngestFunction, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}

	config := IngestConfig{
		ProjectID:           projectID,
		DocumentsCollection: gcp.GetEnv("FIRESTORE_DOCUMENTS_COLLECTION", "documents"),
	}

	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &IngestFunction{
		storageClient: storageClient,
		documents:     store.NewDocumentStore(firestoreClient, config.DocumentsCollection),
		config:        config,
	}, nil
}

// Process handles one uploaded object: dedupe by content hash, then create
// the initial PENDING document record.
func (f *IngestFunction) Process(ctx context.Context, e GCSEvent) error {
	logCtx := slog.With("gcsBucket", e.Bucket, "gcsObject", e.Name)
	logCtx.Info("Processing new GCS object.")

	if !strings.HasSuffix(strings.ToLower(e.Name), ".pdf") {
		logCtx.Info("Object is not a PDF. Skipping.")
		return nil
	}

	libraryID, year, err := parseUploadPath(e.Name)
	if err != nil {
		logCtx.Warn("Object path does not match {libraryId}/{year}/{filename}.pdf. Skipping.", "error", err)
		return nil
	}

	fileHash, err := f.hashObject(ctx, e.Bucket, e.Name)
	if err != nil {
		logCtx.Error("Failed to hash uploaded object", "error", err)
		return err
	}
	logCtx = logCtx.With("fileHash", fileHash)

	existingID, isDuplicate, err := f.documents.FindByHash(ctx, fileHash)
	if err != nil {
		logCtx.Error("Failed to check for duplicate", "error", err)
		return err
	}
	if isDuplicate {
		logCtx.Info("Duplicate file detected. Skipping.", "existingDocId", existingID)
		return nil
	}

	doc := &models.Document{
		LibraryID:        libraryID,
		Year:             year,
		FileURL:          fmt.Sprintf("gs://%s/%s", e.Bucket, e.Name),
		OriginalFilename: path.Base(e.Name),
		FileHash:         fileHash,
		Status:           models.StatusPending,
		CreatedAt:        time.Now(),
	}
	documentID, err := f.documents.Create(ctx, doc)
	if err != nil {
		logCtx.Error("Failed to create initial document record", "error", err)
		return err
	}

	logCtx.Info("Created document record.", "documentId", documentID, "libraryId", libraryID, "year", year)
	return nil
}

// hashObject streams the object and returns its SHA-256 hex digest.
func (f *IngestFunction) hashObject(ctx context.Context, bucket, object string) (string, error) {
	reader, err := f.storageClient.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get GCS object reader for gs://%s/%s: %w", bucket, object, err)
	}
	defer reader.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, reader); err != nil {
		return "", fmt.Errorf("failed to hash GCS object: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// parseUploadPath extracts the library ID and report year from an object
// path of the form {libraryId}/{year}/{filename}.pdf.
func parseUploadPath(objectName string) (libraryID string, year int, err error) {
	parts := strings.Split(objectName, "/")
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return "", 0, fmt.Errorf("unexpected object path %q", objectName)
	}
	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("invalid year segment %q in object path", parts[1])
	}
	return parts[0], year, nil
}
