package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"

	"github.com/Lllllllleong/libraryreportflow/internal/chunker"
	"github.com/Lllllllleong/libraryreportflow/internal/gcp"
	"github.com/Lllllllleong/libraryreportflow/internal/models"
	"github.com/Lllllllleong/libraryreportflow/internal/pdftext"
	"github.com/Lllllllleong/libraryreportflow/internal/store"
)

// Narrow collaborator contracts consumed by the orchestrator. The Firestore
// stores and the Vertex extractor satisfy them in production; tests inject
// fakes.
type documentStore interface {
	Get(ctx context.Context, id string) (*models.Document, error)
	SetStatus(ctx context.Context, id, status, errDetails string) error
}

type libraryStore interface {
	Get(ctx context.Context, id string) (*models.Library, error)
}

type resultStore interface {
	Save(ctx context.Context, documentID string, record *models.FinalRecord) error
}

type chunkOracle interface {
	ExtractChunk(ctx context.Context, chunkText string, year int, libraryName string) (*models.PartialRecord, error)
}

// ProcessorConfig holds all configuration for the pipeline orchestrator.
type ProcessorConfig struct {
	ProjectID           string
	VertexAIRegion      string
	DocumentsCollection string
	LibrariesCollection string
	ReportsCollection   string
	MaxChunkTokens      int
	ChunkWorkers        int
}

// Processor drives one document's pipeline run: fetch bytes, extract text,
// chunk, extract each chunk, merge, persist.
type Processor struct {
	documents   documentStore
	libraries   libraryStore
	results     resultStore
	oracle      chunkOracle
	fetchBlob   func(ctx context.Context, ref string) ([]byte, error)
	extractText func(data []byte) (string, error)

	maxChunkTokens int
	chunkWorkers   int

	// held for teardown only
	firestoreClient *firestore.Client
	storageClient   *storage.Client
	vertexClient    *gcp.VertexClient
}

func loadProcessorConfig() (*ProcessorConfig, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}

	maxChunkTokens := chunker.DefaultMaxTokens
	if v := gcp.GetEnv("MAX_CHUNK_TOKENS", ""); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("MAX_CHUNK_TOKENS must be a positive integer, got %q", v)
		}
		maxChunkTokens = parsed
	}

	return &ProcessorConfig{
		ProjectID:           projectID,
		VertexAIRegion:      gcp.GetEnv("VERTEX_AI_REGION", "us-central1"),
		DocumentsCollection: gcp.GetEnv("FIRESTORE_DOCUMENTS_COLLECTION", "documents"),
		LibrariesCollection: gcp.GetEnv("FIRESTORE_LIBRARIES_COLLECTION", "libraries"),
		ReportsCollection:   gcp.GetEnv("FIRESTORE_REPORTS_COLLECTION", "reports"),
		MaxChunkTokens:      maxChunkTokens,
		ChunkWorkers:        3,
	}, nil
}

// NewProcessor creates a Processor with all production clients wired in. A
// failure here (missing project, unreachable credentials) is the one
// irrecoverable setup failure of a run: nothing has been attempted yet.
func NewProcessor(ctx context.Context) (*Processor, error) {
	config, err := loadProcessorConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	vertexClient, err := gcp.NewVertexClient(ctx, config.ProjectID, config.VertexAIRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}

	return &Processor{
		documents: store.NewDocumentStore(firestoreClient, config.DocumentsCollection),
		libraries: store.NewLibraryStore(firestoreClient, config.LibrariesCollection),
		results:   store.NewResultStore(firestoreClient, config.ReportsCollection),
		oracle:    NewChunkExtractor(vertexClient),
		fetchBlob: func(ctx context.Context, ref string) ([]byte, error) {
			return gcp.FetchBlob(ctx, storageClient, ref)
		},
		extractText:     pdftext.Extract,
		maxChunkTokens:  config.MaxChunkTokens,
		chunkWorkers:    config.ChunkWorkers,
		firestoreClient: firestoreClient,
		storageClient:   storageClient,
		vertexClient:    vertexClient,
	}, nil
}

// Close releases the clients held by the processor. Scoped to one process
// lifetime.
func (p *Processor) Close() error {
	var firstErr error
	if p.vertexClient != nil {
		if err := p.vertexClient.Close(); err != nil {
			firstErr = err
		}
	}
	if p.storageClient != nil {
		if err := p.storageClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if p.firestoreClient != nil {
		if err := p.firestoreClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Process runs the full pipeline for one document and reports whether it
// reached COMPLETED. It never returns an error: fatal failures are logged
// and written to the document record, which collaborators poll.
func (p *Processor) Process(ctx context.Context, documentID string) bool {
	logCtx := slog.With("documentId", documentID)
	logCtx.Info("Starting report processing.")

	doc, err := p.documents.Get(ctx, documentID)
	if err != nil {
		return p.fail(ctx, logCtx, documentID, err)
	}

	if err := p.documents.SetStatus(ctx, documentID, models.StatusProcessing, ""); err != nil {
		return p.fail(ctx, logCtx, documentID, &models.PersistenceError{Op: "mark document processing", Err: err})
	}

	library, err := p.libraries.Get(ctx, doc.LibraryID)
	if err != nil {
		return p.fail(ctx, logCtx, documentID, err)
	}
	logCtx = logCtx.With("library", library.Name, "year", doc.Year)

	data, err := p.fetchBlob(ctx, doc.FileURL)
	if err != nil {
		return p.fail(ctx, logCtx, documentID, err)
	}

	text, err := p.extractText(data)
	if err != nil {
		return p.fail(ctx, logCtx, documentID, err)
	}

	chunks, err := chunker.Split(text, p.maxChunkTokens)
	if err != nil {
		return p.fail(ctx, logCtx, documentID, err)
	}
	logCtx.Info("Document text chunked.", "chunkCount", len(chunks), "textBytes", len(text))

	partials := p.extractAll(ctx, logCtx, chunks, doc.Year, library.Name)
	final := MergeRecords(partials)

	if err := p.results.Save(ctx, documentID, final); err != nil {
		return p.fail(ctx, logCtx, documentID, err)
	}

	if err := p.documents.SetStatus(ctx, documentID, models.StatusCompleted, ""); err != nil {
		return p.fail(ctx, logCtx, documentID, &models.PersistenceError{Op: "mark document completed", Err: err})
	}

	logCtx.Info("Report processing completed.")
	return true
}

// extractAll runs every chunk through the extraction model. Per-chunk
// failures are logged and contribute an empty partial; they never abort the
// run. Results are slotted by chunk index so merge order always equals
// document order regardless of worker scheduling.
func (p *Processor) extractAll(ctx context.Context, logCtx *slog.Logger, chunks []string, year int, libraryName string) []*models.PartialRecord {
	partials := make([]*models.PartialRecord, len(chunks))

	var eg errgroup.Group
	eg.SetLimit(p.chunkWorkers)

	for i, chunk := range chunks {
		eg.Go(func() error {
			partial, err := p.oracle.ExtractChunk(ctx, chunk, year, libraryName)
			if err != nil {
				logCtx.Warn("Chunk extraction failed. Skipping chunk.", "chunkIndex", i, "error", err)
				partials[i] = &models.PartialRecord{}
				return nil
			}
			partials[i] = partial
			return nil
		})
	}
	_ = eg.Wait() // workers never return errors; failures are contained above

	return partials
}

// fail records a fatal pipeline error on the document and returns false. The
// status write itself is best-effort: its failure is logged, never rethrown.
func (p *Processor) fail(ctx context.Context, logCtx *slog.Logger, documentID string, cause error) bool {
	logCtx.Error("Report processing failed.", "error", cause)
	if err := p.documents.SetStatus(ctx, documentID, models.StatusFailed, cause.Error()); err != nil {
		logCtx.Error("CRITICAL: Failed to update document status to FAILED after a processing error.", "updateError", err)
	}
	return false
}
