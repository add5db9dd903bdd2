package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/Lllllllleong/libraryreportflow/internal/models"
	"github.com/Lllllllleong/libraryreportflow/internal/services"
)

var (
	processorInstance *services.Processor
	once              sync.Once
	initErr           error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Register the HTTP function with the framework.
	// "HandleProcessReport" is the entry point name configured in GCP.
	functions.HTTP("HandleProcessReport", handleProcessReport)
}

// main is required by the Go Functions Framework.
func main() {}

// handleProcessReport accepts a document ID, dispatches the pipeline run in
// a detached goroutine, and acknowledges immediately. The caller observes
// completion by polling the document record; there is no cancellation.
func handleProcessReport(w http.ResponseWriter, r *http.Request) {
	// Use sync.Once for robust, one-time initialization of clients.
	once.Do(func() {
		processorInstance, initErr = services.NewProcessor(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical: Processor initialization failed", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	var req models.ProcessReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Could not decode request body", "error", err)
		http.Error(w, "Bad Request: could not parse JSON", http.StatusBadRequest)
		return
	}
	if req.DocumentID == "" {
		http.Error(w, "Bad Request: documentId is required", http.StatusBadRequest)
		return
	}

	// Detached from the request context: the run outlives this response.
	go processorInstance.Process(context.Background(), req.DocumentID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(models.ProcessReportResponse{
		Status:     "accepted",
		DocumentID: req.DocumentID,
	}); err != nil {
		slog.Error("Failed to write response", "error", err, "documentId", req.DocumentID)
	}
}
