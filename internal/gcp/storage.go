package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"github.com/Lllllllleong/libraryreportflow/internal/models"
)

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// FetchBlob returns the raw bytes behind a document's byte-reference.
// It supports gs://bucket/object references and plain http(s) URLs. Any
// transport failure or non-success status surfaces as a *models.FetchError.
func FetchBlob(ctx context.Context, client *storage.Client, ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "gs://") {
		return fetchGCSObject(ctx, client, ref)
	}
	return fetchHTTP(ctx, ref)
}

func fetchGCSObject(ctx context.Context, client *storage.Client, ref string) ([]byte, error) {
	bucket, object, err := ParseGCSRef(ref)
	if err != nil {
		return nil, &models.FetchError{Ref: ref, Err: err}
	}

	reader, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return nil, &models.FetchError{Ref: ref, StatusCode: gerr.Code, Err: err}
		}
		return nil, &models.FetchError{Ref: ref, Err: err}
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, &models.FetchError{Ref: ref, Err: fmt.Errorf("failed to read GCS object: %w", err)}
	}
	return data, nil
}

func fetchHTTP(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, &models.FetchError{Ref: ref, Err: err}
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, &models.FetchError{Ref: ref, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &models.FetchError{Ref: ref, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.FetchError{Ref: ref, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	return data, nil
}

// ParseGCSRef splits a gs://bucket/object reference into bucket and object.
func ParseGCSRef(ref string) (bucket, object string, err error) {
	trimmed := strings.TrimPrefix(ref, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed GCS reference: %s", ref)
	}
	return parts[0], parts[1], nil
}
