package gcp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/libraryreportflow/internal/models"
)

func TestParseGCSRef(t *testing.T) {
	tests := []struct {
		name       string
		ref        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{
			name:       "simple reference",
			ref:        "gs://uploads/report.pdf",
			wantBucket: "uploads",
			wantObject: "report.pdf",
		},
		{
			name:       "nested object path",
			ref:        "gs://uploads/lib-1/2024/report.pdf",
			wantBucket: "uploads",
			wantObject: "lib-1/2024/report.pdf",
		},
		{
			name:    "missing object",
			ref:     "gs://uploads",
			wantErr: true,
		},
		{
			name:    "missing bucket",
			ref:     "gs:///report.pdf",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, object, err := ParseGCSRef(tt.ref)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantObject, object)
		})
	}
}

func TestFetchBlobHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/report.pdf" {
			w.Write([]byte("%PDF-content"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	data, err := FetchBlob(context.Background(), nil, server.URL+"/report.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-content"), data)
}

func TestFetchBlobHTTPNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := FetchBlob(context.Background(), nil, server.URL+"/missing.pdf")
	require.Error(t, err)

	var fetchErr *models.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestFetchBlobUnreachableHost(t *testing.T) {
	_, err := FetchBlob(context.Background(), nil, "http://127.0.0.1:1/report.pdf")
	require.Error(t, err)

	var fetchErr *models.FetchError
	assert.True(t, errors.As(err, &fetchErr))
}
